// Package query provides pure projections over a snapshot value. Nothing
// here memoizes or mutates: callers grab a snapshot from the store and derive
// whatever view they need, and recomputing from scratch always yields the
// same result.
package query

import (
	"sort"
	"strings"

	"github.com/Memaso-max/schedule-sync-service/internal/models"
)

// ScheduleForUser returns the class periods relevant to a user, optionally
// restricted to one day, sorted by start time. Teachers only see periods of
// subjects they teach; admins and students see the full schedule. A nil user
// sees nothing.
func ScheduleForUser(snap models.Snapshot, user *models.User, day *int) []models.ClassPeriod {
	if user == nil {
		return []models.ClassPeriod{}
	}

	var owned map[string]bool
	if user.Role == models.RoleTeacher {
		owned = make(map[string]bool)
		for _, subj := range snap.Subjects {
			if subj.TeacherID == user.ID {
				owned[subj.ID] = true
			}
		}
	}

	return filterPeriods(snap.Schedule, func(p models.ClassPeriod) bool {
		if owned != nil && !owned[p.SubjectID] {
			return false
		}
		return day == nil || p.Day == *day
	})
}

// ScheduleForRoom returns the periods held in a room, optional day, sorted by
// start time.
func ScheduleForRoom(snap models.Snapshot, room string, day *int) []models.ClassPeriod {
	return filterPeriods(snap.Schedule, func(p models.ClassPeriod) bool {
		return p.Room == room && (day == nil || p.Day == *day)
	})
}

// ScheduleForGradeGroup returns the periods of one section ("1A"), optional
// day, sorted by start time. An empty key matches nothing.
func ScheduleForGradeGroup(snap models.Snapshot, sectionKey string, day *int) []models.ClassPeriod {
	if sectionKey == "" {
		return []models.ClassPeriod{}
	}
	grade, group := models.SplitSectionKey(sectionKey)
	return filterPeriods(snap.Schedule, func(p models.ClassPeriod) bool {
		return p.Grade == grade && p.Group == group && (day == nil || p.Day == *day)
	})
}

// AllRooms returns the distinct rooms in the schedule, sorted ascending.
func AllRooms(snap models.Snapshot) []string {
	return distinct(snap.Schedule, func(p models.ClassPeriod) string { return p.Room })
}

// AllGradeGroups returns the distinct section keys in the schedule, sorted
// ascending.
func AllGradeGroups(snap models.Snapshot) []string {
	return distinct(snap.Schedule, func(p models.ClassPeriod) string {
		return models.SectionKey(p.Grade, p.Group)
	})
}

// SubjectByID returns the subject or nil.
func SubjectByID(snap models.Snapshot, id string) *models.Subject {
	for i := range snap.Subjects {
		if snap.Subjects[i].ID == id {
			subj := snap.Subjects[i]
			return &subj
		}
	}
	return nil
}

// TeacherByID returns the user only if it exists and has the teacher role.
func TeacherByID(snap models.Snapshot, id string) *models.User {
	for i := range snap.Users {
		if snap.Users[i].ID == id && snap.Users[i].Role == models.RoleTeacher {
			u := snap.Users[i]
			return &u
		}
	}
	return nil
}

func filterPeriods(schedule []models.ClassPeriod, keep func(models.ClassPeriod) bool) []models.ClassPeriod {
	out := []models.ClassPeriod{}
	for _, p := range schedule {
		if keep(p) {
			out = append(out, p)
		}
	}
	// Zero-padded HH:MM makes lexical order chronological order; stable so
	// equal start times keep their document order.
	sort.SliceStable(out, func(i, j int) bool {
		return strings.Compare(out[i].StartTime, out[j].StartTime) < 0
	})
	return out
}

func distinct(schedule []models.ClassPeriod, keyOf func(models.ClassPeriod) string) []string {
	seen := make(map[string]bool)
	out := []string{}
	for _, p := range schedule {
		key := keyOf(p)
		if !seen[key] {
			seen[key] = true
			out = append(out, key)
		}
	}
	sort.Strings(out)
	return out
}
