package query

import (
	"reflect"
	"testing"

	"github.com/Memaso-max/schedule-sync-service/internal/models"
)

func testSnapshot() models.Snapshot {
	return models.Snapshot{
		Users: []models.User{
			{ID: "admin-1", Name: "Dirección", Role: models.RoleAdmin},
			{ID: "teacher-1", Name: "María", Role: models.RoleTeacher},
			{ID: "teacher-2", Name: "Carlos", Role: models.RoleTeacher},
		},
		Subjects: []models.Subject{
			{ID: "subject-1", Name: "Matemáticas", TeacherID: "teacher-1"},
			{ID: "subject-2", Name: "Español", TeacherID: "teacher-2"},
		},
		Schedule: []models.ClassPeriod{
			{ID: "p1", SubjectID: "subject-1", Day: 1, StartTime: "08:40", EndTime: "09:30", Room: "101", Grade: "1", Group: "A"},
			{ID: "p2", SubjectID: "subject-2", Day: 1, StartTime: "07:00", EndTime: "07:50", Room: "102", Grade: "1", Group: "A"},
			{ID: "p3", SubjectID: "subject-1", Day: 2, StartTime: "07:50", EndTime: "08:40", Room: "101", Grade: "2", Group: "B"},
		},
	}
}

func startTimes(periods []models.ClassPeriod) []string {
	out := make([]string, len(periods))
	for i, p := range periods {
		out[i] = p.StartTime
	}
	return out
}

func TestScheduleForUserTeacherRestriction(t *testing.T) {
	snap := testSnapshot()
	teacher := &models.User{ID: "teacher-1", Role: models.RoleTeacher}

	periods := ScheduleForUser(snap, teacher, nil)
	if len(periods) != 2 {
		t.Fatalf("expected 2 periods for teacher-1, got %d", len(periods))
	}
	for _, p := range periods {
		if p.SubjectID != "subject-1" {
			t.Errorf("period %s belongs to %s, not a subject of teacher-1", p.ID, p.SubjectID)
		}
	}
}

func TestScheduleForUserAdminUnrestricted(t *testing.T) {
	snap := testSnapshot()

	for _, user := range []*models.User{
		{ID: "admin-1", Role: models.RoleAdmin},
		{ID: "student-1A", Role: models.RoleStudent},
	} {
		if got := len(ScheduleForUser(snap, user, nil)); got != 3 {
			t.Errorf("role %s: expected full schedule (3), got %d", user.Role, got)
		}
	}
}

func TestScheduleForUserNil(t *testing.T) {
	if got := ScheduleForUser(testSnapshot(), nil, nil); len(got) != 0 {
		t.Fatalf("nil user should see nothing, got %d periods", len(got))
	}
}

func TestScheduleForUserDayFilterAndSort(t *testing.T) {
	snap := testSnapshot()
	admin := &models.User{ID: "admin-1", Role: models.RoleAdmin}
	day := 1

	periods := ScheduleForUser(snap, admin, &day)
	want := []string{"07:00", "08:40"}
	if !reflect.DeepEqual(startTimes(periods), want) {
		t.Fatalf("expected start times %v, got %v", want, startTimes(periods))
	}
}

func TestScheduleForRoom(t *testing.T) {
	snap := testSnapshot()

	periods := ScheduleForRoom(snap, "101", nil)
	want := []string{"07:50", "08:40"}
	if !reflect.DeepEqual(startTimes(periods), want) {
		t.Fatalf("expected start times %v, got %v", want, startTimes(periods))
	}
	if got := ScheduleForRoom(snap, "999", nil); len(got) != 0 {
		t.Errorf("unknown room should match nothing, got %d", len(got))
	}
}

func TestGradeGroupRoundTrip(t *testing.T) {
	snap := testSnapshot()

	groups := AllGradeGroups(snap)
	want := []string{"1A", "2B"}
	if !reflect.DeepEqual(groups, want) {
		t.Fatalf("expected grade groups %v, got %v", want, groups)
	}

	periods := ScheduleForGradeGroup(snap, "1A", nil)
	if len(periods) != 2 {
		t.Fatalf("expected 2 periods for 1A, got %d", len(periods))
	}
	for _, p := range periods {
		if p.Grade != "1" || p.Group != "A" {
			t.Errorf("period %s is %s%s, not 1A", p.ID, p.Grade, p.Group)
		}
	}
	if got := startTimes(periods); !reflect.DeepEqual(got, []string{"07:00", "08:40"}) {
		t.Errorf("expected sorted start times, got %v", got)
	}

	if got := ScheduleForGradeGroup(snap, "", nil); len(got) != 0 {
		t.Errorf("empty section key should match nothing, got %d", len(got))
	}
}

func TestAllRooms(t *testing.T) {
	rooms := AllRooms(testSnapshot())
	if !reflect.DeepEqual(rooms, []string{"101", "102"}) {
		t.Fatalf("expected [101 102], got %v", rooms)
	}
}

func TestLookups(t *testing.T) {
	snap := testSnapshot()

	if subj := SubjectByID(snap, "subject-2"); subj == nil || subj.Name != "Español" {
		t.Errorf("SubjectByID(subject-2) = %v", subj)
	}
	if subj := SubjectByID(snap, "missing"); subj != nil {
		t.Errorf("expected nil for missing subject, got %v", subj)
	}
	if teacher := TeacherByID(snap, "teacher-1"); teacher == nil || teacher.Name != "María" {
		t.Errorf("TeacherByID(teacher-1) = %v", teacher)
	}
	// A user id that exists but is not a teacher does not resolve.
	if teacher := TeacherByID(snap, "admin-1"); teacher != nil {
		t.Errorf("expected nil for non-teacher id, got %v", teacher)
	}
}

func TestQueriesTolerateMalformedPeriods(t *testing.T) {
	snap := testSnapshot()
	snap.Schedule = append(snap.Schedule, models.ClassPeriod{
		ID: "broken", SubjectID: "missing", Day: 9, StartTime: "", EndTime: "bad", Room: "101",
	})

	// Malformed entries sort first (empty string) but must not panic and must
	// still be included where filters match.
	periods := ScheduleForRoom(snap, "101", nil)
	if len(periods) != 3 {
		t.Fatalf("expected malformed period included, got %d", len(periods))
	}
	if periods[0].ID != "broken" {
		t.Errorf("empty start time should sort first, got %s", periods[0].ID)
	}
}
