package models

// ClassPeriod is one slot in the weekly timetable. Day is 0 (Sunday) through
// 6 (Saturday); times are zero-padded "HH:MM" strings, which makes lexical
// comparison equivalent to chronological comparison. Grade and Group together
// identify a section ("1" + "A" = section "1A").
//
// Nothing here enforces StartTime < EndTime or Day being a school day; entries
// come from the admin panel or the remote document as-is and consumers must
// tolerate malformed ones.
type ClassPeriod struct {
	ID        string `json:"id"`
	SubjectID string `json:"subjectId"`
	Day       int    `json:"day"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	Room      string `json:"room"`
	Grade     string `json:"grade"`
	Group     string `json:"group"`
}

// SectionKey joins grade and group into the compact section identifier used
// across the app ("1"+"A" -> "1A").
func SectionKey(grade, group string) string {
	return grade + group
}

// SplitSectionKey is the inverse of SectionKey: everything but the last rune
// is the grade, the last rune is the group. An empty key yields two empty
// strings.
func SplitSectionKey(key string) (grade, group string) {
	runes := []rune(key)
	if len(runes) == 0 {
		return "", ""
	}
	return string(runes[:len(runes)-1]), string(runes[len(runes)-1:])
}

// DayNames maps ClassPeriod.Day to its display name.
var DayNames = []string{
	"Domingo",
	"Lunes",
	"Martes",
	"Miércoles",
	"Jueves",
	"Viernes",
	"Sábado",
}

// SchoolDays are the days classes are actually scheduled on (Monday-Friday).
var SchoolDays = []int{1, 2, 3, 4, 5}

// TimeSlot is one of the fixed periods of the school day.
type TimeSlot struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// TimeSlots is the bell schedule the admin panel offers when creating periods.
var TimeSlots = []TimeSlot{
	{Start: "07:00", End: "07:50"},
	{Start: "07:50", End: "08:40"},
	{Start: "08:40", End: "09:30"},
	{Start: "09:30", End: "10:00"},
	{Start: "10:00", End: "10:50"},
	{Start: "10:50", End: "11:40"},
	{Start: "11:40", End: "12:30"},
	{Start: "12:30", End: "13:20"},
}
