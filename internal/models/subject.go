package models

// Subject is a course taught by a single teacher. Color is an opaque UI token
// (one of SubjectColors by convention, but never validated here).
type Subject struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	TeacherID string `json:"teacherId"`
	Color     string `json:"color"`
}

// SubjectColors is the default palette the admin panel cycles through when
// creating subjects.
var SubjectColors = []string{
	"#FF6B6B",
	"#4ECDC4",
	"#45B7D1",
	"#FFA07A",
	"#98D8C8",
	"#FFD93D",
	"#6BCF7F",
	"#C77DFF",
	"#FF8FAB",
	"#4CC9F0",
}
