package models

import "fmt"

type UserRole string

const (
	RoleStudent UserRole = "student"
	RoleTeacher UserRole = "teacher"
	RoleAdmin   UserRole = "admin"
)

// User is a person known to the schedule: a teacher, the admin account, or a
// student session. Students are usually not registered; they get a lightweight
// session scoped to their section (see NewStudentSession).
type User struct {
	ID   string   `json:"id"`
	Name string   `json:"name"`
	Role UserRole `json:"role"`
}

// NewStudentSession builds the throwaway user a student gets when they pick
// their section on the welcome screen. No credential, no registration.
func NewStudentSession(sectionKey string) User {
	return User{
		ID:   "student-" + sectionKey,
		Name: fmt.Sprintf("Estudiante %s", sectionKey),
		Role: RoleStudent,
	}
}
