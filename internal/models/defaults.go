package models

// DefaultSnapshot is the baked-in dataset a fresh install starts from. It is
// replaced by the first successful remote bootstrap, but a device that never
// reaches the network still has a working schedule to show.
func DefaultSnapshot() Snapshot {
	users := []User{
		{ID: "admin-1", Name: "Dirección", Role: RoleAdmin},
		{ID: "teacher-1", Name: "María González", Role: RoleTeacher},
		{ID: "teacher-2", Name: "Carlos Ramírez", Role: RoleTeacher},
		{ID: "teacher-3", Name: "Lucía Fernández", Role: RoleTeacher},
	}
	subjects := []Subject{
		{ID: "subject-1", Name: "Matemáticas", TeacherID: "teacher-1", Color: SubjectColors[0]},
		{ID: "subject-2", Name: "Español", TeacherID: "teacher-2", Color: SubjectColors[1]},
		{ID: "subject-3", Name: "Ciencias", TeacherID: "teacher-3", Color: SubjectColors[2]},
	}
	schedule := []ClassPeriod{
		{ID: "period-1", SubjectID: "subject-1", Day: 1, StartTime: "07:00", EndTime: "07:50", Room: "101", Grade: "1", Group: "A"},
		{ID: "period-2", SubjectID: "subject-2", Day: 1, StartTime: "07:50", EndTime: "08:40", Room: "101", Grade: "1", Group: "A"},
		{ID: "period-3", SubjectID: "subject-3", Day: 2, StartTime: "08:40", EndTime: "09:30", Room: "102", Grade: "1", Group: "B"},
	}
	return Snapshot{Users: users, Subjects: subjects, Schedule: schedule}
}
