package export

import (
	"testing"

	"github.com/Memaso-max/schedule-sync-service/internal/models"
)

func exportSnapshot() models.Snapshot {
	return models.Snapshot{
		Users: []models.User{
			{ID: "teacher-1", Name: "María González", Role: models.RoleTeacher},
		},
		Subjects: []models.Subject{
			{ID: "subject-1", Name: "Matemáticas", TeacherID: "teacher-1"},
		},
		Schedule: []models.ClassPeriod{
			{ID: "p1", SubjectID: "subject-1", Day: 1, StartTime: "08:40", EndTime: "09:30", Room: "101", Grade: "1", Group: "A"},
			{ID: "p2", SubjectID: "subject-1", Day: 1, StartTime: "07:00", EndTime: "07:50", Room: "101", Grade: "1", Group: "A"},
		},
	}
}

func TestExportGradeGroupSheets(t *testing.T) {
	f, err := ExportGradeGroup(exportSnapshot(), "1A")
	if err != nil {
		t.Fatalf("ExportGradeGroup: %v", err)
	}
	defer f.Close()

	for _, day := range models.SchoolDays {
		if idx, err := f.GetSheetIndex(models.DayNames[day]); err != nil || idx < 0 {
			t.Errorf("missing sheet for %s (idx %d, err %v)", models.DayNames[day], idx, err)
		}
	}
}

func TestExportGradeGroupRowsSorted(t *testing.T) {
	f, err := ExportGradeGroup(exportSnapshot(), "1A")
	if err != nil {
		t.Fatalf("ExportGradeGroup: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows("Lunes")
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	// Header plus two periods, earliest first.
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows on Lunes, got %d", len(rows))
	}
	if rows[1][0] != "07:00" || rows[2][0] != "08:40" {
		t.Errorf("rows not sorted by start time: %v / %v", rows[1][0], rows[2][0])
	}
	if rows[1][2] != "Matemáticas" || rows[1][3] != "María González" {
		t.Errorf("subject/teacher not resolved: %v", rows[1])
	}
}

func TestExportRoomEmptyDay(t *testing.T) {
	f, err := ExportRoom(exportSnapshot(), "999")
	if err != nil {
		t.Fatalf("ExportRoom: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows("Martes")
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected header only for empty day, got %d rows", len(rows))
	}
}
