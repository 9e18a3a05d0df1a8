// Package export renders schedules to spreadsheets, one sheet per school
// day. Admins hand the files to teachers who want a printable timetable.
package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/Memaso-max/schedule-sync-service/internal/models"
	"github.com/Memaso-max/schedule-sync-service/internal/query"
)

// ExportGradeGroup builds a workbook with the section's periods, one sheet
// per school day. Caller owns closing/saving the file.
func ExportGradeGroup(snap models.Snapshot, sectionKey string) (*excelize.File, error) {
	return build(snap, fmt.Sprintf("Horario %s", sectionKey), func(day int) []models.ClassPeriod {
		return query.ScheduleForGradeGroup(snap, sectionKey, &day)
	})
}

// ExportRoom builds a workbook with a room's occupancy, one sheet per school
// day.
func ExportRoom(snap models.Snapshot, room string) (*excelize.File, error) {
	return build(snap, fmt.Sprintf("Aula %s", room), func(day int) []models.ClassPeriod {
		return query.ScheduleForRoom(snap, room, &day)
	})
}

var header = []string{"Inicio", "Fin", "Materia", "Docente", "Aula", "Sección"}

func build(snap models.Snapshot, title string, periodsFor func(day int) []models.ClassPeriod) (*excelize.File, error) {
	f := excelize.NewFile()

	for _, day := range models.SchoolDays {
		sheet := models.DayNames[day]
		if _, err := f.NewSheet(sheet); err != nil {
			return nil, fmt.Errorf("creating sheet %s: %w", sheet, err)
		}
		if err := writeRow(f, sheet, 1, header); err != nil {
			return nil, err
		}
		for i, p := range periodsFor(day) {
			row := []string{
				p.StartTime,
				p.EndTime,
				subjectName(snap, p.SubjectID),
				teacherName(snap, p.SubjectID),
				p.Room,
				models.SectionKey(p.Grade, p.Group),
			}
			if err := writeRow(f, sheet, i+2, row); err != nil {
				return nil, err
			}
		}
	}

	// Replace the default sheet with a title placeholder.
	if err := f.SetSheetName("Sheet1", title); err != nil {
		return nil, fmt.Errorf("renaming title sheet: %w", err)
	}
	return f, nil
}

func writeRow(f *excelize.File, sheet string, row int, values []string) error {
	for col, val := range values {
		cell, err := excelize.CoordinatesToCellName(col+1, row)
		if err != nil {
			return fmt.Errorf("addressing cell: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, val); err != nil {
			return fmt.Errorf("writing cell %s!%s: %w", sheet, cell, err)
		}
	}
	return nil
}

func subjectName(snap models.Snapshot, subjectID string) string {
	if subj := query.SubjectByID(snap, subjectID); subj != nil {
		return subj.Name
	}
	return ""
}

func teacherName(snap models.Snapshot, subjectID string) string {
	subj := query.SubjectByID(snap, subjectID)
	if subj == nil {
		return ""
	}
	if teacher := query.TeacherByID(snap, subj.TeacherID); teacher != nil {
		return teacher.Name
	}
	return ""
}
