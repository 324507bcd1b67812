package repository

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/noah-isme/sma-timetable/internal/models"
	appErrors "github.com/noah-isme/sma-timetable/pkg/errors"
)

// Workbook sheet names. The first row of every sheet is a header and is skipped.
const (
	SheetTeachers     = "Teachers"     // id | name | subjects (comma separated)
	SheetAvailability = "Availability" // teacher_id | day | start_time | end_time
	SheetClasses      = "Classes"      // id | subject | duration | room | course_code
	SheetStudents     = "Students"     // id | courses (comma separated)
)

// WorkbookRosterLoader reads a roster from an XLSX workbook.
type WorkbookRosterLoader struct {
	path string
}

// NewWorkbookRosterLoader constructs a loader for the workbook at path.
func NewWorkbookRosterLoader(path string) *WorkbookRosterLoader {
	return &WorkbookRosterLoader{path: path}
}

// Key identifies the loaded roster for caching.
func (l *WorkbookRosterLoader) Key() string {
	return string(models.RosterSourceXLSX) + ":" + l.path
}

// Load parses the four roster sheets.
func (l *WorkbookRosterLoader) Load(ctx context.Context) (*models.Roster, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := excelize.OpenFile(l.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("roster workbook %s not found", l.path))
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInvalidRoster.Code, appErrors.ErrInvalidRoster.Status, fmt.Sprintf("open roster workbook %s", l.path))
	}
	defer f.Close() //nolint:errcheck

	teacherRows, err := sheetRows(f, SheetTeachers)
	if err != nil {
		return nil, err
	}
	availabilityRows, err := sheetRows(f, SheetAvailability)
	if err != nil {
		return nil, err
	}
	classRows, err := sheetRows(f, SheetClasses)
	if err != nil {
		return nil, err
	}
	studentRows, err := sheetRows(f, SheetStudents)
	if err != nil {
		return nil, err
	}

	var doc rosterDocument
	teacherIndex := make(map[string]int, len(teacherRows))
	for _, row := range teacherRows {
		id := cell(row, 0)
		teacherIndex[id] = len(doc.Teachers)
		doc.Teachers = append(doc.Teachers, teacherDocument{ID: id, Name: cell(row, 1), Subjects: splitList(cell(row, 2))})
	}
	for i, row := range availabilityRows {
		pos, ok := teacherIndex[cell(row, 0)]
		if !ok {
			return nil, invalidRoster("%s row %d: unknown teacher %q", SheetAvailability, i+2, cell(row, 0))
		}
		doc.Teachers[pos].Availability = append(doc.Teachers[pos].Availability, slotDocument{Day: cell(row, 1), Start: cell(row, 2), End: cell(row, 3)})
	}
	for i, row := range classRows {
		duration, err := strconv.Atoi(cell(row, 2))
		if err != nil {
			return nil, invalidRoster("%s row %d: duration %q is not a number", SheetClasses, i+2, cell(row, 2))
		}
		doc.Classes = append(doc.Classes, classDocument{
			ID:         cell(row, 0),
			Subject:    cell(row, 1),
			Duration:   duration,
			Room:       cell(row, 3),
			CourseCode: cell(row, 4),
		})
	}
	for _, row := range studentRows {
		doc.Students = append(doc.Students, studentDocument{ID: cell(row, 0), Courses: splitList(cell(row, 1))})
	}

	return doc.toRoster()
}

// sheetRows returns the data rows of a sheet, skipping the header and blank rows.
func sheetRows(f *excelize.File, sheet string) ([][]string, error) {
	if idx, err := f.GetSheetIndex(sheet); err != nil || idx < 0 {
		return nil, invalidRoster("roster workbook is missing sheet %q", sheet)
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheet, err)
	}
	out := make([][]string, 0, len(rows))
	for i, row := range rows {
		if i == 0 || cell(row, 0) == "" {
			continue
		}
		out = append(out, row)
	}
	return out, nil
}

func cell(row []string, i int) string {
	if i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}
