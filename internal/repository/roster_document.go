package repository

import (
	"fmt"
	"strings"

	"github.com/noah-isme/sma-timetable/internal/models"
	appErrors "github.com/noah-isme/sma-timetable/pkg/errors"
)

// rosterDocument mirrors the roster JSON layout. Timestamps stay strings so
// zone-less values such as "2023-05-01T09:00:00" are accepted.
type rosterDocument struct {
	Teachers []teacherDocument `json:"teachers"`
	Classes  []classDocument   `json:"classes"`
	Students []studentDocument `json:"students"`
}

type teacherDocument struct {
	ID           string         `json:"id"`
	Name         string         `json:"name"`
	Subjects     []string       `json:"subjects_taught"`
	Availability []slotDocument `json:"availability"`
}

type slotDocument struct {
	Day   string `json:"day"`
	Start string `json:"start_time"`
	End   string `json:"end_time"`
}

type classDocument struct {
	ID         string `json:"id"`
	Subject    string `json:"subject"`
	Duration   int    `json:"duration"`
	Room       string `json:"room"`
	CourseCode string `json:"course_code"`
}

type studentDocument struct {
	ID      string   `json:"id"`
	Courses []string `json:"courses"`
}

func (d rosterDocument) toRoster() (*models.Roster, error) {
	roster := &models.Roster{
		Teachers: make([]models.Teacher, 0, len(d.Teachers)),
		Classes:  make([]models.ClassSpec, 0, len(d.Classes)),
		Students: make([]models.Student, 0, len(d.Students)),
	}
	for _, t := range d.Teachers {
		teacher := models.Teacher{ID: t.ID, Name: t.Name, Subjects: t.Subjects}
		for i, s := range t.Availability {
			slot, err := parseSlot(s.Day, s.Start, s.End)
			if err != nil {
				return nil, invalidRoster("teacher %s availability %d: %v", t.ID, i+1, err)
			}
			teacher.Availability = append(teacher.Availability, slot)
		}
		roster.Teachers = append(roster.Teachers, teacher)
	}
	for _, c := range d.Classes {
		roster.Classes = append(roster.Classes, models.ClassSpec(c))
	}
	for _, s := range d.Students {
		roster.Students = append(roster.Students, models.Student(s))
	}
	return roster, nil
}

func parseSlot(day, start, end string) (models.TimeSlot, error) {
	weekday, err := models.ParseWeekday(day)
	if err != nil {
		return models.TimeSlot{}, err
	}
	startAt, err := models.ParseSlotTime(start)
	if err != nil {
		return models.TimeSlot{}, err
	}
	endAt, err := models.ParseSlotTime(end)
	if err != nil {
		return models.TimeSlot{}, err
	}
	return models.TimeSlot{Day: weekday, Start: startAt, End: endAt}, nil
}

// splitList splits a comma separated cell ("MATH101, PHYS101") into values.
func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func invalidRoster(format string, args ...interface{}) error {
	return appErrors.Clone(appErrors.ErrInvalidRoster, fmt.Sprintf(format, args...))
}
