package dto

import (
	"time"

	"github.com/noah-isme/sma-timetable/internal/models"
)

// GenerateTimetableResponse wraps one scheduling run.
type GenerateTimetableResponse struct {
	RunID       string                `json:"runId"`
	GeneratedAt time.Time             `json:"generatedAt"`
	Source      string                `json:"source,omitempty"`
	Result      models.ScheduleResult `json:"result"`
	Summary     TimetableSummary      `json:"summary"`
}

// TimetableSummary aggregates the outcome of a run.
type TimetableSummary struct {
	Scheduled   int                              `json:"scheduled"`
	Unscheduled int                              `json:"unscheduled"`
	ByReason    map[models.UnscheduledReason]int `json:"byReason"`
	Message     string                           `json:"message"`
}

// DayTimetable lists the classes of a single weekday ordered by start time.
type DayTimetable struct {
	Day     models.Weekday          `json:"day"`
	Classes []models.ScheduledClass `json:"classes"`
}

// StudentTimetableResponse is the timetable of one student.
type StudentTimetableResponse struct {
	StudentID string         `json:"studentId"`
	Days      []DayTimetable `json:"days"`
}

// TeacherTimetableResponse is the timetable of one teacher.
type TeacherTimetableResponse struct {
	TeacherID   string         `json:"teacherId"`
	TeacherName string         `json:"teacherName,omitempty"`
	Days        []DayTimetable `json:"days"`
}
