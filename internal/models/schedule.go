package models

import "time"

// ScheduledClass is a class bound to a teacher, room and time interval.
type ScheduledClass struct {
	ClassID     string    `json:"class_id"`
	TeacherID   string    `json:"teacher_id"`
	Room        string    `json:"room"`
	Day         Weekday   `json:"day"`
	Start       time.Time `json:"start_time"`
	End         time.Time `json:"end_time"`
	Subject     string    `json:"subject"`
	TeacherName string    `json:"teacherName"`
}

// Slot returns the interval the class occupies.
func (c ScheduledClass) Slot() TimeSlot {
	return TimeSlot{Day: c.Day, Start: c.Start, End: c.End}
}

// UnscheduledReason classifies why a class could not be placed.
type UnscheduledReason string

const (
	ReasonNoEnrollment UnscheduledReason = "no-enrollment"
	ReasonNoTeacher    UnscheduledReason = "no-teacher"
	ReasonNoSlot       UnscheduledReason = "no-slot"
)

// Reasons lists every reason in reporting order.
var Reasons = []UnscheduledReason{ReasonNoEnrollment, ReasonNoTeacher, ReasonNoSlot}

var reasonMessages = map[UnscheduledReason]string{
	ReasonNoEnrollment: "No students enrolled in this course",
	ReasonNoTeacher:    "No teacher available for this subject",
	ReasonNoSlot:       "No available timeslot found for this class",
}

// Message returns the human readable explanation.
func (r UnscheduledReason) Message() string {
	if msg, ok := reasonMessages[r]; ok {
		return msg
	}
	return string(r)
}

// UnscheduledClass records a class that could not be placed.
type UnscheduledClass struct {
	ClassID string            `json:"class_id"`
	Reason  UnscheduledReason `json:"reason"`
}

// ScheduleResult is the outcome of one scheduling run.
type ScheduleResult struct {
	Scheduled   []ScheduledClass   `json:"scheduledClasses"`
	Unscheduled []UnscheduledClass `json:"unscheduledClasses"`
}
