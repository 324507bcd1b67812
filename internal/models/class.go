package models

import "time"

// ClassSpec is a class requirement that has not yet been bound to a teacher
// or time.
type ClassSpec struct {
	ID         string `json:"id" validate:"required"`
	Subject    string `json:"subject" validate:"required"`
	Duration   int    `json:"duration" validate:"min=1"`
	Room       string `json:"room" validate:"required"`
	CourseCode string `json:"course_code" validate:"required"`
}

// DurationTime converts the duration in minutes to a time.Duration.
func (c ClassSpec) DurationTime() time.Duration {
	return time.Duration(c.Duration) * time.Minute
}
