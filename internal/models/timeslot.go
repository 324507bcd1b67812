package models

import (
	"fmt"
	"strings"
	"time"
)

// Weekday names a calendar day the way rosters spell it.
type Weekday string

const (
	Monday    Weekday = "Monday"
	Tuesday   Weekday = "Tuesday"
	Wednesday Weekday = "Wednesday"
	Thursday  Weekday = "Thursday"
	Friday    Weekday = "Friday"
	Saturday  Weekday = "Saturday"
	Sunday    Weekday = "Sunday"
)

// Weekdays lists days in timetable order.
var Weekdays = []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

// ParseWeekday normalises a day name ("monday", " FRIDAY ") into a Weekday.
func ParseWeekday(raw string) (Weekday, error) {
	trimmed := strings.TrimSpace(raw)
	for _, day := range Weekdays {
		if strings.EqualFold(string(day), trimmed) {
			return day, nil
		}
	}
	return "", fmt.Errorf("unknown weekday %q", raw)
}

// Index returns the zero-based position of the day within the week, or -1.
func (d Weekday) Index() int {
	for i, day := range Weekdays {
		if day == d {
			return i
		}
	}
	return -1
}

// TimeSlot is a half-open interval [Start, End) on a given day.
type TimeSlot struct {
	Day   Weekday   `json:"day" validate:"required,oneof=Monday Tuesday Wednesday Thursday Friday Saturday Sunday"`
	Start time.Time `json:"start_time" validate:"required"`
	End   time.Time `json:"end_time" validate:"required,gtfield=Start"`
}

// String renders the slot for logs and exports.
func (s TimeSlot) String() string {
	return fmt.Sprintf("%s %s-%s", s.Day, s.Start.Format("15:04"), s.End.Format("15:04"))
}

// slotTimeLayouts are accepted when parsing roster timestamps. The zone-less
// layout is interpreted as UTC.
var slotTimeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
}

// ParseSlotTime parses a roster timestamp.
func ParseSlotTime(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range slotTimeLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid slot time %q", raw)
}

// FormatSlotTime renders a timestamp in the layout the roster sources accept.
func FormatSlotTime(t time.Time) string {
	return t.Format(time.RFC3339)
}
