// Package scheduler places classes into teacher availability windows without
// double-booking rooms or teachers.
package scheduler

import "github.com/noah-isme/sma-timetable/internal/models"

// Overlaps reports whether two slots on the same day intersect. Slots that
// only touch at an endpoint do not overlap.
func Overlaps(a, b models.TimeSlot) bool {
	if a.Day != b.Day {
		return false
	}
	return a.Start.Before(b.End) && b.Start.Before(a.End)
}
