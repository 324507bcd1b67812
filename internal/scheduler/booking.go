package scheduler

import "github.com/noah-isme/sma-timetable/internal/models"

// BookingIndex tracks the slots already booked per resource (a room or a
// teacher). It lives for a single scheduling run and is not safe for
// concurrent use.
type BookingIndex struct {
	bookings map[string][]models.TimeSlot
}

// NewBookingIndex returns an empty index.
func NewBookingIndex() *BookingIndex {
	return &BookingIndex{bookings: make(map[string][]models.TimeSlot)}
}

// IsAvailable reports whether slot collides with none of the resource's bookings.
func (b *BookingIndex) IsAvailable(resourceID string, slot models.TimeSlot) bool {
	for _, booked := range b.bookings[resourceID] {
		if Overlaps(slot, booked) {
			return false
		}
	}
	return true
}

// Book records slot against the resource. Callers must check IsAvailable first.
func (b *BookingIndex) Book(resourceID string, slot models.TimeSlot) {
	b.bookings[resourceID] = append(b.bookings[resourceID], slot)
}

// Bookings returns a copy of the resource's booked slots in booking order.
func (b *BookingIndex) Bookings(resourceID string) []models.TimeSlot {
	booked := b.bookings[resourceID]
	if len(booked) == 0 {
		return nil
	}
	out := make([]models.TimeSlot, len(booked))
	copy(out, booked)
	return out
}
