package scheduler

import (
	"sort"

	"github.com/noah-isme/sma-timetable/internal/models"
)

// Schedule assigns classes greedily, highest enrollment first. Each class is
// placed in the first availability window of its teacher where both the
// teacher and the room are free; placements are never revisited. Every class
// ends up in exactly one of the returned lists.
func Schedule(teachers []models.Teacher, classes []models.ClassSpec, students []models.Student) models.ScheduleResult {
	enrollments := EnrollmentIndex(students)

	ordered := make([]models.ClassSpec, len(classes))
	copy(ordered, classes)
	sort.SliceStable(ordered, func(i, j int) bool {
		return enrollments[ordered[i].CourseCode] > enrollments[ordered[j].CourseCode]
	})

	state := newRunState()
	result := models.ScheduleResult{
		Scheduled:   make([]models.ScheduledClass, 0, len(classes)),
		Unscheduled: make([]models.UnscheduledClass, 0),
	}

	for _, class := range ordered {
		if enrollments[class.CourseCode] == 0 {
			result.Unscheduled = append(result.Unscheduled, models.UnscheduledClass{ClassID: class.ID, Reason: models.ReasonNoEnrollment})
			continue
		}

		teacher, ok := FindTeacher(class, teachers)
		if !ok {
			result.Unscheduled = append(result.Unscheduled, models.UnscheduledClass{ClassID: class.ID, Reason: models.ReasonNoTeacher})
			continue
		}

		placed, ok := state.place(class, teacher)
		if !ok {
			result.Unscheduled = append(result.Unscheduled, models.UnscheduledClass{ClassID: class.ID, Reason: models.ReasonNoSlot})
			continue
		}
		result.Scheduled = append(result.Scheduled, placed)
	}
	return result
}

// runState owns the room and teacher bookings of one Schedule call.
type runState struct {
	rooms    *BookingIndex
	teachers *BookingIndex
}

func newRunState() *runState {
	return &runState{
		rooms:    NewBookingIndex(),
		teachers: NewBookingIndex(),
	}
}

func (s *runState) place(class models.ClassSpec, teacher models.Teacher) (models.ScheduledClass, bool) {
	for _, window := range teacher.Availability {
		slot := candidateSlot(window, class)
		if !s.teachers.IsAvailable(teacher.ID, slot) || !s.rooms.IsAvailable(class.Room, slot) {
			continue
		}
		s.teachers.Book(teacher.ID, slot)
		s.rooms.Book(class.Room, slot)
		return models.ScheduledClass{
			ClassID:     class.ID,
			TeacherID:   teacher.ID,
			Room:        class.Room,
			Day:         slot.Day,
			Start:       slot.Start,
			End:         slot.End,
			Subject:     class.Subject,
			TeacherName: teacher.DisplayName(),
		}, true
	}
	return models.ScheduledClass{}, false
}

// candidateSlot anchors the class at the start of the window. The end is not
// clamped to window.End, so a long class may run past the teacher's stated
// availability.
func candidateSlot(window models.TimeSlot, class models.ClassSpec) models.TimeSlot {
	return models.TimeSlot{
		Day:   window.Day,
		Start: window.Start,
		End:   window.Start.Add(class.DurationTime()),
	}
}
