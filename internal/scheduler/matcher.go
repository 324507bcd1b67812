package scheduler

import "github.com/noah-isme/sma-timetable/internal/models"

// FindTeacher returns the first teacher, in input order, who teaches the
// class subject. Equally qualified teachers later in the list are never
// considered, even when the first one has no free window.
func FindTeacher(class models.ClassSpec, teachers []models.Teacher) (models.Teacher, bool) {
	for _, teacher := range teachers {
		if teacher.Teaches(class.Subject) {
			return teacher, true
		}
	}
	return models.Teacher{}, false
}
