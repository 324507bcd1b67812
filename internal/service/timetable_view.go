package service

import (
	"fmt"
	"sort"
	"time"

	"github.com/noah-isme/sma-timetable/internal/dto"
	"github.com/noah-isme/sma-timetable/internal/models"
	appErrors "github.com/noah-isme/sma-timetable/pkg/errors"
)

// StudentTimetable returns the scheduled classes whose course the student takes.
func StudentTimetable(result models.ScheduleResult, roster *models.Roster, studentID string) (*dto.StudentTimetableResponse, error) {
	if roster == nil {
		return nil, appErrors.Clone(appErrors.ErrInvalidRoster, "roster is required")
	}
	var student *models.Student
	for i := range roster.Students {
		if roster.Students[i].ID == studentID {
			student = &roster.Students[i]
			break
		}
	}
	if student == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("student %s not found", studentID))
	}

	courseOf := make(map[string]string, len(roster.Classes))
	for _, c := range roster.Classes {
		courseOf[c.ID] = c.CourseCode
	}

	var classes []models.ScheduledClass
	for _, sc := range result.Scheduled {
		if student.EnrolledIn(courseOf[sc.ClassID]) {
			classes = append(classes, sc)
		}
	}
	return &dto.StudentTimetableResponse{StudentID: studentID, Days: GroupByDay(classes)}, nil
}

// TeacherTimetable returns the classes assigned to the teacher.
func TeacherTimetable(result models.ScheduleResult, teacherID string) *dto.TeacherTimetableResponse {
	resp := &dto.TeacherTimetableResponse{TeacherID: teacherID}
	var classes []models.ScheduledClass
	for _, sc := range result.Scheduled {
		if sc.TeacherID != teacherID {
			continue
		}
		resp.TeacherName = sc.TeacherName
		classes = append(classes, sc)
	}
	resp.Days = GroupByDay(classes)
	return resp
}

// GroupByDay buckets classes by weekday, Monday first, each day ordered by
// time of day. Days without classes are omitted.
func GroupByDay(classes []models.ScheduledClass) []dto.DayTimetable {
	buckets := make(map[models.Weekday][]models.ScheduledClass)
	for _, c := range classes {
		buckets[c.Day] = append(buckets[c.Day], c)
	}

	days := make([]dto.DayTimetable, 0, len(buckets))
	for _, day := range models.Weekdays {
		list, ok := buckets[day]
		if !ok {
			continue
		}
		sort.SliceStable(list, func(i, j int) bool {
			return clockMinutes(list[i].Start) < clockMinutes(list[j].Start)
		})
		days = append(days, dto.DayTimetable{Day: day, Classes: list})
	}
	return days
}

func clockMinutes(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}
