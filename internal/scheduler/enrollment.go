package scheduler

import "github.com/noah-isme/sma-timetable/internal/models"

// EnrollmentCount returns how many students take courseCode.
func EnrollmentCount(courseCode string, students []models.Student) int {
	count := 0
	for _, student := range students {
		if student.EnrolledIn(courseCode) {
			count++
		}
	}
	return count
}

// EnrollmentIndex precomputes enrollment counts for every course code. A
// student listing the same course twice is counted once, matching
// EnrollmentCount.
func EnrollmentIndex(students []models.Student) map[string]int {
	counts := make(map[string]int)
	for _, student := range students {
		seen := make(map[string]bool, len(student.Courses))
		for _, code := range student.Courses {
			if seen[code] {
				continue
			}
			seen[code] = true
			counts[code]++
		}
	}
	return counts
}
