package models

// Student lists the course codes a student is enrolled in.
type Student struct {
	ID      string   `json:"id" validate:"required"`
	Courses []string `json:"courses"`
}

// EnrolledIn reports whether the student takes courseCode.
func (s Student) EnrolledIn(courseCode string) bool {
	for _, c := range s.Courses {
		if c == courseCode {
			return true
		}
	}
	return false
}
