package models

// Teacher is an instructor who can be assigned classes in any of their
// availability windows.
type Teacher struct {
	ID           string     `json:"id" validate:"required"`
	Name         string     `json:"name,omitempty"`
	Subjects     []string   `json:"subjects_taught"`
	Availability []TimeSlot `json:"availability" validate:"min=1,dive"`
}

// Teaches reports whether subject is among the teacher's subjects.
func (t Teacher) Teaches(subject string) bool {
	for _, s := range t.Subjects {
		if s == subject {
			return true
		}
	}
	return false
}

// DisplayName falls back to the teacher ID when no name is known.
func (t Teacher) DisplayName() string {
	if t.Name != "" {
		return t.Name
	}
	return t.ID
}
