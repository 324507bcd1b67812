package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/sma-timetable/internal/models"
)

const (
	selectRosterTeachers     = "SELECT id, name FROM teachers ORDER BY sort_order, id"
	selectRosterSubjects     = "SELECT teacher_id, subject FROM teacher_subjects ORDER BY teacher_id, sort_order"
	selectRosterAvailability = "SELECT teacher_id, day_of_week, start_time, end_time FROM teacher_availability ORDER BY teacher_id, sort_order"
	selectRosterClasses      = "SELECT id, subject, duration_minutes, room, course_code FROM classes ORDER BY sort_order, id"
	selectRosterStudents     = "SELECT id FROM students ORDER BY sort_order, id"
	selectRosterCourses      = "SELECT student_id, course_code FROM student_courses ORDER BY student_id, course_code"
)

type teacherRow struct {
	ID   string `db:"id"`
	Name string `db:"name"`
}

type teacherSubjectRow struct {
	TeacherID string `db:"teacher_id"`
	Subject   string `db:"subject"`
}

type availabilityRow struct {
	TeacherID string `db:"teacher_id"`
	Day       string `db:"day_of_week"`
	Start     string `db:"start_time"`
	End       string `db:"end_time"`
}

type classRow struct {
	ID         string `db:"id"`
	Subject    string `db:"subject"`
	Duration   int    `db:"duration_minutes"`
	Room       string `db:"room"`
	CourseCode string `db:"course_code"`
}

type studentCourseRow struct {
	StudentID  string `db:"student_id"`
	CourseCode string `db:"course_code"`
}

// RosterRepository reads and writes rosters in a relational database
// (Postgres or SQLite).
type RosterRepository struct {
	db     *sqlx.DB
	source models.RosterSource
}

// NewRosterRepository constructs a RosterRepository.
func NewRosterRepository(db *sqlx.DB, source models.RosterSource) *RosterRepository {
	return &RosterRepository{db: db, source: source}
}

// Key identifies the loaded roster for caching.
func (r *RosterRepository) Key() string {
	return string(r.source)
}

// Load reads the full roster. Row order follows sort_order so the scheduler
// sees teachers and classes in their configured order.
func (r *RosterRepository) Load(ctx context.Context) (*models.Roster, error) {
	var teachers []teacherRow
	if err := sqlx.SelectContext(ctx, r.db, &teachers, r.db.Rebind(selectRosterTeachers)); err != nil {
		return nil, fmt.Errorf("list teachers: %w", err)
	}
	var subjects []teacherSubjectRow
	if err := sqlx.SelectContext(ctx, r.db, &subjects, r.db.Rebind(selectRosterSubjects)); err != nil {
		return nil, fmt.Errorf("list teacher subjects: %w", err)
	}
	var availability []availabilityRow
	if err := sqlx.SelectContext(ctx, r.db, &availability, r.db.Rebind(selectRosterAvailability)); err != nil {
		return nil, fmt.Errorf("list teacher availability: %w", err)
	}
	var classes []classRow
	if err := sqlx.SelectContext(ctx, r.db, &classes, r.db.Rebind(selectRosterClasses)); err != nil {
		return nil, fmt.Errorf("list classes: %w", err)
	}
	var students []string
	if err := sqlx.SelectContext(ctx, r.db, &students, r.db.Rebind(selectRosterStudents)); err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}
	var courses []studentCourseRow
	if err := sqlx.SelectContext(ctx, r.db, &courses, r.db.Rebind(selectRosterCourses)); err != nil {
		return nil, fmt.Errorf("list student courses: %w", err)
	}

	doc := rosterDocument{
		Teachers: make([]teacherDocument, len(teachers)),
		Classes:  make([]classDocument, len(classes)),
		Students: make([]studentDocument, len(students)),
	}
	teacherIndex := make(map[string]int, len(teachers))
	for i, t := range teachers {
		teacherIndex[t.ID] = i
		doc.Teachers[i] = teacherDocument{ID: t.ID, Name: t.Name}
	}
	for _, s := range subjects {
		if i, ok := teacherIndex[s.TeacherID]; ok {
			doc.Teachers[i].Subjects = append(doc.Teachers[i].Subjects, s.Subject)
		}
	}
	for _, a := range availability {
		if i, ok := teacherIndex[a.TeacherID]; ok {
			doc.Teachers[i].Availability = append(doc.Teachers[i].Availability, slotDocument{Day: a.Day, Start: a.Start, End: a.End})
		}
	}
	for i, c := range classes {
		doc.Classes[i] = classDocument(c)
	}
	studentIndex := make(map[string]int, len(students))
	for i, id := range students {
		studentIndex[id] = i
		doc.Students[i] = studentDocument{ID: id}
	}
	for _, c := range courses {
		if i, ok := studentIndex[c.StudentID]; ok {
			doc.Students[i].Courses = append(doc.Students[i].Courses, c.CourseCode)
		}
	}

	return doc.toRoster()
}

// Replace swaps the stored roster for the provided one in a single transaction.
func (r *RosterRepository) Replace(ctx context.Context, roster *models.Roster) (err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin roster tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	for _, table := range []string{"student_courses", "students", "classes", "teacher_availability", "teacher_subjects", "teachers"} {
		if _, err = tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	for i, t := range roster.Teachers {
		if _, err = tx.ExecContext(ctx, r.db.Rebind("INSERT INTO teachers (id, name, sort_order) VALUES (?, ?, ?)"), t.ID, t.Name, i); err != nil {
			return fmt.Errorf("insert teacher %s: %w", t.ID, err)
		}
		seen := make(map[string]struct{}, len(t.Subjects))
		for j, subject := range t.Subjects {
			if _, dup := seen[subject]; dup {
				continue
			}
			seen[subject] = struct{}{}
			if _, err = tx.ExecContext(ctx, r.db.Rebind("INSERT INTO teacher_subjects (teacher_id, subject, sort_order) VALUES (?, ?, ?)"), t.ID, subject, j); err != nil {
				return fmt.Errorf("insert subject for teacher %s: %w", t.ID, err)
			}
		}
		for j, slot := range t.Availability {
			if _, err = tx.ExecContext(ctx, r.db.Rebind("INSERT INTO teacher_availability (teacher_id, sort_order, day_of_week, start_time, end_time) VALUES (?, ?, ?, ?, ?)"),
				t.ID, j, string(slot.Day), models.FormatSlotTime(slot.Start), models.FormatSlotTime(slot.End)); err != nil {
				return fmt.Errorf("insert availability for teacher %s: %w", t.ID, err)
			}
		}
	}

	for i, c := range roster.Classes {
		if _, err = tx.ExecContext(ctx, r.db.Rebind("INSERT INTO classes (id, subject, duration_minutes, room, course_code, sort_order) VALUES (?, ?, ?, ?, ?, ?)"),
			c.ID, c.Subject, c.Duration, c.Room, c.CourseCode, i); err != nil {
			return fmt.Errorf("insert class %s: %w", c.ID, err)
		}
	}

	for i, s := range roster.Students {
		if _, err = tx.ExecContext(ctx, r.db.Rebind("INSERT INTO students (id, sort_order) VALUES (?, ?)"), s.ID, i); err != nil {
			return fmt.Errorf("insert student %s: %w", s.ID, err)
		}
		seen := make(map[string]struct{}, len(s.Courses))
		for _, course := range s.Courses {
			if _, dup := seen[course]; dup {
				continue
			}
			seen[course] = struct{}{}
			if _, err = tx.ExecContext(ctx, r.db.Rebind("INSERT INTO student_courses (student_id, course_code) VALUES (?, ?)"), s.ID, course); err != nil {
				return fmt.Errorf("insert course for student %s: %w", s.ID, err)
			}
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit roster tx: %w", err)
	}
	return nil
}
