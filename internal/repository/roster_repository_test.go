package repository

import (
	"context"
	"errors"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-timetable/internal/models"
	"github.com/noah-isme/sma-timetable/pkg/config"
	"github.com/noah-isme/sma-timetable/pkg/database"
)

func newRosterRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestRosterRepositoryLoad(t *testing.T) {
	db, mock, cleanup := newRosterRepoMock(t)
	defer cleanup()
	repo := NewRosterRepository(db, models.RosterSourcePostgres)

	mock.ExpectQuery(regexp.QuoteMeta(selectRosterTeachers)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow("T1", "John Doe").AddRow("T2", ""))
	mock.ExpectQuery(regexp.QuoteMeta(selectRosterSubjects)).
		WillReturnRows(sqlmock.NewRows([]string{"teacher_id", "subject"}).
			AddRow("T1", "Mathematics").AddRow("T1", "Physics").AddRow("T2", "Chemistry").AddRow("T9", "Orphan"))
	mock.ExpectQuery(regexp.QuoteMeta(selectRosterAvailability)).
		WillReturnRows(sqlmock.NewRows([]string{"teacher_id", "day_of_week", "start_time", "end_time"}).
			AddRow("T1", "Monday", "2023-05-01T09:00:00Z", "2023-05-01T12:00:00Z"))
	mock.ExpectQuery(regexp.QuoteMeta(selectRosterClasses)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "subject", "duration_minutes", "room", "course_code"}).
			AddRow("C1", "Mathematics", 60, "Room 101", "MATH101"))
	mock.ExpectQuery(regexp.QuoteMeta(selectRosterStudents)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("S1").AddRow("S2"))
	mock.ExpectQuery(regexp.QuoteMeta(selectRosterCourses)).
		WillReturnRows(sqlmock.NewRows([]string{"student_id", "course_code"}).AddRow("S1", "MATH101"))

	roster, err := repo.Load(context.Background())
	require.NoError(t, err)

	require.Len(t, roster.Teachers, 2)
	assert.Equal(t, []string{"Mathematics", "Physics"}, roster.Teachers[0].Subjects)
	assert.Equal(t, []string{"Chemistry"}, roster.Teachers[1].Subjects)
	require.Len(t, roster.Teachers[0].Availability, 1)
	assert.Equal(t, time.Date(2023, 5, 1, 12, 0, 0, 0, time.UTC), roster.Teachers[0].Availability[0].End)
	assert.Empty(t, roster.Teachers[1].Availability)
	assert.Equal(t, "MATH101", roster.Classes[0].CourseCode)
	assert.Equal(t, []string{"MATH101"}, roster.Students[0].Courses)
	assert.Empty(t, roster.Students[1].Courses)
	assert.Equal(t, "postgres", repo.Key())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRosterRepositoryLoadQueryError(t *testing.T) {
	db, mock, cleanup := newRosterRepoMock(t)
	defer cleanup()
	repo := NewRosterRepository(db, models.RosterSourcePostgres)

	mock.ExpectQuery(regexp.QuoteMeta(selectRosterTeachers)).WillReturnError(errors.New("connection reset"))

	_, err := repo.Load(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "list teachers")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRosterRepositoryReplaceRollsBackOnError(t *testing.T) {
	db, mock, cleanup := newRosterRepoMock(t)
	defer cleanup()
	repo := NewRosterRepository(db, models.RosterSourcePostgres)

	mock.ExpectBegin()
	for _, table := range []string{"student_courses", "students", "classes", "teacher_availability", "teacher_subjects", "teachers"} {
		mock.ExpectExec("DELETE FROM " + table).WillReturnResult(sqlmock.NewResult(0, 0))
	}
	mock.ExpectExec("INSERT INTO teachers").
		WithArgs("T1", "John Doe", 0).
		WillReturnError(errors.New("duplicate key"))
	mock.ExpectRollback()

	err := repo.Replace(context.Background(), &models.Roster{Teachers: []models.Teacher{{ID: "T1", Name: "John Doe"}}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "insert teacher T1")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRosterRepositorySQLiteRoundTrip(t *testing.T) {
	ctx := context.Background()
	db, err := database.NewSQLite(config.SQLiteConfig{Path: filepath.Join(t.TempDir(), "roster.db")})
	require.NoError(t, err)
	defer db.Close()
	require.NoError(t, database.Migrate(ctx, db))

	monday := func(h int) time.Time { return time.Date(2023, 5, 1, h, 0, 0, 0, time.UTC) }
	want := &models.Roster{
		Teachers: []models.Teacher{
			{ID: "T2", Name: "Jane Smith", Subjects: []string{"Chemistry"}, Availability: []models.TimeSlot{
				{Day: models.Monday, Start: monday(13), End: monday(16)},
				{Day: models.Monday, Start: monday(9), End: monday(10)},
			}},
			{ID: "T1", Name: "John Doe", Subjects: []string{"Mathematics", "Physics"}, Availability: []models.TimeSlot{
				{Day: models.Monday, Start: monday(9), End: monday(12)},
			}},
		},
		Classes: []models.ClassSpec{
			{ID: "C2", Subject: "Chemistry", Duration: 90, Room: "Lab", CourseCode: "CHEM101"},
			{ID: "C1", Subject: "Mathematics", Duration: 60, Room: "Room 101", CourseCode: "MATH101"},
		},
		Students: []models.Student{
			{ID: "S2", Courses: []string{"CHEM101"}},
			{ID: "S1", Courses: []string{"CHEM101", "MATH101"}},
		},
	}

	repo := NewRosterRepository(db, models.RosterSourceSQLite)
	require.NoError(t, repo.Replace(ctx, want))

	got, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	// Replacing again swaps the data wholesale.
	require.NoError(t, repo.Replace(ctx, &models.Roster{Classes: want.Classes[:1]}))
	got, err = repo.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, got.Teachers)
	assert.Empty(t, got.Students)
	assert.Len(t, got.Classes, 1)
}
