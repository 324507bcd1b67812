package service

import (
	"context"
	"encoding/json"
	"path"
	"sync"
	"time"

	"github.com/noah-isme/sma-timetable/internal/models"
	appErrors "github.com/noah-isme/sma-timetable/pkg/errors"
)

func at(day models.Weekday, hour, minute int) time.Time {
	return time.Date(2023, 5, 1+day.Index(), hour, minute, 0, 0, time.UTC)
}

func window(day models.Weekday, fromH, toH int) models.TimeSlot {
	return models.TimeSlot{Day: day, Start: at(day, fromH, 0), End: at(day, toH, 0)}
}

// sampleRoster schedules C1, C2, C3 (moved to Wednesday behind C1) and C6.
// C4 has no teacher, C7 loses T3's only window to C6 and C5 has no students.
func sampleRoster() *models.Roster {
	return &models.Roster{
		Teachers: []models.Teacher{
			{ID: "T1", Name: "John Doe", Subjects: []string{"Mathematics", "Physics"}, Availability: []models.TimeSlot{
				window(models.Monday, 9, 12),
				window(models.Wednesday, 13, 16),
			}},
			{ID: "T2", Name: "Jane Smith", Subjects: []string{"Chemistry"}, Availability: []models.TimeSlot{
				window(models.Tuesday, 10, 15),
			}},
			{ID: "T3", Subjects: []string{"History"}, Availability: []models.TimeSlot{
				window(models.Friday, 8, 9),
			}},
		},
		Classes: []models.ClassSpec{
			{ID: "C1", Subject: "Mathematics", Duration: 60, Room: "Room 101", CourseCode: "MATH101"},
			{ID: "C2", Subject: "Chemistry", Duration: 90, Room: "Lab", CourseCode: "CHEM101"},
			{ID: "C3", Subject: "Physics", Duration: 60, Room: "Room 102", CourseCode: "PHYS101"},
			{ID: "C4", Subject: "Biology", Duration: 60, Room: "Room 103", CourseCode: "BIO101"},
			{ID: "C5", Subject: "Art", Duration: 45, Room: "Studio", CourseCode: "ART101"},
			{ID: "C6", Subject: "History", Duration: 60, Room: "Room 104", CourseCode: "HIST101"},
			{ID: "C7", Subject: "History", Duration: 60, Room: "Room 105", CourseCode: "HIST102"},
		},
		Students: []models.Student{
			{ID: "S1", Courses: []string{"MATH101", "PHYS101", "BIO101"}},
			{ID: "S2", Courses: []string{"MATH101", "CHEM101"}},
			{ID: "S3", Courses: []string{"MATH101", "HIST101", "HIST102"}},
		},
	}
}

type rosterSourceStub struct {
	key    string
	roster *models.Roster
	err    error
	calls  int
}

func (s *rosterSourceStub) Load(ctx context.Context) (*models.Roster, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.roster, nil
}

func (s *rosterSourceStub) Key() string {
	return s.key
}

type memoryCacheRepo struct {
	mu      sync.Mutex
	entries map[string][]byte
	ttls    map[string]time.Duration
	getErr  error
}

func newMemoryCacheRepo() *memoryCacheRepo {
	return &memoryCacheRepo{entries: map[string][]byte{}, ttls: map[string]time.Duration{}}
}

func (r *memoryCacheRepo) Get(ctx context.Context, key string, dest interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.getErr != nil {
		return r.getErr
	}
	raw, ok := r.entries[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (r *memoryCacheRepo) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[key] = raw
	r.ttls[key] = ttl
	return nil
}

func (r *memoryCacheRepo) DeleteByPattern(ctx context.Context, pattern string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	deleted := 0
	for key := range r.entries {
		if ok, _ := path.Match(pattern, key); ok {
			delete(r.entries, key)
			deleted++
		}
	}
	return deleted, nil
}
