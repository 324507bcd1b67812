package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-timetable/internal/dto"
	"github.com/noah-isme/sma-timetable/internal/models"
	"github.com/noah-isme/sma-timetable/internal/scheduler"
	appErrors "github.com/noah-isme/sma-timetable/pkg/errors"
)

type rosterSource interface {
	Load(ctx context.Context) (*models.Roster, error)
	Key() string
}

// TimetableConfig bounds the rosters the service accepts. Zero disables a bound.
type TimetableConfig struct {
	MaxClasses  int
	MaxTeachers int
	MaxStudents int
	MaxWindows  int
	CacheTTL    time.Duration
}

// TimetableService validates rosters and runs the greedy scheduler over them.
type TimetableService struct {
	source    rosterSource
	cache     *CacheService
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
	cfg       TimetableConfig
	now       func() time.Time
}

// NewTimetableService wires generation dependencies. source, cache and
// metrics may be nil.
func NewTimetableService(source rosterSource, cache *CacheService, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger, cfg TimetableConfig) *TimetableService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TimetableService{
		source:    source,
		cache:     cache,
		metrics:   metrics,
		validator: validate,
		logger:    logger,
		cfg:       cfg,
		now:       time.Now,
	}
}

// Generate schedules the provided roster. Classes that cannot be placed are
// reported in the result; only a malformed roster yields an error.
func (s *TimetableService) Generate(ctx context.Context, roster *models.Roster) (*dto.GenerateTimetableResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := s.validateRoster(roster); err != nil {
		return nil, err
	}

	start := s.now()
	result := scheduler.Schedule(roster.Teachers, roster.Classes, roster.Students)
	duration := s.now().Sub(start)

	resp := &dto.GenerateTimetableResponse{
		RunID:       uuid.NewString(),
		GeneratedAt: start.UTC(),
		Result:      result,
		Summary:     Summarize(result),
	}

	s.metrics.ObserveRun(result, duration)
	s.logger.Info("timetable generated",
		zap.String("run_id", resp.RunID),
		zap.Int("classes", len(roster.Classes)),
		zap.Int("scheduled", resp.Summary.Scheduled),
		zap.Int("unscheduled", resp.Summary.Unscheduled),
		zap.Duration("duration", duration),
	)
	for _, u := range result.Unscheduled {
		s.logger.Debug("class not scheduled",
			zap.String("run_id", resp.RunID),
			zap.String("class_id", u.ClassID),
			zap.String("reason", string(u.Reason)),
		)
	}

	return resp, nil
}

// GenerateFromSource loads the roster from the configured source and
// schedules it.
func (s *TimetableService) GenerateFromSource(ctx context.Context) (*dto.GenerateTimetableResponse, error) {
	roster, err := s.LoadRoster(ctx)
	if err != nil {
		return nil, err
	}
	resp, err := s.Generate(ctx, roster)
	if err != nil {
		return nil, err
	}
	resp.Source = s.source.Key()
	return resp, nil
}

// LoadRoster reads the roster from the source, consulting the roster cache first.
func (s *TimetableService) LoadRoster(ctx context.Context) (*models.Roster, error) {
	if s.source == nil {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "no roster source configured")
	}
	key := RosterCacheKey(s.source.Key())

	var cached models.Roster
	if hit, err := s.cache.Get(ctx, key, &cached); err == nil && hit {
		s.logger.Debug("roster served from cache", zap.String("key", key))
		return &cached, nil
	}

	start := time.Now()
	roster, err := s.source.Load(ctx)
	s.metrics.ObserveRosterLoad(s.source.Key(), time.Since(start))
	if err != nil {
		var appErr *appErrors.Error
		if errors.As(err, &appErr) {
			return nil, err
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load roster")
	}

	_ = s.cache.Set(ctx, key, roster, s.cfg.CacheTTL)
	return roster, nil
}

// InvalidateRosterCache drops every cached roster.
func (s *TimetableService) InvalidateRosterCache(ctx context.Context) error {
	return s.cache.Invalidate(ctx, RosterCacheKey("*"))
}

func (s *TimetableService) validateRoster(roster *models.Roster) error {
	if roster == nil {
		return appErrors.Clone(appErrors.ErrInvalidRoster, "roster is required")
	}
	if err := s.validator.Struct(roster); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInvalidRoster.Code, appErrors.ErrInvalidRoster.Status, "roster failed validation")
	}

	if exceeds(len(roster.Classes), s.cfg.MaxClasses) {
		return appErrors.Clone(appErrors.ErrInvalidRoster, fmt.Sprintf("roster has %d classes, limit is %d", len(roster.Classes), s.cfg.MaxClasses))
	}
	if exceeds(len(roster.Teachers), s.cfg.MaxTeachers) {
		return appErrors.Clone(appErrors.ErrInvalidRoster, fmt.Sprintf("roster has %d teachers, limit is %d", len(roster.Teachers), s.cfg.MaxTeachers))
	}
	if exceeds(len(roster.Students), s.cfg.MaxStudents) {
		return appErrors.Clone(appErrors.ErrInvalidRoster, fmt.Sprintf("roster has %d students, limit is %d", len(roster.Students), s.cfg.MaxStudents))
	}

	teacherIDs := make(map[string]struct{}, len(roster.Teachers))
	for _, t := range roster.Teachers {
		if _, dup := teacherIDs[t.ID]; dup {
			return appErrors.Clone(appErrors.ErrInvalidRoster, fmt.Sprintf("duplicate teacher id %s", t.ID))
		}
		teacherIDs[t.ID] = struct{}{}
		if exceeds(len(t.Availability), s.cfg.MaxWindows) {
			return appErrors.Clone(appErrors.ErrInvalidRoster, fmt.Sprintf("teacher %s has %d availability windows, limit is %d", t.ID, len(t.Availability), s.cfg.MaxWindows))
		}
	}

	classIDs := make(map[string]struct{}, len(roster.Classes))
	for _, c := range roster.Classes {
		if _, dup := classIDs[c.ID]; dup {
			return appErrors.Clone(appErrors.ErrInvalidRoster, fmt.Sprintf("duplicate class id %s", c.ID))
		}
		classIDs[c.ID] = struct{}{}
	}
	return nil
}

func exceeds(n, limit int) bool {
	return limit > 0 && n > limit
}

// Summarize counts the outcome of a run.
func Summarize(result models.ScheduleResult) dto.TimetableSummary {
	summary := dto.TimetableSummary{
		Scheduled:   len(result.Scheduled),
		Unscheduled: len(result.Unscheduled),
		ByReason:    make(map[models.UnscheduledReason]int, len(models.Reasons)),
	}
	for _, reason := range models.Reasons {
		summary.ByReason[reason] = 0
	}
	for _, u := range result.Unscheduled {
		summary.ByReason[u.Reason]++
	}
	summary.Message = fmt.Sprintf("Successfully scheduled %d classes. %d classes could not be scheduled.", summary.Scheduled, summary.Unscheduled)
	return summary
}
