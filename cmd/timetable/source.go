package main

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-timetable/internal/models"
	"github.com/noah-isme/sma-timetable/internal/repository"
	"github.com/noah-isme/sma-timetable/internal/service"
	"github.com/noah-isme/sma-timetable/pkg/cache"
	"github.com/noah-isme/sma-timetable/pkg/config"
	"github.com/noah-isme/sma-timetable/pkg/database"
	appErrors "github.com/noah-isme/sma-timetable/pkg/errors"
)

type rosterLoader interface {
	Load(ctx context.Context) (*models.Roster, error)
	Key() string
}

type rosterSource interface {
	rosterLoader
	Close() error
}

type fileSource struct {
	rosterLoader
}

func (fileSource) Close() error { return nil }

type sqlSource struct {
	*repository.RosterRepository
	db *sqlx.DB
}

func (s sqlSource) Close() error { return s.db.Close() }

func openRosterSource(ctx context.Context, cfg *config.Config, logr *zap.Logger) (rosterSource, error) {
	switch models.RosterSource(cfg.Roster.Source) {
	case models.RosterSourceJSON:
		return fileSource{repository.NewFileRosterLoader(cfg.Roster.Path)}, nil
	case models.RosterSourceXLSX:
		return fileSource{repository.NewWorkbookRosterLoader(cfg.Roster.Path)}, nil
	case models.RosterSourcePostgres:
		db, err := database.NewPostgres(ctx, cfg.Database)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to connect to postgres")
		}
		if cfg.Database.AutoMigrate {
			if err := database.Migrate(ctx, db); err != nil {
				_ = db.Close()
				return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to migrate roster schema")
			}
		}
		return sqlSource{repository.NewRosterRepository(db, models.RosterSourcePostgres), db}, nil
	case models.RosterSourceSQLite:
		db, err := database.NewSQLite(cfg.SQLite)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to open sqlite database")
		}
		if err := database.Migrate(ctx, db); err != nil {
			_ = db.Close()
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to migrate roster schema")
		}
		version, _ := database.Version(ctx, db)
		logr.Debug("sqlite roster ready", zap.String("path", cfg.SQLite.Path), zap.Int64("schema_version", version))
		return sqlSource{repository.NewRosterRepository(db, models.RosterSourceSQLite), db}, nil
	default:
		return nil, appErrors.Clone(appErrors.ErrUnsupportedFormat, fmt.Sprintf("unknown roster source %q", cfg.Roster.Source))
	}
}

// importRoster copies a roster file into a database-backed source.
func importRoster(ctx context.Context, source rosterSource, path string, logr *zap.Logger) error {
	target, ok := source.(sqlSource)
	if !ok {
		return appErrors.Clone(appErrors.ErrPreconditionFailed, "roster import requires a postgres or sqlite roster source")
	}

	var loader rosterLoader
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		loader = repository.NewWorkbookRosterLoader(path)
	default:
		loader = repository.NewFileRosterLoader(path)
	}
	roster, err := loader.Load(ctx)
	if err != nil {
		return err
	}
	if err := target.Replace(ctx, roster); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to import roster")
	}
	logr.Info("roster imported",
		zap.String("from", path),
		zap.String("into", target.Key()),
		zap.Int("teachers", len(roster.Teachers)),
		zap.Int("classes", len(roster.Classes)),
		zap.Int("students", len(roster.Students)),
	)
	return nil
}

type rosterCache struct {
	service *service.CacheService
	repo    *repository.CacheRepository
}

func (c rosterCache) Close() error {
	if c.repo == nil {
		return nil
	}
	return c.repo.Close()
}

// newRosterCache connects to Redis when the roster cache is enabled. An
// unreachable Redis disables caching for this run.
func newRosterCache(ctx context.Context, cfg *config.Config, metrics *service.MetricsService, logr *zap.Logger) rosterCache {
	if !cfg.RosterCache.Enabled {
		return rosterCache{}
	}
	client, err := cache.NewRedis(ctx, cfg.Redis)
	if err != nil {
		logr.Warn("roster cache disabled", zap.Error(err))
		return rosterCache{}
	}
	repo := repository.NewCacheRepository(client, logr)
	return rosterCache{
		service: service.NewCacheService(repo, metrics, cfg.RosterCache.TTL, logr, true),
		repo:    repo,
	}
}
