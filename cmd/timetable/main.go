package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-timetable/internal/service"
	"github.com/noah-isme/sma-timetable/pkg/config"
	appErrors "github.com/noah-isme/sma-timetable/pkg/errors"
	"github.com/noah-isme/sma-timetable/pkg/logger"
	"github.com/noah-isme/sma-timetable/pkg/storage"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout)
	stop()
	os.Exit(code)
}

// run generates one timetable and returns the process exit code.
func run(ctx context.Context, args []string, out io.Writer) int {
	cfg, err := config.Load(args)
	if err != nil {
		log.Printf("failed to load config: %v", err)
		return 1
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Printf("failed to init logger: %v", err)
		return 1
	}
	defer logr.Sync() //nolint:errcheck

	if err := generate(ctx, cfg, logr, out); err != nil {
		appErr := appErrors.FromError(err)
		logr.Error("timetable generation failed",
			zap.String("code", appErr.Code),
			zap.Bool("client_error", appErrors.IsClientError(err)),
			zap.Error(err),
		)
		return 1
	}
	return 0
}

func generate(ctx context.Context, cfg *config.Config, logr *zap.Logger, out io.Writer) error {
	source, err := openRosterSource(ctx, cfg, logr)
	if err != nil {
		return err
	}
	defer source.Close() //nolint:errcheck

	metrics := service.NewMetricsService()
	cache := newRosterCache(ctx, cfg, metrics, logr)
	defer cache.Close() //nolint:errcheck

	svc := service.NewTimetableService(source, cache.service, metrics, validator.New(), logr, service.TimetableConfig{
		MaxClasses:  cfg.Scheduler.MaxClasses,
		MaxTeachers: cfg.Scheduler.MaxTeachers,
		MaxStudents: cfg.Scheduler.MaxStudents,
		MaxWindows:  cfg.Scheduler.MaxWindows,
		CacheTTL:    cfg.RosterCache.TTL,
	})

	if cfg.Roster.ImportPath != "" {
		if err := importRoster(ctx, source, cfg.Roster.ImportPath, logr); err != nil {
			return err
		}
		if err := svc.InvalidateRosterCache(ctx); err != nil {
			logr.Warn("failed to invalidate roster cache", zap.Error(err))
		}
	}

	roster, err := svc.LoadRoster(ctx)
	if err != nil {
		return err
	}
	resp, err := svc.Generate(ctx, roster)
	if err != nil {
		return err
	}
	resp.Source = source.Key()

	printSummary(out, resp)

	if cfg.View.StudentID != "" {
		view, err := service.StudentTimetable(resp.Result, roster, cfg.View.StudentID)
		if err != nil {
			return err
		}
		printDays(out, fmt.Sprintf("Timetable for student %s", view.StudentID), view.Days)
	}
	if cfg.View.TeacherID != "" {
		view := service.TeacherTimetable(resp.Result, cfg.View.TeacherID)
		printDays(out, fmt.Sprintf("Timetable for teacher %s", view.TeacherID), view.Days)
	}

	if len(cfg.Export.Formats) > 0 || cfg.Export.Retention > 0 {
		store, err := storage.NewLocalStorage(cfg.Export.Dir)
		if err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to prepare export directory")
		}
		exporter := service.NewExportService(store, metrics, logr, nil, nil, nil)

		removed, err := exporter.Cleanup(cfg.Export.Retention)
		if err != nil {
			logr.Warn("export cleanup failed", zap.Error(err))
		} else if len(removed) > 0 {
			logr.Info("removed old exports", zap.Int("count", len(removed)))
		}

		results, err := exporter.Export(ctx, resp, cfg.Export.Formats)
		if err != nil {
			return err
		}
		for _, r := range results {
			fmt.Fprintf(out, "wrote %s %s\n", r.Format, r.Path)
		}
	}

	if err := metrics.WriteTextfile(cfg.Metrics.TextfilePath); err != nil {
		logr.Warn("failed to write metrics textfile", zap.Error(err))
	}
	return nil
}
