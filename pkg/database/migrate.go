package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/pressly/goose/v3"

	"github.com/noah-isme/sma-timetable/migrations"
)

var gooseDialects = map[string]string{
	"postgres": "postgres",
	"sqlite":   "sqlite3",
}

// Migrate applies the embedded roster schema migrations.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	dialect, ok := gooseDialects[db.DriverName()]
	if !ok {
		return fmt.Errorf("no migration dialect for driver %q", db.DriverName())
	}

	goose.SetBaseFS(migrations.FS)
	defer goose.SetBaseFS(nil)

	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}
	if err := goose.UpContext(ctx, db.DB, "."); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}

// Version reports the applied schema version.
func Version(ctx context.Context, db *sqlx.DB) (int64, error) {
	dialect, ok := gooseDialects[db.DriverName()]
	if !ok {
		return 0, fmt.Errorf("no migration dialect for driver %q", db.DriverName())
	}
	if err := goose.SetDialect(dialect); err != nil {
		return 0, fmt.Errorf("set goose dialect: %w", err)
	}
	version, err := goose.GetDBVersionContext(ctx, db.DB)
	if err != nil {
		return 0, fmt.Errorf("get version: %w", err)
	}
	return version, nil
}
