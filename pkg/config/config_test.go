package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load(nil)
	require.NoError(t, err)

	assert.Equal(t, EnvDevelopment, cfg.Env)
	assert.Equal(t, "json", cfg.Roster.Source)
	assert.Equal(t, "./roster.json", cfg.Roster.Path)
	assert.Equal(t, 10*time.Minute, cfg.RosterCache.TTL)
	assert.False(t, cfg.RosterCache.Enabled)
	assert.Equal(t, 2000, cfg.Scheduler.MaxClasses)
	assert.Equal(t, 64, cfg.Scheduler.MaxWindows)
	assert.Nil(t, cfg.Export.Formats)
}

func TestLoadEnvironment(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("ROSTER_SOURCE", "Postgres")
	t.Setenv("DB_NAME", "school")
	t.Setenv("ENABLE_ROSTER_CACHE", "true")
	t.Setenv("ROSTER_CACHE_TTL", "90s")
	t.Setenv("EXPORT_FORMATS", "CSV, pdf,,xlsx")
	t.Setenv("SCHEDULER_MAX_CLASSES", "10")

	cfg, err := Load(nil)
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Roster.Source)
	assert.Equal(t, "school", cfg.Database.Name)
	assert.True(t, cfg.RosterCache.Enabled)
	assert.Equal(t, 90*time.Second, cfg.RosterCache.TTL)
	assert.Equal(t, []string{"csv", "pdf", "xlsx"}, cfg.Export.Formats)
	assert.Equal(t, 10, cfg.Scheduler.MaxClasses)
}

func TestLoadFlagsOverrideEnvironment(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("ROSTER_SOURCE", "postgres")
	t.Setenv("ROSTER_PATH", "/env/roster.json")

	cfg, err := Load([]string{"--roster-source", "xlsx", "--student", "s1", "--export-formats=json"})
	require.NoError(t, err)

	assert.Equal(t, "xlsx", cfg.Roster.Source)
	assert.Equal(t, "/env/roster.json", cfg.Roster.Path)
	assert.Equal(t, "s1", cfg.View.StudentID)
	assert.Equal(t, []string{"json"}, cfg.Export.Formats)
}

func TestLoadRejectsUnknownFlag(t *testing.T) {
	t.Chdir(t.TempDir())

	_, err := Load([]string{"--nope"})
	assert.Error(t, err)
}

func TestParseDurationFallback(t *testing.T) {
	assert.Equal(t, time.Minute, parseDuration("", time.Minute))
	assert.Equal(t, time.Minute, parseDuration("soon", time.Minute))
	assert.Equal(t, 2*time.Hour, parseDuration("2h", time.Minute))
}

func TestLoadImportAndRetention(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("EXPORT_RETENTION", "168h")

	cfg, err := Load([]string{"--roster-source=sqlite", "--import", "seed.xlsx"})
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Roster.Source)
	assert.Equal(t, "seed.xlsx", cfg.Roster.ImportPath)
	assert.Equal(t, 168*time.Hour, cfg.Export.Retention)
}
