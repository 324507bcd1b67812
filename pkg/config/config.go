package config

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env string

	Log         LogConfig
	Roster      RosterConfig
	Database    DatabaseConfig
	SQLite      SQLiteConfig
	Redis       RedisConfig
	RosterCache RosterCacheConfig
	Scheduler   SchedulerConfig
	Export      ExportConfig
	Metrics     MetricsConfig
	View        ViewConfig
}

type LogConfig struct {
	Level  string
	Format string
}

// RosterConfig selects where teachers, classes and students are read from.
type RosterConfig struct {
	Source string
	Path   string
	// ImportPath seeds a SQL roster source from a JSON or XLSX file before generation.
	ImportPath string
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
	AutoMigrate  bool
}

type SQLiteConfig struct {
	Path string
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// RosterCacheConfig controls the Redis snapshot cache for loaded rosters.
type RosterCacheConfig struct {
	Enabled bool
	TTL     time.Duration
}

// SchedulerConfig bounds the roster sizes accepted by the generator.
type SchedulerConfig struct {
	MaxClasses  int
	MaxTeachers int
	MaxStudents int
	MaxWindows  int
}

// ExportConfig controls where and how generated timetables are rendered.
type ExportConfig struct {
	Dir     string
	Formats []string
	// Retention removes older rendered files before each run; zero keeps everything.
	Retention time.Duration
}

// MetricsConfig points at a node-exporter textfile; empty disables output.
type MetricsConfig struct {
	TextfilePath string
}

// ViewConfig selects optional per-student or per-teacher timetable output.
type ViewConfig struct {
	StudentID string
	TeacherID string
}

// Load reads configuration from .env, the environment and command line args.
// Flags take precedence over the environment.
func Load(args []string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	flags := newFlagSet()
	if err := flags.Parse(args); err != nil {
		return nil, err
	}
	if err := bindFlags(v, flags); err != nil {
		return nil, err
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Roster = RosterConfig{
		Source:     strings.ToLower(strings.TrimSpace(v.GetString("ROSTER_SOURCE"))),
		Path:       v.GetString("ROSTER_PATH"),
		ImportPath: v.GetString("ROSTER_IMPORT_PATH"),
	}

	cfg.Database = DatabaseConfig{
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
		AutoMigrate:  v.GetBool("DB_AUTO_MIGRATE"),
	}

	cfg.SQLite = SQLiteConfig{Path: v.GetString("SQLITE_PATH")}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.RosterCache = RosterCacheConfig{
		Enabled: v.GetBool("ENABLE_ROSTER_CACHE"),
		TTL:     parseDuration(v.GetString("ROSTER_CACHE_TTL"), 10*time.Minute),
	}

	cfg.Scheduler = SchedulerConfig{
		MaxClasses:  v.GetInt("SCHEDULER_MAX_CLASSES"),
		MaxTeachers: v.GetInt("SCHEDULER_MAX_TEACHERS"),
		MaxStudents: v.GetInt("SCHEDULER_MAX_STUDENTS"),
		MaxWindows:  v.GetInt("SCHEDULER_MAX_WINDOWS"),
	}

	cfg.Export = ExportConfig{
		Dir:       v.GetString("EXPORT_DIR"),
		Formats:   splitAndTrim(strings.ToLower(v.GetString("EXPORT_FORMATS"))),
		Retention: parseDuration(v.GetString("EXPORT_RETENTION"), 0),
	}

	cfg.Metrics = MetricsConfig{TextfilePath: v.GetString("METRICS_TEXTFILE")}

	cfg.View = ViewConfig{
		StudentID: v.GetString("VIEW_STUDENT"),
		TeacherID: v.GetString("VIEW_TEACHER"),
	}

	return cfg, nil
}

func newFlagSet() *pflag.FlagSet {
	flags := pflag.NewFlagSet("timetable", pflag.ContinueOnError)
	flags.String("roster-source", "", "roster source: json, xlsx, postgres or sqlite")
	flags.String("roster-path", "", "roster file path for json/xlsx sources")
	flags.String("import", "", "seed the database roster source from this json/xlsx file")
	flags.String("export-dir", "", "directory for rendered timetables")
	flags.String("export-formats", "", "comma separated export formats (csv,pdf,xlsx,json)")
	flags.String("student", "", "print the timetable of this student")
	flags.String("teacher", "", "print the timetable of this teacher")
	flags.String("log-level", "", "log level")
	flags.String("metrics-textfile", "", "write Prometheus metrics to this file")
	return flags
}

var flagKeys = map[string]string{
	"roster-source":    "ROSTER_SOURCE",
	"roster-path":      "ROSTER_PATH",
	"import":           "ROSTER_IMPORT_PATH",
	"export-dir":       "EXPORT_DIR",
	"export-formats":   "EXPORT_FORMATS",
	"student":          "VIEW_STUDENT",
	"teacher":          "VIEW_TEACHER",
	"log-level":        "LOG_LEVEL",
	"metrics-textfile": "METRICS_TEXTFILE",
}

func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	for name, key := range flagKeys {
		flag := flags.Lookup(name)
		if flag == nil || !flag.Changed {
			continue
		}
		if err := v.BindPFlag(key, flag); err != nil {
			return err
		}
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("ROSTER_SOURCE", "json")
	v.SetDefault("ROSTER_PATH", "./roster.json")
	v.SetDefault("ROSTER_IMPORT_PATH", "")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "timetable")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)
	v.SetDefault("DB_AUTO_MIGRATE", false)
	v.SetDefault("SQLITE_PATH", "./timetable.db")

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("ENABLE_ROSTER_CACHE", false)
	v.SetDefault("ROSTER_CACHE_TTL", "10m")

	v.SetDefault("SCHEDULER_MAX_CLASSES", 2000)
	v.SetDefault("SCHEDULER_MAX_TEACHERS", 500)
	v.SetDefault("SCHEDULER_MAX_STUDENTS", 50000)
	v.SetDefault("SCHEDULER_MAX_WINDOWS", 64)

	v.SetDefault("EXPORT_DIR", "./exports")
	v.SetDefault("EXPORT_FORMATS", "")
	v.SetDefault("EXPORT_RETENTION", "")
	v.SetDefault("METRICS_TEXTFILE", "")
	v.SetDefault("VIEW_STUDENT", "")
	v.SetDefault("VIEW_TEACHER", "")
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
