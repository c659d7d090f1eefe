package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultTobsStation    = "USC00519281"
	DefaultTobsWindowDays = 365
)

type Config struct {
	AppEnv   string
	LogLevel slog.Level
	HTTPAddr string

	// ShutdownTimeout bounds how long in-flight requests may drain on SIGTERM.
	ShutdownTimeout time.Duration

	Driver          string
	DSN             string
	Path            string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	LogSQL          bool

	// TobsStation is the station reported by /api/v1.0/tobs.
	TobsStation    string
	TobsWindowDays int
}

// fileConfig mirrors the optional YAML file named by CONFIG_FILE.
// Every value is a default; the matching environment variable wins.
type fileConfig struct {
	AppEnv   string `yaml:"app_env"`
	LogLevel string `yaml:"log_level"`
	HTTP     struct {
		Addr            string `yaml:"addr"`
		ShutdownTimeout string `yaml:"shutdown_timeout"`
	} `yaml:"http"`
	DB struct {
		Driver          string `yaml:"driver"`
		DSN             string `yaml:"dsn"`
		SQLitePath      string `yaml:"sqlite_path"`
		MaxOpenConns    *int   `yaml:"max_open_conns"`
		MaxIdleConns    *int   `yaml:"max_idle_conns"`
		ConnMaxLifetime string `yaml:"conn_max_lifetime"`
		LogSQL          *bool  `yaml:"log_sql"`
	} `yaml:"db"`
	Tobs struct {
		Station    string `yaml:"station"`
		WindowDays *int   `yaml:"window_days"`
	} `yaml:"tobs"`
}

func (f fileConfig) values() map[string]string {
	out := map[string]string{
		"APP_ENV":              f.AppEnv,
		"LOG_LEVEL":            f.LogLevel,
		"HTTP_ADDR":            f.HTTP.Addr,
		"SHUTDOWN_TIMEOUT":     f.HTTP.ShutdownTimeout,
		"DB_DRIVER":            f.DB.Driver,
		"DB_DSN":               f.DB.DSN,
		"SQLITE_PATH":          f.DB.SQLitePath,
		"DB_CONN_MAX_LIFETIME": f.DB.ConnMaxLifetime,
		"TOBS_STATION":         f.Tobs.Station,
	}
	if f.DB.MaxOpenConns != nil {
		out["DB_MAX_OPEN_CONNS"] = strconv.Itoa(*f.DB.MaxOpenConns)
	}
	if f.DB.MaxIdleConns != nil {
		out["DB_MAX_IDLE_CONNS"] = strconv.Itoa(*f.DB.MaxIdleConns)
	}
	if f.DB.LogSQL != nil {
		out["DB_LOG_SQL"] = strconv.FormatBool(*f.DB.LogSQL)
	}
	if f.Tobs.WindowDays != nil {
		out["TOBS_WINDOW_DAYS"] = strconv.Itoa(*f.Tobs.WindowDays)
	}
	return out
}

func loadFile(path string) (map[string]string, error) {
	if path == "" {
		return map[string]string{}, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("CONFIG_FILE %q: %w", path, err)
	}
	var f fileConfig
	if err := yaml.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("CONFIG_FILE %q: %w", path, err)
	}
	return f.values(), nil
}

type source struct {
	file map[string]string
}

// get returns the trimmed env value, then the file value, then def.
func (s source) get(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	if v := strings.TrimSpace(s.file[key]); v != "" {
		return v
	}
	return def
}

func (s source) int(key string, def int) (int, error) {
	raw := s.get(key, strconv.Itoa(def))
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
	return n, nil
}

func (s source) duration(key string, def time.Duration) (time.Duration, error) {
	raw := s.get(key, def.String())
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
	return d, nil
}

func (s source) bool(key string, def bool) (bool, error) {
	raw := s.get(key, strconv.FormatBool(def))
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
	return b, nil
}

func LoadFromEnv() (Config, error) {
	file, err := loadFile(strings.TrimSpace(os.Getenv("CONFIG_FILE")))
	if err != nil {
		return Config{}, err
	}
	src := source{file: file}

	appEnv := src.get("APP_ENV", "dev")
	switch appEnv {
	case "dev", "prod":
	default:
		return Config{}, fmt.Errorf("invalid APP_ENV %q (allowed: dev, prod)", appEnv)
	}

	level, err := parseLogLevel(src.get("LOG_LEVEL", "info"))
	if err != nil {
		return Config{}, err
	}

	shutdownTimeout, err := src.duration("SHUTDOWN_TIMEOUT", 10*time.Second)
	if err != nil {
		return Config{}, err
	}
	if shutdownTimeout <= 0 {
		return Config{}, fmt.Errorf("invalid SHUTDOWN_TIMEOUT %q: must be > 0", shutdownTimeout)
	}

	driver := src.get("DB_DRIVER", "sqlite3")
	switch driver {
	case "sqlite3", "postgres":
	default:
		return Config{}, fmt.Errorf("invalid DB_DRIVER %q (allowed: sqlite3, postgres)", driver)
	}
	dsn := src.get("DB_DSN", "")
	if driver == "postgres" && dsn == "" {
		return Config{}, fmt.Errorf("DB_DSN is required when DB_DRIVER=postgres")
	}

	maxOpenConns, err := src.int("DB_MAX_OPEN_CONNS", 1)
	if err != nil {
		return Config{}, err
	}
	maxIdleConns, err := src.int("DB_MAX_IDLE_CONNS", 1)
	if err != nil {
		return Config{}, err
	}
	connMaxLifetime, err := src.duration("DB_CONN_MAX_LIFETIME", 0)
	if err != nil {
		return Config{}, err
	}
	logSQL, err := src.bool("DB_LOG_SQL", false)
	if err != nil {
		return Config{}, err
	}

	windowDays, err := src.int("TOBS_WINDOW_DAYS", DefaultTobsWindowDays)
	if err != nil {
		return Config{}, err
	}
	if windowDays <= 0 {
		return Config{}, fmt.Errorf("invalid TOBS_WINDOW_DAYS %d: must be > 0", windowDays)
	}

	return Config{
		AppEnv:          appEnv,
		LogLevel:        level,
		HTTPAddr:        src.get("HTTP_ADDR", ":8080"),
		ShutdownTimeout: shutdownTimeout,
		Driver:          driver,
		DSN:             dsn,
		Path:            src.get("SQLITE_PATH", "Resources/hawaii.sqlite"),
		MaxOpenConns:    maxOpenConns,
		MaxIdleConns:    maxIdleConns,
		ConnMaxLifetime: connMaxLifetime,
		LogSQL:          logSQL,
		TobsStation:     src.get("TOBS_STATION", DefaultTobsStation),
		TobsWindowDays:  windowDays,
	}, nil
}

func parseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("invalid LOG_LEVEL %q (allowed: debug, info, warn, error)", s)
	}
}
