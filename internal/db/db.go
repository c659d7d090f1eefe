package db

import (
	"database/sql"
	"database/sql/driver"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"climate-server/internal/config"

	"github.com/lib/pq"
	sqlite3 "github.com/mattn/go-sqlite3"
)

// Open returns a handle on the pre-populated store. The store is never
// created here: a missing sqlite file is an error.
func Open(cfg config.Config, logger *slog.Logger) (*sql.DB, error) {
	dsn, err := buildDSN(cfg)
	if err != nil {
		return nil, err
	}

	var db *sql.DB
	if cfg.LogSQL {
		drv, err := driverFor(cfg.Driver)
		if err != nil {
			return nil, err
		}
		connector, err := NewLoggingConnector(drv, dsn, logger)
		if err != nil {
			return nil, fmt.Errorf("db open: %w", err)
		}
		db = sql.OpenDB(connector)
	} else {
		db, err = sql.Open(cfg.Driver, dsn)
		if err != nil {
			return nil, fmt.Errorf("db open: %w", err)
		}
	}

	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns >= 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	// Validate connectivity early
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db ping: %w", err)
	}

	return db, nil
}

func Close(db *sql.DB) error {
	if db == nil {
		return nil
	}
	return db.Close()
}

func driverFor(name string) (driver.Driver, error) {
	switch name {
	case "sqlite3":
		return &sqlite3.SQLiteDriver{}, nil
	case "postgres":
		return &pq.Driver{}, nil
	default:
		return nil, fmt.Errorf("unsupported db driver %q", name)
	}
}

func buildDSN(cfg config.Config) (string, error) {
	if cfg.DSN != "" {
		return cfg.DSN, nil
	}
	if cfg.Driver != "sqlite3" {
		return "", fmt.Errorf("DB_DSN is required for driver %q", cfg.Driver)
	}

	// The dataset is loaded elsewhere; open it read-only:
	// - mode=ro: sqlite refuses to create or write the file
	// - _query_only: rejects any statement that would modify the database
	// - _busy_timeout: waits out an external loader holding a lock
	params := []string{
		"mode=ro",
		"_busy_timeout=5000",
		"_query_only=true",
	}

	path := cfg.Path
	if strings.HasPrefix(path, "file:") {
		sep := "?"
		if strings.Contains(path, "?") {
			sep = "&"
		}
		return path + sep + strings.Join(params, "&"), nil
	}

	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("sqlite store %s: %w", path, err)
	}
	return fmt.Sprintf("file:%s?%s", path, strings.Join(params, "&")), nil
}
