package database

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"pencraft/internal/platform/config"

	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // SQLite driver
)

// Connect opens and pings the SQL database selected by cfg.StorageDriver.
func Connect(ctx context.Context, cfg *config.Config) (*sqlx.DB, error) {
	var (
		db  *sqlx.DB
		err error
	)
	switch cfg.StorageDriver {
	case config.DriverPostgres:
		db, err = sqlx.Open("pgx", cfg.DBConnStr)
		if err != nil {
			return nil, fmt.Errorf("error opening database: %w", err)
		}
		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(25)
		db.SetConnMaxLifetime(5 * time.Minute)
	case config.DriverSQLite:
		db, err = sqlx.Open("sqlite", SQLiteDSN(cfg.SQLitePath))
		if err != nil {
			return nil, fmt.Errorf("error opening database: %w", err)
		}
		// SQLite allows one writer; a single connection also keeps transactions serialized.
		db.SetMaxOpenConns(1)
	default:
		return nil, fmt.Errorf("storage driver %q has no SQL database", cfg.StorageDriver)
	}

	if err = db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("error connecting to database: %w", err)
	}

	slog.Info("database connected", "driver", cfg.StorageDriver)
	return db, nil
}

func SQLiteDSN(path string) string {
	return "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_time_format=sqlite"
}

func Close(db *sqlx.DB) {
	if db != nil {
		db.Close()
		slog.Info("database connection closed")
	}
}
