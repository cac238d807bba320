// Package db opens the database and applies the embedded migrations.
package db

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// Init connects with driver "sqlite" or "pgx". For SQLite the directory of
// the database file is created first and foreign keys are always enforced.
func Init(driver, connection string) (*sqlx.DB, error) {
	if driver == "sqlite" {
		file, _, _ := strings.Cut(connection, "?")
		if err := os.MkdirAll(filepath.Dir(file), 0755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
		connection = withForeignKeys(connection)
	}

	db, err := sqlx.Open(driver, connection)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", driver, err)
	}
	configurePool(db, driver)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to reach %s database: %w", driver, err)
	}

	slog.Info("database connected", "driver", driver)
	return db, nil
}

// withForeignKeys adds the foreign_keys pragma to a SQLite DSN that lacks
// it. Custom values and notes rely on ON DELETE CASCADE, which SQLite only
// honours per connection with the pragma on.
func withForeignKeys(dsn string) string {
	if strings.Contains(dsn, "foreign_keys") {
		return dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_pragma=foreign_keys(1)"
}

// configurePool sizes the pool. SQLite serializes writers, so a small pool
// with busy_timeout in the DSN avoids most SQLITE_BUSY errors.
func configurePool(db *sqlx.DB, driver string) {
	if driver == "sqlite" {
		db.SetMaxOpenConns(4)
		db.SetMaxIdleConns(4)
		return
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)
}

func Close(db *sqlx.DB) error {
	if db == nil {
		return nil
	}
	return db.Close()
}
