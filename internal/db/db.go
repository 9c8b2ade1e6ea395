package db

import (
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/mattn/go-sqlite3"

	"github.com/yusufkecer/bookshelf-backend/internal/config"
)

func Connect(cfg *config.Config, logger *slog.Logger) (*sql.DB, error) {
	return Open(cfg.DBDriver, cfg.DSN(), logger)
}

// Open opens and pings a database for the given driver ("mysql" or "sqlite3").
func Open(driver, dsn string, logger *slog.Logger) (*sql.DB, error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if driver == "sqlite3" {
		// A single connection keeps :memory: databases shared and serializes writers.
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(5 * time.Minute)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info("database connection established", "driver", driver)
	return db, nil
}
