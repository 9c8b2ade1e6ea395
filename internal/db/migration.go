package db

import (
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
)

// Dialect selects the DDL variant of each migration.
type Dialect string

const (
	MySQL  Dialect = "mysql"
	SQLite Dialect = "sqlite3"
)

type migration struct {
	version string
	mysql   string
	sqlite  string
}

func (m migration) sql(d Dialect) string {
	if d == SQLite {
		return m.sqlite
	}
	return m.mysql
}

var migrations = []migration{
	{
		version: "000_create_users",
		mysql: `
			CREATE TABLE IF NOT EXISTS users (
				id                    BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
				email                 VARCHAR(255) NOT NULL UNIQUE,
				password_hash         VARCHAR(255) NOT NULL,
				password_reset_token  CHAR(36) NULL,
				password_reset_expiry DATETIME NULL,
				created_at            DATETIME DEFAULT CURRENT_TIMESTAMP,
				updated_at            DATETIME DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
			) DEFAULT CHARSET=utf8mb4`,
		sqlite: `
			CREATE TABLE IF NOT EXISTS users (
				id                    INTEGER PRIMARY KEY AUTOINCREMENT,
				email                 VARCHAR(255) NOT NULL UNIQUE,
				password_hash         VARCHAR(255) NOT NULL,
				password_reset_token  CHAR(36) NULL,
				password_reset_expiry DATETIME NULL,
				created_at            DATETIME DEFAULT CURRENT_TIMESTAMP,
				updated_at            DATETIME DEFAULT CURRENT_TIMESTAMP
			)`,
	},
	{
		version: "001_create_categories",
		mysql: `
			CREATE TABLE IF NOT EXISTS categories (
				id          BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
				description VARCHAR(100) NOT NULL,
				code        VARCHAR(16) NOT NULL
			) DEFAULT CHARSET=utf8mb4`,
		sqlite: `
			CREATE TABLE IF NOT EXISTS categories (
				id          INTEGER PRIMARY KEY AUTOINCREMENT,
				description VARCHAR(100) NOT NULL,
				code        VARCHAR(16) NOT NULL
			)`,
	},
	{
		version: "002_create_ratings",
		mysql: `
			CREATE TABLE IF NOT EXISTS ratings (
				id          BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
				user_id     BIGINT UNSIGNED NOT NULL DEFAULT 0,
				description VARCHAR(100) NOT NULL,
				code        VARCHAR(16) NOT NULL,
				INDEX idx_ratings_user (user_id)
			) DEFAULT CHARSET=utf8mb4`,
		sqlite: `
			CREATE TABLE IF NOT EXISTS ratings (
				id          INTEGER PRIMARY KEY AUTOINCREMENT,
				user_id     INTEGER NOT NULL DEFAULT 0,
				description VARCHAR(100) NOT NULL,
				code        VARCHAR(16) NOT NULL
			);
			CREATE INDEX IF NOT EXISTS idx_ratings_user ON ratings(user_id)`,
	},
	{
		version: "003_create_books",
		mysql: `
			CREATE TABLE IF NOT EXISTS books (
				id          BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
				title       VARCHAR(255) NOT NULL,
				author      VARCHAR(255) NOT NULL,
				user_id     BIGINT UNSIGNED NOT NULL,
				category_id BIGINT UNSIGNED NOT NULL,
				rating_id   BIGINT UNSIGNED NOT NULL,
				finished_on DATETIME NULL,
				image_url   VARCHAR(2048) NOT NULL DEFAULT '',
				page_count  INT NULL,
				summary     TEXT NULL,
				year        INT NULL,
				created_at  DATETIME DEFAULT CURRENT_TIMESTAMP,
				updated_at  DATETIME DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
				FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE,
				FOREIGN KEY (category_id) REFERENCES categories(id),
				FOREIGN KEY (rating_id) REFERENCES ratings(id)
			) DEFAULT CHARSET=utf8mb4`,
		sqlite: `
			CREATE TABLE IF NOT EXISTS books (
				id          INTEGER PRIMARY KEY AUTOINCREMENT,
				title       VARCHAR(255) NOT NULL,
				author      VARCHAR(255) NOT NULL,
				user_id     INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
				category_id INTEGER NOT NULL REFERENCES categories(id),
				rating_id   INTEGER NOT NULL REFERENCES ratings(id),
				finished_on DATETIME NULL,
				image_url   VARCHAR(2048) NOT NULL DEFAULT '',
				page_count  INTEGER NULL,
				summary     TEXT NULL,
				year        INTEGER NULL,
				created_at  DATETIME DEFAULT CURRENT_TIMESTAMP,
				updated_at  DATETIME DEFAULT CURRENT_TIMESTAMP
			);
			CREATE INDEX IF NOT EXISTS idx_books_user ON books(user_id)`,
	},
	{
		version: "004_seed_categories",
		mysql:   `INSERT INTO categories (description, code) VALUES ('Fiction', '🧟'), ('Non-fiction', '🧠')`,
		sqlite:  `INSERT INTO categories (description, code) VALUES ('Fiction', '🧟'), ('Non-fiction', '🧠')`,
	},
}

func RunMigrations(db *sql.DB, dialect Dialect, logger *slog.Logger) error {
	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version    VARCHAR(255) PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`); err != nil {
		return fmt.Errorf("failed to create schema_migrations table: %w", err)
	}

	for _, m := range migrations {
		applied, err := isMigrationApplied(db, m.version)
		if err != nil {
			return err
		}
		if applied {
			continue
		}

		if err := executeMigration(db, m, dialect); err != nil {
			return err
		}

		logger.Info("applied migration", "version", m.version)
	}

	return nil
}

func isMigrationApplied(db *sql.DB, version string) (bool, error) {
	var count int
	err := db.QueryRow(
		"SELECT COUNT(*) FROM schema_migrations WHERE version = ?",
		version,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check migration %s: %w", version, err)
	}
	return count > 0, nil
}

func executeMigration(db *sql.DB, m migration, dialect Dialect) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction for %s: %w", m.version, err)
	}

	for _, stmt := range strings.Split(m.sql(dialect), ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if _, err := tx.Exec(stmt); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to execute migration %s: %w", m.version, err)
		}
	}

	if _, err := tx.Exec(
		"INSERT INTO schema_migrations (version) VALUES (?)",
		m.version,
	); err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to record migration %s: %w", m.version, err)
	}

	return tx.Commit()
}
