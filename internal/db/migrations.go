package db

import (
	"database/sql"
	"fmt"
)

// migrations is an ordered list of SQL statements to run.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id            TEXT    PRIMARY KEY,
		email         TEXT    NOT NULL UNIQUE,
		name          TEXT    NOT NULL DEFAULT '',
		password_hash TEXT    NOT NULL,
		verified      INTEGER NOT NULL DEFAULT 0,
		created_at    DATETIME DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS otp_codes (
		id         INTEGER  PRIMARY KEY AUTOINCREMENT,
		email      TEXT     NOT NULL,
		code       TEXT     NOT NULL,
		expires_at DATETIME NOT NULL,
		used       INTEGER  DEFAULT 0,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS refresh_tokens (
		token      TEXT     PRIMARY KEY,
		user_id    TEXT     NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		expires_at DATETIME NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS visits (
		id             TEXT    PRIMARY KEY,
		user_id        TEXT    NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		visit_type     TEXT    NOT NULL,
		place          TEXT    NOT NULL,
		date           TEXT    NOT NULL,
		mantra         TEXT    NOT NULL,
		purpose        TEXT    NOT NULL,
		custom_purpose TEXT,
		created_at     DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at     DATETIME DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS family_members (
		id           INTEGER PRIMARY KEY AUTOINCREMENT,
		visit_id     TEXT    NOT NULL REFERENCES visits(id) ON DELETE CASCADE,
		position     INTEGER NOT NULL,
		name         TEXT    NOT NULL,
		relationship TEXT    NOT NULL,
		age          INTEGER,
		mantra       TEXT    NOT NULL DEFAULT ''
	)`,
	`CREATE INDEX IF NOT EXISTS idx_visits_user_date ON visits(user_id, date)`,
	`CREATE INDEX IF NOT EXISTS idx_family_members_visit ON family_members(visit_id, position)`,
}

// migrate runs all migrations in order.
func migrate(db *sql.DB) error {
	for i, m := range migrations {
		if _, err := db.Exec(m); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}
