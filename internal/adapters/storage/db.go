package storage

import (
	"database/sql"
	"fmt"
)

// schemaVersion is bumped whenever the schema below changes shape.
const schemaVersion = 1

// LatestSchemaVersion returns the schema version this binary expects.
func LatestSchemaVersion() int {
	return schemaVersion
}

// InitDB initializes the database schema.
// PRE: db is a valid database connection
// POST: All tables are created, WAL mode enabled
func InitDB(db *sql.DB) error {
	// Enable WAL mode for better concurrency
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return fmt.Errorf("failed to enable WAL mode: %w", err)
	}
	// Enable foreign key enforcement
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		return fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	// Create tables
	schema := `
	CREATE TABLE IF NOT EXISTS account (
		id TEXT PRIMARY KEY,
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL DEFAULT '',
		role TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'active',
		created_at TEXT NOT NULL,
		failed_logins INTEGER NOT NULL DEFAULT 0,
		locked_until TEXT
	);

	CREATE TABLE IF NOT EXISTS recovery_token (
		id TEXT PRIMARY KEY,
		account_id TEXT NOT NULL,
		token TEXT NOT NULL UNIQUE,
		expires_at TEXT NOT NULL,
		used INTEGER NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL,
		FOREIGN KEY (account_id) REFERENCES account(id)
	);

	CREATE TABLE IF NOT EXISTS profile (
		id TEXT PRIMARY KEY,
		account_id TEXT NOT NULL UNIQUE,
		role TEXT NOT NULL,
		subscription_tier TEXT NOT NULL DEFAULT 'free',
		email TEXT NOT NULL,
		display_name TEXT NOT NULL DEFAULT '',
		FOREIGN KEY (account_id) REFERENCES account(id)
	);

	CREATE TABLE IF NOT EXISTS client (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		name TEXT NOT NULL,
		email TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL,
		FOREIGN KEY (user_id) REFERENCES account(id)
	);

	CREATE TABLE IF NOT EXISTS lesson (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		client_id TEXT,
		subject TEXT NOT NULL,
		notes TEXT NOT NULL DEFAULT '',
		duration_minutes INTEGER NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL,
		FOREIGN KEY (user_id) REFERENCES account(id),
		FOREIGN KEY (client_id) REFERENCES client(id)
	);

	CREATE TABLE IF NOT EXISTS feature_flag (
		key TEXT PRIMARY KEY,
		description TEXT NOT NULL DEFAULT '',
		enabled_admin INTEGER NOT NULL DEFAULT 0,
		enabled_power INTEGER NOT NULL DEFAULT 0,
		enabled_basic INTEGER NOT NULL DEFAULT 0,
		required_capability TEXT NOT NULL DEFAULT ''
	);

	CREATE INDEX IF NOT EXISTS idx_lesson_user_created ON lesson(user_id, created_at DESC);
	CREATE INDEX IF NOT EXISTS idx_client_user_name ON client(user_id, name);
	CREATE INDEX IF NOT EXISTS idx_recovery_token_account ON recovery_token(account_id);
	`

	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

// MigrateDB brings the database up to the latest schema version.
// The schema is additive (CREATE IF NOT EXISTS), so migration is InitDB plus
// a user_version stamp.
// PRE: db is a valid database connection
// POST: Schema exists and user_version equals LatestSchemaVersion
func MigrateDB(db *sql.DB) error {
	var current int
	if err := db.QueryRow("PRAGMA user_version").Scan(&current); err != nil {
		return fmt.Errorf("failed to read user_version: %w", err)
	}
	if current > schemaVersion {
		return fmt.Errorf("database schema version %d is newer than this binary (%d)", current, schemaVersion)
	}

	if err := InitDB(db); err != nil {
		return err
	}

	if current != schemaVersion {
		if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version = %d", schemaVersion)); err != nil {
			return fmt.Errorf("failed to stamp user_version: %w", err)
		}
	}
	return nil
}
