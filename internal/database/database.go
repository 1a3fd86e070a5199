package database

import (
	"database/sql"

	_ "modernc.org/sqlite" // SQLite driver
)

// New creates a new database connection pool.
func New(dataSourceName string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dataSourceName+"?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, err
	}
	if err = db.Ping(); err != nil {
		return nil, err
	}
	return db, nil
}

// Migrate runs the SQL statements to set up the database schema.
// Timestamps are stored as integer unix milliseconds so that ordering and
// range scans are exact.
func Migrate(db *sql.DB) error {
	const sqlStmt = `
	CREATE TABLE IF NOT EXISTS users (
		id TEXT NOT NULL PRIMARY KEY,
		email TEXT UNIQUE,
		password_hash TEXT,
		created_at INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS classification_history (
		id TEXT NOT NULL PRIMARY KEY,
		user_id TEXT NOT NULL,
		filename TEXT NOT NULL,
		top_category TEXT NOT NULL,
		confidence REAL NOT NULL,
		-- Stored as JSON text: [{"category": ..., "confidence": ...}]
		all_predictions TEXT,
		created_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_history_user ON classification_history(user_id);
	CREATE INDEX IF NOT EXISTS idx_history_created ON classification_history(created_at);

	CREATE TABLE IF NOT EXISTS events (
		id TEXT NOT NULL PRIMARY KEY,
		type TEXT NOT NULL,
		level TEXT NOT NULL,
		message TEXT NOT NULL,
		user_id TEXT,
		created_at INTEGER NOT NULL
	);
	`
	_, err := db.Exec(sqlStmt)
	return err
}
