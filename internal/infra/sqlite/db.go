// Package sqlite provides SQLite-based persistent storage for Spiral.
// Uses WAL mode for concurrent reads and crash-safe writes. The engine
// core never touches this package directly — the monitor and API hand
// fully computed values in and read records back out.
package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // Pure-Go SQLite driver (no CGO required)
)

// dayFormat keys daily tables by local calendar day.
const dayFormat = "2006-01-02"

// DB wraps a SQLite connection with WAL mode and migrations.
type DB struct {
	db *sql.DB
}

// Open creates or opens the SQLite database at dir/spiral.db.
// Enables WAL mode, foreign keys, and 5-second busy timeout.
func Open(dir string) (*DB, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	dbPath := filepath.Join(dir, "spiral.db")
	dsn := dbPath + "?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on"

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	// SQLite is single-writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	d := &DB{db: db}
	if err := d.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return d, nil
}

// Close cleanly shuts down the database.
func (d *DB) Close() error {
	return d.db.Close()
}

// Ping checks database connectivity.
func (d *DB) Ping() error {
	return d.db.Ping()
}

// migrate runs idempotent schema migrations.
func (d *DB) migrate() error {
	migrations := []string{
		// Closed usage sessions
		`CREATE TABLE IF NOT EXISTS sessions (
			id                TEXT PRIMARY KEY,
			day               TEXT NOT NULL,
			start_time        INTEGER NOT NULL,
			end_time          INTEGER,
			app_id            TEXT NOT NULL,
			duration_ms       INTEGER NOT NULL DEFAULT 0,
			scroll_events     INTEGER NOT NULL DEFAULT 0,
			interactions      INTEGER NOT NULL DEFAULT 0,
			app_switches      INTEGER NOT NULL DEFAULT 0,
			avg_velocity      REAL NOT NULL DEFAULT 0,
			was_interrupted   BOOLEAN NOT NULL DEFAULT 0,
			was_ignored       BOOLEAN NOT NULL DEFAULT 0,
			user_response     TEXT NOT NULL DEFAULT '',
			user_note         TEXT NOT NULL DEFAULT '',
			message_shown     TEXT NOT NULL DEFAULT '',
			intervention_mode TEXT NOT NULL DEFAULT 'gentle'
		)`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_day ON sessions(day)`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_start ON sessions(start_time)`,

		// One row per calendar day
		`CREATE TABLE IF NOT EXISTS daily_stats (
			day               TEXT PRIMARY KEY,
			doom_score        INTEGER NOT NULL DEFAULT 0,
			total_screen_ms   INTEGER NOT NULL DEFAULT 0,
			doom_scroll_ms    INTEGER NOT NULL DEFAULT 0,
			interventions     INTEGER NOT NULL DEFAULT 0,
			successful_breaks INTEGER NOT NULL DEFAULT 0,
			ignored           INTEGER NOT NULL DEFAULT 0,
			current_streak    INTEGER NOT NULL DEFAULT 0,
			longest_streak    INTEGER NOT NULL DEFAULT 0,
			time_saved_ms     INTEGER NOT NULL DEFAULT 0,
			percentile_rank   INTEGER NOT NULL DEFAULT 50
		)`,

		// Per-app usage time within a day
		`CREATE TABLE IF NOT EXISTS app_usage (
			day         TEXT NOT NULL,
			app_id      TEXT NOT NULL,
			duration_ms INTEGER NOT NULL DEFAULT 0,
			PRIMARY KEY (day, app_id)
		)`,

		// Unlocked achievements (append-only; only shared ever flips)
		`CREATE TABLE IF NOT EXISTS achievements (
			id          TEXT PRIMARY KEY,
			unlocked_at INTEGER NOT NULL,
			shared      BOOLEAN NOT NULL DEFAULT 0
		)`,

		// Key-value store for user settings
		`CREATE TABLE IF NOT EXISTS settings (
			key   TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`,
	}

	for _, m := range migrations {
		if _, err := d.db.Exec(m); err != nil {
			return fmt.Errorf("exec migration: %w", err)
		}
	}
	return nil
}
