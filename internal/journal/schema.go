package journal

import (
	"database/sql"
)

// initSchema initializes the database schema for the findings journal
func initSchema(db *sql.DB) error {
	_, err := db.Exec(`
        CREATE TABLE IF NOT EXISTS findings (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            session_id TEXT NOT NULL,
            recorded_at INTEGER NOT NULL,
            kind TEXT NOT NULL,
            sensor TEXT NOT NULL,
            severity TEXT NOT NULL,
            title TEXT NOT NULL,
            start_sec REAL NOT NULL,
            end_sec REAL NOT NULL,
            duration_sec REAL NOT NULL,
            metrics TEXT
        );
        CREATE INDEX IF NOT EXISTS idx_findings_session ON findings (session_id, start_sec)
    `)
	return err
}
