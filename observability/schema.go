package observability

import "database/sql"

// Schema contains the DDL for the session event log. Call Init(db) to apply
// it, or embed the constant in your own schema management.
const Schema = `
-- Session Events
CREATE TABLE IF NOT EXISTS session_events (
    event_id TEXT PRIMARY KEY,
    event_type TEXT NOT NULL,
    file_name TEXT,
    detail TEXT,
    success INTEGER NOT NULL DEFAULT 1,
    duration_ms INTEGER,
    created_at INTEGER NOT NULL DEFAULT (strftime('%s', 'now'))
);
CREATE INDEX IF NOT EXISTS idx_session_events_type_time
    ON session_events(event_type, created_at DESC);
CREATE INDEX IF NOT EXISTS idx_session_events_time
    ON session_events(created_at DESC);
`

// Init applies the schema.
func Init(db *sql.DB) error {
	_, err := db.Exec(Schema)
	return err
}
