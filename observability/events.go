// Package observability provides the optional session event log: one SQLite
// row per document open, edit commit, or save. It exists for troubleshooting
// user sessions after the fact and is disabled unless a database path is
// configured.
package observability

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/hazyhaar/plume/idgen"
)

// Event is a domain-level occurrence to record.
type Event struct {
	Type     string // "document_open", "edit_commit", "document_save"
	File     string
	Detail   string // optional free-form JSON
	Success  bool
	Duration time.Duration
}

// EventLogger writes session events. Logging is non-blocking in the failure
// sense: errors go to slog and never propagate, so a broken event store
// cannot block the app.
type EventLogger struct {
	db    *sql.DB
	newID idgen.Generator
}

// Option configures an EventLogger.
type Option func(*EventLogger)

// WithIDGenerator sets a custom ID generator for event IDs.
func WithIDGenerator(gen idgen.Generator) Option {
	return func(l *EventLogger) { l.newID = gen }
}

// NewEventLogger creates a logger backed by the given database.
func NewEventLogger(db *sql.DB, opts ...Option) *EventLogger {
	l := &EventLogger{
		db:    db,
		newID: idgen.Prefixed("evt_", idgen.Default),
	}
	for _, o := range opts {
		o(l)
	}
	return l
}

// Log records one event.
func (l *EventLogger) Log(ctx context.Context, event Event) {
	_, err := l.db.ExecContext(ctx, `
		INSERT INTO session_events (
			event_id, event_type, file_name, detail, success, duration_ms, created_at
		) VALUES (?,?,?,?,?,?,?)`,
		l.newID(), event.Type, event.File, event.Detail, event.Success,
		event.Duration.Milliseconds(), time.Now().Unix())
	if err != nil {
		slog.Error("observability: event log failed", "error", err, "event_type", event.Type)
	}
}

// Cleanup deletes events older than the retention threshold. Zero days means
// no cleanup.
func Cleanup(ctx context.Context, db *sql.DB, days int) error {
	if days <= 0 {
		return nil
	}
	cutoff := time.Now().Unix() - int64(days*86400)
	_, err := db.ExecContext(ctx, "DELETE FROM session_events WHERE created_at < ?", cutoff)
	return err
}
