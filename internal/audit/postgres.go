package audit

import (
	"context"

	"github.com/jackc/pgconn"
	"github.com/sirupsen/logrus"
)

const createEventsTable = `
CREATE TABLE IF NOT EXISTS auth_events (
	id          BIGSERIAL PRIMARY KEY,
	event_type  TEXT        NOT NULL,
	username    TEXT        NOT NULL,
	ip_address  TEXT        NOT NULL DEFAULT '',
	user_agent  TEXT        NOT NULL DEFAULT '',
	occurred_at TIMESTAMPTZ NOT NULL
)`

const insertEvent = `
INSERT INTO auth_events (event_type, username, ip_address, user_agent, occurred_at)
VALUES ($1, $2, $3, $4, $5)`

// Execer is the subset of pgxpool.Pool the recorder needs
type Execer interface {
	Exec(ctx context.Context, sql string, arguments ...interface{}) (pgconn.CommandTag, error)
}

// PostgresRecorder appends events to the auth_events table.
// Only events are persisted; users and sessions stay in memory.
type PostgresRecorder struct {
	db     Execer
	logger *logrus.Logger
}

func NewPostgresRecorder(db Execer, logger *logrus.Logger) *PostgresRecorder {
	return &PostgresRecorder{db: db, logger: logger}
}

// EnsureSchema creates the auth_events table if it is missing
func (r *PostgresRecorder) EnsureSchema(ctx context.Context) error {
	_, err := r.db.Exec(ctx, createEventsTable)
	return err
}

func (r *PostgresRecorder) Record(ctx context.Context, e Event) {
	_, err := r.db.Exec(ctx, insertEvent, string(e.Type), e.Username, e.IP, e.UserAgent, e.At)
	if err != nil {
		r.logger.WithError(err).WithField("event", string(e.Type)).Warn("failed to persist auth event")
	}
}
