package audit

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgconn"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captureRecorder struct {
	events []Event
}

func (c *captureRecorder) Record(_ context.Context, e Event) {
	c.events = append(c.events, e)
}

func TestNewEvent_UsesClientFromContext(t *testing.T) {
	ctx := WithClient(context.Background(), Client{IP: "192.0.2.10", UserAgent: "curl/8.0"})

	e := NewEvent(ctx, EventLoginFailure, "bob@example.com")
	assert.Equal(t, EventLoginFailure, e.Type)
	assert.Equal(t, "bob@example.com", e.Username)
	assert.Equal(t, "192.0.2.10", e.IP)
	assert.Equal(t, "curl/8.0", e.UserAgent)
	assert.False(t, e.At.IsZero())
}

func TestClientFromContext_Missing(t *testing.T) {
	assert.Equal(t, Client{}, ClientFromContext(context.Background()))
}

func TestMulti(t *testing.T) {
	a, b := &captureRecorder{}, &captureRecorder{}
	m := Multi{a, Nop{}, b}

	m.Record(context.Background(), Event{Type: EventLogout, Username: "alice@example.com"})

	require.Len(t, a.events, 1)
	require.Len(t, b.events, 1)
	assert.Equal(t, EventLogout, b.events[0].Type)
}

func TestLogRecorder(t *testing.T) {
	var buf bytes.Buffer
	logger := logrus.New()
	logger.SetOutput(&buf)
	logger.SetFormatter(&logrus.JSONFormatter{})

	NewLogRecorder(logger).Record(context.Background(), Event{Type: EventRegister, Username: "alice@example.com"})

	assert.Contains(t, buf.String(), `"event":"register"`)
	assert.Contains(t, buf.String(), `"username":"alice@example.com"`)
}

type fakeExecer struct {
	queries []string
	args    [][]interface{}
	err     error
}

func (f *fakeExecer) Exec(_ context.Context, sql string, arguments ...interface{}) (pgconn.CommandTag, error) {
	f.queries = append(f.queries, sql)
	f.args = append(f.args, arguments)
	return pgconn.CommandTag("INSERT 0 1"), f.err
}

func TestPostgresRecorder(t *testing.T) {
	t.Run("ensure schema", func(t *testing.T) {
		db := &fakeExecer{}
		require.NoError(t, NewPostgresRecorder(db, logrus.New()).EnsureSchema(context.Background()))
		require.Len(t, db.queries, 1)
		assert.Contains(t, db.queries[0], "CREATE TABLE IF NOT EXISTS auth_events")
	})

	t.Run("inserts event", func(t *testing.T) {
		db := &fakeExecer{}
		e := Event{Type: EventLoginSuccess, Username: "alice@example.com", IP: "192.0.2.1", UserAgent: "test"}

		NewPostgresRecorder(db, logrus.New()).Record(context.Background(), e)

		require.Len(t, db.args, 1)
		assert.Contains(t, db.queries[0], "INSERT INTO auth_events")
		assert.Equal(t, []interface{}{"login_success", "alice@example.com", "192.0.2.1", "test", e.At}, db.args[0])
	})

	t.Run("insert failure is logged, not returned", func(t *testing.T) {
		var buf bytes.Buffer
		logger := logrus.New()
		logger.SetOutput(&buf)
		db := &fakeExecer{err: errors.New("connection refused")}

		NewPostgresRecorder(db, logger).Record(context.Background(), Event{Type: EventLogout})

		assert.Contains(t, buf.String(), "failed to persist auth event")
	})
}
