// Package audit records authentication events.
package audit

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

type EventType string

const (
	EventRegister         EventType = "register"
	EventLoginSuccess     EventType = "login_success"
	EventLoginFailure     EventType = "login_failure"
	EventLoginRateLimited EventType = "login_rate_limited"
	EventLogout           EventType = "logout"
)

type Event struct {
	Type      EventType
	Username  string
	IP        string
	UserAgent string
	At        time.Time
}

// Recorder receives authentication events. Implementations must not fail the
// caller; delivery problems are theirs to log.
type Recorder interface {
	Record(ctx context.Context, e Event)
}

// Client describes the caller of a request
type Client struct {
	IP        string
	UserAgent string
}

type clientKey struct{}

// WithClient attaches caller details to ctx so events can be attributed
func WithClient(ctx context.Context, c Client) context.Context {
	return context.WithValue(ctx, clientKey{}, c)
}

// ClientFromContext returns the caller attached by WithClient, or a zero Client
func ClientFromContext(ctx context.Context) Client {
	c, _ := ctx.Value(clientKey{}).(Client)
	return c
}

// NewEvent builds an event stamped with now and the client found in ctx
func NewEvent(ctx context.Context, typ EventType, username string) Event {
	c := ClientFromContext(ctx)
	return Event{
		Type:      typ,
		Username:  username,
		IP:        c.IP,
		UserAgent: c.UserAgent,
		At:        time.Now().UTC(),
	}
}

// LogRecorder writes events to a logrus logger
type LogRecorder struct {
	logger *logrus.Logger
}

func NewLogRecorder(logger *logrus.Logger) *LogRecorder {
	return &LogRecorder{logger: logger}
}

func (r *LogRecorder) Record(_ context.Context, e Event) {
	r.logger.WithFields(logrus.Fields{
		"event":      string(e.Type),
		"username":   e.Username,
		"ip":         e.IP,
		"user_agent": e.UserAgent,
	}).Info("auth event")
}

// Multi fans an event out to every recorder
type Multi []Recorder

func (m Multi) Record(ctx context.Context, e Event) {
	for _, r := range m {
		r.Record(ctx, e)
	}
}

// Nop discards events
type Nop struct{}

func (Nop) Record(context.Context, Event) {}
