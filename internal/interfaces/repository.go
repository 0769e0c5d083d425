package interfaces

import (
	"context"

	"github.com/Stewz00/chat-auth-service/internal/model"
)

// UserRepository owns the lifetime of user records
type UserRepository interface {
	CreateUser(ctx context.Context, candidate model.NewUser) (*model.User, error)
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)
}

// SessionRepository owns the lifetime of sessions, keyed by opaque token
type SessionRepository interface {
	CreateSession(ctx context.Context, username string) (string, error)
	GetSession(ctx context.Context, sessionID string) (*model.Session, error)
	DeleteSession(ctx context.Context, sessionID string) error
	CountSessions() int
}

// AttemptTracker counts failed login attempts per username over a trailing window
type AttemptTracker interface {
	RecordAttempt(ctx context.Context, username string)
	IsRateLimited(ctx context.Context, username string) bool
	Reserve(ctx context.Context, username string) (release func(failed bool), ok bool)
}

// PasswordHasher hashes and verifies passwords.
// Verify returns (false, nil) on mismatch and an error only for a malformed hash.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, hash string) (bool, error)
}
