package repository

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"sync"
	"time"

	"github.com/Stewz00/chat-auth-service/internal/interfaces"
	"github.com/Stewz00/chat-auth-service/internal/model"
)

const (
	// DefaultSessionTTL is the fixed validity window of a session
	DefaultSessionTTL = 24 * time.Hour

	sessionTokenBytes = 32
)

// SessionRepositoryImpl keeps sessions in memory. Expired sessions are
// purged on the first lookup past their expiry, there is no background sweep.
type SessionRepositoryImpl struct {
	ttl  time.Duration
	opts storeOptions

	mu       sync.Mutex
	sessions map[string]*model.Session
}

var _ interfaces.SessionRepository = (*SessionRepositoryImpl)(nil)

// NewSessionRepository creates an empty session store. A non-positive ttl selects DefaultSessionTTL.
func NewSessionRepository(ttl time.Duration, opts ...Option) *SessionRepositoryImpl {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &SessionRepositoryImpl{
		ttl:      ttl,
		opts:     applyOptions(opts),
		sessions: make(map[string]*model.Session),
	}
}

// CreateSession issues a new random token for username
func (r *SessionRepositoryImpl) CreateSession(ctx context.Context, username string) (string, error) {
	token, err := generateSessionToken()
	if err != nil {
		return "", err
	}

	now := r.opts.now()
	session := &model.Session{
		ID:        token,
		Username:  username,
		CreatedAt: now,
		ExpiresAt: now.Add(r.ttl),
	}

	r.mu.Lock()
	r.sessions[token] = session
	r.mu.Unlock()

	return token, nil
}

// GetSession returns the session for sessionID, or ErrSessionNotFound if it
// is unknown or expired. An expired session is deleted as part of the lookup.
func (r *SessionRepositoryImpl) GetSession(ctx context.Context, sessionID string) (*model.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	session, ok := r.sessions[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	if session.ExpiredAt(r.opts.now()) {
		delete(r.sessions, sessionID)
		return nil, ErrSessionNotFound
	}
	out := *session
	return &out, nil
}

// DeleteSession removes a session. Deleting an unknown token is not an error.
func (r *SessionRepositoryImpl) DeleteSession(ctx context.Context, sessionID string) error {
	r.mu.Lock()
	delete(r.sessions, sessionID)
	r.mu.Unlock()
	return nil
}

// CountSessions returns the number of stored sessions, including expired ones not yet purged
func (r *SessionRepositoryImpl) CountSessions() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

func generateSessionToken() (string, error) {
	b := make([]byte, sessionTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate session token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
