package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/Stewz00/chat-auth-service/internal/model"
	"github.com/Stewz00/chat-auth-service/internal/response"
	"github.com/Stewz00/chat-auth-service/internal/service"
)

// Authenticator resolves a bearer token to its owner
type Authenticator interface {
	Authenticate(ctx context.Context, sessionID string) (*model.User, *model.Session, error)
}

type contextKey string

const (
	userKey    contextKey = "user"
	sessionKey contextKey = "session"
)

// BearerToken returns the token from "Authorization: Bearer <token>", or ""
func BearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
}

// RequireSession rejects requests without a live session and puts the
// session's user on the request context.
func RequireSession(auth Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := BearerToken(r)
			if token == "" {
				response.Unauthorized(w, "No session provided")
				return
			}

			user, session, err := auth.Authenticate(r.Context(), token)
			if err != nil {
				if errors.Is(err, service.ErrInvalidSession) {
					response.Unauthorized(w, "Invalid session")
					return
				}
				response.InternalError(w)
				return
			}

			ctx := context.WithValue(r.Context(), userKey, user)
			ctx = context.WithValue(ctx, sessionKey, session)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserFromContext returns the user set by RequireSession
func UserFromContext(ctx context.Context) (*model.User, bool) {
	u, ok := ctx.Value(userKey).(*model.User)
	return u, ok
}

// SessionFromContext returns the session set by RequireSession
func SessionFromContext(ctx context.Context) (*model.Session, bool) {
	s, ok := ctx.Value(sessionKey).(*model.Session)
	return s, ok
}
