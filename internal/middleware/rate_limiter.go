package middleware

import (
	"net/http"
	"time"

	"github.com/Stewz00/chat-auth-service/internal/response"
	"github.com/go-chi/httprate"
)

const (
	DefaultIPLimit     = 100
	DefaultAuthIPLimit = 10

	limitMessage = "Too many requests. Try again later."
)

// RateLimiter limits each client IP to limit requests per minute on regular endpoints
func RateLimiter(limit int) func(http.Handler) http.Handler {
	return limitByIP(limit, DefaultIPLimit)
}

// StrictRateLimiter is the tighter per-IP limit for /register and /login.
// It sits in front of the per-username attempt tracker, not instead of it.
func StrictRateLimiter(limit int) func(http.Handler) http.Handler {
	return limitByIP(limit, DefaultAuthIPLimit)
}

func limitByIP(limit, fallback int) func(http.Handler) http.Handler {
	if limit <= 0 {
		limit = fallback
	}
	return httprate.Limit(
		limit,
		time.Minute,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			response.Error(w, http.StatusTooManyRequests, limitMessage)
		}),
	)
}
