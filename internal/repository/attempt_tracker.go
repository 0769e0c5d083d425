package repository

import (
	"context"
	"sync"
	"time"

	"github.com/Stewz00/chat-auth-service/internal/interfaces"
)

const (
	DefaultAttemptWindow = 15 * time.Minute
	DefaultMaxAttempts   = 5
)

// AttemptTrackerImpl records failed login attempts per username
type AttemptTrackerImpl struct {
	window      time.Duration
	maxAttempts int
	opts        storeOptions

	mu       sync.Mutex
	attempts map[string][]time.Time
	// pending counts reservations whose outcome is not known yet
	pending map[string]int
}

var _ interfaces.AttemptTracker = (*AttemptTrackerImpl)(nil)

// NewAttemptTracker creates a tracker that limits a username once maxAttempts
// attempts fall inside the trailing window. Non-positive values select the defaults.
func NewAttemptTracker(window time.Duration, maxAttempts int, opts ...Option) *AttemptTrackerImpl {
	if window <= 0 {
		window = DefaultAttemptWindow
	}
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	return &AttemptTrackerImpl{
		window:      window,
		maxAttempts: maxAttempts,
		opts:        applyOptions(opts),
		attempts:    make(map[string][]time.Time),
		pending:     make(map[string]int),
	}
}

// RecordAttempt appends the current time to username's history
func (t *AttemptTrackerImpl) RecordAttempt(ctx context.Context, username string) {
	now := t.opts.now()

	t.mu.Lock()
	t.attempts[username] = append(t.attempts[username], now)
	t.mu.Unlock()
}

// IsRateLimited prunes attempts that fell out of the window and reports
// whether the remaining count reached the limit.
func (t *AttemptTrackerImpl) IsRateLimited(ctx context.Context, username string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.pruneLocked(username) >= t.maxAttempts
}

// Reserve claims one attempt slot for username. Recorded failures and
// in-flight reservations both count toward the limit, so concurrent callers
// cannot get more than maxAttempts verifications between them.
// When ok is false the caller is rate limited and release is nil. Otherwise
// release must be called once with the outcome: a failure is recorded, a
// success or an aborted attempt only frees the slot.
func (t *AttemptTrackerImpl) Reserve(ctx context.Context, username string) (release func(failed bool), ok bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.pruneLocked(username)+t.pending[username] >= t.maxAttempts {
		return nil, false
	}
	t.pending[username]++

	var once sync.Once
	return func(failed bool) {
		once.Do(func() {
			now := t.opts.now()

			t.mu.Lock()
			defer t.mu.Unlock()
			t.pending[username]--
			if t.pending[username] <= 0 {
				delete(t.pending, username)
			}
			if failed {
				t.attempts[username] = append(t.attempts[username], now)
			}
		})
	}, true
}

// Attempts returns the number of attempts for username still inside the window
func (t *AttemptTrackerImpl) Attempts(ctx context.Context, username string) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.pruneLocked(username)
}

func (t *AttemptTrackerImpl) pruneLocked(username string) int {
	history, ok := t.attempts[username]
	if !ok {
		return 0
	}

	cutoff := t.opts.now().Add(-t.window)
	// history is in append order, so everything before the first recent entry is stale
	i := 0
	for i < len(history) && !history[i].After(cutoff) {
		i++
	}
	if i == len(history) {
		delete(t.attempts, username)
		return 0
	}
	if i > 0 {
		t.attempts[username] = append(history[:0:0], history[i:]...)
	}
	return len(history) - i
}
