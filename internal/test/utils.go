package test

import (
	"sync"
	"time"

	"github.com/Stewz00/chat-auth-service/internal/hasher"
	"github.com/Stewz00/chat-auth-service/internal/repository"
	"golang.org/x/crypto/bcrypt"
)

// Clock is a manually advanced clock for driving expiry in tests
type Clock struct {
	mu  sync.Mutex
	now time.Time
}

func NewClock() *Clock {
	return &Clock{now: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

// Stores bundles in-memory repositories that share one clock
type Stores struct {
	Clock    *Clock
	Hasher   *hasher.BcryptHasher
	Users    *repository.UserRepositoryImpl
	Sessions *repository.SessionRepositoryImpl
	Attempts *repository.AttemptTrackerImpl
}

// NewStores wires the default session TTL and attempt window with the
// cheapest bcrypt cost so tests stay fast.
func NewStores() *Stores {
	clock := NewClock()
	h := hasher.NewBcryptHasher(bcrypt.MinCost)
	return &Stores{
		Clock:    clock,
		Hasher:   h,
		Users:    repository.NewUserRepository(h, repository.WithClock(clock.Now)),
		Sessions: repository.NewSessionRepository(repository.DefaultSessionTTL, repository.WithClock(clock.Now)),
		Attempts: repository.NewAttemptTracker(repository.DefaultAttemptWindow, repository.DefaultMaxAttempts, repository.WithClock(clock.Now)),
	}
}
