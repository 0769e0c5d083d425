package repository

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/Stewz00/chat-auth-service/internal/interfaces"
	"github.com/Stewz00/chat-auth-service/internal/model"
	"github.com/google/uuid"
)

// Common errors that can be returned by the repositories
var (
	ErrUserNotFound      = errors.New("user not found")
	ErrDuplicateUsername = errors.New("username already exists")
	ErrSessionNotFound   = errors.New("session not found")
)

// UserRepositoryImpl keeps users in memory, indexed by id and by username
type UserRepositoryImpl struct {
	hasher interfaces.PasswordHasher
	opts   storeOptions

	mu         sync.RWMutex
	byID       map[string]*model.User
	byUsername map[string]string // username -> id
}

// Verify that UserRepositoryImpl implements UserRepository interface
var _ interfaces.UserRepository = (*UserRepositoryImpl)(nil)

// NewUserRepository creates an empty in-memory user directory
func NewUserRepository(hasher interfaces.PasswordHasher, opts ...Option) *UserRepositoryImpl {
	return &UserRepositoryImpl{
		hasher:     hasher,
		opts:       applyOptions(opts),
		byID:       make(map[string]*model.User),
		byUsername: make(map[string]string),
	}
}

// CreateUser hashes the candidate's password and stores a new user.
// The returned record includes the hash; callers strip it before exposing the user.
func (r *UserRepositoryImpl) CreateUser(ctx context.Context, candidate model.NewUser) (*model.User, error) {
	// Cheap early rejection so duplicates don't pay for a bcrypt round.
	if r.exists(candidate.Username) {
		return nil, ErrDuplicateUsername
	}

	hash, err := r.hasher.Hash(candidate.Password)
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	userType := candidate.UserType
	if userType == "" {
		userType = model.DefaultUserType
	}
	user := &model.User{
		ID:           uuid.NewString(),
		Username:     candidate.Username,
		FirstName:    candidate.FirstName,
		LastName:     candidate.LastName,
		PasswordHash: hash,
		UserType:     userType,
		CreatedAt:    r.opts.now(),
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, taken := r.byUsername[user.Username]; taken {
		return nil, ErrDuplicateUsername
	}
	r.byID[user.ID] = user
	r.byUsername[user.Username] = user.ID

	out := *user
	return &out, nil
}

// GetUserByID retrieves a user by id
func (r *UserRepositoryImpl) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.byID[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	out := *user
	return &out, nil
}

// GetUserByUsername retrieves a user by their username (email address)
func (r *UserRepositoryImpl) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byUsername[username]
	if !ok {
		return nil, ErrUserNotFound
	}
	out := *r.byID[id]
	return &out, nil
}

func (r *UserRepositoryImpl) exists(username string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.byUsername[username]
	return ok
}
