package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Stewz00/chat-auth-service/internal/audit"
	"github.com/Stewz00/chat-auth-service/internal/interfaces"
	"github.com/Stewz00/chat-auth-service/internal/logging"
	"github.com/Stewz00/chat-auth-service/internal/metrics"
	"github.com/Stewz00/chat-auth-service/internal/model"
	"github.com/Stewz00/chat-auth-service/internal/repository"
	"github.com/sirupsen/logrus"
)

var (
	ErrDuplicateIdentity  = errors.New("username already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrRateLimited        = errors.New("too many login attempts, try again later")
	ErrInvalidSession     = errors.New("invalid session")
)

// LoginResult is returned on successful login
type LoginResult struct {
	SessionID string
	User      *model.User
}

type AuthService struct {
	users    interfaces.UserRepository
	sessions interfaces.SessionRepository
	attempts interfaces.AttemptTracker
	hasher   interfaces.PasswordHasher

	logger   *logrus.Logger
	recorder audit.Recorder
	metrics  *metrics.Metrics

	// dummyHash is verified against for unknown usernames
	dummyHash string
}

// Option configures optional AuthService collaborators
type Option func(*AuthService)

func WithLogger(logger *logrus.Logger) Option {
	return func(s *AuthService) { s.logger = logger }
}

func WithRecorder(r audit.Recorder) Option {
	return func(s *AuthService) { s.recorder = r }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *AuthService) { s.metrics = m }
}

// NewAuthService creates a new authentication service
func NewAuthService(
	users interfaces.UserRepository,
	sessions interfaces.SessionRepository,
	attempts interfaces.AttemptTracker,
	hasher interfaces.PasswordHasher,
	opts ...Option,
) *AuthService {
	s := &AuthService{
		users:    users,
		sessions: sessions,
		attempts: attempts,
		hasher:   hasher,
		logger:   logging.Discard(),
		recorder: audit.Nop{},
	}
	for _, opt := range opts {
		opt(s)
	}
	if hash, err := hasher.Hash("dummy-password-for-unknown-users"); err == nil {
		s.dummyHash = hash
	} else {
		s.logger.WithError(err).Error("failed to prepare dummy hash")
	}
	return s
}

// RegisterUser creates a new account. The password must already satisfy the password policy.
func (s *AuthService) RegisterUser(ctx context.Context, candidate model.NewUser) (*model.User, error) {
	user, err := s.users.CreateUser(ctx, candidate)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateUsername) {
			s.metrics.ObserveRegistration(metrics.ResultDuplicate)
			return nil, ErrDuplicateIdentity
		}
		s.metrics.ObserveRegistration(metrics.ResultError)
		s.logger.WithError(err).WithField("username", candidate.Username).Error("registration failed")
		return nil, fmt.Errorf("register user: %w", err)
	}

	s.metrics.ObserveRegistration(metrics.ResultSuccess)
	s.recorder.Record(ctx, audit.NewEvent(ctx, audit.EventRegister, user.Username))
	s.logger.WithFields(logrus.Fields{"username": user.Username, "user_id": user.ID}).Info("user registered")
	return user, nil
}

// LoginUser authenticates username/password and issues a session.
// Unknown usernames and wrong passwords fail identically, cost the same bcrypt
// work and both count towards the rate limit.
func (s *AuthService) LoginUser(ctx context.Context, username, password string) (*LoginResult, error) {
	release, ok := s.attempts.Reserve(ctx, username)
	if !ok {
		s.metrics.ObserveLogin(metrics.ResultRateLimited)
		s.recorder.Record(ctx, audit.NewEvent(ctx, audit.EventLoginRateLimited, username))
		s.logger.WithField("username", username).Warn("login rate limited")
		return nil, ErrRateLimited
	}

	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			s.verifyDummy(password)
			return nil, s.failLogin(ctx, username, release)
		}
		release(false)
		return nil, s.loginError(username, fmt.Errorf("lookup user: %w", err))
	}

	ok, err = s.hasher.Verify(password, user.PasswordHash)
	if err != nil {
		release(false)
		return nil, s.loginError(username, fmt.Errorf("verify password: %w", err))
	}
	if !ok {
		return nil, s.failLogin(ctx, username, release)
	}
	release(false)

	sessionID, err := s.sessions.CreateSession(ctx, user.Username)
	if err != nil {
		return nil, s.loginError(username, err)
	}

	s.metrics.ObserveLogin(metrics.ResultSuccess)
	s.recorder.Record(ctx, audit.NewEvent(ctx, audit.EventLoginSuccess, username))
	s.logger.WithField("username", username).Info("login succeeded")
	return &LoginResult{SessionID: sessionID, User: user}, nil
}

// Authenticate resolves a session token to its session and user
func (s *AuthService) Authenticate(ctx context.Context, sessionID string) (*model.User, *model.Session, error) {
	if sessionID == "" {
		return nil, nil, ErrInvalidSession
	}

	session, err := s.sessions.GetSession(ctx, sessionID)
	if err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			return nil, nil, ErrInvalidSession
		}
		return nil, nil, fmt.Errorf("get session: %w", err)
	}

	user, err := s.users.GetUserByUsername(ctx, session.Username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, nil, ErrInvalidSession
		}
		return nil, nil, fmt.Errorf("get session user: %w", err)
	}
	return user, session, nil
}

// LogoutUser deletes the session. Unknown or empty tokens are not an error.
func (s *AuthService) LogoutUser(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}

	var username string
	if session, err := s.sessions.GetSession(ctx, sessionID); err == nil {
		username = session.Username
	}
	if err := s.sessions.DeleteSession(ctx, sessionID); err != nil {
		s.logger.WithError(err).Error("logout failed")
		return fmt.Errorf("delete session: %w", err)
	}

	s.metrics.ObserveLogout()
	if username != "" {
		s.recorder.Record(ctx, audit.NewEvent(ctx, audit.EventLogout, username))
		s.logger.WithField("username", username).Info("logged out")
	}
	return nil
}

func (s *AuthService) failLogin(ctx context.Context, username string, release func(failed bool)) error {
	release(true)
	s.metrics.ObserveLogin(metrics.ResultInvalid)
	s.recorder.Record(ctx, audit.NewEvent(ctx, audit.EventLoginFailure, username))
	s.logger.WithField("username", username).Info("login failed")
	return ErrInvalidCredentials
}

// verifyDummy spends the same bcrypt work as a real verification so unknown
// usernames are not distinguishable by response time
func (s *AuthService) verifyDummy(password string) {
	if s.dummyHash != "" {
		_, _ = s.hasher.Verify(password, s.dummyHash)
	}
}

func (s *AuthService) loginError(username string, err error) error {
	s.metrics.ObserveLogin(metrics.ResultError)
	s.logger.WithError(err).WithField("username", username).Error("login error")
	return fmt.Errorf("login: %w", err)
}
