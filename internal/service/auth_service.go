package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/session-token-service/internal/auth"
	"github.com/spec-kit/session-token-service/internal/domain"
	"github.com/spec-kit/session-token-service/internal/events"
	"github.com/spec-kit/session-token-service/internal/repository"
)

var (
	// ErrInvalidCredentials hides whether the email or the password was wrong.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidRole rejects roles a caller may not choose for themselves.
	ErrInvalidRole = errors.New("invalid role")
)

// AuthService coordinates registration, login and logout flows.
type AuthService struct {
	users      repository.UserRepository
	tokens     *TokenService
	dispatcher events.Dispatcher
	passwords  *auth.PasswordHasher
	logger     *zap.Logger
}

// AuthDependencies encapsulates collaborators for the auth service.
type AuthDependencies struct {
	Users      repository.UserRepository
	Tokens     *TokenService
	Dispatcher events.Dispatcher
	BcryptCost int
	Logger     *zap.Logger
}

// NewAuthService builds the service.
func NewAuthService(deps AuthDependencies) *AuthService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		users:      deps.Users,
		tokens:     deps.Tokens,
		dispatcher: deps.Dispatcher,
		passwords:  auth.NewPasswordHasher(deps.BcryptCost),
		logger:     logger,
	}
}

// Register creates a user and signs them in.
// Only roles a caller may assign to themselves are accepted; an empty role means STUDENT.
func (s *AuthService) Register(ctx context.Context, name, email, password string, role domain.Role) (*domain.User, domain.Session, error) {
	if role == "" {
		role = domain.RoleStudent
	}
	if !role.SelfAssignable() {
		return nil, domain.Session{}, ErrInvalidRole
	}

	user, err := s.createUser(ctx, name, email, password, role)
	if err != nil {
		return nil, domain.Session{}, err
	}

	session, err := s.issue(ctx, user)
	if err != nil {
		return nil, domain.Session{}, err
	}
	return user, session, nil
}

// SeedAdmin creates the configured administrator on startup.
// An existing account with that email is left as it is.
func (s *AuthService) SeedAdmin(ctx context.Context, name, email, password string) error {
	existing, err := s.users.GetByEmail(ctx, domain.NormalizeEmail(email))
	switch {
	case err == nil:
		if existing.Role != domain.RoleAdmin {
			s.logger.Warn("admin seed email belongs to a non-admin account; not promoting",
				zap.String("email", existing.Email), zap.String("role", string(existing.Role)))
		}
		return nil
	case !errors.Is(err, repository.ErrUserNotFound):
		return err
	}

	user, err := s.createUser(ctx, name, email, password, domain.RoleAdmin)
	if errors.Is(err, repository.ErrEmailTaken) {
		return nil
	}
	if err != nil {
		return err
	}
	s.logger.Info("admin account seeded", zap.String("email", user.Email))
	return nil
}

// Login authenticates a user by email and password.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, domain.Session, error) {
	email = domain.NormalizeEmail(email)
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			s.passwords.Matches("", password)
			s.publish(ctx, events.EventLoginFailed, &domain.User{Email: email}, nil)
			return nil, domain.Session{}, ErrInvalidCredentials
		}
		return nil, domain.Session{}, err
	}
	if !s.passwords.Matches(user.PasswordHash, password) {
		s.publish(ctx, events.EventLoginFailed, user, nil)
		return nil, domain.Session{}, ErrInvalidCredentials
	}

	session, err := s.issue(ctx, user)
	if err != nil {
		return nil, domain.Session{}, err
	}
	return user, session, nil
}

// Logout revokes the presented token.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	email := s.tokens.GetUserEmail(token)
	if err := s.tokens.Logout(ctx, token); err != nil {
		return err
	}
	if email != "" {
		s.publish(ctx, events.EventSessionRevoked, &domain.User{Email: email}, nil)
	}
	return nil
}

// Tokens exposes the token service for middleware usage.
func (s *AuthService) Tokens() *TokenService {
	return s.tokens
}

func (s *AuthService) createUser(ctx context.Context, name, email, password string, role domain.Role) (*domain.User, error) {
	hash, err := s.passwords.Hash(password)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Name:         name,
		Email:        domain.NormalizeEmail(email),
		Role:         role,
		PasswordHash: hash,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	s.publish(ctx, events.EventUserRegistered, user, nil)
	return user, nil
}

func (s *AuthService) issue(ctx context.Context, user *domain.User) (domain.Session, error) {
	session, err := s.tokens.IssueSession(user)
	if err != nil {
		return domain.Session{}, err
	}
	s.publish(ctx, events.EventSessionIssued, user, map[string]any{"expires_at": session.ExpiresAt})
	return session, nil
}

func (s *AuthService) publish(ctx context.Context, eventType events.EventType, user *domain.User, payload map[string]any) {
	if s.dispatcher == nil {
		return
	}
	err := s.dispatcher.Publish(ctx, events.Event{
		ID:         uuid.NewString(),
		Type:       eventType,
		Email:      user.Email,
		Role:       user.Role,
		OccurredAt: time.Now(),
		Payload:    payload,
	})
	if err != nil {
		s.logger.Warn("event handler failed", zap.String("event", string(eventType)), zap.Error(err))
	}
}
