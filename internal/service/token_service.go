package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/session-token-service/internal/auth"
	"github.com/spec-kit/session-token-service/internal/domain"
	"github.com/spec-kit/session-token-service/internal/revocation"
)

const defaultRevocationTimeout = 500 * time.Millisecond

// Validation outcomes. They are for logs and metrics only and never reach the client.
const (
	OutcomeValid            = "valid"
	OutcomeMalformed        = "malformed"
	OutcomeBadSignature     = "bad_signature"
	OutcomeExpired          = "expired"
	OutcomeRevoked          = "revoked"
	OutcomeStoreUnavailable = "store_unavailable"
)

var (
	// ErrExpired means the token reached its expiry.
	ErrExpired = errors.New("token expired")
	// ErrRevoked means the token was logged out.
	ErrRevoked = errors.New("token revoked")
	// ErrStoreUnavailable means the revocation store could not be consulted.
	ErrStoreUnavailable = errors.New("revocation store unavailable")
)

// ValidationObserver receives the outcome of every validation.
type ValidationObserver interface {
	ObserveValidation(outcome string)
}

// TokenService issues, validates and revokes session tokens.
// All methods are safe for concurrent use.
type TokenService struct {
	codec    *auth.TokenCodec
	store    revocation.Store
	lifetime time.Duration
	timeout  time.Duration
	now      func() time.Time
	logger   *zap.Logger
	observer ValidationObserver
}

// TokenServiceOption customizes a TokenService.
type TokenServiceOption func(*TokenService)

// WithClock overrides the wall clock.
func WithClock(now func() time.Time) TokenServiceOption {
	return func(s *TokenService) { s.now = now }
}

// WithRevocationTimeout bounds each revocation store call.
func WithRevocationTimeout(d time.Duration) TokenServiceOption {
	return func(s *TokenService) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// WithLogger sets the logger used for diagnostics.
func WithLogger(logger *zap.Logger) TokenServiceOption {
	return func(s *TokenService) { s.logger = logger }
}

// WithObserver reports validation outcomes, typically to metrics.
func WithObserver(observer ValidationObserver) TokenServiceOption {
	return func(s *TokenService) { s.observer = observer }
}

// NewTokenService builds the service. An error here is a configuration bug.
func NewTokenService(secret string, lifetime time.Duration, store revocation.Store, opts ...TokenServiceOption) (*TokenService, error) {
	codec, err := auth.NewTokenCodec(secret)
	if err != nil {
		return nil, err
	}
	if lifetime <= 0 {
		return nil, errors.New("token lifetime must be positive")
	}
	if store == nil {
		return nil, errors.New("revocation store is required")
	}

	s := &TokenService{
		codec:    codec,
		store:    store,
		lifetime: lifetime,
		timeout:  defaultRevocationTimeout,
		now:      time.Now,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// GenerateToken issues a token for the user.
func (s *TokenService) GenerateToken(user *domain.User) (string, error) {
	session, err := s.IssueSession(user)
	if err != nil {
		return "", err
	}
	return session.Token, nil
}

// IssueSession is GenerateToken that also reports the token's expiry.
// Every call yields a new token, so a session revoked earlier in the same
// second is never handed out again.
func (s *TokenService) IssueSession(user *domain.User) (domain.Session, error) {
	if user == nil {
		return domain.Session{}, fmt.Errorf("%w: nil user", auth.ErrInvalidClaims)
	}
	now := s.now()
	expiresAt := now.Add(s.lifetime)
	token, err := s.codec.Generate(auth.ClaimSet{
		ID:        uuid.NewString(),
		Subject:   user.Email,
		Email:     user.Email,
		Role:      string(user.Role),
		Username:  user.Name,
		IssuedAt:  now,
		ExpiresAt: expiresAt,
	})
	if err != nil {
		return domain.Session{}, err
	}
	return domain.Session{
		Token:     token,
		ExpiresAt: expiresAt.Truncate(time.Second),
	}, nil
}

// Validation reports whether the token is correctly signed, unexpired and not revoked.
func (s *TokenService) Validation(ctx context.Context, token string) bool {
	_, err := s.Verify(ctx, token)
	return err == nil
}

// Verify is Validation with the reason for rejection.
// The error distinguishes causes for internal diagnostics only.
func (s *TokenService) Verify(ctx context.Context, token string) (auth.ClaimSet, error) {
	claims, err := s.codec.ParseAndVerify(token)
	if err != nil {
		return auth.ClaimSet{}, s.reject(err)
	}
	if !s.now().Before(claims.ExpiresAt) {
		return auth.ClaimSet{}, s.reject(ErrExpired)
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	revoked, err := s.store.IsRevoked(ctx, revocation.Fingerprint(token))
	if err != nil {
		s.logger.Warn("revocation lookup failed; rejecting token", zap.Error(err))
		return auth.ClaimSet{}, s.reject(fmt.Errorf("%w: %v", ErrStoreUnavailable, err))
	}
	if revoked {
		return auth.ClaimSet{}, s.reject(ErrRevoked)
	}

	s.observe(OutcomeValid)
	return claims, nil
}

// GetUserEmail extracts the subject without checking expiry or revocation.
// It returns an empty string when the token cannot be verified; it is not a trust decision.
func (s *TokenService) GetUserEmail(token string) string {
	claims, err := s.codec.ParseAndVerify(token)
	if err != nil {
		s.logger.Debug("unable to read token subject", zap.String("reason", outcome(err)))
		return ""
	}
	return claims.Subject
}

// Remaining returns the time left before the token expires, or zero once expired.
func (s *TokenService) Remaining(token string) (time.Duration, error) {
	claims, err := s.codec.ParseAndVerify(token)
	if err != nil {
		return 0, err
	}
	left := claims.ExpiresAt.Sub(s.now())
	if left < 0 {
		return 0, nil
	}
	return left, nil
}

// Logout revokes the token until its natural expiry.
// Tokens that fail verification or have already expired are ignored.
func (s *TokenService) Logout(ctx context.Context, token string) error {
	claims, err := s.codec.ParseAndVerify(token)
	if err != nil {
		s.logger.Debug("logout of unverifiable token ignored", zap.String("reason", outcome(err)))
		return nil
	}
	if !s.now().Before(claims.ExpiresAt) {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	fingerprint := revocation.Fingerprint(token)
	if err := s.store.RecordRevoked(ctx, fingerprint, claims.ExpiresAt); err != nil {
		return fmt.Errorf("record revocation: %w", err)
	}
	s.logger.Info("session revoked",
		zap.String("subject", claims.Subject),
		zap.String("fingerprint", fingerprint[:12]),
		zap.Time("expires_at", claims.ExpiresAt),
	)
	return nil
}

func (s *TokenService) reject(err error) error {
	reason := outcome(err)
	s.logger.Debug("token rejected", zap.String("reason", reason))
	s.observe(reason)
	return err
}

func (s *TokenService) observe(outcome string) {
	if s.observer != nil {
		s.observer.ObserveValidation(outcome)
	}
}

func outcome(err error) string {
	switch {
	case err == nil:
		return OutcomeValid
	case errors.Is(err, auth.ErrBadSignature):
		return OutcomeBadSignature
	case errors.Is(err, ErrExpired):
		return OutcomeExpired
	case errors.Is(err, ErrRevoked):
		return OutcomeRevoked
	case errors.Is(err, ErrStoreUnavailable):
		return OutcomeStoreUnavailable
	default:
		return OutcomeMalformed
	}
}
