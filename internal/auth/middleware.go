package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/session-token-service/internal/domain"
	"github.com/spec-kit/session-token-service/internal/repository"
	apperrors "github.com/spec-kit/session-token-service/pkg/errorutil"
)

const principalKey = "auth_principal"

// SessionValidator is the token contract the middleware relies on.
type SessionValidator interface {
	Validation(ctx context.Context, token string) bool
	GetUserEmail(token string) string
}

// Principal represents the authenticated caller.
type Principal struct {
	Email string
	User  *domain.User
	Token string
}

// AuthMiddleware validates bearer tokens and loads principals.
type AuthMiddleware struct {
	tokens SessionValidator
	users  repository.UserRepository
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(tokens SessionValidator, users repository.UserRepository) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens, users: users}
}

// Handle enforces authentication for protected routes.
// Every failure produces the same response.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	token, ok := BearerToken(c.Get(fiber.HeaderAuthorization))
	if !ok {
		return apperrors.NewUnauthenticated()
	}

	if !m.tokens.Validation(c.UserContext(), token) {
		return apperrors.NewUnauthenticated()
	}
	email := m.tokens.GetUserEmail(token)
	if email == "" {
		return apperrors.NewUnauthenticated()
	}

	principal := &Principal{Email: email, Token: token}
	if m.users != nil {
		user, err := m.users.GetByEmail(c.UserContext(), email)
		if err != nil {
			if errors.Is(err, repository.ErrUserNotFound) {
				return apperrors.NewUnauthenticated()
			}
			return apperrors.MapError(err)
		}
		principal.User = user
	}

	c.Locals(principalKey, principal)
	return c.Next()
}

// BearerToken extracts the token from an Authorization header value.
func BearerToken(header string) (string, bool) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}

// PrincipalFromContext retrieves the authenticated entity.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}
