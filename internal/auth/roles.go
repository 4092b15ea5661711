package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/session-token-service/internal/domain"
	apperrors "github.com/spec-kit/session-token-service/pkg/errorutil"
)

// RequireRole admits principals whose stored role is one of allowed.
// It must run after AuthMiddleware.Handle. The role claim inside the token is
// not consulted, so a demoted user loses access before their token expires.
func RequireRole(allowed ...domain.Role) fiber.Handler {
	roles := make([]string, 0, len(allowed))
	for _, role := range allowed {
		roles = append(roles, string(role))
	}

	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok || principal.User == nil {
			return apperrors.NewUnauthenticated()
		}
		for _, role := range allowed {
			if principal.User.Role == role {
				return c.Next()
			}
		}
		return apperrors.NewForbidden("insufficient role", map[string]any{"required": roles})
	}
}
