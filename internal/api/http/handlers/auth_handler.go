package handlers

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/session-token-service/internal/api/dto"
	"github.com/spec-kit/session-token-service/internal/auth"
	"github.com/spec-kit/session-token-service/internal/domain"
	"github.com/spec-kit/session-token-service/internal/repository"
	"github.com/spec-kit/session-token-service/internal/service"
	apperrors "github.com/spec-kit/session-token-service/pkg/errorutil"
)

// AuthHandler exposes session endpoints.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: authService}
}

// Register handles POST /auth/register.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Email == "" || req.Password == "" || req.Name == "" {
		return apperrors.NewValidationError("name, email, password required", nil)
	}

	user, session, err := h.auth.Register(c.UserContext(), req.Name, req.Email, req.Password, domain.Role(req.Role))
	switch {
	case errors.Is(err, repository.ErrEmailTaken):
		return apperrors.NewConflict("email already registered", nil)
	case errors.Is(err, service.ErrInvalidRole):
		return apperrors.NewValidationError("invalid role", map[string]any{"role": req.Role})
	case err != nil:
		return apperrors.NewInternalError(err)
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"data": fiber.Map{
			"user": toUserResponse(user),
			"auth": dto.AuthResponse{Token: session.Token, ExpiresAt: session.ExpiresAt},
		},
	})
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Email == "" || req.Password == "" {
		return apperrors.NewValidationError("email and password required", nil)
	}

	user, session, err := h.auth.Login(c.UserContext(), req.Email, req.Password)
	if errors.Is(err, service.ErrInvalidCredentials) {
		return apperrors.NewUnauthorized("invalid credentials")
	}
	if err != nil {
		return apperrors.NewInternalError(err)
	}

	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"user": toUserResponse(user),
			"auth": dto.AuthResponse{Token: session.Token, ExpiresAt: session.ExpiresAt},
		},
	})
}

// Logout handles POST /auth/logout. A missing or invalid token is not an error.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	token, ok := auth.BearerToken(c.Get(fiber.HeaderAuthorization))
	if ok {
		if err := h.auth.Logout(c.UserContext(), token); err != nil {
			return apperrors.NewInternalError(err)
		}
	}
	return c.SendStatus(http.StatusNoContent)
}

// Revoke handles POST /admin/sessions/revoke. It ends another user's session.
func (h *AuthHandler) Revoke(c *fiber.Ctx) error {
	var req dto.RevokeRequest
	if err := c.BodyParser(&req); err != nil || req.Token == "" {
		return apperrors.NewValidationError("token required", nil)
	}
	if err := h.auth.Logout(c.UserContext(), req.Token); err != nil {
		return apperrors.NewInternalError(err)
	}
	return c.SendStatus(http.StatusNoContent)
}

// Me handles GET /auth/me behind the auth middleware.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthenticated()
	}

	remaining, err := h.auth.Tokens().Remaining(principal.Token)
	if err != nil {
		return apperrors.NewUnauthenticated()
	}

	resp := dto.MeResponse{Email: principal.Email, ExpiresInSeconds: int64(remaining.Seconds())}
	if principal.User != nil {
		resp.Role = string(principal.User.Role)
	}
	return c.JSON(fiber.Map{"data": resp})
}

func toUserResponse(user *domain.User) dto.UserResponse {
	return dto.UserResponse{
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
		Role:  string(user.Role),
	}
}
