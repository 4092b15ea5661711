package errorutil

import (
	"errors"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

func TestToDomainError(t *testing.T) {
	assert.Nil(t, ToDomainError(nil))

	unauth := ToDomainError(NewUnauthenticated())
	assert.Equal(t, "UNAUTHORIZED", unauth.Code)
	assert.Equal(t, "unauthenticated", unauth.Message)
	assert.Equal(t, http.StatusUnauthorized, unauth.HTTPStatus)

	forbidden := ToDomainError(NewForbidden("insufficient role", map[string]any{"required": []string{"ADMIN"}}))
	assert.Equal(t, "FORBIDDEN", forbidden.Code)
	assert.Equal(t, http.StatusForbidden, forbidden.HTTPStatus)
	assert.Contains(t, forbidden.Details, "required")

	notFound := ToDomainError(fiber.NewError(http.StatusNotFound, "Cannot GET /nope"))
	assert.Equal(t, "NOT_FOUND", notFound.Code)
	assert.Equal(t, http.StatusNotFound, notFound.HTTPStatus)

	cause := errors.New("db down")
	internal := ToDomainError(cause)
	assert.Equal(t, "INTERNAL_ERROR", internal.Code)
	assert.Equal(t, http.StatusInternalServerError, internal.HTTPStatus)
	assert.ErrorIs(t, internal, cause)
}
