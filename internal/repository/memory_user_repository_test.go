package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/session-token-service/internal/domain"
)

func TestInMemoryUserRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewInMemoryUserRepository()

	user := &domain.User{Name: "A", Email: "a@b.com", Role: domain.RoleStudent, PasswordHash: "hash"}
	require.NoError(t, repo.Create(ctx, user))
	assert.NotEmpty(t, user.ID)
	assert.False(t, user.CreatedAt.IsZero())

	got, err := repo.GetByEmail(ctx, "A@B.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
	assert.Equal(t, domain.RoleStudent, got.Role)

	err = repo.Create(ctx, &domain.User{Email: "a@b.com"})
	assert.ErrorIs(t, err, ErrEmailTaken)

	_, err = repo.GetByEmail(ctx, "missing@b.com")
	assert.ErrorIs(t, err, ErrUserNotFound)
}
