package persistence

import (
	"context"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestMigrationNamesAreOrdered(t *testing.T) {
	names, err := migrationNames(migrationFiles)
	require.NoError(t, err)
	assert.Equal(t, []string{"0001_users.sql", "0002_revoked_tokens.sql", "0003_users_email_lower.sql"}, names)

	content, err := fs.ReadFile(migrationFiles, "migrations/0002_revoked_tokens.sql")
	require.NoError(t, err)
	assert.Contains(t, string(content), "fingerprint TEXT PRIMARY KEY")
}

func TestRunMigrationsWithoutPool(t *testing.T) {
	assert.NoError(t, RunMigrations(context.Background(), nil, zap.NewNop()))
}
