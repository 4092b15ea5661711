package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/session-token-service/internal/domain"
)

// fakeRow scans values in column order, or fails with err.
type fakeRow struct {
	values []any
	err    error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	if len(dest) != len(r.values) {
		return errors.New("column count mismatch")
	}
	for i, v := range r.values {
		switch d := dest[i].(type) {
		case *string:
			*d = v.(string)
		case *domain.Role:
			*d = domain.Role(v.(string))
		case *time.Time:
			*d = v.(time.Time)
		default:
			return errors.New("unsupported scan target")
		}
	}
	return nil
}

type queryCall struct {
	sql  string
	args []any
}

type fakeQuerier struct {
	row   fakeRow
	calls []queryCall
}

func (q *fakeQuerier) QueryRow(_ context.Context, sql string, args ...any) pgx.Row {
	q.calls = append(q.calls, queryCall{sql: sql, args: args})
	return q.row
}

func TestUserRepositoryCreate(t *testing.T) {
	created := time.Unix(1_700_000_000, 0).UTC()
	db := &fakeQuerier{row: fakeRow{values: []any{created, created}}}
	repo := NewUserRepository(db)

	user := &domain.User{Name: "A", Email: "a@b.com", Role: domain.RoleStudent, PasswordHash: "hash"}
	require.NoError(t, repo.Create(context.Background(), user))

	assert.NotEmpty(t, user.ID)
	assert.Equal(t, created, user.CreatedAt)
	require.Len(t, db.calls, 1)
	assert.Contains(t, db.calls[0].sql, "INSERT INTO users")
	assert.Equal(t, []any{user.ID, "A", "a@b.com", domain.RoleStudent, "hash"}, db.calls[0].args)
}

func TestUserRepositoryCreateMapsUniqueViolation(t *testing.T) {
	db := &fakeQuerier{row: fakeRow{err: &pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"}}}
	repo := NewUserRepository(db)

	err := repo.Create(context.Background(), &domain.User{Email: "a@b.com", Role: domain.RoleStudent})
	assert.ErrorIs(t, err, ErrEmailTaken)

	other := errors.New("connection reset")
	db.row = fakeRow{err: other}
	err = repo.Create(context.Background(), &domain.User{Email: "b@b.com", Role: domain.RoleStudent})
	assert.ErrorIs(t, err, other)
	assert.NotErrorIs(t, err, ErrEmailTaken)
}

func TestUserRepositoryGetByEmail(t *testing.T) {
	ts := time.Unix(1_700_000_000, 0).UTC()
	db := &fakeQuerier{row: fakeRow{values: []any{"id-1", "A", "a@b.com", "TEACHER", "hash", ts, ts}}}
	repo := NewUserRepository(db)

	user, err := repo.GetByEmail(context.Background(), "a@b.com")
	require.NoError(t, err)
	assert.Equal(t, &domain.User{
		ID:           "id-1",
		Name:         "A",
		Email:        "a@b.com",
		Role:         domain.RoleTeacher,
		PasswordHash: "hash",
		CreatedAt:    ts,
		UpdatedAt:    ts,
	}, user)
	assert.Equal(t, []any{"a@b.com"}, db.calls[0].args)
}

func TestUserRepositoryGetByEmailErrors(t *testing.T) {
	db := &fakeQuerier{row: fakeRow{err: pgx.ErrNoRows}}
	repo := NewUserRepository(db)

	_, err := repo.GetByEmail(context.Background(), "nobody@b.com")
	assert.ErrorIs(t, err, ErrUserNotFound)

	boom := errors.New("timeout")
	db.row = fakeRow{err: boom}
	_, err = repo.GetByEmail(context.Background(), "a@b.com")
	assert.ErrorIs(t, err, boom)
}
