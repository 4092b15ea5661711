package revocation

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DB is the subset of *pgxpool.Pool the store needs.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresStore persists revocations in the revoked_tokens table.
type PostgresStore struct {
	db  DB
	now func() time.Time
}

// NewPostgresStore returns a Postgres-backed store.
func NewPostgresStore(db DB) *PostgresStore {
	return &PostgresStore{db: db, now: time.Now}
}

func (s *PostgresStore) RecordRevoked(ctx context.Context, fingerprint string, expiresAt time.Time) error {
	if !expiresAt.After(s.now()) {
		return nil
	}
	const query = `
        INSERT INTO revoked_tokens (fingerprint, expires_at)
        VALUES ($1, $2)
        ON CONFLICT (fingerprint) DO NOTHING`
	_, err := s.db.Exec(ctx, query, fingerprint, expiresAt)
	return err
}

func (s *PostgresStore) IsRevoked(ctx context.Context, fingerprint string) (bool, error) {
	const query = `
        SELECT EXISTS (
            SELECT 1 FROM revoked_tokens WHERE fingerprint=$1 AND expires_at > $2
        )`
	var revoked bool
	if err := s.db.QueryRow(ctx, query, fingerprint, s.now()).Scan(&revoked); err != nil {
		return false, err
	}
	return revoked, nil
}

// PurgeExpired deletes rows whose token has expired anyway.
func (s *PostgresStore) PurgeExpired(ctx context.Context) (int64, error) {
	const query = `DELETE FROM revoked_tokens WHERE expires_at <= $1`
	tag, err := s.db.Exec(ctx, query, s.now())
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
