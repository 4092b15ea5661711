// Package revocation records logged-out session tokens until they expire.
//
// Every Store makes a completed RecordRevoked visible to subsequent IsRevoked
// calls on the same backend. The Redis store only guarantees this when reads
// go to the primary; with replica reads a revoked token can stay valid for
// the replication lag.
package revocation

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Store tracks tokens invalidated before their natural expiry.
type Store interface {
	// RecordRevoked marks the fingerprint revoked until expiresAt.
	// Recording the same fingerprint twice is not an error.
	RecordRevoked(ctx context.Context, fingerprint string, expiresAt time.Time) error
	// IsRevoked reports whether the fingerprint is currently revoked.
	IsRevoked(ctx context.Context, fingerprint string) (bool, error)
}

// Purger is implemented by stores that need explicit cleanup of expired entries.
type Purger interface {
	PurgeExpired(ctx context.Context) (int64, error)
}

// Fingerprint derives the store key for a raw token.
func Fingerprint(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
