package auth

import (
	"sync"

	"golang.org/x/crypto/bcrypt"
)

// PasswordHasher hashes and checks user passwords with bcrypt.
type PasswordHasher struct {
	cost  int
	decoy func() []byte
}

// NewPasswordHasher uses cost for new hashes. Costs outside bcrypt's range fall back to the default.
func NewPasswordHasher(cost int) *PasswordHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	h := &PasswordHasher{cost: cost}
	h.decoy = sync.OnceValue(func() []byte {
		hashed, _ := bcrypt.GenerateFromPassword([]byte("decoy password"), cost)
		return hashed
	})
	return h
}

func (h *PasswordHasher) Hash(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// Matches reports whether plain is the password behind hashed.
// An empty hash is compared against a decoy so unknown accounts cost the same as wrong passwords.
func (h *PasswordHasher) Matches(hashed, plain string) bool {
	if hashed == "" {
		_ = bcrypt.CompareHashAndPassword(h.decoy(), []byte(plain))
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain)) == nil
}
