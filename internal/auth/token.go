package auth

import (
	"errors"
	"fmt"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
)

// MinSecretBytes is the shortest HMAC-SHA256 secret the codec accepts.
const MinSecretBytes = 32

var (
	// ErrSigning means the codec has no usable signing key.
	ErrSigning = errors.New("signing key unavailable")
	// ErrInvalidClaims rejects claim sets that cannot be issued.
	ErrInvalidClaims = errors.New("invalid claims")
	// ErrMalformedToken covers anything that is not a structurally valid token.
	ErrMalformedToken = errors.New("malformed token")
	// ErrBadSignature means the token was not signed by this service's key.
	ErrBadSignature = errors.New("bad signature")
)

// ClaimSet is the identity carried inside a session token.
type ClaimSet struct {
	// ID is the jti claim. It keeps tokens issued within the same second distinct.
	ID        string
	Subject   string
	Email     string
	Role      string
	Username  string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Claims describes the JWT payload.
type Claims struct {
	Email    string `json:"email"`
	Role     string `json:"role"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// TokenCodec signs and verifies HS256 session tokens.
// It holds no mutable state and is safe for concurrent use.
type TokenCodec struct {
	secret []byte
	parser *jwt.Parser
}

// NewTokenCodec builds a codec from the shared secret.
func NewTokenCodec(secret string) (*TokenCodec, error) {
	if len(secret) < MinSecretBytes {
		return nil, fmt.Errorf("%w: secret must be at least %d bytes", ErrSigning, MinSecretBytes)
	}
	return &TokenCodec{
		secret: []byte(secret),
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithStrictDecoding(),
			// expiry is checked by the caller
			jwt.WithoutClaimsValidation(),
		),
	}, nil
}

// Generate builds and signs a token for the claim set.
func (c *TokenCodec) Generate(claims ClaimSet) (string, error) {
	if c == nil || len(c.secret) == 0 {
		return "", ErrSigning
	}
	if claims.Subject == "" {
		return "", fmt.Errorf("%w: empty subject", ErrInvalidClaims)
	}
	if !claims.ExpiresAt.After(claims.IssuedAt) {
		return "", fmt.Errorf("%w: expiry must follow issuance", ErrInvalidClaims)
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		Email:    claims.Email,
		Role:     claims.Role,
		Username: claims.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        claims.ID,
			Subject:   claims.Subject,
			IssuedAt:  jwt.NewNumericDate(claims.IssuedAt),
			ExpiresAt: jwt.NewNumericDate(claims.ExpiresAt),
		},
	})
	signed, err := token.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrSigning, err)
	}
	return signed, nil
}

// ParseAndVerify checks the signature and decodes the claim set.
// The returned error is always ErrMalformedToken or ErrBadSignature.
// Expiry is not checked.
func (c *TokenCodec) ParseAndVerify(tokenStr string) (ClaimSet, error) {
	if c == nil || len(c.secret) == 0 {
		return ClaimSet{}, ErrBadSignature
	}

	claims := &Claims{}
	parsed, err := c.parser.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return c.secret, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
			return ClaimSet{}, ErrBadSignature
		default:
			return ClaimSet{}, ErrMalformedToken
		}
	}
	if !parsed.Valid {
		return ClaimSet{}, ErrBadSignature
	}

	if claims.Subject == "" || claims.IssuedAt == nil || claims.ExpiresAt == nil {
		return ClaimSet{}, ErrMalformedToken
	}

	return ClaimSet{
		ID:        claims.ID,
		Subject:   claims.Subject,
		Email:     claims.Email,
		Role:      claims.Role,
		Username:  claims.Username,
		IssuedAt:  claims.IssuedAt.Time,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}
