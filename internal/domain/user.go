package domain

import (
	"strings"
	"time"
)

// Role is the authorization role carried in issued tokens.
type Role string

const (
	RoleStudent Role = "STUDENT"
	RoleTeacher Role = "TEACHER"
	RoleAdmin   Role = "ADMIN"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleTeacher, RoleAdmin:
		return true
	}
	return false
}

// SelfAssignable reports whether a user may pick r when registering.
// ADMIN is only granted by seeding.
func (r Role) SelfAssignable() bool {
	return r == RoleStudent || r == RoleTeacher
}

// NormalizeEmail is the canonical form under which emails are stored and compared.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// User is the identity a session token is issued for.
type User struct {
	ID           string
	Name         string
	Email        string
	Role         Role
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
