package dto

import "time"

// RegisterRequest payload for new users.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// LoginRequest payload for login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse standard response for auth endpoints.
type AuthResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// UserResponse is the public view of a user.
type UserResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// MeResponse describes the caller's current session.
type MeResponse struct {
	Email            string `json:"email"`
	Role             string `json:"role,omitempty"`
	ExpiresInSeconds int64  `json:"expires_in_seconds"`
}

// RevokeRequest names a session an administrator wants to end.
type RevokeRequest struct {
	Token string `json:"token"`
}
