package events

import (
	"time"

	"github.com/spec-kit/session-token-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventUserRegistered EventType = "user_registered"
	EventSessionIssued  EventType = "session_issued"
	EventSessionRevoked EventType = "session_revoked"
	EventLoginFailed    EventType = "login_failed"
)

// Event represents a session lifecycle event emitted by services.
type Event struct {
	ID         string         `json:"id"`
	Type       EventType      `json:"type"`
	Email      string         `json:"email"`
	Role       domain.Role    `json:"role,omitempty"`
	OccurredAt time.Time      `json:"occurred_at"`
	Payload    map[string]any `json:"payload,omitempty"`
}
