package domain

import "time"

// Session describes an issued token as seen by the HTTP layer.
type Session struct {
	Token     string
	ExpiresAt time.Time
}
