package domain

import (
	"time"

	"github.com/google/uuid"
)

// Session is the proof of authentication handed to a caller after sign-in.
type Session struct {
	UserID    uuid.UUID `json:"user_id"`
	Email     string    `json:"email"`
	Token     string    `json:"token,omitempty"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired reports whether the session is past its expiry at now. A zero
// expiry never expires.
func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

// Identity is the resolved caller a tenant-scoped operation runs as.
type Identity struct {
	UserID uuid.UUID
	Email  string
}
