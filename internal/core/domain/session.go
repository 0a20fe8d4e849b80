package domain

import (
	"time"
)

// SessionTTL is the sliding validity window: every authenticated call
// renews the session to now + SessionTTL.
const SessionTTL = 30 * time.Minute

// Session is an opaque, server-side login credential bound to one account.
// It is stored by token and treated as invalid lazily once expired; there
// is no background sweep the logic depends on.
type Session struct {
	Token         string    `json:"-"` // unguessable, never logged
	AccountNumber string    `json:"account_number"`
	CreatedAt     time.Time `json:"created_at"`
	ExpiresAt     time.Time `json:"expires_at"`
}

// Usable reports whether the session is valid at the given instant.
func (s *Session) Usable(now time.Time) bool {
	return now.Before(s.ExpiresAt)
}
