package leaverequest

import (
	"time"

	"github.com/google/uuid"
)

const (
	// ApprovalTokenTTL bounds how long an emailed approval link stays usable.
	ApprovalTokenTTL = 7 * 24 * time.Hour
	// RevocationTokenTTL bounds the window to confirm undoing an approval.
	RevocationTokenTTL = 3 * 24 * time.Hour
)

// Token is an opaque bearer capability: possession of a valid, unexpired
// token authorizes exactly one anonymous action on one request.
type Token struct {
	Value     string
	ExpiresAt time.Time
}

// NewToken issues a fresh random token valid for ttl from now.
func NewToken(now time.Time, ttl time.Duration) Token {
	return Token{
		Value:     uuid.NewString(),
		ExpiresAt: now.Add(ttl),
	}
}

// Valid reports whether the token has not expired at the given instant.
func (t Token) Valid(now time.Time) bool {
	return now.Before(t.ExpiresAt)
}
