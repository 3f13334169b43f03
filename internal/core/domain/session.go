package domain

import (
	"errors"
	"time"
)

var ErrSessionNotFound = errors.New("session not found")
var ErrSessionUnavailable = errors.New("session store unavailable")
var ErrNoPendingChallenge = errors.New("no pending sign-in challenge")
var ErrInvalidNonce = errors.New("invalid nonce")
var ErrInvalidSignature = errors.New("invalid signature")
var ErrUnauthenticated = errors.New("authentication required")

// Session is the server-side record behind the encrypted session cookie.
// Nonce is present only while a sign-in is pending; UserID only once the
// challenge has been completed.
type Session struct {
	ID            string    `json:"id"`
	Nonce         string    `json:"nonce,omitempty"`
	NonceIssuedAt time.Time `json:"nonce_issued_at,omitempty"`
	UserID        string    `json:"user_id,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// Authenticated reports whether the session is bound to an identity.
func (s *Session) Authenticated() bool {
	return s.UserID != ""
}

// ConsumeNonce clears the pending challenge. A nonce is usable for exactly
// one verification attempt, success or failure.
func (s *Session) ConsumeNonce() {
	s.Nonce = ""
	s.NonceIssuedAt = time.Time{}
}
