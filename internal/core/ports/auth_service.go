package ports

import (
	"context"

	"github.com/arbitex/marketplace/internal/core/domain"
)

// ChallengeResult is the output of the first sign-in step. SessionID may
// differ from the one the caller presented when a fresh anonymous session was
// created.
type ChallengeResult struct {
	SessionID string
	Nonce     string
	Message   string
}

// SignInResult is the output of a completed sign-in. SessionID is always a
// fresh id: the session is regenerated on privilege change.
type SignInResult struct {
	SessionID string
	User      *domain.User
	Token     string
}

// AuthService orchestrates the nonce challenge/response sign-in protocol.
type AuthService interface {
	// BeginSignIn issues a single-use nonce bound to the session. An empty or
	// unknown sessionID yields a fresh anonymous session. The address is only
	// used to render the canonical message; it is not trusted.
	BeginSignIn(ctx context.Context, sessionID, address string) (*ChallengeResult, error)
	// CompleteSignIn verifies the signed challenge, consumes the nonce,
	// resolves the identity, and binds it to a regenerated session.
	CompleteSignIn(ctx context.Context, sessionID, publicKey, message, signature string) (*SignInResult, error)
	// Resolve returns the identity bound to an authenticated session.
	Resolve(ctx context.Context, sessionID string) (*domain.User, error)
	// SignOut discards the session record.
	SignOut(ctx context.Context, sessionID string) error
}
