package ports

import (
	"context"

	"github.com/arbitex/marketplace/internal/core/domain"
)

// SessionStore defines the session-id–keyed server-side session records.
// Callers that mutate a session must serialize per session id; the store
// itself only guarantees whole-record reads and writes.
type SessionStore interface {
	// Get retrieves a session by id, or domain.ErrSessionNotFound.
	Get(ctx context.Context, id string) (*domain.Session, error)
	Save(ctx context.Context, session *domain.Session) error
	Delete(ctx context.Context, id string) error
}
