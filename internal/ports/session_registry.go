package ports

import (
	"context"

	"github.com/google/uuid"
	"github.com/settingsync/settingsync/internal/domain"
)

// SessionRegistry owns the run sessions of each client definition. Update
// runs fn under the client definition's exclusive lock: fn receives the
// current session set and returns the replacement, so read-modify-write
// of one definition's sessions never interleaves. Different definitions
// proceed independently.
type SessionRegistry interface {
	Sessions(ctx context.Context, key domain.ClientKey) ([]domain.RunSession, error)
	Update(ctx context.Context, key domain.ClientKey, fn func(sessions []domain.RunSession) ([]domain.RunSession, error)) error
	// UpdateSession locates a session by id across all client definitions,
	// applies fn under the owning definition's lock and returns the owner
	// key and the updated session. Returns domain.ErrRunSessionNotFound
	// when no definition owns the id.
	UpdateSession(ctx context.Context, id uuid.UUID, fn func(session *domain.RunSession) error) (domain.ClientKey, domain.RunSession, error)
}
