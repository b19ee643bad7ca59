package ports

import (
	"context"

	"github.com/settingsync/settingsync/internal/domain"
)

// ClientDirectory looks up client definitions registered by the settings
// layer. Get returns domain.ErrClientNotFound when no definition matches
// the exact (name, instance) pair; callers decide whether to fall back to
// the instance-less definition.
type ClientDirectory interface {
	Get(ctx context.Context, name, instance string) (domain.ClientDefinition, error)
	List(ctx context.Context) ([]domain.ClientDefinition, error)
	Save(ctx context.Context, def domain.ClientDefinition) error
}
