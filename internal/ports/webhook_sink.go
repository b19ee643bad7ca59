package ports

import (
	"context"

	"github.com/settingsync/settingsync/internal/domain"
)

// WebhookSink delivers lifecycle events to external endpoints. Delivery is
// best effort; callers isolate failures and never let them reach the poll
// path.
type WebhookSink interface {
	Deliver(ctx context.Context, event domain.Event) error
}
