package ports

import (
	"context"
	"time"

	"github.com/settingsync/settingsync/internal/domain"
)

// EventLog is the durable audit record. Append failures are treated as
// operation failures by callers. SettingChanges is a point-in-time range
// query; no ordering of the underlying log is assumed.
type EventLog interface {
	Append(ctx context.Context, event domain.Event) error
	SettingChanges(ctx context.Context, start, end time.Time, clientName, instance string) ([]domain.Event, error)
}
