package application

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/settingsync/settingsync/internal/ports"
)

// ChangeDetector attributes a settings update to the distinct setting
// names that changed inside a time window, by querying the audit log.
type ChangeDetector struct {
	events ports.EventLog
}

func NewChangeDetector(events ports.EventLog) *ChangeDetector {
	return &ChangeDetector{events: events}
}

// ChangedSettingNames returns the deduplicated, sorted setting names with
// a recorded value change in [start, end] for the given client identity.
// An empty window match yields an empty slice, never an error.
func (d *ChangeDetector) ChangedSettingNames(ctx context.Context, start, end time.Time, clientName, instance string) ([]string, error) {
	changes, err := d.events.SettingChanges(ctx, start, end, clientName, instance)
	if err != nil {
		return nil, fmt.Errorf("query setting changes: %w", err)
	}

	names := make([]string, 0, len(changes))
	seen := make(map[string]struct{}, len(changes))
	for _, change := range changes {
		if change.SettingName == "" {
			continue
		}
		if _, ok := seen[change.SettingName]; ok {
			continue
		}
		seen[change.SettingName] = struct{}{}
		names = append(names, change.SettingName)
	}

	sort.Strings(names)

	return names, nil
}
