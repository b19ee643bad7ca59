package toml

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	toml "github.com/pelletier/go-toml/v2"
	"github.com/settingsync/settingsync/internal/domain"
	"github.com/settingsync/settingsync/internal/ports"
	"github.com/spf13/viper"
)

const (
	auditPathKey     = "audit.path"
	auditDefaultFile = "audit.toml"
	auditTempPattern = ".audit-*.toml.tmp"
)

// EventLog is the file-backed audit log. Append rewrites the file
// atomically; SettingChanges is a linear range scan, which is fine at the
// volumes a single settings server sees.
type EventLog struct {
	path string
	mu   *sync.RWMutex
}

var _ ports.EventLog = (*EventLog)(nil)

func NewEventLog(cfg *viper.Viper) (*EventLog, error) {
	path, err := resolveStorePath(cfg, auditPathKey, auditDefaultFile)
	if err != nil {
		return nil, err
	}

	return &EventLog{path: path, mu: lockForPath(path)}, nil
}

func (l *EventLog) Append(ctx context.Context, event domain.Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	file, err := l.readSchema()
	if err != nil {
		return err
	}
	file.applyDefaults()

	file.Events = append(file.Events, toEventSchema(event))

	if err := ctx.Err(); err != nil {
		return err
	}

	return l.writeSchema(file)
}

// SettingChanges returns setting value changes in [start, end] for the
// exact client identity. The log is scanned as a point-in-time range
// query; no ordering is assumed.
func (l *EventLog) SettingChanges(ctx context.Context, start, end time.Time, clientName, instance string) ([]domain.Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	l.mu.RLock()
	defer l.mu.RUnlock()

	file, err := l.readSchema()
	if err != nil {
		return nil, err
	}

	changes := make([]domain.Event, 0)
	for _, entry := range file.Events {
		event := fromEventSchema(entry)
		if event.Kind != domain.EventSettingValueChanged {
			continue
		}
		if event.ClientName != clientName || event.Instance != instance {
			continue
		}
		if event.Timestamp.Before(start) || event.Timestamp.After(end) {
			continue
		}
		changes = append(changes, event)
	}

	return changes, nil
}

func (l *EventLog) readSchema() (eventsFileSchema, error) {
	data, err := os.ReadFile(l.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return eventsFileSchema{}, nil
		}
		return eventsFileSchema{}, fmt.Errorf("read audit file: %w", err)
	}

	var file eventsFileSchema
	if err := toml.Unmarshal(data, &file); err != nil {
		return eventsFileSchema{}, fmt.Errorf("decode audit file: %w", err)
	}
	if err := file.validateVersion(); err != nil {
		return eventsFileSchema{}, err
	}
	file.applyDefaults()

	return file, nil
}

func (l *EventLog) writeSchema(file eventsFileSchema) error {
	file.applyDefaults()

	data, err := toml.Marshal(file)
	if err != nil {
		return fmt.Errorf("encode audit file: %w", err)
	}

	return writeFileAtomic(l.path, data, auditTempPattern)
}
