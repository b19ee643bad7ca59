package toml

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/settingsync/settingsync/internal/domain"
)

const currentSchemaVersion = 1

type clientsFileSchema struct {
	Version int            `toml:"version"`
	Clients []clientSchema `toml:"clients"`
}

func (s *clientsFileSchema) applyDefaults() {
	if s.Version == 0 {
		s.Version = currentSchemaVersion
	}
}

func (s clientsFileSchema) validateVersion() error {
	if s.Version > currentSchemaVersion {
		return fmt.Errorf("unsupported clients schema version %d (current %d)", s.Version, currentSchemaVersion)
	}

	return nil
}

type clientSchema struct {
	Name                   string `toml:"name"`
	Instance               string `toml:"instance,omitempty"`
	SecretHash             string `toml:"secret_hash"`
	LastSettingValueUpdate string `toml:"last_setting_value_update,omitempty"`
}

func toClientSchema(def domain.ClientDefinition) clientSchema {
	return clientSchema{
		Name:                   def.Name,
		Instance:               def.Instance,
		SecretHash:             def.SecretHash,
		LastSettingValueUpdate: formatTime(def.LastSettingValueUpdate),
	}
}

func fromClientSchema(entry clientSchema) domain.ClientDefinition {
	return domain.ClientDefinition{
		Name:                   entry.Name,
		Instance:               entry.Instance,
		SecretHash:             entry.SecretHash,
		LastSettingValueUpdate: parseTime(entry.LastSettingValueUpdate),
	}
}

type eventsFileSchema struct {
	Version int           `toml:"version"`
	Events  []eventSchema `toml:"events"`
}

func (s *eventsFileSchema) applyDefaults() {
	if s.Version == 0 {
		s.Version = currentSchemaVersion
	}
}

func (s eventsFileSchema) validateVersion() error {
	if s.Version > currentSchemaVersion {
		return fmt.Errorf("unsupported audit schema version %d (current %d)", s.Version, currentSchemaVersion)
	}

	return nil
}

type eventSchema struct {
	ID           string `toml:"id"`
	Timestamp    string `toml:"timestamp"`
	Kind         string `toml:"kind"`
	ClientName   string `toml:"client_name"`
	Instance     string `toml:"instance,omitempty"`
	RunSessionID string `toml:"run_session_id,omitempty"`
	SettingName  string `toml:"setting_name,omitempty"`
	Message      string `toml:"message,omitempty"`
}

func toEventSchema(event domain.Event) eventSchema {
	runSessionID := ""
	if event.RunSessionID != uuid.Nil {
		runSessionID = event.RunSessionID.String()
	}

	return eventSchema{
		ID:           event.ID.String(),
		Timestamp:    formatTime(event.Timestamp),
		Kind:         string(event.Kind),
		ClientName:   event.ClientName,
		Instance:     event.Instance,
		RunSessionID: runSessionID,
		SettingName:  event.SettingName,
		Message:      event.Message,
	}
}

func fromEventSchema(entry eventSchema) domain.Event {
	return domain.Event{
		ID:           parseUUID(entry.ID),
		Timestamp:    parseTime(entry.Timestamp),
		Kind:         domain.EventKind(entry.Kind),
		ClientName:   entry.ClientName,
		Instance:     entry.Instance,
		RunSessionID: parseUUID(entry.RunSessionID),
		SettingName:  entry.SettingName,
		Message:      entry.Message,
	}
}

func parseUUID(raw string) uuid.UUID {
	if raw == "" {
		return uuid.Nil
	}

	parsed, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil
	}

	return parsed
}

func parseTime(raw string) time.Time {
	if raw == "" {
		return time.Time{}
	}

	parsed, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return time.Time{}
	}

	return parsed
}

func formatTime(value time.Time) string {
	if value.IsZero() {
		return ""
	}

	return value.Format(time.RFC3339Nano)
}
