package domain

import (
	"time"

	"github.com/google/uuid"
)

type EventKind string

const (
	EventNewRunSession             EventKind = "new_run_session"
	EventRunSessionExpired         EventKind = "run_session_expired"
	EventClientConnected           EventKind = "client_connected"
	EventClientDisconnected        EventKind = "client_disconnected"
	EventConfigurationErrorChanged EventKind = "configuration_error_status_changed"
	EventConfigurationError        EventKind = "configuration_error"
	EventPossibleMemoryLeak        EventKind = "possible_memory_leak_detected"
	EventLiveReloadChanged         EventKind = "live_reload_changed"
	EventRestartRequested          EventKind = "restart_requested"
	EventSettingValueChanged       EventKind = "setting_value_changed"
)

// Event is one entry in the audit log. Setting value changes are written
// by the settings layer and read back by the change detector; everything
// else is written by this core.
type Event struct {
	ID           uuid.UUID
	Timestamp    time.Time
	Kind         EventKind
	ClientName   string
	Instance     string
	RunSessionID uuid.UUID
	SettingName  string
	Message      string
}
