package application

import (
	"time"

	"github.com/settingsync/settingsync/internal/domain"
)

// StatusResponse is the verdict returned to a polling client.
// ChangedSettings is nil when no update is available; an update with no
// attributable setting names is an empty, non-nil slice.
type StatusResponse struct {
	SettingUpdateAvailable bool
	PollIntervalMs         int64
	AllowOfflineSettings   bool
	RestartRequested       bool
	ChangedSettings        []string
}

// ClientStatus is the administrative view of one client definition and
// its live run sessions.
type ClientStatus struct {
	Name                   string
	Instance               string
	LastSettingValueUpdate time.Time
	RunSessions            []domain.RunSession
}
