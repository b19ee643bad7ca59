package application

import (
	"time"

	"github.com/google/uuid"
)

// StatusRequest is one poll from a running client instance.
type StatusRequest struct {
	RunSessionID          uuid.UUID
	StartTime             time.Time
	LastSettingUpdate     time.Time
	PollIntervalMs        int64
	HasConfigurationError bool
	ConfigurationErrors   []string
	MemoryUsageBytes      *int64
}

// RequesterDetails carries transport-level information about the polling
// client, captured outside this layer.
type RequesterDetails struct {
	Hostname  string
	IPAddress string
}
