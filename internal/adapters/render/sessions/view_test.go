package sessions

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/settingsync/settingsync/internal/application"
	"github.com/settingsync/settingsync/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderSingleClient(t *testing.T) {
	now := time.Date(2026, 2, 14, 11, 0, 0, 0, time.UTC)
	id := uuid.MustParse("3f1c9a2e-0000-0000-0000-000000000000")

	output, err := Render([]application.ClientStatus{
		{
			Name: "OrderService",
			RunSessions: []domain.RunSession{{
				RunSessionID:      id,
				LiveReload:        true,
				PollIntervalMs:    30_000,
				LastSeenUtc:       now.Add(-12 * time.Second),
				RequesterHostname: "host-1",
			}},
		},
	}, RenderOptions{Now: now})

	require.NoError(t, err)
	assert.Contains(t, output, "clients: 1")
	assert.Contains(t, output, "OrderService (1 session)")
	assert.Contains(t, output, "3f1c9a2e")
	assert.Contains(t, output, "on host-1")
	assert.Contains(t, output, "polling every 30s")
	assert.Contains(t, output, "last seen 12s ago")
	assert.NotContains(t, output, "restart")
	assert.NotContains(t, output, "memory leak")
}

func TestRenderMultipleClientsWithInstances(t *testing.T) {
	now := time.Date(2026, 2, 14, 11, 0, 0, 0, time.UTC)

	output, err := Render([]application.ClientStatus{
		{
			Name:     "OrderService",
			Instance: "eu-west",
			RunSessions: []domain.RunSession{
				{RunSessionID: uuid.New(), LiveReload: true, PollIntervalMs: 30_000, LastSeenUtc: now},
				{RunSessionID: uuid.New(), LiveReload: true, PollIntervalMs: 30_000, LastSeenUtc: now.Add(-3 * time.Minute)},
			},
		},
		{
			Name: "BillingService",
			RunSessions: []domain.RunSession{
				{RunSessionID: uuid.New(), LiveReload: true, PollIntervalMs: 60_000, LastSeenUtc: now},
			},
		},
	}, RenderOptions{Now: now})

	require.NoError(t, err)
	assert.Contains(t, output, "clients: 2")
	assert.Contains(t, output, "OrderService [eu-west] (2 sessions)")
	assert.Contains(t, output, "BillingService (1 session)")
	assert.Contains(t, output, "last seen just now")
	assert.Contains(t, output, "last seen 3m ago")
	assert.Contains(t, output, "polling every 1m0s")
}

func TestRenderFlagsActionableStates(t *testing.T) {
	now := time.Date(2026, 2, 14, 11, 0, 0, 0, time.UTC)

	output, err := Render([]application.ClientStatus{
		{
			Name: "OrderService",
			RunSessions: []domain.RunSession{{
				RunSessionID:                   uuid.New(),
				LiveReload:                     false,
				RestartRequested:               true,
				RestartRequiredToApplySettings: true,
				HasConfigurationError:          true,
				PollIntervalMs:                 30_000,
				LastSeenUtc:                    now,
				MemoryAnalysis: &domain.MemoryAnalysis{
					PossibleMemoryLeakDetected: true,
					TrendLineSlopeBytesPerHour: 120 << 20,
				},
			}},
		},
	}, RenderOptions{Now: now})

	require.NoError(t, err)
	assert.Contains(t, output, "[live reload off]")
	assert.Contains(t, output, "[restart requested]")
	assert.Contains(t, output, "[restart required]")
	assert.Contains(t, output, "[configuration error]")
	assert.Contains(t, output, "[possible memory leak: 120.0 MiB/hour]")
}

func TestRenderEmpty(t *testing.T) {
	output, err := Render(nil, RenderOptions{})
	require.NoError(t, err)
	assert.Contains(t, output, "clients: 0")
	assert.Contains(t, output, "No clients are currently polling.")
}

func TestRenderWithoutNowUsesAbsoluteTimestamps(t *testing.T) {
	lastSeen := time.Date(2026, 2, 14, 10, 59, 0, 0, time.UTC)

	output, err := Render([]application.ClientStatus{
		{
			Name: "OrderService",
			RunSessions: []domain.RunSession{{
				RunSessionID:   uuid.New(),
				LiveReload:     true,
				PollIntervalMs: 30_000,
				LastSeenUtc:    lastSeen,
			}},
		},
	}, RenderOptions{})

	require.NoError(t, err)
	assert.Contains(t, output, "2026-02-14T10:59:00Z")
	assert.Contains(t, output, "unknown host")
}
