package httpapi

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/settingsync/settingsync/internal/application"
	"github.com/settingsync/settingsync/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientStatusesRoundTrip(t *testing.T) {
	id := uuid.New()
	api := &fakeStatusAPI{
		statuses: []application.ClientStatus{{
			Name:                   "OrderService",
			Instance:               "eu-west",
			LastSettingValueUpdate: time.Date(2024, 1, 1, 0, 5, 0, 0, time.UTC),
			RunSessions: []domain.RunSession{{
				RunSessionID:          id,
				StartTimeUtc:          time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
				LastSeenUtc:           time.Date(2024, 1, 1, 0, 4, 0, 0, time.UTC),
				PollIntervalMs:        30000,
				LiveReload:            true,
				HasConfigurationError: true,
				ConfigurationErrors:   []string{"bad endpoint"},
				RequesterHostname:     "host-1",
				MemoryAnalysis: &domain.MemoryAnalysis{
					PossibleMemoryLeakDetected: true,
					TrendLineSlopeBytesPerHour: 1 << 20,
				},
			}},
		}},
	}
	server := newTestServer(api)
	defer server.Close()

	client := NewClient(server.URL)
	statuses, err := client.Statuses(context.Background())
	require.NoError(t, err)
	require.Len(t, statuses, 1)

	status := statuses[0]
	assert.Equal(t, "OrderService", status.Name)
	assert.Equal(t, "eu-west", status.Instance)
	require.Len(t, status.RunSessions, 1)

	session := status.RunSessions[0]
	assert.Equal(t, id, session.RunSessionID)
	assert.True(t, session.LiveReload)
	assert.Equal(t, []string{"bad endpoint"}, session.ConfigurationErrors)
	assert.Equal(t, "host-1", session.RequesterHostname)
	require.NotNil(t, session.MemoryAnalysis)
	assert.True(t, session.MemoryAnalysis.PossibleMemoryLeakDetected)
	assert.InDelta(t, float64(1<<20), session.MemoryAnalysis.TrendLineSlopeBytesPerHour, 0.1)
}

func TestClientSetLiveReload(t *testing.T) {
	api := &fakeStatusAPI{}
	server := newTestServer(api)
	defer server.Close()

	client := NewClient(server.URL)
	id := uuid.New()
	require.NoError(t, client.SetLiveReload(context.Background(), id, false))

	assert.Equal(t, id, api.runSessionID)
	assert.False(t, api.liveReload)
}

func TestClientSetLiveReloadUnknownSession(t *testing.T) {
	server := newTestServer(&fakeStatusAPI{err: domain.ErrRunSessionNotFound})
	defer server.Close()

	client := NewClient(server.URL)
	err := client.SetLiveReload(context.Background(), uuid.New(), true)
	assert.ErrorIs(t, err, domain.ErrRunSessionNotFound)
}

func TestClientRequestRestart(t *testing.T) {
	api := &fakeStatusAPI{}
	server := newTestServer(api)
	defer server.Close()

	client := NewClient(server.URL)
	id := uuid.New()
	require.NoError(t, client.RequestRestart(context.Background(), id))
	assert.Equal(t, id, api.runSessionID)
}

func TestClientMarkRestartRequired(t *testing.T) {
	api := &fakeStatusAPI{flagged: 2}
	server := newTestServer(api)
	defer server.Close()

	client := NewClient(server.URL)
	flagged, err := client.MarkRestartRequired(context.Background(), "OrderService", "eu-west")
	require.NoError(t, err)
	assert.Equal(t, 2, flagged)
	assert.Equal(t, "OrderService", api.clientName)
	assert.Equal(t, "eu-west", api.instance)
}

func TestClientMarkRestartRequiredUnknownClient(t *testing.T) {
	server := newTestServer(&fakeStatusAPI{err: domain.ErrClientNotFound})
	defer server.Close()

	client := NewClient(server.URL)
	_, err := client.MarkRestartRequired(context.Background(), "Ghost", "")
	assert.ErrorIs(t, err, domain.ErrClientNotFound)
}

func TestClientUnreachableServer(t *testing.T) {
	client := NewClient("http://127.0.0.1:0")
	_, err := client.Statuses(context.Background())
	assert.Error(t, err)
}
