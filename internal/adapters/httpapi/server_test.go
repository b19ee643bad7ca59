package httpapi

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/settingsync/settingsync/internal/application"
	"github.com/settingsync/settingsync/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStatusAPI records the arguments of the last call and plays back
// canned results.
type fakeStatusAPI struct {
	syncResponse application.StatusResponse
	syncErr      error
	statuses     []application.ClientStatus
	flagged      int
	err          error

	clientName   string
	instance     string
	clientSecret string
	request      application.StatusRequest
	requester    application.RequesterDetails
	runSessionID uuid.UUID
	liveReload   bool
}

func (f *fakeStatusAPI) SyncStatus(_ context.Context, clientName, instance, clientSecret string, request application.StatusRequest, requester application.RequesterDetails) (application.StatusResponse, error) {
	f.clientName = clientName
	f.instance = instance
	f.clientSecret = clientSecret
	f.request = request
	f.requester = requester
	return f.syncResponse, f.syncErr
}

func (f *fakeStatusAPI) SetLiveReload(_ context.Context, runSessionID uuid.UUID, liveReload bool) error {
	f.runSessionID = runSessionID
	f.liveReload = liveReload
	return f.err
}

func (f *fakeStatusAPI) RequestRestart(_ context.Context, runSessionID uuid.UUID) error {
	f.runSessionID = runSessionID
	return f.err
}

func (f *fakeStatusAPI) MarkRestartRequired(_ context.Context, clientName, instance string) (int, error) {
	f.clientName = clientName
	f.instance = instance
	return f.flagged, f.err
}

func (f *fakeStatusAPI) GetAll(context.Context) ([]application.ClientStatus, error) {
	return f.statuses, f.err
}

func newTestServer(api StatusAPI) *httptest.Server {
	server := NewServer(api, slog.New(slog.NewTextHandler(io.Discard, nil)))
	return httptest.NewServer(server.Handler())
}

func syncStatusBody(t *testing.T, id uuid.UUID) string {
	t.Helper()

	body, err := json.Marshal(map[string]any{
		"runSessionId":      id,
		"startTime":         time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		"lastSettingUpdate": time.Date(2024, 1, 1, 0, 5, 0, 0, time.UTC),
		"pollIntervalMs":    30000,
	})
	require.NoError(t, err)

	return string(body)
}

func doPut(t *testing.T, url, body string, headers map[string]string) *http.Response {
	t.Helper()

	request, err := http.NewRequest(http.MethodPut, url, strings.NewReader(body))
	require.NoError(t, err)
	for name, value := range headers {
		request.Header.Set(name, value)
	}

	response, err := http.DefaultClient.Do(request)
	require.NoError(t, err)
	t.Cleanup(func() { _ = response.Body.Close() })

	return response
}

func TestSyncStatusEndpoint(t *testing.T) {
	api := &fakeStatusAPI{
		syncResponse: application.StatusResponse{
			SettingUpdateAvailable: true,
			PollIntervalMs:         30000,
			ChangedSettings:        []string{"Timeout"},
		},
	}
	server := newTestServer(api)
	defer server.Close()

	id := uuid.New()
	response := doPut(t, server.URL+"/statuses/OrderService?instance=eu-west", syncStatusBody(t, id), map[string]string{
		secretHeader:      "s3cret",
		machineNameHeader: "host-1",
	})

	require.Equal(t, http.StatusOK, response.StatusCode)

	var body map[string]any
	require.NoError(t, json.NewDecoder(response.Body).Decode(&body))
	assert.Equal(t, true, body["settingUpdateAvailable"])
	assert.Equal(t, []any{"Timeout"}, body["changedSettings"])

	assert.Equal(t, "OrderService", api.clientName)
	assert.Equal(t, "eu-west", api.instance)
	assert.Equal(t, "s3cret", api.clientSecret)
	assert.Equal(t, id, api.request.RunSessionID)
	assert.Equal(t, "host-1", api.requester.Hostname)
	assert.NotEmpty(t, api.requester.IPAddress)
}

func TestSyncStatusChangedSettingsNullWhenNoUpdate(t *testing.T) {
	api := &fakeStatusAPI{
		syncResponse: application.StatusResponse{PollIntervalMs: 30000},
	}
	server := newTestServer(api)
	defer server.Close()

	response := doPut(t, server.URL+"/statuses/OrderService", syncStatusBody(t, uuid.New()), nil)
	require.Equal(t, http.StatusOK, response.StatusCode)

	raw, err := io.ReadAll(response.Body)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"changedSettings":null`)
}

func TestSyncStatusChangedSettingsEmptyArrayWhenUnattributed(t *testing.T) {
	api := &fakeStatusAPI{
		syncResponse: application.StatusResponse{
			SettingUpdateAvailable: true,
			PollIntervalMs:         30000,
			ChangedSettings:        []string{},
		},
	}
	server := newTestServer(api)
	defer server.Close()

	response := doPut(t, server.URL+"/statuses/OrderService", syncStatusBody(t, uuid.New()), nil)
	require.Equal(t, http.StatusOK, response.StatusCode)

	raw, err := io.ReadAll(response.Body)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"changedSettings":[]`)
}

func TestSyncStatusRejectsMissingRunSessionID(t *testing.T) {
	server := newTestServer(&fakeStatusAPI{})
	defer server.Close()

	response := doPut(t, server.URL+"/statuses/OrderService", `{"pollIntervalMs":30000}`, nil)
	assert.Equal(t, http.StatusBadRequest, response.StatusCode)
}

func TestSyncStatusErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{name: "unknown client", err: domain.ErrClientNotFound, wantStatus: http.StatusNotFound},
		{name: "bad secret", err: domain.ErrUnauthorized, wantStatus: http.StatusUnauthorized},
		{name: "internal failure", err: assert.AnError, wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := newTestServer(&fakeStatusAPI{syncErr: tt.err})
			defer server.Close()

			response := doPut(t, server.URL+"/statuses/OrderService", syncStatusBody(t, uuid.New()), nil)
			assert.Equal(t, tt.wantStatus, response.StatusCode)
		})
	}
}

func TestLiveReloadEndpoint(t *testing.T) {
	api := &fakeStatusAPI{}
	server := newTestServer(api)
	defer server.Close()

	id := uuid.New()
	response := doPut(t, server.URL+"/sessions/"+id.String()+"/live-reload", `{"liveReload":false}`, nil)
	require.Equal(t, http.StatusNoContent, response.StatusCode)

	assert.Equal(t, id, api.runSessionID)
	assert.False(t, api.liveReload)
}

func TestLiveReloadRejectsBadSessionID(t *testing.T) {
	server := newTestServer(&fakeStatusAPI{})
	defer server.Close()

	response := doPut(t, server.URL+"/sessions/not-a-uuid/live-reload", `{"liveReload":true}`, nil)
	assert.Equal(t, http.StatusBadRequest, response.StatusCode)
}

func TestRestartEndpointUnknownSession(t *testing.T) {
	server := newTestServer(&fakeStatusAPI{err: domain.ErrRunSessionNotFound})
	defer server.Close()

	response := doPut(t, server.URL+"/sessions/"+uuid.NewString()+"/restart", "", nil)
	assert.Equal(t, http.StatusNotFound, response.StatusCode)
}

func TestMarkRestartRequiredEndpoint(t *testing.T) {
	api := &fakeStatusAPI{flagged: 3}
	server := newTestServer(api)
	defer server.Close()

	response := doPut(t, server.URL+"/clients/OrderService/restart-required?instance=eu-west", "", nil)
	require.Equal(t, http.StatusOK, response.StatusCode)

	var body map[string]any
	require.NoError(t, json.NewDecoder(response.Body).Decode(&body))
	assert.Equal(t, float64(3), body["sessionsFlagged"])

	assert.Equal(t, "OrderService", api.clientName)
	assert.Equal(t, "eu-west", api.instance)
}

func TestGetAllEndpoint(t *testing.T) {
	api := &fakeStatusAPI{
		statuses: []application.ClientStatus{{
			Name:                   "OrderService",
			LastSettingValueUpdate: time.Date(2024, 1, 1, 0, 5, 0, 0, time.UTC),
			RunSessions: []domain.RunSession{{
				RunSessionID:   uuid.New(),
				PollIntervalMs: 30000,
				LiveReload:     true,
				MemoryAnalysis: &domain.MemoryAnalysis{PossibleMemoryLeakDetected: true},
			}},
		}},
	}
	server := newTestServer(api)
	defer server.Close()

	response, err := http.Get(server.URL + "/statuses")
	require.NoError(t, err)
	defer response.Body.Close()
	require.Equal(t, http.StatusOK, response.StatusCode)

	var views []map[string]any
	require.NoError(t, json.NewDecoder(response.Body).Decode(&views))
	require.Len(t, views, 1)
	assert.Equal(t, "OrderService", views[0]["name"])

	sessions, ok := views[0]["runSessions"].([]any)
	require.True(t, ok)
	require.Len(t, sessions, 1)
	session := sessions[0].(map[string]any)
	assert.Equal(t, true, session["liveReload"])
	assert.Equal(t, true, session["possibleMemoryLeakDetected"])
}

func TestRequesterIPPrefersForwardedHeader(t *testing.T) {
	request := httptest.NewRequest(http.MethodPut, "/statuses/OrderService", nil)
	request.RemoteAddr = "192.0.2.10:51234"

	assert.Equal(t, "192.0.2.10", requesterIP(request))

	request.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	assert.Equal(t, "203.0.113.7", requesterIP(request))

	request.Header.Set("X-Forwarded-For", "203.0.113.8")
	assert.Equal(t, "203.0.113.8", requesterIP(request))
}
