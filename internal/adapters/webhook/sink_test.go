package webhook

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/settingsync/settingsync/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lifecycleEvent() domain.Event {
	return domain.Event{
		ID:           uuid.New(),
		Timestamp:    time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		Kind:         domain.EventClientConnected,
		ClientName:   "OrderService",
		RunSessionID: uuid.New(),
		Message:      "new run session from host-1",
	}
}

func TestDeliverPostsJSONPayload(t *testing.T) {
	t.Parallel()

	event := lifecycleEvent()

	var received map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	sink := NewSink([]string{server.URL}, server.Client())
	require.NoError(t, sink.Deliver(context.Background(), event))

	assert.Equal(t, "client_connected", received["kind"])
	assert.Equal(t, "OrderService", received["clientName"])
	assert.Equal(t, event.RunSessionID.String(), received["runSessionId"])
}

func TestDeliverReportsNonSuccessStatus(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	sink := NewSink([]string{server.URL}, server.Client())
	err := sink.Deliver(context.Background(), lifecycleEvent())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 502")
}

func TestDeliverContinuesPastFailedEndpoint(t *testing.T) {
	t.Parallel()

	var delivered int
	healthy := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		delivered++
		w.WriteHeader(http.StatusNoContent)
	}))
	defer healthy.Close()

	broken := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer broken.Close()

	sink := NewSink([]string{broken.URL, healthy.URL}, nil)
	err := sink.Deliver(context.Background(), lifecycleEvent())
	require.Error(t, err)
	assert.Equal(t, 1, delivered)
}

func TestDeliverWithoutEndpointsIsNoOp(t *testing.T) {
	t.Parallel()

	sink := NewSink(nil, nil)
	require.NoError(t, sink.Deliver(context.Background(), lifecycleEvent()))
}
