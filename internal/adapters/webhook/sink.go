// Package webhook posts lifecycle events to configured HTTP endpoints.
// Retries and delivery guarantees are the receiving side's problem; this
// sink makes one bounded attempt per endpoint.
package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/settingsync/settingsync/internal/domain"
	"github.com/settingsync/settingsync/internal/ports"
)

const maxResponseBytes = 1 << 20

type payload struct {
	ID           uuid.UUID `json:"id"`
	Timestamp    time.Time `json:"timestamp"`
	Kind         string    `json:"kind"`
	ClientName   string    `json:"clientName"`
	Instance     string    `json:"instance,omitempty"`
	RunSessionID string    `json:"runSessionId,omitempty"`
	SettingName  string    `json:"settingName,omitempty"`
	Message      string    `json:"message,omitempty"`
}

type Sink struct {
	endpoints []string
	client    *http.Client
}

var _ ports.WebhookSink = (*Sink)(nil)

func NewSink(endpoints []string, client *http.Client) *Sink {
	if client == nil {
		client = http.DefaultClient
	}

	return &Sink{endpoints: endpoints, client: client}
}

// Deliver posts the event to every endpoint and joins the failures. A
// sink with no endpoints accepts everything.
func (s *Sink) Deliver(ctx context.Context, event domain.Event) error {
	if len(s.endpoints) == 0 {
		return nil
	}

	body, err := json.Marshal(toPayload(event))
	if err != nil {
		return fmt.Errorf("encode webhook payload: %w", err)
	}

	var deliveryErr error
	for _, endpoint := range s.endpoints {
		if err := s.post(ctx, endpoint, body); err != nil {
			deliveryErr = errors.Join(deliveryErr, err)
		}
	}

	return deliveryErr
}

func (s *Sink) post(ctx context.Context, endpoint string, body []byte) error {
	request, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build webhook request: %w", err)
	}
	request.Header.Set("Content-Type", "application/json")

	response, err := s.client.Do(request)
	if err != nil {
		return fmt.Errorf("post webhook to %s: %w", endpoint, err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, io.LimitReader(response.Body, maxResponseBytes))
		_ = response.Body.Close()
	}()

	if response.StatusCode < 200 || response.StatusCode > 299 {
		return fmt.Errorf("webhook endpoint %s returned status %d", endpoint, response.StatusCode)
	}

	return nil
}

func toPayload(event domain.Event) payload {
	runSessionID := ""
	if event.RunSessionID != uuid.Nil {
		runSessionID = event.RunSessionID.String()
	}

	return payload{
		ID:           event.ID,
		Timestamp:    event.Timestamp,
		Kind:         string(event.Kind),
		ClientName:   event.ClientName,
		Instance:     event.Instance,
		RunSessionID: runSessionID,
		SettingName:  event.SettingName,
		Message:      event.Message,
	}
}
