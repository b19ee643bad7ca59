package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/settingsync/settingsync/internal/application"
	"github.com/settingsync/settingsync/internal/domain"
)

const defaultClientTimeout = 10 * time.Second

// Client talks to a running server's administrative endpoints. The CLI
// uses it so session commands act on the daemon's registry instead of a
// fresh in-process one.
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: defaultClientTimeout},
	}
}

// Statuses fetches every client definition with live run sessions.
func (c *Client) Statuses(ctx context.Context) ([]application.ClientStatus, error) {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/statuses", nil)
	if err != nil {
		return nil, fmt.Errorf("build statuses request: %w", err)
	}

	response, err := c.http.Do(request)
	if err != nil {
		return nil, fmt.Errorf("fetch statuses: %w", err)
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return nil, c.responseError(response, domain.ErrClientNotFound)
	}

	var views []clientStatusView
	if err := json.NewDecoder(response.Body).Decode(&views); err != nil {
		return nil, fmt.Errorf("decode statuses response: %w", err)
	}

	statuses := make([]application.ClientStatus, 0, len(views))
	for _, view := range views {
		statuses = append(statuses, fromClientStatusView(view))
	}

	return statuses, nil
}

// SetLiveReload toggles update notifications for one run session on the
// server.
func (c *Client) SetLiveReload(ctx context.Context, runSessionID uuid.UUID, liveReload bool) error {
	body, err := json.Marshal(liveReloadBody{LiveReload: liveReload})
	if err != nil {
		return fmt.Errorf("encode live reload request: %w", err)
	}

	response, err := c.put(ctx, "/sessions/"+runSessionID.String()+"/live-reload", body)
	if err != nil {
		return fmt.Errorf("set live reload: %w", err)
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusNoContent {
		return c.responseError(response, domain.ErrRunSessionNotFound)
	}

	return nil
}

// RequestRestart flags one run session for restart on the server.
func (c *Client) RequestRestart(ctx context.Context, runSessionID uuid.UUID) error {
	response, err := c.put(ctx, "/sessions/"+runSessionID.String()+"/restart", nil)
	if err != nil {
		return fmt.Errorf("request restart: %w", err)
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusNoContent {
		return c.responseError(response, domain.ErrRunSessionNotFound)
	}

	return nil
}

// MarkRestartRequired flags every run session of a client definition and
// returns how many sessions the server flagged.
func (c *Client) MarkRestartRequired(ctx context.Context, clientName, instance string) (int, error) {
	path := "/clients/" + url.PathEscape(clientName) + "/restart-required"
	if instance != "" {
		path += "?instance=" + url.QueryEscape(instance)
	}

	response, err := c.put(ctx, path, nil)
	if err != nil {
		return 0, fmt.Errorf("mark restart required: %w", err)
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return 0, c.responseError(response, domain.ErrClientNotFound)
	}

	var body restartRequiredBody
	if err := json.NewDecoder(response.Body).Decode(&body); err != nil {
		return 0, fmt.Errorf("decode restart required response: %w", err)
	}

	return body.SessionsFlagged, nil
}

func (c *Client) put(ctx context.Context, path string, body []byte) (*http.Response, error) {
	request, err := http.NewRequestWithContext(ctx, http.MethodPut, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	if body != nil {
		request.Header.Set("Content-Type", "application/json")
	}

	return c.http.Do(request)
}

// responseError maps the server's status codes back onto the domain
// sentinels so CLI error handling matches the in-process service.
func (c *Client) responseError(response *http.Response, notFound error) error {
	var body errorBody
	message := ""
	if raw, err := io.ReadAll(io.LimitReader(response.Body, 4096)); err == nil {
		if json.Unmarshal(raw, &body) == nil {
			message = body.Error
		}
	}

	switch response.StatusCode {
	case http.StatusNotFound:
		return notFound
	case http.StatusUnauthorized:
		return domain.ErrUnauthorized
	default:
		if message == "" {
			message = response.Status
		}
		return fmt.Errorf("server responded %d: %s", response.StatusCode, message)
	}
}

func fromClientStatusView(view clientStatusView) application.ClientStatus {
	sessions := make([]domain.RunSession, 0, len(view.RunSessions))
	for _, session := range view.RunSessions {
		mapped := domain.RunSession{
			RunSessionID:                   session.RunSessionID,
			StartTimeUtc:                   session.StartTimeUtc,
			LastSeenUtc:                    session.LastSeenUtc,
			PollIntervalMs:                 session.PollIntervalMs,
			LiveReload:                     session.LiveReload,
			RestartRequested:               session.RestartRequested,
			RestartRequiredToApplySettings: session.RestartRequiredToApplySettings,
			HasConfigurationError:          session.HasConfigurationError,
			ConfigurationErrors:            session.ConfigurationErrors,
			RequesterHostname:              session.RequesterHostname,
			RequesterIPAddress:             session.RequesterIPAddress,
		}
		if session.PossibleMemoryLeakDetected || session.MemoryTrendBytesPerHour != 0 {
			mapped.MemoryAnalysis = &domain.MemoryAnalysis{
				PossibleMemoryLeakDetected: session.PossibleMemoryLeakDetected,
				TrendLineSlopeBytesPerHour: session.MemoryTrendBytesPerHour,
			}
		}
		sessions = append(sessions, mapped)
	}

	return application.ClientStatus{
		Name:                   view.Name,
		Instance:               view.Instance,
		LastSettingValueUpdate: view.LastSettingValueUpdate,
		RunSessions:            sessions,
	}
}
