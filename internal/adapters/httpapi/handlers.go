package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/settingsync/settingsync/internal/application"
	"github.com/settingsync/settingsync/internal/domain"
)

// StatusAPI is the slice of the application layer this adapter needs.
type StatusAPI interface {
	SyncStatus(ctx context.Context, clientName, instance, clientSecret string, request application.StatusRequest, requester application.RequesterDetails) (application.StatusResponse, error)
	SetLiveReload(ctx context.Context, runSessionID uuid.UUID, liveReload bool) error
	RequestRestart(ctx context.Context, runSessionID uuid.UUID) error
	MarkRestartRequired(ctx context.Context, clientName, instance string) (int, error)
	GetAll(ctx context.Context) ([]application.ClientStatus, error)
}

type statusRequestBody struct {
	RunSessionID          uuid.UUID `json:"runSessionId"`
	StartTime             time.Time `json:"startTime"`
	LastSettingUpdate     time.Time `json:"lastSettingUpdate"`
	PollIntervalMs        int64     `json:"pollIntervalMs"`
	HasConfigurationError bool      `json:"hasConfigurationError"`
	ConfigurationErrors   []string  `json:"configurationErrors,omitempty"`
	MemoryUsageBytes      *int64    `json:"memoryUsageBytes,omitempty"`
}

// statusResponseBody keeps changedSettings free of omitempty: null means
// no update available, [] means an update with no attributable names.
type statusResponseBody struct {
	SettingUpdateAvailable bool     `json:"settingUpdateAvailable"`
	PollIntervalMs         int64    `json:"pollIntervalMs"`
	AllowOfflineSettings   bool     `json:"allowOfflineSettings"`
	RestartRequested       bool     `json:"restartRequested"`
	ChangedSettings        []string `json:"changedSettings"`
}

type liveReloadBody struct {
	LiveReload bool `json:"liveReload"`
}

type restartRequiredBody struct {
	SessionsFlagged int `json:"sessionsFlagged"`
}

type runSessionView struct {
	RunSessionID                   uuid.UUID `json:"runSessionId"`
	StartTimeUtc                   time.Time `json:"startTimeUtc"`
	LastSeenUtc                    time.Time `json:"lastSeenUtc"`
	PollIntervalMs                 int64     `json:"pollIntervalMs"`
	LiveReload                     bool      `json:"liveReload"`
	RestartRequested               bool      `json:"restartRequested"`
	RestartRequiredToApplySettings bool      `json:"restartRequiredToApplySettings"`
	HasConfigurationError          bool      `json:"hasConfigurationError"`
	ConfigurationErrors            []string  `json:"configurationErrors,omitempty"`
	RequesterHostname              string    `json:"requesterHostname,omitempty"`
	RequesterIPAddress             string    `json:"requesterIpAddress,omitempty"`
	PossibleMemoryLeakDetected     bool      `json:"possibleMemoryLeakDetected"`
	MemoryTrendBytesPerHour        float64   `json:"memoryTrendBytesPerHour,omitempty"`
}

type clientStatusView struct {
	Name                   string           `json:"name"`
	Instance               string           `json:"instance,omitempty"`
	LastSettingValueUpdate time.Time        `json:"lastSettingValueUpdate"`
	RunSessions            []runSessionView `json:"runSessions"`
}

type errorBody struct {
	Error string `json:"error"`
}

func (s *Server) handleSyncStatus(w http.ResponseWriter, r *http.Request) {
	var body statusRequestBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if body.RunSessionID == uuid.Nil {
		s.writeError(w, http.StatusBadRequest, "runSessionId is required")
		return
	}

	response, err := s.status.SyncStatus(r.Context(),
		r.PathValue("clientName"),
		r.URL.Query().Get("instance"),
		r.Header.Get(secretHeader),
		application.StatusRequest{
			RunSessionID:          body.RunSessionID,
			StartTime:             body.StartTime,
			LastSettingUpdate:     body.LastSettingUpdate,
			PollIntervalMs:        body.PollIntervalMs,
			HasConfigurationError: body.HasConfigurationError,
			ConfigurationErrors:   body.ConfigurationErrors,
			MemoryUsageBytes:      body.MemoryUsageBytes,
		},
		application.RequesterDetails{
			Hostname:  r.Header.Get(machineNameHeader),
			IPAddress: requesterIP(r),
		})
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, statusResponseBody{
		SettingUpdateAvailable: response.SettingUpdateAvailable,
		PollIntervalMs:         response.PollIntervalMs,
		AllowOfflineSettings:   response.AllowOfflineSettings,
		RestartRequested:       response.RestartRequested,
		ChangedSettings:        response.ChangedSettings,
	})
}

func (s *Server) handleGetAll(w http.ResponseWriter, r *http.Request) {
	statuses, err := s.status.GetAll(r.Context())
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	views := make([]clientStatusView, 0, len(statuses))
	for _, status := range statuses {
		views = append(views, toClientStatusView(status))
	}

	s.writeJSON(w, http.StatusOK, views)
}

func (s *Server) handleSetLiveReload(w http.ResponseWriter, r *http.Request) {
	runSessionID, err := uuid.Parse(r.PathValue("runSessionId"))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid run session id")
		return
	}

	var body liveReloadBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := s.status.SetLiveReload(r.Context(), runSessionID, body.LiveReload); err != nil {
		s.writeDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRequestRestart(w http.ResponseWriter, r *http.Request) {
	runSessionID, err := uuid.Parse(r.PathValue("runSessionId"))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid run session id")
		return
	}

	if err := s.status.RequestRestart(r.Context(), runSessionID); err != nil {
		s.writeDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleMarkRestartRequired(w http.ResponseWriter, r *http.Request) {
	flagged, err := s.status.MarkRestartRequired(r.Context(),
		r.PathValue("clientName"),
		r.URL.Query().Get("instance"))
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, restartRequiredBody{SessionsFlagged: flagged})
}

func (s *Server) writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrClientNotFound), errors.Is(err, domain.ErrRunSessionNotFound):
		s.writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		s.writeError(w, http.StatusUnauthorized, "unauthorized")
	default:
		s.logger.Error("request failed", "error", err)
		s.writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func (s *Server) writeError(w http.ResponseWriter, code int, message string) {
	s.writeJSON(w, code, errorBody{Error: message})
}

func (s *Server) writeJSON(w http.ResponseWriter, code int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(value); err != nil {
		s.logger.Error("encode response", "error", err)
	}
}

// requesterIP prefers the forwarded client address when the server sits
// behind a proxy.
func requesterIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		if first, _, ok := strings.Cut(forwarded, ","); ok {
			return strings.TrimSpace(first)
		}
		return strings.TrimSpace(forwarded)
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}

	return host
}

func toClientStatusView(status application.ClientStatus) clientStatusView {
	sessions := make([]runSessionView, 0, len(status.RunSessions))
	for _, session := range status.RunSessions {
		view := runSessionView{
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
		if session.MemoryAnalysis != nil {
			view.PossibleMemoryLeakDetected = session.MemoryAnalysis.PossibleMemoryLeakDetected
			view.MemoryTrendBytesPerHour = session.MemoryAnalysis.TrendLineSlopeBytesPerHour
		}
		sessions = append(sessions, view)
	}

	return clientStatusView{
		Name:                   status.Name,
		Instance:               status.Instance,
		LastSettingValueUpdate: status.LastSettingValueUpdate,
		RunSessions:            sessions,
	}
}
