package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/settingsync/settingsync/internal/domain"
	"github.com/settingsync/settingsync/internal/ports"
)

type StatusConfig struct {
	// PollIntervalOverrideMs replaces every session's own poll interval in
	// responses when set.
	PollIntervalOverrideMs *int64
	AllowOfflineSettings   bool
	// ExpiryGraceMultiplier scales a session's poll interval into its
	// expiry threshold. Must be above 1 to tolerate poll jitter.
	ExpiryGraceMultiplier float64
	AnalyzeMemoryUsage    bool
	MemorySampleRetention int
}

// StatusService synchronizes run-session state with polling clients:
// session lifecycle, change detection, memory-trend analysis and the
// administrative mutators.
type StatusService struct {
	directory  ports.ClientDirectory
	registry   ports.SessionRegistry
	dispatcher *EventDispatcher
	detector   *ChangeDetector
	analyzer   *MemoryTrendAnalyzer
	cfg        StatusConfig
	clock      ports.Clock
	logger     *slog.Logger
}

func NewStatusService(
	directory ports.ClientDirectory,
	registry ports.SessionRegistry,
	dispatcher *EventDispatcher,
	detector *ChangeDetector,
	analyzer *MemoryTrendAnalyzer,
	cfg StatusConfig,
	clock ports.Clock,
	logger *slog.Logger,
) *StatusService {
	if clock == nil {
		clock = ports.SystemClock{}
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &StatusService{
		directory:  directory,
		registry:   registry,
		dispatcher: dispatcher,
		detector:   detector,
		analyzer:   analyzer,
		cfg:        cfg,
		clock:      clock,
		logger:     logger,
	}
}

// SyncStatus handles one poll: reaps expired sessions of the client
// definition, updates or creates the polling session, runs memory
// analysis, and answers whether a settings update is waiting. The secret
// check happens before any mutation.
func (s *StatusService) SyncStatus(ctx context.Context, clientName, instance, clientSecret string, request StatusRequest, requester RequesterDetails) (StatusResponse, error) {
	def, err := s.lookupClient(ctx, clientName, instance)
	if err != nil {
		return StatusResponse{}, err
	}
	if !def.VerifySecret(clientSecret) {
		return StatusResponse{}, domain.ErrUnauthorized
	}

	now := s.clock.Now()

	var (
		expired            []domain.RunSession
		created            bool
		configErrorChanged bool
		leakDetected       bool
		current            domain.RunSession
	)

	err = s.registry.Update(ctx, def.Key(), func(sessions []domain.RunSession) ([]domain.RunSession, error) {
		var kept []domain.RunSession
		kept, expired = reapExpired(sessions, now, s.cfg.ExpiryGraceMultiplier)

		index := -1
		for i := range kept {
			if kept[i].RunSessionID == request.RunSessionID {
				index = i
				break
			}
		}

		if index >= 0 {
			session := kept[index]
			if session.HasConfigurationError != request.HasConfigurationError {
				configErrorChanged = true
			}
			s.applyRequest(&session, request, requester, now)
			kept[index] = session
		} else {
			session := domain.RunSession{
				RunSessionID: request.RunSessionID,
				StartTimeUtc: request.StartTime,
				LiveReload:   true,
				// Assume the client loaded settings on startup.
				LastSettingLoadUtc: now,
			}
			s.applyRequest(&session, request, requester, now)
			kept = append(kept, session)
			index = len(kept) - 1
			created = true
			if request.HasConfigurationError {
				configErrorChanged = true
			}
		}

		if s.cfg.AnalyzeMemoryUsage {
			session := kept[index]
			if analysis := s.analyzer.Analyze(session, now); analysis != nil {
				previous := session.MemoryAnalysis
				session.MemoryAnalysis = analysis
				session.LastMemoryCheckUtc = now
				leakDetected = analysis.PossibleMemoryLeakDetected &&
					(previous == nil || !previous.PossibleMemoryLeakDetected)
				kept[index] = session
			}
		}

		current = kept[index]
		return kept, nil
	})
	if err != nil {
		return StatusResponse{}, fmt.Errorf("update run sessions: %w", err)
	}

	for _, session := range expired {
		s.logger.Info("removing expired run session",
			"client", def.Key().String(), "run_session_id", session.RunSessionID)
		if err := s.dispatcher.SessionExpired(ctx, def, session); err != nil {
			return StatusResponse{}, err
		}
	}
	if created {
		s.logger.Info("creating new run session",
			"client", def.Key().String(),
			"run_session_id", request.RunSessionID,
			"start_time", request.StartTime)
		if err := s.dispatcher.SessionCreated(ctx, def, current); err != nil {
			return StatusResponse{}, err
		}
	}
	if configErrorChanged {
		if err := s.dispatcher.ConfigurationErrorChanged(ctx, def, current); err != nil {
			return StatusResponse{}, err
		}
	}
	if leakDetected {
		if err := s.dispatcher.MemoryLeakDetected(ctx, def, current); err != nil {
			return StatusResponse{}, err
		}
	}

	updateAvailable := current.LiveReload && def.LastSettingValueUpdate.After(request.LastSettingUpdate)

	var changed []string
	if updateAvailable {
		// The 1s pad on each side absorbs clock skew between the polling
		// client and the server.
		changed, err = s.detector.ChangedSettingNames(ctx,
			request.LastSettingUpdate.Add(-time.Second),
			def.LastSettingValueUpdate.Add(time.Second),
			def.Name, def.Instance)
		if err != nil {
			return StatusResponse{}, err
		}
	}

	pollIntervalMs := current.PollIntervalMs
	if s.cfg.PollIntervalOverrideMs != nil {
		pollIntervalMs = *s.cfg.PollIntervalOverrideMs
	}

	return StatusResponse{
		SettingUpdateAvailable: updateAvailable,
		PollIntervalMs:         pollIntervalMs,
		AllowOfflineSettings:   s.cfg.AllowOfflineSettings,
		RestartRequested:       current.RestartRequested,
		ChangedSettings:        changed,
	}, nil
}

// SetLiveReload toggles update notifications for one run session and
// records the previous value in the audit log.
func (s *StatusService) SetLiveReload(ctx context.Context, runSessionID uuid.UUID, liveReload bool) error {
	var previous bool
	key, session, err := s.registry.UpdateSession(ctx, runSessionID, func(session *domain.RunSession) error {
		previous = session.LiveReload
		session.LiveReload = liveReload
		return nil
	})
	if err != nil {
		return fmt.Errorf("set live reload: %w", err)
	}

	return s.dispatcher.LiveReloadChanged(ctx, key, session, previous)
}

// RequestRestart flags one run session for restart; the flag persists
// until the session expires.
func (s *StatusService) RequestRestart(ctx context.Context, runSessionID uuid.UUID) error {
	key, session, err := s.registry.UpdateSession(ctx, runSessionID, func(session *domain.RunSession) error {
		session.RestartRequested = true
		return nil
	})
	if err != nil {
		return fmt.Errorf("request restart: %w", err)
	}

	return s.dispatcher.RestartRequested(ctx, key, session)
}

// MarkRestartRequired flags every run session of a client definition as
// needing a restart to apply settings, and reports how many sessions were
// flagged so callers can surface a no-op.
func (s *StatusService) MarkRestartRequired(ctx context.Context, clientName, instance string) (int, error) {
	def, err := s.directory.Get(ctx, clientName, instance)
	if err != nil {
		return 0, fmt.Errorf("lookup client %q: %w", clientName, err)
	}

	flagged := 0
	err = s.registry.Update(ctx, def.Key(), func(sessions []domain.RunSession) ([]domain.RunSession, error) {
		for i := range sessions {
			sessions[i].RestartRequiredToApplySettings = true
		}
		flagged = len(sessions)
		return sessions, nil
	})
	if err != nil {
		return 0, fmt.Errorf("mark restart required: %w", err)
	}

	return flagged, nil
}

// GetAll returns every client definition with at least one live run
// session. Expired sessions are filtered from the view; reaping them is
// the poll path's and the sweep's job.
func (s *StatusService) GetAll(ctx context.Context) ([]ClientStatus, error) {
	defs, err := s.directory.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}

	now := s.clock.Now()
	statuses := make([]ClientStatus, 0, len(defs))
	for _, def := range defs {
		sessions, err := s.registry.Sessions(ctx, def.Key())
		if err != nil {
			return nil, fmt.Errorf("list run sessions for %q: %w", def.Key().String(), err)
		}

		live := make([]domain.RunSession, 0, len(sessions))
		for _, session := range sessions {
			if session.IsExpired(now, s.cfg.ExpiryGraceMultiplier) {
				continue
			}
			live = append(live, session)
		}
		if len(live) == 0 {
			continue
		}

		statuses = append(statuses, ClientStatus{
			Name:                   def.Name,
			Instance:               def.Instance,
			LastSettingValueUpdate: def.LastSettingValueUpdate,
			RunSessions:            live,
		})
	}

	return statuses, nil
}

// ExpireStaleSessions reaps expired sessions of every client definition,
// covering clients that never poll again. Safe to run repeatedly.
func (s *StatusService) ExpireStaleSessions(ctx context.Context) error {
	defs, err := s.directory.List(ctx)
	if err != nil {
		return fmt.Errorf("list clients: %w", err)
	}

	for _, def := range defs {
		now := s.clock.Now()

		var expired []domain.RunSession
		err := s.registry.Update(ctx, def.Key(), func(sessions []domain.RunSession) ([]domain.RunSession, error) {
			var kept []domain.RunSession
			kept, expired = reapExpired(sessions, now, s.cfg.ExpiryGraceMultiplier)
			return kept, nil
		})
		if err != nil {
			return fmt.Errorf("reap run sessions for %q: %w", def.Key().String(), err)
		}

		for _, session := range expired {
			s.logger.Info("removing expired run session",
				"client", def.Key().String(), "run_session_id", session.RunSessionID)
			if err := s.dispatcher.SessionExpired(ctx, def, session); err != nil {
				return err
			}
		}
	}

	return nil
}

func (s *StatusService) lookupClient(ctx context.Context, name, instance string) (domain.ClientDefinition, error) {
	def, err := s.directory.Get(ctx, name, instance)
	if errors.Is(err, domain.ErrClientNotFound) && instance != "" {
		// Fall back to the instance-less definition.
		def, err = s.directory.Get(ctx, name, "")
	}
	if err != nil {
		return domain.ClientDefinition{}, fmt.Errorf("lookup client %q: %w", name, err)
	}

	return def, nil
}

func (s *StatusService) applyRequest(session *domain.RunSession, request StatusRequest, requester RequesterDetails, now time.Time) {
	session.LastSeenUtc = now
	session.PollIntervalMs = request.PollIntervalMs
	session.HasConfigurationError = request.HasConfigurationError
	session.ConfigurationErrors = append([]string(nil), request.ConfigurationErrors...)
	session.RequesterHostname = requester.Hostname
	session.RequesterIPAddress = requester.IPAddress
	if request.MemoryUsageBytes != nil {
		session.RecordMemorySample(now, *request.MemoryUsageBytes, s.cfg.MemorySampleRetention)
	}
}

func reapExpired(sessions []domain.RunSession, now time.Time, graceMultiplier float64) (kept, expired []domain.RunSession) {
	kept = make([]domain.RunSession, 0, len(sessions))
	for _, session := range sessions {
		if session.IsExpired(now, graceMultiplier) {
			expired = append(expired, session)
			continue
		}
		kept = append(kept, session)
	}

	return kept, expired
}
