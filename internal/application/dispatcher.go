package application

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/settingsync/settingsync/internal/domain"
	"github.com/settingsync/settingsync/internal/ports"
)

const defaultDeliveryTimeout = 10 * time.Second

type DispatcherConfig struct {
	QueueSize       int
	DeliveryTimeout time.Duration
}

// EventDispatcher turns lifecycle transitions into audit entries and
// webhook deliveries. Audit writes are synchronous and their failure
// propagates to the caller; webhook delivery runs on a separate worker
// fed by a bounded queue, so a slow or failing endpoint can never stall
// or fail a poll.
type EventDispatcher struct {
	events    ports.EventLog
	sink      ports.WebhookSink
	clock     ports.Clock
	logger    *slog.Logger
	cfg       DispatcherConfig
	queue     chan domain.Event
	wg        sync.WaitGroup
	closeOnce sync.Once
}

func NewEventDispatcher(events ports.EventLog, sink ports.WebhookSink, clock ports.Clock, logger *slog.Logger, cfg DispatcherConfig) *EventDispatcher {
	if clock == nil {
		clock = ports.SystemClock{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 256
	}
	if cfg.DeliveryTimeout <= 0 {
		cfg.DeliveryTimeout = defaultDeliveryTimeout
	}

	return &EventDispatcher{
		events: events,
		sink:   sink,
		clock:  clock,
		logger: logger,
		cfg:    cfg,
		queue:  make(chan domain.Event, cfg.QueueSize),
	}
}

// Start launches the webhook delivery worker.
func (d *EventDispatcher) Start() {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		for event := range d.queue {
			d.deliver(event)
		}
	}()
}

// Close stops accepting events and drains the queue.
func (d *EventDispatcher) Close() {
	d.closeOnce.Do(func() {
		close(d.queue)
	})
	d.wg.Wait()
}

func (d *EventDispatcher) deliver(event domain.Event) {
	ctx, cancel := context.WithTimeout(context.Background(), d.cfg.DeliveryTimeout)
	defer cancel()

	if err := d.sink.Deliver(ctx, event); err != nil {
		d.logger.Warn("webhook delivery failed",
			"kind", event.Kind,
			"client", event.ClientName,
			"run_session_id", event.RunSessionID,
			"error", err)
	}
}

func (d *EventDispatcher) enqueue(event domain.Event) {
	select {
	case d.queue <- event:
	default:
		d.logger.Warn("webhook queue full, dropping event",
			"kind", event.Kind,
			"client", event.ClientName)
	}
}

func (d *EventDispatcher) newEvent(kind domain.EventKind, def domain.ClientDefinition, session domain.RunSession, message string) domain.Event {
	return domain.Event{
		ID:           uuid.New(),
		Timestamp:    d.clock.Now(),
		Kind:         kind,
		ClientName:   def.Name,
		Instance:     def.Instance,
		RunSessionID: session.RunSessionID,
		Message:      message,
	}
}

func (d *EventDispatcher) SessionCreated(ctx context.Context, def domain.ClientDefinition, session domain.RunSession) error {
	event := d.newEvent(domain.EventNewRunSession, def, session,
		fmt.Sprintf("new run session from %s", session.RequesterHostname))
	if err := d.events.Append(ctx, event); err != nil {
		return fmt.Errorf("append new session event: %w", err)
	}

	connected := event
	connected.ID = uuid.New()
	connected.Kind = domain.EventClientConnected
	d.enqueue(connected)

	return nil
}

func (d *EventDispatcher) SessionExpired(ctx context.Context, def domain.ClientDefinition, session domain.RunSession) error {
	event := d.newEvent(domain.EventRunSessionExpired, def, session,
		fmt.Sprintf("run session expired, last seen %s", session.LastSeenUtc.Format(time.RFC3339)))
	if err := d.events.Append(ctx, event); err != nil {
		return fmt.Errorf("append expired session event: %w", err)
	}

	disconnected := event
	disconnected.ID = uuid.New()
	disconnected.Kind = domain.EventClientDisconnected
	d.enqueue(disconnected)

	return nil
}

// ConfigurationErrorChanged records the status flip plus one audit entry
// per reported configuration error, then notifies the webhook layer once.
func (d *EventDispatcher) ConfigurationErrorChanged(ctx context.Context, def domain.ClientDefinition, session domain.RunSession) error {
	event := d.newEvent(domain.EventConfigurationErrorChanged, def, session,
		fmt.Sprintf("configuration error: %t", session.HasConfigurationError))
	if err := d.events.Append(ctx, event); err != nil {
		return fmt.Errorf("append configuration error status event: %w", err)
	}

	for _, configurationError := range session.ConfigurationErrors {
		detail := d.newEvent(domain.EventConfigurationError, def, session, configurationError)
		if err := d.events.Append(ctx, detail); err != nil {
			return fmt.Errorf("append configuration error event: %w", err)
		}
	}

	d.enqueue(event)

	return nil
}

func (d *EventDispatcher) MemoryLeakDetected(ctx context.Context, def domain.ClientDefinition, session domain.RunSession) error {
	message := "possible memory leak detected"
	if session.MemoryAnalysis != nil {
		message = fmt.Sprintf("possible memory leak detected, trend %0.f bytes/hour over %d samples",
			session.MemoryAnalysis.TrendLineSlopeBytesPerHour, session.MemoryAnalysis.SampleCount)
	}

	event := d.newEvent(domain.EventPossibleMemoryLeak, def, session, message)
	if err := d.events.Append(ctx, event); err != nil {
		return fmt.Errorf("append memory leak event: %w", err)
	}

	d.enqueue(event)

	return nil
}

func (d *EventDispatcher) LiveReloadChanged(ctx context.Context, key domain.ClientKey, session domain.RunSession, previous bool) error {
	def := domain.ClientDefinition{Name: key.Name, Instance: key.Instance}
	event := d.newEvent(domain.EventLiveReloadChanged, def, session,
		fmt.Sprintf("live reload changed %t -> %t", previous, session.LiveReload))
	if err := d.events.Append(ctx, event); err != nil {
		return fmt.Errorf("append live reload event: %w", err)
	}

	d.enqueue(event)

	return nil
}

func (d *EventDispatcher) RestartRequested(ctx context.Context, key domain.ClientKey, session domain.RunSession) error {
	def := domain.ClientDefinition{Name: key.Name, Instance: key.Instance}
	event := d.newEvent(domain.EventRestartRequested, def, session, "restart requested")
	if err := d.events.Append(ctx, event); err != nil {
		return fmt.Errorf("append restart requested event: %w", err)
	}

	d.enqueue(event)

	return nil
}
