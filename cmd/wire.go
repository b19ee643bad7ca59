package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/settingsync/settingsync/internal/adapters/httpapi"
	sessionsrender "github.com/settingsync/settingsync/internal/adapters/render/sessions"
	"github.com/settingsync/settingsync/internal/adapters/registry"
	tomlrepo "github.com/settingsync/settingsync/internal/adapters/repo/toml"
	"github.com/settingsync/settingsync/internal/adapters/webhook"
	"github.com/settingsync/settingsync/internal/application"
	"github.com/settingsync/settingsync/internal/ports"
	"github.com/spf13/viper"
)

// app is the composition root. status operates on this process's own
// registry and backs the serve command; api reaches the daemon's
// registry over HTTP and backs the administrative session commands.
type app struct {
	status          *application.StatusService
	api             *httpapi.Client
	dispatcher      *application.EventDispatcher
	directory       ports.ClientDirectory
	events          ports.EventLog
	sessionRenderer func([]application.ClientStatus, sessionsrender.RenderOptions) (string, error)
	listenAddr      string
	sweepInterval   time.Duration
	logger          *slog.Logger
	now             func() time.Time
}

func wireApp() (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	logger := newLogger(cfg)

	directory, err := tomlrepo.NewDirectory(cfg)
	if err != nil {
		return nil, fmt.Errorf("wire client directory: %w", err)
	}

	events, err := tomlrepo.NewEventLog(cfg)
	if err != nil {
		return nil, fmt.Errorf("wire audit event log: %w", err)
	}

	webhookTimeout := time.Duration(cfg.GetInt64("webhooks.timeout_ms")) * time.Millisecond
	sink := webhook.NewSink(cfg.GetStringSlice("webhooks.endpoints"), &http.Client{
		Timeout: webhookTimeout,
	})

	dispatcher := application.NewEventDispatcher(events, sink, ports.SystemClock{}, logger, application.DispatcherConfig{
		QueueSize:       cfg.GetInt("webhooks.queue_size"),
		DeliveryTimeout: webhookTimeout,
	})

	analyzer := application.NewMemoryTrendAnalyzer(application.MemoryAnalyzerConfig{
		MinimumSamples:              cfg.GetInt("memory.minimum_samples"),
		SettlingDelay:               time.Duration(cfg.GetInt64("memory.settling_delay_ms")) * time.Millisecond,
		CheckInterval:               time.Duration(cfg.GetInt64("memory.check_interval_ms")) * time.Millisecond,
		GrowthThresholdBytesPerHour: cfg.GetFloat64("memory.growth_threshold_bytes_per_hour"),
	})

	statusCfg := application.StatusConfig{
		AllowOfflineSettings:  cfg.GetBool("server.allow_offline_settings"),
		ExpiryGraceMultiplier: cfg.GetFloat64("sessions.expiry_grace_multiplier"),
		AnalyzeMemoryUsage:    cfg.GetBool("memory.analyze"),
		MemorySampleRetention: cfg.GetInt("memory.sample_retention"),
	}
	if override := cfg.GetInt64("server.poll_interval_override_ms"); override > 0 {
		statusCfg.PollIntervalOverrideMs = &override
	}

	status := application.NewStatusService(
		directory,
		registry.New(),
		dispatcher,
		application.NewChangeDetector(events),
		analyzer,
		statusCfg,
		ports.SystemClock{},
		logger,
	)

	return &app{
		status:          status,
		api:             httpapi.NewClient(cfg.GetString("server.admin_url")),
		dispatcher:      dispatcher,
		directory:       directory,
		events:          events,
		sessionRenderer: sessionsrender.Render,
		listenAddr:      cfg.GetString("server.listen_addr"),
		sweepInterval:   time.Duration(cfg.GetInt64("sessions.sweep_interval_ms")) * time.Millisecond,
		logger:          logger,
		now:             time.Now,
	}, nil
}

func loadConfig() (*viper.Viper, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolve home directory: %w", err)
	}

	cfg := viper.New()
	cfg.SetConfigName("config")
	cfg.SetConfigType("toml")
	cfg.AddConfigPath(filepath.Join(homeDir, ".settingsync"))

	cfg.SetDefault("log.level", "info")
	cfg.SetDefault("server.listen_addr", "127.0.0.1:9090")
	cfg.SetDefault("server.admin_url", "http://127.0.0.1:9090")
	cfg.SetDefault("server.poll_interval_override_ms", 0)
	cfg.SetDefault("server.allow_offline_settings", true)
	cfg.SetDefault("sessions.expiry_grace_multiplier", 3.0)
	cfg.SetDefault("sessions.sweep_interval_ms", 30_000)
	cfg.SetDefault("memory.analyze", false)
	cfg.SetDefault("memory.minimum_samples", 40)
	cfg.SetDefault("memory.settling_delay_ms", 600_000)
	cfg.SetDefault("memory.check_interval_ms", 300_000)
	cfg.SetDefault("memory.growth_threshold_bytes_per_hour", 50*1024*1024)
	cfg.SetDefault("memory.sample_retention", 200)
	cfg.SetDefault("webhooks.endpoints", []string{})
	cfg.SetDefault("webhooks.timeout_ms", 10_000)
	cfg.SetDefault("webhooks.queue_size", 256)

	if err := cfg.ReadInConfig(); err != nil {
		var configNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &configNotFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	return cfg, nil
}

func newLogger(cfg *viper.Viper) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.GetString("log.level"))); err != nil {
		level = slog.LevelInfo
	}

	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
