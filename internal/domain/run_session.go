package domain

import (
	"time"

	"github.com/google/uuid"
)

// DefaultPollInterval covers sessions that never reported a usable poll
// interval; expiry math still needs a baseline for them.
const DefaultPollInterval = 30 * time.Second

type MemorySample struct {
	TakenAt    time.Time
	UsageBytes int64
}

// MemoryAnalysis is the last leak verdict computed for a run session,
// along with the trend statistics that justify it.
type MemoryAnalysis struct {
	PossibleMemoryLeakDetected bool
	StartingAverageBytes       int64
	EndingAverageBytes         int64
	TrendLineSlopeBytesPerHour float64
	SampleCount                int
	AnalyzedAt                 time.Time
}

// RunSession is one live process instance of a client definition. The id
// is generated by the reporting client and is immutable once created.
type RunSession struct {
	RunSessionID                   uuid.UUID
	StartTimeUtc                   time.Time
	LastSeenUtc                    time.Time
	LastSettingLoadUtc             time.Time
	PollIntervalMs                 int64
	LiveReload                     bool
	RestartRequested               bool
	RestartRequiredToApplySettings bool
	HasConfigurationError          bool
	ConfigurationErrors            []string
	RequesterHostname              string
	RequesterIPAddress             string
	MemorySamples                  []MemorySample
	MemoryAnalysis                 *MemoryAnalysis
	LastMemoryCheckUtc             time.Time
}

func (s RunSession) PollInterval() time.Duration {
	if s.PollIntervalMs <= 0 {
		return DefaultPollInterval
	}

	return time.Duration(s.PollIntervalMs) * time.Millisecond
}

// IsExpired reports whether the session has gone quiet for longer than the
// grace threshold. The multiplier must stay above 1 to tolerate poll
// jitter; anything at or below that is coerced to the minimum useful
// value.
func (s RunSession) IsExpired(now time.Time, graceMultiplier float64) bool {
	if graceMultiplier <= 1 {
		graceMultiplier = 2
	}

	threshold := time.Duration(float64(s.PollInterval()) * graceMultiplier)
	return now.Sub(s.LastSeenUtc) > threshold
}

// RecordMemorySample appends a sample and trims the oldest entries beyond
// the retention bound. A non-positive retention keeps everything.
func (s *RunSession) RecordMemorySample(takenAt time.Time, usageBytes int64, retention int) {
	s.MemorySamples = append(s.MemorySamples, MemorySample{TakenAt: takenAt, UsageBytes: usageBytes})

	if retention > 0 && len(s.MemorySamples) > retention {
		overflow := len(s.MemorySamples) - retention
		s.MemorySamples = append(s.MemorySamples[:0:0], s.MemorySamples[overflow:]...)
	}
}
