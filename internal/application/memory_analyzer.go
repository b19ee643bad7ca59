package application

import (
	"time"

	"github.com/settingsync/settingsync/internal/domain"
)

type MemoryAnalyzerConfig struct {
	// MinimumSamples gates analysis until enough data points exist.
	MinimumSamples int
	// SettlingDelay skips the warm-up window after session start so that
	// normal startup allocation is never flagged as a leak.
	SettlingDelay time.Duration
	// CheckInterval bounds analysis cost: a session is re-analyzed at most
	// once per interval, not on every sample.
	CheckInterval time.Duration
	// GrowthThresholdBytesPerHour is the trend-line slope above which
	// sustained growth counts as a possible leak.
	GrowthThresholdBytesPerHour float64
}

// MemoryTrendAnalyzer produces leak verdicts from a session's memory
// sample series. Analyze is deterministic for a fixed sample sequence and
// evaluation time.
type MemoryTrendAnalyzer struct {
	cfg MemoryAnalyzerConfig
}

func NewMemoryTrendAnalyzer(cfg MemoryAnalyzerConfig) *MemoryTrendAnalyzer {
	return &MemoryTrendAnalyzer{cfg: cfg}
}

// Analyze returns nil while the session is ineligible: too few samples,
// still inside the settling delay, or checked too recently. Eligible
// sessions get a least-squares trend over the full sample series plus
// leading/trailing averages; a leak verdict requires both a slope above
// the configured threshold and an ending average above the starting one.
func (a *MemoryTrendAnalyzer) Analyze(session domain.RunSession, now time.Time) *domain.MemoryAnalysis {
	samples := session.MemorySamples
	if len(samples) < a.cfg.MinimumSamples {
		return nil
	}
	if now.Sub(session.StartTimeUtc) < a.cfg.SettlingDelay {
		return nil
	}
	if !session.LastMemoryCheckUtc.IsZero() && now.Sub(session.LastMemoryCheckUtc) < a.cfg.CheckInterval {
		return nil
	}

	slope := trendLineSlopeBytesPerHour(samples)
	startAvg := averageBytes(samples[:edgeWindow(len(samples))])
	endAvg := averageBytes(samples[len(samples)-edgeWindow(len(samples)):])

	return &domain.MemoryAnalysis{
		PossibleMemoryLeakDetected: slope > a.cfg.GrowthThresholdBytesPerHour && endAvg > startAvg,
		StartingAverageBytes:       startAvg,
		EndingAverageBytes:         endAvg,
		TrendLineSlopeBytesPerHour: slope,
		SampleCount:                len(samples),
		AnalyzedAt:                 now,
	}
}

// edgeWindow sizes the leading/trailing average windows at a third of the
// series, at least one sample.
func edgeWindow(sampleCount int) int {
	window := sampleCount / 3
	if window < 1 {
		window = 1
	}

	return window
}

func averageBytes(samples []domain.MemorySample) int64 {
	if len(samples) == 0 {
		return 0
	}

	var total int64
	for _, sample := range samples {
		total += sample.UsageBytes
	}

	return total / int64(len(samples))
}

// trendLineSlopeBytesPerHour fits usage = a + b*t by least squares, with t
// in hours relative to the first sample, and returns b.
func trendLineSlopeBytesPerHour(samples []domain.MemorySample) float64 {
	if len(samples) < 2 {
		return 0
	}

	origin := samples[0].TakenAt
	n := float64(len(samples))

	var sumT, sumY, sumTY, sumTT float64
	for _, sample := range samples {
		t := sample.TakenAt.Sub(origin).Hours()
		y := float64(sample.UsageBytes)
		sumT += t
		sumY += y
		sumTY += t * y
		sumTT += t * t
	}

	denominator := n*sumTT - sumT*sumT
	if denominator == 0 {
		return 0
	}

	return (n*sumTY - sumT*sumY) / denominator
}
