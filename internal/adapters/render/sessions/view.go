package sessions

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/settingsync/settingsync/internal/application"
	"github.com/settingsync/settingsync/internal/domain"
)

type RenderOptions struct {
	Now time.Time
}

func renderView(statuses []application.ClientStatus, opts RenderOptions, s styles) string {
	lines := []string{
		s.title.Render("Connected Clients"),
		s.header.Render(fmt.Sprintf("clients: %d", len(statuses))),
	}

	if len(statuses) == 0 {
		lines = append(lines, s.empty.Render("No clients are currently polling."))
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}

	for _, status := range statuses {
		lines = append(lines, s.section.Render(renderClient(status, opts, s)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func renderClient(status application.ClientStatus, opts RenderOptions, s styles) string {
	parts := []string{
		s.client.Render(clientTitle(status)),
	}

	for _, session := range status.RunSessions {
		parts = append(parts, sessionLine(session, opts, s))
		if flags := flagLine(session, s); flags != "" {
			parts = append(parts, "    "+flags)
		}
	}

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func clientTitle(status application.ClientStatus) string {
	suffix := "sessions"
	if len(status.RunSessions) == 1 {
		suffix = "session"
	}

	if status.Instance != "" {
		return fmt.Sprintf("%s [%s] (%d %s)", status.Name, status.Instance, len(status.RunSessions), suffix)
	}

	return fmt.Sprintf("%s (%d %s)", status.Name, len(status.RunSessions), suffix)
}

func sessionLine(session domain.RunSession, opts RenderOptions, s styles) string {
	id := session.RunSessionID.String()
	if len(id) > 8 {
		id = id[:8]
	}

	host := session.RequesterHostname
	if host == "" {
		host = "unknown host"
	}

	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		"  ",
		s.session.Render(id),
		" ",
		s.detail.Render(fmt.Sprintf("on %s, polling every %s, last seen %s",
			host,
			session.PollInterval(),
			formatLastSeen(session.LastSeenUtc, opts.Now))),
	)
}

// flagLine collects the states an operator acts on. A healthy session
// renders nothing here.
func flagLine(session domain.RunSession, s styles) string {
	var flags []string
	if !session.LiveReload {
		flags = append(flags, s.detail.Render("[live reload off]"))
	}
	if session.RestartRequested {
		flags = append(flags, s.warning.Render("[restart requested]"))
	}
	if session.RestartRequiredToApplySettings {
		flags = append(flags, s.warning.Render("[restart required]"))
	}
	if session.HasConfigurationError {
		flags = append(flags, s.warning.Render("[configuration error]"))
	}
	if session.MemoryAnalysis != nil && session.MemoryAnalysis.PossibleMemoryLeakDetected {
		flags = append(flags, s.warning.Render(fmt.Sprintf("[possible memory leak: %s/hour]",
			formatBytes(session.MemoryAnalysis.TrendLineSlopeBytesPerHour))))
	}

	return strings.Join(flags, " ")
}

func formatLastSeen(lastSeen, now time.Time) string {
	if lastSeen.IsZero() {
		return "never"
	}
	if now.IsZero() {
		return lastSeen.Format(time.RFC3339)
	}

	elapsed := now.Sub(lastSeen)
	switch {
	case elapsed < time.Second:
		return "just now"
	case elapsed < time.Minute:
		return fmt.Sprintf("%ds ago", int(elapsed.Seconds()))
	case elapsed < time.Hour:
		return fmt.Sprintf("%dm ago", int(elapsed.Minutes()))
	default:
		return fmt.Sprintf("%dh ago", int(elapsed.Hours()))
	}
}

func formatBytes(bytesPerHour float64) string {
	abs := math.Abs(bytesPerHour)
	switch {
	case abs >= 1<<30:
		return fmt.Sprintf("%.1f GiB", bytesPerHour/(1<<30))
	case abs >= 1<<20:
		return fmt.Sprintf("%.1f MiB", bytesPerHour/(1<<20))
	case abs >= 1<<10:
		return fmt.Sprintf("%.1f KiB", bytesPerHour/(1<<10))
	default:
		return fmt.Sprintf("%.0f B", bytesPerHour)
	}
}
