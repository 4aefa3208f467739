package screens

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/bnema/coverscreen/internal/application"
	"github.com/bnema/coverscreen/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// Report is one discovery pass as shown by the screens command.
type Report struct {
	Now     time.Time
	Source  string
	Screens []application.ScreenStatus
	Skipped []application.SkippedRecord
}

func reportHeader(r Report) string {
	header := fmt.Sprintf("screens: %d", len(r.Screens))
	if r.Source != "" {
		header = fmt.Sprintf("source: %s  %s", r.Source, header)
	}
	return header
}

func renderScreen(status application.ScreenStatus, now time.Time, s styles) string {
	desc := status.Descriptor
	title := lipgloss.JoinHorizontal(
		lipgloss.Top,
		s.screen.Render(screenTitle(desc)),
		" ",
		stateLabel(status.State, s),
	)

	parts := []string{
		title,
		s.detail.Render("endpoint: " + desc.Endpoint),
		deliveryLine(status.Stats, s),
	}
	if !status.Stats.LastFrameAt.IsZero() {
		parts = append(parts, s.detail.Render("last frame: "+formatAgo(status.Stats.LastFrameAt, now)))
	}
	if status.Stats.LastError != "" {
		parts = append(parts, s.warning.Render("error: "+status.Stats.LastError))
	}

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func screenTitle(desc domain.ScreenDescriptor) string {
	title := fmt.Sprintf("%s (%dx%d %s)", desc.ID, desc.Width, desc.Height, desc.Format)
	if strings.TrimSpace(desc.Description) != "" {
		title += " " + strings.TrimSpace(desc.Description)
	}
	return title
}

func stateLabel(state domain.SessionState, s styles) string {
	label := "[" + string(state) + "]"
	switch state {
	case domain.SessionConnected:
		return s.stateOK.Render(label)
	case domain.SessionUnhealthy:
		return s.stateBad.Render(label)
	default:
		return s.stateIdle.Render(label)
	}
}

func deliveryLine(stats domain.ScreenStats, s styles) string {
	total := stats.FramesSent + stats.FramesFailed
	label := s.statKey.Render("delivered:")
	if total == 0 {
		return lipgloss.JoinHorizontal(lipgloss.Top, label, " ", s.empty.Render("no frames yet"))
	}

	percent := 100 * float64(stats.FramesSent) / float64(total)
	percentStyle := lipgloss.NewStyle().Foreground(interpolateColor(percent, 0, 100))

	line := lipgloss.JoinHorizontal(
		lipgloss.Top,
		label,
		" ",
		renderProgressBar(percent, 24, s),
		" ",
		percentStyle.Render(fmt.Sprintf("%d/%d frames", stats.FramesSent, total)),
	)
	if stats.LastAckLatency > 0 {
		line += " " + s.detail.Render(fmt.Sprintf("(ack %s)", stats.LastAckLatency.Round(time.Microsecond)))
	}
	return line
}

func renderSkipped(skipped []application.SkippedRecord, s styles) string {
	lines := []string{s.skippedTitle.Render(fmt.Sprintf("skipped: %d", len(skipped)))}
	for _, record := range skipped {
		name := record.Origin
		if record.ID != "" {
			name = fmt.Sprintf("%s (%s)", record.ID, record.Origin)
		}
		reason := "unknown error"
		if record.Err != nil {
			reason = record.Err.Error()
		}
		lines = append(lines, s.detail.Render(fmt.Sprintf("%s: %s", name, reason)))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func renderProgressBar(percent float64, width int, s styles) string {
	if width <= 0 {
		return ""
	}

	filled := int(math.Round(float64(width) * clampPercent(percent) / 100.0))
	if filled > width {
		filled = width
	}

	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		s.barBracket.Render("["),
		s.barFill.Render(strings.Repeat("=", filled)),
		s.barEmpty.Render(strings.Repeat("-", width-filled)),
		s.barBracket.Render("]"),
	)
}

func clampPercent(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

func formatAgo(at, now time.Time) string {
	if now.IsZero() {
		return at.Format(time.RFC3339)
	}
	elapsed := now.Sub(at)
	if elapsed < time.Second {
		return "just now"
	}
	return fmt.Sprintf("%s ago (%s)", elapsed.Round(time.Second), at.Format("15:04:05"))
}

func interpolateColor(value, min, max float64) lipgloss.Color {
	if max == min {
		return lipgloss.Color("255")
	}

	normalized := (value - min) / (max - min)
	if normalized < 0 {
		normalized = 0
	}
	if normalized > 1 {
		normalized = 1
	}

	// ANSI 256 greyscale ramp, 240 (faded) at min to 255 (white) at max.
	baseColor := 240.0
	targetColor := 255.0
	colorCode := int(baseColor + (targetColor-baseColor)*normalized)

	return lipgloss.Color(fmt.Sprintf("%d", colorCode))
}
