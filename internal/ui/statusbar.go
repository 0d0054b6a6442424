package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"sonar-radar.klederson.com/internal/track"
)

// RenderStatusBar renders the bottom status bar.
func RenderStatusBar(width int, snap track.Snapshot, paused bool, rangeCM float64, lastErr string) string {
	status := "[" + statusBadge(paused, snap.Halted) + "]"

	info := fmt.Sprintf(" Angle: %ddeg  %s  Readings: %d  Valid: %d  Invalid: %d  Range: 0-%.0fcm",
		snap.Angle, snap.Direction, snap.Stats.Total, snap.Stats.Valid(), snap.Stats.Invalid, rangeCM)

	content := status + StyleStatusBar.Render(info)
	if lastErr != "" {
		content += "  " + StyleError.Render(lastErr)
	}

	gap := width - 2 - lipgloss.Width(content)
	if gap < 0 {
		gap = 0
	}
	return StyleStatusBar.Width(width).Render(content + strings.Repeat(" ", gap))
}
