package ui

import (
	"fmt"

	"sonar-radar.klederson.com/internal/sweep"
	"sonar-radar.klederson.com/internal/track"
)

// RenderRadarPanel frames the radar canvas with the head bearing as a title.
// The border turns red once the controller reports a halt.
func RenderRadarPanel(width, height int, canvas, legend string, snap track.Snapshot) string {
	arrow := ">"
	if snap.Direction == sweep.Decreasing.String() {
		arrow = "<"
	}
	title := StylePanelTitle.Render(fmt.Sprintf("SWEEP %3d° %s", snap.Angle, arrow))

	border := StylePanelBorder
	if snap.Halted {
		border = StylePanelHalted
	}
	return border.Width(width - 2).Height(height - 2).Render(title + "\n" + canvas + "\n" + legend)
}
