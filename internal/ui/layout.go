package ui

import "github.com/charmbracelet/lipgloss"

// Layout holds the panel sizes for one terminal size.
type Layout struct {
	BodyHeight   int
	RadarWidth   int
	ReadingWidth int
	// Inner radar canvas, inside the border and title line.
	CanvasWidth  int
	CanvasHeight int
}

// NewLayout splits the terminal: one row each for the menu and status bars,
// two thirds of the width for the radar and the rest for readings.
func NewLayout(width, height int) Layout {
	l := Layout{BodyHeight: max(height-2, 5)}

	l.RadarWidth = max(width*2/3, 30)
	l.ReadingWidth = width - l.RadarWidth
	if l.ReadingWidth < 24 {
		l.ReadingWidth = 24
		l.RadarWidth = width - l.ReadingWidth
	}

	l.CanvasWidth = max(l.RadarWidth-4, 5)
	l.CanvasHeight = max(l.BodyHeight-5, 3)
	return l
}

// ComposeLayout stacks the menu bar, the radar and readings panels side by
// side, and the status bar.
func ComposeLayout(menuBar, radarPanel, readings, statusBar string) string {
	middle := lipgloss.JoinHorizontal(lipgloss.Top, radarPanel, readings)
	return lipgloss.JoinVertical(lipgloss.Left, menuBar, middle, statusBar)
}
