package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"sonar-radar.klederson.com/internal/config"
)

// RenderMenuBar renders the top menu bar.
func RenderMenuBar(width int, source string, paused, halted bool) string {
	title := fmt.Sprintf(" %s v%s ", config.AppName, config.AppVersion)

	keys := []struct{ key, label string }{
		{"X", " stop"},
		{"P", "ause"},
		{"C", "lear"},
		{"Q", "uit"},
	}

	menu := ""
	for _, k := range keys {
		menu += "  " + StyleMenuKey.Render("["+k.key+"]") + StyleMenuLabel.Render(k.label)
	}

	left := StyleMenuKey.Render(title) + menu
	right := statusBadge(paused, halted) + "  " + StyleMenuLabel.Render("Source: "+source) + " "

	gap := width - 2 - lipgloss.Width(left) - lipgloss.Width(right) // 2 for padding
	if gap < 0 {
		gap = 0
	}
	return StyleMenuBar.Width(width).Render(left + strings.Repeat(" ", gap) + right)
}

func statusBadge(paused, halted bool) string {
	switch {
	case halted:
		return StyleStatusHalted.Render("HALTED")
	case paused:
		return StyleStatusPaused.Render("PAUSED")
	}
	return StyleStatusLive.Render("LIVE")
}
