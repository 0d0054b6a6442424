package app

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"sonar-radar.klederson.com/internal/config"
)

// TickMsg redraws the radar at the target frame rate.
type TickMsg time.Time

// EvictMsg drops detections older than the fade time.
type EvictMsg time.Time

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(config.TargetFPS), func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func evictCmd() tea.Cmd {
	return tea.Tick(config.EvictInterval, func(t time.Time) tea.Msg {
		return EvictMsg(t)
	})
}
