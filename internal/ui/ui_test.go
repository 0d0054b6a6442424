package ui

import (
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sonar-radar.klederson.com/internal/track"
)

func TestRenderSparkline(t *testing.T) {
	assert.Equal(t, "", renderSparkline(nil, 10))
	assert.Equal(t, "_^", renderSparkline([]float64{0, 100}, 10))
	assert.Equal(t, "^_", renderSparkline([]float64{0, 0, 100, 0}, 2))
}

func TestNearestContacts(t *testing.T) {
	now := time.Now()
	got := nearestContacts([]track.Detection{
		{Angle: 10, Distance: 20, Seen: now.Add(-time.Second)},
		{Angle: 30, Distance: 5, Seen: now},
		{Angle: 10, Distance: 12, Seen: now},
	})
	require.Len(t, got, 2)
	assert.Equal(t, 30, got[0].Angle)
	assert.Equal(t, 10, got[1].Angle)
	assert.Equal(t, 12.0, got[1].Distance)
}

func TestFormatAge(t *testing.T) {
	assert.Equal(t, "now", formatAge(300*time.Millisecond))
	assert.Equal(t, "7s ago", formatAge(7*time.Second))
	assert.Equal(t, "2m ago", formatAge(150*time.Second))
}

func TestRenderReadingsPanel(t *testing.T) {
	now := time.Now()
	snap := track.Snapshot{
		Angle:      42,
		Distance:   12.5,
		HasReading: true,
		Direction:  "Decreasing",
		Stats:      track.Stats{Total: 10, Invalid: 3},
		Detections: []track.Detection{{Angle: 42, Distance: 12.5, Seen: now}},
		History:    []float64{10, 12.5},
		Notice:     "Direction: Decreasing",
	}

	out := RenderReadingsPanel(snap, 40, 30, 30, now)

	assert.Equal(t, 30, lipgloss.Height(out))
	assert.Contains(t, out, "42 deg")
	assert.Contains(t, out, "12.50 cm")
	assert.Contains(t, out, "CONTACTS [1]")
	assert.Contains(t, out, "Decreasing")
}

func TestMenuBarShowsHalt(t *testing.T) {
	out := RenderMenuBar(100, "demo", false, true)
	assert.Contains(t, out, "HALTED")
	assert.Equal(t, 100, lipgloss.Width(out))

	out = RenderMenuBar(100, "demo", true, false)
	assert.Contains(t, out, "PAUSED")
	assert.True(t, strings.Contains(out, "Source: demo"))
}

func TestNewLayout(t *testing.T) {
	l := NewLayout(120, 40)
	assert.Equal(t, Layout{BodyHeight: 38, RadarWidth: 80, ReadingWidth: 40, CanvasWidth: 76, CanvasHeight: 33}, l)

	// Narrow terminals keep the readings panel readable.
	l = NewLayout(40, 10)
	assert.Equal(t, 24, l.ReadingWidth)
	assert.Equal(t, 16, l.RadarWidth)
	assert.Equal(t, 3, l.CanvasHeight)
}

func TestRadarPanelTitle(t *testing.T) {
	snap := track.Snapshot{Angle: 90, Direction: "Decreasing", Halted: true}
	out := RenderRadarPanel(40, 12, "canvas", "legend", snap)
	assert.Contains(t, out, "SWEEP  90° <")
	assert.Equal(t, 40, lipgloss.Width(out))
	assert.Equal(t, 12, lipgloss.Height(out))
}
