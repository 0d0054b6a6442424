package ui

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"sonar-radar.klederson.com/internal/track"
)

// RenderReadingsPanel renders the side panel: the live reading, a
// proximity bar, the distance sparkline and the nearest detections.
func RenderReadingsPanel(snap track.Snapshot, width, height int, rangeCM float64, now time.Time) string {
	innerW := width - 4
	if innerW < 20 {
		innerW = 20
	}

	lines := []string{
		StylePanelTitle.Render("READINGS"),
		StyleSeparator.Render(strings.Repeat("-", innerW)),
	}

	distance := "--"
	if snap.HasReading {
		distance = "OUT OF RANGE"
		if snap.Distance > 0 {
			distance = fmt.Sprintf("%.2f cm", snap.Distance)
		}
	}
	fields := []struct{ label, value string }{
		{"Angle", fmt.Sprintf("%d deg", snap.Angle)},
		{"Distance", distance},
		{"Heading", snap.Direction},
		{"Readings", fmt.Sprintf("%d", snap.Stats.Total)},
		{"Valid", fmt.Sprintf("%d", snap.Stats.Valid())},
		{"Invalid", fmt.Sprintf("%d", snap.Stats.Invalid)},
	}
	for _, f := range fields {
		lines = append(lines, StyleLabel.Render(fmt.Sprintf("  %-10s", f.label))+StyleValue.Render(f.value))
	}
	lines = append(lines, "")

	barWidth := innerW - 14
	if barWidth < 10 {
		barWidth = 10
	}
	lines = append(lines, StyleLabel.Render("  Near  ")+renderProximityBar(snap.Distance, rangeCM, barWidth))

	if len(snap.History) > 0 {
		lines = append(lines, "", StyleLabel.Render("  Distance history:"))
		spark := renderSparkline(snap.History, innerW-4)
		lines = append(lines, "  "+lipgloss.NewStyle().Foreground(ColorGreen).Render(spark))
	}

	lines = append(lines, "", StylePanelTitle.Render(fmt.Sprintf("CONTACTS [%d]", len(snap.Detections))))
	contacts := nearestContacts(snap.Detections)
	room := height - 2 - len(lines) - 2
	if len(contacts) == 0 {
		lines = append(lines, StyleHelp.Render(fmt.Sprintf("  Nothing within %.0fcm", rangeCM)))
	}
	for i, d := range contacts {
		if i >= room {
			break
		}
		lines = append(lines, fmt.Sprintf("  %s %s %s",
			StyleDetection.Render(fmt.Sprintf("%3d deg", d.Angle)),
			StyleValue.Render(fmt.Sprintf("%6.2f cm", d.Distance)),
			StyleHelp.Render(formatAge(d.Age(now)))))
	}

	if snap.Notice != "" {
		lines = append(lines, "", StyleHelp.Render("  # "+snap.Notice))
	}

	for len(lines) < height-2 {
		lines = append(lines, "")
	}
	if len(lines) > height-2 && height > 2 {
		lines = lines[:height-2]
	}

	return StylePanelBorder.Width(width - 2).Height(height - 2).Render(strings.Join(lines, "\n"))
}

// nearestContacts keeps the latest detection per angle, nearest first.
func nearestContacts(dets []track.Detection) []track.Detection {
	latest := make(map[int]track.Detection, len(dets))
	for _, d := range dets {
		latest[d.Angle] = d
	}
	out := make([]track.Detection, 0, len(latest))
	for _, d := range latest {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Distance == out[j].Distance {
			return out[i].Angle < out[j].Angle
		}
		return out[i].Distance < out[j].Distance
	})
	return out
}

func renderProximityBar(cm, rangeCM float64, width int) string {
	ratio := 0.0
	if cm > 0 && cm <= rangeCM {
		ratio = 1 - cm/rangeCM
	}
	filled := int(math.Round(ratio * float64(width)))

	bar := strings.Repeat("|", filled) + strings.Repeat("-", width-filled)
	filledPart := lipgloss.NewStyle().Foreground(lipgloss.Color(proximityColor(ratio))).Render(bar[:filled])
	emptyPart := lipgloss.NewStyle().Foreground(ColorDimGreen).Render(bar[filled:])
	return StyleHelp.Render("[") + filledPart + emptyPart + StyleHelp.Render("]")
}

func proximityColor(ratio float64) string {
	if ratio > 0.75 {
		return "#FF3B30"
	}
	if ratio > 0.5 {
		return "#FFAA00"
	}
	if ratio > 0.25 {
		return "#00FF41"
	}
	return "#008F11"
}

func renderSparkline(values []float64, width int) string {
	if len(values) == 0 || width <= 0 {
		return ""
	}

	chars := []byte{'_', '.', '-', '~', '^'}

	minV, maxV := values[0], values[0]
	for _, v := range values {
		if v < minV {
			minV = v
		}
		if v > maxV {
			maxV = v
		}
	}

	rng := maxV - minV
	if rng < 1 {
		rng = 1
	}

	// Take last `width` values
	start := 0
	if len(values) > width {
		start = len(values) - width
	}

	var sb strings.Builder
	for i := start; i < len(values); i++ {
		idx := int((values[i] - minV) / rng * float64(len(chars)-1))
		if idx < 0 {
			idx = 0
		}
		if idx >= len(chars) {
			idx = len(chars) - 1
		}
		sb.WriteByte(chars[idx])
	}
	return sb.String()
}

func formatAge(d time.Duration) string {
	if d < time.Second {
		return "now"
	}
	if d < time.Minute {
		return fmt.Sprintf("%ds ago", int(d.Seconds()))
	}
	return fmt.Sprintf("%dm ago", int(d.Minutes()))
}
