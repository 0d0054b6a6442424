package radar

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"sonar-radar.klederson.com/internal/config"
	"sonar-radar.klederson.com/internal/track"
)

var (
	colorBright   = lipgloss.Color("#00FF41")
	colorMid      = lipgloss.Color("#008F11")
	colorDim      = lipgloss.Color("#004A0A")
	colorFresh    = lipgloss.Color("#FF3B30")
	colorFading   = lipgloss.Color("#B3261E")
	colorStale    = lipgloss.Color("#5C1410")
	colorLabelDim = lipgloss.Color("#008F11")

	styleCenter   = lipgloss.NewStyle().Foreground(colorBright).Bold(true)
	styleRing     = lipgloss.NewStyle().Foreground(colorMid)
	styleDot      = lipgloss.NewStyle().Foreground(colorDim)
	styleFresh    = lipgloss.NewStyle().Foreground(colorFresh).Bold(true)
	styleFading   = lipgloss.NewStyle().Foreground(colorFading)
	styleStale    = lipgloss.NewStyle().Foreground(colorStale)
	styleLabelDim = lipgloss.NewStyle().Foreground(colorLabelDim)
	styleLegend   = lipgloss.NewStyle().Foreground(colorMid)
)

// Render produces the half-disc radar as a styled string of exactly height
// lines. Detections fade with age and disappear after maxAge.
func Render(width, height int, snap track.Snapshot, sweep *Sweep, now time.Time, rangeCM float64) string {
	if width < 10 || height < 4 {
		return ""
	}

	centerX := width / 2
	centerY := height - 2 // the bottom row carries distance labels
	radius := math.Min(float64(centerX-1), float64(centerY)/config.AspectRatio)
	if radius < 3 {
		radius = 3
	}

	ringRadii := make([]float64, config.RingCount)
	for i := range ringRadii {
		ringRadii[i] = radius * float64(i+1) / float64(config.RingCount)
	}

	// Newer detections overwrite older ones on the same cell
	ages := make(map[int]float64, len(snap.Detections))
	for _, d := range snap.Detections {
		age := d.Age(now)
		if age > config.DetectionMaxAge {
			continue
		}
		r := CentimetersToRadius(d.Distance, rangeCM, radius)
		col, row := PolarToCell(float64(d.Angle), r, centerX, centerY)
		ages[row*width+col] = float64(age) / float64(config.DetectionMaxAge)
	}

	labels := ringLabels(width, centerX, ringRadii, rangeCM)

	var sb strings.Builder
	for row := 0; row < height; row++ {
		for col := 0; col < width; col++ {
			if row == centerY+1 {
				if ch, ok := labels[col]; ok {
					sb.WriteString(styleLabelDim.Render(string(ch)))
				} else {
					sb.WriteByte(' ')
				}
				continue
			}
			if frac, ok := ages[row*width+col]; ok {
				sb.WriteString(renderDetection(frac))
				continue
			}
			sb.WriteString(renderCell(col, row, centerX, centerY, radius, ringRadii, sweep))
		}
		if row < height-1 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

// ringLabels places "10cm"-style labels under the right half of the baseline.
func ringLabels(width, centerX int, ringRadii []float64, rangeCM float64) map[int]rune {
	labels := make(map[int]rune)
	next := 0
	for i, r := range ringRadii {
		cm := rangeCM * float64(i+1) / float64(len(ringRadii))
		text := fmt.Sprintf("%.0f", cm)
		if i == len(ringRadii)-1 {
			text += "cm"
		}
		start := centerX + int(math.Round(r)) - len(text)/2
		if start < next || start+len(text) > width {
			continue
		}
		for j, ch := range text {
			labels[start+j] = ch
		}
		next = start + len(text) + 1
	}
	return labels
}

func renderDetection(ageFrac float64) string {
	switch {
	case ageFrac < 0.33:
		return styleFresh.Render("*")
	case ageFrac < 0.66:
		return styleFading.Render("*")
	default:
		return styleStale.Render(".")
	}
}

func renderCell(col, row, centerX, centerY int, radius float64, ringRadii []float64, sweep *Sweep) string {
	if row > centerY {
		return " "
	}
	dist := CellDistance(col, row, centerX, centerY)
	if dist > radius+0.5 {
		return " "
	}
	angle := CellAngle(col, row, centerX, centerY)

	if col == centerX && row == centerY {
		return styleCenter.Render("+")
	}
	if row == centerY {
		return renderSweepChar('-', sweep, angle)
	}

	for _, ringR := range ringRadii {
		if math.Abs(dist-ringR) < 0.8 {
			return renderSweepChar(RingChar(angle), sweep, angle)
		}
	}

	if dist <= radius {
		return renderInteriorCell(sweep, angle)
	}
	return " "
}

func renderSweepChar(ch rune, sweep *Sweep, angle float64) string {
	color := sweepColor(sweep.Intensity(angle))
	if color == "" {
		return styleRing.Render(string(ch))
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render(string(ch))
}

func renderInteriorCell(sweep *Sweep, angle float64) string {
	color := sweepColor(sweep.Intensity(angle))
	if color == "" {
		return styleDot.Render(".")
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render(".")
}

func sweepColor(intensity float64) string {
	if intensity <= 0 {
		return ""
	}
	if intensity > 0.8 {
		return "#00FF41"
	}
	if intensity > 0.5 {
		return "#00CC33"
	}
	if intensity > 0.3 {
		return "#00AA22"
	}
	return "#005511"
}

// RenderLegend produces the radar legend line.
func RenderLegend(width int, rangeCM float64) string {
	legend := styleFresh.Render("* new") + "  " +
		styleFading.Render("* older") + "  " +
		styleStale.Render(". fading") + "  " +
		styleLegend.Render(fmt.Sprintf("range %.0fcm", rangeCM))

	pad := (width - lipgloss.Width(legend)) / 2
	if pad < 0 {
		pad = 0
	}
	return strings.Repeat(" ", pad) + legend
}
