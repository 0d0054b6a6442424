package radar

import (
	"math"

	"sonar-radar.klederson.com/internal/config"
)

// The radar is a half disc with its center on the bottom row. Angles follow
// the servo: 0 points east, 90 north and 180 west.

// CellDistance computes the distance from a cell to the radar center,
// accounting for terminal aspect ratio.
func CellDistance(col, row, centerX, centerY int) float64 {
	dx := float64(col - centerX)
	dy := float64(row-centerY) / config.AspectRatio
	return math.Sqrt(dx*dx + dy*dy)
}

// CellAngle computes the angle from center to a cell in radians,
// 0 = east, increasing counterclockwise. Cells above the center fall in [0, π].
func CellAngle(col, row, centerX, centerY int) float64 {
	dx := float64(col - centerX)
	dy := float64(centerY-row) / config.AspectRatio
	return NormalizeAngle(math.Atan2(dy, dx))
}

// RingChar returns the character that best follows a ring at the given angle.
func RingChar(angle float64) rune {
	deg := NormalizeAngle(angle) * 180 / math.Pi
	switch {
	case deg < 22.5 || deg >= 157.5:
		return '|'
	case deg < 67.5:
		return '/'
	case deg < 112.5:
		return '-'
	default:
		return '\\'
	}
}

// NormalizeAngle wraps an angle to [0, 2π).
func NormalizeAngle(a float64) float64 {
	a = math.Mod(a, 2*math.Pi)
	if a < 0 {
		a += 2 * math.Pi
	}
	return a
}

// AngleDiff returns the shortest angular distance between two angles.
// Result is in [0, π].
func AngleDiff(a, b float64) float64 {
	d := math.Abs(NormalizeAngle(a) - NormalizeAngle(b))
	if d > math.Pi {
		d = 2*math.Pi - d
	}
	return d
}

// Radians converts servo degrees to radians.
func Radians(deg float64) float64 {
	return deg * math.Pi / 180
}

// CentimetersToRadius converts a distance to radar cells. Distances past
// maxRange sit on the outer ring.
func CentimetersToRadius(cm, maxRange, radarRadius float64) float64 {
	if cm > maxRange {
		return radarRadius
	}
	return (cm / maxRange) * radarRadius
}

// PolarToCell places a point given in servo degrees and radar cells.
func PolarToCell(angleDeg, r float64, centerX, centerY int) (col, row int) {
	a := Radians(angleDeg)
	col = centerX + int(math.Round(r*math.Cos(a)))
	row = centerY - int(math.Round(r*math.Sin(a)*config.AspectRatio))
	return col, row
}
