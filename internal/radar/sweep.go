package radar

import (
	"math"

	"sonar-radar.klederson.com/internal/config"
)

// Sweep is the drawn sweep line. It follows the reported head angle and
// leaves a glow on the side it came from.
type Sweep struct {
	Angle      float64 // Radians in [0, π]
	Decreasing bool
}

// NewSweep creates a sweep at 0 degrees heading counterclockwise.
func NewSweep() *Sweep {
	return &Sweep{}
}

// Set moves the sweep to the head angle in degrees.
func (s *Sweep) Set(deg int, decreasing bool) {
	s.Angle = Radians(float64(deg))
	s.Decreasing = decreasing
}

func (s *Sweep) Degrees() float64 {
	return math.Round(s.Angle * 180 / math.Pi)
}

// Intensity is 1 on the sweep line and fades to 0 across the trail behind
// it. Cells below the horizon or ahead of the line get 0.
func (s *Sweep) Intensity(cellAngle float64) float64 {
	if cellAngle > math.Pi {
		return 0
	}
	diff := s.Angle - cellAngle
	if s.Decreasing {
		diff = -diff
	}
	if diff < 0 {
		return 0
	}

	trailRad := Radians(config.SweepTrailDeg)
	if diff > trailRad {
		return 0
	}

	return 1 - diff/trailRad
}
