// Package sweep owns the angular motion of the sensor head: the current
// angle, the sweep direction and the reversal policy at the bounds.
package sweep

import (
	"fmt"

	"sonar-radar.klederson.com/internal/config"
)

// Direction is the sign of angular motion.
type Direction int

const (
	Increasing Direction = iota
	Decreasing
)

func (d Direction) String() string {
	if d == Decreasing {
		return "Decreasing"
	}
	return "Increasing"
}

// Style selects how the head turns around at the bounds.
type Style int

const (
	// Bounce reverses direction at each bound.
	Bounce Style = iota
	// Wipe always moves toward Max and jumps back to Min after reaching it.
	Wipe
)

func (s Style) String() string {
	if s == Wipe {
		return "wipe"
	}
	return "bounce"
}

// ParseStyle maps a flag value to a Style.
func ParseStyle(s string) (Style, error) {
	switch s {
	case "", "bounce":
		return Bounce, nil
	case "wipe":
		return Wipe, nil
	}
	return Bounce, fmt.Errorf("unknown sweep style %q: expected bounce or wipe", s)
}

// Event reports what happened at the bounds during an advance.
type Event int

const (
	None     Event = iota
	Reversed       // direction flipped at a bound
	Reset          // wipe jumped back to Min
)

// Config fixes the sweep geometry at startup.
type Config struct {
	Min   int
	Max   int
	Step  int
	Style Style
}

// DefaultConfig returns the compile-time sweep geometry.
func DefaultConfig() Config {
	return Config{
		Min:   config.MinAngle,
		Max:   config.MaxAngle,
		Step:  config.Step,
		Style: Bounce,
	}
}

// Validate checks that the bounds fit the servo range and the step is usable.
func (c Config) Validate() error {
	if c.Min < config.MinAngle {
		return fmt.Errorf("min angle %d below %d", c.Min, config.MinAngle)
	}
	if c.Max > config.MaxAngle {
		return fmt.Errorf("max angle %d above %d", c.Max, config.MaxAngle)
	}
	if c.Min >= c.Max {
		return fmt.Errorf("min angle %d must be below max angle %d", c.Min, c.Max)
	}
	if c.Step <= 0 {
		return fmt.Errorf("step %d must be positive", c.Step)
	}
	return nil
}

// CycleTicks is the number of ticks in one full sweep cycle.
func (c Config) CycleTicks() int {
	span := c.Max - c.Min
	perLeg := (span + c.Step - 1) / c.Step
	if c.Style == Wipe {
		return perLeg + 1
	}
	return 2 * perLeg
}

// State is the only state that survives across ticks.
type State struct {
	Angle     int
	Direction Direction
}

// Controller computes the next angle of a State.
type Controller struct {
	cfg Config
}

// NewController validates cfg and returns a Controller for it.
func NewController(cfg Config) (*Controller, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid sweep config: %w", err)
	}
	return &Controller{cfg: cfg}, nil
}

// Config returns the geometry the controller was built with.
func (c *Controller) Config() Config {
	return c.cfg
}

// InitialState is the state at system start.
func (c *Controller) InitialState() State {
	return State{Angle: c.cfg.Min, Direction: Increasing}
}

// Advance moves s one step and returns the new angle. Clamping to a bound
// always wins over the unclamped step, so s.Angle never leaves [Min, Max].
func (c *Controller) Advance(s *State) (int, Event) {
	if c.cfg.Style == Wipe {
		return c.advanceWipe(s)
	}

	next := s.Angle + c.cfg.Step
	if s.Direction == Decreasing {
		next = s.Angle - c.cfg.Step
	}

	switch {
	case next >= c.cfg.Max:
		s.Angle = c.cfg.Max
		s.Direction = Decreasing
		return s.Angle, Reversed
	case next <= c.cfg.Min:
		s.Angle = c.cfg.Min
		s.Direction = Increasing
		return s.Angle, Reversed
	}
	s.Angle = next
	return s.Angle, None
}

func (c *Controller) advanceWipe(s *State) (int, Event) {
	s.Direction = Increasing
	if s.Angle >= c.cfg.Max {
		s.Angle = c.cfg.Min
		return s.Angle, Reset
	}
	next := s.Angle + c.cfg.Step
	if next > c.cfg.Max {
		next = c.cfg.Max
	}
	s.Angle = next
	return s.Angle, None
}
