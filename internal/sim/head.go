// Package sim provides a synthetic sensor head for demo mode and for
// running the scan loop without hardware.
package sim

import (
	"math"
	"math/rand"
	"sort"
	"sync"
	"time"

	"sonar-radar.klederson.com/internal/config"
	"sonar-radar.klederson.com/internal/ranging"
)

// Obstacle is a reflecting surface spanning [From, To] degrees.
type Obstacle struct {
	From     int
	To       int
	Distance float64 // cm
	Wobble   float64 // cm of slow sinusoidal drift
	phase    float64
}

// Covers reports whether the obstacle spans angle.
func (o Obstacle) Covers(angle int) bool {
	return angle >= o.From && angle <= o.To
}

// Scene is a fixed set of obstacles around the head.
type Scene struct {
	Obstacles []Obstacle
}

// RandomScene places a few obstacles of random width and range inside
// the servo range. Some are close enough to show up on the radar display.
func RandomScene(rng *rand.Rand) Scene {
	n := config.SimObstacleMin + rng.Intn(config.SimObstacleMax-config.SimObstacleMin+1)
	obs := make([]Obstacle, n)
	for i := range obs {
		width := 6 + rng.Intn(20)
		from := rng.Intn(config.MaxAngle - width + 1)

		// Half the obstacles fall inside the display range
		dist := 5 + rng.Float64()*(config.DisplayRange-5)
		if i%2 == 1 {
			dist = config.DisplayRange + rng.Float64()*150
		}
		obs[i] = Obstacle{
			From:     from,
			To:       from + width,
			Distance: dist,
			Wobble:   0.5 + rng.Float64()*2,
			phase:    rng.Float64() * 2 * math.Pi,
		}
	}
	sort.Slice(obs, func(i, j int) bool { return obs[i].From < obs[j].From })
	return Scene{Obstacles: obs}
}

// Nearest returns the closest obstacle covering angle.
func (s Scene) Nearest(angle int) (Obstacle, bool) {
	var best Obstacle
	found := false
	for _, o := range s.Obstacles {
		if !o.Covers(angle) {
			continue
		}
		if !found || o.Distance < best.Distance {
			best = o
			found = true
		}
	}
	return best, found
}

// Options tunes how imperfect the simulated sensor is.
type Options struct {
	Noise        float64 // cm of uniform jitter per ping
	DropRate     float64 // Probability a real echo is lost
	SpuriousRate float64 // Probability of an implausible echo
}

// DefaultOptions mimics a cheap ultrasonic module.
func DefaultOptions() Options {
	return Options{Noise: 0.6, DropRate: 0.03, SpuriousRate: 0.02}
}

// Head is a simulated servo plus ultrasonic sensor. It implements the
// scan loop's Actuator and a ranging.Pinger.
type Head struct {
	mu    sync.Mutex
	scene Scene
	opts  Options
	rng   *rand.Rand
	angle int
	pings int
}

// NewHead returns a head pointed at 0 degrees.
func NewHead(scene Scene, opts Options, rng *rand.Rand) *Head {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Head{scene: scene, opts: opts, rng: rng}
}

// SetAngle points the head. Out-of-range commands are clamped like a servo.
func (h *Head) SetAngle(angle int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	switch {
	case angle < config.MinAngle:
		angle = config.MinAngle
	case angle > config.MaxAngle:
		angle = config.MaxAngle
	}
	h.angle = angle
}

// Angle returns the last commanded angle.
func (h *Head) Angle() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.angle
}

// Scene returns the obstacles around the head.
func (h *Head) Scene() Scene {
	return h.scene
}

// Ping simulates one trigger/echo cycle at the current angle.
func (h *Head) Ping(timeout time.Duration) (time.Duration, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.pings++

	if h.opts.SpuriousRate > 0 && h.rng.Float64() < h.opts.SpuriousRate {
		// Crosstalk reads as an impossibly short echo, multipath as a very long one
		if h.rng.Intn(2) == 0 {
			return ranging.CentimetersToEcho(h.rng.Float64() * config.MinRangeCM), true
		}
		return ranging.CentimetersToEcho(config.MaxRangeCM + 10 + h.rng.Float64()*50), true
	}

	o, ok := h.scene.Nearest(h.angle)
	if !ok {
		return 0, false
	}
	if h.opts.DropRate > 0 && h.rng.Float64() < h.opts.DropRate {
		return 0, false
	}

	cm := o.Distance + o.Wobble*math.Sin(float64(h.pings)*0.05+o.phase)
	if h.opts.Noise > 0 {
		cm += (h.rng.Float64() - 0.5) * 2 * h.opts.Noise
	}
	echo := ranging.CentimetersToEcho(cm)
	if echo > timeout {
		return 0, false
	}
	return echo, true
}
