// Package track accumulates the report stream into what the radar view
// draws: the head position, fading close-range detections and counters.
package track

import (
	"sync"
	"time"

	"github.com/benbjohnson/clock"

	"sonar-radar.klederson.com/internal/config"
	"sonar-radar.klederson.com/internal/report"
)

// Detection is a valid reading within the display range.
type Detection struct {
	Angle    int
	Distance float64
	Seen     time.Time
}

// Age returns how long ago the detection was seen.
func (d Detection) Age(now time.Time) time.Duration {
	return now.Sub(d.Seen)
}

// Stats counts readings since the last Clear.
type Stats struct {
	Total   int
	Invalid int
}

// Valid is the number of in-range readings.
func (s Stats) Valid() int { return s.Total - s.Invalid }

// Snapshot is a consistent copy of the store for rendering.
type Snapshot struct {
	Angle      int
	Distance   float64 // Last reading, 0 when out of range
	HasReading bool
	Direction  string
	Halted     bool
	Notice     string // Most recent notice text
	Stats      Stats
	Detections []Detection // Oldest first
	History    []float64
}

// Store is a thread-safe accumulator of parsed report lines.
type Store struct {
	mu         sync.RWMutex
	clock      clock.Clock
	rangeCM    float64
	maxPoints  int
	detections []Detection
	history    *History

	angle      int
	distance   float64
	hasReading bool
	direction  string
	halted     bool
	notice     string
	stats      Stats
}

// NewStore returns an empty store keeping detections within rangeCM.
// A non-positive rangeCM selects config.DisplayRange.
func NewStore(clk clock.Clock, rangeCM float64) *Store {
	if clk == nil {
		clk = clock.New()
	}
	if rangeCM <= 0 {
		rangeCM = config.DisplayRange
	}
	return &Store{
		clock:     clk,
		rangeCM:   rangeCM,
		maxPoints: config.MaxDetections,
		history:   NewHistory(config.HistoryLen),
		direction: "Increasing",
	}
}

// Range returns the display range in centimeters.
func (s *Store) Range() float64 { return s.rangeCM }

// Observe folds one parsed line into the store.
func (s *Store) Observe(l report.Line) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if l.Kind == report.KindNotice {
		s.notice = l.Text
		if dir, ok := l.Direction(); ok {
			s.direction = dir
		}
		if l.IsHalted() {
			s.halted = true
		}
		return
	}

	s.stats.Total++
	s.angle = l.Angle
	s.hasReading = true
	if !l.Sample.Valid {
		s.stats.Invalid++
		s.distance = 0
		s.history.Push(0)
		return
	}
	s.distance = l.Sample.Distance
	s.history.Push(l.Sample.Distance)

	if l.Sample.Distance <= s.rangeCM {
		if len(s.detections) == s.maxPoints {
			s.detections = s.detections[1:]
		}
		s.detections = append(s.detections, Detection{
			Angle:    l.Angle,
			Distance: l.Sample.Distance,
			Seen:     s.clock.Now(),
		})
	}
}

// Evict removes detections older than maxAge and returns how many were removed.
func (s *Store) Evict(maxAge time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.clock.Now().Add(-maxAge)
	kept := s.detections[:0]
	for _, d := range s.detections {
		if !d.Seen.Before(cutoff) {
			kept = append(kept, d)
		}
	}
	n := len(s.detections) - len(kept)
	s.detections = kept
	return n
}

// Clear forgets detections, history and counters. The head position is kept.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.detections = nil
	s.history = NewHistory(config.HistoryLen)
	s.stats = Stats{}
}

// Now is the store's notion of the current time.
func (s *Store) Now() time.Time { return s.clock.Now() }

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	dets := make([]Detection, len(s.detections))
	copy(dets, s.detections)
	return Snapshot{
		Angle:      s.angle,
		Distance:   s.distance,
		HasReading: s.hasReading,
		Direction:  s.direction,
		Halted:     s.halted,
		Notice:     s.notice,
		Stats:      s.stats,
		Detections: dets,
		History:    s.history.Values(),
	}
}
