// Package ranging turns echo timings from a time-of-flight sensor into
// validated distances.
package ranging

import (
	"strconv"
	"time"

	"sonar-radar.klederson.com/internal/config"
)

// Pinger issues one ranging cycle and reports the round-trip echo time.
// ok is false when no echo arrived within timeout.
type Pinger interface {
	Ping(timeout time.Duration) (echo time.Duration, ok bool)
}

// PingerFunc adapts a function to a Pinger.
type PingerFunc func(timeout time.Duration) (time.Duration, bool)

// Ping calls f.
func (f PingerFunc) Ping(timeout time.Duration) (time.Duration, bool) {
	return f(timeout)
}

// Sample is the outcome of one measurement. The zero value is OutOfRange.
type Sample struct {
	Distance float64 // Centimeters, > 0 when Valid
	Valid    bool
}

// OutOfRange is the sample reported when no plausible echo was received.
var OutOfRange = Sample{}

// ValidSample returns an in-range sample of cm centimeters.
func ValidSample(cm float64) Sample {
	return Sample{Distance: cm, Valid: true}
}

func (s Sample) String() string {
	if !s.Valid {
		return "OUT_OF_RANGE"
	}
	return strconv.FormatFloat(s.Distance, 'f', 2, 64)
}

// Sampler measures distance through a Pinger.
type Sampler struct {
	pinger  Pinger
	timeout time.Duration
}

// NewSampler returns a Sampler bounding each ping by timeout. A
// non-positive timeout selects config.EchoTimeout.
func NewSampler(p Pinger, timeout time.Duration) *Sampler {
	if timeout <= 0 {
		timeout = config.EchoTimeout
	}
	return &Sampler{pinger: p, timeout: timeout}
}

// Timeout returns the echo timeout applied to each ping.
func (s *Sampler) Timeout() time.Duration {
	return s.timeout
}

// Measure pings once. Timeouts and readings outside the sensor band
// [MinRangeCM, MaxRangeCM] are reported as OutOfRange; there is no retry.
func (s *Sampler) Measure() Sample {
	echo, ok := s.pinger.Ping(s.timeout)
	if !ok || echo <= 0 || echo > s.timeout {
		return OutOfRange
	}
	cm := EchoToCentimeters(echo)
	if !Plausible(cm) {
		return OutOfRange
	}
	return ValidSample(cm)
}

// Plausible reports whether cm lies inside the sensor's usable band,
// bounds included.
func Plausible(cm float64) bool {
	return cm >= config.MinRangeCM && cm <= config.MaxRangeCM
}

// EchoToCentimeters converts a round-trip echo time to a one-way distance.
func EchoToCentimeters(echo time.Duration) float64 {
	us := float64(echo) / float64(time.Microsecond)
	return us * config.SpeedOfSoundHalf
}

// CentimetersToEcho is the inverse of EchoToCentimeters.
func CentimetersToEcho(cm float64) time.Duration {
	us := cm / config.SpeedOfSoundHalf
	return time.Duration(us * float64(time.Microsecond))
}
