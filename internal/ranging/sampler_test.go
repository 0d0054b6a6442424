package ranging

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sonar-radar.klederson.com/internal/config"
)

type fakePinger struct {
	echo     time.Duration
	ok       bool
	calls    int
	timeouts []time.Duration
}

func (f *fakePinger) Ping(timeout time.Duration) (time.Duration, bool) {
	f.calls++
	f.timeouts = append(f.timeouts, timeout)
	return f.echo, f.ok
}

func TestMeasureTimeout(t *testing.T) {
	p := &fakePinger{ok: false}
	s := NewSampler(p, 0)

	got := s.Measure()
	assert.Equal(t, OutOfRange, got)
	assert.False(t, got.Valid)
	assert.Equal(t, 1, p.calls, "no retry within a measurement")
	assert.Equal(t, []time.Duration{config.EchoTimeout}, p.timeouts)
}

func TestMeasureConvertsEcho(t *testing.T) {
	p := &fakePinger{echo: 1000 * time.Microsecond, ok: true}
	got := NewSampler(p, 0).Measure()

	require.True(t, got.Valid)
	assert.InDelta(t, 17.15, got.Distance, 1e-9)
}

func TestMeasurePlausibilityBand(t *testing.T) {
	tests := []struct {
		name  string
		echo  time.Duration
		valid bool
	}{
		{"below floor", 100 * time.Microsecond, false},         // 1.715 cm
		{"just above floor", 117 * time.Microsecond, true},     // 2.006 cm
		{"mid range", 5000 * time.Microsecond, true},           // 85.75 cm
		{"just below ceiling", 23320 * time.Microsecond, true}, // 399.94 cm
		{"above ceiling", 23330 * time.Microsecond, false},     // 400.11 cm
		{"zero echo", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewSampler(&fakePinger{echo: tt.echo, ok: true}, 0).Measure()
			assert.Equal(t, tt.valid, got.Valid, "distance %.3f", EchoToCentimeters(tt.echo))
			if tt.valid {
				assert.Greater(t, got.Distance, 0.0)
			}
		})
	}
}

func TestPlausibleBoundsAreInclusive(t *testing.T) {
	assert.True(t, Plausible(2.0))
	assert.True(t, Plausible(400.0))
	assert.False(t, Plausible(1.9999))
	assert.False(t, Plausible(400.0001))
}

// Echo times are whole nanoseconds, so the band edges are checked with the
// nearest representable echo on either side.
func TestMeasureAtBandEdges(t *testing.T) {
	floor := CentimetersToEcho(2.0)     // 116618ns, 1.99999 cm
	ceiling := CentimetersToEcho(400.0) // 23323615ns, 399.99999 cm

	measure := func(echo time.Duration) Sample {
		return NewSampler(PingerFunc(func(time.Duration) (time.Duration, bool) {
			return echo, true
		}), 0).Measure()
	}

	assert.False(t, measure(floor).Valid)
	assert.True(t, measure(floor+time.Nanosecond).Valid)
	assert.True(t, measure(ceiling).Valid)
	assert.False(t, measure(ceiling+time.Nanosecond).Valid)

	got := measure(ceiling)
	assert.InDelta(t, 400.0, got.Distance, 1e-4)
	assert.Equal(t, "400.00", got.String())
}

func TestMeasureEchoBeyondTimeout(t *testing.T) {
	p := &fakePinger{echo: 5 * time.Millisecond, ok: true}
	got := NewSampler(p, 4*time.Millisecond).Measure()
	assert.False(t, got.Valid)
}

func TestSampleString(t *testing.T) {
	p := &fakePinger{echo: 3399500 * time.Nanosecond, ok: true}
	got := NewSampler(p, 0).Measure()
	require.True(t, got.Valid)
	assert.Equal(t, "58.30", got.String())
	assert.Equal(t, "OUT_OF_RANGE", OutOfRange.String())
}

func TestCentimetersRoundTrip(t *testing.T) {
	for _, cm := range []float64{2.5, 30, 58.3, 250, 399} {
		assert.InDelta(t, cm, EchoToCentimeters(CentimetersToEcho(cm)), 1e-3)
	}
}

func TestPingerFunc(t *testing.T) {
	var seen time.Duration
	p := PingerFunc(func(timeout time.Duration) (time.Duration, bool) {
		seen = timeout
		return 0, false
	})
	s := NewSampler(p, 10*time.Millisecond)
	assert.Equal(t, OutOfRange, s.Measure())
	assert.Equal(t, 10*time.Millisecond, seen)
	assert.Equal(t, 10*time.Millisecond, s.Timeout())
}
