package hw

import (
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpiotest"

	"sonar-radar.klederson.com/internal/ranging"
)

func newPins() (trigger, echo *gpiotest.Pin) {
	trigger = &gpiotest.Pin{N: "GPIO23", Num: 23}
	echo = &gpiotest.Pin{N: "GPIO24", Num: 24, EdgesChan: make(chan gpio.Level, 4)}
	return trigger, echo
}

// armedPin reports each edge the driver arms. gpiotest.Pin.In flushes
// queued edges, so edges must be injected after arming.
type armedPin struct {
	*gpiotest.Pin
	armed chan gpio.Edge
}

func (p *armedPin) In(pull gpio.Pull, edge gpio.Edge) error {
	if err := p.Pin.In(pull, edge); err != nil {
		return err
	}
	if edge != gpio.NoEdge {
		p.armed <- edge
	}
	return nil
}

func TestPingTimesEchoPulse(t *testing.T) {
	const width = 2 * time.Millisecond

	trigger, pin := newPins()
	echo := &armedPin{Pin: pin, armed: make(chan gpio.Edge, 2)}
	s, err := NewHCSR04(trigger, echo, clock.New(), nil)
	require.NoError(t, err)

	go func() {
		if <-echo.armed != gpio.RisingEdge {
			return
		}
		pin.EdgesChan <- gpio.High
		if <-echo.armed != gpio.FallingEdge {
			return
		}
		time.Sleep(width)
		pin.EdgesChan <- gpio.Low
	}()

	d, ok := s.Ping(time.Second)
	require.True(t, ok)
	assert.GreaterOrEqual(t, d, width)
	assert.Less(t, d, width+200*time.Millisecond)
	assert.Equal(t, gpio.Low, trigger.Read())
	assert.Equal(t, gpio.Low, pin.Read())
	assert.Equal(t, gpio.PullDown, pin.P)
}

func TestPingWithoutEchoTimesOut(t *testing.T) {
	trigger, echo := newPins()
	s, err := NewHCSR04(trigger, echo, nil, nil)
	require.NoError(t, err)

	_, ok := s.Ping(2 * time.Millisecond)
	assert.False(t, ok)
}

func TestPingWithoutFallingEdgeTimesOut(t *testing.T) {
	trigger, echo := newPins()
	s, err := NewHCSR04(trigger, echo, nil, nil)
	require.NoError(t, err)

	echo.EdgesChan <- gpio.High
	_, ok := s.Ping(2 * time.Millisecond)
	assert.False(t, ok)
}

func TestSamplerOverSilentSensorIsOutOfRange(t *testing.T) {
	trigger, echo := newPins()
	s, err := NewHCSR04(trigger, echo, nil, nil)
	require.NoError(t, err)

	assert.Equal(t, ranging.OutOfRange, ranging.NewSampler(s, 2*time.Millisecond).Measure())
}

func TestNewHCSR04NeedsPins(t *testing.T) {
	_, err := NewHCSR04(nil, &gpiotest.Pin{}, nil, nil)
	assert.Error(t, err)
}

func TestPulse(t *testing.T) {
	assert.Equal(t, 500*time.Microsecond, Pulse(0))
	assert.Equal(t, 1500*time.Microsecond, Pulse(90))
	assert.Equal(t, 2500*time.Microsecond, Pulse(180))
	assert.Equal(t, 500*time.Microsecond, Pulse(-20))
	assert.Equal(t, 2500*time.Microsecond, Pulse(270))
}

func TestDuty(t *testing.T) {
	assert.Equal(t, gpio.DutyMax/40, Duty(500*time.Microsecond))
	assert.Equal(t, gpio.DutyMax/8, Duty(2500*time.Microsecond))
	assert.Equal(t, gpio.DutyMax, Duty(ServoPeriod))
}

func TestServoSetAngle(t *testing.T) {
	pin := &gpiotest.Pin{N: "GPIO18", Num: 18}
	s, err := NewServo(pin, nil)
	require.NoError(t, err)
	assert.Equal(t, -1, s.Angle())

	s.SetAngle(90)

	assert.Equal(t, 90, s.Angle())
	assert.Equal(t, Duty(1500*time.Microsecond), pin.D)
	assert.Equal(t, ServoFrequency, pin.F)
}

func TestOpenPins(t *testing.T) {
	registry := map[string]gpio.PinIO{
		"GPIO23": &gpiotest.Pin{N: "GPIO23", Num: 23},
		"GPIO24": &gpiotest.Pin{N: "GPIO24", Num: 24},
		"GPIO18": &gpiotest.Pin{N: "GPIO18", Num: 18},
	}
	byName := func(name string) gpio.PinIO { return registry[name] }

	h, err := OpenPins(DefaultPins(), byName, nil)
	require.NoError(t, err)
	assert.NotNil(t, h.Servo)
	assert.NotNil(t, h.Sensor)

	pins := DefaultPins()
	pins.Echo = "GPIO99"
	_, err = OpenPins(pins, byName, nil)
	assert.ErrorContains(t, err, "GPIO99")

	pins = DefaultPins()
	pins.Servo = ""
	_, err = OpenPins(pins, byName, nil)
	assert.Error(t, err)
}
