package hw

import (
	"fmt"

	"github.com/benbjohnson/clock"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"
)

// Logger is the subset of a structured logger the drivers use.
type Logger interface {
	Warnf(format string, args ...interface{})
}

type nopLogger struct{}

func (nopLogger) Warnf(string, ...interface{}) {}

// Pins names the GPIO lines of the sensor head, in the form gpioreg.ByName
// accepts (e.g. "GPIO23" or "23" on a Raspberry Pi).
type Pins struct {
	Trigger string
	Echo    string
	Servo   string
}

// DefaultPins is the wiring used on a Raspberry Pi header.
func DefaultPins() Pins {
	return Pins{Trigger: "GPIO23", Echo: "GPIO24", Servo: "GPIO18"}
}

// Head bundles the drivers of a wired sensor head.
type Head struct {
	Servo  *Servo
	Sensor *HCSR04
}

// Open initializes the host drivers and claims the named pins.
func Open(pins Pins, log Logger) (*Head, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("init host drivers: %w", err)
	}
	return OpenPins(pins, gpioreg.ByName, log)
}

// OpenPins builds a Head resolving pin names through byName.
func OpenPins(pins Pins, byName func(string) gpio.PinIO, log Logger) (*Head, error) {
	trigger, err := lookup(byName, "trigger", pins.Trigger)
	if err != nil {
		return nil, err
	}
	echo, err := lookup(byName, "echo", pins.Echo)
	if err != nil {
		return nil, err
	}
	servoPin, err := lookup(byName, "servo", pins.Servo)
	if err != nil {
		return nil, err
	}

	sensor, err := NewHCSR04(trigger, echo, clock.New(), log)
	if err != nil {
		return nil, err
	}
	servo, err := NewServo(servoPin, log)
	if err != nil {
		return nil, err
	}
	return &Head{Servo: servo, Sensor: sensor}, nil
}

func lookup(byName func(string) gpio.PinIO, role, name string) (gpio.PinIO, error) {
	if name == "" {
		return nil, fmt.Errorf("no %s pin configured", role)
	}
	p := byName(name)
	if p == nil {
		return nil, fmt.Errorf("no GPIO %s pin named %q", role, name)
	}
	return p, nil
}
