// Package hw drives a real sensor head from a Linux single-board computer:
// an HC-SR04 ultrasonic module and a hobby servo on GPIO pins.
package hw

import (
	"fmt"
	"time"

	"github.com/benbjohnson/clock"
	"periph.io/x/conn/v3/gpio"
)

const (
	triggerSettle = 2 * time.Microsecond
	triggerPulse  = 10 * time.Microsecond
)

// HCSR04 is an ultrasonic ranging module. It implements ranging.Pinger.
//
// Datasheet: https://cdn.sparkfun.com/datasheets/Sensors/Proximity/HCSR04.pdf
type HCSR04 struct {
	trigger gpio.PinIO
	echo    gpio.PinIO
	clock   clock.Clock
	log     Logger
}

// NewHCSR04 prepares the trigger as a low output and the echo as a
// pulled-down input.
func NewHCSR04(trigger, echo gpio.PinIO, clk clock.Clock, log Logger) (*HCSR04, error) {
	if trigger == nil || echo == nil {
		return nil, fmt.Errorf("hc-sr04 needs both trigger and echo pins")
	}
	if clk == nil {
		clk = clock.New()
	}
	if log == nil {
		log = nopLogger{}
	}
	if err := trigger.Out(gpio.Low); err != nil {
		return nil, fmt.Errorf("configure trigger %s: %w", trigger, err)
	}
	if err := echo.In(gpio.PullDown, gpio.NoEdge); err != nil {
		return nil, fmt.Errorf("configure echo %s: %w", echo, err)
	}
	return &HCSR04{trigger: trigger, echo: echo, clock: clk, log: log}, nil
}

// Ping fires one 10µs trigger pulse and times the echo pulse. Both the wait
// for the echo to rise and its width are bounded by timeout.
func (s *HCSR04) Ping(timeout time.Duration) (time.Duration, bool) {
	if err := s.echo.In(gpio.PullDown, gpio.RisingEdge); err != nil {
		s.log.Warnf("arm echo rising edge: %v", err)
		return 0, false
	}

	if err := s.trigger.Out(gpio.Low); err != nil {
		s.log.Warnf("trigger low: %v", err)
		return 0, false
	}
	s.clock.Sleep(triggerSettle)
	if err := s.trigger.Out(gpio.High); err != nil {
		s.log.Warnf("trigger high: %v", err)
		return 0, false
	}
	s.clock.Sleep(triggerPulse)
	if err := s.trigger.Out(gpio.Low); err != nil {
		s.log.Warnf("trigger low: %v", err)
		return 0, false
	}

	if !s.echo.WaitForEdge(timeout) {
		return 0, false
	}
	start := s.clock.Now()

	if err := s.echo.In(gpio.PullDown, gpio.FallingEdge); err != nil {
		s.log.Warnf("arm echo falling edge: %v", err)
		return 0, false
	}
	if !s.echo.WaitForEdge(timeout) {
		return 0, false
	}
	return s.clock.Since(start), true
}
