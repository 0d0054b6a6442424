package hw

import (
	"fmt"
	"sync"
	"time"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"

	"sonar-radar.klederson.com/internal/config"
)

// Standard hobby servo timing.
const (
	ServoFrequency = 50 * physic.Hertz
	ServoPeriod    = 20 * time.Millisecond
	MinPulse       = 500 * time.Microsecond
	MaxPulse       = 2500 * time.Microsecond
)

// Servo positions a hobby servo through a PWM-capable pin. It implements
// the scan loop's Actuator.
type Servo struct {
	mu    sync.Mutex
	pin   gpio.PinIO
	log   Logger
	angle int
}

// NewServo returns a servo on pin.
func NewServo(pin gpio.PinIO, log Logger) (*Servo, error) {
	if pin == nil {
		return nil, fmt.Errorf("servo needs a pin")
	}
	if log == nil {
		log = nopLogger{}
	}
	return &Servo{pin: pin, log: log, angle: -1}, nil
}

// Pulse maps an angle in [0, 180] linearly onto [MinPulse, MaxPulse].
func Pulse(angle int) time.Duration {
	switch {
	case angle < config.MinAngle:
		angle = config.MinAngle
	case angle > config.MaxAngle:
		angle = config.MaxAngle
	}
	span := MaxPulse - MinPulse
	return MinPulse + span*time.Duration(angle)/config.MaxAngle
}

// Duty is the PWM duty cycle producing pulse at ServoFrequency.
func Duty(pulse time.Duration) gpio.Duty {
	return gpio.Duty(int64(gpio.DutyMax) * int64(pulse) / int64(ServoPeriod))
}

// SetAngle commands the servo. Failures are logged; the servo has no
// position feedback so there is nothing to retry against.
func (s *Servo) SetAngle(angle int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.pin.PWM(Duty(Pulse(angle)), ServoFrequency); err != nil {
		s.log.Warnf("servo %s to %d deg: %v", s.pin, angle, err)
		return
	}
	s.angle = angle
}

// Angle returns the last successfully commanded angle, or -1.
func (s *Servo) Angle() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.angle
}

// Release stops the PWM output.
func (s *Servo) Release() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pin.Halt()
}
