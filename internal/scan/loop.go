// Package scan drives the sensor head: once per tick it points the actuator,
// samples distance, reports the pair, advances the sweep and polls for a
// halt command. Everything runs on the caller's goroutine, one tick at a time.
package scan

import (
	"context"
	"fmt"
	"time"

	"sonar-radar.klederson.com/internal/config"
	"sonar-radar.klederson.com/internal/ranging"
	"sonar-radar.klederson.com/internal/report"
	"sonar-radar.klederson.com/internal/sweep"
)

// Actuator points the sensor head. Commands are fire-and-forget.
type Actuator interface {
	SetAngle(angle int)
}

// Measurer produces one distance sample.
type Measurer interface {
	Measure() ranging.Sample
}

// Sink receives records and notices.
type Sink interface {
	Emit(r report.Record)
	Notice(text string)
}

// CommandSource is a non-blocking line input.
type CommandSource interface {
	Available() bool
	ReadLine() string
}

// Sleeper performs bounded waits.
type Sleeper interface {
	Sleep(d time.Duration)
}

// Logger is the subset of a structured logger the loop uses.
type Logger interface {
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
}

// Status is the loop state.
type Status int

const (
	Running Status = iota
	Halted
)

func (s Status) String() string {
	if s == Halted {
		return "Halted"
	}
	return "Running"
}

// Config fixes the loop behavior at startup.
type Config struct {
	Sweep             sweep.Config
	Settle            time.Duration // Wait between commanding the actuator and sampling
	Interval          time.Duration // Extra idle between ticks in Run
	HaltToken         string
	AnnounceReversals bool
	ExitOnHalt        bool // Run returns after a halt instead of idling
}

// DefaultConfig returns the compile-time loop configuration.
func DefaultConfig() Config {
	return Config{
		Sweep:             sweep.DefaultConfig(),
		Settle:            config.SettleDelay,
		HaltToken:         config.HaltToken,
		AnnounceReversals: true,
	}
}

// Validate checks the configuration.
func (c Config) Validate() error {
	if err := c.Sweep.Validate(); err != nil {
		return err
	}
	if c.Settle < 0 {
		return fmt.Errorf("settle delay %s must not be negative", c.Settle)
	}
	if c.Interval < 0 {
		return fmt.Errorf("tick interval %s must not be negative", c.Interval)
	}
	if c.HaltToken == "" {
		return fmt.Errorf("halt token must not be empty")
	}
	return nil
}

// Loop is the scan state machine.
type Loop struct {
	cfg      Config
	ctrl     *sweep.Controller
	actuator Actuator
	measurer Measurer
	sink     Sink
	commands CommandSource
	sleeper  Sleeper
	log      Logger

	state   sweep.State
	status  Status
	ticks   uint64
	started bool
}

// Option customizes a Loop.
type Option func(*Loop)

// WithSleeper replaces the default time.Sleep based waits.
func WithSleeper(s Sleeper) Option {
	return func(l *Loop) { l.sleeper = s }
}

// WithLogger sets the diagnostic logger.
func WithLogger(log Logger) Option {
	return func(l *Loop) { l.log = log }
}

// New validates cfg and builds a Loop in the Running state.
func New(cfg Config, act Actuator, m Measurer, sink Sink, cmds CommandSource, opts ...Option) (*Loop, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid scan config: %w", err)
	}
	ctrl, err := sweep.NewController(cfg.Sweep)
	if err != nil {
		return nil, err
	}
	l := &Loop{
		cfg:      cfg,
		ctrl:     ctrl,
		actuator: act,
		measurer: m,
		sink:     sink,
		commands: cmds,
		sleeper:  sleepFunc(time.Sleep),
		log:      nopLogger{},
		state:    ctrl.InitialState(),
		status:   Running,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l, nil
}

// Status returns the current loop state.
func (l *Loop) Status() Status { return l.status }

// Angle returns the angle the next tick will command.
func (l *Loop) Angle() int { return l.state.Angle }

// Direction returns the current sweep direction.
func (l *Loop) Direction() sweep.Direction { return l.state.Direction }

// Ticks returns the number of tick bodies executed.
func (l *Loop) Ticks() uint64 { return l.ticks }

// Start emits the banner. Only the first call has an effect.
func (l *Loop) Start() {
	if l.started {
		return
	}
	l.started = true
	for _, line := range report.Banner(report.BannerInfo{
		Name:      config.AppName,
		Version:   config.AppVersion,
		MinAngle:  l.cfg.Sweep.Min,
		MaxAngle:  l.cfg.Sweep.Max,
		Step:      l.cfg.Sweep.Step,
		Settle:    l.cfg.Settle,
		Style:     l.cfg.Sweep.Style.String(),
		HaltToken: l.cfg.HaltToken,
		Direction: l.state.Direction,
	}) {
		l.sink.Notice(line)
	}
}

// Tick runs one tick body and reports whether the loop is still running.
// A halted loop does nothing.
func (l *Loop) Tick() bool {
	if l.status == Halted {
		return false
	}

	angle := l.state.Angle
	l.actuator.SetAngle(angle)
	if l.cfg.Settle > 0 {
		l.sleeper.Sleep(l.cfg.Settle)
	}

	sample := l.measurer.Measure()
	l.sink.Emit(report.Record{Angle: angle, Sample: sample})

	next, ev := l.ctrl.Advance(&l.state)
	if ev != sweep.None {
		l.log.Debugf("sweep %s at %d deg, next %d deg heading %s", eventName(ev), angle, next, l.state.Direction)
		if l.cfg.AnnounceReversals {
			l.sink.Notice(report.DirectionNotice(l.state.Direction))
		}
	}
	l.ticks++

	l.pollCommand()
	return l.status == Running
}

// pollCommand drains every complete line waiting and halts if any of them is
// the halt token. Lines after the token are discarded with the loop.
func (l *Loop) pollCommand() {
	if l.commands == nil {
		return
	}
	for l.commands.Available() {
		line := l.commands.ReadLine()
		if line != l.cfg.HaltToken {
			if line != "" {
				l.log.Debugf("ignoring command %q", line)
			}
			continue
		}
		l.status = Halted
		l.log.Infof("halt command received after %d ticks at %d deg", l.ticks, l.state.Angle)
		l.sink.Notice(report.HaltedNotice(l.cfg.HaltToken))
		return
	}
}

// Run emits the banner and ticks until halted or ctx ends. After a halt it
// returns nil when ExitOnHalt is set and otherwise idles until ctx ends.
func (l *Loop) Run(ctx context.Context) error {
	l.Start()
	for l.status == Running {
		if err := ctx.Err(); err != nil {
			return err
		}
		if !l.Tick() {
			break
		}
		if l.cfg.Interval > 0 {
			l.sleeper.Sleep(l.cfg.Interval)
		}
	}
	if l.cfg.ExitOnHalt {
		return nil
	}
	<-ctx.Done()
	return ctx.Err()
}

func eventName(ev sweep.Event) string {
	if ev == sweep.Reset {
		return "reset"
	}
	return "reversed"
}

type sleepFunc func(time.Duration)

func (f sleepFunc) Sleep(d time.Duration) { f(d) }

type nopLogger struct{}

func (nopLogger) Debugf(string, ...interface{}) {}
func (nopLogger) Infof(string, ...interface{})  {}
func (nopLogger) Warnf(string, ...interface{})  {}
