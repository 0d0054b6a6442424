package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"sonar-radar.klederson.com/internal/command"
	"sonar-radar.klederson.com/internal/config"
	"sonar-radar.klederson.com/internal/hw"
	"sonar-radar.klederson.com/internal/logging"
	"sonar-radar.klederson.com/internal/ranging"
	"sonar-radar.klederson.com/internal/report"
	"sonar-radar.klederson.com/internal/scan"
	"sonar-radar.klederson.com/internal/serialport"
	"sonar-radar.klederson.com/internal/sim"
	"sonar-radar.klederson.com/internal/sweep"
)

type scanFlags struct {
	gpio       bool
	pins       hw.Pins
	seed       int64
	port       string
	baud       int
	min        int
	max        int
	step       int
	settle     time.Duration
	settleSet  bool
	interval   time.Duration
	style      string
	exitOnHalt bool
	quiet      bool
	logLevel   string
}

func newScanCmd() *cobra.Command {
	f := scanFlags{pins: hw.DefaultPins()}
	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Drive the sensor head and write the report stream",
		Long: `Scan points the sensor head at each angle of the sweep, measures the distance
and writes "angle,distance_cm" (or "angle,OUT_OF_RANGE") per step.

The report stream goes to stdout and commands are read from stdin, or both use
the serial port given with --port. Diagnostics go to stderr.

Without --gpio the head is simulated.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			f.settleSet = cmd.Flags().Changed("settle")
			return runScan(cmd.Context(), f)
		},
	}

	fl := cmd.Flags()
	fl.BoolVar(&f.gpio, "gpio", false, "Use a real HC-SR04 and servo on GPIO pins")
	fl.StringVar(&f.pins.Trigger, "trigger", f.pins.Trigger, "GPIO pin wired to the sensor trigger")
	fl.StringVar(&f.pins.Echo, "echo", f.pins.Echo, "GPIO pin wired to the sensor echo")
	fl.StringVar(&f.pins.Servo, "servo", f.pins.Servo, "PWM-capable GPIO pin wired to the servo")
	fl.Int64Var(&f.seed, "seed", 0, "Seed for the simulated scene (0 picks one)")
	fl.StringVar(&f.port, "port", "", `Serial port for reports and commands, "auto" to detect (default stdout/stdin)`)
	fl.IntVar(&f.baud, "baud", config.BaudRate, "Serial baud rate")
	fl.IntVar(&f.min, "min", config.MinAngle, "Lower sweep bound in degrees")
	fl.IntVar(&f.max, "max", config.MaxAngle, "Upper sweep bound in degrees")
	fl.IntVar(&f.step, "step", config.Step, "Degrees per step")
	fl.DurationVar(&f.settle, "settle", config.SettleDelay, "Wait after moving the servo before measuring")
	fl.DurationVar(&f.interval, "interval", 0, "Extra idle between steps")
	fl.StringVar(&f.style, "style", sweep.Bounce.String(), "Sweep style: bounce or wipe")
	fl.BoolVar(&f.exitOnHalt, "exit-on-halt", false, "Exit after STOP instead of idling")
	fl.BoolVar(&f.quiet, "no-direction", false, "Do not announce direction changes")
	fl.StringVar(&f.logLevel, "log-level", "info", "Log level: debug, info, warn, error")
	return cmd
}

// scanConfig maps flags onto the loop configuration. A wipe sweep settles
// faster unless --settle was given.
func (f scanFlags) scanConfig() (scan.Config, error) {
	style, err := sweep.ParseStyle(f.style)
	if err != nil {
		return scan.Config{}, err
	}
	cfg := scan.DefaultConfig()
	cfg.Sweep = sweep.Config{Min: f.min, Max: f.max, Step: f.step, Style: style}
	cfg.Settle = f.settle
	if style == sweep.Wipe && !f.settleSet {
		cfg.Settle = config.WipeSettleDelay
	}
	cfg.Interval = f.interval
	cfg.ExitOnHalt = f.exitOnHalt
	cfg.AnnounceReversals = !f.quiet
	return cfg, cfg.Validate()
}

func runScan(parent context.Context, f scanFlags) error {
	log, err := logging.New(f.logLevel, os.Stderr)
	if err != nil {
		return err
	}
	cfg, err := f.scanConfig()
	if err != nil {
		return err
	}

	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	act, pinger, release, err := openHead(f, log)
	if err != nil {
		return err
	}
	defer release()

	var (
		out io.Writer = os.Stdout
		in  io.Reader = os.Stdin
	)
	if f.port != "" {
		if f.port == "auto" {
			detected, err := serialport.Detect()
			if err != nil {
				return err
			}
			f.port = detected
		}
		port, err := serialport.Open(f.port, serialport.PortOptions{BaudRate: f.baud}, 100*time.Millisecond)
		if err != nil {
			return err
		}
		defer port.Close()
		out, in = port, port
		log.Infof("reporting on %s at %d baud", f.port, f.baud)
	}

	cmds := command.NewLineBuffer(0, 0)
	go func() {
		if err := command.Pump(ctx, in, cmds); err != nil && !errors.Is(err, context.Canceled) {
			log.Warnf("command input closed: %v", err)
		}
	}()

	loop, err := scan.New(cfg, act, ranging.NewSampler(pinger, config.EchoTimeout),
		report.NewTextSink(out, log), cmds, scan.WithLogger(log), scan.WithSleeper(clock.New()))
	if err != nil {
		return err
	}

	log.WithFields(logrus.Fields{
		"min":    cfg.Sweep.Min,
		"max":    cfg.Sweep.Max,
		"step":   cfg.Sweep.Step,
		"style":  cfg.Sweep.Style,
		"settle": cfg.Settle,
	}).Info("scan starting")

	err = loop.Run(ctx)
	log.Infof("scan stopped after %d steps (%s)", loop.Ticks(), loop.Status())
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// openHead returns the actuator and pinger for the selected backend and a
// function releasing them.
func openHead(f scanFlags, log *logrus.Logger) (scan.Actuator, ranging.Pinger, func(), error) {
	if f.gpio {
		h, err := hw.Open(f.pins, log)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("open gpio head: %w", err)
		}
		release := func() {
			if err := h.Servo.Release(); err != nil {
				log.Warnf("release servo: %v", err)
			}
		}
		return h.Servo, h.Sensor, release, nil
	}

	seed := f.seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))
	head := sim.NewHead(sim.RandomScene(rng), sim.DefaultOptions(), rng)
	log.Debugf("simulated head with %d obstacles (seed %d)", len(head.Scene().Obstacles), seed)
	return head, head, func() {}, nil
}
