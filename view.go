package main

import (
	"errors"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/benbjohnson/clock"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"sonar-radar.klederson.com/internal/app"
	"sonar-radar.klederson.com/internal/config"
	"sonar-radar.klederson.com/internal/feed"
	"sonar-radar.klederson.com/internal/logging"
	"sonar-radar.klederson.com/internal/serialport"
)

var (
	flagDemo  bool
	flagPort  string
	flagBaud  int
	flagRange float64
	flagSeed  int64
)

func newViewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "view",
		Short: "Show the report stream on a terminal radar",
		Long: `View reads the report stream of a scanner controller and draws it on a
half-circle radar. Readings within --range fade out after 15 seconds.

Press X to send STOP to the controller, P to pause, C to clear and Q to quit.
Use --demo to watch a simulated scanner without hardware.`,
		RunE: runView,
	}

	cmd.Flags().BoolVar(&flagDemo, "demo", false, "Run a simulated scanner in-process (no hardware required)")
	cmd.Flags().StringVar(&flagPort, "port", "auto", `Serial port of the controller, or "auto" to detect it`)
	cmd.Flags().IntVar(&flagBaud, "baud", config.BaudRate, "Serial baud rate")
	cmd.Flags().Float64Var(&flagRange, "range", config.DisplayRange, "Radar range in centimeters")
	cmd.Flags().Int64Var(&flagSeed, "seed", 0, "Seed for the demo scene (0 picks one)")
	return cmd
}

func runView(cmd *cobra.Command, args []string) error {
	src, err := openFeed()
	if err != nil {
		if errors.Is(err, serialport.ErrNoController) {
			fmt.Fprintf(os.Stderr, "\nError: %v\n\n", err)
			fmt.Fprintln(os.Stderr, "Connect the controller over USB, or try one of:")
			fmt.Fprintln(os.Stderr, "  sonar-radar ports              (list serial ports)")
			fmt.Fprintln(os.Stderr, "  sonar-radar view --port PATH")
			fmt.Fprintln(os.Stderr, "  sonar-radar view --demo        (demo mode, no hardware needed)")
		}
		return err
	}

	model := app.New(src, flagRange, clock.New())

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithFPS(30),
	)

	// Start the feed with a reference to the tea program
	if err := model.StartSource(p); err != nil {
		return err
	}
	defer src.Stop()

	_, err = p.Run()
	return err
}

func openFeed() (feed.Source, error) {
	// The terminal belongs to the display; feeds log nowhere
	log := logging.Discard()

	if flagDemo {
		seed := flagSeed
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		return feed.NewDemoSource(feed.DemoConfig(), rand.New(rand.NewSource(seed)), log)
	}

	path := flagPort
	if path == "" || path == "auto" {
		detected, err := serialport.Detect()
		if err != nil {
			return nil, err
		}
		path = detected
	}
	port, err := serialport.Open(path, serialport.PortOptions{BaudRate: flagBaud}, 0)
	if err != nil {
		return nil, err
	}
	return feed.NewReaderSource(path, port, port, port, log), nil
}
