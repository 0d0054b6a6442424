package main

import (
	"os"

	"github.com/spf13/cobra"

	"sonar-radar.klederson.com/internal/config"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "sonar-radar",
		Short: "Sonar Radar - ultrasonic sweep scanner with a terminal radar display",
		Long: `Sonar Radar sweeps an ultrasonic distance sensor across a half circle on a
servo and reports one "angle,distance" line per step.

  scan   drive a sensor head (simulated or on GPIO) and write the report stream
  view   show a report stream from a serial port on a half-circle ASCII radar
  ports  list serial ports and the one that looks like the controller

Send STOP on the command channel to halt a running scan.`,
		Version:       config.AppVersion,
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	rootCmd.AddCommand(newScanCmd(), newViewCmd(), newPortsCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
