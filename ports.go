package main

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"sonar-radar.klederson.com/internal/serialport"
	"sonar-radar.klederson.com/internal/ui"
)

func newPortsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ports",
		Short: "List serial ports, best controller candidate first",
		RunE: func(cmd *cobra.Command, args []string) error {
			candidates, err := serialport.List()
			if err != nil {
				return fmt.Errorf("list serial ports: %w", err)
			}
			out := cmd.OutOrStdout()
			if len(candidates) == 0 {
				fmt.Fprintln(out, "No serial ports found")
				return nil
			}

			nameW := 0
			for _, c := range candidates {
				nameW = max(nameW, lipgloss.Width(c.Name))
			}
			for i, c := range candidates {
				marker := "  "
				if i == 0 && c.Score >= 2 {
					marker = ui.StyleValue.Render("* ")
				}
				ids := ""
				if c.VID != "" {
					ids = c.VID + ":" + c.PID
				}
				desc := c.Product
				if v := c.Vendor(); v != "" && desc == "" {
					desc = v
				}
				fmt.Fprintf(out, "%s%-*s  %-9s  %s\n", marker, nameW, c.Name, ids, ui.StyleHelp.Render(desc))
			}
			return nil
		},
	}
}
