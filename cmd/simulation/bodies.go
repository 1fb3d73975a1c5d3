package main

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
)

var bodiesCmd = &cobra.Command{
	Use:   "bodies",
	Short: "List the configured bodies",
	RunE: func(cmd *cobra.Command, _ []string) error {
		headerStyle := lipgloss.NewStyle().Bold(true).Padding(0, 1)
		cellStyle := lipgloss.NewStyle().Padding(0, 1)

		t := table.New().
			Border(lipgloss.NormalBorder()).
			Headers("Name", "Position (AU)", "Velocity (km/s)", "Mass (kg)", "Radius", "Color", "Anchor").
			StyleFunc(func(row, col int) lipgloss.Style {
				if row == table.HeaderRow {
					return headerStyle
				}
				return cellStyle
			})

		for _, b := range cfg.Bodies {
			anchor := ""
			if b.Anchor {
				anchor = "yes"
			}
			t.Row(
				b.Name,
				fmt.Sprintf("%g, %g", b.PositionAU[0], b.PositionAU[1]),
				fmt.Sprintf("%g, %g", b.VelocityKMS[0], b.VelocityKMS[1]),
				fmt.Sprintf("%.4e", b.Mass),
				strconv.FormatFloat(b.Radius, 'g', -1, 64),
				lipgloss.NewStyle().Foreground(lipgloss.Color(b.Color)).Render(b.Color),
				anchor,
			)
		}

		fmt.Fprintln(cmd.OutOrStdout(), t.Render())
		return nil
	},
}
