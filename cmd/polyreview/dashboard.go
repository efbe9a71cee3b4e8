package main

import (
	"github.com/Veraticus/polyreview/internal/tui"
	"github.com/Veraticus/polyreview/internal/tui/themes"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func dashboardCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Explore processed reviews interactively",
		Long: `Open an interactive dashboard over an enriched review table.

Toggle languages on and off to see how positivity per product and the
language mix change, and browse the individual reviews.`,
		RunE: runDashboard,
	}

	cmd.Flags().StringP("input", "i", "", "enriched table to read (default from data.output)")
	cmd.Flags().String("run", "", "read a stored run instead of a table (ID, ID prefix, or 'latest')")
	cmd.Flags().String("theme", "default", "color theme (default, catppuccin-mocha)")

	_ = viper.BindPFlag("dashboard.theme", cmd.Flags().Lookup("theme"))

	return cmd
}

func runDashboard(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	input, _ := cmd.Flags().GetString("input")
	runRef, _ := cmd.Flags().GetString("run")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	// The dashboard handles its own interrupts.
	set, err := loadReviewSet(ctx, cfg, input, runRef, nil)
	if err != nil {
		return err
	}

	return tui.Run(ctx, set.rows,
		tui.WithSource(set.source),
		tui.WithTheme(themes.GetTheme(viper.GetString("dashboard.theme"))),
	)
}
