package main

import (
	"fmt"
	"log/slog"

	"github.com/Veraticus/polyreview/internal/analytics"
	"github.com/Veraticus/polyreview/internal/cli"
	"github.com/Veraticus/polyreview/internal/config"
	"github.com/Veraticus/polyreview/internal/report"
	"github.com/Veraticus/polyreview/internal/sheets"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func reportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Summarize processed reviews",
		Long: `Aggregate an enriched review table and name the product customers like best.

Reads the output of 'polyreview run' (or a run stored in the history
database) and reports positivity per product and the language mix.

Examples:
  polyreview report
  polyreview report --format json
  polyreview report --run latest --languages de,fr
  polyreview report --export-sheets`,
		RunE: runReport,
	}

	// Flags
	cmd.Flags().StringP("input", "i", "", "enriched table to read (default from data.output)")
	cmd.Flags().String("run", "", "read a stored run instead of a table (ID, ID prefix, or 'latest')")
	cmd.Flags().StringP("format", "f", string(report.FormatTable), "output format (table, json, yaml, csv)")
	cmd.Flags().StringSlice("languages", nil, "only include reviews detected in these languages")
	cmd.Flags().Bool("export-sheets", false, "also export the report to Google Sheets")

	return cmd
}

func runReport(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	input, _ := cmd.Flags().GetString("input")
	runRef, _ := cmd.Flags().GetString("run")
	formatName, _ := cmd.Flags().GetString("format")
	languages, _ := cmd.Flags().GetStringSlice("languages")
	exportSheets, _ := cmd.Flags().GetBool("export-sheets")

	format, err := report.ParseFormat(formatName)
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	set, err := loadReviewSet(ctx, cfg, input, runRef, languages)
	if err != nil {
		return err
	}

	agg := analytics.New(set.rows)
	if len(languages) > 0 {
		agg = agg.Filter(languages)
	}

	rep := report.Build(agg, set.source, languages)
	if err := report.Render(cmd.OutOrStdout(), rep, format); err != nil {
		return fmt.Errorf("failed to render report: %w", err)
	}

	if !exportSheets {
		return nil
	}

	sheetsCfg, err := config.LoadSheetsConfig(viper.GetViper())
	if err != nil {
		return fmt.Errorf("google sheets is not configured: %w", err)
	}
	writer, err := sheets.NewWriter(ctx, *sheetsCfg, slog.Default())
	if err != nil {
		return fmt.Errorf("failed to create sheets writer: %w", err)
	}
	spreadsheetID, err := writer.Write(ctx, rep)
	if err != nil {
		return fmt.Errorf("failed to export to google sheets: %w", err)
	}

	fmt.Fprintln(cmd.ErrOrStderr(), cli.FormatSuccess(
		"Exported to https://docs.google.com/spreadsheets/d/"+spreadsheetID))
	return nil
}
