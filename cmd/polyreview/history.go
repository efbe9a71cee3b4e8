package main

import (
	"fmt"
	"io"
	"log/slog"
	"strconv"

	"github.com/Veraticus/polyreview/internal/cli"
	"github.com/Veraticus/polyreview/internal/model"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

func historyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List previous pipeline runs",
		Long: `List runs recorded in the history database, newest first.

The ID column can be passed to 'polyreview report --run' or
'polyreview dashboard --run'.`,
		RunE: runHistory,
	}

	cmd.Flags().IntP("limit", "n", 20, "maximum number of runs to show")

	return cmd
}

func runHistory(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	limit, _ := cmd.Flags().GetInt("limit")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	store, err := initStorage(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := store.Close(); closeErr != nil {
			slog.Error("Failed to close database", "error", closeErr)
		}
	}()

	runs, err := store.ListRuns(ctx, limit)
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}

	out := cmd.OutOrStdout()
	if len(runs) == 0 {
		fmt.Fprintln(out, cli.FormatInfo("No runs recorded yet. Run 'polyreview run' to process reviews."))
		return nil
	}

	fmt.Fprintln(out, cli.FormatTitle("Run history"))
	renderRuns(out, runs)
	return nil
}

func renderRuns(w io.Writer, runs []model.Run) {
	rows := [][]string{{"ID", "STARTED", "STATUS", "REVIEWS", "FAILED", "OUTPUT"}}
	for _, r := range runs {
		status := "running"
		if r.Finished() {
			status = "finished"
		}
		rows = append(rows, []string{
			shortID(r.ID),
			r.StartedAt.Local().Format("2006-01-02 15:04:05"),
			status,
			strconv.Itoa(r.Total),
			strconv.Itoa(r.Failed),
			r.OutputPath,
		})
	}

	widths := make([]int, len(rows[0]))
	for _, row := range rows {
		for i, cell := range row {
			widths[i] = max(widths[i], lipgloss.Width(cell))
		}
	}

	for i, row := range rows {
		cells := make([]string, len(row))
		for j, cell := range row {
			style := cli.TableCellStyle.Width(widths[j] + 2)
			if i == 0 {
				style = style.Bold(true)
			}
			cells[j] = style.Render(cell)
		}
		fmt.Fprintln(w, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
}
