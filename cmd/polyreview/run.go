package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/Veraticus/polyreview/internal/analytics"
	"github.com/Veraticus/polyreview/internal/cli"
	"github.com/Veraticus/polyreview/internal/common"
	"github.com/Veraticus/polyreview/internal/config"
	"github.com/Veraticus/polyreview/internal/metrics"
	"github.com/Veraticus/polyreview/internal/pipeline"
	"github.com/Veraticus/polyreview/internal/report"
	"github.com/Veraticus/polyreview/internal/table"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func runCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Enrich reviews with language, translation and sentiment",
		Long: `Run the full batch pipeline over the input review table.

Every review is language-detected, translated to English when needed, and
scored for sentiment. A review that fails is kept with a placeholder result
so one bad row never stops the batch. The augmented table is written to the
output path and, unless disabled, recorded in the history database.

Examples:
  polyreview run
  polyreview run --input data/reviews.csv --output out.csv --workers 4`,
		RunE: runRun,
	}

	// Flags
	cmd.Flags().StringP("input", "i", "", "input review table (default from data.input)")
	cmd.Flags().StringP("output", "o", "", "output table (default from data.output)")
	cmd.Flags().IntP("workers", "w", 0, "rows processed concurrently (default from pipeline.workers)")
	cmd.Flags().Bool("no-history", false, "do not record the run in the history database")
	cmd.Flags().String("metrics-file", "", "write Prometheus metrics to this textfile")

	// Bind to viper
	_ = viper.BindPFlag("data.input", cmd.Flags().Lookup("input"))
	_ = viper.BindPFlag("data.output", cmd.Flags().Lookup("output"))
	_ = viper.BindPFlag("pipeline.workers", cmd.Flags().Lookup("workers"))
	_ = viper.BindPFlag("database.disabled", cmd.Flags().Lookup("no-history"))
	_ = viper.BindPFlag("metrics.textfile", cmd.Flags().Lookup("metrics-file"))

	return cmd
}

func runRun(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	logger := slog.Default()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	// Fail on a missing table before any model is fetched or loaded.
	if !config.FileExists(cfg.Data.Input) {
		return common.MissingInputError(cfg.Data.Input, table.HintGenerateData)
	}

	fmt.Fprintln(out, cli.FormatTitle("Loading models..."))
	models, err := loadAnalyzers(ctx, cfg, logger)
	if err != nil {
		return common.NewUserError("could not load the language models (is the inference backend running?)", err)
	}

	collector := metrics.NewCollector()
	p := pipeline.NewWithConfig(
		models.detector,
		models.translator,
		models.scorer,
		pipeline.Config{Workers: cfg.Workers},
		pipeline.WithProgress(cli.NewProgressReporter(cmd.ErrOrStderr(), "Processing reviews...")),
		pipeline.WithRecorder(collector),
		pipeline.WithLogger(logger),
	)

	interrupts := cli.NewInterruptHandler(cmd.ErrOrStderr())
	runCtx := interrupts.HandleInterrupts(ctx)

	result, err := p.Run(runCtx,
		table.CSVSource{Path: cfg.Data.Input, Hint: table.HintGenerateData},
		table.CSVSink{Path: cfg.Data.Output},
	)
	if err != nil {
		if interrupts.WasInterrupted() {
			return common.NewUserError("run interrupted", err)
		}
		return fmt.Errorf("pipeline failed: %w", err)
	}

	collector.Finish(len(models.translator.LoadedLanguages()))
	if cfg.Metrics.Textfile != "" {
		if err := collector.WriteTextfile(cfg.Metrics.Textfile); err != nil {
			logger.Warn("Failed to write metrics textfile", "path", cfg.Metrics.Textfile, "error", err)
		}
	}

	if !cfg.Database.Disabled {
		// History is a convenience; the output table is already written.
		if err := recordHistory(ctx, cfg, result); err != nil {
			logger.Warn("Failed to record run history", "error", err)
		}
	}

	printRunSummary(out, cfg, result)
	return nil
}

// recordHistory stores a finished run and its rows.
func recordHistory(ctx context.Context, cfg config.Config, result pipeline.Result) error {
	store, err := initStorage(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := store.Close(); closeErr != nil {
			common.LogError(closeErr, "Failed to close database", common.Fields{"path": cfg.Database.Path})
		}
	}()

	run, err := store.CreateRun(ctx, cfg.Data.Input, cfg.Data.Output, result.Header)
	if err != nil {
		return err
	}
	if err := store.SaveReviews(ctx, run.ID, result.Rows); err != nil {
		return err
	}
	if err := store.FinishRun(ctx, run.ID, result.Stats.Total, result.Stats.Failed); err != nil {
		return err
	}

	common.LogInfo("Recorded run history", common.Fields{"run_id": run.ID, "rows": len(result.Rows)})
	return nil
}

func printRunSummary(w io.Writer, cfg config.Config, result pipeline.Result) {
	stats := result.Stats
	fmt.Fprintln(w, cli.FormatSuccess(fmt.Sprintf(
		"Processed %d reviews in %s (%d translated)",
		stats.Total, stats.Duration.Round(time.Millisecond), stats.Translated)))
	if stats.Failed > 0 {
		fmt.Fprintln(w, cli.FormatWarning(fmt.Sprintf("%d reviews could not be processed and were marked as failed", stats.Failed)))
	}
	fmt.Fprintln(w, cli.FormatInfo("Results saved to "+cfg.Data.Output))

	if winner, ok := analytics.New(result.Rows).Winner(); ok {
		fmt.Fprintln(w, cli.FormatWinner(report.WinnerLine(winner)))
	}
}
