package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/Veraticus/polyreview/internal/cli"
	"github.com/Veraticus/polyreview/internal/config"
	"github.com/Veraticus/polyreview/internal/translate"
	"github.com/spf13/cobra"
)

// healthTimeout bounds the backend probe so the command stays responsive.
const healthTimeout = 5 * time.Second

func modelsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: "Show configured models and backend status",
		Long: `Show which language identification, translation and sentiment models
polyreview uses, whether the language model artifact is downloaded, and
whether the inference backend is reachable.`,
		RunE: runModels,
	}
}

func runModels(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, cli.FormatTitle("Models"))

	artifact := langIDConfig(cfg).Path()
	status := cli.StyleWarning("not downloaded (fetched on first run)")
	if config.FileExists(artifact) {
		status = cli.StyleSuccess("present")
	}
	fmt.Fprintf(out, "%s Language identification  %s/%s\n", cli.ModelIcon, cfg.LangID.Repo, cfg.LangID.Filename)
	fmt.Fprintf(out, "   artifact                 %s %s\n", artifact, status)
	fmt.Fprintf(out, "%s Sentiment                %s (max %d tokens)\n", cli.ModelIcon, cfg.Sentiment.Model, cfg.Sentiment.MaxTokens)

	translator := translate.New(nil, translate.WithModels(cfg.Translation.Models))
	fmt.Fprintf(out, "%s Translation\n", cli.ModelIcon)
	for _, lang := range translator.SupportedLanguages() {
		modelID, _ := translator.ModelFor(lang)
		fmt.Fprintf(out, "   %-24s %s\n", lang, modelID)
	}

	fmt.Fprintln(out)
	printBackendStatus(cmd.Context(), out, cfg)
	return nil
}

func printBackendStatus(ctx context.Context, w io.Writer, cfg config.Config) {
	client, err := newInferenceClient(cfg, slog.Default())
	if err != nil {
		fmt.Fprintln(w, cli.FormatError("Inference backend misconfigured: "+err.Error()))
		return
	}

	ctx, cancel := context.WithTimeout(ctx, healthTimeout)
	defer cancel()

	health, err := client.Health(ctx)
	if err != nil {
		fmt.Fprintln(w, cli.FormatWarning(fmt.Sprintf("Inference backend at %s is not reachable: %v", cfg.Inference.Endpoint, err)))
		return
	}
	fmt.Fprintln(w, cli.FormatSuccess(fmt.Sprintf("Inference backend at %s is %s (device: %s)", cfg.Inference.Endpoint, health.Status, health.Device)))
}
