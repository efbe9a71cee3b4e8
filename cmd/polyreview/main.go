// Package main contains the polyreview CLI commands.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/Veraticus/polyreview/internal/cli"
	"github.com/Veraticus/polyreview/internal/common"
	"github.com/Veraticus/polyreview/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	version = "dev"
)

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "polyreview",
		Short: "🌍 Multilingual product review analysis",
		Long: `polyreview: detects the language of customer reviews, translates them
to English, scores their sentiment, and reports which product customers like best.`,
		PersistentPreRunE: initConfig,
		SilenceUsage:      true,
		SilenceErrors:     true,
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.config/polyreview/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "console", "log format (console, json)")

	// Bind flags to viper
	_ = viper.BindPFlag("logging.level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("logging.format", rootCmd.PersistentFlags().Lookup("log-format"))

	// Add commands
	rootCmd.AddCommand(runCmd())
	rootCmd.AddCommand(reportCmd())
	rootCmd.AddCommand(dashboardCmd())
	rootCmd.AddCommand(historyCmd())
	rootCmd.AddCommand(generateDataCmd())
	rootCmd.AddCommand(modelsCmd())
	rootCmd.AddCommand(authCmd())
	rootCmd.AddCommand(versionCmd())

	return rootCmd
}

func main() {
	err := newRootCmd().ExecuteContext(context.Background())
	if err != nil {
		printError(os.Stderr, err)
		os.Exit(1)
	}
}

// printError shows err to the operator, preferring the friendly message of a
// UserError over the full chain.
func printError(w io.Writer, err error) {
	var userErr *common.UserError
	if errors.As(err, &userErr) {
		fmt.Fprintln(w, cli.FormatError(userErr.UserMessage))
		return
	}
	fmt.Fprintln(w, cli.FormatError(err.Error()))
}

func initConfig(_ *cobra.Command, _ []string) error {
	config.SetDefaults(viper.GetViper())

	// Set up config file
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to get home directory: %w", err)
		}

		// Search for config in standard locations
		viper.AddConfigPath(filepath.Join(home, ".config", "polyreview"))
		viper.AddConfigPath(".")
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	// Environment variables, e.g. POLYREVIEW_INFERENCE_ENDPOINT
	viper.SetEnvPrefix("POLYREVIEW")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Read config file
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config: %w", err)
		}
		// Config file not found is OK, we'll use defaults
	}

	// Set up logging
	if err := setupLogging(); err != nil {
		return fmt.Errorf("failed to setup logging: %w", err)
	}

	return nil
}

func setupLogging() error {
	logger, err := common.NewLogger(os.Stderr, viper.GetString("logging.level"), viper.GetString("logging.format"))
	if err != nil {
		return err
	}
	slog.SetDefault(logger)
	return nil
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "polyreview %s\n", version)
		},
	}
}
