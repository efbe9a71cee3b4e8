package main

import (
	"fmt"

	"github.com/Veraticus/polyreview/internal/cli"
	"github.com/Veraticus/polyreview/internal/config"
	"github.com/Veraticus/polyreview/internal/sample"
	"github.com/spf13/cobra"
)

func generateDataCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate-data",
		Short: "Write the built-in sample review table",
		Long: `Write 20 sample reviews in English, German, French and Spanish
across four products to the input path, ready for 'polyreview run'.`,
		RunE: runGenerateData,
	}

	cmd.Flags().StringP("output", "o", "", "where to write the sample table (default from data.input)")

	return cmd
}

func runGenerateData(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	path := cfg.Data.Input
	if output, _ := cmd.Flags().GetString("output"); output != "" {
		path = config.ExpandPath(output)
	}

	n, err := sample.Write(path)
	if err != nil {
		return fmt.Errorf("failed to write sample data: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Wrote %d sample reviews to %s", n, path)))
	return nil
}
