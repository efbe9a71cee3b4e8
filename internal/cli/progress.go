package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/schollz/progressbar/v3"
)

// ProgressReporter draws a progress bar for a batch run. It implements
// pipeline.Progress and is safe for concurrent Advance calls.
type ProgressReporter struct {
	writer      io.Writer
	bar         *progressbar.ProgressBar
	description string
}

// NewProgressReporter creates a reporter that draws to writer.
func NewProgressReporter(writer io.Writer, description string) *ProgressReporter {
	if writer == nil {
		writer = os.Stderr
	}
	if description == "" {
		description = "Processing reviews..."
	}
	return &ProgressReporter{
		writer:      writer,
		description: description,
	}
}

// Start resets the bar for total rows.
func (p *ProgressReporter) Start(total int) {
	p.bar = progressbar.NewOptions(total,
		progressbar.OptionSetWriter(p.writer),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("reviews"),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("[cyan][bold]"+p.description+"[reset]"),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionOnCompletion(func() {
			if _, err := fmt.Fprintln(p.writer); err != nil {
				slog.Warn("Failed to write newline after progress bar", "error", err)
			}
		}),
	)
}

// Advance moves the bar forward by one row.
func (p *ProgressReporter) Advance() {
	if p.bar == nil {
		return
	}
	if err := p.bar.Add(1); err != nil {
		slog.Warn("Failed to update progress bar", "error", err)
	}
}

// Finish completes the bar.
func (p *ProgressReporter) Finish() {
	if p.bar == nil {
		return
	}
	if err := p.bar.Finish(); err != nil {
		slog.Warn("Failed to finish progress bar", "error", err)
	}
}
