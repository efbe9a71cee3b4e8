package model

import "time"

// Run is one execution of the batch pipeline, as recorded in the history database.
type Run struct {
	StartedAt  time.Time
	FinishedAt *time.Time
	// Header is the column order of the output table written by the run.
	Header     []string
	ID         string
	InputPath  string
	OutputPath string
	Total      int
	Failed     int
}

// Finished reports whether the run completed.
func (r Run) Finished() bool {
	return r.FinishedAt != nil
}

// Duration returns how long the run took, or zero if it never finished.
func (r Run) Duration() time.Duration {
	if r.FinishedAt == nil {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}
