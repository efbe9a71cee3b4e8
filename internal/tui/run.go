package tui

import (
	"context"
	"errors"
	"fmt"

	"github.com/Veraticus/polyreview/internal/common"
	"github.com/Veraticus/polyreview/internal/model"
	tea "github.com/charmbracelet/bubbletea"
)

// Run shows the dashboard over rows until the user quits or ctx is canceled.
func Run(ctx context.Context, rows []model.EnrichedReview, opts ...Option) error {
	if len(rows) == 0 {
		return common.ErrNoReviews
	}

	p := tea.NewProgram(
		New(rows, opts...),
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)
	if _, err := p.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("dashboard error: %w", err)
	}
	return nil
}
