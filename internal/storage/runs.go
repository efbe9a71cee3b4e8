package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/Veraticus/polyreview/internal/model"
	"github.com/google/uuid"
)

var runColumns = []string{"id", "input_path", "output_path", "header", "started_at", "finished_at", "total", "failed"}

// CreateRun records the start of a pipeline run and returns it with a fresh ID.
func (s *SQLiteStorage) CreateRun(ctx context.Context, inputPath, outputPath string, header []string) (*model.Run, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(inputPath, "inputPath"); err != nil {
		return nil, err
	}

	encoded, err := json.Marshal(header)
	if err != nil {
		return nil, fmt.Errorf("failed to encode header: %w", err)
	}

	run := &model.Run{
		ID:         uuid.NewString(),
		InputPath:  inputPath,
		OutputPath: outputPath,
		Header:     header,
		StartedAt:  time.Now().UTC(),
	}

	query, args, err := sq.Insert("runs").
		Columns("id", "input_path", "output_path", "header", "started_at").
		Values(run.ID, run.InputPath, run.OutputPath, string(encoded), run.StartedAt).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build insert: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return nil, fmt.Errorf("failed to create run: %w", err)
	}
	return run, nil
}

// FinishRun marks a run complete with its final row counts.
func (s *SQLiteStorage) FinishRun(ctx context.Context, runID string, total, failed int) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(runID, "runID"); err != nil {
		return err
	}

	query, args, err := sq.Update("runs").
		Set("finished_at", time.Now().UTC()).
		Set("total", total).
		Set("failed", failed).
		Where(sq.Eq{"id": runID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update: %w", err)
	}

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to finish run: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	return nil
}

// ListRuns returns up to limit runs, newest first.
func (s *SQLiteStorage) ListRuns(ctx context.Context, limit int) ([]model.Run, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if limit <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidLimit, limit)
	}

	return s.queryRuns(ctx, sq.Select(runColumns...).
		From("runs").
		OrderBy("started_at DESC").
		Limit(uint64(limit)))
}

// GetRun returns the run whose ID equals or uniquely starts with id.
func (s *SQLiteStorage) GetRun(ctx context.Context, id string) (*model.Run, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}

	runs, err := s.queryRuns(ctx, sq.Select(runColumns...).
		From("runs").
		Where(sq.Like{"id": id + "%"}).
		OrderBy("started_at DESC").
		Limit(2))
	if err != nil {
		return nil, err
	}

	switch {
	case len(runs) == 0:
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	case len(runs) > 1 && runs[0].ID != id && runs[1].ID != id:
		return nil, fmt.Errorf("%w: %s", ErrAmbiguousRun, id)
	case len(runs) > 1 && runs[1].ID == id:
		return &runs[1], nil
	default:
		return &runs[0], nil
	}
}

// LatestRun returns the most recent finished run.
func (s *SQLiteStorage) LatestRun(ctx context.Context) (*model.Run, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	runs, err := s.queryRuns(ctx, sq.Select(runColumns...).
		From("runs").
		Where(sq.NotEq{"finished_at": nil}).
		OrderBy("started_at DESC").
		Limit(1))
	if err != nil {
		return nil, err
	}
	if len(runs) == 0 {
		return nil, fmt.Errorf("%w: no finished runs", ErrRunNotFound)
	}
	return &runs[0], nil
}

func (s *SQLiteStorage) queryRuns(ctx context.Context, builder sq.SelectBuilder) ([]model.Run, error) {
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var runs []model.Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate runs: %w", err)
	}
	return runs, nil
}

func scanRun(rows *sql.Rows) (model.Run, error) {
	var (
		run      model.Run
		header   string
		finished sql.NullTime
	)
	if err := rows.Scan(&run.ID, &run.InputPath, &run.OutputPath, &header,
		&run.StartedAt, &finished, &run.Total, &run.Failed); err != nil {
		return model.Run{}, fmt.Errorf("failed to scan run: %w", err)
	}
	if err := json.Unmarshal([]byte(header), &run.Header); err != nil {
		return model.Run{}, fmt.Errorf("failed to decode header of run %s: %w", run.ID, err)
	}
	if finished.Valid {
		t := finished.Time
		run.FinishedAt = &t
	}
	return run, nil
}

// IsNotFound reports whether err means the requested run does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrRunNotFound)
}
