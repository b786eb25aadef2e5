package run

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/vacradar/vacancy-api/internal/apperror"
	domain "github.com/vacradar/vacancy-api/internal/run"
)

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, run *domain.Run) error {
	const query = `INSERT INTO runs (id, status, started_at) VALUES (?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query,
		run.ID, string(run.Status), run.StartedAt.Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("create run: %w", err)
	}
	return nil
}

func (r *Repository) Update(ctx context.Context, run *domain.Run) error {
	const query = `UPDATE runs SET status = ?, range_low = ?, range_high = ?,
		accepted = ?, duplicate = ?, skipped_not_found = ?, skipped_filtered = ?,
		skipped_seen = ?, rejected = ?, errored = ?, error = ?, finished_at = ?
		WHERE id = ?`

	var finished any
	if !run.FinishedAt.IsZero() {
		finished = run.FinishedAt.Format(time.RFC3339)
	}

	_, err := r.db.ExecContext(ctx, query,
		string(run.Status), run.RangeLow, run.RangeHigh,
		run.Accepted, run.Duplicate, run.SkippedNotFound, run.SkippedFiltered,
		run.SkippedSeen, run.Rejected, run.Errored, run.Error, finished,
		run.ID,
	)
	if err != nil {
		return fmt.Errorf("update run: %w", err)
	}
	return nil
}

func (r *Repository) Get(ctx context.Context, id string) (*domain.Run, error) {
	run, err := scanRun(r.db.QueryRowContext(ctx, selectRuns+` WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.New(apperror.NotFound, "run not found")
	}
	if err != nil {
		return nil, fmt.Errorf("get run: %w", err)
	}
	return run, nil
}

func (r *Repository) List(ctx context.Context, limit int) ([]domain.Run, error) {
	rows, err := r.db.QueryContext(ctx, selectRuns+` ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var runs []domain.Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, *run)
	}
	return runs, rows.Err()
}

const selectRuns = `SELECT id, status, range_low, range_high, accepted, duplicate,
	skipped_not_found, skipped_filtered, skipped_seen, rejected, errored,
	error, started_at, finished_at FROM runs`

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(s scanner) (*domain.Run, error) {
	run := &domain.Run{}
	var status, startedStr string
	var low, high sql.NullInt64
	var errStr, finishedStr sql.NullString

	if err := s.Scan(
		&run.ID, &status, &low, &high,
		&run.Accepted, &run.Duplicate, &run.SkippedNotFound, &run.SkippedFiltered,
		&run.SkippedSeen, &run.Rejected, &run.Errored,
		&errStr, &startedStr, &finishedStr,
	); err != nil {
		return nil, err
	}

	run.Status = domain.Status(status)
	run.RangeLow = low.Int64
	run.RangeHigh = high.Int64
	if errStr.Valid {
		run.Error = errStr.String
	}
	run.StartedAt, _ = time.Parse(time.RFC3339, startedStr)
	if finishedStr.Valid {
		run.FinishedAt, _ = time.Parse(time.RFC3339, finishedStr.String)
	}
	return run, nil
}
