package run

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/vacradar/vacancy-api/internal/apperror"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Begin records a new running sweep. The id window is unknown until the
// collector's init phase finishes, so it is filled in on completion.
func (s *Service) Begin(ctx context.Context) (*Run, error) {
	r := &Run{
		ID:        uuid.New().String(),
		Status:    StatusRunning,
		StartedAt: time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

// Complete marks the run finished. The caller fills the window bounds and
// counters on r before calling.
func (s *Service) Complete(ctx context.Context, r *Run) error {
	r.Status = StatusCompleted
	r.FinishedAt = time.Now().UTC()
	return s.repo.Update(ctx, r)
}

// Fail marks the run failed with the given cause.
func (s *Service) Fail(ctx context.Context, r *Run, cause error) error {
	r.Status = StatusFailed
	r.Error = cause.Error()
	r.FinishedAt = time.Now().UTC()
	return s.repo.Update(ctx, r)
}

func (s *Service) Get(ctx context.Context, id string) (*Run, error) {
	if id == "" {
		return nil, apperror.New(apperror.BadRequest, "run id is required")
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) List(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.repo.List(ctx, limit)
}
