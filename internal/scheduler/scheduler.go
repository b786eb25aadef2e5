// Package scheduler runs the ingestion sweep on a fixed interval so the
// dataset keeps tracking the remote source without manual collect runs.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/robfig/cron/v3"
)

// Job is one scheduled unit of work. The collector command satisfies it.
type Job func(ctx context.Context) error

type Scheduler struct {
	cron *cron.Cron
	ctx  context.Context
}

func New(ctx context.Context) *Scheduler {
	return &Scheduler{
		cron: cron.New(),
		ctx:  ctx,
	}
}

// Every registers job to run every intervalHours hours. The first
// execution happens immediately rather than one interval from now.
func (s *Scheduler) Every(intervalHours int, name string, job Job) error {
	spec := fmt.Sprintf("@every %dh", intervalHours)
	_, err := s.cron.AddFunc(spec, func() {
		s.invoke(name, job)
	})
	if err != nil {
		return fmt.Errorf("schedule %s: %w", name, err)
	}

	go s.invoke(name, job)
	return nil
}

func (s *Scheduler) invoke(name string, job Job) {
	if s.ctx.Err() != nil {
		return
	}
	slog.Info("scheduled job starting", "job", name)
	if err := job(s.ctx); err != nil {
		slog.Error("scheduled job failed", "job", name, "error", err)
		return
	}
	slog.Info("scheduled job finished", "job", name)
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop halts scheduling and waits for a running job to return.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}
