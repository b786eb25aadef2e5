package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vacradar/vacancy-api/internal/collector"
	"github.com/vacradar/vacancy-api/internal/config"
	"github.com/vacradar/vacancy-api/internal/hh"
	redisplatform "github.com/vacradar/vacancy-api/internal/platform/redis"
	"github.com/vacradar/vacancy-api/internal/platform/sqlite"
	runrepo "github.com/vacradar/vacancy-api/internal/repository/run"
	vacrepo "github.com/vacradar/vacancy-api/internal/repository/vacancy"
	"github.com/vacradar/vacancy-api/internal/run"
	"github.com/vacradar/vacancy-api/internal/scheduler"
	"github.com/vacradar/vacancy-api/internal/server"
	"github.com/vacradar/vacancy-api/internal/stats"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "vacancy-api",
		Short:         "Vacancy ingestion pipeline and analytics API for hh.ru",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newCollectCmd(), newServeCmd())
	return root
}

// app holds the wired dependency graph shared by the commands.
type app struct {
	cfg     config.Config
	db      *sqlite.DB
	vacRepo *vacrepo.Repository
	runSvc  *run.Service
}

func newApp() (*app, error) {
	cfg := config.Load()

	db, err := sqlite.Open(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	return &app{
		cfg:     cfg,
		db:      db,
		vacRepo: vacrepo.NewRepository(db.DB),
		runSvc:  run.NewService(runrepo.NewRepository(db.DB)),
	}, nil
}

func (a *app) close() {
	if err := a.db.Close(); err != nil {
		slog.Error("close database", "error", err)
	}
}

// collect runs one full ingestion sweep and records it in the run ledger.
func (a *app) collect(ctx context.Context) error {
	retry := hh.DefaultRetryPolicy()
	if a.cfg.RetryAttempts > 0 {
		retry.MaxAttempts = a.cfg.RetryAttempts
	}
	client := hh.New(
		hh.WithBaseURL(a.cfg.BaseURL),
		hh.WithToken(a.cfg.Token),
		hh.WithUserAgent(a.cfg.UserAgent),
		hh.WithRetryPolicy(retry),
	)

	opts := []collector.Option{
		collector.WithVertical(a.cfg.Vertical),
		collector.WithWindow(a.cfg.Window),
		collector.WithChunkSize(a.cfg.ChunkSize),
		collector.WithConcurrency(a.cfg.Concurrency),
	}
	if a.cfg.RedisURL != "" {
		rdb, err := redisplatform.NewClient(ctx, a.cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("connect redis: %w", err)
		}
		defer rdb.Close()
		opts = append(opts, collector.WithSeenCache(collector.NewRedisSeen(rdb)))
	}
	col := collector.New(client, a.vacRepo, opts...)

	ledger, err := a.runSvc.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin run: %w", err)
	}

	res, err := col.Run(ctx)
	if err != nil {
		if ferr := a.runSvc.Fail(context.WithoutCancel(ctx), ledger, err); ferr != nil {
			slog.Error("record failed run", "run", ledger.ID, "error", ferr)
		}
		return fmt.Errorf("sweep: %w", err)
	}

	ledger.RangeLow = res.Range.Low
	ledger.RangeHigh = res.Range.High
	ledger.Accepted = res.Counters.Accepted
	ledger.Duplicate = res.Counters.Duplicate
	ledger.SkippedNotFound = res.Counters.SkippedNotFound
	ledger.SkippedFiltered = res.Counters.SkippedFiltered
	ledger.SkippedSeen = res.Counters.SkippedSeen
	ledger.Rejected = res.Counters.Rejected
	ledger.Errored = res.Counters.Errored
	if err := a.runSvc.Complete(ctx, ledger); err != nil {
		return fmt.Errorf("record completed run: %w", err)
	}
	return nil
}

func newCollectCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "collect",
		Short: "Run one ingestion sweep against the hh.ru API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if !force {
				has, err := a.vacRepo.HasData(ctx)
				if err != nil {
					return fmt.Errorf("check existing data: %w", err)
				}
				if has {
					slog.Info("database already has vacancies, skipping sweep (use --force to override)")
					return nil
				}
			}

			return a.collect(ctx)
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "sweep even when the database already has data")
	return cmd
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the analytics API, optionally with periodic collection",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			var sched *scheduler.Scheduler
			if a.cfg.ScrapeIntervalHours > 0 {
				sched = scheduler.New(ctx)
				if err := sched.Every(a.cfg.ScrapeIntervalHours, "collect", a.collect); err != nil {
					return err
				}
				sched.Start()
			}

			srv := server.New(ctx, a.cfg.Port, stats.NewService(a.vacRepo), a.runSvc)
			errCh := make(chan error, 1)
			go func() {
				if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
			}()

			select {
			case err := <-errCh:
				return fmt.Errorf("server: %w", err)
			case <-ctx.Done():
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				return fmt.Errorf("shutdown: %w", err)
			}
			if sched != nil {
				sched.Stop()
			}
			return nil
		},
	}
}
