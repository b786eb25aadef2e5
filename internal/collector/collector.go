// Package collector orchestrates the ingestion sweep: it derives the id
// window from the most recent vacancy, walks it in descending chunks under
// a shared concurrency limit, and funnels surviving records into the store.
// Per-id failures are isolated and counted; only init-phase failures abort
// a run.
package collector

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/vacradar/vacancy-api/internal/hh"
	"github.com/vacradar/vacancy-api/internal/vacancy"
)

// Catalog is the remote API surface the sweep consumes.
type Catalog interface {
	ProfessionalRoles(ctx context.Context) (*hh.Taxonomy, error)
	LatestVacancyID(ctx context.Context) (int64, error)
	Vacancy(ctx context.Context, id int64) (*hh.VacancyPayload, error)
}

// Store receives normalized records. Insert reports false on an id
// conflict instead of an error.
type Store interface {
	Insert(ctx context.Context, v *vacancy.Vacancy) (bool, error)
}

// Counters aggregates the typed per-id outcomes of one sweep.
type Counters struct {
	Accepted        int64 `json:"accepted"`
	Duplicate       int64 `json:"duplicate"`
	SkippedNotFound int64 `json:"skippedNotFound"`
	SkippedFiltered int64 `json:"skippedFiltered"`
	SkippedSeen     int64 `json:"skippedSeen"`
	Rejected        int64 `json:"rejected"`
	Errored         int64 `json:"errored"`
}

// Result summarizes a completed sweep.
type Result struct {
	Range    IDRange
	Counters Counters
	Elapsed  time.Duration
}

type outcome int

const (
	outcomeAccepted outcome = iota
	outcomeDuplicate
	outcomeNotFound
	outcomeFiltered
	outcomeSeen
	outcomeRejected
	outcomeErrored
)

type Collector struct {
	api   Catalog
	store Store
	seen  SeenCache

	vertical    string
	window      int64
	chunkSize   int
	concurrency int

	counters struct {
		accepted, duplicate, notFound, filtered, seen, rejected, errored atomic.Int64
	}
}

// New creates a Collector with the given options applied.
func New(api Catalog, store Store, opts ...Option) *Collector {
	c := &Collector{
		api:         api,
		store:       store,
		vertical:    "Информационные технологии",
		window:      5000,
		chunkSize:   1000,
		concurrency: 10,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Option configures a Collector.
type Option func(*Collector)

// WithVertical sets the taxonomy category whose roles are ingested.
func WithVertical(name string) Option {
	return func(c *Collector) { c.vertical = name }
}

// WithWindow sets the lookback width of the sweep below the latest id.
func WithWindow(n int64) Option {
	return func(c *Collector) { c.window = n }
}

// WithChunkSize sets how many ids are dispatched per sequential chunk.
func WithChunkSize(n int) Option {
	return func(c *Collector) { c.chunkSize = n }
}

// WithConcurrency caps the number of in-flight vacancy fetches.
func WithConcurrency(n int) Option {
	return func(c *Collector) { c.concurrency = n }
}

// WithSeenCache enables skipping of ids already swept by earlier runs.
func WithSeenCache(s SeenCache) Option {
	return func(c *Collector) { c.seen = s }
}

// Run performs one full sweep. Init failures (taxonomy, latest id) abort
// the run; everything after that completes regardless of per-id failures.
func (c *Collector) Run(ctx context.Context) (*Result, error) {
	start := time.Now()

	tax, err := c.api.ProfessionalRoles(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch taxonomy: %w", err)
	}
	filter := vacancy.NewRoleFilter(tax, c.vertical)
	if filter.Len() == 0 {
		slog.Warn("role filter is empty, every vacancy will be skipped", "vertical", c.vertical)
	}

	latest, err := c.api.LatestVacancyID(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch latest vacancy id: %w", err)
	}
	sweep := IDRange{Low: latest - c.window, High: latest}

	slog.Info("sweep started",
		"low", sweep.Low, "high", sweep.High,
		"roles", filter.Len(), "chunk_size", c.chunkSize, "concurrency", c.concurrency)

	chunks := SplitIDRange(sweep.Low, sweep.High, c.chunkSize)
	for i, chunk := range chunks {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(c.concurrency)

		for id := chunk.High; id >= chunk.Low; id-- {
			g.Go(func() error {
				c.record(c.processID(gctx, id, filter))
				return nil // per-id failures never cancel siblings
			})
		}
		_ = g.Wait()

		slog.Info("chunk complete",
			"chunk", i+1, "chunks", len(chunks),
			"low", chunk.Low, "high", chunk.High,
			"accepted", c.counters.accepted.Load())
	}

	res := &Result{
		Range:    sweep,
		Counters: c.snapshot(),
		Elapsed:  time.Since(start),
	}

	slog.Info("sweep complete",
		"elapsed", res.Elapsed.String(),
		"accepted", res.Counters.Accepted,
		"duplicate", res.Counters.Duplicate,
		"skipped_not_found", res.Counters.SkippedNotFound,
		"skipped_filtered", res.Counters.SkippedFiltered,
		"skipped_seen", res.Counters.SkippedSeen,
		"rejected", res.Counters.Rejected,
		"errored", res.Counters.Errored)

	return res, nil
}

// processID runs the per-id decision procedure under the admission gate.
// Every outcome is terminal for the id; nothing propagates to siblings.
func (c *Collector) processID(ctx context.Context, id int64, filter *vacancy.RoleFilter) (out outcome) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("vacancy processing panicked", "id", id, "panic", r)
			out = outcomeErrored
		}
	}()

	if c.seen != nil {
		seen, err := c.seen.Seen(ctx, id)
		if err != nil {
			// Cache trouble degrades to a normal fetch.
			slog.Warn("seen cache lookup failed", "id", id, "error", err)
		} else if seen {
			return outcomeSeen
		}
	}

	payload, err := c.api.Vacancy(ctx, id)
	if err != nil {
		if errors.Is(err, hh.ErrNotFound) {
			c.mark(ctx, id)
			return outcomeNotFound
		}
		slog.Error("vacancy fetch failed", "id", id, "error", err)
		return outcomeErrored
	}

	if payload.HasErrors() {
		slog.Warn("vacancy payload rejected", "id", id, "errors", string(payload.Errors))
		c.mark(ctx, id)
		return outcomeRejected
	}

	if !filter.MatchesAny(payload.ProfessionalRoles) {
		c.mark(ctx, id)
		return outcomeFiltered
	}

	record, err := vacancy.Normalize(payload)
	if err != nil {
		slog.Warn("vacancy normalization failed", "id", id, "error", err)
		c.mark(ctx, id)
		return outcomeRejected
	}

	inserted, err := c.store.Insert(ctx, record)
	if err != nil {
		slog.Error("vacancy store write failed", "id", id, "error", err)
		return outcomeErrored
	}
	c.mark(ctx, id)
	if !inserted {
		return outcomeDuplicate
	}
	return outcomeAccepted
}

func (c *Collector) mark(ctx context.Context, id int64) {
	if c.seen == nil {
		return
	}
	if err := c.seen.Mark(ctx, id); err != nil {
		slog.Warn("seen cache mark failed", "id", id, "error", err)
	}
}

func (c *Collector) record(o outcome) {
	switch o {
	case outcomeAccepted:
		c.counters.accepted.Add(1)
	case outcomeDuplicate:
		c.counters.duplicate.Add(1)
	case outcomeNotFound:
		c.counters.notFound.Add(1)
	case outcomeFiltered:
		c.counters.filtered.Add(1)
	case outcomeSeen:
		c.counters.seen.Add(1)
	case outcomeRejected:
		c.counters.rejected.Add(1)
	case outcomeErrored:
		c.counters.errored.Add(1)
	}
}

func (c *Collector) snapshot() Counters {
	return Counters{
		Accepted:        c.counters.accepted.Load(),
		Duplicate:       c.counters.duplicate.Load(),
		SkippedNotFound: c.counters.notFound.Load(),
		SkippedFiltered: c.counters.filtered.Load(),
		SkippedSeen:     c.counters.seen.Load(),
		Rejected:        c.counters.rejected.Load(),
		Errored:         c.counters.errored.Load(),
	}
}
