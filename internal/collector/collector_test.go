package collector

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/vacradar/vacancy-api/internal/hh"
	"github.com/vacradar/vacancy-api/internal/vacancy"
)

type fakeCatalog struct {
	taxonomy  *hh.Taxonomy
	latestID  int64
	initErr   error
	vacancyFn func(ctx context.Context, id int64) (*hh.VacancyPayload, error)

	fetches atomic.Int64
}

func (f *fakeCatalog) ProfessionalRoles(_ context.Context) (*hh.Taxonomy, error) {
	if f.initErr != nil {
		return nil, f.initErr
	}
	return f.taxonomy, nil
}

func (f *fakeCatalog) LatestVacancyID(_ context.Context) (int64, error) {
	if f.initErr != nil {
		return 0, f.initErr
	}
	return f.latestID, nil
}

func (f *fakeCatalog) Vacancy(ctx context.Context, id int64) (*hh.VacancyPayload, error) {
	f.fetches.Add(1)
	return f.vacancyFn(ctx, id)
}

type fakeStore struct {
	mu        sync.Mutex
	rows      map[int64]*vacancy.Vacancy
	insertErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{rows: make(map[int64]*vacancy.Vacancy)}
}

func (s *fakeStore) Insert(_ context.Context, v *vacancy.Vacancy) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.insertErr != nil {
		return false, s.insertErr
	}
	if _, ok := s.rows[v.ID]; ok {
		return false, nil
	}
	s.rows[v.ID] = v
	return true, nil
}

func (s *fakeStore) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.rows)
}

func itTaxonomy() *hh.Taxonomy {
	return &hh.Taxonomy{Categories: []hh.Category{
		{Name: "Информационные технологии", Roles: []hh.Role{
			{ID: 1, Name: "Engineer"},
			{ID: 2, Name: "Analyst"},
		}},
	}}
}

func goodPayload(id int64, roleID hh.ID, roleName string) *hh.VacancyPayload {
	return &hh.VacancyPayload{
		ID:                hh.ID(id),
		Name:              "Vacancy",
		PublishedAt:       "2025-08-01T10:00:00+0300",
		Employer:          &hh.Employer{Name: "Acme"},
		Schedule:          &hh.CodeName{ID: "fullDay"},
		Experience:        &hh.CodeName{ID: "noExperience"},
		ProfessionalRoles: []hh.Role{{ID: roleID, Name: roleName}},
	}
}

// Mirrors the canonical six-id scenario: two acceptable vacancies, one
// unknown id, one out-of-vertical role, and two malformed payloads.
func TestRun_SweepScenario(t *testing.T) {
	catalog := &fakeCatalog{
		taxonomy: itTaxonomy(),
		latestID: 1000,
		vacancyFn: func(_ context.Context, id int64) (*hh.VacancyPayload, error) {
			switch id {
			case 996, 999:
				return goodPayload(id, 1, "Engineer"), nil
			case 997:
				return nil, hh.ErrNotFound
			case 998:
				return goodPayload(id, 3, "Designer"), nil
			case 995, 1000:
				return &hh.VacancyPayload{
					ID:     hh.ID(id),
					Errors: json.RawMessage(`[{"type":"captcha_required"}]`),
				}, nil
			default:
				t.Errorf("unexpected fetch for id %d", id)
				return nil, hh.ErrNotFound
			}
		},
	}
	store := newFakeStore()

	c := New(catalog, store, WithWindow(5), WithChunkSize(3), WithConcurrency(2))

	res, err := c.Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if res.Range.Low != 995 || res.Range.High != 1000 {
		t.Errorf("range = [%d, %d], want [995, 1000]", res.Range.Low, res.Range.High)
	}
	if got := catalog.fetches.Load(); got != 6 {
		t.Errorf("fetch attempts = %d, want 6", got)
	}
	if store.len() != 2 {
		t.Fatalf("stored %d rows, want 2", store.len())
	}
	for _, id := range []int64{996, 999} {
		if _, ok := store.rows[id]; !ok {
			t.Errorf("expected id %d in store", id)
		}
	}

	want := Counters{Accepted: 2, SkippedNotFound: 1, SkippedFiltered: 1, Rejected: 2}
	if res.Counters != want {
		t.Errorf("counters = %+v, want %+v", res.Counters, want)
	}
}

func TestRun_ConcurrencyBound(t *testing.T) {
	const limit = 3

	var inFlight, peak atomic.Int64
	catalog := &fakeCatalog{
		taxonomy: itTaxonomy(),
		latestID: 100,
		vacancyFn: func(_ context.Context, id int64) (*hh.VacancyPayload, error) {
			cur := inFlight.Add(1)
			defer inFlight.Add(-1)
			for {
				old := peak.Load()
				if cur <= old || peak.CompareAndSwap(old, cur) {
					break
				}
			}
			time.Sleep(time.Millisecond)
			return goodPayload(id, 1, "Engineer"), nil
		},
	}

	c := New(catalog, newFakeStore(), WithWindow(49), WithChunkSize(25), WithConcurrency(limit))

	if _, err := c.Run(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := peak.Load(); got > limit {
		t.Errorf("peak in-flight fetches = %d, exceeds limit %d", got, limit)
	}
}

func TestRun_FaultIsolation(t *testing.T) {
	catalog := &fakeCatalog{
		taxonomy: itTaxonomy(),
		latestID: 10,
		vacancyFn: func(_ context.Context, id int64) (*hh.VacancyPayload, error) {
			if id == 7 {
				return nil, errors.New("connection reset")
			}
			if id == 5 {
				panic("malformed internal state")
			}
			return goodPayload(id, 2, "Analyst"), nil
		},
	}
	store := newFakeStore()

	c := New(catalog, store, WithWindow(9), WithChunkSize(10), WithConcurrency(4))

	res, err := c.Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if store.len() != 8 {
		t.Errorf("stored %d rows, want 8 despite two failing ids", store.len())
	}
	if res.Counters.Errored != 2 {
		t.Errorf("errored = %d, want 2", res.Counters.Errored)
	}
	if res.Counters.Accepted != 8 {
		t.Errorf("accepted = %d, want 8", res.Counters.Accepted)
	}
}

func TestRun_StoreFailureDoesNotAbort(t *testing.T) {
	catalog := &fakeCatalog{
		taxonomy: itTaxonomy(),
		latestID: 5,
		vacancyFn: func(_ context.Context, id int64) (*hh.VacancyPayload, error) {
			return goodPayload(id, 1, "Engineer"), nil
		},
	}
	store := newFakeStore()
	store.insertErr = errors.New("disk I/O error")

	c := New(catalog, store, WithWindow(4), WithChunkSize(5), WithConcurrency(2))

	res, err := c.Run(context.Background())
	if err != nil {
		t.Fatalf("expected run to complete, got %v", err)
	}
	if res.Counters.Errored != 5 {
		t.Errorf("errored = %d, want 5", res.Counters.Errored)
	}
}

func TestRun_EmptyFilterSkipsEverything(t *testing.T) {
	catalog := &fakeCatalog{
		taxonomy: &hh.Taxonomy{Categories: []hh.Category{
			{Name: "Маркетинг", Roles: []hh.Role{{ID: 9, Name: "SMM"}}},
		}},
		latestID: 20,
		vacancyFn: func(_ context.Context, id int64) (*hh.VacancyPayload, error) {
			return goodPayload(id, 1, "Engineer"), nil
		},
	}
	store := newFakeStore()

	c := New(catalog, store, WithWindow(10), WithChunkSize(5), WithConcurrency(2))

	res, err := c.Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if store.len() != 0 {
		t.Errorf("stored %d rows, want 0 with empty filter", store.len())
	}
	if res.Counters.SkippedFiltered != 11 {
		t.Errorf("skipped filtered = %d, want 11", res.Counters.SkippedFiltered)
	}
}

func TestRun_InitFailureAborts(t *testing.T) {
	catalog := &fakeCatalog{initErr: errors.New("service unavailable")}

	c := New(catalog, newFakeStore())

	if _, err := c.Run(context.Background()); err == nil {
		t.Fatal("expected init failure to abort the run")
	}
	if got := catalog.fetches.Load(); got != 0 {
		t.Errorf("expected no vacancy fetches after init failure, got %d", got)
	}
}

type fakeSeen struct {
	mu     sync.Mutex
	marked map[int64]bool
}

func (s *fakeSeen) Seen(_ context.Context, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.marked[id], nil
}

func (s *fakeSeen) Mark(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.marked[id] = true
	return nil
}

func TestRun_SeenCacheSkipsFetch(t *testing.T) {
	seen := &fakeSeen{marked: map[int64]bool{99: true, 100: true}}
	catalog := &fakeCatalog{
		taxonomy: itTaxonomy(),
		latestID: 100,
		vacancyFn: func(_ context.Context, id int64) (*hh.VacancyPayload, error) {
			return goodPayload(id, 1, "Engineer"), nil
		},
	}
	store := newFakeStore()

	c := New(catalog, store, WithWindow(4), WithChunkSize(5), WithConcurrency(2), WithSeenCache(seen))

	res, err := c.Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Counters.SkippedSeen != 2 {
		t.Errorf("skipped seen = %d, want 2", res.Counters.SkippedSeen)
	}
	if got := catalog.fetches.Load(); got != 3 {
		t.Errorf("fetches = %d, want 3", got)
	}
	// Freshly processed ids are marked for the next run.
	for id := int64(96); id <= 98; id++ {
		if !seen.marked[id] {
			t.Errorf("expected id %d to be marked seen", id)
		}
	}
}
