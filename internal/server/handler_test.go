package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/vacradar/vacancy-api/internal/platform/sqlite"
	runrepo "github.com/vacradar/vacancy-api/internal/repository/run"
	vacrepo "github.com/vacradar/vacancy-api/internal/repository/vacancy"
	"github.com/vacradar/vacancy-api/internal/run"
	"github.com/vacradar/vacancy-api/internal/stats"
	"github.com/vacradar/vacancy-api/internal/vacancy"
)

func ptr[T any](v T) *T { return &v }

func setupServer(t *testing.T) (*httptest.Server, *vacrepo.Repository, *run.Service) {
	t.Helper()

	db, err := sqlite.Open(":memory:")
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	vr := vacrepo.NewRepository(db.DB)
	rs := run.NewService(runrepo.NewRepository(db.DB))

	srv := httptest.NewServer(NewHandler(stats.NewService(vr), rs))
	t.Cleanup(srv.Close)

	return srv, vr, rs
}

func seedVacancies(t *testing.T, repo *vacrepo.Repository) {
	t.Helper()

	rows := []vacancy.Vacancy{
		{
			ID:               101,
			Name:             "Go Developer",
			City:             ptr("Москва"),
			SalaryBottom:     ptr(200000.0),
			SalaryTop:        ptr(300000.0),
			Currency:         ptr("RUR"),
			PublishedAt:      "2026-08-27T10:00:00+0300",
			EmployerName:     "Acme",
			KeySkills:        ptr("Go, SQL"),
			Schedule:         "Удаленная работа",
			ProfessionalRole: "Программист, разработчик",
			Experience:       "От 3 до 6 лет",
		},
		{
			ID:               102,
			Name:             "QA Engineer",
			PublishedAt:      "2026-08-28T09:00:00+0300",
			EmployerName:     "Beta",
			Schedule:         "Полный день",
			ProfessionalRole: "Тестировщик",
			Experience:       "От 1 года до 3 лет",
		},
	}
	for i := range rows {
		if _, err := repo.Insert(context.Background(), &rows[i]); err != nil {
			t.Fatalf("seed vacancy %d: %v", rows[i].ID, err)
		}
	}
}

func decodeBody[T any](t *testing.T, resp *http.Response) T {
	t.Helper()

	var body APIResponse[T]
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return body.Data
}

func TestHealth(t *testing.T) {
	srv, _, _ := setupServer(t)

	resp, err := http.Get(srv.URL + "/health")
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	data := decodeBody[map[string]string](t, resp)
	if data["status"] != "ok" {
		t.Errorf("expected status ok, got %q", data["status"])
	}
}

func TestGetStats(t *testing.T) {
	srv, vr, _ := setupServer(t)
	seedVacancies(t, vr)

	names := []string{
		"salary-by-role",
		"salary-by-city",
		"roles-count",
		"salary-by-experience",
		"key-skills",
		"schedule-analysis",
		"vacancy-dynamics",
		"employer-analysis",
	}
	for _, name := range names {
		t.Run(name, func(t *testing.T) {
			resp, err := http.Get(srv.URL + "/api/v1/stats/" + name)
			if err != nil {
				t.Fatalf("request: %v", err)
			}
			defer resp.Body.Close()

			if resp.StatusCode != http.StatusOK {
				t.Fatalf("expected 200, got %d", resp.StatusCode)
			}
			data := decodeBody[[]json.RawMessage](t, resp)
			if len(data) == 0 {
				t.Error("expected at least one row")
			}
		})
	}
}

func TestGetStats_RolesCountShape(t *testing.T) {
	srv, vr, _ := setupServer(t)
	seedVacancies(t, vr)

	resp, err := http.Get(srv.URL + "/api/v1/stats/roles-count")
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	defer resp.Body.Close()

	rows := decodeBody[[]vacancy.RolesCountRow](t, resp)
	if len(rows) != 2 {
		t.Fatalf("expected 2 roles, got %d", len(rows))
	}
	for _, row := range rows {
		if row.CountVacancies != 1 {
			t.Errorf("role %q: expected count 1, got %d", row.ProfessionalRole, row.CountVacancies)
		}
	}
}

func TestGetStats_Unknown(t *testing.T) {
	srv, _, _ := setupServer(t)

	resp, err := http.Get(srv.URL + "/api/v1/stats/nope")
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

func TestGetStats_CSV(t *testing.T) {
	srv, vr, _ := setupServer(t)
	seedVacancies(t, vr)

	resp, err := http.Get(srv.URL + "/api/v1/stats/salary-by-role?format=csv")
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	defer resp.Body.Close()

	if ct := resp.Header.Get("Content-Type"); ct != "text/csv" {
		t.Fatalf("expected text/csv, got %q", ct)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header plus 2 rows, got %d lines", len(lines))
	}
	if lines[0] != "professional_role,salary_bottom,salary_top,currency,total_vacancies" {
		t.Errorf("unexpected header: %q", lines[0])
	}
}

func TestGetVacancy(t *testing.T) {
	srv, vr, _ := setupServer(t)
	seedVacancies(t, vr)

	resp, err := http.Get(srv.URL + "/api/v1/vacancies/101")
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	v := decodeBody[vacancy.Vacancy](t, resp)
	if v.Name != "Go Developer" {
		t.Errorf("expected Go Developer, got %q", v.Name)
	}
	if v.SalaryBottom == nil || *v.SalaryBottom != 200000 {
		t.Errorf("unexpected salary bottom: %v", v.SalaryBottom)
	}
}

func TestGetVacancy_NotFound(t *testing.T) {
	srv, _, _ := setupServer(t)

	resp, err := http.Get(srv.URL + "/api/v1/vacancies/999")
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

func TestGetVacancy_BadID(t *testing.T) {
	srv, _, _ := setupServer(t)

	resp, err := http.Get(srv.URL + "/api/v1/vacancies/abc")
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestRuns(t *testing.T) {
	srv, _, rs := setupServer(t)

	r, err := rs.Begin(context.Background())
	if err != nil {
		t.Fatalf("begin run: %v", err)
	}
	r.RangeLow, r.RangeHigh = 995, 1000
	r.Accepted = 2
	if err := rs.Complete(context.Background(), r); err != nil {
		t.Fatalf("complete run: %v", err)
	}

	resp, err := http.Get(srv.URL + "/api/v1/runs")
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	defer resp.Body.Close()

	runs := decodeBody[[]run.Run](t, resp)
	if len(runs) != 1 {
		t.Fatalf("expected 1 run, got %d", len(runs))
	}
	if runs[0].Status != run.StatusCompleted {
		t.Errorf("expected completed, got %q", runs[0].Status)
	}

	resp2, err := http.Get(srv.URL + "/api/v1/runs/" + r.ID)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	defer resp2.Body.Close()

	got := decodeBody[run.Run](t, resp2)
	if got.Accepted != 2 {
		t.Errorf("expected 2 accepted, got %d", got.Accepted)
	}
}

func TestRuns_NotFound(t *testing.T) {
	srv, _, _ := setupServer(t)

	resp, err := http.Get(srv.URL + "/api/v1/runs/no-such-run")
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

func TestRequestIDHeader(t *testing.T) {
	srv, _, _ := setupServer(t)

	resp, err := http.Get(srv.URL + "/health")
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	defer resp.Body.Close()

	if resp.Header.Get("X-Request-ID") == "" {
		t.Error("expected X-Request-ID header to be set")
	}
}
