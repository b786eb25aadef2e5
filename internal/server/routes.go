package server

import (
	"net/http"

	"github.com/vacradar/vacancy-api/internal/run"
	"github.com/vacradar/vacancy-api/internal/stats"
)

// NewHandler creates the full HTTP handler with routes and middleware.
// Exported for use in tests (e.g., httptest.NewServer).
func NewHandler(statsSvc *stats.Service, runSvc *run.Service) http.Handler {
	return newMux(statsSvc, runSvc)
}

func newMux(statsSvc *stats.Service, runSvc *run.Service) http.Handler {
	h := &handler{
		statsSvc: statsSvc,
		runSvc:   runSvc,
	}

	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", h.health)
	mux.HandleFunc("GET /api/v1/stats/{name}", h.getStats)
	mux.HandleFunc("GET /api/v1/vacancies/{id}", h.getVacancy)
	mux.HandleFunc("GET /api/v1/runs", h.listRuns)
	mux.HandleFunc("GET /api/v1/runs/{id}", h.getRun)

	// Apply middleware stack: recovery -> requestID -> logging
	var handler http.Handler = mux
	handler = logging(handler)
	handler = requestID(handler)
	handler = recovery(handler)

	return handler
}
