package server

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/vacradar/vacancy-api/internal/apperror"
	"github.com/vacradar/vacancy-api/internal/run"
	"github.com/vacradar/vacancy-api/internal/stats"
)

type handler struct {
	statsSvc *stats.Service
	runSvc   *run.Service
}

func (h *handler) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// getStats serves the named read-only projections. The set of names is
// the frozen contract with the aggregation layer.
func (h *handler) getStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	name := r.PathValue("name")

	var (
		data any
		err  error
	)
	switch name {
	case "salary-by-role":
		rows, qerr := h.statsSvc.SalaryByRole(ctx)
		if qerr == nil && r.URL.Query().Get("format") == "csv" {
			writeSalaryByRoleCSV(w, rows)
			return
		}
		data, err = rows, qerr
	case "salary-by-city":
		data, err = h.statsSvc.SalaryByCity(ctx)
	case "roles-count":
		data, err = h.statsSvc.RolesCount(ctx)
	case "salary-by-experience":
		data, err = h.statsSvc.SalaryByExperience(ctx)
	case "key-skills":
		data, err = h.statsSvc.KeySkills(ctx)
	case "schedule-analysis":
		data, err = h.statsSvc.ScheduleAnalysis(ctx)
	case "vacancy-dynamics":
		data, err = h.statsSvc.VacancyDynamics(ctx)
	case "employer-analysis":
		data, err = h.statsSvc.EmployerAnalysis(ctx)
	default:
		writeError(w, http.StatusNotFound, "unknown stats query: "+name)
		return
	}

	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, data)
}

func (h *handler) getVacancy(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid vacancy id")
		return
	}

	v, err := h.statsSvc.Vacancy(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (h *handler) getRun(w http.ResponseWriter, r *http.Request) {
	rn, err := h.runSvc.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rn)
}

func (h *handler) listRuns(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		limit, _ = strconv.Atoi(v)
	}

	runs, err := h.runSvc.List(r.Context(), limit)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, runs)
}

func writeServiceError(w http.ResponseWriter, err error) {
	var ae *apperror.AppError
	if errors.As(err, &ae) {
		writeError(w, ae.HTTPStatus(), ae.Message())
		return
	}
	writeError(w, http.StatusInternalServerError, err.Error())
}
