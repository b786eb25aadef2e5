package server

import (
	"encoding/csv"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/vacradar/vacancy-api/internal/vacancy"
)

type APIResponse[T any] struct {
	Message string `json:"message"`
	Data    T      `json:"data"`
}

func writeJSON[T any](w http.ResponseWriter, status int, data T) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(APIResponse[T]{
		Message: "ok",
		Data:    data,
	})
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(APIResponse[string]{
		Message: message,
		Data:    "",
	})
}

func writeSalaryByRoleCSV(w http.ResponseWriter, rows []vacancy.SalaryByRoleRow) {
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", "attachment; filename=salary_by_role.csv")
	w.WriteHeader(http.StatusOK)

	cw := csv.NewWriter(w)
	_ = cw.Write([]string{"professional_role", "salary_bottom", "salary_top", "currency", "total_vacancies"})
	for _, row := range rows {
		_ = cw.Write([]string{
			row.ProfessionalRole,
			csvFloat(row.SalaryBottom),
			csvFloat(row.SalaryTop),
			csvString(row.Currency),
			strconv.FormatInt(row.TotalVacancies, 10),
		})
	}
	cw.Flush()
}

// csvFloat renders an optional numeric as an empty cell, never a sentinel.
func csvFloat(f *float64) string {
	if f == nil {
		return ""
	}
	return strconv.FormatFloat(*f, 'f', -1, 64)
}

func csvString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
