package vacancy

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/vacradar/vacancy-api/internal/apperror"
	domain "github.com/vacradar/vacancy-api/internal/vacancy"
)

// Repository persists vacancies in a single sqlite table. Conflict policy:
// INSERT OR IGNORE — the first write for an id wins and a re-insert is a
// no-op, so re-sweeping an overlapping range never duplicates or mutates
// rows.
type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Insert(ctx context.Context, v *domain.Vacancy) (bool, error) {
	const query = `INSERT OR IGNORE INTO vacancies
		(id, name, city, salary_bottom, salary_top, currency, published_at,
		 employer_name, key_skills, schedule, professional_role, experience)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	res, err := r.db.ExecContext(ctx, query,
		v.ID, v.Name, v.City, v.SalaryBottom, v.SalaryTop, v.Currency,
		v.PublishedAt, v.EmployerName, v.KeySkills, v.Schedule,
		v.ProfessionalRole, v.Experience,
	)
	if err != nil {
		return false, fmt.Errorf("insert vacancy %d: %w", v.ID, err)
	}

	n, _ := res.RowsAffected()
	return n > 0, nil
}

func (r *Repository) Get(ctx context.Context, id int64) (*domain.Vacancy, error) {
	const query = `SELECT id, name, city, salary_bottom, salary_top, currency,
		published_at, employer_name, key_skills, schedule, professional_role, experience
		FROM vacancies WHERE id = ?`

	v := &domain.Vacancy{}
	var city, currency, skills sql.NullString
	var bottom, top sql.NullFloat64

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&v.ID, &v.Name, &city, &bottom, &top, &currency,
		&v.PublishedAt, &v.EmployerName, &skills, &v.Schedule,
		&v.ProfessionalRole, &v.Experience,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.New(apperror.NotFound, "vacancy not found")
	}
	if err != nil {
		return nil, fmt.Errorf("get vacancy %d: %w", id, err)
	}

	v.City = strPtr(city)
	v.SalaryBottom = floatPtr(bottom)
	v.SalaryTop = floatPtr(top)
	v.Currency = strPtr(currency)
	v.KeySkills = strPtr(skills)
	return v, nil
}

func (r *Repository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM vacancies`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count vacancies: %w", err)
	}
	return n, nil
}

func (r *Repository) HasData(ctx context.Context) (bool, error) {
	var id int64
	err := r.db.QueryRowContext(ctx, `SELECT id FROM vacancies ORDER BY id ASC LIMIT 1`).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check vacancies table: %w", err)
	}
	return true, nil
}

func (r *Repository) SalaryByRole(ctx context.Context) ([]domain.SalaryByRoleRow, error) {
	const query = `SELECT professional_role, salary_bottom, salary_top, currency,
		COUNT(*) OVER (PARTITION BY professional_role) AS total_vacancies
		FROM vacancies
		ORDER BY professional_role`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("salary by role: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []domain.SalaryByRoleRow
	for rows.Next() {
		var row domain.SalaryByRoleRow
		var bottom, top sql.NullFloat64
		var currency sql.NullString
		if err := rows.Scan(&row.ProfessionalRole, &bottom, &top, &currency, &row.TotalVacancies); err != nil {
			return nil, fmt.Errorf("scan salary by role: %w", err)
		}
		row.SalaryBottom = floatPtr(bottom)
		row.SalaryTop = floatPtr(top)
		row.Currency = strPtr(currency)
		out = append(out, row)
	}
	return out, rows.Err()
}

func (r *Repository) SalaryByCity(ctx context.Context) ([]domain.SalaryByCityRow, error) {
	const query = `SELECT city, salary_bottom, salary_top, currency,
		COUNT(*) OVER (PARTITION BY city) AS total_vacancies
		FROM vacancies
		ORDER BY city`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("salary by city: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []domain.SalaryByCityRow
	for rows.Next() {
		var row domain.SalaryByCityRow
		var city, currency sql.NullString
		var bottom, top sql.NullFloat64
		if err := rows.Scan(&city, &bottom, &top, &currency, &row.TotalVacancies); err != nil {
			return nil, fmt.Errorf("scan salary by city: %w", err)
		}
		row.City = strPtr(city)
		row.SalaryBottom = floatPtr(bottom)
		row.SalaryTop = floatPtr(top)
		row.Currency = strPtr(currency)
		out = append(out, row)
	}
	return out, rows.Err()
}

func (r *Repository) RolesCount(ctx context.Context) ([]domain.RolesCountRow, error) {
	const query = `SELECT professional_role, COUNT(*) AS count_vacancies
		FROM vacancies
		GROUP BY professional_role
		ORDER BY count_vacancies DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("roles count: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []domain.RolesCountRow
	for rows.Next() {
		var row domain.RolesCountRow
		if err := rows.Scan(&row.ProfessionalRole, &row.CountVacancies); err != nil {
			return nil, fmt.Errorf("scan roles count: %w", err)
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func (r *Repository) SalaryByExperience(ctx context.Context) ([]domain.SalaryByExperienceRow, error) {
	const query = `SELECT experience, professional_role, salary_bottom, salary_top, currency,
		COUNT(*) OVER (PARTITION BY experience, professional_role) AS total_vacancies
		FROM vacancies
		ORDER BY experience, professional_role`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("salary by experience: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []domain.SalaryByExperienceRow
	for rows.Next() {
		var row domain.SalaryByExperienceRow
		var bottom, top sql.NullFloat64
		var currency sql.NullString
		if err := rows.Scan(&row.Experience, &row.ProfessionalRole, &bottom, &top, &currency, &row.TotalVacancies); err != nil {
			return nil, fmt.Errorf("scan salary by experience: %w", err)
		}
		row.SalaryBottom = floatPtr(bottom)
		row.SalaryTop = floatPtr(top)
		row.Currency = strPtr(currency)
		out = append(out, row)
	}
	return out, rows.Err()
}

func (r *Repository) KeySkills(ctx context.Context) ([]domain.KeySkillsRow, error) {
	const query = `SELECT professional_role, key_skills
		FROM vacancies
		WHERE key_skills IS NOT NULL`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("key skills: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []domain.KeySkillsRow
	for rows.Next() {
		var row domain.KeySkillsRow
		if err := rows.Scan(&row.ProfessionalRole, &row.KeySkills); err != nil {
			return nil, fmt.Errorf("scan key skills: %w", err)
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func (r *Repository) ScheduleAnalysis(ctx context.Context) ([]domain.ScheduleAnalysisRow, error) {
	const query = `SELECT schedule, salary_bottom, salary_top, currency, published_at,
		COUNT(*) OVER (PARTITION BY schedule) AS total_vacancies
		FROM vacancies
		ORDER BY schedule, published_at`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("schedule analysis: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []domain.ScheduleAnalysisRow
	for rows.Next() {
		var row domain.ScheduleAnalysisRow
		var bottom, top sql.NullFloat64
		var currency sql.NullString
		if err := rows.Scan(&row.Schedule, &bottom, &top, &currency, &row.PublishedAt, &row.TotalVacancies); err != nil {
			return nil, fmt.Errorf("scan schedule analysis: %w", err)
		}
		row.SalaryBottom = floatPtr(bottom)
		row.SalaryTop = floatPtr(top)
		row.Currency = strPtr(currency)
		out = append(out, row)
	}
	return out, rows.Err()
}

func (r *Repository) VacancyDynamics(ctx context.Context) ([]domain.VacancyDynamicsRow, error) {
	const query = `SELECT published_at, salary_bottom, salary_top, currency, professional_role
		FROM vacancies
		ORDER BY published_at`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("vacancy dynamics: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []domain.VacancyDynamicsRow
	for rows.Next() {
		var row domain.VacancyDynamicsRow
		var bottom, top sql.NullFloat64
		var currency sql.NullString
		if err := rows.Scan(&row.PublishedAt, &bottom, &top, &currency, &row.ProfessionalRole); err != nil {
			return nil, fmt.Errorf("scan vacancy dynamics: %w", err)
		}
		row.SalaryBottom = floatPtr(bottom)
		row.SalaryTop = floatPtr(top)
		row.Currency = strPtr(currency)
		out = append(out, row)
	}
	return out, rows.Err()
}

func (r *Repository) EmployerAnalysis(ctx context.Context) ([]domain.EmployerAnalysisRow, error) {
	const query = `SELECT employer_name, professional_role, key_skills, salary_bottom, salary_top, currency
		FROM vacancies
		ORDER BY employer_name`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("employer analysis: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []domain.EmployerAnalysisRow
	for rows.Next() {
		var row domain.EmployerAnalysisRow
		var skills, currency sql.NullString
		var bottom, top sql.NullFloat64
		if err := rows.Scan(&row.EmployerName, &row.ProfessionalRole, &skills, &bottom, &top, &currency); err != nil {
			return nil, fmt.Errorf("scan employer analysis: %w", err)
		}
		row.KeySkills = strPtr(skills)
		row.SalaryBottom = floatPtr(bottom)
		row.SalaryTop = floatPtr(top)
		row.Currency = strPtr(currency)
		out = append(out, row)
	}
	return out, rows.Err()
}

func strPtr(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	return &s.String
}

func floatPtr(f sql.NullFloat64) *float64 {
	if !f.Valid {
		return nil
	}
	return &f.Float64
}
