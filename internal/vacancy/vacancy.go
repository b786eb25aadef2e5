package vacancy

// Vacancy is the flat, fully-typed record built from a raw hh.ru payload.
// ID is assigned by the remote source, never locally. The salary trio is
// either all set or all nil.
type Vacancy struct {
	ID               int64    `json:"id"`
	Name             string   `json:"name"`
	City             *string  `json:"city"`
	SalaryBottom     *float64 `json:"salaryBottom"`
	SalaryTop        *float64 `json:"salaryTop"`
	Currency         *string  `json:"currency"`
	PublishedAt      string   `json:"publishedAt"`
	EmployerName     string   `json:"employerName"`
	KeySkills        *string  `json:"keySkills"`
	Schedule         string   `json:"schedule"`
	ProfessionalRole string   `json:"professionalRole"`
	Experience       string   `json:"experience"`

	// ProfessionalRoleID is the category id used for filter decisioning.
	// It is not persisted as its own column.
	ProfessionalRoleID int64 `json:"-"`
}

// SalaryByRoleRow et al. are the frozen projection contracts consumed by
// the external aggregation layer. TotalVacancies carries the per-group
// row count so the consumer can compute with-salary ratios.
type SalaryByRoleRow struct {
	ProfessionalRole string   `json:"professionalRole"`
	SalaryBottom     *float64 `json:"salaryBottom"`
	SalaryTop        *float64 `json:"salaryTop"`
	Currency         *string  `json:"currency"`
	TotalVacancies   int64    `json:"totalVacancies"`
}

type SalaryByCityRow struct {
	City           *string  `json:"city"`
	SalaryBottom   *float64 `json:"salaryBottom"`
	SalaryTop      *float64 `json:"salaryTop"`
	Currency       *string  `json:"currency"`
	TotalVacancies int64    `json:"totalVacancies"`
}

type RolesCountRow struct {
	ProfessionalRole string `json:"professionalRole"`
	CountVacancies   int64  `json:"countVacancies"`
}

type SalaryByExperienceRow struct {
	Experience       string   `json:"experience"`
	ProfessionalRole string   `json:"professionalRole"`
	SalaryBottom     *float64 `json:"salaryBottom"`
	SalaryTop        *float64 `json:"salaryTop"`
	Currency         *string  `json:"currency"`
	TotalVacancies   int64    `json:"totalVacancies"`
}

type KeySkillsRow struct {
	ProfessionalRole string `json:"professionalRole"`
	KeySkills        string `json:"keySkills"`
}

type ScheduleAnalysisRow struct {
	Schedule       string   `json:"schedule"`
	SalaryBottom   *float64 `json:"salaryBottom"`
	SalaryTop      *float64 `json:"salaryTop"`
	Currency       *string  `json:"currency"`
	PublishedAt    string   `json:"publishedAt"`
	TotalVacancies int64    `json:"totalVacancies"`
}

type VacancyDynamicsRow struct {
	PublishedAt      string   `json:"publishedAt"`
	SalaryBottom     *float64 `json:"salaryBottom"`
	SalaryTop        *float64 `json:"salaryTop"`
	Currency         *string  `json:"currency"`
	ProfessionalRole string   `json:"professionalRole"`
}

type EmployerAnalysisRow struct {
	EmployerName     string   `json:"employerName"`
	ProfessionalRole string   `json:"professionalRole"`
	KeySkills        *string  `json:"keySkills"`
	SalaryBottom     *float64 `json:"salaryBottom"`
	SalaryTop        *float64 `json:"salaryTop"`
	Currency         *string  `json:"currency"`
}
