package vacancy

import "context"

// Repository is the single-table record store. Insert is idempotent by
// source-assigned id: a conflicting re-insert is a no-op, never a second
// row.
type Repository interface {
	Insert(ctx context.Context, v *Vacancy) (inserted bool, err error)
	Get(ctx context.Context, id int64) (*Vacancy, error)
	Count(ctx context.Context) (int64, error)
	HasData(ctx context.Context) (bool, error)

	SalaryByRole(ctx context.Context) ([]SalaryByRoleRow, error)
	SalaryByCity(ctx context.Context) ([]SalaryByCityRow, error)
	RolesCount(ctx context.Context) ([]RolesCountRow, error)
	SalaryByExperience(ctx context.Context) ([]SalaryByExperienceRow, error)
	KeySkills(ctx context.Context) ([]KeySkillsRow, error)
	ScheduleAnalysis(ctx context.Context) ([]ScheduleAnalysisRow, error)
	VacancyDynamics(ctx context.Context) ([]VacancyDynamicsRow, error)
	EmployerAnalysis(ctx context.Context) ([]EmployerAnalysisRow, error)
}
