// Package stats exposes the frozen set of read-only projections the
// external aggregation layer consumes. It adds no computation of its own;
// grouping and statistics happen downstream.
package stats

import (
	"context"

	"github.com/vacradar/vacancy-api/internal/vacancy"
)

type Service struct {
	repo vacancy.Repository
}

func NewService(repo vacancy.Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) SalaryByRole(ctx context.Context) ([]vacancy.SalaryByRoleRow, error) {
	return s.repo.SalaryByRole(ctx)
}

func (s *Service) SalaryByCity(ctx context.Context) ([]vacancy.SalaryByCityRow, error) {
	return s.repo.SalaryByCity(ctx)
}

func (s *Service) RolesCount(ctx context.Context) ([]vacancy.RolesCountRow, error) {
	return s.repo.RolesCount(ctx)
}

func (s *Service) SalaryByExperience(ctx context.Context) ([]vacancy.SalaryByExperienceRow, error) {
	return s.repo.SalaryByExperience(ctx)
}

func (s *Service) KeySkills(ctx context.Context) ([]vacancy.KeySkillsRow, error) {
	return s.repo.KeySkills(ctx)
}

func (s *Service) ScheduleAnalysis(ctx context.Context) ([]vacancy.ScheduleAnalysisRow, error) {
	return s.repo.ScheduleAnalysis(ctx)
}

func (s *Service) VacancyDynamics(ctx context.Context) ([]vacancy.VacancyDynamicsRow, error) {
	return s.repo.VacancyDynamics(ctx)
}

func (s *Service) EmployerAnalysis(ctx context.Context) ([]vacancy.EmployerAnalysisRow, error) {
	return s.repo.EmployerAnalysis(ctx)
}

func (s *Service) Vacancy(ctx context.Context, id int64) (*vacancy.Vacancy, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) Count(ctx context.Context) (int64, error) {
	return s.repo.Count(ctx)
}
