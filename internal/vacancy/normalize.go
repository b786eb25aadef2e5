package vacancy

import (
	"errors"
	"fmt"
	"strings"

	"github.com/vacradar/vacancy-api/internal/hh"
)

// ErrRejected marks a payload that cannot become a record: the remote
// embedded an errors field, or a required sub-object is missing. Rejection
// is a per-record outcome, never fatal for the batch.
var ErrRejected = errors.New("payload rejected")

// Normalize flattens a raw payload into a Vacancy. Optional sub-objects
// (address, salary_range, key_skills) map to nil fields; missing required
// ones reject the record.
func Normalize(p *hh.VacancyPayload) (*Vacancy, error) {
	if p == nil {
		return nil, fmt.Errorf("%w: empty payload", ErrRejected)
	}
	if p.HasErrors() {
		return nil, fmt.Errorf("%w: remote errors field set", ErrRejected)
	}
	if p.ID == 0 || p.Name == "" {
		return nil, fmt.Errorf("%w: missing id or name", ErrRejected)
	}
	if p.PublishedAt == "" {
		return nil, fmt.Errorf("%w: missing published_at", ErrRejected)
	}
	if p.Employer == nil || p.Employer.Name == "" {
		return nil, fmt.Errorf("%w: missing employer", ErrRejected)
	}
	if p.Schedule == nil || p.Schedule.ID == "" {
		return nil, fmt.Errorf("%w: missing schedule", ErrRejected)
	}
	if p.Experience == nil || p.Experience.ID == "" {
		return nil, fmt.Errorf("%w: missing experience", ErrRejected)
	}
	if len(p.ProfessionalRoles) == 0 {
		return nil, fmt.Errorf("%w: missing professional roles", ErrRejected)
	}

	v := &Vacancy{
		ID:           int64(p.ID),
		Name:         p.Name,
		PublishedAt:  p.PublishedAt,
		EmployerName: p.Employer.Name,
		Schedule:     p.Schedule.ID,
		Experience:   p.Experience.ID,
		// A vacancy may list several roles; only the first is retained.
		ProfessionalRole:   p.ProfessionalRoles[0].Name,
		ProfessionalRoleID: int64(p.ProfessionalRoles[0].ID),
	}

	if p.Address != nil && p.Address.City != "" {
		city := p.Address.City
		v.City = &city
	}

	if bottom, top, currency, ok := salaryOf(p.SalaryRange); ok {
		v.SalaryBottom = &bottom
		v.SalaryTop = &top
		v.Currency = &currency
	}

	if skills := joinSkills(p.KeySkills); skills != "" {
		v.KeySkills = &skills
	}

	return v, nil
}

// salaryOf extracts the compensation trio. The trio is all-or-nothing: a
// range with neither bound, or without a currency, counts as absent. A
// one-sided range is closed with its present bound.
func salaryOf(r *hh.SalaryRange) (bottom, top float64, currency string, ok bool) {
	if r == nil || r.Currency == "" {
		return 0, 0, "", false
	}
	if r.From == nil && r.To == nil {
		return 0, 0, "", false
	}
	if r.From != nil {
		bottom = *r.From
	} else {
		bottom = *r.To
	}
	if r.To != nil {
		top = *r.To
	} else {
		top = *r.From
	}
	return bottom, top, r.Currency, true
}

func joinSkills(skills []hh.KeySkill) string {
	names := make([]string, 0, len(skills))
	for _, s := range skills {
		if s.Name != "" {
			names = append(names, s.Name)
		}
	}
	return strings.Join(names, ", ")
}
