package vacancy

import (
	"github.com/vacradar/vacancy-api/internal/hh"
)

// RoleFilter is the precomputed set of role ids accepted during a sweep,
// built once from the taxonomy and read-only afterwards, so concurrent
// tasks share it without locking.
type RoleFilter struct {
	roles map[int64]string
}

// NewRoleFilter collects the immediate leaf roles of the category named
// vertical. A taxonomy without that category yields an empty filter; the
// caller decides whether zero acceptance is worth a warning.
func NewRoleFilter(tax *hh.Taxonomy, vertical string) *RoleFilter {
	f := &RoleFilter{roles: make(map[int64]string)}
	if tax == nil {
		return f
	}
	for _, cat := range tax.Categories {
		if cat.Name != vertical {
			continue
		}
		for _, role := range cat.Roles {
			f.roles[int64(role.ID)] = role.Name
		}
		break
	}
	return f
}

func (f *RoleFilter) Contains(roleID int64) bool {
	_, ok := f.roles[roleID]
	return ok
}

func (f *RoleFilter) NameOf(roleID int64) string {
	return f.roles[roleID]
}

func (f *RoleFilter) Len() int {
	return len(f.roles)
}

// MatchesAny reports whether any of the listed roles is in the filter.
// The record is attributed to its first listed role, but the acceptance
// check considers all of them.
func (f *RoleFilter) MatchesAny(roles []hh.Role) bool {
	for _, r := range roles {
		if f.Contains(int64(r.ID)) {
			return true
		}
	}
	return false
}
