package hh

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// ID decodes hh.ru identifiers, which appear both as JSON numbers and as
// quoted strings depending on the endpoint.
type ID int64

func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.Trim(data, `"`)
	if len(data) == 0 || string(data) == "null" {
		*id = 0
		return nil
	}
	n, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		return fmt.Errorf("parse id %q: %w", data, err)
	}
	*id = ID(n)
	return nil
}

// Role is a leaf of the professional-roles taxonomy.
type Role struct {
	ID   ID     `json:"id"`
	Name string `json:"name"`
}

// Category groups roles inside the taxonomy, e.g. "Информационные технологии".
type Category struct {
	ID    ID     `json:"id"`
	Name  string `json:"name"`
	Roles []Role `json:"roles"`
}

// Taxonomy is the full category tree returned by /professional_roles.
type Taxonomy struct {
	Categories []Category `json:"categories"`
}

// CodeName is the {id, name} shape hh.ru uses for closed-code fields
// such as schedule and experience.
type CodeName struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// SalaryRange is the compensation sub-object. From and To are individually
// nullable at the source.
type SalaryRange struct {
	From     *float64 `json:"from"`
	To       *float64 `json:"to"`
	Currency string   `json:"currency"`
}

// VacancyPayload is the raw shape of a single vacancy. Most sub-objects are
// optional; Errors is set when the remote reports a problem in the body
// instead of the status code.
type VacancyPayload struct {
	ID                ID              `json:"id"`
	Name              string          `json:"name"`
	PublishedAt       string          `json:"published_at"`
	Errors            json.RawMessage `json:"errors,omitempty"`
	Address           *Address        `json:"address"`
	SalaryRange       *SalaryRange    `json:"salary_range"`
	Employer          *Employer       `json:"employer"`
	KeySkills         []KeySkill      `json:"key_skills"`
	Schedule          *CodeName       `json:"schedule"`
	Experience        *CodeName       `json:"experience"`
	ProfessionalRoles []Role          `json:"professional_roles"`
}

type Address struct {
	City string `json:"city"`
}

type Employer struct {
	Name string `json:"name"`
}

type KeySkill struct {
	Name string `json:"name"`
}

// HasErrors reports whether the remote embedded an errors field in the body.
func (p *VacancyPayload) HasErrors() bool {
	return len(p.Errors) > 0 && string(p.Errors) != "null"
}

type vacancyPage struct {
	Items []struct {
		ID ID `json:"id"`
	} `json:"items"`
}
