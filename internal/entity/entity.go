// Package entity holds the company-scoped records managed by the admin screens.
package entity

import (
	"fmt"

	"github.com/Marga-Ghale/ora-admin-console/internal/scope"
)

// Record is what an admin screen lists and mutates.
type Record interface {
	scope.Scoped
	Key() string
	// RequiredName is the name-like field that must not be blank.
	RequiredName() string
	// Active is false for records in a terminal, inactive state.
	Active() bool
	Scope() (company, companyCode string)
	SetScope(company, companyCode string)
}

// Ownership fields shared by every scoped record. Empty Company = global.
type Ownership struct {
	Company     string `json:"company,omitempty"`
	CompanyCode string `json:"companyCode,omitempty"`
	CreatedBy   string `json:"createdBy,omitempty"`
	IsActive    *bool  `json:"isActive,omitempty"`
}

func (o *Ownership) ScopeCompany() string { return o.Company }

func (o *Ownership) Scope() (string, string) { return o.Company, o.CompanyCode }

func (o *Ownership) SetScope(company, companyCode string) {
	o.Company = company
	o.CompanyCode = companyCode
}

// Active treats a missing flag as active.
func (o *Ownership) Active() bool {
	return o.IsActive == nil || *o.IsActive
}

// Kind describes one resource of the upstream API.
type Kind struct {
	Name string
	// Path is the collection path, e.g. "departments".
	Path string
	// Envelope is the list response key tried before "data" and "items".
	Envelope string
}

// FailureMessage is the generic message used when the upstream gives none.
func (k Kind) FailureMessage(op string) string {
	switch op {
	case "list":
		return fmt.Sprintf("Failed to fetch %s", k.Path)
	default:
		return fmt.Sprintf("Failed to %s %s", op, k.Name)
	}
}
