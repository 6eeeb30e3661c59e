// Package scope decides what company scope an actor's admin screens are confined to.
package scope

import (
	"github.com/Marga-Ghale/ora-admin-console/internal/session"
	"github.com/Marga-Ghale/ora-admin-console/internal/types"
)

// FilterKind tells how list reads are scoped.
type FilterKind int

const (
	// FilterAbsent: no identity, nothing is accessible.
	FilterAbsent FilterKind = iota
	// FilterCompany: confined to one company.
	FilterCompany
	// FilterNone: unrestricted, only for a super-admin who asked for all companies.
	FilterNone
)

func (k FilterKind) String() string {
	switch k {
	case FilterCompany:
		return "company"
	case FilterNone:
		return "none"
	default:
		return "absent"
	}
}

// CompanyFilter is the active company filter of a decision.
type CompanyFilter struct {
	Kind    FilterKind
	Company string
}

// Decision is derived per request and never stored.
type Decision struct {
	IsSuperAdmin bool
	Filter       CompanyFilter
	// Company is the actor's own company, kept even when Filter is none.
	Company     string
	CompanyCode string
}

// Unrestricted reports whether the decision lifts the company filter.
func (d Decision) Unrestricted() bool {
	return d.Filter.Kind == FilterNone
}

// IsUnrestrictedActor accepts every historical convention for marking a super-admin:
// the role itself, the role+Management+super_admin triple, or the job role alone.
// The triple is subsumed by the role check; it stays listed so the accepted set is explicit.
//
// TODO: collapse to a single check once the upstream issues one canonical super-admin claim.
func IsUnrestrictedActor(id *session.Identity) bool {
	if id == nil {
		return false
	}
	switch {
	case id.Role == types.RoleSuperAdmin:
		return true
	case id.Role == types.RoleSuperAdmin &&
		id.Department == types.DepartmentManagement &&
		id.JobRole == types.JobRoleSuperAdmin:
		return true
	case id.JobRole == types.JobRoleSuperAdmin:
		return true
	}
	return false
}

// Classify derives the scope decision for an identity and the "show all companies" toggle.
func Classify(id *session.Identity, showAll bool) Decision {
	if id == nil {
		return Decision{Filter: CompanyFilter{Kind: FilterAbsent}}
	}

	d := Decision{
		IsSuperAdmin: IsUnrestrictedActor(id),
		Company:      id.Company,
		CompanyCode:  id.CompanyCode,
		Filter:       CompanyFilter{Kind: FilterCompany, Company: id.Company},
	}
	if d.IsSuperAdmin && showAll {
		d.Filter = CompanyFilter{Kind: FilterNone}
	}
	return d
}
