package scope

import (
	"net/url"
	"strings"

	"github.com/Marga-Ghale/ora-admin-console/internal/session"
)

// CompanyParam is the list query parameter carrying the company filter.
const CompanyParam = "company"

// Scoped is a record that may belong to a company.
type Scoped interface {
	// ScopeCompany returns "" for global records.
	ScopeCompany() string
	// SearchFields lists the values free-text search looks at.
	SearchFields() []string
}

// BuildListQuery returns the list parameters for a decision.
// An absent decision yields ErrSessionAbsent: no request should be made.
func BuildListQuery(d Decision) (url.Values, error) {
	q := url.Values{}
	switch d.Filter.Kind {
	case FilterAbsent:
		return nil, session.ErrSessionAbsent
	case FilterCompany:
		if d.Filter.Company != "" {
			q.Set(CompanyParam, d.Filter.Company)
		}
	}
	return q, nil
}

// Allows reports whether a record is visible under the decision.
// Global records are always visible; an absent decision sees nothing else.
func Allows(d Decision, company string) bool {
	if company == "" {
		return true
	}
	switch d.Filter.Kind {
	case FilterNone:
		return true
	case FilterCompany:
		return company == d.Company
	}
	return false
}

// Refilter re-applies the scope client-side so a server that ignores the
// company parameter cannot leak other companies' records.
func Refilter[T Scoped](items []T, d Decision) []T {
	out := make([]T, 0, len(items))
	for _, it := range items {
		if Allows(d, it.ScopeCompany()) {
			out = append(out, it)
		}
	}
	return out
}

// Search keeps records where any search field contains term, case-insensitively.
func Search[T Scoped](items []T, term string) []T {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return items
	}
	out := make([]T, 0, len(items))
	for _, it := range items {
		for _, f := range it.SearchFields() {
			if strings.Contains(strings.ToLower(f), term) {
				out = append(out, it)
				break
			}
		}
	}
	return out
}

// Visible is scope filtering followed by search.
func Visible[T Scoped](items []T, d Decision, term string) []T {
	return Search(Refilter(items, d), term)
}
