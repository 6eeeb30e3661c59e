package entity

import (
	"time"

	"github.com/Marga-Ghale/ora-admin-console/internal/types"
)

var DepartmentKind = Kind{Name: types.KindDepartment, Path: "departments", Envelope: "departments"}

type Department struct {
	ID          string     `json:"id,omitempty"`
	Name        string     `json:"name" binding:"max=120"`
	Description string     `json:"description,omitempty" binding:"max=1000"`
	Code        string     `json:"code,omitempty" binding:"max=32"`
	CreatedAt   *time.Time `json:"createdAt,omitempty"`
	Ownership
}

func (d *Department) Key() string          { return d.ID }
func (d *Department) RequiredName() string { return d.Name }

func (d *Department) SearchFields() []string {
	return []string{d.Name, d.Description, d.Code, d.CompanyCode}
}
