package entity

import (
	"time"

	"github.com/Marga-Ghale/ora-admin-console/internal/types"
	"github.com/shopspring/decimal"
)

var TaskKind = Kind{Name: types.KindTask, Path: "tasks", Envelope: "tasks"}

// Task is a project task assigned to an employee.
type Task struct {
	ID             string           `json:"id,omitempty"`
	Title          string           `json:"title" binding:"max=200"`
	Description    string           `json:"description,omitempty" binding:"max=4000"`
	ProjectID      string           `json:"projectId,omitempty"`
	AssigneeID     string           `json:"assigneeId,omitempty"`
	Status         string           `json:"status,omitempty" binding:"omitempty,oneof=todo in_progress done cancelled"`
	Priority       string           `json:"priority,omitempty" binding:"omitempty,oneof=high medium low"`
	EstimatedHours *decimal.Decimal `json:"estimatedHours,omitempty"`
	DueDate        *time.Time       `json:"dueDate,omitempty"`
	Ownership
}

func (t *Task) Key() string          { return t.ID }
func (t *Task) RequiredName() string { return t.Title }

// Active is false once the task is done or cancelled, or explicitly deactivated.
func (t *Task) Active() bool {
	if t.Status == types.StatusDone || t.Status == types.StatusCancelled {
		return false
	}
	return t.Ownership.Active()
}

func (t *Task) SearchFields() []string {
	return []string{t.Title, t.Description, t.CompanyCode}
}

// EstimateOrZero returns the estimate, zero when unset.
func (t *Task) EstimateOrZero() decimal.Decimal {
	if t.EstimatedHours == nil {
		return decimal.Zero
	}
	return *t.EstimatedHours
}

// TotalEstimate sums the estimates of the given tasks.
func TotalEstimate(tasks []*Task) decimal.Decimal {
	total := decimal.Zero
	for _, t := range tasks {
		total = total.Add(t.EstimateOrZero())
	}
	return total
}
