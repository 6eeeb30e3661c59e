package types

// Actor roles as issued by the login flow
const (
	RoleSuperAdmin = "super-admin"
	RoleAdmin      = "admin"
	RoleEmployee   = "employee"
)

// Legacy markers that also flag an unrestricted actor
const (
	DepartmentManagement = "Management"
	JobRoleSuperAdmin    = "super_admin"
)

// Task Status values
const (
	StatusTodo       = "todo"
	StatusInProgress = "in_progress"
	StatusDone       = "done"
	StatusCancelled  = "cancelled"
)

// Task Priority values
const (
	PriorityHigh   = "high"
	PriorityMedium = "medium"
	PriorityLow    = "low"
)

// Admin screen resource kinds
const (
	KindDepartment = "department"
	KindMeeting    = "meeting"
	KindTask       = "task"
)
