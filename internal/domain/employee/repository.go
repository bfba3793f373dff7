package employee

import "context"

// EmployeeRepository is the payroll core's read model over employees.
// Employee CRUD itself is owned by the HR subsystem.
type EmployeeRepository interface {
	GetByID(ctx context.Context, id string) (Employee, error)
	// GetActiveByID returns the employee only when status = active.
	// Unknown IDs yield ErrEmployeeNotFound; existing inactive employees
	// yield ErrEmployeeNotActive.
	GetActiveByID(ctx context.Context, id string) (Employee, error)
	GetByUserID(ctx context.Context, userID string) (Employee, error)
	// GetAllActive returns every active employee with the user email joined.
	GetAllActive(ctx context.Context) ([]Employee, error)
}
