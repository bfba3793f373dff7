package leave

import "context"

// LeaveRepository exposes read-only aggregates over approved leave requests.
type LeaveRepository interface {
	// ApprovedDaysByEmployee returns approved leave-day totals for the month,
	// keyed by start-date month/year, for every employee with approved leave.
	ApprovedDaysByEmployee(ctx context.Context, month, year int) ([]ApprovedDays, error)

	// EmployeeApprovedDays returns one employee's approved leave-day total
	// for the month. No matching requests yields 0, not an error.
	EmployeeApprovedDays(ctx context.Context, employeeID string, month, year int) (float64, error)
}
