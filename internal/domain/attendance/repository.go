package attendance

import "context"

// AttendanceRepository exposes read-only aggregates over the attendance table.
//
// The two methods deliberately count "present" differently: the batch payrun
// path counts Present and Late only, while the single-employee payroll path
// also counts Half Day as present. Both definitions are inherited from the
// two original call sites and are kept separate on purpose; unifying them
// would silently change historical payroll output.
type AttendanceRepository interface {
	// MonthlySummaries returns per-employee present/absent day counts for the
	// month, for every employee with at least one attendance row. Employees
	// without rows are simply missing from the result.
	MonthlySummaries(ctx context.Context, month, year int) ([]MonthlySummary, error)

	// EmployeeMonthlySummary returns one employee's counts for the month,
	// counting Half Day as present. No rows yields zero counts, not an error.
	EmployeeMonthlySummary(ctx context.Context, employeeID string, month, year int) (MonthlySummary, error)
}
