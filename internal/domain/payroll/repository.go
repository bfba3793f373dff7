package payroll

import (
	"context"
	"time"
)

// PayrollRepository persists per-employee payroll rows.
type PayrollRepository interface {
	// Upsert inserts the row or, when one already exists for the
	// (employee, month, year) key, overwrites its computed fields.
	Upsert(ctx context.Context, p Payroll) (Payroll, error)
	GetByEmployeePeriod(ctx context.Context, employeeID string, month, year int) (Payroll, error)
	List(ctx context.Context, filter PayrollFilter) ([]Payroll, error)
	// ListByPayrun returns the payrun's rows with employee identity and the
	// registered email joined, as needed by the payslip dispatcher.
	ListByPayrun(ctx context.Context, payrunID string) ([]Payroll, error)
	SetStatusByPayrun(ctx context.Context, payrunID string, status PayrollStatus) error
	MarkPayslipGenerated(ctx context.Context, payrollID string, path string) error
	MarkPayslipSent(ctx context.Context, payrollID string, sentAt time.Time) error

	// Legacy sync support.
	OrphanGroups(ctx context.Context) ([]OrphanGroup, error)
	LinkOrphansToPayrun(ctx context.Context, payrunID string, month, year int) error
}

// PayrunRepository persists payrun batches.
type PayrunRepository interface {
	// Create returns ErrPayrunAlreadyExists when a payrun for the period
	// exists; the (month, year) unique constraint backs the check so two
	// concurrent generations cannot both win.
	Create(ctx context.Context, p Payrun) (Payrun, error)
	GetByID(ctx context.Context, id string) (Payrun, error)
	GetByPeriod(ctx context.Context, month, year int) (Payrun, error)
	ExistsByPeriod(ctx context.Context, month, year int) (bool, error)
	List(ctx context.Context, filter PayrunFilter) ([]Payrun, error)
	UpdateTotals(ctx context.Context, id string, totals PayrunTotals, status PayrunStatus) error
	UpdateStatus(ctx context.Context, id string, status PayrunStatus, approvedBy string, notes *string) error
}
