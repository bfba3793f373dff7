package payroll

import "context"

// PayrollService is the payroll pipeline: payrun orchestration, the approval
// state machine, single-employee generation, listings, and the legacy sync
// repair utility.
type PayrollService interface {
	GeneratePayrun(ctx context.Context, req GeneratePayrunRequest) (GeneratePayrunResponse, error)
	GenerateEmployeePayroll(ctx context.Context, req GenerateEmployeePayrollRequest) (PayrollBreakdown, error)
	ProcessPayrunAction(ctx context.Context, req PayrunActionRequest) (PayrunActionResponse, error)
	ListPayruns(ctx context.Context, filter PayrunFilter) ([]PayrunResponse, error)
	ListPayrolls(ctx context.Context, filter PayrollFilter) ([]PayrollResponse, error)
	SyncLegacyPayruns(ctx context.Context) error
}

// PayslipService renders, stores and dispatches payslip artifacts for an
// approved payrun. Row-level failures are counted, never propagated.
type PayslipService interface {
	GenerateForPayrun(ctx context.Context, payrunID string) (PayslipGenerationResult, error)
}
