package payroll

import "errors"

var (
	ErrPayrunNotFound      = errors.New("payrun not found")
	ErrPayrunAlreadyExists = errors.New("payrun already exists for this month")
	ErrPayrollNotFound     = errors.New("payroll record not found")
	ErrInvalidPeriod       = errors.New("month and year are required")
	ErrInvalidAction       = errors.New("payrun ID and a valid action are required")
	ErrMissingEmployeeID   = errors.New("employee ID is required")
	// ErrInvalidPolicy guards the divisions in the batch calculation:
	// a zero working-days policy must fail, not produce infinities.
	ErrInvalidPolicy = errors.New("working days per month must be positive")
	// ErrPayslipGeneration marks the approved-but-payslips-failed case.
	// The approval itself stays committed; the caller should retry the
	// payslip stage only.
	ErrPayslipGeneration = errors.New("payrun approved but payslips failed to generate")
)
