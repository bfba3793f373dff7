package payroll

import (
	"time"

	"github.com/shopspring/decimal"
)

// PayrollStatus enum
type PayrollStatus string

const (
	PayrollStatusDraft     PayrollStatus = "Draft"
	PayrollStatusProcessed PayrollStatus = "Processed"
)

// PayrunStatus enum. Approved, Rejected and Locked are stable end states:
// no further transition is defined for them.
type PayrunStatus string

const (
	PayrunStatusDraft           PayrunStatus = "Draft"
	PayrunStatusPendingApproval PayrunStatus = "Pending Approval"
	PayrunStatusApproved        PayrunStatus = "Approved"
	PayrunStatusRejected        PayrunStatus = "Rejected"
	PayrunStatusLocked          PayrunStatus = "Locked"
)

// PayrunAction is the transition input for the approval state machine.
type PayrunAction string

const (
	ActionApprove PayrunAction = "approve"
	ActionReject  PayrunAction = "reject"
	ActionLock    PayrunAction = "lock"
)

// TargetStatus maps an action to the status it transitions the payrun into.
func (a PayrunAction) TargetStatus() (PayrunStatus, bool) {
	switch a {
	case ActionApprove:
		return PayrunStatusApproved, true
	case ActionReject:
		return PayrunStatusRejected, true
	case ActionLock:
		return PayrunStatusLocked, true
	}
	return "", false
}

// Payroll is one employee's computed salary record for one (month, year).
// At most one row exists per (employee, month, year); regeneration upserts.
type Payroll struct {
	ID               string
	EmployeeID       string
	PayrunID         *string
	Month            int
	Year             int
	BasicSalary      decimal.Decimal
	Allowances       decimal.Decimal
	Deductions       decimal.Decimal
	GrossSalary      decimal.Decimal
	NetSalary        decimal.Decimal
	WorkingDays      int
	PresentDays      int
	AbsentDays       int
	LeaveDays        float64
	// Bonus and Penalty are manual adjustments entered outside the
	// generation flow; regeneration leaves them untouched.
	Bonus            *decimal.Decimal
	Penalty          *decimal.Decimal
	Status           PayrollStatus
	PayslipGenerated bool
	PayslipPath      *string
	PayslipSentAt    *time.Time
	GeneratedBy      *string
	CreatedAt        time.Time
	UpdatedAt        time.Time

	// Joined fields
	EmployeeCode   *string
	FirstName      *string
	LastName       *string
	Department     *string
	Designation    *string
	EmployeeEmail  *string
	EmployeeUserID *string
	PayrunStatus   *PayrunStatus
}

// Payrun is one batch-processing unit covering all active employees for a
// single (month, year). At most one row exists per period.
type Payrun struct {
	ID              string
	Month           int
	Year            int
	Status          PayrunStatus
	TotalEmployees  int
	TotalGross      decimal.Decimal
	TotalDeductions decimal.Decimal
	TotalNet        decimal.Decimal
	GeneratedBy     *string
	ApprovedBy      *string
	ApprovedAt      *time.Time
	Notes           *string
	CreatedAt       time.Time
	UpdatedAt       time.Time

	// Joined fields
	GeneratedByEmail *string
	ApprovedByEmail  *string
}

// PayrunTotals is the fold result accumulated over per-employee payrolls.
type PayrunTotals struct {
	Employees  int
	Gross      decimal.Decimal
	Deductions decimal.Decimal
	Net        decimal.Decimal
}

// OrphanGroup is one (month, year) cluster of payroll rows that have no
// payrun link, with totals synthesized from the rows themselves.
type OrphanGroup struct {
	Month      int
	Year       int
	Employees  int
	Gross      decimal.Decimal
	Deductions decimal.Decimal
	Net        decimal.Decimal
}
