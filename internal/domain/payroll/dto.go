package payroll

import (
	"time"

	"github.com/shopspring/decimal"
)

// ========== REQUESTS ==========

type GeneratePayrunRequest struct {
	Month PeriodValue `json:"month"`
	Year  PeriodValue `json:"year"`
}

func (r GeneratePayrunRequest) Period() (int, int, error) {
	month, year, ok := NormalizePeriod(r.Month, r.Year)
	if !ok {
		return 0, 0, ErrInvalidPeriod
	}
	return month, year, nil
}

type GenerateEmployeePayrollRequest struct {
	EmployeeID string      `json:"employeeId"`
	Month      PeriodValue `json:"month"`
	Year       PeriodValue `json:"year"`
}

func (r GenerateEmployeePayrollRequest) Validate() (month, year int, err error) {
	if r.EmployeeID == "" {
		return 0, 0, ErrMissingEmployeeID
	}
	month, year, ok := NormalizePeriod(r.Month, r.Year)
	if !ok {
		return 0, 0, ErrInvalidPeriod
	}
	return month, year, nil
}

type PayrunActionRequest struct {
	PayrunID string       `json:"payrunId"`
	Action   PayrunAction `json:"action"`
	Notes    *string      `json:"notes,omitempty"`
}

func (r PayrunActionRequest) Validate() error {
	if r.PayrunID == "" {
		return ErrInvalidAction
	}
	if _, ok := r.Action.TargetStatus(); !ok {
		return ErrInvalidAction
	}
	return nil
}

// ========== FILTERS ==========

type PayrunFilter struct {
	Month  *int
	Year   *int
	Status *string
}

type PayrollFilter struct {
	EmployeeID *string
	Month      *int
	Year       *int
	PayrunID   *string
	Role       *string
}

// ========== RESPONSES ==========

type GeneratePayrunResponse struct {
	Message         string          `json:"message"`
	PayrunID        string          `json:"payrunId"`
	TotalEmployees  int             `json:"totalEmployees"`
	TotalGross      decimal.Decimal `json:"totalGross"`
	TotalDeductions decimal.Decimal `json:"totalDeductions"`
	TotalNet        decimal.Decimal `json:"totalNet"`
}

// PayrollBreakdown is the computed result of a single-employee generation.
type PayrollBreakdown struct {
	BasicSalary decimal.Decimal `json:"basicSalary"`
	Allowances  decimal.Decimal `json:"allowances"`
	Deductions  decimal.Decimal `json:"deductions"`
	GrossSalary decimal.Decimal `json:"grossSalary"`
	NetSalary   decimal.Decimal `json:"netSalary"`
	WorkingDays int             `json:"workingDays"`
	PresentDays int             `json:"presentDays"`
	AbsentDays  int             `json:"absentDays"`
	LeaveDays   float64         `json:"leaveDays"`
}

type PayslipGenerationResult struct {
	Total        int `json:"total"`
	EmailsSent   int `json:"emailsSent"`
	EmailsFailed int `json:"emailsFailed"`
}

type PayrunActionResponse struct {
	Message  string                   `json:"message"`
	Status   PayrunStatus             `json:"status"`
	Payslips *PayslipGenerationResult `json:"payslips,omitempty"`
}

type PayrunResponse struct {
	ID               string          `json:"id"`
	Month            int             `json:"month"`
	Year             int             `json:"year"`
	Status           PayrunStatus    `json:"status"`
	TotalEmployees   int             `json:"total_employees"`
	TotalGross       decimal.Decimal `json:"total_gross_salary"`
	TotalDeductions  decimal.Decimal `json:"total_deductions"`
	TotalNet         decimal.Decimal `json:"total_net_salary"`
	GeneratedByEmail *string         `json:"generated_by_email,omitempty"`
	ApprovedByEmail  *string         `json:"approved_by_email,omitempty"`
	ApprovedAt       *time.Time      `json:"approved_at,omitempty"`
	Notes            *string         `json:"notes,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
}

type PayrollResponse struct {
	ID               string           `json:"id"`
	EmployeeID       string           `json:"employee_id"`
	PayrunID         *string          `json:"payrun_id,omitempty"`
	EmployeeName     string           `json:"employee_name"`
	EmployeeCode     string           `json:"employee_code"`
	Department       *string          `json:"department,omitempty"`
	Designation      *string          `json:"designation,omitempty"`
	Month            int              `json:"month"`
	Year             int              `json:"year"`
	BasicSalary      decimal.Decimal  `json:"basic_salary"`
	Allowances       decimal.Decimal  `json:"allowances"`
	Deductions       decimal.Decimal  `json:"deductions"`
	GrossSalary      decimal.Decimal  `json:"gross_salary"`
	NetSalary        decimal.Decimal  `json:"net_salary"`
	WorkingDays      int              `json:"working_days"`
	PresentDays      int              `json:"present_days"`
	AbsentDays       int              `json:"absent_days"`
	LeaveDays        float64          `json:"leave_days"`
	Bonus            *decimal.Decimal `json:"bonus,omitempty"`
	Penalty          *decimal.Decimal `json:"penalty,omitempty"`
	Status           PayrollStatus    `json:"status"`
	PayrunStatus     *PayrunStatus    `json:"payrun_status,omitempty"`
	PayslipGenerated bool             `json:"payslip_generated"`
	PayslipPath      *string          `json:"payslip_path,omitempty"`
	PayslipSentAt    *time.Time       `json:"payslip_sent_at,omitempty"`
	CreatedAt        time.Time        `json:"created_at"`
}
