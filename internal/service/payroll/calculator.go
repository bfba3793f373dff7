package payroll

import (
	"github.com/shopspring/decimal"

	"github.com/workzen-hrms/hrms-backend-go/internal/domain/payroll"
	"github.com/workzen-hrms/hrms-backend-go/internal/domain/settings"
)

// The two calculation policies are deliberately different and must stay
// separate. BatchPayrollPolicy pro-rates basic salary over the configured
// working days and applies PF, tax and unpaid-day deductions.
// SingleEmployeePayrollPolicy divides gross over calendar days and deducts
// absent days only. The drift between them is historical; unifying them would
// change stored payroll output, so any merge needs an explicit product call.

var (
	hundred = decimal.NewFromInt(100)
	// Provident fund is a fixed 12% of the pro-rated basic.
	pfRate = decimal.New(12, -2)
)

// CalculationInput carries one employee's compensation and the month's
// attendance/leave aggregates.
type CalculationInput struct {
	BasicSalary decimal.Decimal
	Allowances  decimal.Decimal
	PresentDays int
	AbsentDays  int
	LeaveDays   float64
}

// CalculationResult is one employee's computed salary breakdown, every
// monetary figure already rounded to 2 decimal places.
type CalculationResult struct {
	BasicSalary decimal.Decimal
	Allowances  decimal.Decimal
	Deductions  decimal.Decimal
	GrossSalary decimal.Decimal
	NetSalary   decimal.Decimal
	WorkingDays int
	PresentDays int
	AbsentDays  int
	LeaveDays   float64
}

// BatchPayrollPolicy computes salaries for payrun generation. Basic salary is
// pro-rated by paid days (present + approved leave) over the configured
// working days; allowances are paid in full.
type BatchPayrollPolicy struct {
	workingDays decimal.Decimal
	taxRate     decimal.Decimal
}

// NewBatchPayrollPolicy validates the resolved policy. Zero or negative
// working days is a configuration error, not a divide-by-zero waiting to
// happen.
func NewBatchPayrollPolicy(policy settings.PayrollPolicy) (*BatchPayrollPolicy, error) {
	if policy.WorkingDaysPerMonth.LessThanOrEqual(decimal.Zero) {
		return nil, payroll.ErrInvalidPolicy
	}
	return &BatchPayrollPolicy{
		workingDays: policy.WorkingDaysPerMonth,
		taxRate:     policy.TaxRatePercent,
	}, nil
}

// Calculate applies the batch formula. Each monetary component is rounded to
// 2 decimal places before it enters a sum, so that folding the results
// reproduces the payrun totals exactly (round-then-sum).
func (p *BatchPayrollPolicy) Calculate(in CalculationInput) CalculationResult {
	perDay := in.BasicSalary.Div(p.workingDays)
	leaveDays := decimal.NewFromFloat(in.LeaveDays)
	paidDays := decimal.NewFromInt(int64(in.PresentDays)).Add(leaveDays)

	unpaidDays := p.workingDays.Sub(paidDays)
	if unpaidDays.IsNegative() {
		unpaidDays = decimal.Zero
	}

	calculatedBasic := perDay.Mul(paidDays).Round(2)
	gross := calculatedBasic.Add(in.Allowances.Round(2))

	pfDeduction := calculatedBasic.Mul(pfRate).Round(2)
	taxDeduction := gross.Mul(p.taxRate).Div(hundred).Round(2)
	unpaidDeduction := perDay.Mul(unpaidDays).Round(2)
	totalDeductions := pfDeduction.Add(taxDeduction).Add(unpaidDeduction)

	net := gross.Sub(totalDeductions)
	if net.IsNegative() {
		net = decimal.Zero
	}

	workingDays := int(p.workingDays.IntPart())

	return CalculationResult{
		BasicSalary: in.BasicSalary.Round(2),
		Allowances:  in.Allowances.Round(2),
		Deductions:  totalDeductions,
		GrossSalary: gross,
		NetSalary:   net,
		WorkingDays: workingDays,
		PresentDays: in.PresentDays,
		AbsentDays:  in.AbsentDays,
		LeaveDays:   in.LeaveDays,
	}
}

// SingleEmployeePayrollPolicy computes a salary for on-demand generation of
// one employee. Gross stays unprorated; only absent days are deducted, at a
// per-day rate over the calendar days of the month.
type SingleEmployeePayrollPolicy struct {
	calendarDays int
}

func NewSingleEmployeePayrollPolicy(calendarDays int) (*SingleEmployeePayrollPolicy, error) {
	if calendarDays <= 0 {
		return nil, payroll.ErrInvalidPeriod
	}
	return &SingleEmployeePayrollPolicy{calendarDays: calendarDays}, nil
}

func (p *SingleEmployeePayrollPolicy) Calculate(in CalculationInput) CalculationResult {
	gross := in.BasicSalary.Add(in.Allowances).Round(2)
	perDay := gross.Div(decimal.NewFromInt(int64(p.calendarDays)))
	deductions := perDay.Mul(decimal.NewFromInt(int64(in.AbsentDays))).Round(2)

	net := gross.Sub(deductions)
	if net.IsNegative() {
		net = decimal.Zero
	}

	return CalculationResult{
		BasicSalary: in.BasicSalary.Round(2),
		Allowances:  in.Allowances.Round(2),
		Deductions:  deductions,
		GrossSalary: gross,
		NetSalary:   net,
		WorkingDays: p.calendarDays,
		PresentDays: in.PresentDays,
		AbsentDays:  in.AbsentDays,
		LeaveDays:   in.LeaveDays,
	}
}
