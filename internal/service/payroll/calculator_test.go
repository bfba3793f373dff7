package payroll

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/workzen-hrms/hrms-backend-go/internal/domain/payroll"
	"github.com/workzen-hrms/hrms-backend-go/internal/domain/settings"
)

func testPolicy(workingDays, taxRate int64) settings.PayrollPolicy {
	return settings.PayrollPolicy{
		WorkingDaysPerMonth: decimal.NewFromInt(workingDays),
		TaxRatePercent:      decimal.NewFromInt(taxRate),
		WorkingHoursPerDay:  decimal.NewFromInt(8),
	}
}

func TestBatchPolicyFullAttendance(t *testing.T) {
	calc, err := NewBatchPayrollPolicy(testPolicy(22, 10))
	require.NoError(t, err)

	result := calc.Calculate(CalculationInput{
		BasicSalary: decimal.NewFromInt(30000),
		Allowances:  decimal.NewFromInt(5000),
		PresentDays: 20,
		LeaveDays:   2,
	})

	// 20 present + 2 leave covers all 22 working days, so no unpaid
	// deduction: gross 35000, PF 3600 (12% of 30000), tax 3500 (10%).
	assert.Equal(t, "35000.00", result.GrossSalary.StringFixed(2))
	assert.Equal(t, "7100.00", result.Deductions.StringFixed(2))
	assert.Equal(t, "27900.00", result.NetSalary.StringFixed(2))
	assert.Equal(t, 22, result.WorkingDays)
}

func TestBatchPolicyUnpaidDays(t *testing.T) {
	calc, err := NewBatchPayrollPolicy(testPolicy(22, 10))
	require.NoError(t, err)

	result := calc.Calculate(CalculationInput{
		BasicSalary: decimal.NewFromInt(30000),
		Allowances:  decimal.NewFromInt(5000),
		PresentDays: 18,
		LeaveDays:   0,
	})

	// 4 unpaid days at 1363.64 per day; pro-rated basic 24545.45
	assert.Equal(t, "29545.45", result.GrossSalary.StringFixed(2))
	assert.Equal(t, "11354.55", result.Deductions.StringFixed(2))
	assert.Equal(t, "18190.90", result.NetSalary.StringFixed(2))
}

func TestBatchPolicyOvercoveredMonthHasNoUnpaidDeduction(t *testing.T) {
	calc, err := NewBatchPayrollPolicy(testPolicy(22, 10))
	require.NoError(t, err)

	// present + leave exceeds working days; unpaid days clamp at zero
	result := calc.Calculate(CalculationInput{
		BasicSalary: decimal.NewFromInt(22000),
		Allowances:  decimal.Zero,
		PresentDays: 20,
		LeaveDays:   5,
	})

	// perDay = 1000, calculatedBasic = 25000, PF 3000, tax 2500, no unpaid
	assert.Equal(t, "25000.00", result.GrossSalary.StringFixed(2))
	assert.Equal(t, "5500.00", result.Deductions.StringFixed(2))
	assert.Equal(t, "19500.00", result.NetSalary.StringFixed(2))
}

func TestBatchPolicyNetNeverNegative(t *testing.T) {
	calc, err := NewBatchPayrollPolicy(testPolicy(22, 200))
	require.NoError(t, err)

	result := calc.Calculate(CalculationInput{
		BasicSalary: decimal.NewFromInt(10000),
		Allowances:  decimal.Zero,
		PresentDays: 22,
	})

	assert.True(t, result.NetSalary.IsZero(), "net must clamp at zero, got %s", result.NetSalary)
}

func TestBatchPolicyZeroWorkingDaysRejected(t *testing.T) {
	_, err := NewBatchPayrollPolicy(testPolicy(0, 10))
	assert.ErrorIs(t, err, payroll.ErrInvalidPolicy)

	_, err = NewBatchPayrollPolicy(settings.PayrollPolicy{
		WorkingDaysPerMonth: decimal.NewFromInt(-5),
		TaxRatePercent:      decimal.NewFromInt(10),
	})
	assert.ErrorIs(t, err, payroll.ErrInvalidPolicy)
}

func TestBatchPolicyFractionalLeaveDays(t *testing.T) {
	calc, err := NewBatchPayrollPolicy(testPolicy(22, 10))
	require.NoError(t, err)

	result := calc.Calculate(CalculationInput{
		BasicSalary: decimal.NewFromInt(22000),
		Allowances:  decimal.Zero,
		PresentDays: 21,
		LeaveDays:   0.5,
	})

	// perDay = 1000, paid 21.5, unpaid 0.5
	assert.Equal(t, "21500.00", result.GrossSalary.StringFixed(2))
	// PF 2580 + tax 2150 + unpaid 500
	assert.Equal(t, "5230.00", result.Deductions.StringFixed(2))
	assert.Equal(t, "16270.00", result.NetSalary.StringFixed(2))
}

func TestSingleEmployeePolicyDeductsAbsentDaysOnly(t *testing.T) {
	calc, err := NewSingleEmployeePayrollPolicy(30)
	require.NoError(t, err)

	result := calc.Calculate(CalculationInput{
		BasicSalary: decimal.NewFromInt(30000),
		Allowances:  decimal.NewFromInt(5000),
		PresentDays: 24,
		AbsentDays:  3,
		LeaveDays:   3,
	})

	// Gross is never pro-rated here; leave days cost nothing
	assert.Equal(t, "35000.00", result.GrossSalary.StringFixed(2))
	assert.Equal(t, "3500.00", result.Deductions.StringFixed(2))
	assert.Equal(t, "31500.00", result.NetSalary.StringFixed(2))
	assert.Equal(t, 30, result.WorkingDays)
}

func TestSingleEmployeePolicyNetNeverNegative(t *testing.T) {
	calc, err := NewSingleEmployeePayrollPolicy(28)
	require.NoError(t, err)

	result := calc.Calculate(CalculationInput{
		BasicSalary: decimal.NewFromInt(1000),
		Allowances:  decimal.Zero,
		AbsentDays:  40,
	})

	assert.True(t, result.NetSalary.IsZero())
}

func TestSingleEmployeePolicyZeroCalendarDaysRejected(t *testing.T) {
	_, err := NewSingleEmployeePayrollPolicy(0)
	assert.ErrorIs(t, err, payroll.ErrInvalidPeriod)
}
