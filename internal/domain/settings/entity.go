package settings

import "github.com/shopspring/decimal"

// Setting keys read by the payroll core.
const (
	KeyWorkingDaysPerMonth = "working_days_per_month"
	KeyTaxRate             = "tax_rate"
	KeyWorkingHoursPerDay  = "working_hours_per_day"
)

// Defaults applied when a key is absent or unparsable.
const (
	DefaultWorkingDaysPerMonth = 22
	DefaultTaxRate             = 10
	DefaultWorkingHoursPerDay  = 8
)

// PayrollPolicy holds the resolved numeric policy parameters used by the
// batch payroll calculation.
type PayrollPolicy struct {
	WorkingDaysPerMonth decimal.Decimal
	TaxRatePercent      decimal.Decimal
	WorkingHoursPerDay  decimal.Decimal
}

func DefaultPolicy() PayrollPolicy {
	return PayrollPolicy{
		WorkingDaysPerMonth: decimal.NewFromInt(DefaultWorkingDaysPerMonth),
		TaxRatePercent:      decimal.NewFromInt(DefaultTaxRate),
		WorkingHoursPerDay:  decimal.NewFromInt(DefaultWorkingHoursPerDay),
	}
}
