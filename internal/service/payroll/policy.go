package payroll

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/workzen-hrms/hrms-backend-go/internal/domain/settings"
)

// ResolvePolicy reads the payroll policy keys from system settings in one
// query. A missing or unparsable value falls back to its default; only a
// database error propagates.
func ResolvePolicy(ctx context.Context, repo settings.SettingsRepository) (settings.PayrollPolicy, error) {
	values, err := repo.GetValues(ctx, []string{
		settings.KeyWorkingDaysPerMonth,
		settings.KeyTaxRate,
		settings.KeyWorkingHoursPerDay,
	})
	if err != nil {
		return settings.PayrollPolicy{}, fmt.Errorf("failed to resolve payroll policy: %w", err)
	}

	policy := settings.DefaultPolicy()
	policy.WorkingDaysPerMonth = settingOrDefault(values, settings.KeyWorkingDaysPerMonth, policy.WorkingDaysPerMonth)
	policy.TaxRatePercent = settingOrDefault(values, settings.KeyTaxRate, policy.TaxRatePercent)
	policy.WorkingHoursPerDay = settingOrDefault(values, settings.KeyWorkingHoursPerDay, policy.WorkingHoursPerDay)

	return policy, nil
}

func settingOrDefault(values map[string]string, key string, fallback decimal.Decimal) decimal.Decimal {
	raw, ok := values[key]
	if !ok {
		return fallback
	}
	parsed, err := decimal.NewFromString(raw)
	if err != nil {
		return fallback
	}
	return parsed
}
