package payroll

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/workzen-hrms/hrms-backend-go/internal/domain/settings"
)

type errSettingsRepo struct{}

func (errSettingsRepo) GetValues(ctx context.Context, keys []string) (map[string]string, error) {
	return nil, errors.New("connection refused")
}

func TestResolvePolicyUsesStoredValues(t *testing.T) {
	repo := &fakeSettingsRepo{values: map[string]string{
		settings.KeyWorkingDaysPerMonth: "26",
		settings.KeyTaxRate:             "15.5",
		settings.KeyWorkingHoursPerDay:  "9",
	}}

	policy, err := ResolvePolicy(context.Background(), repo)
	require.NoError(t, err)

	assert.Equal(t, "26", policy.WorkingDaysPerMonth.String())
	assert.Equal(t, "15.5", policy.TaxRatePercent.String())
	assert.Equal(t, "9", policy.WorkingHoursPerDay.String())
}

func TestResolvePolicyFallsBackToDefaults(t *testing.T) {
	// One key missing, one unparsable
	repo := &fakeSettingsRepo{values: map[string]string{
		settings.KeyTaxRate: "not-a-number",
	}}

	policy, err := ResolvePolicy(context.Background(), repo)
	require.NoError(t, err)

	assert.Equal(t, "22", policy.WorkingDaysPerMonth.String())
	assert.Equal(t, "10", policy.TaxRatePercent.String())
	assert.Equal(t, "8", policy.WorkingHoursPerDay.String())
}

func TestResolvePolicyPropagatesRepositoryError(t *testing.T) {
	_, err := ResolvePolicy(context.Background(), errSettingsRepo{})
	assert.Error(t, err)
}
