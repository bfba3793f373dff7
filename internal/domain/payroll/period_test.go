package payroll

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPeriodValueAcceptsNumberAndString(t *testing.T) {
	var req GeneratePayrunRequest

	require.NoError(t, json.Unmarshal([]byte(`{"month": 7, "year": 2025}`), &req))
	month, year, err := req.Period()
	require.NoError(t, err)
	assert.Equal(t, 7, month)
	assert.Equal(t, 2025, year)

	require.NoError(t, json.Unmarshal([]byte(`{"month": "7", "year": "2025"}`), &req))
	month, year, err = req.Period()
	require.NoError(t, err)
	assert.Equal(t, 7, month)
	assert.Equal(t, 2025, year)
}

func TestNormalizePeriodCombinedMonthYear(t *testing.T) {
	// "YYYY-M" in the month field overrides both values
	month, year, ok := NormalizePeriod(periodValue("2025-7"), periodValue("1999"))
	require.True(t, ok)
	assert.Equal(t, 7, month)
	assert.Equal(t, 2025, year)

	month, year, ok = NormalizePeriod(periodValue("2025-12"), periodValue(""))
	require.True(t, ok)
	assert.Equal(t, 12, month)
	assert.Equal(t, 2025, year)
}

func TestNormalizePeriodRejectsInvalidInput(t *testing.T) {
	cases := []struct {
		name  string
		month string
		year  string
	}{
		{"missing month", "", "2025"},
		{"missing year", "7", ""},
		{"month zero", "0", "2025"},
		{"month thirteen", "13", "2025"},
		{"garbage month", "July", "2025"},
		{"combined month out of range", "2025-13", ""},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, _, ok := NormalizePeriod(periodValue(c.month), periodValue(c.year))
			assert.False(t, ok)
		})
	}
}

func TestDaysInMonth(t *testing.T) {
	assert.Equal(t, 31, DaysInMonth(1, 2025))
	assert.Equal(t, 28, DaysInMonth(2, 2025))
	assert.Equal(t, 29, DaysInMonth(2, 2024))
	assert.Equal(t, 30, DaysInMonth(6, 2025))
}

func TestPayrunActionTargetStatus(t *testing.T) {
	status, ok := ActionApprove.TargetStatus()
	require.True(t, ok)
	assert.Equal(t, PayrunStatusApproved, status)

	status, ok = ActionReject.TargetStatus()
	require.True(t, ok)
	assert.Equal(t, PayrunStatusRejected, status)

	status, ok = ActionLock.TargetStatus()
	require.True(t, ok)
	assert.Equal(t, PayrunStatusLocked, status)

	_, ok = PayrunAction("archive").TargetStatus()
	assert.False(t, ok)
}

func periodValue(raw string) PeriodValue {
	return PeriodValue{raw: raw}
}
