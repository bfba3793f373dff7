package payroll

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// PeriodValue accepts a JSON number or string so that clients may send
// {"month": 7} as well as {"month": "7"} or the combined {"month": "2025-7"}.
type PeriodValue struct {
	raw string
}

func (v *PeriodValue) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		v.raw = s
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	v.raw = n.String()
	return nil
}

func (v PeriodValue) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.raw)
}

func (v PeriodValue) String() string { return v.raw }

func (v PeriodValue) IsZero() bool { return strings.TrimSpace(v.raw) == "" }

var monthYearPattern = regexp.MustCompile(`^(\d{4})-(\d{1,2})$`)

// NormalizePeriod resolves month/year inputs into integers. A month given as
// "YYYY-M" overrides both fields. A month outside 1..12, or a missing or
// unparsable field, yields ok = false.
func NormalizePeriod(monthInput, yearInput PeriodValue) (month, year int, ok bool) {
	month = parseInt(monthInput.raw)
	year = parseInt(yearInput.raw)

	if m := monthYearPattern.FindStringSubmatch(strings.TrimSpace(monthInput.raw)); m != nil {
		year, _ = strconv.Atoi(m[1])
		month, _ = strconv.Atoi(m[2])
	}

	if month < 1 || month > 12 || year == 0 {
		return 0, 0, false
	}
	return month, year, true
}

func parseInt(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}

// DaysInMonth returns the number of calendar days in the month.
func DaysInMonth(month, year int) int {
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// MonthName returns the English month name used in payslips and emails.
func MonthName(month int) string {
	if month < 1 || month > 12 {
		return "Month " + strconv.Itoa(month)
	}
	return time.Month(month).String()
}
