package roster

import (
	"fmt"
	"time"
)

// =============================================================================
// MONTH KEY - Identifies one year+month scope
// =============================================================================

// MonthKey scopes every roster, calendar and version counter. All engine
// operations act on exactly one MonthKey at a time.
type MonthKey struct {
	Year  int
	Month time.Month
}

func NewMonthKey(year int, month time.Month) MonthKey {
	return MonthKey{Year: year, Month: month}
}

// Days returns the number of calendar days in the month.
func (k MonthKey) Days() int {
	return time.Date(k.Year, k.Month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// ValidDay reports whether day is a real calendar day of this month.
func (k MonthKey) ValidDay(day int) bool {
	return day >= 1 && day <= k.Days()
}

// Date returns the civil date for a day of this month.
func (k MonthKey) Date(day int) time.Time {
	return time.Date(k.Year, k.Month, day, 0, 0, 0, 0, time.UTC)
}

func (k MonthKey) IsZero() bool {
	return k.Year == 0 && k.Month == 0
}

func (k MonthKey) String() string {
	return fmt.Sprintf("%04d-%02d", k.Year, int(k.Month))
}

// ParseMonthKey parses the "YYYY-MM" form produced by String.
func ParseMonthKey(s string) (MonthKey, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return MonthKey{}, fmt.Errorf("invalid month key %q: %w", s, err)
	}
	return NewMonthKey(t.Year(), t.Month()), nil
}

// CurrentMonth returns the MonthKey for today.
func CurrentMonth() MonthKey {
	now := time.Now()
	return NewMonthKey(now.Year(), now.Month())
}
