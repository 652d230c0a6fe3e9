package roster_test

import (
	"testing"
	"time"

	"github.com/escala/duty-engine/roster"
)

func TestMonthKey_Days(t *testing.T) {
	cases := []struct {
		year  int
		month time.Month
		days  int
	}{
		{2026, time.June, 30},
		{2026, time.July, 31},
		{2026, time.February, 28},
		{2028, time.February, 29}, // leap year
	}
	for _, tc := range cases {
		key := roster.NewMonthKey(tc.year, tc.month)
		if got := key.Days(); got != tc.days {
			t.Errorf("%s: expected %d days, got %d", key, tc.days, got)
		}
	}
}

func TestMonthKey_ValidDay(t *testing.T) {
	key := roster.NewMonthKey(2026, time.June)

	if key.ValidDay(0) || key.ValidDay(31) || key.ValidDay(-3) {
		t.Error("days outside 1..30 must be invalid for June")
	}
	if !key.ValidDay(1) || !key.ValidDay(30) {
		t.Error("boundary days must be valid")
	}
}

func TestParseMonthKey(t *testing.T) {
	key, err := roster.ParseMonthKey("2026-06")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if key.Year != 2026 || key.Month != time.June {
		t.Errorf("unexpected key: %+v", key)
	}
	if key.String() != "2026-06" {
		t.Errorf("expected round-trip string, got %q", key.String())
	}

	for _, bad := range []string{"junho", "2026-13", "2026/06", ""} {
		if _, err := roster.ParseMonthKey(bad); err == nil {
			t.Errorf("expected error for %q", bad)
		}
	}
}
