package state

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 12, 0, 0, 0, time.UTC)
}

func TestWeekLabel(t *testing.T) {
	cases := []struct {
		in   time.Time
		want string
	}{
		// 2021-01-04 is the Monday of the first ISO week of 2021.
		{date(2021, time.January, 4), "KW 1"},
		// 2020-12-31 still belongs to 2020's last ISO week.
		{date(2020, time.December, 31), "KW 53"},
		// 2021-01-01 (Friday) belongs to the previous year's week.
		{date(2021, time.January, 1), "KW 53"},
		{date(2025, time.June, 13), "KW 24"},
		// Sunday closes the week Monday opened.
		{date(2025, time.June, 9), "KW 24"},
		{date(2025, time.June, 15), "KW 24"},
		{date(2025, time.June, 16), "KW 25"},
	}
	for _, tc := range cases {
		if got := WeekLabel(tc.in); got != tc.want {
			t.Errorf("WeekLabel(%s) = %q, want %q", tc.in.Format(ISODate), got, tc.want)
		}
	}
}

func TestArchiveDate(t *testing.T) {
	if got := ArchiveDate(date(2025, time.June, 13)); got != "13.06.25" {
		t.Errorf("ArchiveDate = %q, want 13.06.25", got)
	}
	if got := ArchiveDate(date(2024, time.January, 2)); got != "02.01.24" {
		t.Errorf("ArchiveDate = %q, want 02.01.24", got)
	}
}

func TestWeekDaysMondayFirst(t *testing.T) {
	// Wednesday in the middle of the week.
	days := WeekDays(date(2025, time.June, 11))
	if len(days) != 7 {
		t.Fatalf("expected 7 days, got %d", len(days))
	}
	if got := days[0].Format(ISODate); got != "2025-06-09" {
		t.Errorf("week should open on Monday 2025-06-09, got %s", got)
	}
	if got := days[6].Format(ISODate); got != "2025-06-15" {
		t.Errorf("week should close on Sunday 2025-06-15, got %s", got)
	}

	// A Sunday maps to the week that started six days earlier.
	days = WeekDays(date(2025, time.June, 15))
	if got := days[0].Format(ISODate); got != "2025-06-09" {
		t.Errorf("Sunday should belong to the Monday-opened week, got %s", got)
	}

	// A Monday is its own first day.
	days = WeekDays(date(2025, time.June, 9))
	if got := days[0].Format(ISODate); got != "2025-06-09" {
		t.Errorf("Monday should open its own week, got %s", got)
	}
}

func TestWeekdayName(t *testing.T) {
	if got := WeekdayName(0); got != "Montag" {
		t.Errorf("WeekdayName(0) = %q", got)
	}
	if got := WeekdayName(6); got != "Sonntag" {
		t.Errorf("WeekdayName(6) = %q", got)
	}
	if got := WeekdayName(7); got != "?" {
		t.Errorf("WeekdayName(7) = %q, want ?", got)
	}
	if got := WeekdayName(-1); got != "?" {
		t.Errorf("WeekdayName(-1) = %q, want ?", got)
	}
}
