package week

import (
	"testing"
	"time"
)

func TestNumber(t *testing.T) {
	tests := []struct {
		date string
		want int
	}{
		{"2024-01-01", 1},
		{"2020-12-31", 53},
		{"2021-01-01", 53},
		{"2024-01-17", 3},
		{"2024-12-30", 1}, // Monday of week 1/2025
		{"2023-01-01", 52},
	}

	for _, tt := range tests {
		date, err := time.Parse("2006-01-02", tt.date)
		if err != nil {
			t.Fatalf("failed to parse test date %s: %v", tt.date, err)
		}

		if got := Number(date); got != tt.want {
			t.Errorf("Number(%s) = %d, want %d", tt.date, got, tt.want)
		}
	}
}

func TestMonday(t *testing.T) {
	tests := []struct {
		week, year int
		want       string
	}{
		{1, 2024, "2024-01-01"},
		{3, 2024, "2024-01-15"},
		{53, 2020, "2020-12-28"},
		{1, 2021, "2021-01-04"},
	}

	for _, tt := range tests {
		got := Monday(tt.week, tt.year, time.UTC).Format("2006-01-02")
		if got != tt.want {
			t.Errorf("Monday(%d, %d) = %s, want %s", tt.week, tt.year, got, tt.want)
		}
	}
}

func TestMondayIsAlwaysMonday(t *testing.T) {
	for year := 2020; year <= 2026; year++ {
		for week := 1; week <= 52; week++ {
			monday := Monday(week, year, time.UTC)
			if monday.Weekday() != time.Monday {
				t.Errorf("Monday(%d, %d) = %s, a %s", week, year,
					monday.Format("2006-01-02"), monday.Weekday())
			}
		}
	}
}

func TestInMonth(t *testing.T) {
	got := InMonth(2024, time.January, time.UTC)
	want := []int{1, 2, 3, 4, 5}
	assertWeeks(t, "January 2024", got, want)

	// January 2021 starts in ISO week 53 of 2020; the week numbers are
	// reported as-is, the caller pairs them with the requested year.
	got = InMonth(2021, time.January, time.UTC)
	want = []int{53, 1, 2, 3, 4}
	assertWeeks(t, "January 2021", got, want)
}

func assertWeeks(t *testing.T, label string, got, want []int) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("%s: got weeks %v, want %v", label, got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("%s: got weeks %v, want %v", label, got, want)
			return
		}
	}
}

func TestUTCStamp(t *testing.T) {
	berlin, err := time.LoadLocation("Europe/Berlin")
	if err != nil {
		t.Fatalf("failed to load timezone: %v", err)
	}

	// Winter time: UTC+1
	winter := time.Date(2024, 1, 17, 17, 30, 0, 0, berlin)
	if got := UTCStamp(winter); got != "20240117T163000Z" {
		t.Errorf("UTCStamp(winter) = %s, want 20240117T163000Z", got)
	}

	// Summer time: UTC+2
	summer := time.Date(2024, 7, 3, 9, 0, 0, 0, berlin)
	if got := UTCStamp(summer); got != "20240703T070000Z" {
		t.Errorf("UTCStamp(summer) = %s, want 20240703T070000Z", got)
	}
}
