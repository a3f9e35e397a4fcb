package tenant

import (
	"errors"
	"testing"
	"time"
)

func TestParseLegacyHours(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want DayHours
	}{
		{
			name: "with break",
			raw:  "08:00 - 18:00 (Intervalo: 12:00-13:30)",
			want: DayHours{Open: "08:00", Close: "18:00", BreakStart: "12:00", BreakEnd: "13:30"},
		},
		{
			name: "without break",
			raw:  "09:00 - 17:00",
			want: DayHours{Open: "09:00", Close: "17:00"},
		},
		{
			name: "loose whitespace",
			raw:  "  08:30-12:00  ( Intervalo: 10:00 - 10:15 ) ",
			want: DayHours{Open: "08:30", Close: "12:00", BreakStart: "10:00", BreakEnd: "10:15"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseLegacyHours(tt.raw)
			if err != nil {
				t.Fatalf("ParseLegacyHours(%q): %v", tt.raw, err)
			}
			if *got != tt.want {
				t.Fatalf("got %+v, want %+v", *got, tt.want)
			}
		})
	}
}

func TestParseLegacyHoursRejectsGarbage(t *testing.T) {
	for _, raw := range []string{"", "closed", "8h-18h", "08:00"} {
		if _, err := ParseLegacyHours(raw); !errors.Is(err, ErrInvalidSettings) {
			t.Fatalf("ParseLegacyHours(%q): expected ErrInvalidSettings, got %v", raw, err)
		}
	}
}

func TestWeekdayFromMondayIndexed(t *testing.T) {
	tests := []struct {
		idx  int
		want time.Weekday
	}{
		{0, time.Monday},
		{1, time.Tuesday},
		{5, time.Saturday},
		{6, time.Sunday},
	}
	for _, tt := range tests {
		got, err := WeekdayFromMondayIndexed(tt.idx)
		if err != nil {
			t.Fatalf("index %d: %v", tt.idx, err)
		}
		if got != tt.want {
			t.Fatalf("index %d: got %s, want %s", tt.idx, got, tt.want)
		}
	}

	if _, err := WeekdayFromMondayIndexed(7); !errors.Is(err, ErrInvalidSettings) {
		t.Fatal("expected out-of-range index to fail")
	}
}

func TestWeeklyHoursFromLegacy(t *testing.T) {
	hours, err := WeeklyHoursFromLegacy([]string{
		"08:00 - 18:00 (Intervalo: 12:00-13:30)", // Monday
		"08:00 - 18:00",
		"", // closed Wednesday
		"08:00 - 18:00",
		"08:00 - 18:00",
		"09:00 - 13:00", // Saturday
		"",              // closed Sunday
	})
	if err != nil {
		t.Fatalf("WeeklyHoursFromLegacy: %v", err)
	}
	if hours.Monday == nil || hours.Monday.BreakStart != "12:00" {
		t.Fatalf("Monday = %+v", hours.Monday)
	}
	if hours.Wednesday != nil || hours.Sunday != nil {
		t.Fatal("closed days must stay nil")
	}
	if hours.Saturday == nil || hours.Saturday.Close != "13:00" {
		t.Fatalf("Saturday = %+v", hours.Saturday)
	}

	if _, err := WeeklyHoursFromLegacy([]string{"nonsense"}); !errors.Is(err, ErrInvalidSettings) {
		t.Fatal("expected unparseable entry to fail")
	}
	if _, err := WeeklyHoursFromLegacy(make([]string, 9)); err != nil {
		t.Fatalf("trailing empty entries are harmless, got %v", err)
	}
}
