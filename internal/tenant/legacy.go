package tenant

import (
	"fmt"
	"regexp"
	"time"
)

// Older onboarding flows stored business hours as free-form strings like
// "08:00 - 18:00 (Intervalo: 12:00-13:30)" and indexed weekdays starting
// at Monday. Both formats are converted here, at the boundary; nothing
// past this file ever sees them.

var legacyHoursRe = regexp.MustCompile(
	`^\s*(\d{2}:\d{2})\s*-\s*(\d{2}:\d{2})\s*(?:\(\s*Intervalo:\s*(\d{2}:\d{2})\s*-\s*(\d{2}:\d{2})\s*\))?\s*$`)

// ParseLegacyHours converts a legacy hours string into DayHours.
func ParseLegacyHours(raw string) (*DayHours, error) {
	m := legacyHoursRe.FindStringSubmatch(raw)
	if m == nil {
		return nil, fmt.Errorf("%w: unparseable hours string %q", ErrInvalidSettings, raw)
	}
	return &DayHours{
		Open:       m[1],
		Close:      m[2],
		BreakStart: m[3],
		BreakEnd:   m[4],
	}, nil
}

// WeekdayFromMondayIndexed converts a 0=Monday..6=Sunday index into the
// engine's 0=Sunday convention.
func WeekdayFromMondayIndexed(idx int) (time.Weekday, error) {
	if idx < 0 || idx > 6 {
		return 0, fmt.Errorf("%w: weekday index %d out of range", ErrInvalidSettings, idx)
	}
	return time.Weekday((idx + 1) % 7), nil
}

// WeeklyHoursFromLegacy converts a Monday-first list of legacy hours
// strings into WeeklyHours. An empty string means closed that day.
func WeeklyHoursFromLegacy(raw []string) (*WeeklyHours, error) {
	var out WeeklyHours
	for idx, entry := range raw {
		if entry == "" {
			continue
		}
		weekday, err := WeekdayFromMondayIndexed(idx)
		if err != nil {
			return nil, err
		}
		hours, err := ParseLegacyHours(entry)
		if err != nil {
			return nil, err
		}
		out.set(weekday, hours)
	}
	return &out, nil
}
