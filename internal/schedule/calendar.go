// Package schedule implements the slot availability core: calendar
// normalization, candidate slot generation and conflict filtering. The
// package is pure — no storage, no clocks — so both the advisory listing
// path and the transactional booking path share the same predicates.
package schedule

import (
	"errors"
	"fmt"
	"sort"
	"time"
)

var (
	// ErrMalformedHours indicates an unparseable or inverted hours definition.
	ErrMalformedHours = errors.New("schedule: malformed hours")
)

// Interval is a half-open time range [Start, End).
type Interval struct {
	Start time.Time
	End   time.Time
}

// Overlaps reports whether two half-open intervals intersect.
func (iv Interval) Overlaps(other Interval) bool {
	return iv.Start.Before(other.End) && iv.End.After(other.Start)
}

// Duration returns the interval length.
func (iv Interval) Duration() time.Duration {
	return iv.End.Sub(iv.Start)
}

// DayHours is the open window for a single weekday, wall-clock "HH:MM".
// An optional break sub-interval is subtracted from the window.
type DayHours struct {
	Open       string
	Close      string
	BreakStart string
	BreakEnd   string
}

// WeeklyHours maps weekdays to their open window. Days absent from the
// map are closed. time.Weekday already follows the 0=Sunday convention
// used throughout the engine.
type WeeklyHours map[time.Weekday]DayHours

// AvailabilityRule is a professional-level recurring open window.
// Multiple rules on the same weekday are unioned.
type AvailabilityRule struct {
	Weekday   time.Weekday
	StartTime string
	EndTime   string
	Active    bool
}

// Calendar resolves the bookable open intervals for a professional on a
// given date. Professional rules take precedence for a weekday; the
// tenant's weekly hours are the fallback when no rule covers that day.
type Calendar struct {
	Weekly   WeeklyHours
	Rules    []AvailabilityRule
	Location *time.Location
}

// OpenIntervals returns the ordered, merged open intervals for the date.
// Overlapping or touching rule intervals collapse into one; a closed day
// yields an empty slice. The date's year/month/day are interpreted in the
// calendar's location.
func (c Calendar) OpenIntervals(date time.Time) ([]Interval, error) {
	loc := c.Location
	if loc == nil {
		loc = time.UTC
	}
	day := date.In(loc)

	var raw []Interval
	ruled := false
	for _, rule := range c.Rules {
		if !rule.Active || rule.Weekday != day.Weekday() {
			continue
		}
		ruled = true
		iv, err := clockInterval(day, rule.StartTime, rule.EndTime, loc)
		if err != nil {
			return nil, err
		}
		raw = append(raw, iv)
	}

	if !ruled {
		hours, ok := c.Weekly[day.Weekday()]
		if !ok {
			return nil, nil
		}
		ivs, err := dayIntervals(day, hours, loc)
		if err != nil {
			return nil, err
		}
		raw = append(raw, ivs...)
	}

	return mergeIntervals(raw), nil
}

// dayIntervals expands a DayHours window into open intervals, splitting
// around the break when one is configured.
func dayIntervals(day time.Time, hours DayHours, loc *time.Location) ([]Interval, error) {
	window, err := clockInterval(day, hours.Open, hours.Close, loc)
	if err != nil {
		return nil, err
	}
	if hours.BreakStart == "" || hours.BreakEnd == "" {
		return []Interval{window}, nil
	}

	brk, err := clockInterval(day, hours.BreakStart, hours.BreakEnd, loc)
	if err != nil {
		return nil, err
	}
	if !brk.Start.After(window.Start) || !brk.End.Before(window.End) {
		return nil, fmt.Errorf("%w: break %s-%s outside window %s-%s",
			ErrMalformedHours, hours.BreakStart, hours.BreakEnd, hours.Open, hours.Close)
	}

	return []Interval{
		{Start: window.Start, End: brk.Start},
		{Start: brk.End, End: window.End},
	}, nil
}

// clockInterval anchors a "HH:MM"-"HH:MM" pair onto the given date.
func clockInterval(day time.Time, start, end string, loc *time.Location) (Interval, error) {
	startAt, err := atClock(day, start, loc)
	if err != nil {
		return Interval{}, err
	}
	endAt, err := atClock(day, end, loc)
	if err != nil {
		return Interval{}, err
	}
	if !startAt.Before(endAt) {
		return Interval{}, fmt.Errorf("%w: %s is not before %s", ErrMalformedHours, start, end)
	}
	return Interval{Start: startAt, End: endAt}, nil
}

func atClock(day time.Time, clock string, loc *time.Location) (time.Time, error) {
	parsed, err := time.Parse("15:04", clock)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrMalformedHours, clock)
	}
	return time.Date(day.Year(), day.Month(), day.Day(),
		parsed.Hour(), parsed.Minute(), 0, 0, loc), nil
}

// mergeIntervals sorts by start and collapses overlapping or touching
// intervals into a minimal ordered set.
func mergeIntervals(ivs []Interval) []Interval {
	if len(ivs) == 0 {
		return nil
	}
	sort.Slice(ivs, func(i, j int) bool { return ivs[i].Start.Before(ivs[j].Start) })

	merged := []Interval{ivs[0]}
	for _, iv := range ivs[1:] {
		last := &merged[len(merged)-1]
		if !iv.Start.After(last.End) {
			if iv.End.After(last.End) {
				last.End = iv.End
			}
			continue
		}
		merged = append(merged, iv)
	}
	return merged
}
