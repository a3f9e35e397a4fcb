package schedule

import (
	"sort"
	"time"
)

// Busy is an occupied interval for a professional. Soft entries are
// committed appointments and count toward the concurrency ceiling; hard
// entries (time off, administrative blocks) exclude a slot outright.
type Busy struct {
	Interval
	Hard bool
}

// FilterOptions carries the policy inputs of the availability filter.
type FilterOptions struct {
	Now           time.Time
	Buffer        time.Duration
	MaxConcurrent int
	MinAdvance    time.Duration
	MaxAdvance    time.Duration
}

// GenerateSlots enumerates fixed-length candidate slots inside the open
// intervals. The cursor starts at each interval's start and steps forward
// by granularity while the full service duration still fits
// (cursor + duration <= end, boundary inclusive). An interval shorter
// than the duration yields nothing.
func GenerateSlots(open []Interval, duration, granularity time.Duration) []Interval {
	if duration <= 0 {
		return nil
	}
	if granularity <= 0 {
		granularity = duration
	}

	var slots []Interval
	for _, iv := range open {
		for cursor := iv.Start; !cursor.Add(duration).After(iv.End); cursor = cursor.Add(granularity) {
			slots = append(slots, Interval{Start: cursor, End: cursor.Add(duration)})
		}
	}
	return slots
}

// FilterAvailable narrows candidates to slots bookable right now. It is a
// pure function of its inputs and preserves chronological candidate order.
func FilterAvailable(candidates []Interval, busy []Busy, opt FilterOptions) []Interval {
	earliest := opt.Now.Add(opt.MinAdvance)
	latest := opt.Now.Add(opt.MaxAdvance)

	var out []Interval
	for _, slot := range candidates {
		if slot.Start.Before(earliest) {
			continue
		}
		if opt.MaxAdvance > 0 && slot.Start.After(latest) {
			continue
		}
		if Blocked(slot, busy, opt.Buffer, opt.MaxConcurrent) {
			continue
		}
		out = append(out, slot)
	}
	return out
}

// Blocked is the conflict predicate shared by the advisory listing path
// and the booking transaction's commit-time re-check. A candidate is
// blocked when it touches a hard busy interval, or when booking it would
// push the peak simultaneous occupancy anywhere inside the slot past the
// professional's concurrency ceiling. Soft busy intervals are padded by
// the buffer before comparison; the buffer belongs to the committed
// appointment, not to the free candidate. Hard intervals are compared
// as stored: time off already covers exactly the time it blocks.
func Blocked(candidate Interval, busy []Busy, buffer time.Duration, maxConcurrent int) bool {
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}

	type event struct {
		at    time.Time
		delta int
	}
	var events []event
	for _, b := range busy {
		if b.Hard {
			if candidate.Overlaps(b.Interval) {
				return true
			}
			continue
		}
		padded := Interval{Start: b.Start.Add(-buffer), End: b.End.Add(buffer)}
		if !candidate.Overlaps(padded) {
			continue
		}
		start := padded.Start
		if start.Before(candidate.Start) {
			start = candidate.Start
		}
		end := padded.End
		if end.After(candidate.End) {
			end = candidate.End
		}
		events = append(events, event{at: start, delta: 1}, event{at: end, delta: -1})
	}
	if len(events) == 0 {
		return false
	}

	// Sweep for peak occupancy, processing departures before arrivals at
	// equal instants since intervals are half-open.
	sort.Slice(events, func(i, j int) bool {
		if events[i].at.Equal(events[j].at) {
			return events[i].delta < events[j].delta
		}
		return events[i].at.Before(events[j].at)
	})
	active := 0
	for _, ev := range events {
		active += ev.delta
		if active >= maxConcurrent {
			return true
		}
	}
	return false
}
