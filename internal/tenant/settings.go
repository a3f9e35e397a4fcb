// Package tenant provides tenant-level scheduling settings: weekly
// business hours, timezone and the booking policy. Settings live in Redis
// and are consulted by the booking engine on every listing and booking.
package tenant

import (
	"errors"
	"fmt"
	"time"

	"github.com/IgorAcender/AIGenda-sub001/internal/schedule"
)

// ErrInvalidSettings indicates stored settings that cannot drive the engine.
var ErrInvalidSettings = errors.New("tenant: invalid settings")

// DayHours represents the opening hours for a single day.
// Nil means the tenant is closed that day.
type DayHours struct {
	Open       string `json:"open"`                  // "09:00" in 24-hour format
	Close      string `json:"close"`                 // "18:00" in 24-hour format
	BreakStart string `json:"break_start,omitempty"` // optional mid-day break
	BreakEnd   string `json:"break_end,omitempty"`
}

// WeeklyHours maps day names to their hours.
type WeeklyHours struct {
	Sunday    *DayHours `json:"sunday,omitempty"`
	Monday    *DayHours `json:"monday,omitempty"`
	Tuesday   *DayHours `json:"tuesday,omitempty"`
	Wednesday *DayHours `json:"wednesday,omitempty"`
	Thursday  *DayHours `json:"thursday,omitempty"`
	Friday    *DayHours `json:"friday,omitempty"`
	Saturday  *DayHours `json:"saturday,omitempty"`
}

// ForWeekday returns the hours for a given weekday (0=Sunday, 6=Saturday).
func (w *WeeklyHours) ForWeekday(weekday time.Weekday) *DayHours {
	switch weekday {
	case time.Sunday:
		return w.Sunday
	case time.Monday:
		return w.Monday
	case time.Tuesday:
		return w.Tuesday
	case time.Wednesday:
		return w.Wednesday
	case time.Thursday:
		return w.Thursday
	case time.Friday:
		return w.Friday
	case time.Saturday:
		return w.Saturday
	default:
		return nil
	}
}

func (w *WeeklyHours) set(weekday time.Weekday, hours *DayHours) {
	switch weekday {
	case time.Sunday:
		w.Sunday = hours
	case time.Monday:
		w.Monday = hours
	case time.Tuesday:
		w.Tuesday = hours
	case time.Wednesday:
		w.Wednesday = hours
	case time.Thursday:
		w.Thursday = hours
	case time.Friday:
		w.Friday = hours
	case time.Saturday:
		w.Saturday = hours
	}
}

// HasAnyHours returns true if at least one day has hours configured.
func (w *WeeklyHours) HasAnyHours() bool {
	return w.Sunday != nil || w.Monday != nil || w.Tuesday != nil ||
		w.Wednesday != nil || w.Thursday != nil || w.Friday != nil || w.Saturday != nil
}

// Schedule converts the stored representation into the engine's weekday map.
func (w *WeeklyHours) Schedule() schedule.WeeklyHours {
	out := schedule.WeeklyHours{}
	for d := time.Sunday; d <= time.Saturday; d++ {
		if hours := w.ForWeekday(d); hours != nil {
			out[d] = schedule.DayHours{
				Open:       hours.Open,
				Close:      hours.Close,
				BreakStart: hours.BreakStart,
				BreakEnd:   hours.BreakEnd,
			}
		}
	}
	return out
}

// BookingPolicy holds the tenant's slot and advance-booking rules.
// Created once at onboarding and mutated through the settings endpoint.
type BookingPolicy struct {
	SlotDurationMinutes       int  `json:"slot_duration_minutes"`
	BufferBetweenSlotsMinutes int  `json:"buffer_between_slots_minutes"`
	MinAdvanceBookingHours    int  `json:"min_advance_booking_hours"`
	MaxAdvanceBookingDays     int  `json:"max_advance_booking_days"`
	AllowCancellation         bool `json:"allow_cancellation"`
	CancellationDeadlineHours int  `json:"cancellation_deadline_hours"`
	MaxConcurrentBookings     int  `json:"max_concurrent_bookings"`
	RequiresApproval          bool `json:"requires_approval"`
}

// Validate checks the policy invariants.
func (p *BookingPolicy) Validate() error {
	if p.SlotDurationMinutes <= 0 {
		return fmt.Errorf("%w: slot_duration_minutes must be > 0", ErrInvalidSettings)
	}
	if p.BufferBetweenSlotsMinutes < 0 {
		return fmt.Errorf("%w: buffer_between_slots_minutes must be >= 0", ErrInvalidSettings)
	}
	if p.MinAdvanceBookingHours < 0 {
		return fmt.Errorf("%w: min_advance_booking_hours must be >= 0", ErrInvalidSettings)
	}
	if p.MaxAdvanceBookingDays < 1 {
		return fmt.Errorf("%w: max_advance_booking_days must be >= 1", ErrInvalidSettings)
	}
	if p.MaxConcurrentBookings < 1 {
		return fmt.Errorf("%w: max_concurrent_bookings must be >= 1", ErrInvalidSettings)
	}
	if p.CancellationDeadlineHours < 0 {
		return fmt.Errorf("%w: cancellation_deadline_hours must be >= 0", ErrInvalidSettings)
	}
	return nil
}

// Settings holds tenant-level configuration for the booking engine.
type Settings struct {
	TenantID    string        `json:"tenant_id"`
	Name        string        `json:"name"`
	Timezone    string        `json:"timezone"` // e.g. "America/Sao_Paulo"
	WeeklyHours WeeklyHours   `json:"weekly_hours"`
	Policy      BookingPolicy `json:"booking_policy"`
}

// DefaultSettings returns the settings a tenant starts with at onboarding.
func DefaultSettings(tenantID string) *Settings {
	return &Settings{
		TenantID: tenantID,
		Name:     "",
		Timezone: "America/Sao_Paulo",
		WeeklyHours: WeeklyHours{
			Monday:    &DayHours{Open: "09:00", Close: "18:00"},
			Tuesday:   &DayHours{Open: "09:00", Close: "18:00"},
			Wednesday: &DayHours{Open: "09:00", Close: "18:00"},
			Thursday:  &DayHours{Open: "09:00", Close: "18:00"},
			Friday:    &DayHours{Open: "09:00", Close: "18:00"},
			Saturday:  &DayHours{Open: "09:00", Close: "13:00"},
			Sunday:    nil, // closed
		},
		Policy: BookingPolicy{
			SlotDurationMinutes:       30,
			BufferBetweenSlotsMinutes: 0,
			MinAdvanceBookingHours:    1,
			MaxAdvanceBookingDays:     60,
			AllowCancellation:         true,
			CancellationDeadlineHours: 24,
			MaxConcurrentBookings:     1,
			RequiresApproval:          true,
		},
	}
}

// Validate checks the settings can drive slot computation.
func (s *Settings) Validate() error {
	if s.TenantID == "" {
		return fmt.Errorf("%w: tenant_id required", ErrInvalidSettings)
	}
	if _, err := s.Location(); err != nil {
		return err
	}
	if err := s.Policy.Validate(); err != nil {
		return err
	}
	for d := time.Sunday; d <= time.Saturday; d++ {
		hours := s.WeeklyHours.ForWeekday(d)
		if hours == nil {
			continue
		}
		if hours.Open == "" || hours.Close == "" {
			return fmt.Errorf("%w: %s has incomplete hours", ErrInvalidSettings, d)
		}
		if (hours.BreakStart == "") != (hours.BreakEnd == "") {
			return fmt.Errorf("%w: %s has half-configured break", ErrInvalidSettings, d)
		}
	}
	return nil
}

// Location resolves the tenant timezone.
func (s *Settings) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(s.Timezone)
	if err != nil {
		return nil, fmt.Errorf("%w: timezone %q: %v", ErrInvalidSettings, s.Timezone, err)
	}
	return loc, nil
}
