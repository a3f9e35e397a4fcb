// Package catalog manages the bookable entities of a tenant:
// professionals, the services they perform, their recurring availability
// rules and one-off time-off blocks. The booking engine reads these
// through the Repository; writes come from the admin HTTP surface.
package catalog

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Professional is a bookable staff member of a tenant.
type Professional struct {
	ID          uuid.UUID `json:"id"`
	TenantID    string    `json:"tenant_id"`
	DisplayName string    `json:"display_name"`
	Bio         string    `json:"bio,omitempty"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Service is a bookable offering with a fixed duration.
type Service struct {
	ID              uuid.UUID `json:"id"`
	TenantID        string    `json:"tenant_id"`
	Name            string    `json:"name"`
	DurationMinutes int       `json:"duration_minutes"`
	PriceCents      int       `json:"price_cents,omitempty"`
	Active          bool      `json:"active"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// AvailabilityRule is a recurring weekly open window for a professional.
// Weekday follows the 0=Sunday..6=Saturday convention. Multiple rules on
// the same weekday are unioned by the calendar model.
type AvailabilityRule struct {
	ID             uuid.UUID `json:"id"`
	ProfessionalID uuid.UUID `json:"professional_id"`
	Weekday        int       `json:"weekday"`
	StartTime      string    `json:"start_time"` // "09:00"
	EndTime        string    `json:"end_time"`   // "13:00"
	Active         bool      `json:"active"`
	CreatedAt      time.Time `json:"created_at"`
}

// TimeOff is a one-off blocked interval for a professional (vacation,
// sick leave, training). It excludes slots regardless of the tenant's
// concurrency ceiling.
type TimeOff struct {
	ID             uuid.UUID `json:"id"`
	ProfessionalID uuid.UUID `json:"professional_id"`
	StartsAt       time.Time `json:"starts_at"`
	EndsAt         time.Time `json:"ends_at"`
	Reason         string    `json:"reason,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// CreateProfessionalRequest is the request body for creating a professional.
type CreateProfessionalRequest struct {
	TenantID    string `json:"-"`
	DisplayName string `json:"display_name"`
	Bio         string `json:"bio"`
}

// Validate validates the create professional request.
func (r *CreateProfessionalRequest) Validate() error {
	if strings.TrimSpace(r.TenantID) == "" {
		return ErrMissingTenantID
	}
	if strings.TrimSpace(r.DisplayName) == "" {
		return ErrInvalidDisplayName
	}
	return nil
}

// CreateServiceRequest is the request body for creating a service.
type CreateServiceRequest struct {
	TenantID        string `json:"-"`
	Name            string `json:"name"`
	DurationMinutes int    `json:"duration_minutes"`
	PriceCents      int    `json:"price_cents"`
}

// Validate validates the create service request.
func (r *CreateServiceRequest) Validate() error {
	if strings.TrimSpace(r.TenantID) == "" {
		return ErrMissingTenantID
	}
	if strings.TrimSpace(r.Name) == "" {
		return ErrInvalidServiceName
	}
	if r.DurationMinutes <= 0 {
		return ErrInvalidDuration
	}
	return nil
}

// CreateRuleRequest is the request body for adding an availability rule.
type CreateRuleRequest struct {
	ProfessionalID uuid.UUID `json:"-"`
	Weekday        int       `json:"weekday"`
	StartTime      string    `json:"start_time"`
	EndTime        string    `json:"end_time"`
}

// Validate validates the create rule request.
func (r *CreateRuleRequest) Validate() error {
	if r.Weekday < 0 || r.Weekday > 6 {
		return ErrInvalidWeekday
	}
	if !validClock(r.StartTime) || !validClock(r.EndTime) {
		return ErrInvalidClock
	}
	if r.StartTime >= r.EndTime {
		return ErrInvalidWindow
	}
	return nil
}

// CreateTimeOffRequest is the request body for blocking an interval.
type CreateTimeOffRequest struct {
	ProfessionalID uuid.UUID `json:"-"`
	StartsAt       time.Time `json:"starts_at"`
	EndsAt         time.Time `json:"ends_at"`
	Reason         string    `json:"reason"`
}

// Validate validates the create time-off request.
func (r *CreateTimeOffRequest) Validate() error {
	if r.StartsAt.IsZero() || r.EndsAt.IsZero() || !r.StartsAt.Before(r.EndsAt) {
		return ErrInvalidWindow
	}
	return nil
}

// validClock accepts 24-hour "HH:MM" strings. Lexicographic comparison of
// two valid clocks matches chronological order.
func validClock(s string) bool {
	if _, err := time.Parse("15:04", s); err != nil {
		return false
	}
	return len(s) == 5
}
