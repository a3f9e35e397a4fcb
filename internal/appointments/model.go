// Package appointments is the booking engine: it lists available slots,
// creates appointments under a per-professional conflict check, and drives
// the appointment status machine.
package appointments

import (
	"time"

	"github.com/google/uuid"
)

// Status is an appointment lifecycle state.
type Status string

const (
	StatusScheduled Status = "SCHEDULED"
	StatusConfirmed Status = "CONFIRMED"
	StatusCompleted Status = "COMPLETED"
	StatusCanceled  Status = "CANCELED"
	StatusNoShow    Status = "NO_SHOW"
)

// transitions enumerates the legal status moves. Terminal states
// (COMPLETED, CANCELED, NO_SHOW) have no outgoing edges.
var transitions = map[Status][]Status{
	StatusScheduled: {StatusConfirmed, StatusCanceled, StatusNoShow},
	StatusConfirmed: {StatusCompleted, StatusCanceled, StatusNoShow},
}

// ParseStatus validates a raw status string.
func ParseStatus(s string) (Status, bool) {
	switch Status(s) {
	case StatusScheduled, StatusConfirmed, StatusCompleted, StatusCanceled, StatusNoShow:
		return Status(s), true
	}
	return "", false
}

// CanTransition reports whether from → to is a legal status move.
func CanTransition(from, to Status) bool {
	for _, allowed := range transitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// Terminal reports whether the status accepts no further transitions.
func Terminal(s Status) bool {
	return len(transitions[s]) == 0
}

// Occupies reports whether an appointment in this status still holds its
// slot. Canceled and no-show appointments free the time they covered.
func (s Status) Occupies() bool {
	return s == StatusScheduled || s == StatusConfirmed || s == StatusCompleted
}

// Appointment is a booked slot for a professional.
type Appointment struct {
	ID             uuid.UUID `json:"id"`
	TenantID       string    `json:"tenant_id"`
	ProfessionalID uuid.UUID `json:"professional_id"`
	ServiceID      uuid.UUID `json:"service_id"`
	CustomerName   string    `json:"customer_name"`
	CustomerPhone  string    `json:"customer_phone,omitempty"`
	StartsAt       time.Time `json:"starts_at"`
	EndsAt         time.Time `json:"ends_at"`
	Status         Status    `json:"status"`
	Notes          string    `json:"notes,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Slot is a bookable candidate window returned by availability queries.
type Slot struct {
	StartsAt time.Time `json:"starts_at"`
	EndsAt   time.Time `json:"ends_at"`
}

// CreateBookingRequest is the request body for booking a slot.
type CreateBookingRequest struct {
	ProfessionalID uuid.UUID `json:"professional_id"`
	ServiceID      uuid.UUID `json:"service_id"`
	StartsAt       time.Time `json:"starts_at"`
	CustomerName   string    `json:"customer_name"`
	CustomerPhone  string    `json:"customer_phone"`
	Notes          string    `json:"notes"`
}
