package appointments

import "errors"

var (
	// ErrSlotConflict is returned when the requested slot is no longer
	// available at commit time.
	ErrSlotConflict = errors.New("slot no longer available")

	// ErrInvalidTransition is returned for illegal status moves,
	// including any transition out of a terminal state.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrPolicyViolation is returned when a request is well-formed but
	// breaks the tenant's booking policy (advance windows, working
	// hours, cancellation rules).
	ErrPolicyViolation = errors.New("booking policy violation")

	// ErrConfiguration is returned when the tenant's calendar settings
	// cannot produce a usable schedule.
	ErrConfiguration = errors.New("tenant calendar misconfigured")

	// ErrAppointmentNotFound is returned when an appointment does not
	// exist within the tenant scope.
	ErrAppointmentNotFound = errors.New("appointment not found")

	// ErrMissingCustomer is returned when a booking has no customer name.
	ErrMissingCustomer = errors.New("customer_name is required")
)
