package catalog

import "errors"

var (
	// ErrMissingTenantID is returned when the tenant scope is absent.
	ErrMissingTenantID = errors.New("tenant_id is required")

	// ErrInvalidDisplayName is returned when a professional has no name.
	ErrInvalidDisplayName = errors.New("display_name is required")

	// ErrInvalidServiceName is returned when a service has no name.
	ErrInvalidServiceName = errors.New("service name is required")

	// ErrInvalidDuration is returned for non-positive service durations.
	ErrInvalidDuration = errors.New("duration_minutes must be positive")

	// ErrInvalidWeekday is returned for weekdays outside 0..6.
	ErrInvalidWeekday = errors.New("weekday must be between 0 (Sunday) and 6 (Saturday)")

	// ErrInvalidClock is returned for times not in HH:MM form.
	ErrInvalidClock = errors.New("times must be 24-hour HH:MM")

	// ErrInvalidWindow is returned when a window's start is not before its end.
	ErrInvalidWindow = errors.New("start must be before end")

	// ErrProfessionalNotFound is returned when a professional does not exist.
	ErrProfessionalNotFound = errors.New("professional not found")

	// ErrServiceNotFound is returned when a service does not exist.
	ErrServiceNotFound = errors.New("service not found")

	// ErrRuleNotFound is returned when an availability rule does not exist.
	ErrRuleNotFound = errors.New("availability rule not found")

	// ErrTimeOffNotFound is returned when a time-off block does not exist.
	ErrTimeOffNotFound = errors.New("time off not found")
)
