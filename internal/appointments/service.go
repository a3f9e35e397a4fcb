package appointments

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/IgorAcender/AIGenda-sub001/internal/catalog"
	"github.com/IgorAcender/AIGenda-sub001/internal/observability/metrics"
	"github.com/IgorAcender/AIGenda-sub001/internal/schedule"
	"github.com/IgorAcender/AIGenda-sub001/internal/tenant"
	"github.com/IgorAcender/AIGenda-sub001/pkg/logging"
)

var bookingTracer = otel.Tracer("agenda.internal.appointments")

// SettingsStore resolves tenant settings.
type SettingsStore interface {
	Get(ctx context.Context, tenantID string) (*tenant.Settings, error)
}

// CatalogReader is the slice of the catalog the engine consumes.
type CatalogReader interface {
	GetProfessional(ctx context.Context, tenantID string, id uuid.UUID) (*catalog.Professional, error)
	GetService(ctx context.Context, tenantID string, id uuid.UUID) (*catalog.Service, error)
	ListRules(ctx context.Context, professionalID uuid.UUID) ([]catalog.AvailabilityRule, error)
	ListTimeOff(ctx context.Context, professionalID uuid.UUID, from, to time.Time) ([]catalog.TimeOff, error)
}

// AppointmentStore is the persistence surface the engine drives.
type AppointmentStore interface {
	Get(ctx context.Context, tenantID string, id uuid.UUID) (*Appointment, error)
	ListOccupying(ctx context.Context, professionalID uuid.UUID, from, to time.Time) ([]Appointment, error)
	ListByTenant(ctx context.Context, tenantID string, professionalID *uuid.UUID, from, to time.Time) ([]Appointment, error)
	CreateIfFree(ctx context.Context, appt *Appointment, buffer time.Duration, maxConcurrent int) error
	Transition(ctx context.Context, tenantID string, id uuid.UUID, to Status) (*Appointment, error)
	Delete(ctx context.Context, tenantID string, id uuid.UUID) error
}

// Service is the booking engine. It composes tenant settings, the
// catalog and the appointment store into slot listings and bookings.
type Service struct {
	settings SettingsStore
	catalog  CatalogReader
	store    AppointmentStore
	metrics  *metrics.BookingMetrics
	logger   *logging.Logger

	// maxRangeDays caps a single availability query.
	maxRangeDays int

	// now is replaceable in tests.
	now func() time.Time
}

// NewService constructs the booking engine.
func NewService(settings SettingsStore, catalogRepo CatalogReader, store AppointmentStore, m *metrics.BookingMetrics, logger *logging.Logger, maxRangeDays int) *Service {
	if settings == nil || catalogRepo == nil || store == nil {
		panic("appointments: settings, catalog and store required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	if maxRangeDays <= 0 {
		maxRangeDays = 31
	}
	return &Service{
		settings:     settings,
		catalog:      catalogRepo,
		store:        store,
		metrics:      m,
		logger:       logger,
		maxRangeDays: maxRangeDays,
		now:          time.Now,
	}
}

// bookingContext bundles the per-request inputs the engine resolves once.
type bookingContext struct {
	settings     *tenant.Settings
	professional *catalog.Professional
	service      *catalog.Service
	calendar     schedule.Calendar
	location     *time.Location
	duration     time.Duration
	granularity  time.Duration
	buffer       time.Duration
}

func (s *Service) resolve(ctx context.Context, tenantID string, professionalID, serviceID uuid.UUID) (*bookingContext, error) {
	settings, err := s.settings.Get(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("appointments: load settings: %w", err)
	}
	loc, err := settings.Location()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfiguration, err)
	}

	professional, err := s.catalog.GetProfessional(ctx, tenantID, professionalID)
	if err != nil {
		return nil, err
	}
	if !professional.Active {
		return nil, catalog.ErrProfessionalNotFound
	}

	svc, err := s.catalog.GetService(ctx, tenantID, serviceID)
	if err != nil {
		return nil, err
	}

	rules, err := s.catalog.ListRules(ctx, professionalID)
	if err != nil {
		return nil, err
	}
	scheduleRules := make([]schedule.AvailabilityRule, 0, len(rules))
	for _, r := range rules {
		scheduleRules = append(scheduleRules, schedule.AvailabilityRule{
			Weekday:   time.Weekday(r.Weekday),
			StartTime: r.StartTime,
			EndTime:   r.EndTime,
			Active:    r.Active,
		})
	}

	granularity := time.Duration(settings.Policy.SlotDurationMinutes) * time.Minute
	duration := time.Duration(svc.DurationMinutes) * time.Minute
	if duration <= 0 {
		duration = granularity
	}

	return &bookingContext{
		settings:     settings,
		professional: professional,
		service:      svc,
		calendar: schedule.Calendar{
			Weekly:   settings.WeeklyHours.Schedule(),
			Rules:    scheduleRules,
			Location: loc,
		},
		location:    loc,
		duration:    duration,
		granularity: granularity,
		buffer:      time.Duration(settings.Policy.BufferBetweenSlotsMinutes) * time.Minute,
	}, nil
}

// filterOptions builds the availability filter inputs from the policy.
func (bc *bookingContext) filterOptions(now time.Time) schedule.FilterOptions {
	return schedule.FilterOptions{
		Now:           now,
		Buffer:        bc.buffer,
		MaxConcurrent: bc.settings.Policy.MaxConcurrentBookings,
		MinAdvance:    time.Duration(bc.settings.Policy.MinAdvanceBookingHours) * time.Hour,
		MaxAdvance:    time.Duration(bc.settings.Policy.MaxAdvanceBookingDays) * 24 * time.Hour,
	}
}

// ListAvailableSlots returns the bookable slots for a professional and
// service across [from, to] (inclusive dates, tenant timezone).
func (s *Service) ListAvailableSlots(ctx context.Context, tenantID string, professionalID, serviceID uuid.UUID, from, to time.Time) ([]Slot, error) {
	ctx, span := bookingTracer.Start(ctx, "appointments.list_slots")
	defer span.End()
	span.SetAttributes(
		attribute.String("agenda.tenant_id", tenantID),
		attribute.String("agenda.professional_id", professionalID.String()),
	)
	started := s.now()

	bc, err := s.resolve(ctx, tenantID, professionalID, serviceID)
	if err != nil {
		span.RecordError(err)
		s.metrics.ObserveSlotQuery("error")
		return nil, err
	}

	fromDay := civilDay(from, bc.location)
	toDay := civilDay(to, bc.location)
	if toDay.Before(fromDay) {
		return nil, fmt.Errorf("%w: date range end precedes start", ErrPolicyViolation)
	}
	if toDay.Sub(fromDay) > time.Duration(s.maxRangeDays)*24*time.Hour {
		return nil, fmt.Errorf("%w: date range exceeds %d days", ErrPolicyViolation, s.maxRangeDays)
	}
	rangeEnd := toDay.AddDate(0, 0, 1)

	busy, err := s.busyWithin(ctx, professionalID, fromDay.Add(-bc.buffer), rangeEnd.Add(bc.buffer))
	if err != nil {
		span.RecordError(err)
		s.metrics.ObserveSlotQuery("error")
		return nil, err
	}

	opts := bc.filterOptions(s.now())
	var slots []Slot
	for day := fromDay; day.Before(rangeEnd); day = day.AddDate(0, 0, 1) {
		open, err := bc.calendar.OpenIntervals(day)
		if err != nil {
			span.RecordError(err)
			s.metrics.ObserveSlotQuery("error")
			return nil, fmt.Errorf("%w: %v", ErrConfiguration, err)
		}
		candidates := schedule.GenerateSlots(open, bc.duration, bc.granularity)
		for _, iv := range schedule.FilterAvailable(candidates, busy, opts) {
			slots = append(slots, Slot{StartsAt: iv.Start, EndsAt: iv.End})
		}
	}

	s.metrics.ObserveSlotQuery("ok")
	s.metrics.ObserveLatency("list_slots", s.now().Sub(started).Seconds())
	return slots, nil
}

// CreateBooking books the requested slot, re-checking availability under
// the professional's row lock before committing.
func (s *Service) CreateBooking(ctx context.Context, tenantID string, req *CreateBookingRequest) (*Appointment, error) {
	ctx, span := bookingTracer.Start(ctx, "appointments.create")
	defer span.End()
	span.SetAttributes(
		attribute.String("agenda.tenant_id", tenantID),
		attribute.String("agenda.professional_id", req.ProfessionalID.String()),
	)
	started := s.now()

	if strings.TrimSpace(req.CustomerName) == "" {
		s.metrics.ObserveBooking("rejected")
		return nil, ErrMissingCustomer
	}

	bc, err := s.resolve(ctx, tenantID, req.ProfessionalID, req.ServiceID)
	if err != nil {
		span.RecordError(err)
		s.metrics.ObserveBooking("rejected")
		return nil, err
	}

	now := s.now()
	startsAt := req.StartsAt.In(bc.location)
	endsAt := startsAt.Add(bc.duration)
	policy := bc.settings.Policy

	if startsAt.Before(now.Add(time.Duration(policy.MinAdvanceBookingHours) * time.Hour)) {
		s.metrics.ObserveBooking("rejected")
		return nil, fmt.Errorf("%w: booking requires %dh notice", ErrPolicyViolation, policy.MinAdvanceBookingHours)
	}
	if startsAt.After(now.Add(time.Duration(policy.MaxAdvanceBookingDays) * 24 * time.Hour)) {
		s.metrics.ObserveBooking("rejected")
		return nil, fmt.Errorf("%w: booking beyond %d day horizon", ErrPolicyViolation, policy.MaxAdvanceBookingDays)
	}

	day := startOfDay(startsAt, bc.location)
	open, err := bc.calendar.OpenIntervals(day)
	if err != nil {
		span.RecordError(err)
		s.metrics.ObserveBooking("rejected")
		return nil, fmt.Errorf("%w: %v", ErrConfiguration, err)
	}
	if !containsSlotStart(schedule.GenerateSlots(open, bc.duration, bc.granularity), startsAt) {
		s.metrics.ObserveBooking("rejected")
		return nil, fmt.Errorf("%w: start is outside working hours or off the slot grid", ErrPolicyViolation)
	}

	timeOff, err := s.catalog.ListTimeOff(ctx, req.ProfessionalID, startsAt, endsAt)
	if err != nil {
		span.RecordError(err)
		s.metrics.ObserveBooking("error")
		return nil, err
	}
	if len(timeOff) > 0 {
		s.metrics.ObserveBooking("conflict")
		return nil, fmt.Errorf("%w: professional is off", ErrSlotConflict)
	}

	appt := &Appointment{
		TenantID:       tenantID,
		ProfessionalID: req.ProfessionalID,
		ServiceID:      req.ServiceID,
		CustomerName:   strings.TrimSpace(req.CustomerName),
		CustomerPhone:  strings.TrimSpace(req.CustomerPhone),
		StartsAt:       startsAt,
		EndsAt:         endsAt,
		Notes:          req.Notes,
	}
	if err := s.store.CreateIfFree(ctx, appt, bc.buffer, policy.MaxConcurrentBookings); err != nil {
		span.RecordError(err)
		if errors.Is(err, ErrSlotConflict) {
			s.metrics.ObserveBooking("conflict")
		} else {
			s.metrics.ObserveBooking("error")
		}
		return nil, err
	}

	s.metrics.ObserveBooking("created")
	s.metrics.ObserveLatency("create_booking", s.now().Sub(started).Seconds())
	s.logger.Info("booking created",
		"tenant_id", tenantID,
		"appointment_id", appt.ID,
		"professional_id", appt.ProfessionalID,
		"starts_at", appt.StartsAt,
	)
	return appt, nil
}

// TransitionAppointment moves an appointment through the status machine,
// enforcing the tenant's cancellation policy on CANCELED moves.
func (s *Service) TransitionAppointment(ctx context.Context, tenantID string, id uuid.UUID, to Status) (*Appointment, error) {
	ctx, span := bookingTracer.Start(ctx, "appointments.transition")
	defer span.End()
	span.SetAttributes(
		attribute.String("agenda.tenant_id", tenantID),
		attribute.String("agenda.appointment_id", id.String()),
		attribute.String("agenda.to_status", string(to)),
	)

	if to == StatusCanceled {
		settings, err := s.settings.Get(ctx, tenantID)
		if err != nil {
			span.RecordError(err)
			return nil, fmt.Errorf("appointments: load settings: %w", err)
		}
		appt, err := s.store.Get(ctx, tenantID, id)
		if err != nil {
			span.RecordError(err)
			return nil, err
		}
		if !settings.Policy.AllowCancellation {
			s.metrics.ObserveTransition(string(to), "rejected")
			return nil, fmt.Errorf("%w: cancellations are disabled", ErrPolicyViolation)
		}
		deadline := time.Duration(settings.Policy.CancellationDeadlineHours) * time.Hour
		if deadline > 0 && s.now().After(appt.StartsAt.Add(-deadline)) {
			s.metrics.ObserveTransition(string(to), "rejected")
			return nil, fmt.Errorf("%w: inside the %dh cancellation deadline", ErrPolicyViolation, settings.Policy.CancellationDeadlineHours)
		}
	}

	appt, err := s.store.Transition(ctx, tenantID, id, to)
	if err != nil {
		span.RecordError(err)
		s.metrics.ObserveTransition(string(to), "error")
		return nil, err
	}

	s.metrics.ObserveTransition(string(to), "ok")
	s.logger.Info("appointment transitioned",
		"tenant_id", tenantID,
		"appointment_id", id,
		"status", appt.Status,
	)
	return appt, nil
}

// ListAppointments returns a tenant's appointments overlapping the range.
func (s *Service) ListAppointments(ctx context.Context, tenantID string, professionalID *uuid.UUID, from, to time.Time) ([]Appointment, error) {
	return s.store.ListByTenant(ctx, tenantID, professionalID, from, to)
}

// DeleteAppointment removes an appointment outright (admin only).
func (s *Service) DeleteAppointment(ctx context.Context, tenantID string, id uuid.UUID) error {
	if err := s.store.Delete(ctx, tenantID, id); err != nil {
		return err
	}
	s.logger.Warn("appointment deleted", "tenant_id", tenantID, "appointment_id", id)
	return nil
}

// busyWithin collects everything that consumes the professional's time in
// the window: occupying appointments (soft, buffer applies) and time-off
// blocks (hard, exclude outright).
func (s *Service) busyWithin(ctx context.Context, professionalID uuid.UUID, from, to time.Time) ([]schedule.Busy, error) {
	appts, err := s.store.ListOccupying(ctx, professionalID, from, to)
	if err != nil {
		return nil, err
	}
	timeOff, err := s.catalog.ListTimeOff(ctx, professionalID, from, to)
	if err != nil {
		return nil, err
	}

	busy := make([]schedule.Busy, 0, len(appts)+len(timeOff))
	for _, a := range appts {
		busy = append(busy, schedule.Busy{Interval: schedule.Interval{Start: a.StartsAt, End: a.EndsAt}})
	}
	for _, t := range timeOff {
		busy = append(busy, schedule.Busy{Interval: schedule.Interval{Start: t.StartsAt, End: t.EndsAt}, Hard: true})
	}
	return busy, nil
}

func startOfDay(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// civilDay re-anchors a parsed calendar date in the tenant timezone.
// Query dates arrive as bare "YYYY-MM-DD" values; the calendar day they
// name is what matters, not the instant the parser attached to it.
func civilDay(t time.Time, loc *time.Location) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, loc)
}

func containsSlotStart(candidates []schedule.Interval, start time.Time) bool {
	for _, c := range candidates {
		if c.Start.Equal(start) {
			return true
		}
	}
	return false
}
