package appointments

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/IgorAcender/AIGenda-sub001/internal/catalog"
	"github.com/IgorAcender/AIGenda-sub001/internal/schedule"
	"github.com/IgorAcender/AIGenda-sub001/internal/tenant"
)

var testLoc = func() *time.Location {
	loc, err := time.LoadLocation("America/Sao_Paulo")
	if err != nil {
		panic(err)
	}
	return loc
}()

type fakeSettings struct {
	settings *tenant.Settings
}

func (f *fakeSettings) Get(_ context.Context, _ string) (*tenant.Settings, error) {
	return f.settings, nil
}

type fakeCatalog struct {
	professional *catalog.Professional
	service      *catalog.Service
	rules        []catalog.AvailabilityRule
	timeOff      []catalog.TimeOff
}

func (f *fakeCatalog) GetProfessional(_ context.Context, _ string, id uuid.UUID) (*catalog.Professional, error) {
	if f.professional == nil || f.professional.ID != id {
		return nil, catalog.ErrProfessionalNotFound
	}
	return f.professional, nil
}

func (f *fakeCatalog) GetService(_ context.Context, _ string, id uuid.UUID) (*catalog.Service, error) {
	if f.service == nil || f.service.ID != id {
		return nil, catalog.ErrServiceNotFound
	}
	return f.service, nil
}

func (f *fakeCatalog) ListRules(_ context.Context, _ uuid.UUID) ([]catalog.AvailabilityRule, error) {
	return f.rules, nil
}

func (f *fakeCatalog) ListTimeOff(_ context.Context, _ uuid.UUID, from, to time.Time) ([]catalog.TimeOff, error) {
	var out []catalog.TimeOff
	for _, t := range f.timeOff {
		if t.StartsAt.Before(to) && t.EndsAt.After(from) {
			out = append(out, t)
		}
	}
	return out, nil
}

// memoryStore mirrors the transactional conflict check in memory so the
// engine can be exercised without Postgres, including under concurrency.
type memoryStore struct {
	mu    sync.Mutex
	appts map[uuid.UUID]*Appointment
}

func newMemoryStore() *memoryStore {
	return &memoryStore{appts: map[uuid.UUID]*Appointment{}}
}

func (m *memoryStore) Get(_ context.Context, tenantID string, id uuid.UUID) (*Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	appt, ok := m.appts[id]
	if !ok || appt.TenantID != tenantID {
		return nil, ErrAppointmentNotFound
	}
	cp := *appt
	return &cp, nil
}

func (m *memoryStore) ListOccupying(_ context.Context, professionalID uuid.UUID, from, to time.Time) ([]Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Appointment
	for _, a := range m.appts {
		if a.ProfessionalID == professionalID && a.Status.Occupies() &&
			a.StartsAt.Before(to) && a.EndsAt.After(from) {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (m *memoryStore) ListByTenant(_ context.Context, tenantID string, professionalID *uuid.UUID, from, to time.Time) ([]Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Appointment
	for _, a := range m.appts {
		if a.TenantID != tenantID {
			continue
		}
		if professionalID != nil && a.ProfessionalID != *professionalID {
			continue
		}
		if a.StartsAt.Before(to) && a.EndsAt.After(from) {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (m *memoryStore) CreateIfFree(_ context.Context, appt *Appointment, buffer time.Duration, maxConcurrent int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var busy []schedule.Busy
	for _, a := range m.appts {
		if a.ProfessionalID == appt.ProfessionalID && a.Status.Occupies() {
			busy = append(busy, schedule.Busy{Interval: schedule.Interval{Start: a.StartsAt, End: a.EndsAt}})
		}
	}
	candidate := schedule.Interval{Start: appt.StartsAt, End: appt.EndsAt}
	if schedule.Blocked(candidate, busy, buffer, maxConcurrent) {
		return ErrSlotConflict
	}

	appt.ID = uuid.New()
	appt.Status = StatusScheduled
	now := time.Now().UTC()
	appt.CreatedAt = now
	appt.UpdatedAt = now
	cp := *appt
	m.appts[appt.ID] = &cp
	return nil
}

func (m *memoryStore) Transition(_ context.Context, tenantID string, id uuid.UUID, to Status) (*Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	appt, ok := m.appts[id]
	if !ok || appt.TenantID != tenantID {
		return nil, ErrAppointmentNotFound
	}
	if !CanTransition(appt.Status, to) {
		return nil, ErrInvalidTransition
	}
	appt.Status = to
	cp := *appt
	return &cp, nil
}

func (m *memoryStore) Delete(_ context.Context, tenantID string, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	appt, ok := m.appts[id]
	if !ok || appt.TenantID != tenantID {
		return ErrAppointmentNotFound
	}
	delete(m.appts, id)
	return nil
}

type engineFixture struct {
	service        *Service
	store          *memoryStore
	catalog        *fakeCatalog
	settings       *tenant.Settings
	professionalID uuid.UUID
	serviceID      uuid.UUID
}

// newEngineFixture builds an engine for a tenant open Monday–Friday
// 09:00–18:00 with 30-minute slots. The clock is pinned to Sunday
// 2026-03-01 12:00 so the following Monday is fully inside the booking
// horizon.
func newEngineFixture(t *testing.T, mutate func(*tenant.Settings)) *engineFixture {
	t.Helper()

	settings := &tenant.Settings{
		TenantID: "tenant-1",
		Name:     "Studio Aurora",
		Timezone: "America/Sao_Paulo",
		WeeklyHours: tenant.WeeklyHours{
			Monday:    &tenant.DayHours{Open: "09:00", Close: "18:00"},
			Tuesday:   &tenant.DayHours{Open: "09:00", Close: "18:00"},
			Wednesday: &tenant.DayHours{Open: "09:00", Close: "18:00"},
			Thursday:  &tenant.DayHours{Open: "09:00", Close: "18:00"},
			Friday:    &tenant.DayHours{Open: "09:00", Close: "18:00"},
		},
		Policy: tenant.BookingPolicy{
			SlotDurationMinutes:   30,
			MaxAdvanceBookingDays: 60,
			AllowCancellation:     true,
			MaxConcurrentBookings: 1,
		},
	}
	if mutate != nil {
		mutate(settings)
	}

	professionalID := uuid.New()
	serviceID := uuid.New()
	cat := &fakeCatalog{
		professional: &catalog.Professional{ID: professionalID, TenantID: "tenant-1", DisplayName: "Dra. Ana", Active: true},
		service:      &catalog.Service{ID: serviceID, TenantID: "tenant-1", Name: "Corte", DurationMinutes: 30, Active: true},
	}
	store := newMemoryStore()

	svc := NewService(&fakeSettings{settings: settings}, cat, store, nil, nil, 31)
	svc.now = func() time.Time {
		return time.Date(2026, 3, 1, 12, 0, 0, 0, testLoc)
	}

	return &engineFixture{
		service:        svc,
		store:          store,
		catalog:        cat,
		settings:       settings,
		professionalID: professionalID,
		serviceID:      serviceID,
	}
}

// monday is the first business day after the pinned clock.
var monday = time.Date(2026, 3, 2, 0, 0, 0, 0, testLoc)

func mondayAt(hour, min int) time.Time {
	return time.Date(2026, 3, 2, hour, min, 0, 0, testLoc)
}

func TestListAvailableSlotsFullDay(t *testing.T) {
	fx := newEngineFixture(t, nil)

	slots, err := fx.service.ListAvailableSlots(context.Background(), "tenant-1", fx.professionalID, fx.serviceID, monday, monday)
	require.NoError(t, err)

	require.Len(t, slots, 18)
	assert.True(t, slots[0].StartsAt.Equal(mondayAt(9, 0)))
	assert.True(t, slots[17].StartsAt.Equal(mondayAt(17, 30)))
	assert.True(t, slots[17].EndsAt.Equal(mondayAt(18, 0)))
}

func TestListAvailableSlotsExcludesBookedSlot(t *testing.T) {
	fx := newEngineFixture(t, nil)

	_, err := fx.service.CreateBooking(context.Background(), "tenant-1", &CreateBookingRequest{
		ProfessionalID: fx.professionalID,
		ServiceID:      fx.serviceID,
		StartsAt:       mondayAt(10, 0),
		CustomerName:   "Marina",
	})
	require.NoError(t, err)

	slots, err := fx.service.ListAvailableSlots(context.Background(), "tenant-1", fx.professionalID, fx.serviceID, monday, monday)
	require.NoError(t, err)

	require.Len(t, slots, 17)
	for _, s := range slots {
		assert.False(t, s.StartsAt.Equal(mondayAt(10, 0)), "booked slot must not be offered")
	}
}

func TestListAvailableSlotsBufferWidensBookings(t *testing.T) {
	fx := newEngineFixture(t, func(s *tenant.Settings) {
		s.Policy.BufferBetweenSlotsMinutes = 15
	})

	_, err := fx.service.CreateBooking(context.Background(), "tenant-1", &CreateBookingRequest{
		ProfessionalID: fx.professionalID,
		ServiceID:      fx.serviceID,
		StartsAt:       mondayAt(10, 0),
		CustomerName:   "Marina",
	})
	require.NoError(t, err)

	slots, err := fx.service.ListAvailableSlots(context.Background(), "tenant-1", fx.professionalID, fx.serviceID, monday, monday)
	require.NoError(t, err)

	// The 15 min pad also knocks out the 09:30 and 10:30 slots.
	for _, s := range slots {
		assert.False(t, s.StartsAt.Equal(mondayAt(9, 30)))
		assert.False(t, s.StartsAt.Equal(mondayAt(10, 0)))
		assert.False(t, s.StartsAt.Equal(mondayAt(10, 30)))
	}
	require.Len(t, slots, 15)
}

func TestListAvailableSlotsTimeOffBlocksDespiteConcurrency(t *testing.T) {
	fx := newEngineFixture(t, func(s *tenant.Settings) {
		s.Policy.MaxConcurrentBookings = 5
	})
	fx.catalog.timeOff = []catalog.TimeOff{{
		ID:             uuid.New(),
		ProfessionalID: fx.professionalID,
		StartsAt:       mondayAt(14, 0),
		EndsAt:         mondayAt(18, 0),
		Reason:         "training",
	}}

	slots, err := fx.service.ListAvailableSlots(context.Background(), "tenant-1", fx.professionalID, fx.serviceID, monday, monday)
	require.NoError(t, err)

	for _, s := range slots {
		assert.True(t, s.StartsAt.Before(mondayAt(14, 0)), "afternoon is off: got slot at %v", s.StartsAt)
	}
	require.Len(t, slots, 10)
}

func TestListAvailableSlotsOffersSlotTouchingTimeOff(t *testing.T) {
	// The buffer pads bookings, not time off: the 11:30 slot right before a
	// 12:00 block stays listed, and booking it succeeds.
	fx := newEngineFixture(t, func(s *tenant.Settings) {
		s.Policy.BufferBetweenSlotsMinutes = 15
	})
	fx.catalog.timeOff = []catalog.TimeOff{{
		ID:             uuid.New(),
		ProfessionalID: fx.professionalID,
		StartsAt:       mondayAt(12, 0),
		EndsAt:         mondayAt(13, 0),
		Reason:         "lunch meeting",
	}}

	slots, err := fx.service.ListAvailableSlots(context.Background(), "tenant-1", fx.professionalID, fx.serviceID, monday, monday)
	require.NoError(t, err)

	var offered bool
	for _, s := range slots {
		if s.StartsAt.Equal(mondayAt(11, 30)) {
			offered = true
		}
		assert.False(t, s.StartsAt.Equal(mondayAt(12, 0)), "slot inside time off must not be offered")
		assert.False(t, s.StartsAt.Equal(mondayAt(12, 30)), "slot inside time off must not be offered")
	}
	require.True(t, offered, "slot ending where time off starts must stay listed")

	_, err = fx.service.CreateBooking(context.Background(), "tenant-1", &CreateBookingRequest{
		ProfessionalID: fx.professionalID,
		ServiceID:      fx.serviceID,
		StartsAt:       mondayAt(11, 30),
		CustomerName:   "Marina",
	})
	require.NoError(t, err, "a listed slot must be bookable")
}

func TestListAvailableSlotsMinAdvanceWindow(t *testing.T) {
	fx := newEngineFixture(t, func(s *tenant.Settings) {
		s.Policy.MinAdvanceBookingHours = 2
	})
	// Clock inside the business day: Monday 09:00.
	fx.service.now = func() time.Time { return mondayAt(9, 0) }

	slots, err := fx.service.ListAvailableSlots(context.Background(), "tenant-1", fx.professionalID, fx.serviceID, monday, monday)
	require.NoError(t, err)

	require.NotEmpty(t, slots)
	// 09:00 + 2h = 11:00; the boundary slot itself stays bookable.
	assert.True(t, slots[0].StartsAt.Equal(mondayAt(11, 0)))
}

func TestListAvailableSlotsMaxAdvanceHorizon(t *testing.T) {
	fx := newEngineFixture(t, func(s *tenant.Settings) {
		s.Policy.MaxAdvanceBookingDays = 1
	})

	// Two days out is beyond the 1-day horizon.
	wednesday := monday.AddDate(0, 0, 2)
	slots, err := fx.service.ListAvailableSlots(context.Background(), "tenant-1", fx.professionalID, fx.serviceID, wednesday, wednesday)
	require.NoError(t, err)
	assert.Empty(t, slots)
}

func TestListAvailableSlotsRangeCapped(t *testing.T) {
	fx := newEngineFixture(t, nil)

	_, err := fx.service.ListAvailableSlots(context.Background(), "tenant-1", fx.professionalID, fx.serviceID, monday, monday.AddDate(0, 0, 45))
	require.ErrorIs(t, err, ErrPolicyViolation)

	_, err = fx.service.ListAvailableSlots(context.Background(), "tenant-1", fx.professionalID, fx.serviceID, monday, monday.AddDate(0, 0, -1))
	require.ErrorIs(t, err, ErrPolicyViolation)
}

func TestListAvailableSlotsBadTimezone(t *testing.T) {
	fx := newEngineFixture(t, func(s *tenant.Settings) {
		s.Timezone = "Mars/Olympus_Mons"
	})

	_, err := fx.service.ListAvailableSlots(context.Background(), "tenant-1", fx.professionalID, fx.serviceID, monday, monday)
	require.ErrorIs(t, err, ErrConfiguration)
}

func TestCreateBookingHappyPath(t *testing.T) {
	fx := newEngineFixture(t, nil)

	appt, err := fx.service.CreateBooking(context.Background(), "tenant-1", &CreateBookingRequest{
		ProfessionalID: fx.professionalID,
		ServiceID:      fx.serviceID,
		StartsAt:       mondayAt(10, 0),
		CustomerName:   "  Marina  ",
		CustomerPhone:  "+55 11 99999-0000",
	})
	require.NoError(t, err)

	assert.Equal(t, StatusScheduled, appt.Status)
	assert.Equal(t, "Marina", appt.CustomerName)
	assert.True(t, appt.EndsAt.Equal(mondayAt(10, 30)))
	assert.NotEqual(t, uuid.Nil, appt.ID)
}

func TestCreateBookingRejectsTakenSlot(t *testing.T) {
	fx := newEngineFixture(t, nil)
	req := &CreateBookingRequest{
		ProfessionalID: fx.professionalID,
		ServiceID:      fx.serviceID,
		StartsAt:       mondayAt(10, 0),
		CustomerName:   "Marina",
	}

	_, err := fx.service.CreateBooking(context.Background(), "tenant-1", req)
	require.NoError(t, err)

	_, err = fx.service.CreateBooking(context.Background(), "tenant-1", req)
	require.ErrorIs(t, err, ErrSlotConflict)
}

func TestCreateBookingConcurrentSameSlot(t *testing.T) {
	fx := newEngineFixture(t, nil)

	const attempts = 8
	errs := make(chan error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := fx.service.CreateBooking(context.Background(), "tenant-1", &CreateBookingRequest{
				ProfessionalID: fx.professionalID,
				ServiceID:      fx.serviceID,
				StartsAt:       mondayAt(10, 0),
				CustomerName:   "Marina",
			})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	var created, conflicts int
	for err := range errs {
		switch {
		case err == nil:
			created++
		case errors.Is(err, ErrSlotConflict):
			conflicts++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, created, "exactly one booking must win")
	assert.Equal(t, attempts-1, conflicts)
}

func TestCreateBookingConcurrencyCeiling(t *testing.T) {
	fx := newEngineFixture(t, func(s *tenant.Settings) {
		s.Policy.MaxConcurrentBookings = 2
	})
	req := &CreateBookingRequest{
		ProfessionalID: fx.professionalID,
		ServiceID:      fx.serviceID,
		StartsAt:       mondayAt(10, 0),
		CustomerName:   "Marina",
	}

	_, err := fx.service.CreateBooking(context.Background(), "tenant-1", req)
	require.NoError(t, err)
	_, err = fx.service.CreateBooking(context.Background(), "tenant-1", req)
	require.NoError(t, err)
	_, err = fx.service.CreateBooking(context.Background(), "tenant-1", req)
	require.ErrorIs(t, err, ErrSlotConflict)
}

func TestCreateBookingPolicyViolations(t *testing.T) {
	t.Run("too soon", func(t *testing.T) {
		fx := newEngineFixture(t, func(s *tenant.Settings) {
			s.Policy.MinAdvanceBookingHours = 48
		})
		_, err := fx.service.CreateBooking(context.Background(), "tenant-1", &CreateBookingRequest{
			ProfessionalID: fx.professionalID,
			ServiceID:      fx.serviceID,
			StartsAt:       mondayAt(10, 0),
			CustomerName:   "Marina",
		})
		require.ErrorIs(t, err, ErrPolicyViolation)
	})

	t.Run("beyond horizon", func(t *testing.T) {
		fx := newEngineFixture(t, func(s *tenant.Settings) {
			s.Policy.MaxAdvanceBookingDays = 7
		})
		_, err := fx.service.CreateBooking(context.Background(), "tenant-1", &CreateBookingRequest{
			ProfessionalID: fx.professionalID,
			ServiceID:      fx.serviceID,
			StartsAt:       mondayAt(10, 0).AddDate(0, 0, 14),
			CustomerName:   "Marina",
		})
		require.ErrorIs(t, err, ErrPolicyViolation)
	})

	t.Run("off the slot grid", func(t *testing.T) {
		fx := newEngineFixture(t, nil)
		_, err := fx.service.CreateBooking(context.Background(), "tenant-1", &CreateBookingRequest{
			ProfessionalID: fx.professionalID,
			ServiceID:      fx.serviceID,
			StartsAt:       mondayAt(10, 7),
			CustomerName:   "Marina",
		})
		require.ErrorIs(t, err, ErrPolicyViolation)
	})

	t.Run("closed day", func(t *testing.T) {
		fx := newEngineFixture(t, nil)
		sunday := time.Date(2026, 3, 8, 10, 0, 0, 0, testLoc)
		_, err := fx.service.CreateBooking(context.Background(), "tenant-1", &CreateBookingRequest{
			ProfessionalID: fx.professionalID,
			ServiceID:      fx.serviceID,
			StartsAt:       sunday,
			CustomerName:   "Marina",
		})
		require.ErrorIs(t, err, ErrPolicyViolation)
	})

	t.Run("missing customer", func(t *testing.T) {
		fx := newEngineFixture(t, nil)
		_, err := fx.service.CreateBooking(context.Background(), "tenant-1", &CreateBookingRequest{
			ProfessionalID: fx.professionalID,
			ServiceID:      fx.serviceID,
			StartsAt:       mondayAt(10, 0),
			CustomerName:   "   ",
		})
		require.ErrorIs(t, err, ErrMissingCustomer)
	})
}

func TestCreateBookingDuringTimeOff(t *testing.T) {
	fx := newEngineFixture(t, nil)
	fx.catalog.timeOff = []catalog.TimeOff{{
		ID:             uuid.New(),
		ProfessionalID: fx.professionalID,
		StartsAt:       mondayAt(9, 0),
		EndsAt:         mondayAt(12, 0),
	}}

	_, err := fx.service.CreateBooking(context.Background(), "tenant-1", &CreateBookingRequest{
		ProfessionalID: fx.professionalID,
		ServiceID:      fx.serviceID,
		StartsAt:       mondayAt(10, 0),
		CustomerName:   "Marina",
	})
	require.ErrorIs(t, err, ErrSlotConflict)
}

func bookFixture(t *testing.T, fx *engineFixture) *Appointment {
	t.Helper()
	appt, err := fx.service.CreateBooking(context.Background(), "tenant-1", &CreateBookingRequest{
		ProfessionalID: fx.professionalID,
		ServiceID:      fx.serviceID,
		StartsAt:       mondayAt(10, 0),
		CustomerName:   "Marina",
	})
	require.NoError(t, err)
	return appt
}

func TestTransitionLifecycle(t *testing.T) {
	fx := newEngineFixture(t, nil)
	appt := bookFixture(t, fx)

	confirmed, err := fx.service.TransitionAppointment(context.Background(), "tenant-1", appt.ID, StatusConfirmed)
	require.NoError(t, err)
	assert.Equal(t, StatusConfirmed, confirmed.Status)

	completed, err := fx.service.TransitionAppointment(context.Background(), "tenant-1", appt.ID, StatusCompleted)
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, completed.Status)
}

func TestTransitionTerminalStateRejected(t *testing.T) {
	fx := newEngineFixture(t, nil)
	appt := bookFixture(t, fx)

	_, err := fx.service.TransitionAppointment(context.Background(), "tenant-1", appt.ID, StatusCanceled)
	require.NoError(t, err)

	_, err = fx.service.TransitionAppointment(context.Background(), "tenant-1", appt.ID, StatusCompleted)
	require.ErrorIs(t, err, ErrInvalidTransition)
}

func TestTransitionSkipsStatesRejected(t *testing.T) {
	fx := newEngineFixture(t, nil)
	appt := bookFixture(t, fx)

	_, err := fx.service.TransitionAppointment(context.Background(), "tenant-1", appt.ID, StatusCompleted)
	require.ErrorIs(t, err, ErrInvalidTransition)
}

func TestCancelFreesTheSlot(t *testing.T) {
	fx := newEngineFixture(t, nil)
	appt := bookFixture(t, fx)

	_, err := fx.service.TransitionAppointment(context.Background(), "tenant-1", appt.ID, StatusCanceled)
	require.NoError(t, err)

	slots, err := fx.service.ListAvailableSlots(context.Background(), "tenant-1", fx.professionalID, fx.serviceID, monday, monday)
	require.NoError(t, err)

	var found bool
	for _, s := range slots {
		if s.StartsAt.Equal(mondayAt(10, 0)) {
			found = true
		}
	}
	assert.True(t, found, "canceled appointment must release its slot")
}

func TestCancelInsideDeadlineRejected(t *testing.T) {
	fx := newEngineFixture(t, func(s *tenant.Settings) {
		s.Policy.CancellationDeadlineHours = 24
	})
	appt := bookFixture(t, fx)

	// Move the clock to two hours before the appointment.
	fx.service.now = func() time.Time { return mondayAt(8, 0) }

	_, err := fx.service.TransitionAppointment(context.Background(), "tenant-1", appt.ID, StatusCanceled)
	require.ErrorIs(t, err, ErrPolicyViolation)
}

func TestCancelDisabledByPolicy(t *testing.T) {
	fx := newEngineFixture(t, func(s *tenant.Settings) {
		s.Policy.AllowCancellation = false
	})
	appt := bookFixture(t, fx)

	_, err := fx.service.TransitionAppointment(context.Background(), "tenant-1", appt.ID, StatusCanceled)
	require.ErrorIs(t, err, ErrPolicyViolation)
}

func TestTransitionUnknownAppointment(t *testing.T) {
	fx := newEngineFixture(t, nil)

	_, err := fx.service.TransitionAppointment(context.Background(), "tenant-1", uuid.New(), StatusConfirmed)
	require.ErrorIs(t, err, ErrAppointmentNotFound)
}

func TestDeleteAppointment(t *testing.T) {
	fx := newEngineFixture(t, nil)
	appt := bookFixture(t, fx)

	require.NoError(t, fx.service.DeleteAppointment(context.Background(), "tenant-1", appt.ID))
	err := fx.service.DeleteAppointment(context.Background(), "tenant-1", appt.ID)
	require.ErrorIs(t, err, ErrAppointmentNotFound)
}
