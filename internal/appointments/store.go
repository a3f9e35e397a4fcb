package appointments

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/IgorAcender/AIGenda-sub001/internal/schedule"
)

// DB abstracts the pgx pool interface for testing. Begin is required
// because bookings commit under a per-professional transaction.
type DB interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Store provides persistence for appointments.
type Store struct {
	db DB
}

// NewStore creates an appointment store backed by pgx.
func NewStore(db DB) *Store {
	if db == nil {
		panic("appointments: db required")
	}
	return &Store{db: db}
}

const appointmentColumns = `id, tenant_id, professional_id, service_id, customer_name, customer_phone, starts_at, ends_at, status, notes, created_at, updated_at`

// Get fetches an appointment scoped to the tenant.
func (s *Store) Get(ctx context.Context, tenantID string, id uuid.UUID) (*Appointment, error) {
	row := s.db.QueryRow(ctx, `
		SELECT `+appointmentColumns+`
		FROM appointments
		WHERE id = $1 AND tenant_id = $2`, id, tenantID)

	appt, err := scanAppointment(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrAppointmentNotFound
		}
		return nil, fmt.Errorf("appointments: select: %w", err)
	}
	return appt, nil
}

// ListOccupying returns appointments for a professional that still hold
// time overlapping [from, to). Canceled and no-show rows are excluded.
func (s *Store) ListOccupying(ctx context.Context, professionalID uuid.UUID, from, to time.Time) ([]Appointment, error) {
	rows, err := s.db.Query(ctx, `
		SELECT `+appointmentColumns+`
		FROM appointments
		WHERE professional_id = $1
		  AND status IN ('SCHEDULED', 'CONFIRMED', 'COMPLETED')
		  AND starts_at < $3 AND ends_at > $2
		ORDER BY starts_at ASC`, professionalID, from, to)
	if err != nil {
		return nil, fmt.Errorf("appointments: list occupying: %w", err)
	}
	defer rows.Close()
	return scanAppointments(rows)
}

// ListByTenant returns a tenant's appointments overlapping [from, to),
// optionally filtered to one professional.
func (s *Store) ListByTenant(ctx context.Context, tenantID string, professionalID *uuid.UUID, from, to time.Time) ([]Appointment, error) {
	var (
		rows pgx.Rows
		err  error
	)
	if professionalID != nil {
		rows, err = s.db.Query(ctx, `
			SELECT `+appointmentColumns+`
			FROM appointments
			WHERE tenant_id = $1 AND professional_id = $2
			  AND starts_at < $4 AND ends_at > $3
			ORDER BY starts_at ASC`, tenantID, *professionalID, from, to)
	} else {
		rows, err = s.db.Query(ctx, `
			SELECT `+appointmentColumns+`
			FROM appointments
			WHERE tenant_id = $1
			  AND starts_at < $3 AND ends_at > $2
			ORDER BY starts_at ASC`, tenantID, from, to)
	}
	if err != nil {
		return nil, fmt.Errorf("appointments: list by tenant: %w", err)
	}
	defer rows.Close()
	return scanAppointments(rows)
}

// CreateIfFree inserts the appointment unless a conflicting appointment
// exists at commit time. The professional row is locked for the duration
// of the transaction so two concurrent bookings for the same slot
// serialize; the loser re-reads the slot as taken and gets
// ErrSlotConflict.
func (s *Store) CreateIfFree(ctx context.Context, appt *Appointment, buffer time.Duration, maxConcurrent int) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("appointments: begin: %w", err)
	}
	defer tx.Rollback(ctx)

	var locked uuid.UUID
	err = tx.QueryRow(ctx, `
		SELECT id FROM professionals WHERE id = $1 FOR UPDATE`, appt.ProfessionalID).Scan(&locked)
	if err != nil {
		return fmt.Errorf("appointments: lock professional: %w", err)
	}

	// Re-read occupying appointments inside the lock, padded by the
	// buffer so adjacent bookings within the pad still count.
	rows, err := tx.Query(ctx, `
		SELECT starts_at, ends_at
		FROM appointments
		WHERE professional_id = $1
		  AND status IN ('SCHEDULED', 'CONFIRMED', 'COMPLETED')
		  AND starts_at < $3 AND ends_at > $2`,
		appt.ProfessionalID, appt.StartsAt.Add(-buffer), appt.EndsAt.Add(buffer))
	if err != nil {
		return fmt.Errorf("appointments: re-check conflicts: %w", err)
	}

	var busy []schedule.Busy
	for rows.Next() {
		var start, end time.Time
		if err := rows.Scan(&start, &end); err != nil {
			rows.Close()
			return fmt.Errorf("appointments: scan conflict: %w", err)
		}
		busy = append(busy, schedule.Busy{Interval: schedule.Interval{Start: start, End: end}})
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("appointments: re-check conflicts: %w", err)
	}

	// Time off is part of the same predicate: a block created after the
	// advisory check must still lose the slot here, not after commit.
	offRows, err := tx.Query(ctx, `
		SELECT starts_at, ends_at
		FROM time_off
		WHERE professional_id = $1
		  AND starts_at < $3 AND ends_at > $2`,
		appt.ProfessionalID, appt.StartsAt, appt.EndsAt)
	if err != nil {
		return fmt.Errorf("appointments: re-check time off: %w", err)
	}
	for offRows.Next() {
		var start, end time.Time
		if err := offRows.Scan(&start, &end); err != nil {
			offRows.Close()
			return fmt.Errorf("appointments: scan time off: %w", err)
		}
		busy = append(busy, schedule.Busy{Interval: schedule.Interval{Start: start, End: end}, Hard: true})
	}
	offRows.Close()
	if err := offRows.Err(); err != nil {
		return fmt.Errorf("appointments: re-check time off: %w", err)
	}

	candidate := schedule.Interval{Start: appt.StartsAt, End: appt.EndsAt}
	if schedule.Blocked(candidate, busy, buffer, maxConcurrent) {
		return ErrSlotConflict
	}

	if appt.ID == uuid.Nil {
		appt.ID = uuid.New()
	}
	now := time.Now().UTC()
	appt.Status = StatusScheduled
	appt.CreatedAt = now
	appt.UpdatedAt = now

	_, err = tx.Exec(ctx, `
		INSERT INTO appointments (id, tenant_id, professional_id, service_id, customer_name, customer_phone, starts_at, ends_at, status, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		appt.ID, appt.TenantID, appt.ProfessionalID, appt.ServiceID,
		appt.CustomerName, appt.CustomerPhone, appt.StartsAt, appt.EndsAt,
		string(appt.Status), appt.Notes, appt.CreatedAt, appt.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("appointments: insert: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("appointments: commit: %w", err)
	}
	return nil
}

// Transition moves an appointment to a new status. The UPDATE is guarded
// on the expected current status so a concurrent transition loses cleanly.
func (s *Store) Transition(ctx context.Context, tenantID string, id uuid.UUID, to Status) (*Appointment, error) {
	appt, err := s.Get(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if !CanTransition(appt.Status, to) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, appt.Status, to)
	}

	now := time.Now().UTC()
	tag, err := s.db.Exec(ctx, `
		UPDATE appointments SET status = $1, updated_at = $2
		WHERE id = $3 AND tenant_id = $4 AND status = $5`,
		string(to), now, id, tenantID, string(appt.Status))
	if err != nil {
		return nil, fmt.Errorf("appointments: transition: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, fmt.Errorf("%w: status changed concurrently", ErrInvalidTransition)
	}

	appt.Status = to
	appt.UpdatedAt = now
	return appt, nil
}

// Delete removes an appointment outright. Normal flows cancel instead;
// this backs the admin purge endpoint.
func (s *Store) Delete(ctx context.Context, tenantID string, id uuid.UUID) error {
	tag, err := s.db.Exec(ctx, `
		DELETE FROM appointments WHERE id = $1 AND tenant_id = $2`, id, tenantID)
	if err != nil {
		return fmt.Errorf("appointments: delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrAppointmentNotFound
	}
	return nil
}

func scanAppointment(row pgx.Row) (*Appointment, error) {
	var a Appointment
	var status string
	err := row.Scan(
		&a.ID, &a.TenantID, &a.ProfessionalID, &a.ServiceID,
		&a.CustomerName, &a.CustomerPhone, &a.StartsAt, &a.EndsAt,
		&status, &a.Notes, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	a.Status = Status(status)
	return &a, nil
}

func scanAppointments(rows pgx.Rows) ([]Appointment, error) {
	var out []Appointment
	for rows.Next() {
		var a Appointment
		var status string
		if err := rows.Scan(
			&a.ID, &a.TenantID, &a.ProfessionalID, &a.ServiceID,
			&a.CustomerName, &a.CustomerPhone, &a.StartsAt, &a.EndsAt,
			&status, &a.Notes, &a.CreatedAt, &a.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("appointments: scan: %w", err)
		}
		a.Status = Status(status)
		out = append(out, a)
	}
	return out, rows.Err()
}
