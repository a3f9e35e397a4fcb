package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DB abstracts the pgx query interface for testing.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Repository provides persistence for the tenant catalog.
type Repository struct {
	db DB
}

// NewRepository creates a catalog repository backed by pgx.
func NewRepository(db DB) *Repository {
	if db == nil {
		panic("catalog: db required")
	}
	return &Repository{db: db}
}

// CreateProfessional inserts a new professional.
func (r *Repository) CreateProfessional(ctx context.Context, req *CreateProfessionalRequest) (*Professional, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	id := uuid.New()
	var createdAt time.Time
	query := `
		INSERT INTO professionals (id, tenant_id, display_name, bio, active)
		VALUES ($1, $2, $3, $4, true)
		RETURNING created_at
	`
	if err := r.db.QueryRow(ctx, query, id, req.TenantID, req.DisplayName, req.Bio).Scan(&createdAt); err != nil {
		return nil, fmt.Errorf("catalog: insert professional: %w", err)
	}

	return &Professional{
		ID:          id,
		TenantID:    req.TenantID,
		DisplayName: req.DisplayName,
		Bio:         req.Bio,
		Active:      true,
		CreatedAt:   createdAt,
		UpdatedAt:   createdAt,
	}, nil
}

// GetProfessional fetches a professional scoped to the tenant.
func (r *Repository) GetProfessional(ctx context.Context, tenantID string, id uuid.UUID) (*Professional, error) {
	query := `
		SELECT id, tenant_id, display_name, bio, active, created_at, updated_at
		FROM professionals
		WHERE id = $1 AND tenant_id = $2
	`
	var p Professional
	err := r.db.QueryRow(ctx, query, id, tenantID).Scan(
		&p.ID, &p.TenantID, &p.DisplayName, &p.Bio, &p.Active, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrProfessionalNotFound
		}
		return nil, fmt.Errorf("catalog: select professional: %w", err)
	}
	return &p, nil
}

// ListProfessionals returns the tenant's professionals, active first.
func (r *Repository) ListProfessionals(ctx context.Context, tenantID string) ([]Professional, error) {
	query := `
		SELECT id, tenant_id, display_name, bio, active, created_at, updated_at
		FROM professionals
		WHERE tenant_id = $1
		ORDER BY active DESC, display_name ASC
	`
	rows, err := r.db.Query(ctx, query, tenantID)
	if err != nil {
		return nil, fmt.Errorf("catalog: list professionals: %w", err)
	}
	defer rows.Close()

	var out []Professional
	for rows.Next() {
		var p Professional
		if err := rows.Scan(&p.ID, &p.TenantID, &p.DisplayName, &p.Bio, &p.Active, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("catalog: scan professional: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// CreateService inserts a new service.
func (r *Repository) CreateService(ctx context.Context, req *CreateServiceRequest) (*Service, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	id := uuid.New()
	var createdAt time.Time
	query := `
		INSERT INTO services (id, tenant_id, name, duration_minutes, price_cents, active)
		VALUES ($1, $2, $3, $4, $5, true)
		RETURNING created_at
	`
	if err := r.db.QueryRow(ctx, query, id, req.TenantID, req.Name, req.DurationMinutes, req.PriceCents).Scan(&createdAt); err != nil {
		return nil, fmt.Errorf("catalog: insert service: %w", err)
	}

	return &Service{
		ID:              id,
		TenantID:        req.TenantID,
		Name:            req.Name,
		DurationMinutes: req.DurationMinutes,
		PriceCents:      req.PriceCents,
		Active:          true,
		CreatedAt:       createdAt,
		UpdatedAt:       createdAt,
	}, nil
}

// GetService fetches a service scoped to the tenant.
func (r *Repository) GetService(ctx context.Context, tenantID string, id uuid.UUID) (*Service, error) {
	query := `
		SELECT id, tenant_id, name, duration_minutes, price_cents, active, created_at, updated_at
		FROM services
		WHERE id = $1 AND tenant_id = $2
	`
	var s Service
	err := r.db.QueryRow(ctx, query, id, tenantID).Scan(
		&s.ID, &s.TenantID, &s.Name, &s.DurationMinutes, &s.PriceCents, &s.Active, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrServiceNotFound
		}
		return nil, fmt.Errorf("catalog: select service: %w", err)
	}
	return &s, nil
}

// ListServices returns the tenant's services.
func (r *Repository) ListServices(ctx context.Context, tenantID string) ([]Service, error) {
	query := `
		SELECT id, tenant_id, name, duration_minutes, price_cents, active, created_at, updated_at
		FROM services
		WHERE tenant_id = $1
		ORDER BY name ASC
	`
	rows, err := r.db.Query(ctx, query, tenantID)
	if err != nil {
		return nil, fmt.Errorf("catalog: list services: %w", err)
	}
	defer rows.Close()

	var out []Service
	for rows.Next() {
		var s Service
		if err := rows.Scan(&s.ID, &s.TenantID, &s.Name, &s.DurationMinutes, &s.PriceCents, &s.Active, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("catalog: scan service: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// CreateRule inserts an availability rule for a professional.
func (r *Repository) CreateRule(ctx context.Context, req *CreateRuleRequest) (*AvailabilityRule, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	id := uuid.New()
	var createdAt time.Time
	query := `
		INSERT INTO availability_rules (id, professional_id, weekday, start_time, end_time, active)
		VALUES ($1, $2, $3, $4, $5, true)
		RETURNING created_at
	`
	if err := r.db.QueryRow(ctx, query, id, req.ProfessionalID, req.Weekday, req.StartTime, req.EndTime).Scan(&createdAt); err != nil {
		return nil, fmt.Errorf("catalog: insert rule: %w", err)
	}

	return &AvailabilityRule{
		ID:             id,
		ProfessionalID: req.ProfessionalID,
		Weekday:        req.Weekday,
		StartTime:      req.StartTime,
		EndTime:        req.EndTime,
		Active:         true,
		CreatedAt:      createdAt,
	}, nil
}

// ListRules returns all active availability rules for a professional.
func (r *Repository) ListRules(ctx context.Context, professionalID uuid.UUID) ([]AvailabilityRule, error) {
	query := `
		SELECT id, professional_id, weekday, start_time, end_time, active, created_at
		FROM availability_rules
		WHERE professional_id = $1 AND active = true
		ORDER BY weekday ASC, start_time ASC
	`
	rows, err := r.db.Query(ctx, query, professionalID)
	if err != nil {
		return nil, fmt.Errorf("catalog: list rules: %w", err)
	}
	defer rows.Close()

	var out []AvailabilityRule
	for rows.Next() {
		var rule AvailabilityRule
		if err := rows.Scan(&rule.ID, &rule.ProfessionalID, &rule.Weekday, &rule.StartTime, &rule.EndTime, &rule.Active, &rule.CreatedAt); err != nil {
			return nil, fmt.Errorf("catalog: scan rule: %w", err)
		}
		out = append(out, rule)
	}
	return out, rows.Err()
}

// DeactivateRule soft-disables a rule; the calendar ignores inactive rules.
func (r *Repository) DeactivateRule(ctx context.Context, professionalID, ruleID uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE availability_rules SET active = false
		WHERE id = $1 AND professional_id = $2`, ruleID, professionalID)
	if err != nil {
		return fmt.Errorf("catalog: deactivate rule: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrRuleNotFound
	}
	return nil
}

// CreateTimeOff inserts a blocked interval for a professional.
func (r *Repository) CreateTimeOff(ctx context.Context, req *CreateTimeOffRequest) (*TimeOff, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	id := uuid.New()
	var createdAt time.Time
	query := `
		INSERT INTO time_off (id, professional_id, starts_at, ends_at, reason)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`
	if err := r.db.QueryRow(ctx, query, id, req.ProfessionalID, req.StartsAt, req.EndsAt, req.Reason).Scan(&createdAt); err != nil {
		return nil, fmt.Errorf("catalog: insert time off: %w", err)
	}

	return &TimeOff{
		ID:             id,
		ProfessionalID: req.ProfessionalID,
		StartsAt:       req.StartsAt,
		EndsAt:         req.EndsAt,
		Reason:         req.Reason,
		CreatedAt:      createdAt,
	}, nil
}

// ListTimeOff returns blocked intervals overlapping the given range.
func (r *Repository) ListTimeOff(ctx context.Context, professionalID uuid.UUID, from, to time.Time) ([]TimeOff, error) {
	query := `
		SELECT id, professional_id, starts_at, ends_at, reason, created_at
		FROM time_off
		WHERE professional_id = $1 AND starts_at < $3 AND ends_at > $2
		ORDER BY starts_at ASC
	`
	rows, err := r.db.Query(ctx, query, professionalID, from, to)
	if err != nil {
		return nil, fmt.Errorf("catalog: list time off: %w", err)
	}
	defer rows.Close()

	var out []TimeOff
	for rows.Next() {
		var t TimeOff
		if err := rows.Scan(&t.ID, &t.ProfessionalID, &t.StartsAt, &t.EndsAt, &t.Reason, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("catalog: scan time off: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// DeleteTimeOff removes a blocked interval.
func (r *Repository) DeleteTimeOff(ctx context.Context, professionalID, timeOffID uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `
		DELETE FROM time_off WHERE id = $1 AND professional_id = $2`, timeOffID, professionalID)
	if err != nil {
		return fmt.Errorf("catalog: delete time off: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrTimeOffNotFound
	}
	return nil
}
