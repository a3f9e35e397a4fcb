package tenant

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Defaults overrides the starter policy handed to tenants with no stored
// settings. Zero numeric fields and an empty timezone keep the built-in
// values; buffer and min-advance apply as given since zero is meaningful
// for them.
type Defaults struct {
	SlotMinutes     int
	BufferMinutes   int
	MinAdvanceHours int
	MaxAdvanceDays  int
	Timezone        string
}

func (d *Defaults) apply(s *Settings) *Settings {
	if d == nil {
		return s
	}
	if d.SlotMinutes > 0 {
		s.Policy.SlotDurationMinutes = d.SlotMinutes
	}
	if d.BufferMinutes >= 0 {
		s.Policy.BufferBetweenSlotsMinutes = d.BufferMinutes
	}
	if d.MinAdvanceHours >= 0 {
		s.Policy.MinAdvanceBookingHours = d.MinAdvanceHours
	}
	if d.MaxAdvanceDays > 0 {
		s.Policy.MaxAdvanceBookingDays = d.MaxAdvanceDays
	}
	if d.Timezone != "" {
		s.Timezone = d.Timezone
	}
	return s
}

// Store provides persistence for tenant settings.
type Store struct {
	redis    *redis.Client
	defaults *Defaults
}

// NewStore creates a new tenant settings store. A nil defaults keeps the
// built-in starter settings.
func NewStore(redisClient *redis.Client, defaults *Defaults) *Store {
	return &Store{redis: redisClient, defaults: defaults}
}

func (s *Store) key(tenantID string) string {
	return fmt.Sprintf("tenant:settings:%s", tenantID)
}

// Get retrieves tenant settings, returning defaults if none are stored.
func (s *Store) Get(ctx context.Context, tenantID string) (*Settings, error) {
	data, err := s.redis.Get(ctx, s.key(tenantID)).Bytes()
	if err == redis.Nil {
		return s.defaults.apply(DefaultSettings(tenantID)), nil
	}
	if err != nil {
		return nil, fmt.Errorf("tenant: get settings: %w", err)
	}

	var settings Settings
	if err := json.Unmarshal(data, &settings); err != nil {
		return nil, fmt.Errorf("%w: corrupt settings payload: %v", ErrInvalidSettings, err)
	}
	settings.TenantID = tenantID

	return &settings, nil
}

// Set saves tenant settings after validating them.
func (s *Store) Set(ctx context.Context, settings *Settings) error {
	if err := settings.Validate(); err != nil {
		return err
	}

	data, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("tenant: marshal settings: %w", err)
	}

	if err := s.redis.Set(ctx, s.key(settings.TenantID), data, 0).Err(); err != nil {
		return fmt.Errorf("tenant: set settings: %w", err)
	}

	return nil
}
