package tenant

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/IgorAcender/AIGenda-sub001/pkg/logging"
)

// Handler provides HTTP endpoints for tenant settings management.
type Handler struct {
	store  *Store
	logger *logging.Logger
}

// NewHandler creates a new tenant settings HTTP handler.
func NewHandler(store *Store, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{
		store:  store,
		logger: logger,
	}
}

// Routes returns a chi router with tenant admin routes.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/{tenantID}/settings", h.GetSettings)
	r.Put("/{tenantID}/settings", h.UpdateSettings)
	return r
}

// GetSettings returns the settings for a tenant.
// GET /admin/tenants/{tenantID}/settings
func (h *Handler) GetSettings(w http.ResponseWriter, r *http.Request) {
	tenantID := chi.URLParam(r, "tenantID")
	if tenantID == "" {
		http.Error(w, `{"error": "tenant_id required"}`, http.StatusBadRequest)
		return
	}

	settings, err := h.store.Get(r.Context(), tenantID)
	if err != nil {
		h.logger.Error("failed to get tenant settings", "tenant_id", tenantID, "error", err)
		http.Error(w, `{"error": "internal server error"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(settings); err != nil {
		h.logger.Error("failed to encode tenant settings", "tenant_id", tenantID, "error", err)
	}
}

// UpdateSettingsRequest is the request body for updating tenant settings.
// Absent fields keep their stored values. LegacyHours carries hours
// strings exported by the old onboarding flow, Monday-first with empty
// entries for closed days; weekly_hours wins when both are present.
type UpdateSettingsRequest struct {
	Name        string         `json:"name,omitempty"`
	Timezone    string         `json:"timezone,omitempty"`
	WeeklyHours *WeeklyHours   `json:"weekly_hours,omitempty"`
	LegacyHours []string       `json:"legacy_hours,omitempty"`
	Policy      *BookingPolicy `json:"booking_policy,omitempty"`
}

// UpdateSettings creates or updates the settings for a tenant.
// PUT /admin/tenants/{tenantID}/settings
func (h *Handler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	tenantID := chi.URLParam(r, "tenantID")
	if tenantID == "" {
		http.Error(w, `{"error": "tenant_id required"}`, http.StatusBadRequest)
		return
	}

	var req UpdateSettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error": "invalid JSON body"}`, http.StatusBadRequest)
		return
	}

	settings, err := h.store.Get(r.Context(), tenantID)
	if err != nil {
		h.logger.Error("failed to load tenant settings", "tenant_id", tenantID, "error", err)
		http.Error(w, `{"error": "internal server error"}`, http.StatusInternalServerError)
		return
	}

	if req.Name != "" {
		settings.Name = req.Name
	}
	if req.Timezone != "" {
		settings.Timezone = req.Timezone
	}
	if req.WeeklyHours != nil {
		settings.WeeklyHours = *req.WeeklyHours
	} else if len(req.LegacyHours) > 0 {
		hours, err := WeeklyHoursFromLegacy(req.LegacyHours)
		if err != nil {
			http.Error(w, `{"error": "`+err.Error()+`"}`, http.StatusUnprocessableEntity)
			return
		}
		settings.WeeklyHours = *hours
	}
	if req.Policy != nil {
		settings.Policy = *req.Policy
	}

	if err := h.store.Set(r.Context(), settings); err != nil {
		if errors.Is(err, ErrInvalidSettings) {
			http.Error(w, `{"error": "`+err.Error()+`"}`, http.StatusUnprocessableEntity)
			return
		}
		h.logger.Error("failed to save tenant settings", "tenant_id", tenantID, "error", err)
		http.Error(w, `{"error": "internal server error"}`, http.StatusInternalServerError)
		return
	}

	h.logger.Info("tenant settings updated", "tenant_id", tenantID)

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(settings); err != nil {
		h.logger.Error("failed to encode tenant settings", "tenant_id", tenantID, "error", err)
	}
}
