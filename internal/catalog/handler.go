package catalog

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/IgorAcender/AIGenda-sub001/internal/tenancy"
	"github.com/IgorAcender/AIGenda-sub001/pkg/logging"
)

// Handler handles HTTP requests for the tenant catalog.
type Handler struct {
	repo   *Repository
	logger *logging.Logger
}

// NewHandler creates a new catalog handler.
func NewHandler(repo *Repository, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{repo: repo, logger: logger}
}

// Routes returns a chi router with catalog routes. All routes expect the
// tenant id in the request context.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/professionals", h.CreateProfessional)
	r.Get("/professionals", h.ListProfessionals)
	r.Get("/professionals/{professionalID}", h.GetProfessional)
	r.Post("/professionals/{professionalID}/rules", h.CreateRule)
	r.Get("/professionals/{professionalID}/rules", h.ListRules)
	r.Delete("/professionals/{professionalID}/rules/{ruleID}", h.DeactivateRule)
	r.Post("/professionals/{professionalID}/time-off", h.CreateTimeOff)
	r.Delete("/professionals/{professionalID}/time-off/{timeOffID}", h.DeleteTimeOff)
	r.Post("/services", h.CreateService)
	r.Get("/services", h.ListServices)
	return r
}

// CreateProfessional handles POST /professionals.
func (h *Handler) CreateProfessional(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := tenancy.TenantIDFromContext(r.Context())
	if !ok {
		http.Error(w, "missing tenant context", http.StatusBadRequest)
		return
	}

	var req CreateProfessionalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	req.TenantID = tenantID

	professional, err := h.repo.CreateProfessional(r.Context(), &req)
	if err != nil {
		h.logger.Error("failed to create professional", "tenant_id", tenantID, "error", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	h.logger.Info("professional created", "tenant_id", tenantID, "professional_id", professional.ID)
	writeJSON(w, http.StatusCreated, professional)
}

// ListProfessionals handles GET /professionals.
func (h *Handler) ListProfessionals(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := tenancy.TenantIDFromContext(r.Context())
	if !ok {
		http.Error(w, "missing tenant context", http.StatusBadRequest)
		return
	}

	professionals, err := h.repo.ListProfessionals(r.Context(), tenantID)
	if err != nil {
		h.logger.Error("failed to list professionals", "tenant_id", tenantID, "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, professionals)
}

// GetProfessional handles GET /professionals/{professionalID}.
func (h *Handler) GetProfessional(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := tenancy.TenantIDFromContext(r.Context())
	if !ok {
		http.Error(w, "missing tenant context", http.StatusBadRequest)
		return
	}
	professionalID, err := uuid.Parse(chi.URLParam(r, "professionalID"))
	if err != nil {
		http.Error(w, "invalid professional id", http.StatusBadRequest)
		return
	}

	professional, err := h.repo.GetProfessional(r.Context(), tenantID, professionalID)
	if err != nil {
		if errors.Is(err, ErrProfessionalNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		h.logger.Error("failed to get professional", "tenant_id", tenantID, "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, professional)
}

// CreateRule handles POST /professionals/{professionalID}/rules.
func (h *Handler) CreateRule(w http.ResponseWriter, r *http.Request) {
	professional, ok := h.loadProfessional(w, r)
	if !ok {
		return
	}

	var req CreateRuleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	req.ProfessionalID = professional.ID

	rule, err := h.repo.CreateRule(r.Context(), &req)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	h.logger.Info("availability rule created",
		"professional_id", professional.ID,
		"weekday", rule.Weekday,
		"window", rule.StartTime+"-"+rule.EndTime,
	)
	writeJSON(w, http.StatusCreated, rule)
}

// ListRules handles GET /professionals/{professionalID}/rules.
func (h *Handler) ListRules(w http.ResponseWriter, r *http.Request) {
	professional, ok := h.loadProfessional(w, r)
	if !ok {
		return
	}

	rules, err := h.repo.ListRules(r.Context(), professional.ID)
	if err != nil {
		h.logger.Error("failed to list rules", "professional_id", professional.ID, "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, rules)
}

// DeactivateRule handles DELETE /professionals/{professionalID}/rules/{ruleID}.
func (h *Handler) DeactivateRule(w http.ResponseWriter, r *http.Request) {
	professional, ok := h.loadProfessional(w, r)
	if !ok {
		return
	}
	ruleID, err := uuid.Parse(chi.URLParam(r, "ruleID"))
	if err != nil {
		http.Error(w, "invalid rule id", http.StatusBadRequest)
		return
	}

	if err := h.repo.DeactivateRule(r.Context(), professional.ID, ruleID); err != nil {
		if errors.Is(err, ErrRuleNotFound) {
			http.Error(w, "rule not found", http.StatusNotFound)
			return
		}
		h.logger.Error("failed to deactivate rule", "professional_id", professional.ID, "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// CreateTimeOff handles POST /professionals/{professionalID}/time-off.
func (h *Handler) CreateTimeOff(w http.ResponseWriter, r *http.Request) {
	professional, ok := h.loadProfessional(w, r)
	if !ok {
		return
	}

	var req CreateTimeOffRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	req.ProfessionalID = professional.ID

	timeOff, err := h.repo.CreateTimeOff(r.Context(), &req)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	h.logger.Info("time off created",
		"professional_id", professional.ID,
		"starts_at", timeOff.StartsAt,
		"ends_at", timeOff.EndsAt,
	)
	writeJSON(w, http.StatusCreated, timeOff)
}

// DeleteTimeOff handles DELETE /professionals/{professionalID}/time-off/{timeOffID}.
func (h *Handler) DeleteTimeOff(w http.ResponseWriter, r *http.Request) {
	professional, ok := h.loadProfessional(w, r)
	if !ok {
		return
	}
	timeOffID, err := uuid.Parse(chi.URLParam(r, "timeOffID"))
	if err != nil {
		http.Error(w, "invalid time off id", http.StatusBadRequest)
		return
	}

	if err := h.repo.DeleteTimeOff(r.Context(), professional.ID, timeOffID); err != nil {
		if errors.Is(err, ErrTimeOffNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		h.logger.Error("failed to delete time off", "professional_id", professional.ID, "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// CreateService handles POST /services.
func (h *Handler) CreateService(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := tenancy.TenantIDFromContext(r.Context())
	if !ok {
		http.Error(w, "missing tenant context", http.StatusBadRequest)
		return
	}

	var req CreateServiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	req.TenantID = tenantID

	service, err := h.repo.CreateService(r.Context(), &req)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	h.logger.Info("service created", "tenant_id", tenantID, "service_id", service.ID, "name", service.Name)
	writeJSON(w, http.StatusCreated, service)
}

// ListServices handles GET /services.
func (h *Handler) ListServices(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := tenancy.TenantIDFromContext(r.Context())
	if !ok {
		http.Error(w, "missing tenant context", http.StatusBadRequest)
		return
	}

	services, err := h.repo.ListServices(r.Context(), tenantID)
	if err != nil {
		h.logger.Error("failed to list services", "tenant_id", tenantID, "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, services)
}

// loadProfessional resolves the path professional scoped to the tenant,
// writing the HTTP error itself when resolution fails.
func (h *Handler) loadProfessional(w http.ResponseWriter, r *http.Request) (*Professional, bool) {
	tenantID, ok := tenancy.TenantIDFromContext(r.Context())
	if !ok {
		http.Error(w, "missing tenant context", http.StatusBadRequest)
		return nil, false
	}
	professionalID, err := uuid.Parse(chi.URLParam(r, "professionalID"))
	if err != nil {
		http.Error(w, "invalid professional id", http.StatusBadRequest)
		return nil, false
	}

	professional, err := h.repo.GetProfessional(r.Context(), tenantID, professionalID)
	if err != nil {
		if errors.Is(err, ErrProfessionalNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return nil, false
		}
		h.logger.Error("failed to load professional", "tenant_id", tenantID, "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return nil, false
	}
	return professional, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
