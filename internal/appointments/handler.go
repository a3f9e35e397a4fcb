package appointments

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/IgorAcender/AIGenda-sub001/internal/catalog"
	"github.com/IgorAcender/AIGenda-sub001/internal/tenancy"
	"github.com/IgorAcender/AIGenda-sub001/pkg/logging"
)

// Handler exposes the booking engine over HTTP.
type Handler struct {
	service *Service
	logger  *logging.Logger
}

// NewHandler creates a booking handler.
func NewHandler(service *Service, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{service: service, logger: logger}
}

// Routes returns a chi router with booking routes. All routes expect the
// tenant id in the request context.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/professionals/{professionalID}/slots", h.ListSlots)
	r.Post("/appointments", h.CreateBooking)
	r.Get("/appointments", h.ListAppointments)
	r.Post("/appointments/{appointmentID}/status", h.Transition)
	r.Delete("/appointments/{appointmentID}", h.DeleteAppointment)
	return r
}

// ListSlots handles GET /professionals/{professionalID}/slots.
// Query params: service_id (uuid), from, to ("2006-01-02", to defaults to from).
func (h *Handler) ListSlots(w http.ResponseWriter, r *http.Request) {
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
	serviceID, err := uuid.Parse(r.URL.Query().Get("service_id"))
	if err != nil {
		http.Error(w, "service_id query param is required", http.StatusBadRequest)
		return
	}
	from, err := time.Parse("2006-01-02", r.URL.Query().Get("from"))
	if err != nil {
		http.Error(w, "from must be a YYYY-MM-DD date", http.StatusBadRequest)
		return
	}
	to := from
	if raw := r.URL.Query().Get("to"); raw != "" {
		to, err = time.Parse("2006-01-02", raw)
		if err != nil {
			http.Error(w, "to must be a YYYY-MM-DD date", http.StatusBadRequest)
			return
		}
	}

	slots, err := h.service.ListAvailableSlots(r.Context(), tenantID, professionalID, serviceID, from, to)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if slots == nil {
		slots = []Slot{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"slots": slots})
}

// CreateBooking handles POST /appointments.
func (h *Handler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := tenancy.TenantIDFromContext(r.Context())
	if !ok {
		http.Error(w, "missing tenant context", http.StatusBadRequest)
		return
	}

	var req CreateBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	appt, err := h.service.CreateBooking(r.Context(), tenantID, &req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, appt)
}

// ListAppointments handles GET /appointments.
// Query params: from, to (dates), optional professional_id.
func (h *Handler) ListAppointments(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := tenancy.TenantIDFromContext(r.Context())
	if !ok {
		http.Error(w, "missing tenant context", http.StatusBadRequest)
		return
	}
	from, err := time.Parse("2006-01-02", r.URL.Query().Get("from"))
	if err != nil {
		http.Error(w, "from must be a YYYY-MM-DD date", http.StatusBadRequest)
		return
	}
	to := from
	if raw := r.URL.Query().Get("to"); raw != "" {
		to, err = time.Parse("2006-01-02", raw)
		if err != nil {
			http.Error(w, "to must be a YYYY-MM-DD date", http.StatusBadRequest)
			return
		}
	}

	var professionalID *uuid.UUID
	if raw := r.URL.Query().Get("professional_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			http.Error(w, "invalid professional_id", http.StatusBadRequest)
			return
		}
		professionalID = &id
	}

	appts, err := h.service.ListAppointments(r.Context(), tenantID, professionalID, from, to.AddDate(0, 0, 1))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if appts == nil {
		appts = []Appointment{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"appointments": appts})
}

// Transition handles POST /appointments/{appointmentID}/status.
func (h *Handler) Transition(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := tenancy.TenantIDFromContext(r.Context())
	if !ok {
		http.Error(w, "missing tenant context", http.StatusBadRequest)
		return
	}
	appointmentID, err := uuid.Parse(chi.URLParam(r, "appointmentID"))
	if err != nil {
		http.Error(w, "invalid appointment id", http.StatusBadRequest)
		return
	}

	var body struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	to, ok := ParseStatus(body.Status)
	if !ok {
		http.Error(w, "unknown status", http.StatusBadRequest)
		return
	}

	appt, err := h.service.TransitionAppointment(r.Context(), tenantID, appointmentID, to)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, appt)
}

// DeleteAppointment handles DELETE /appointments/{appointmentID}.
func (h *Handler) DeleteAppointment(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := tenancy.TenantIDFromContext(r.Context())
	if !ok {
		http.Error(w, "missing tenant context", http.StatusBadRequest)
		return
	}
	appointmentID, err := uuid.Parse(chi.URLParam(r, "appointmentID"))
	if err != nil {
		http.Error(w, "invalid appointment id", http.StatusBadRequest)
		return
	}

	if err := h.service.DeleteAppointment(r.Context(), tenantID, appointmentID); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// writeError maps engine errors onto HTTP statuses.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrSlotConflict), errors.Is(err, ErrInvalidTransition):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, ErrPolicyViolation), errors.Is(err, ErrConfiguration):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
	case errors.Is(err, ErrAppointmentNotFound),
		errors.Is(err, catalog.ErrProfessionalNotFound),
		errors.Is(err, catalog.ErrServiceNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, ErrMissingCustomer):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		h.logger.Error("booking request failed", "path", r.URL.Path, "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
