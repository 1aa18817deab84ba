package handlers

import (
	"errors"
	"net/http"
	"time"

	"laklight-scheduling/internal/apperr"
	"laklight-scheduling/internal/domain"
	"laklight-scheduling/internal/http/middleware"
	"laklight-scheduling/internal/logx"
	"laklight-scheduling/internal/service/scheduling"
)

// DeliveryHandler serves HTTP endpoints for delivery resources.
type DeliveryHandler struct {
	usecase schedulingUsecase
	logger  logx.Logger
}

// NewDeliveryHandler wires a scheduling usecase into HTTP handlers.
func NewDeliveryHandler(logger logx.Logger, uc schedulingUsecase) *DeliveryHandler {
	if logger == nil {
		logger = logx.Nop()
	}
	return &DeliveryHandler{usecase: uc, logger: logger}
}

// Create handles POST /deliveries. Farmers only: the delivery is proposed
// on behalf of the authenticated farmer.
func (h *DeliveryHandler) Create(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.CallerFrom(r.Context())
	if !ok || caller.Role != domain.ActorFarmer {
		writeError(h.logger, w, r, http.StatusForbidden, "farmer role required")
		return
	}

	var req createDeliveryRequest
	if ok := decodeJSON(h.logger, w, r, &req); !ok {
		return
	}

	proposed, err := time.Parse(dateLayout, req.ProposedDate)
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid proposed_date")
		return
	}

	d, err := h.usecase.Create(r.Context(), scheduling.CreateInput{
		FarmerID:        caller.ID,
		FarmerName:      req.FarmerName,
		Product:         req.Product,
		Quantity:        req.Quantity,
		TransportMethod: domain.TransportMethod(req.TransportMethod),
		ProposedDate:    proposed,
	})
	switch {
	case err == nil:
		w.Header().Set("Location", "/deliveries/"+d.ID)
		writeJSON(h.logger, w, r, http.StatusCreated, deliveryToResponse(d))
	case errors.Is(err, apperr.ErrInvalid):
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid input")
	default:
		writeError(h.logger, w, r, http.StatusInternalServerError, "internal error")
	}
}

// Get handles GET /deliveries/{id}.
func (h *DeliveryHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := idFromURL(r, "id")
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid id")
		return
	}

	d, err := h.usecase.Get(r.Context(), id)
	switch {
	case err == nil:
		writeJSON(h.logger, w, r, http.StatusOK, deliveryToResponse(d))
	case errors.Is(err, apperr.ErrNotFound):
		writeError(h.logger, w, r, http.StatusNotFound, "not found")
	default:
		writeError(h.logger, w, r, http.StatusInternalServerError, "internal error")
	}
}

// List handles GET /deliveries filtered by farmer_id or status. A farmer
// caller with no filter sees their own deliveries.
func (h *DeliveryHandler) List(w http.ResponseWriter, r *http.Request) {
	caller, _ := middleware.CallerFrom(r.Context())
	q := r.URL.Query()

	farmerID := q.Get("farmer_id")
	status := q.Get("status")
	if farmerID == "" && status == "" && caller.Role == domain.ActorFarmer {
		farmerID = caller.ID
	}

	var (
		list []domain.Delivery
		err  error
	)
	switch {
	case farmerID != "":
		list, err = h.usecase.ListByFarmer(r.Context(), farmerID)
	case status != "":
		list, err = h.usecase.ListByStatus(r.Context(), domain.DeliveryStatus(status))
	default:
		writeError(h.logger, w, r, http.StatusBadRequest, "farmer_id or status filter required")
		return
	}

	switch {
	case err == nil:
		writeJSON(h.logger, w, r, http.StatusOK, deliveriesToResponse(list))
	case errors.Is(err, apperr.ErrInvalid):
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid filter")
	default:
		writeError(h.logger, w, r, http.StatusInternalServerError, "internal error")
	}
}

// UpdateStatus handles PATCH /deliveries/{id}/status. The transition is
// attributed to the authenticated caller and validated against the
// negotiation state machine.
func (h *DeliveryHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.CallerFrom(r.Context())
	if !ok {
		writeError(h.logger, w, r, http.StatusForbidden, "actor required")
		return
	}

	id, err := idFromURL(r, "id")
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid id")
		return
	}

	var req updateStatusRequest
	if ok := decodeJSON(h.logger, w, r, &req); !ok {
		return
	}

	var scheduleDate *time.Time
	if req.ScheduleDate != "" {
		t, err := time.Parse(dateLayout, req.ScheduleDate)
		if err != nil {
			writeError(h.logger, w, r, http.StatusBadRequest, "invalid schedule_date")
			return
		}
		scheduleDate = &t
	}

	d, err := h.usecase.UpdateStatus(r.Context(), caller.Role, id, domain.DeliveryStatus(req.Status), scheduleDate)

	var te *apperr.TransitionError
	switch {
	case err == nil:
		writeJSON(h.logger, w, r, http.StatusOK, deliveryToResponse(d))
	case errors.As(err, &te):
		writeTransitionError(h.logger, w, r, te)
	case errors.Is(err, apperr.ErrInvalid):
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid input")
	case errors.Is(err, apperr.ErrNotFound):
		writeError(h.logger, w, r, http.StatusNotFound, "not found")
	case errors.Is(err, apperr.ErrConflict):
		writeError(h.logger, w, r, http.StatusConflict, "concurrent update, retry with fresh state")
	default:
		writeError(h.logger, w, r, http.StatusInternalServerError, "internal error")
	}
}
