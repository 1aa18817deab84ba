package handlers

import (
	"errors"
	"net/http"
	"time"

	"laklight-scheduling/internal/apperr"
	"laklight-scheduling/internal/domain"
	"laklight-scheduling/internal/http/middleware"
	"laklight-scheduling/internal/logx"
)

// NotificationHandler serves HTTP endpoints for the reschedule relay.
type NotificationHandler struct {
	usecase rescheduleUsecase
	stream  notificationStream
	logger  logx.Logger
}

// NewNotificationHandler wires the reschedule usecase and the push stream
// into HTTP handlers.
func NewNotificationHandler(logger logx.Logger, uc rescheduleUsecase, stream notificationStream) *NotificationHandler {
	if logger == nil {
		logger = logx.Nop()
	}
	return &NotificationHandler{usecase: uc, stream: stream, logger: logger}
}

// Request handles POST /deliveries/{id}/reschedule.
func (h *NotificationHandler) Request(w http.ResponseWriter, r *http.Request) {
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

	var req rescheduleRequest
	if ok := decodeJSON(h.logger, w, r, &req); !ok {
		return
	}
	newDate, err := time.Parse(dateLayout, req.NewDate)
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid new_date")
		return
	}

	n, err := h.usecase.Request(r.Context(), caller.Role, id, newDate)

	var te *apperr.TransitionError
	switch {
	case err == nil:
		writeJSON(h.logger, w, r, http.StatusCreated, notificationToResponse(n))
	case errors.As(err, &te):
		writeTransitionError(h.logger, w, r, te)
	case errors.Is(err, apperr.ErrInvalid):
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid input")
	case errors.Is(err, apperr.ErrNotFound):
		writeError(h.logger, w, r, http.StatusNotFound, "delivery not found")
	case errors.Is(err, apperr.ErrConflict):
		writeError(h.logger, w, r, http.StatusConflict, "conflicting request in flight")
	default:
		writeError(h.logger, w, r, http.StatusInternalServerError, "internal error")
	}
}

// Resolve handles POST /notifications/{id}/resolve. Employees only.
func (h *NotificationHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.CallerFrom(r.Context())
	if !ok || caller.Role != domain.ActorEmployee {
		writeError(h.logger, w, r, http.StatusForbidden, "employee role required")
		return
	}

	id, err := idFromURL(r, "id")
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid id")
		return
	}

	var req resolveRequest
	if ok := decodeJSON(h.logger, w, r, &req); !ok {
		return
	}

	n, err := h.usecase.Resolve(r.Context(), caller.Role, id,
		domain.NotificationStatus(req.Outcome), req.Reason)
	switch {
	case err == nil:
		writeJSON(h.logger, w, r, http.StatusOK, notificationToResponse(n))
	case errors.Is(err, apperr.ErrReasonRequired):
		writeError(h.logger, w, r, http.StatusBadRequest, "rejection reason required")
	case errors.Is(err, apperr.ErrInvalid):
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid input")
	case errors.Is(err, apperr.ErrNotFound):
		writeError(h.logger, w, r, http.StatusNotFound, "not found")
	case errors.Is(err, apperr.ErrConflict):
		writeError(h.logger, w, r, http.StatusConflict, "already resolved")
	default:
		writeError(h.logger, w, r, http.StatusInternalServerError, "internal error")
	}
}

// ListPending handles GET /notifications/pending. Employees only.
func (h *NotificationHandler) ListPending(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.CallerFrom(r.Context())
	if !ok || caller.Role != domain.ActorEmployee {
		writeError(h.logger, w, r, http.StatusForbidden, "employee role required")
		return
	}

	list, err := h.usecase.ListPending(r.Context())
	if err != nil {
		writeError(h.logger, w, r, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, notificationsToResponse(list))
}
