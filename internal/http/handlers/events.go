package handlers

import (
	"encoding/json"
	"net/http"

	"laklight-scheduling/internal/domain"
	"laklight-scheduling/internal/http/middleware"
	"laklight-scheduling/internal/logx"
)

// Stream handles GET /notifications/stream: a server-sent-events feed of
// reschedule activity, so the employee dashboard reacts the moment a
// farmer files a request instead of polling the pending list. Delivery is
// at-least-once; consumers dedupe by notification id.
func (h *NotificationHandler) Stream(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.CallerFrom(r.Context())
	if !ok || caller.Role != domain.ActorEmployee {
		writeError(h.logger, w, r, http.StatusForbidden, "employee role required")
		return
	}
	if h.stream == nil {
		writeError(h.logger, w, r, http.StatusNotImplemented, "stream not available")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(h.logger, w, r, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	events, cancel := h.stream.Subscribe(r.Context())
	defer cancel()

	for {
		select {
		case <-r.Context().Done():
			return
		case n, ok := <-events:
			if !ok {
				return
			}
			if err := writeEvent(w, &n); err != nil {
				h.logger.Debug("notification stream write failed",
					logx.String("notification_id", n.ID),
					logx.Err(err),
				)
				return
			}
			flusher.Flush()
		}
	}
}

func writeEvent(w http.ResponseWriter, n *domain.Notification) error {
	payload, err := json.Marshal(notificationToResponse(n))
	if err != nil {
		return err
	}
	if _, err := w.Write([]byte("id: " + n.ID + "\nevent: notification\ndata: ")); err != nil {
		return err
	}
	if _, err := w.Write(payload); err != nil {
		return err
	}
	_, err = w.Write([]byte("\n\n"))
	return err
}
