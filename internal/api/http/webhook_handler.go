package http

import (
	"io"
	"net/http"

	"leasehub-backend/internal/logger"
)

type ackResponse struct {
	Status string `json:"status"`
}

// docuSignWebhook runs behind the signature check, which has already
// buffered the body.
func (h *handler) docuSignWebhook(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(r.Body)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "unreadable body")
		return
	}
	if err := h.svc.Webhooks.HandleDocuSignEvent(r.Context(), payload); err != nil {
		logger.WarnContext(r.Context(), "DocuSign event rejected", "error", err)
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ackResponse{Status: "accepted"})
}
