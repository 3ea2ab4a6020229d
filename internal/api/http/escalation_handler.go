package http

import (
	"net/http"

	"leasehub-backend/internal/domain"
	"leasehub-backend/internal/service"
)

type createEscalationRequest struct {
	PaymentID   int32  `json:"payment_id" validate:"gt=0"`
	Reason      string `json:"reason" validate:"required,oneof=missed_payment partial_payment repeated_late_payment other"`
	Description string `json:"description" validate:"required,max=5000"`
}

type resolveRequest struct {
	Resolution string `json:"resolution" validate:"required,max=5000"`
}

type noteRequest struct {
	Note string `json:"note" validate:"required,max=5000"`
}

func (h *handler) createEscalation(w http.ResponseWriter, r *http.Request) {
	var req createEscalationRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	esc, err := h.svc.Escalations.CreateEscalation(r.Context(), actorFrom(r).UserID, service.CreateEscalationInput{
		PaymentID:   req.PaymentID,
		Reason:      domain.EscalationReason(req.Reason),
		Description: req.Description,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, esc)
}

func (h *handler) listEscalations(w http.ResponseWriter, r *http.Request) {
	page, size, err := paging(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	status := r.URL.Query().Get("status")
	if err := validate.Var(status, "omitempty,oneof=pending in_review resolved closed"); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid status filter")
		return
	}
	list, total, err := h.svc.Escalations.ListEscalations(r.Context(), actorFrom(r), domain.EscalationFilter{
		Status:   domain.EscalationStatus(status),
		Page:     page,
		PageSize: size,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newPage(list, total, page, size))
}

func (h *handler) getEscalation(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	esc, err := h.svc.Escalations.GetEscalation(r.Context(), actorFrom(r), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, esc)
}

func (h *handler) reviewEscalation(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	esc, err := h.svc.Escalations.StartReview(r.Context(), actorFrom(r).UserID, id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, esc)
}

func (h *handler) resolveEscalation(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req resolveRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	esc, err := h.svc.Escalations.Resolve(r.Context(), actorFrom(r).UserID, id, req.Resolution)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, esc)
}

func (h *handler) addEscalationNote(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req noteRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	esc, err := h.svc.Escalations.AddNote(r.Context(), actorFrom(r).UserID, id, req.Note)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, esc)
}

func (h *handler) closeEscalation(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	esc, err := h.svc.Escalations.Close(r.Context(), actorFrom(r), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, esc)
}
