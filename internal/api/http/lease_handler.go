package http

import (
	"net/http"
)

type startDateRequest struct {
	Date string `json:"date" validate:"required"`
}

type documentRequest struct {
	DocumentURL string `json:"document_url" validate:"required,url,max=2048"`
}

type commentRequest struct {
	Body            string `json:"body" validate:"required,max=5000"`
	ParentCommentID *int32 `json:"parent_comment_id" validate:"omitempty,gt=0"`
}

type downloadResponse struct {
	DocumentURL string `json:"document_url"`
}

func (h *handler) getLease(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	lease, err := h.svc.Leases.GetLease(r.Context(), actorFrom(r), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, lease)
}

func (h *handler) setStartDate(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req startDateRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	date, err := parseDay("date", req.Date)
	if err != nil {
		writeError(w, r, err)
		return
	}
	app, err := h.svc.Leases.SetStartDate(r.Context(), actorFrom(r).UserID, id, date)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, app)
}

func (h *handler) approveStartDate(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	app, err := h.svc.Leases.ApproveStartDate(r.Context(), actorFrom(r).UserID, id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, app)
}

func (h *handler) setDocument(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req documentRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	lease, err := h.svc.Leases.SetDocument(r.Context(), actorFrom(r).UserID, id, req.DocumentURL)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, lease)
}

func (h *handler) downloadLease(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	url, err := h.svc.Leases.Download(r.Context(), actorFrom(r).UserID, id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, downloadResponse{DocumentURL: url})
}

func (h *handler) commentLease(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req commentRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	comment, err := h.svc.Leases.Comment(r.Context(), actorFrom(r).UserID, id, req.Body, req.ParentCommentID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, comment)
}

func (h *handler) approveLease(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	lease, err := h.svc.Leases.Approve(r.Context(), actorFrom(r).UserID, id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, lease)
}

func (h *handler) signLease(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	lease, err := h.svc.Leases.Sign(r.Context(), actorFrom(r).UserID, id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, lease)
}
