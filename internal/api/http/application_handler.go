package http

import (
	"net/http"

	"leasehub-backend/internal/domain"
	"leasehub-backend/internal/service"
)

type applyRequest struct {
	PropertyID         int32  `json:"property_id" validate:"gt=0"`
	Message            string `json:"message" validate:"max=2000"`
	MonthlyIncomeCents int32  `json:"monthly_income_cents" validate:"gte=0"`
	MonthlyDebtCents   int32  `json:"monthly_debt_cents" validate:"gte=0"`
}

type viewingRequest struct {
	Date string `json:"date" validate:"required"`
}

type rejectRequest struct {
	Reason string `json:"reason" validate:"max=1000"`
}

func (h *handler) apply(w http.ResponseWriter, r *http.Request) {
	var req applyRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	app, err := h.svc.Applications.Apply(r.Context(), actorFrom(r).UserID, service.ApplyInput{
		PropertyID:         req.PropertyID,
		Message:            req.Message,
		MonthlyIncomeCents: req.MonthlyIncomeCents,
		MonthlyDebtCents:   req.MonthlyDebtCents,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, app)
}

func (h *handler) listApplications(w http.ResponseWriter, r *http.Request) {
	page, size, err := paging(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	propertyID, err := queryInt32(r, "property_id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	status := domain.ApplicationStatus(r.URL.Query().Get("status"))
	switch status {
	case "", domain.ApplicationStatusPending, domain.ApplicationStatusViewing,
		domain.ApplicationStatusApproved, domain.ApplicationStatusRejected:
	default:
		writeMessage(w, http.StatusBadRequest, "invalid status filter")
		return
	}
	apps, total, err := h.svc.Applications.ListApplications(r.Context(), actorFrom(r), domain.ApplicationFilter{
		PropertyID: propertyID,
		Status:     status,
		Page:       page,
		PageSize:   size,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newPage(apps, total, page, size))
}

func (h *handler) getApplication(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	app, err := h.svc.Applications.GetApplication(r.Context(), actorFrom(r), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, app)
}

func (h *handler) scheduleViewing(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req viewingRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	date, err := parseDay("date", req.Date)
	if err != nil {
		writeError(w, r, err)
		return
	}
	app, err := h.svc.Applications.ScheduleViewing(r.Context(), actorFrom(r).UserID, id, date)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, app)
}

func (h *handler) approveApplication(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	app, err := h.svc.Applications.ApproveApplication(r.Context(), actorFrom(r).UserID, id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, app)
}

func (h *handler) rejectApplication(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req rejectRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	app, err := h.svc.Applications.RejectApplication(r.Context(), actorFrom(r).UserID, id, req.Reason)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, app)
}

func (h *handler) withdrawApplication(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	app, err := h.svc.Applications.WithdrawApplication(r.Context(), actorFrom(r).UserID, id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, app)
}
