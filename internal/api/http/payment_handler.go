package http

import (
	"net/http"
	"time"

	"leasehub-backend/internal/domain"
	"leasehub-backend/internal/service"
)

type recordPaymentRequest struct {
	ApplicationID int32  `json:"application_id" validate:"gt=0"`
	AmountCents   int32  `json:"amount_cents" validate:"gt=0"`
	DueDate       string `json:"due_date" validate:"required"`
	Method        string `json:"method" validate:"omitempty,oneof=bank_transfer card cash check other"`
	Paid          bool   `json:"paid"`
	PaidDate      string `json:"paid_date"`
	Notes         string `json:"notes" validate:"max=1000"`
}

type markPaidRequest struct {
	PaidDate string `json:"paid_date"`
	Method   string `json:"method" validate:"omitempty,oneof=bank_transfer card cash check other"`
}

type cancelPaymentRequest struct {
	Reason string `json:"reason" validate:"max=1000"`
}

func (h *handler) recordPayment(w http.ResponseWriter, r *http.Request) {
	var req recordPaymentRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	due, err := parseDay("due_date", req.DueDate)
	if err != nil {
		writeError(w, r, err)
		return
	}
	in := service.RecordPaymentInput{
		ApplicationID: req.ApplicationID,
		AmountCents:   req.AmountCents,
		DueDate:       due,
		Method:        domain.PaymentMethod(req.Method),
		Paid:          req.Paid,
		Notes:         req.Notes,
	}
	if req.PaidDate != "" {
		paid, err := parseDay("paid_date", req.PaidDate)
		if err != nil {
			writeError(w, r, err)
			return
		}
		in.PaidDate = &paid
	}
	payment, err := h.svc.Payments.RecordPayment(r.Context(), actorFrom(r).UserID, in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, payment)
}

func (h *handler) listPayments(w http.ResponseWriter, r *http.Request) {
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
	status := r.URL.Query().Get("status")
	if err := validate.Var(status, "omitempty,oneof=paid pending overdue cancelled"); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid status filter")
		return
	}
	payments, total, err := h.svc.Payments.ListPayments(r.Context(), actorFrom(r), domain.PaymentFilter{
		PropertyID: propertyID,
		Status:     domain.PaymentStatus(status),
		Page:       page,
		PageSize:   size,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newPage(payments, total, page, size))
}

func (h *handler) getPayment(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	payment, err := h.svc.Payments.GetPayment(r.Context(), actorFrom(r), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, payment)
}

func (h *handler) markPaid(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req markPaidRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	paidDate := time.Now().UTC()
	if req.PaidDate != "" {
		if paidDate, err = parseDay("paid_date", req.PaidDate); err != nil {
			writeError(w, r, err)
			return
		}
	}
	payment, err := h.svc.Payments.MarkPaid(r.Context(), actorFrom(r).UserID, id, paidDate, domain.PaymentMethod(req.Method))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, payment)
}

func (h *handler) cancelPayment(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req cancelPaymentRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	payment, err := h.svc.Payments.CancelPayment(r.Context(), actorFrom(r).UserID, id, req.Reason)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, payment)
}
