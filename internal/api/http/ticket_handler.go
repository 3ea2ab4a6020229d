package http

import (
	"net/http"

	"leasehub-backend/internal/domain"
	"leasehub-backend/internal/service"
)

type createTicketRequest struct {
	PropertyID  int32  `json:"property_id" validate:"gt=0"`
	Title       string `json:"title" validate:"required,max=200"`
	Description string `json:"description" validate:"max=5000"`
	Category    string `json:"category" validate:"max=60"`
	Priority    string `json:"priority" validate:"omitempty,oneof=low medium high urgent"`
}

type ticketStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=new review approved declined closed resolved"`
}

func (h *handler) createTicket(w http.ResponseWriter, r *http.Request) {
	var req createTicketRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	ticket, err := h.svc.Tickets.CreateTicket(r.Context(), actorFrom(r).UserID, service.CreateTicketInput{
		PropertyID:  req.PropertyID,
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Priority:    domain.TicketPriority(req.Priority),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, ticket)
}

func (h *handler) listTickets(w http.ResponseWriter, r *http.Request) {
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
	q := r.URL.Query()
	if err := validate.Var(q.Get("status"), "omitempty,oneof=new review approved declined closed resolved"); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid status filter")
		return
	}
	if err := validate.Var(q.Get("priority"), "omitempty,oneof=low medium high urgent"); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid priority filter")
		return
	}
	tickets, total, err := h.svc.Tickets.ListTickets(r.Context(), actorFrom(r), domain.TicketFilter{
		PropertyID: propertyID,
		Status:     domain.TicketStatus(q.Get("status")),
		Priority:   domain.TicketPriority(q.Get("priority")),
		Page:       page,
		PageSize:   size,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newPage(tickets, total, page, size))
}

func (h *handler) getTicket(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	ticket, err := h.svc.Tickets.GetTicket(r.Context(), actorFrom(r), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ticket)
}

func (h *handler) updateTicketStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req ticketStatusRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	ticket, err := h.svc.Tickets.UpdateStatus(r.Context(), actorFrom(r), id, domain.TicketStatus(req.Status))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ticket)
}

func (h *handler) commentTicket(w http.ResponseWriter, r *http.Request) {
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
	comment, err := h.svc.Tickets.Comment(r.Context(), actorFrom(r), id, req.Body, req.ParentCommentID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, comment)
}
