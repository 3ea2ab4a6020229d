package http

import (
	"net/http"

	"leasehub-backend/internal/domain"
	"leasehub-backend/internal/service"
)

type createPropertyRequest struct {
	Title            string `json:"title" validate:"required,max=200"`
	Description      string `json:"description" validate:"max=5000"`
	Address          string `json:"address" validate:"required,max=300"`
	City             string `json:"city" validate:"required,max=120"`
	MonthlyRentCents int32  `json:"monthly_rent_cents" validate:"gt=0"`
	Bedrooms         int32  `json:"bedrooms" validate:"gte=0,lte=50"`
	Bathrooms        int32  `json:"bathrooms" validate:"gte=0,lte=50"`
}

type updatePropertyRequest struct {
	Title            *string `json:"title" validate:"omitempty,min=1,max=200"`
	Description      *string `json:"description" validate:"omitempty,max=5000"`
	Address          *string `json:"address" validate:"omitempty,min=1,max=300"`
	City             *string `json:"city" validate:"omitempty,min=1,max=120"`
	MonthlyRentCents *int32  `json:"monthly_rent_cents" validate:"omitempty,gt=0"`
	Bedrooms         *int32  `json:"bedrooms" validate:"omitempty,gte=0,lte=50"`
	Bathrooms        *int32  `json:"bathrooms" validate:"omitempty,gte=0,lte=50"`
}

type moderateRequest struct {
	Approve bool   `json:"approve"`
	Note    string `json:"note" validate:"required_if=Approve false,max=1000"`
}

func propertyStatus(r *http.Request) (domain.PropertyStatus, bool) {
	s := domain.PropertyStatus(r.URL.Query().Get("status"))
	switch s {
	case "", domain.PropertyStatusPending, domain.PropertyStatusApproved, domain.PropertyStatusRejected,
		domain.PropertyStatusRented, domain.PropertyStatusArchived:
		return s, true
	}
	return "", false
}

func (h *handler) browseProperties(w http.ResponseWriter, r *http.Request) {
	page, size, err := paging(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	maxRent, err := queryInt32(r, "max_rent_cents")
	if err != nil {
		writeError(w, r, err)
		return
	}
	minBeds, err := queryInt32(r, "min_bedrooms")
	if err != nil {
		writeError(w, r, err)
		return
	}
	filter := domain.PropertyFilter{
		City:         r.URL.Query().Get("city"),
		MaxRentCents: maxRent,
		MinBedrooms:  minBeds,
		Page:         page,
		PageSize:     size,
	}
	props, total, err := h.svc.Properties.BrowseProperties(r.Context(), filter)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newPage(props, total, page, size))
}

func (h *handler) getProperty(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	prop, err := h.svc.Properties.GetProperty(r.Context(), actorFrom(r), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, prop)
}

func (h *handler) createProperty(w http.ResponseWriter, r *http.Request) {
	var req createPropertyRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	prop := &domain.Property{
		Title:            req.Title,
		Description:      req.Description,
		Address:          req.Address,
		City:             req.City,
		MonthlyRentCents: req.MonthlyRentCents,
		Bedrooms:         req.Bedrooms,
		Bathrooms:        req.Bathrooms,
	}
	if err := h.svc.Properties.CreateProperty(r.Context(), actorFrom(r).UserID, prop); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, prop)
}

func (h *handler) updateProperty(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req updatePropertyRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	prop, err := h.svc.Properties.UpdateProperty(r.Context(), actorFrom(r).UserID, id, service.PropertyUpdate{
		Title:            req.Title,
		Description:      req.Description,
		Address:          req.Address,
		City:             req.City,
		MonthlyRentCents: req.MonthlyRentCents,
		Bedrooms:         req.Bedrooms,
		Bathrooms:        req.Bathrooms,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, prop)
}

func (h *handler) archiveProperty(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	prop, err := h.svc.Properties.ArchiveProperty(r.Context(), actorFrom(r).UserID, id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, prop)
}

func (h *handler) myProperties(w http.ResponseWriter, r *http.Request) {
	page, size, err := paging(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	status, ok := propertyStatus(r)
	if !ok {
		writeMessage(w, http.StatusBadRequest, "invalid status filter")
		return
	}
	props, total, err := h.svc.Properties.ListMyProperties(r.Context(), actorFrom(r).UserID, status, page, size)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newPage(props, total, page, size))
}

func (h *handler) listForModeration(w http.ResponseWriter, r *http.Request) {
	page, size, err := paging(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	status, ok := propertyStatus(r)
	if !ok {
		writeMessage(w, http.StatusBadRequest, "invalid status filter")
		return
	}
	props, total, err := h.svc.Properties.ListForModeration(r.Context(), status, page, size)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newPage(props, total, page, size))
}

func (h *handler) moderateProperty(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req moderateRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	prop, err := h.svc.Properties.ModerateProperty(r.Context(), actorFrom(r).UserID, id, req.Approve, req.Note)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, prop)
}
