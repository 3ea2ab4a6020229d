package http

import (
	"net/http"

	"leasehub-backend/internal/domain"
	"leasehub-backend/internal/service"
)

type registerRequest struct {
	Email       string `json:"email" validate:"required,email,max=255"`
	Password    string `json:"password" validate:"required,min=8,max=72"`
	Name        string `json:"name" validate:"required,max=120"`
	PhoneNumber string `json:"phone_number" validate:"omitempty,max=32"`
	Role        string `json:"role" validate:"required,oneof=tenant landlord"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type authResponse struct {
	User   *domain.User       `json:"user"`
	Tokens *service.TokenPair `json:"tokens"`
}

func (h *handler) registerUser(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	user, tokens, err := h.svc.Auth.Register(r.Context(), service.RegisterInput{
		Email:       req.Email,
		Password:    req.Password,
		Name:        req.Name,
		PhoneNumber: req.PhoneNumber,
		Role:        domain.UserRole(req.Role),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, authResponse{User: user, Tokens: tokens})
}

func (h *handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	user, tokens, err := h.svc.Auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, authResponse{User: user, Tokens: tokens})
}

func (h *handler) refresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	tokens, err := h.svc.Auth.RefreshToken(r.Context(), req.RefreshToken)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tokens)
}

func (h *handler) logout(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.svc.Auth.Logout(r.Context(), req.RefreshToken); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type profileRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=120"`
	PhoneNumber *string `json:"phone_number" validate:"omitempty,max=32"`
	DeviceToken *string `json:"device_token" validate:"omitempty,max=4096"`
}

func (h *handler) getProfile(w http.ResponseWriter, r *http.Request) {
	user, err := h.svc.Users.GetProfile(r.Context(), actorFrom(r).UserID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *handler) updateProfile(w http.ResponseWriter, r *http.Request) {
	var req profileRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	user, err := h.svc.Users.UpdateProfile(r.Context(), actorFrom(r).UserID, service.ProfileUpdate{
		Name:        req.Name,
		PhoneNumber: req.PhoneNumber,
		DeviceToken: req.DeviceToken,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

type blockRequest struct {
	Blocked bool   `json:"blocked"`
	Reason  string `json:"reason" validate:"required_if=Blocked true,max=500"`
}

func (h *handler) listUsers(w http.ResponseWriter, r *http.Request) {
	page, size, err := paging(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	role := domain.UserRole(r.URL.Query().Get("role"))
	if role != "" && !role.Valid() {
		writeMessage(w, http.StatusBadRequest, "invalid role filter")
		return
	}
	users, total, err := h.svc.Admin.ListUsers(r.Context(), role, page, size)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newPage(users, total, page, size))
}

func (h *handler) blockUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req blockRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	user, err := h.svc.Admin.BlockUser(r.Context(), actorFrom(r).UserID, id, req.Blocked, req.Reason)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}
