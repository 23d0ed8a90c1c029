package http

import (
	"errors"
	"net/http"

	"video-rental-store/internal/service"
)

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	user, token, err := h.svc.Auth.Register(r.Context(), req.Username, req.Email, req.Password, req.BirthYear)
	if err != nil {
		if errors.Is(err, service.ErrUserExists) {
			http.Error(w, "Could not create user.", http.StatusBadRequest)
			return
		}
		internalError(w, r, "Register", err)
		return
	}

	w.Header().Set(headerAuthToken, token)
	writeJSON(w, r, http.StatusOK, userResponse{ID: user.ID, Username: user.Username, Email: user.Email})
}

func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	claims, _ := ClaimsFromContext(r.Context())
	user, err := h.svc.Users.GetMe(r.Context(), claims.UserID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			http.Error(w, "User not found.", http.StatusNotFound)
			return
		}
		internalError(w, r, "GetMe", err)
		return
	}
	writeJSON(w, r, http.StatusOK, userResponse{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		BirthYear: user.BirthYear,
		IsAdmin:   user.IsAdmin,
	})
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	token, err := h.svc.Auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			http.Error(w, "Invalid email or password.", http.StatusBadRequest)
			return
		}
		internalError(w, r, "Login", err)
		return
	}
	writeJSON(w, r, http.StatusOK, tokenResponse{Token: token})
}
