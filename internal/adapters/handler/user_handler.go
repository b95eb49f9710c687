package handler

import (
	"net/http"

	"github.com/arogyahq/care-platform/internal/adapters/middleware"
	"github.com/arogyahq/care-platform/internal/core/domain"
	"github.com/arogyahq/care-platform/internal/core/services"
)

type UserHandler struct {
	users *services.UserService
}

func NewUserHandler(users *services.UserService) *UserHandler {
	return &UserHandler{users: users}
}

func (h *UserHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	user, err := h.users.GetProfile(r.Context(), middleware.UserID(r.Context()))
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, "", user)
}

func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req domain.UserProfileUpdate
	if err := decode(r, &req); err != nil {
		respondBadRequest(w, "invalid request body")
		return
	}

	user, err := h.users.UpdateProfile(r.Context(), middleware.UserID(r.Context()), req)
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, "Profile updated", user)
}

func (h *UserHandler) UpdatePreferences(w http.ResponseWriter, r *http.Request) {
	var prefs map[string]any
	if err := decode(r, &prefs); err != nil {
		respondBadRequest(w, "invalid request body")
		return
	}

	user, err := h.users.UpdatePreferences(r.Context(), middleware.UserID(r.Context()), prefs)
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, "Preferences updated", user)
}

func (h *UserHandler) DeactivateAccount(w http.ResponseWriter, r *http.Request) {
	if err := h.users.DeactivateAccount(r.Context(), middleware.UserID(r.Context())); err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, "Account deactivated", nil)
}

func (h *UserHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.users.GetStats(r.Context(), middleware.UserID(r.Context()))
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, "", stats)
}
