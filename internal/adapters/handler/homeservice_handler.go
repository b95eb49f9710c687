package handler

import (
	"net/http"

	"github.com/arogyahq/care-platform/internal/adapters/middleware"
	"github.com/arogyahq/care-platform/internal/core/domain"
	"github.com/arogyahq/care-platform/internal/core/services"
)

type HomeServiceHandler struct {
	home *services.HomeServiceService
}

func NewHomeServiceHandler(home *services.HomeServiceService) *HomeServiceHandler {
	return &HomeServiceHandler{home: home}
}

func (h *HomeServiceHandler) ListServices(w http.ResponseWriter, r *http.Request) {
	items, meta, err := h.home.ListServices(r.Context(), r.URL.Query().Get("category"), parsePage(r))
	if err != nil {
		respondError(w, err)
		return
	}
	respondList(w, "", items, meta)
}

func (h *HomeServiceHandler) GetService(w http.ResponseWriter, r *http.Request) {
	service, err := h.home.GetService(r.Context(), r.PathValue("id"))
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, "", service)
}

func (h *HomeServiceHandler) ListProviders(w http.ResponseWriter, r *http.Request) {
	f := domain.ProviderFilter{
		Location:  r.URL.Query().Get("location"),
		MinRating: queryFloat(r, "min_rating"),
		ServiceID: r.URL.Query().Get("service_id"),
	}
	providers, meta, err := h.home.ListProviders(r.Context(), f, parsePage(r))
	if err != nil {
		respondError(w, err)
		return
	}
	respondList(w, "", providers, meta)
}

func (h *HomeServiceHandler) GetProvider(w http.ResponseWriter, r *http.Request) {
	provider, err := h.home.GetProvider(r.Context(), r.PathValue("id"))
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, "", provider)
}

// Bookings

func (h *HomeServiceHandler) BookService(w http.ResponseWriter, r *http.Request) {
	var in services.HomeBookingInput
	if err := decode(r, &in); err != nil {
		respondBadRequest(w, "invalid request body")
		return
	}

	booking, err := h.home.BookService(r.Context(), middleware.UserID(r.Context()), in)
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusCreated, "Service booked", booking)
}

func (h *HomeServiceHandler) ListBookings(w http.ResponseWriter, r *http.Request) {
	f := domain.StatusFilter{Status: r.URL.Query().Get("status")}
	bookings, meta, err := h.home.ListBookings(r.Context(), middleware.UserID(r.Context()), f, parsePage(r))
	if err != nil {
		respondError(w, err)
		return
	}
	respondList(w, "", bookings, meta)
}

func (h *HomeServiceHandler) UpdateBooking(w http.ResponseWriter, r *http.Request) {
	var in services.HomeBookingUpdateInput
	if err := decode(r, &in); err != nil {
		respondBadRequest(w, "invalid request body")
		return
	}

	booking, err := h.home.UpdateBooking(r.Context(), middleware.UserID(r.Context()), r.PathValue("id"), in)
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, "Booking updated", booking)
}

func (h *HomeServiceHandler) CancelBooking(w http.ResponseWriter, r *http.Request) {
	if err := h.home.CancelBooking(r.Context(), middleware.UserID(r.Context()), r.PathValue("id")); err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, "Booking cancelled", nil)
}

type rateRequest struct {
	Rating   int    `json:"rating"`
	Feedback string `json:"feedback"`
}

func (h *HomeServiceHandler) RateBooking(w http.ResponseWriter, r *http.Request) {
	var req rateRequest
	if err := decode(r, &req); err != nil {
		respondBadRequest(w, "invalid request body")
		return
	}

	err := h.home.RateBooking(r.Context(), middleware.UserID(r.Context()), r.PathValue("id"), req.Rating, req.Feedback)
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, "Booking rated", nil)
}

// Assistance

func (h *HomeServiceHandler) CreateAssistanceRequest(w http.ResponseWriter, r *http.Request) {
	var in services.AssistanceInput
	if err := decode(r, &in); err != nil {
		respondBadRequest(w, "invalid request body")
		return
	}

	request, err := h.home.CreateAssistanceRequest(r.Context(), middleware.UserID(r.Context()), in)
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusCreated, "Assistance requested", request)
}

func (h *HomeServiceHandler) ListAssistanceRequests(w http.ResponseWriter, r *http.Request) {
	f := domain.AssistanceFilter{
		Status: r.URL.Query().Get("status"),
		Type:   r.URL.Query().Get("type"),
	}
	requests, meta, err := h.home.ListAssistanceRequests(r.Context(), middleware.UserID(r.Context()), f, parsePage(r))
	if err != nil {
		respondError(w, err)
		return
	}
	respondList(w, "", requests, meta)
}

func (h *HomeServiceHandler) UpdateAssistanceRequest(w http.ResponseWriter, r *http.Request) {
	var in services.AssistanceUpdateInput
	if err := decode(r, &in); err != nil {
		respondBadRequest(w, "invalid request body")
		return
	}

	request, err := h.home.UpdateAssistanceRequest(r.Context(), middleware.UserID(r.Context()), r.PathValue("id"), in)
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, "Assistance request updated", request)
}

func (h *HomeServiceHandler) CancelAssistanceRequest(w http.ResponseWriter, r *http.Request) {
	if err := h.home.CancelAssistanceRequest(r.Context(), middleware.UserID(r.Context()), r.PathValue("id")); err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, "Assistance request cancelled", nil)
}
