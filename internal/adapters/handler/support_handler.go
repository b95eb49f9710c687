package handler

import (
	"net/http"

	"github.com/arogyahq/care-platform/internal/adapters/middleware"
	"github.com/arogyahq/care-platform/internal/core/domain"
	"github.com/arogyahq/care-platform/internal/core/services"
)

type SupportHandler struct {
	support *services.SupportService
}

func NewSupportHandler(support *services.SupportService) *SupportHandler {
	return &SupportHandler{support: support}
}

// Disputes

func (h *SupportHandler) CreateDispute(w http.ResponseWriter, r *http.Request) {
	var in services.DisputeInput
	if err := decode(r, &in); err != nil {
		respondBadRequest(w, "invalid request body")
		return
	}

	dispute, err := h.support.CreateDispute(r.Context(), middleware.UserID(r.Context()), in)
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusCreated, "Dispute filed", dispute)
}

func (h *SupportHandler) ListDisputes(w http.ResponseWriter, r *http.Request) {
	f := domain.DisputeFilter{
		Status:   r.URL.Query().Get("status"),
		Category: r.URL.Query().Get("category"),
		Priority: r.URL.Query().Get("priority"),
	}
	disputes, meta, err := h.support.ListDisputes(r.Context(), middleware.UserID(r.Context()), f, parsePage(r))
	if err != nil {
		respondError(w, err)
		return
	}
	respondList(w, "", disputes, meta)
}

func (h *SupportHandler) GetDispute(w http.ResponseWriter, r *http.Request) {
	dispute, err := h.support.GetDispute(r.Context(), middleware.UserID(r.Context()), r.PathValue("id"))
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, "", dispute)
}

func (h *SupportHandler) UpdateDispute(w http.ResponseWriter, r *http.Request) {
	var in services.DisputeUpdateInput
	if err := decode(r, &in); err != nil {
		respondBadRequest(w, "invalid request body")
		return
	}

	dispute, err := h.support.UpdateDispute(r.Context(), middleware.UserID(r.Context()), r.PathValue("id"), in)
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, "Dispute updated", dispute)
}

func (h *SupportHandler) RateDispute(w http.ResponseWriter, r *http.Request) {
	var req rateRequest
	if err := decode(r, &req); err != nil {
		respondBadRequest(w, "invalid request body")
		return
	}

	err := h.support.RateDispute(r.Context(), middleware.UserID(r.Context()), r.PathValue("id"), req.Rating, req.Feedback)
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, "Dispute rated", nil)
}

// Tickets

func (h *SupportHandler) CreateTicket(w http.ResponseWriter, r *http.Request) {
	var in services.TicketInput
	if err := decode(r, &in); err != nil {
		respondBadRequest(w, "invalid request body")
		return
	}

	ticket, err := h.support.CreateTicket(r.Context(), middleware.UserID(r.Context()), in)
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusCreated, "Ticket created", ticket)
}

func (h *SupportHandler) ListTickets(w http.ResponseWriter, r *http.Request) {
	f := domain.TicketFilter{
		Status:   r.URL.Query().Get("status"),
		Category: r.URL.Query().Get("category"),
		Priority: r.URL.Query().Get("priority"),
	}
	tickets, meta, err := h.support.ListTickets(r.Context(), middleware.UserID(r.Context()), f, parsePage(r))
	if err != nil {
		respondError(w, err)
		return
	}
	respondList(w, "", tickets, meta)
}

func (h *SupportHandler) GetTicket(w http.ResponseWriter, r *http.Request) {
	ticket, err := h.support.GetTicket(r.Context(), middleware.UserID(r.Context()), r.PathValue("id"))
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, "", ticket)
}

type ticketMessageRequest struct {
	Message string `json:"message"`
}

func (h *SupportHandler) AddTicketMessage(w http.ResponseWriter, r *http.Request) {
	var req ticketMessageRequest
	if err := decode(r, &req); err != nil {
		respondBadRequest(w, "invalid request body")
		return
	}

	msg, err := h.support.AddTicketMessage(r.Context(), middleware.UserID(r.Context()), r.PathValue("id"), req.Message)
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusCreated, "Message added", msg)
}

func (h *SupportHandler) CloseTicket(w http.ResponseWriter, r *http.Request) {
	if err := h.support.CloseTicket(r.Context(), middleware.UserID(r.Context()), r.PathValue("id")); err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, "Ticket closed", nil)
}

// FAQs

func (h *SupportHandler) ListFAQs(w http.ResponseWriter, r *http.Request) {
	f := domain.FAQFilter{
		Category: r.URL.Query().Get("category"),
		Search:   r.URL.Query().Get("search"),
	}
	faqs, meta, err := h.support.ListFAQs(r.Context(), f, parsePage(r))
	if err != nil {
		respondError(w, err)
		return
	}
	respondList(w, "", faqs, meta)
}

func (h *SupportHandler) GetFAQ(w http.ResponseWriter, r *http.Request) {
	faq, err := h.support.GetFAQ(r.Context(), r.PathValue("id"))
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, "", faq)
}

func (h *SupportHandler) MarkFAQHelpful(w http.ResponseWriter, r *http.Request) {
	if err := h.support.MarkFAQHelpful(r.Context(), r.PathValue("id")); err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, "Thanks for the feedback", nil)
}

func (h *SupportHandler) FAQCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.support.FAQCategories(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, "", categories)
}

func (h *SupportHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.support.GetStats(r.Context(), middleware.UserID(r.Context()))
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, "", stats)
}
