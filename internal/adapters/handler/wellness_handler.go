package handler

import (
	"net/http"

	"github.com/arogyahq/care-platform/internal/adapters/middleware"
	"github.com/arogyahq/care-platform/internal/core/domain"
	"github.com/arogyahq/care-platform/internal/core/services"
)

type WellnessHandler struct {
	wellness *services.WellnessService
}

func NewWellnessHandler(wellness *services.WellnessService) *WellnessHandler {
	return &WellnessHandler{wellness: wellness}
}

func wellnessFilter(r *http.Request) domain.WellnessFilter {
	return domain.WellnessFilter{
		Level:       r.URL.Query().Get("level"),
		Category:    r.URL.Query().Get("category"),
		Type:        r.URL.Query().Get("type"),
		MaxDuration: queryInt(r, "max_duration"),
	}
}

func (h *WellnessHandler) ListDietPlans(w http.ResponseWriter, r *http.Request) {
	plans, meta, err := h.wellness.ListDietPlans(r.Context(), wellnessFilter(r), parsePage(r))
	if err != nil {
		respondError(w, err)
		return
	}
	respondList(w, "", plans, meta)
}

func (h *WellnessHandler) GetDietPlan(w http.ResponseWriter, r *http.Request) {
	plan, err := h.wellness.GetDietPlan(r.Context(), r.PathValue("id"))
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, "", plan)
}

func (h *WellnessHandler) ListExercisePrograms(w http.ResponseWriter, r *http.Request) {
	programs, meta, err := h.wellness.ListExercisePrograms(r.Context(), wellnessFilter(r), parsePage(r))
	if err != nil {
		respondError(w, err)
		return
	}
	respondList(w, "", programs, meta)
}

func (h *WellnessHandler) GetExerciseProgram(w http.ResponseWriter, r *http.Request) {
	program, err := h.wellness.GetExerciseProgram(r.Context(), r.PathValue("id"))
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, "", program)
}

func (h *WellnessHandler) ListYogaSessions(w http.ResponseWriter, r *http.Request) {
	sessions, meta, err := h.wellness.ListYogaSessions(r.Context(), wellnessFilter(r), parsePage(r))
	if err != nil {
		respondError(w, err)
		return
	}
	respondList(w, "", sessions, meta)
}

func (h *WellnessHandler) GetYogaSession(w http.ResponseWriter, r *http.Request) {
	session, err := h.wellness.GetYogaSession(r.Context(), r.PathValue("id"))
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, "", session)
}

// Subscriptions

func (h *WellnessHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	var in services.SubscribeInput
	if err := decode(r, &in); err != nil {
		respondBadRequest(w, "invalid request body")
		return
	}

	sub, err := h.wellness.Subscribe(r.Context(), middleware.UserID(r.Context()), in)
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusCreated, "Subscribed", sub)
}

func (h *WellnessHandler) ListSubscriptions(w http.ResponseWriter, r *http.Request) {
	f := domain.SubscriptionFilter{
		Type:   domain.SubscriptionType(r.URL.Query().Get("type")),
		Status: domain.SubscriptionStatus(r.URL.Query().Get("status")),
	}
	subs, meta, err := h.wellness.ListSubscriptions(r.Context(), middleware.UserID(r.Context()), f, parsePage(r))
	if err != nil {
		respondError(w, err)
		return
	}
	respondList(w, "", subs, meta)
}

func (h *WellnessHandler) GetSubscription(w http.ResponseWriter, r *http.Request) {
	sub, err := h.wellness.GetSubscription(r.Context(), middleware.UserID(r.Context()), r.PathValue("id"))
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, "", sub)
}

func (h *WellnessHandler) PauseSubscription(w http.ResponseWriter, r *http.Request) {
	sub, err := h.wellness.PauseSubscription(r.Context(), middleware.UserID(r.Context()), r.PathValue("id"))
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, "Subscription paused", sub)
}

func (h *WellnessHandler) ResumeSubscription(w http.ResponseWriter, r *http.Request) {
	sub, err := h.wellness.ResumeSubscription(r.Context(), middleware.UserID(r.Context()), r.PathValue("id"))
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, "Subscription resumed", sub)
}

func (h *WellnessHandler) CancelSubscription(w http.ResponseWriter, r *http.Request) {
	if err := h.wellness.CancelSubscription(r.Context(), middleware.UserID(r.Context()), r.PathValue("id")); err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, "Subscription cancelled", nil)
}

func (h *WellnessHandler) UpdateProgress(w http.ResponseWriter, r *http.Request) {
	var progress map[string]any
	if err := decode(r, &progress); err != nil {
		respondBadRequest(w, "invalid request body")
		return
	}

	sub, err := h.wellness.UpdateProgress(r.Context(), middleware.UserID(r.Context()), r.PathValue("id"), progress)
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, "Progress updated", sub)
}

func (h *WellnessHandler) Recommendations(w http.ResponseWriter, r *http.Request) {
	rec, err := h.wellness.Recommend(r.Context(), middleware.UserID(r.Context()))
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, "", rec)
}
