package handler

import (
	"net/http"

	"github.com/arogyahq/care-platform/internal/adapters/middleware"
	"github.com/arogyahq/care-platform/internal/core/domain"
	"github.com/arogyahq/care-platform/internal/core/services"
)

type EmergencyHandler struct {
	emergency *services.EmergencyService
}

func NewEmergencyHandler(emergency *services.EmergencyService) *EmergencyHandler {
	return &EmergencyHandler{emergency: emergency}
}

// Contacts

func (h *EmergencyHandler) CreateContact(w http.ResponseWriter, r *http.Request) {
	var in services.ContactInput
	if err := decode(r, &in); err != nil {
		respondBadRequest(w, "invalid request body")
		return
	}

	contact, err := h.emergency.CreateContact(r.Context(), middleware.UserID(r.Context()), in)
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusCreated, "Emergency contact added", contact)
}

func (h *EmergencyHandler) ListContacts(w http.ResponseWriter, r *http.Request) {
	contacts, meta, err := h.emergency.ListContacts(r.Context(), middleware.UserID(r.Context()), parsePage(r))
	if err != nil {
		respondError(w, err)
		return
	}
	respondList(w, "", contacts, meta)
}

func (h *EmergencyHandler) UpdateContact(w http.ResponseWriter, r *http.Request) {
	var in services.ContactInput
	if err := decode(r, &in); err != nil {
		respondBadRequest(w, "invalid request body")
		return
	}

	contact, err := h.emergency.UpdateContact(r.Context(), middleware.UserID(r.Context()), r.PathValue("id"), in)
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, "Emergency contact updated", contact)
}

func (h *EmergencyHandler) DeleteContact(w http.ResponseWriter, r *http.Request) {
	if err := h.emergency.DeleteContact(r.Context(), middleware.UserID(r.Context()), r.PathValue("id")); err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, "Emergency contact removed", nil)
}

// SOS

func (h *EmergencyHandler) CreateSOSAlert(w http.ResponseWriter, r *http.Request) {
	var in services.SOSInput
	if err := decode(r, &in); err != nil {
		respondBadRequest(w, "invalid request body")
		return
	}

	alert, err := h.emergency.CreateSOSAlert(r.Context(), middleware.UserID(r.Context()), in)
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusCreated, "SOS alert raised", alert)
}

func (h *EmergencyHandler) ListSOSAlerts(w http.ResponseWriter, r *http.Request) {
	f := domain.SOSAlertFilter{Status: domain.SOSStatus(r.URL.Query().Get("status"))}
	alerts, meta, err := h.emergency.ListSOSAlerts(r.Context(), middleware.UserID(r.Context()), f, parsePage(r))
	if err != nil {
		respondError(w, err)
		return
	}
	respondList(w, "", alerts, meta)
}

func (h *EmergencyHandler) UpdateSOSAlert(w http.ResponseWriter, r *http.Request) {
	var in services.SOSUpdateInput
	if err := decode(r, &in); err != nil {
		respondBadRequest(w, "invalid request body")
		return
	}

	alert, err := h.emergency.UpdateSOSAlert(r.Context(), middleware.UserID(r.Context()), r.PathValue("id"), in)
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, "SOS alert updated", alert)
}

// Reminders

func (h *EmergencyHandler) CreateReminder(w http.ResponseWriter, r *http.Request) {
	var in services.ReminderInput
	if err := decode(r, &in); err != nil {
		respondBadRequest(w, "invalid request body")
		return
	}

	reminder, err := h.emergency.CreateReminder(r.Context(), middleware.UserID(r.Context()), in)
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusCreated, "Reminder created", reminder)
}

func (h *EmergencyHandler) ListReminders(w http.ResponseWriter, r *http.Request) {
	f := domain.ReminderFilter{
		Type:   domain.ReminderType(r.URL.Query().Get("type")),
		Status: domain.ReminderStatus(r.URL.Query().Get("status")),
	}
	reminders, meta, err := h.emergency.ListReminders(r.Context(), middleware.UserID(r.Context()), f, parsePage(r))
	if err != nil {
		respondError(w, err)
		return
	}
	respondList(w, "", reminders, meta)
}

func (h *EmergencyHandler) UpdateReminder(w http.ResponseWriter, r *http.Request) {
	var in services.ReminderUpdateInput
	if err := decode(r, &in); err != nil {
		respondBadRequest(w, "invalid request body")
		return
	}

	reminder, err := h.emergency.UpdateReminder(r.Context(), middleware.UserID(r.Context()), r.PathValue("id"), in)
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, "Reminder updated", reminder)
}

func (h *EmergencyHandler) DeleteReminder(w http.ResponseWriter, r *http.Request) {
	if err := h.emergency.DeleteReminder(r.Context(), middleware.UserID(r.Context()), r.PathValue("id")); err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, "Reminder cancelled", nil)
}

type snoozeRequest struct {
	Minutes int `json:"minutes"`
}

func (h *EmergencyHandler) SnoozeReminder(w http.ResponseWriter, r *http.Request) {
	var req snoozeRequest
	if err := decode(r, &req); err != nil {
		respondBadRequest(w, "invalid request body")
		return
	}

	reminder, err := h.emergency.SnoozeReminder(r.Context(), middleware.UserID(r.Context()), r.PathValue("id"), req.Minutes)
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, "Reminder snoozed", reminder)
}
