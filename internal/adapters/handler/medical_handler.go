package handler

import (
	"net/http"

	"github.com/arogyahq/care-platform/internal/adapters/middleware"
	"github.com/arogyahq/care-platform/internal/core/domain"
	"github.com/arogyahq/care-platform/internal/core/services"
)

type MedicalHandler struct {
	medical *services.MedicalService
}

func NewMedicalHandler(medical *services.MedicalService) *MedicalHandler {
	return &MedicalHandler{medical: medical}
}

// Doctors

func (h *MedicalHandler) ListDoctors(w http.ResponseWriter, r *http.Request) {
	f := domain.DoctorFilter{
		Specialization:     r.URL.Query().Get("specialization"),
		OnlineConsultation: queryBool(r, "online"),
	}
	doctors, meta, err := h.medical.ListDoctors(r.Context(), f, parsePage(r))
	if err != nil {
		respondError(w, err)
		return
	}
	respondList(w, "", doctors, meta)
}

func (h *MedicalHandler) GetDoctor(w http.ResponseWriter, r *http.Request) {
	doctor, err := h.medical.GetDoctor(r.Context(), r.PathValue("id"))
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, "", doctor)
}

// Appointments

func (h *MedicalHandler) CreateAppointment(w http.ResponseWriter, r *http.Request) {
	var in services.AppointmentInput
	if err := decode(r, &in); err != nil {
		respondBadRequest(w, "invalid request body")
		return
	}

	appointment, err := h.medical.CreateAppointment(r.Context(), middleware.UserID(r.Context()), in)
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusCreated, "Appointment booked", appointment)
}

func (h *MedicalHandler) ListAppointments(w http.ResponseWriter, r *http.Request) {
	f := domain.AppointmentFilter{
		Status: domain.AppointmentStatus(r.URL.Query().Get("status")),
		Type:   r.URL.Query().Get("type"),
	}
	appointments, meta, err := h.medical.ListAppointments(r.Context(), middleware.UserID(r.Context()), f, parsePage(r))
	if err != nil {
		respondError(w, err)
		return
	}
	respondList(w, "", appointments, meta)
}

func (h *MedicalHandler) UpdateAppointment(w http.ResponseWriter, r *http.Request) {
	var in services.AppointmentUpdateInput
	if err := decode(r, &in); err != nil {
		respondBadRequest(w, "invalid request body")
		return
	}

	appointment, err := h.medical.UpdateAppointment(r.Context(), middleware.UserID(r.Context()), r.PathValue("id"), in)
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, "Appointment updated", appointment)
}

func (h *MedicalHandler) CancelAppointment(w http.ResponseWriter, r *http.Request) {
	if err := h.medical.CancelAppointment(r.Context(), middleware.UserID(r.Context()), r.PathValue("id")); err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, "Appointment cancelled", nil)
}

// Lab tests

func (h *MedicalHandler) ListLabTests(w http.ResponseWriter, r *http.Request) {
	f := domain.LabTestFilter{
		Category: r.URL.Query().Get("category"),
		Search:   r.URL.Query().Get("search"),
	}
	tests, meta, err := h.medical.ListLabTests(r.Context(), f, parsePage(r))
	if err != nil {
		respondError(w, err)
		return
	}
	respondList(w, "", tests, meta)
}

func (h *MedicalHandler) BookLabTests(w http.ResponseWriter, r *http.Request) {
	var in services.LabBookingInput
	if err := decode(r, &in); err != nil {
		respondBadRequest(w, "invalid request body")
		return
	}

	booking, err := h.medical.BookLabTests(r.Context(), middleware.UserID(r.Context()), in)
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusCreated, "Lab tests booked", booking)
}

func (h *MedicalHandler) ListLabBookings(w http.ResponseWriter, r *http.Request) {
	f := domain.StatusFilter{Status: r.URL.Query().Get("status")}
	bookings, meta, err := h.medical.ListLabBookings(r.Context(), middleware.UserID(r.Context()), f, parsePage(r))
	if err != nil {
		respondError(w, err)
		return
	}
	respondList(w, "", bookings, meta)
}

// Pharmacies

func (h *MedicalHandler) ListPharmacies(w http.ResponseWriter, r *http.Request) {
	pharmacies, meta, err := h.medical.ListPharmacies(r.Context(), queryBool(r, "delivery"), parsePage(r))
	if err != nil {
		respondError(w, err)
		return
	}
	respondList(w, "", pharmacies, meta)
}

func (h *MedicalHandler) OrderPrescription(w http.ResponseWriter, r *http.Request) {
	var in services.PrescriptionOrderInput
	if err := decode(r, &in); err != nil {
		respondBadRequest(w, "invalid request body")
		return
	}

	order, err := h.medical.OrderPrescription(r.Context(), middleware.UserID(r.Context()), in)
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusCreated, "Prescription order placed", order)
}

func (h *MedicalHandler) ListPrescriptionOrders(w http.ResponseWriter, r *http.Request) {
	f := domain.StatusFilter{Status: r.URL.Query().Get("status")}
	orders, meta, err := h.medical.ListPrescriptionOrders(r.Context(), middleware.UserID(r.Context()), f, parsePage(r))
	if err != nil {
		respondError(w, err)
		return
	}
	respondList(w, "", orders, meta)
}

// Transfers

func (h *MedicalHandler) RequestTransfer(w http.ResponseWriter, r *http.Request) {
	var in services.TransferInput
	if err := decode(r, &in); err != nil {
		respondBadRequest(w, "invalid request body")
		return
	}

	transfer, err := h.medical.RequestTransfer(r.Context(), middleware.UserID(r.Context()), in)
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusCreated, "Transfer requested", transfer)
}

func (h *MedicalHandler) ListTransfers(w http.ResponseWriter, r *http.Request) {
	f := domain.StatusFilter{Status: r.URL.Query().Get("status")}
	transfers, meta, err := h.medical.ListTransfers(r.Context(), middleware.UserID(r.Context()), f, parsePage(r))
	if err != nil {
		respondError(w, err)
		return
	}
	respondList(w, "", transfers, meta)
}

// Vaccinations

func (h *MedicalHandler) ListVaccinations(w http.ResponseWriter, r *http.Request) {
	f := domain.VaccinationFilter{AgeGroup: r.URL.Query().Get("age_group")}
	vaccinations, meta, err := h.medical.ListVaccinations(r.Context(), f, parsePage(r))
	if err != nil {
		respondError(w, err)
		return
	}
	respondList(w, "", vaccinations, meta)
}

func (h *MedicalHandler) BookVaccination(w http.ResponseWriter, r *http.Request) {
	var in services.VaccinationBookingInput
	if err := decode(r, &in); err != nil {
		respondBadRequest(w, "invalid request body")
		return
	}

	booking, err := h.medical.BookVaccination(r.Context(), middleware.UserID(r.Context()), in)
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusCreated, "Vaccination booked", booking)
}

func (h *MedicalHandler) ListVaccinationBookings(w http.ResponseWriter, r *http.Request) {
	f := domain.StatusFilter{Status: r.URL.Query().Get("status")}
	bookings, meta, err := h.medical.ListVaccinationBookings(r.Context(), middleware.UserID(r.Context()), f, parsePage(r))
	if err != nil {
		respondError(w, err)
		return
	}
	respondList(w, "", bookings, meta)
}
