package services

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/arogyahq/care-platform/internal/core/domain"
	"github.com/arogyahq/care-platform/internal/core/ports"
)

type MedicalService struct {
	repo      ports.MedicalRepository
	publisher ports.EventPublisher
	now       func() time.Time
}

func NewMedicalService(repo ports.MedicalRepository, publisher ports.EventPublisher) *MedicalService {
	return &MedicalService{repo: repo, publisher: publisher, now: time.Now}
}

// Doctors

func (s *MedicalService) ListDoctors(ctx context.Context, f domain.DoctorFilter, p domain.Page) ([]domain.Doctor, domain.PageMeta, error) {
	doctors, total, err := s.repo.ListDoctors(ctx, f, p)
	if err != nil {
		return nil, domain.PageMeta{}, err
	}
	return doctors, p.Meta(total), nil
}

func (s *MedicalService) GetDoctor(ctx context.Context, id string) (*domain.Doctor, error) {
	doctor, err := s.repo.FindDoctor(ctx, id)
	if err != nil {
		return nil, err
	}
	if !doctor.IsActive {
		return nil, domain.NotFound("doctor not found")
	}
	return doctor, nil
}

// Appointments

type AppointmentInput struct {
	DoctorID        string    `json:"doctor_id"`
	AppointmentDate time.Time `json:"appointment_date"`
	Type            string    `json:"type"`
	Reason          string    `json:"reason"`
	Symptoms        string    `json:"symptoms"`
}

func (s *MedicalService) CreateAppointment(ctx context.Context, userID string, in AppointmentInput) (*domain.Appointment, error) {
	doctor, err := s.GetDoctor(ctx, in.DoctorID)
	if err != nil {
		return nil, err
	}

	taken, err := s.repo.SlotTaken(ctx, doctor.ID, in.AppointmentDate)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, domain.Conflict("appointment slot is not available")
	}

	appointment := &domain.Appointment{
		ID:              uuid.NewString(),
		UserID:          userID,
		DoctorID:        doctor.ID,
		AppointmentDate: in.AppointmentDate,
		Type:            in.Type,
		Status:          domain.AppointmentScheduled,
		Reason:          in.Reason,
		Symptoms:        in.Symptoms,
		Fee:             doctor.ConsultationFee,
		PaymentStatus:   "pending",
		CreatedAt:       s.now(),
		UpdatedAt:       s.now(),
	}
	if err := s.repo.CreateAppointment(ctx, appointment); err != nil {
		return nil, err
	}

	s.publish(ctx, ports.RouteReminderSchedule, map[string]any{
		"type":           "appointment_reminder",
		"appointment_id": appointment.ID,
		"user_id":        userID,
		"scheduled_at":   appointment.AppointmentDate.Add(-24 * time.Hour),
		"title":          "Appointment Reminder",
	})
	return appointment, nil
}

func (s *MedicalService) ListAppointments(ctx context.Context, userID string, f domain.AppointmentFilter, p domain.Page) ([]domain.Appointment, domain.PageMeta, error) {
	appointments, total, err := s.repo.ListAppointments(ctx, userID, f, p)
	if err != nil {
		return nil, domain.PageMeta{}, err
	}
	return appointments, p.Meta(total), nil
}

type AppointmentUpdateInput struct {
	AppointmentDate *time.Time `json:"appointment_date"`
	Type            string     `json:"type"`
	Reason          string     `json:"reason"`
	Symptoms        string     `json:"symptoms"`
	Notes           string     `json:"notes"`
}

func (s *MedicalService) UpdateAppointment(ctx context.Context, userID, appointmentID string, in AppointmentUpdateInput) (*domain.Appointment, error) {
	appointment, err := s.repo.FindAppointment(ctx, appointmentID, userID)
	if err != nil {
		return nil, err
	}
	if appointment.Terminal() {
		return nil, domain.Conflict("cannot update completed or cancelled appointment")
	}

	if in.AppointmentDate != nil {
		appointment.AppointmentDate = *in.AppointmentDate
	}
	if in.Type != "" {
		appointment.Type = in.Type
	}
	if in.Reason != "" {
		appointment.Reason = in.Reason
	}
	if in.Symptoms != "" {
		appointment.Symptoms = in.Symptoms
	}
	if in.Notes != "" {
		appointment.Notes = in.Notes
	}
	appointment.UpdatedAt = s.now()

	if err := s.repo.UpdateAppointment(ctx, appointment); err != nil {
		return nil, err
	}
	return appointment, nil
}

func (s *MedicalService) CancelAppointment(ctx context.Context, userID, appointmentID string) error {
	appointment, err := s.repo.FindAppointment(ctx, appointmentID, userID)
	if err != nil {
		return err
	}
	if appointment.Status == domain.AppointmentCancelled {
		return domain.Conflict("appointment is already cancelled")
	}

	appointment.Status = domain.AppointmentCancelled
	appointment.UpdatedAt = s.now()
	if err := s.repo.UpdateAppointment(ctx, appointment); err != nil {
		return err
	}

	s.publish(ctx, ports.RouteNotifyAppointment, map[string]any{
		"type":           "appointment_cancelled",
		"user_id":        userID,
		"appointment_id": appointment.ID,
		"doctor_id":      appointment.DoctorID,
		"timestamp":      s.now(),
	})
	return nil
}

// Lab services

func (s *MedicalService) ListLabTests(ctx context.Context, f domain.LabTestFilter, p domain.Page) ([]domain.LabTest, domain.PageMeta, error) {
	tests, total, err := s.repo.ListLabTests(ctx, f, p)
	if err != nil {
		return nil, domain.PageMeta{}, err
	}
	return tests, p.Meta(total), nil
}

type LabBookingInput struct {
	TestIDs        []string  `json:"test_ids"`
	CollectionType string    `json:"collection_type"`
	ScheduledDate  time.Time `json:"scheduled_date"`
	Address        string    `json:"address"`
}

func (s *MedicalService) BookLabTests(ctx context.Context, userID string, in LabBookingInput) (*domain.LabBooking, error) {
	if len(in.TestIDs) == 0 {
		return nil, domain.Validation("at least one test is required")
	}

	tests, err := s.repo.FindLabTests(ctx, in.TestIDs)
	if err != nil {
		return nil, err
	}
	if len(tests) != len(in.TestIDs) {
		return nil, domain.Validation("some tests are not available")
	}

	var total float64
	for _, t := range tests {
		total += t.Price
	}

	booking := &domain.LabBooking{
		ID:             uuid.NewString(),
		UserID:         userID,
		TestIDs:        in.TestIDs,
		CollectionType: in.CollectionType,
		ScheduledDate:  in.ScheduledDate,
		Address:        in.Address,
		Status:         "booked",
		TotalAmount:    total,
		CreatedAt:      s.now(),
		UpdatedAt:      s.now(),
	}
	if err := s.repo.CreateLabBooking(ctx, booking); err != nil {
		return nil, err
	}

	s.publish(ctx, ports.RouteReminderSchedule, map[string]any{
		"type":         "lab_reminder",
		"booking_id":   booking.ID,
		"user_id":      userID,
		"scheduled_at": booking.ScheduledDate.Add(-2 * time.Hour),
		"title":        "Lab Test Reminder",
	})
	return booking, nil
}

func (s *MedicalService) ListLabBookings(ctx context.Context, userID string, f domain.StatusFilter, p domain.Page) ([]domain.LabBooking, domain.PageMeta, error) {
	bookings, total, err := s.repo.ListLabBookings(ctx, userID, f, p)
	if err != nil {
		return nil, domain.PageMeta{}, err
	}
	return bookings, p.Meta(total), nil
}

// Pharmacies & prescriptions

func (s *MedicalService) ListPharmacies(ctx context.Context, deliveryOnly *bool, p domain.Page) ([]domain.Pharmacy, domain.PageMeta, error) {
	pharmacies, total, err := s.repo.ListPharmacies(ctx, deliveryOnly, p)
	if err != nil {
		return nil, domain.PageMeta{}, err
	}
	return pharmacies, p.Meta(total), nil
}

type PrescriptionOrderInput struct {
	PharmacyID      string `json:"pharmacy_id"`
	PrescriptionURL string `json:"prescription_url"`
	DeliveryType    string `json:"delivery_type"`
	DeliveryAddress string `json:"delivery_address"`
}

func (s *MedicalService) OrderPrescription(ctx context.Context, userID string, in PrescriptionOrderInput) (*domain.PrescriptionOrder, error) {
	pharmacy, err := s.repo.FindPharmacy(ctx, in.PharmacyID)
	if err != nil {
		return nil, err
	}
	if !pharmacy.IsActive {
		return nil, domain.NotFound("pharmacy not found")
	}

	order := &domain.PrescriptionOrder{
		ID:              uuid.NewString(),
		UserID:          userID,
		PharmacyID:      pharmacy.ID,
		PrescriptionURL: in.PrescriptionURL,
		DeliveryType:    in.DeliveryType,
		DeliveryAddress: in.DeliveryAddress,
		Status:          "placed",
		CreatedAt:       s.now(),
		UpdatedAt:       s.now(),
	}
	if err := s.repo.CreatePrescriptionOrder(ctx, order); err != nil {
		return nil, err
	}

	s.publish(ctx, ports.RouteNotifyPharmacy, map[string]any{
		"type":        "new_prescription_order",
		"order_id":    order.ID,
		"pharmacy_id": order.PharmacyID,
		"user_id":     userID,
		"timestamp":   order.CreatedAt,
	})
	return order, nil
}

func (s *MedicalService) ListPrescriptionOrders(ctx context.Context, userID string, f domain.StatusFilter, p domain.Page) ([]domain.PrescriptionOrder, domain.PageMeta, error) {
	orders, total, err := s.repo.ListPrescriptionOrders(ctx, userID, f, p)
	if err != nil {
		return nil, domain.PageMeta{}, err
	}
	return orders, p.Meta(total), nil
}

// Patient transfers

type TransferInput struct {
	TransferType  string    `json:"transfer_type"`
	Urgency       string    `json:"urgency"`
	FromLocation  string    `json:"from_location"`
	ToLocation    string    `json:"to_location"`
	ScheduledDate time.Time `json:"scheduled_date"`
}

func (s *MedicalService) RequestTransfer(ctx context.Context, userID string, in TransferInput) (*domain.PatientTransfer, error) {
	transfer := &domain.PatientTransfer{
		ID:            uuid.NewString(),
		UserID:        userID,
		TransferType:  in.TransferType,
		Urgency:       in.Urgency,
		FromLocation:  in.FromLocation,
		ToLocation:    in.ToLocation,
		ScheduledDate: in.ScheduledDate,
		Status:        "requested",
		CreatedAt:     s.now(),
		UpdatedAt:     s.now(),
	}
	if err := s.repo.CreateTransfer(ctx, transfer); err != nil {
		return nil, err
	}

	s.publish(ctx, ports.RouteNotifyTransfer, map[string]any{
		"type":        "transfer_request",
		"transfer_id": transfer.ID,
		"urgency":     transfer.Urgency,
		"user_id":     userID,
		"timestamp":   transfer.CreatedAt,
	})
	return transfer, nil
}

func (s *MedicalService) ListTransfers(ctx context.Context, userID string, f domain.StatusFilter, p domain.Page) ([]domain.PatientTransfer, domain.PageMeta, error) {
	transfers, total, err := s.repo.ListTransfers(ctx, userID, f, p)
	if err != nil {
		return nil, domain.PageMeta{}, err
	}
	return transfers, p.Meta(total), nil
}

// Vaccinations

func (s *MedicalService) ListVaccinations(ctx context.Context, f domain.VaccinationFilter, p domain.Page) ([]domain.Vaccination, domain.PageMeta, error) {
	vaccinations, total, err := s.repo.ListVaccinations(ctx, f, p)
	if err != nil {
		return nil, domain.PageMeta{}, err
	}
	return vaccinations, p.Meta(total), nil
}

type VaccinationBookingInput struct {
	VaccinationID string    `json:"vaccination_id"`
	PatientName   string    `json:"patient_name"`
	DoseNumber    int       `json:"dose_number"`
	ScheduledDate time.Time `json:"scheduled_date"`
}

func (s *MedicalService) BookVaccination(ctx context.Context, userID string, in VaccinationBookingInput) (*domain.VaccinationBooking, error) {
	vaccination, err := s.repo.FindVaccination(ctx, in.VaccinationID)
	if err != nil {
		return nil, err
	}
	if !vaccination.IsActive {
		return nil, domain.NotFound("vaccination not found")
	}

	doseNumber := in.DoseNumber
	if doseNumber < 1 {
		doseNumber = 1
	}

	booking := &domain.VaccinationBooking{
		ID:            uuid.NewString(),
		UserID:        userID,
		VaccinationID: vaccination.ID,
		PatientName:   in.PatientName,
		DoseNumber:    doseNumber,
		ScheduledDate: in.ScheduledDate,
		Status:        "scheduled",
		CreatedAt:     s.now(),
		UpdatedAt:     s.now(),
	}
	if err := s.repo.CreateVaccinationBooking(ctx, booking); err != nil {
		return nil, err
	}

	s.publish(ctx, ports.RouteReminderSchedule, map[string]any{
		"type":         "vaccination_reminder",
		"booking_id":   booking.ID,
		"user_id":      userID,
		"scheduled_at": booking.ScheduledDate.Add(-24 * time.Hour),
		"title":        "Vaccination Reminder",
	})
	return booking, nil
}

func (s *MedicalService) ListVaccinationBookings(ctx context.Context, userID string, f domain.StatusFilter, p domain.Page) ([]domain.VaccinationBooking, domain.PageMeta, error) {
	bookings, total, err := s.repo.ListVaccinationBookings(ctx, userID, f, p)
	if err != nil {
		return nil, domain.PageMeta{}, err
	}
	return bookings, p.Meta(total), nil
}

func (s *MedicalService) publish(ctx context.Context, key string, event any) {
	if err := s.publisher.Publish(ctx, key, event); err != nil {
		log.Printf("medical: publish %s failed: %v", key, err)
	}
}
