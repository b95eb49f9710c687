package ports

import (
	"context"
	"time"

	"github.com/arogyahq/care-platform/internal/core/domain"
)

// Repositories translate "zero rows for (id, owner)" into a domain
// not-found error so a missing row and a row owned by someone else are
// indistinguishable to callers.

type UserRepository interface {
	Create(ctx context.Context, u *domain.User) error
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	Update(ctx context.Context, u *domain.User) error
}

type EmergencyRepository interface {
	CreateContact(ctx context.Context, c *domain.EmergencyContact) error
	ListContacts(ctx context.Context, userID string, p domain.Page) ([]domain.EmergencyContact, int, error)
	ListActiveContacts(ctx context.Context, userID string) ([]domain.EmergencyContact, error)
	FindContact(ctx context.Context, id, userID string) (*domain.EmergencyContact, error)
	UpdateContact(ctx context.Context, c *domain.EmergencyContact) error
	// DemotePrimaryContacts clears the primary flag for every contact of
	// the user except the given one (pass "" to clear all).
	DemotePrimaryContacts(ctx context.Context, userID, exceptID string) error

	CreateAlert(ctx context.Context, a *domain.SOSAlert) error
	ListAlerts(ctx context.Context, userID string, f domain.SOSAlertFilter, p domain.Page) ([]domain.SOSAlert, int, error)
	FindAlert(ctx context.Context, id, userID string) (*domain.SOSAlert, error)
	UpdateAlert(ctx context.Context, a *domain.SOSAlert) error

	CreateReminder(ctx context.Context, r *domain.Reminder) error
	ListReminders(ctx context.Context, userID string, f domain.ReminderFilter, p domain.Page) ([]domain.Reminder, int, error)
	FindReminder(ctx context.Context, id, userID string) (*domain.Reminder, error)
	UpdateReminder(ctx context.Context, r *domain.Reminder) error
}

type MedicalRepository interface {
	ListDoctors(ctx context.Context, f domain.DoctorFilter, p domain.Page) ([]domain.Doctor, int, error)
	FindDoctor(ctx context.Context, id string) (*domain.Doctor, error)

	CreateAppointment(ctx context.Context, a *domain.Appointment) error
	// SlotTaken reports whether the doctor already has a non-cancelled,
	// non-no-show appointment at the exact date.
	SlotTaken(ctx context.Context, doctorID string, at time.Time) (bool, error)
	ListAppointments(ctx context.Context, userID string, f domain.AppointmentFilter, p domain.Page) ([]domain.Appointment, int, error)
	FindAppointment(ctx context.Context, id, userID string) (*domain.Appointment, error)
	UpdateAppointment(ctx context.Context, a *domain.Appointment) error

	ListLabTests(ctx context.Context, f domain.LabTestFilter, p domain.Page) ([]domain.LabTest, int, error)
	FindLabTests(ctx context.Context, ids []string) ([]domain.LabTest, error)
	CreateLabBooking(ctx context.Context, b *domain.LabBooking) error
	ListLabBookings(ctx context.Context, userID string, f domain.StatusFilter, p domain.Page) ([]domain.LabBooking, int, error)

	ListPharmacies(ctx context.Context, deliveryOnly *bool, p domain.Page) ([]domain.Pharmacy, int, error)
	FindPharmacy(ctx context.Context, id string) (*domain.Pharmacy, error)
	CreatePrescriptionOrder(ctx context.Context, o *domain.PrescriptionOrder) error
	ListPrescriptionOrders(ctx context.Context, userID string, f domain.StatusFilter, p domain.Page) ([]domain.PrescriptionOrder, int, error)

	CreateTransfer(ctx context.Context, t *domain.PatientTransfer) error
	ListTransfers(ctx context.Context, userID string, f domain.StatusFilter, p domain.Page) ([]domain.PatientTransfer, int, error)

	ListVaccinations(ctx context.Context, f domain.VaccinationFilter, p domain.Page) ([]domain.Vaccination, int, error)
	FindVaccination(ctx context.Context, id string) (*domain.Vaccination, error)
	CreateVaccinationBooking(ctx context.Context, b *domain.VaccinationBooking) error
	ListVaccinationBookings(ctx context.Context, userID string, f domain.StatusFilter, p domain.Page) ([]domain.VaccinationBooking, int, error)
}

type HomeServiceRepository interface {
	ListServices(ctx context.Context, category string, p domain.Page) ([]domain.HomeService, int, error)
	FindService(ctx context.Context, id string) (*domain.HomeService, error)

	ListProviders(ctx context.Context, f domain.ProviderFilter, p domain.Page) ([]domain.ServiceProvider, int, error)
	FindProvider(ctx context.Context, id string) (*domain.ServiceProvider, error)
	// BestProviderForService returns the highest-rated active verified
	// provider offering the service, or a not-found error.
	BestProviderForService(ctx context.Context, serviceID string) (*domain.ServiceProvider, error)
	SetProviderRating(ctx context.Context, providerID string, rating float64) error
	AverageProviderRating(ctx context.Context, providerID string) (float64, int, error)

	CreateBooking(ctx context.Context, b *domain.HomeServiceBooking) error
	ListBookings(ctx context.Context, userID string, f domain.StatusFilter, p domain.Page) ([]domain.HomeServiceBooking, int, error)
	FindBooking(ctx context.Context, id, userID string) (*domain.HomeServiceBooking, error)
	UpdateBooking(ctx context.Context, b *domain.HomeServiceBooking) error

	CreateAssistanceRequest(ctx context.Context, r *domain.AssistanceRequest) error
	ListAssistanceRequests(ctx context.Context, userID string, f domain.AssistanceFilter, p domain.Page) ([]domain.AssistanceRequest, int, error)
	FindAssistanceRequest(ctx context.Context, id, userID string) (*domain.AssistanceRequest, error)
	UpdateAssistanceRequest(ctx context.Context, r *domain.AssistanceRequest) error
}

type WellnessRepository interface {
	ListDietPlans(ctx context.Context, f domain.WellnessFilter, p domain.Page) ([]domain.DietPlan, int, error)
	FindDietPlan(ctx context.Context, id string) (*domain.DietPlan, error)
	ListExercisePrograms(ctx context.Context, f domain.WellnessFilter, p domain.Page) ([]domain.ExerciseProgram, int, error)
	FindExerciseProgram(ctx context.Context, id string) (*domain.ExerciseProgram, error)
	ListYogaSessions(ctx context.Context, f domain.WellnessFilter, p domain.Page) ([]domain.YogaSession, int, error)
	FindYogaSession(ctx context.Context, id string) (*domain.YogaSession, error)

	CreateSubscription(ctx context.Context, s *domain.WellnessSubscription) error
	FindActiveSubscriptionByType(ctx context.Context, userID string, t domain.SubscriptionType) (*domain.WellnessSubscription, error)
	ListSubscriptions(ctx context.Context, userID string, f domain.SubscriptionFilter, p domain.Page) ([]domain.WellnessSubscription, int, error)
	FindSubscription(ctx context.Context, id, userID string) (*domain.WellnessSubscription, error)
	UpdateSubscription(ctx context.Context, s *domain.WellnessSubscription) error
}

type FamilyRepository interface {
	CreateMember(ctx context.Context, m *domain.FamilyMember) error
	ListMembers(ctx context.Context, userID string, f domain.FamilyMemberFilter, p domain.Page) ([]domain.FamilyMember, int, error)
	FindMember(ctx context.Context, id, userID string) (*domain.FamilyMember, error)
	UpdateMember(ctx context.Context, m *domain.FamilyMember) error
	DeleteMember(ctx context.Context, id string) error
	MemberHasActivePermissions(ctx context.Context, memberID string) (bool, error)

	CreateHistory(ctx context.Context, h *domain.MedicalHistory) error
	// ListHistory returns records owned directly by the user or by any of
	// the user's family members.
	ListHistory(ctx context.Context, userID string, f domain.MedicalHistoryFilter, p domain.Page) ([]domain.MedicalHistory, int, error)
	// FindHistoryOwned resolves a record only when the user owns it
	// directly or through one of their family members.
	FindHistoryOwned(ctx context.Context, id, userID string) (*domain.MedicalHistory, error)
	UpdateHistory(ctx context.Context, h *domain.MedicalHistory) error
	DeleteHistory(ctx context.Context, id string) error
	// ListSharedHistory returns the granter's (or family member's) records
	// that are flagged shared and explicitly list the grantee.
	ListSharedHistory(ctx context.Context, granterUserID, granteeUserID, familyMemberID string, p domain.Page) ([]domain.MedicalHistory, int, error)

	CreatePermission(ctx context.Context, perm *domain.HealthPermission) error
	// FindActivePermission matches the (granter, grantee, familyMember)
	// triple exactly; an empty familyMemberID matches only unscoped rows.
	FindActivePermission(ctx context.Context, granterUserID, granteeUserID, familyMemberID string) (*domain.HealthPermission, error)
	ListPermissionsGranted(ctx context.Context, userID string, p domain.Page) ([]domain.HealthPermission, int, error)
	ListPermissionsReceived(ctx context.Context, userID string, p domain.Page) ([]domain.HealthPermission, int, error)
	FindPermission(ctx context.Context, id, granterUserID string) (*domain.HealthPermission, error)
	UpdatePermission(ctx context.Context, perm *domain.HealthPermission) error
	DeactivatePermission(ctx context.Context, id string) error
}

type SupportRepository interface {
	CreateDispute(ctx context.Context, d *domain.Dispute) error
	ListDisputes(ctx context.Context, userID string, f domain.DisputeFilter, p domain.Page) ([]domain.Dispute, int, error)
	FindDispute(ctx context.Context, id, userID string) (*domain.Dispute, error)
	UpdateDispute(ctx context.Context, d *domain.Dispute) error

	CreateTicket(ctx context.Context, t *domain.SupportTicket) error
	ListTickets(ctx context.Context, userID string, f domain.TicketFilter, p domain.Page) ([]domain.SupportTicket, int, error)
	FindTicket(ctx context.Context, id, userID string) (*domain.SupportTicket, error)
	UpdateTicket(ctx context.Context, t *domain.SupportTicket) error
	CreateMessage(ctx context.Context, m *domain.TicketMessage) error
	ListMessages(ctx context.Context, ticketID string, includeInternal bool) ([]domain.TicketMessage, error)

	ListFAQs(ctx context.Context, f domain.FAQFilter, p domain.Page) ([]domain.FAQ, int, error)
	FindFAQ(ctx context.Context, id string) (*domain.FAQ, error)
	IncrementFAQViews(ctx context.Context, id string) error
	IncrementFAQHelpful(ctx context.Context, id string) error
	FAQCategories(ctx context.Context) ([]string, error)

	CountTickets(ctx context.Context, userID string, openOnly bool) (int, error)
	CountDisputes(ctx context.Context, userID string, openOnly bool) (int, error)
}
