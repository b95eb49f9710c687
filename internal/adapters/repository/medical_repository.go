package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"

	"github.com/arogyahq/care-platform/internal/core/domain"
	"github.com/arogyahq/care-platform/internal/core/ports"
)

type MedicalRepository struct {
	db *sql.DB
}

var _ ports.MedicalRepository = (*MedicalRepository)(nil)

func NewMedicalRepository(db *sql.DB) *MedicalRepository {
	return &MedicalRepository{db: db}
}

// Doctors

const doctorColumns = `id, name, specialization, qualification, experience_years, phone,
	email, clinic_name, consultation_fee, rating, online_consultation, is_active, created_at`

func (r *MedicalRepository) ListDoctors(ctx context.Context, f domain.DoctorFilter, p domain.Page) ([]domain.Doctor, int, error) {
	where := []string{"is_active = TRUE"}
	args := []any{}
	if f.Specialization != "" {
		args = append(args, f.Specialization)
		where = append(where, fmt.Sprintf("specialization = $%d", len(args)))
	}
	if f.OnlineConsultation != nil {
		args = append(args, *f.OnlineConsultation)
		where = append(where, fmt.Sprintf("online_consultation = $%d", len(args)))
	}
	cond := strings.Join(where, " AND ")

	var total int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM doctors WHERE `+cond, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, p.Limit, p.Offset())
	rows, err := r.db.QueryContext(ctx,
		fmt.Sprintf(`SELECT %s FROM doctors WHERE %s ORDER BY rating DESC, name ASC LIMIT $%d OFFSET $%d`,
			doctorColumns, cond, len(args)-1, len(args)),
		args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	doctors := []domain.Doctor{}
	for rows.Next() {
		var d domain.Doctor
		if err := rows.Scan(&d.ID, &d.Name, &d.Specialization, &d.Qualification, &d.ExperienceYears,
			&d.Phone, &d.Email, &d.ClinicName, &d.ConsultationFee, &d.Rating,
			&d.OnlineConsultation, &d.IsActive, &d.CreatedAt); err != nil {
			return nil, 0, err
		}
		doctors = append(doctors, d)
	}
	return doctors, total, rows.Err()
}

func (r *MedicalRepository) FindDoctor(ctx context.Context, id string) (*domain.Doctor, error) {
	var d domain.Doctor
	err := r.db.QueryRowContext(ctx,
		`SELECT `+doctorColumns+` FROM doctors WHERE id = $1`, id,
	).Scan(&d.ID, &d.Name, &d.Specialization, &d.Qualification, &d.ExperienceYears,
		&d.Phone, &d.Email, &d.ClinicName, &d.ConsultationFee, &d.Rating,
		&d.OnlineConsultation, &d.IsActive, &d.CreatedAt)
	if err != nil {
		return nil, asNotFound(err, "doctor not found")
	}
	return &d, nil
}

// Appointments

const appointmentColumns = `id, user_id, doctor_id, appointment_date, type, status, reason,
	symptoms, notes, fee, payment_status, created_at, updated_at`

func (r *MedicalRepository) CreateAppointment(ctx context.Context, a *domain.Appointment) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO appointments (`+appointmentColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		a.ID, a.UserID, a.DoctorID, a.AppointmentDate, a.Type, a.Status, a.Reason,
		a.Symptoms, a.Notes, a.Fee, a.PaymentStatus, a.CreatedAt, a.UpdatedAt)
	return err
}

func (r *MedicalRepository) SlotTaken(ctx context.Context, doctorID string, at time.Time) (bool, error) {
	var taken bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (
		   SELECT 1 FROM appointments
		   WHERE doctor_id = $1 AND appointment_date = $2
		     AND status NOT IN ('cancelled', 'no-show')
		 )`,
		doctorID, at).Scan(&taken)
	return taken, err
}

func (r *MedicalRepository) ListAppointments(ctx context.Context, userID string, f domain.AppointmentFilter, p domain.Page) ([]domain.Appointment, int, error) {
	where := []string{"user_id = $1"}
	args := []any{userID}
	if f.Status != "" {
		args = append(args, f.Status)
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}
	if f.Type != "" {
		args = append(args, f.Type)
		where = append(where, fmt.Sprintf("type = $%d", len(args)))
	}
	cond := strings.Join(where, " AND ")

	var total int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM appointments WHERE `+cond, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, p.Limit, p.Offset())
	rows, err := r.db.QueryContext(ctx,
		fmt.Sprintf(`SELECT %s FROM appointments WHERE %s ORDER BY appointment_date DESC LIMIT $%d OFFSET $%d`,
			appointmentColumns, cond, len(args)-1, len(args)),
		args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	appointments := []domain.Appointment{}
	for rows.Next() {
		var a domain.Appointment
		if err := rows.Scan(&a.ID, &a.UserID, &a.DoctorID, &a.AppointmentDate, &a.Type, &a.Status,
			&a.Reason, &a.Symptoms, &a.Notes, &a.Fee, &a.PaymentStatus,
			&a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, 0, err
		}
		appointments = append(appointments, a)
	}
	return appointments, total, rows.Err()
}

func (r *MedicalRepository) FindAppointment(ctx context.Context, id, userID string) (*domain.Appointment, error) {
	var a domain.Appointment
	err := r.db.QueryRowContext(ctx,
		`SELECT `+appointmentColumns+` FROM appointments WHERE id = $1 AND user_id = $2`,
		id, userID,
	).Scan(&a.ID, &a.UserID, &a.DoctorID, &a.AppointmentDate, &a.Type, &a.Status,
		&a.Reason, &a.Symptoms, &a.Notes, &a.Fee, &a.PaymentStatus,
		&a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, asNotFound(err, "appointment not found")
	}
	return &a, nil
}

func (r *MedicalRepository) UpdateAppointment(ctx context.Context, a *domain.Appointment) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE appointments SET appointment_date = $3, type = $4, status = $5, reason = $6,
		 symptoms = $7, notes = $8, payment_status = $9, updated_at = $10
		 WHERE id = $1 AND user_id = $2`,
		a.ID, a.UserID, a.AppointmentDate, a.Type, a.Status, a.Reason,
		a.Symptoms, a.Notes, a.PaymentStatus, a.UpdatedAt)
	if err != nil {
		return err
	}
	return requireRow(res, "appointment not found")
}

// Lab tests and bookings

const labTestColumns = `id, name, category, description, price, is_active, created_at`

func (r *MedicalRepository) ListLabTests(ctx context.Context, f domain.LabTestFilter, p domain.Page) ([]domain.LabTest, int, error) {
	where := []string{"is_active = TRUE"}
	args := []any{}
	if f.Category != "" {
		args = append(args, f.Category)
		where = append(where, fmt.Sprintf("category = $%d", len(args)))
	}
	if f.Search != "" {
		args = append(args, "%"+f.Search+"%")
		where = append(where, fmt.Sprintf("name ILIKE $%d", len(args)))
	}
	cond := strings.Join(where, " AND ")

	var total int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM lab_tests WHERE `+cond, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, p.Limit, p.Offset())
	rows, err := r.db.QueryContext(ctx,
		fmt.Sprintf(`SELECT %s FROM lab_tests WHERE %s ORDER BY name ASC LIMIT $%d OFFSET $%d`,
			labTestColumns, cond, len(args)-1, len(args)),
		args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	tests := []domain.LabTest{}
	for rows.Next() {
		var t domain.LabTest
		if err := rows.Scan(&t.ID, &t.Name, &t.Category, &t.Description, &t.Price,
			&t.IsActive, &t.CreatedAt); err != nil {
			return nil, 0, err
		}
		tests = append(tests, t)
	}
	return tests, total, rows.Err()
}

func (r *MedicalRepository) FindLabTests(ctx context.Context, ids []string) ([]domain.LabTest, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+labTestColumns+` FROM lab_tests WHERE id = ANY($1) AND is_active = TRUE`,
		pq.Array(ids))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tests := []domain.LabTest{}
	for rows.Next() {
		var t domain.LabTest
		if err := rows.Scan(&t.ID, &t.Name, &t.Category, &t.Description, &t.Price,
			&t.IsActive, &t.CreatedAt); err != nil {
			return nil, err
		}
		tests = append(tests, t)
	}
	return tests, rows.Err()
}

func (r *MedicalRepository) CreateLabBooking(ctx context.Context, b *domain.LabBooking) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO lab_bookings (id, user_id, test_ids, collection_type, scheduled_date,
		   address, status, total_amount, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		b.ID, b.UserID, pq.Array(b.TestIDs), b.CollectionType, b.ScheduledDate,
		b.Address, b.Status, b.TotalAmount, b.CreatedAt, b.UpdatedAt)
	return err
}

func (r *MedicalRepository) ListLabBookings(ctx context.Context, userID string, f domain.StatusFilter, p domain.Page) ([]domain.LabBooking, int, error) {
	where := []string{"user_id = $1"}
	args := []any{userID}
	if f.Status != "" {
		args = append(args, f.Status)
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}
	cond := strings.Join(where, " AND ")

	var total int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM lab_bookings WHERE `+cond, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, p.Limit, p.Offset())
	rows, err := r.db.QueryContext(ctx,
		fmt.Sprintf(`SELECT id, user_id, test_ids, collection_type, scheduled_date, address,
		   status, total_amount, created_at, updated_at
		 FROM lab_bookings WHERE %s ORDER BY scheduled_date DESC LIMIT $%d OFFSET $%d`,
			cond, len(args)-1, len(args)),
		args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	bookings := []domain.LabBooking{}
	for rows.Next() {
		var b domain.LabBooking
		if err := rows.Scan(&b.ID, &b.UserID, pq.Array(&b.TestIDs), &b.CollectionType,
			&b.ScheduledDate, &b.Address, &b.Status, &b.TotalAmount,
			&b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, 0, err
		}
		bookings = append(bookings, b)
	}
	return bookings, total, rows.Err()
}

// Pharmacies and prescriptions

func (r *MedicalRepository) ListPharmacies(ctx context.Context, deliveryOnly *bool, p domain.Page) ([]domain.Pharmacy, int, error) {
	where := []string{"is_active = TRUE"}
	args := []any{}
	if deliveryOnly != nil && *deliveryOnly {
		where = append(where, "delivery_available = TRUE")
	}
	cond := strings.Join(where, " AND ")

	var total int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM pharmacies WHERE `+cond, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, p.Limit, p.Offset())
	rows, err := r.db.QueryContext(ctx,
		fmt.Sprintf(`SELECT id, name, address, phone, delivery_available, is_active, created_at
		 FROM pharmacies WHERE %s ORDER BY name ASC LIMIT $%d OFFSET $%d`,
			cond, len(args)-1, len(args)),
		args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	pharmacies := []domain.Pharmacy{}
	for rows.Next() {
		var ph domain.Pharmacy
		if err := rows.Scan(&ph.ID, &ph.Name, &ph.Address, &ph.Phone, &ph.DeliveryAvailable,
			&ph.IsActive, &ph.CreatedAt); err != nil {
			return nil, 0, err
		}
		pharmacies = append(pharmacies, ph)
	}
	return pharmacies, total, rows.Err()
}

func (r *MedicalRepository) FindPharmacy(ctx context.Context, id string) (*domain.Pharmacy, error) {
	var ph domain.Pharmacy
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, address, phone, delivery_available, is_active, created_at
		 FROM pharmacies WHERE id = $1`, id,
	).Scan(&ph.ID, &ph.Name, &ph.Address, &ph.Phone, &ph.DeliveryAvailable,
		&ph.IsActive, &ph.CreatedAt)
	if err != nil {
		return nil, asNotFound(err, "pharmacy not found")
	}
	return &ph, nil
}

func (r *MedicalRepository) CreatePrescriptionOrder(ctx context.Context, o *domain.PrescriptionOrder) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO prescription_orders (id, user_id, pharmacy_id, prescription_url,
		   delivery_type, delivery_address, status, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		o.ID, o.UserID, o.PharmacyID, o.PrescriptionURL, o.DeliveryType,
		o.DeliveryAddress, o.Status, o.CreatedAt, o.UpdatedAt)
	return err
}

func (r *MedicalRepository) ListPrescriptionOrders(ctx context.Context, userID string, f domain.StatusFilter, p domain.Page) ([]domain.PrescriptionOrder, int, error) {
	where := []string{"user_id = $1"}
	args := []any{userID}
	if f.Status != "" {
		args = append(args, f.Status)
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}
	cond := strings.Join(where, " AND ")

	var total int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM prescription_orders WHERE `+cond, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, p.Limit, p.Offset())
	rows, err := r.db.QueryContext(ctx,
		fmt.Sprintf(`SELECT id, user_id, pharmacy_id, prescription_url, delivery_type,
		   delivery_address, status, created_at, updated_at
		 FROM prescription_orders WHERE %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
			cond, len(args)-1, len(args)),
		args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	orders := []domain.PrescriptionOrder{}
	for rows.Next() {
		var o domain.PrescriptionOrder
		if err := rows.Scan(&o.ID, &o.UserID, &o.PharmacyID, &o.PrescriptionURL, &o.DeliveryType,
			&o.DeliveryAddress, &o.Status, &o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, 0, err
		}
		orders = append(orders, o)
	}
	return orders, total, rows.Err()
}

// Transfers

func (r *MedicalRepository) CreateTransfer(ctx context.Context, t *domain.PatientTransfer) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO patient_transfers (id, user_id, transfer_type, urgency, from_location,
		   to_location, scheduled_date, status, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		t.ID, t.UserID, t.TransferType, t.Urgency, t.FromLocation,
		t.ToLocation, t.ScheduledDate, t.Status, t.CreatedAt, t.UpdatedAt)
	return err
}

func (r *MedicalRepository) ListTransfers(ctx context.Context, userID string, f domain.StatusFilter, p domain.Page) ([]domain.PatientTransfer, int, error) {
	where := []string{"user_id = $1"}
	args := []any{userID}
	if f.Status != "" {
		args = append(args, f.Status)
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}
	cond := strings.Join(where, " AND ")

	var total int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM patient_transfers WHERE `+cond, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, p.Limit, p.Offset())
	rows, err := r.db.QueryContext(ctx,
		fmt.Sprintf(`SELECT id, user_id, transfer_type, urgency, from_location, to_location,
		   scheduled_date, status, created_at, updated_at
		 FROM patient_transfers WHERE %s ORDER BY scheduled_date DESC LIMIT $%d OFFSET $%d`,
			cond, len(args)-1, len(args)),
		args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	transfers := []domain.PatientTransfer{}
	for rows.Next() {
		var t domain.PatientTransfer
		if err := rows.Scan(&t.ID, &t.UserID, &t.TransferType, &t.Urgency, &t.FromLocation,
			&t.ToLocation, &t.ScheduledDate, &t.Status, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, 0, err
		}
		transfers = append(transfers, t)
	}
	return transfers, total, rows.Err()
}

// Vaccinations

const vaccinationColumns = `id, name, description, age_group, doses, price, is_active, created_at`

func (r *MedicalRepository) ListVaccinations(ctx context.Context, f domain.VaccinationFilter, p domain.Page) ([]domain.Vaccination, int, error) {
	where := []string{"is_active = TRUE"}
	args := []any{}
	if f.AgeGroup != "" {
		args = append(args, f.AgeGroup)
		where = append(where, fmt.Sprintf("age_group = $%d", len(args)))
	}
	cond := strings.Join(where, " AND ")

	var total int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM vaccinations WHERE `+cond, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, p.Limit, p.Offset())
	rows, err := r.db.QueryContext(ctx,
		fmt.Sprintf(`SELECT %s FROM vaccinations WHERE %s ORDER BY name ASC LIMIT $%d OFFSET $%d`,
			vaccinationColumns, cond, len(args)-1, len(args)),
		args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	vaccinations := []domain.Vaccination{}
	for rows.Next() {
		var v domain.Vaccination
		if err := rows.Scan(&v.ID, &v.Name, &v.Description, &v.AgeGroup, &v.Doses, &v.Price,
			&v.IsActive, &v.CreatedAt); err != nil {
			return nil, 0, err
		}
		vaccinations = append(vaccinations, v)
	}
	return vaccinations, total, rows.Err()
}

func (r *MedicalRepository) FindVaccination(ctx context.Context, id string) (*domain.Vaccination, error) {
	var v domain.Vaccination
	err := r.db.QueryRowContext(ctx,
		`SELECT `+vaccinationColumns+` FROM vaccinations WHERE id = $1`, id,
	).Scan(&v.ID, &v.Name, &v.Description, &v.AgeGroup, &v.Doses, &v.Price,
		&v.IsActive, &v.CreatedAt)
	if err != nil {
		return nil, asNotFound(err, "vaccination not found")
	}
	return &v, nil
}

func (r *MedicalRepository) CreateVaccinationBooking(ctx context.Context, b *domain.VaccinationBooking) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO vaccination_bookings (id, user_id, vaccination_id, patient_name,
		   dose_number, scheduled_date, status, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		b.ID, b.UserID, b.VaccinationID, b.PatientName, b.DoseNumber,
		b.ScheduledDate, b.Status, b.CreatedAt, b.UpdatedAt)
	return err
}

func (r *MedicalRepository) ListVaccinationBookings(ctx context.Context, userID string, f domain.StatusFilter, p domain.Page) ([]domain.VaccinationBooking, int, error) {
	where := []string{"user_id = $1"}
	args := []any{userID}
	if f.Status != "" {
		args = append(args, f.Status)
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}
	cond := strings.Join(where, " AND ")

	var total int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM vaccination_bookings WHERE `+cond, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, p.Limit, p.Offset())
	rows, err := r.db.QueryContext(ctx,
		fmt.Sprintf(`SELECT id, user_id, vaccination_id, patient_name, dose_number,
		   scheduled_date, status, created_at, updated_at
		 FROM vaccination_bookings WHERE %s ORDER BY scheduled_date DESC LIMIT $%d OFFSET $%d`,
			cond, len(args)-1, len(args)),
		args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	bookings := []domain.VaccinationBooking{}
	for rows.Next() {
		var b domain.VaccinationBooking
		if err := rows.Scan(&b.ID, &b.UserID, &b.VaccinationID, &b.PatientName, &b.DoseNumber,
			&b.ScheduledDate, &b.Status, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, 0, err
		}
		bookings = append(bookings, b)
	}
	return bookings, total, rows.Err()
}
