package domain

import "time"

type Doctor struct {
	ID                 string    `json:"id"`
	Name               string    `json:"name"`
	Specialization     string    `json:"specialization"`
	Qualification      string    `json:"qualification,omitempty"`
	ExperienceYears    int       `json:"experience_years,omitempty"`
	Phone              string    `json:"phone,omitempty"`
	Email              string    `json:"email,omitempty"`
	ClinicName         string    `json:"clinic_name,omitempty"`
	ConsultationFee    float64   `json:"consultation_fee"`
	Rating             float64   `json:"rating"`
	OnlineConsultation bool      `json:"online_consultation"`
	IsActive           bool      `json:"is_active"`
	CreatedAt          time.Time `json:"created_at"`
}

type AppointmentStatus string

const (
	AppointmentScheduled  AppointmentStatus = "scheduled"
	AppointmentConfirmed  AppointmentStatus = "confirmed"
	AppointmentInProgress AppointmentStatus = "in-progress"
	AppointmentCompleted  AppointmentStatus = "completed"
	AppointmentCancelled  AppointmentStatus = "cancelled"
	AppointmentNoShow     AppointmentStatus = "no-show"
)

type Appointment struct {
	ID              string            `json:"id"`
	UserID          string            `json:"user_id"`
	DoctorID        string            `json:"doctor_id"`
	AppointmentDate time.Time         `json:"appointment_date"`
	Type            string            `json:"type"` // in-person, online, phone
	Status          AppointmentStatus `json:"status"`
	Reason          string            `json:"reason,omitempty"`
	Symptoms        string            `json:"symptoms,omitempty"`
	Notes           string            `json:"notes,omitempty"`
	Fee             float64           `json:"fee"`
	PaymentStatus   string            `json:"payment_status"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
}

func (a *Appointment) Terminal() bool {
	return a.Status == AppointmentCompleted || a.Status == AppointmentCancelled
}

type LabTest struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Category    string    `json:"category,omitempty"`
	Description string    `json:"description,omitempty"`
	Price       float64   `json:"price"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
}

type LabBooking struct {
	ID             string    `json:"id"`
	UserID         string    `json:"user_id"`
	TestIDs        []string  `json:"test_ids"`
	CollectionType string    `json:"collection_type"` // home-collection, lab-visit
	ScheduledDate  time.Time `json:"scheduled_date"`
	Address        string    `json:"address,omitempty"`
	Status         string    `json:"status"`
	TotalAmount    float64   `json:"total_amount"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type Pharmacy struct {
	ID                string    `json:"id"`
	Name              string    `json:"name"`
	Address           string    `json:"address,omitempty"`
	Phone             string    `json:"phone,omitempty"`
	DeliveryAvailable bool      `json:"delivery_available"`
	IsActive          bool      `json:"is_active"`
	CreatedAt         time.Time `json:"created_at"`
}

type PrescriptionOrder struct {
	ID              string    `json:"id"`
	UserID          string    `json:"user_id"`
	PharmacyID      string    `json:"pharmacy_id"`
	PrescriptionURL string    `json:"prescription_url,omitempty"`
	DeliveryType    string    `json:"delivery_type"` // pickup, delivery
	DeliveryAddress string    `json:"delivery_address,omitempty"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

type PatientTransfer struct {
	ID            string    `json:"id"`
	UserID        string    `json:"user_id"`
	TransferType  string    `json:"transfer_type"` // ambulance, wheelchair, stretcher, regular
	Urgency       string    `json:"urgency"`       // emergency, urgent, routine
	FromLocation  string    `json:"from_location"`
	ToLocation    string    `json:"to_location"`
	ScheduledDate time.Time `json:"scheduled_date"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type Vaccination struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	AgeGroup    string    `json:"age_group,omitempty"`
	Doses       int       `json:"doses"`
	Price       float64   `json:"price"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
}

type VaccinationBooking struct {
	ID            string    `json:"id"`
	UserID        string    `json:"user_id"`
	VaccinationID string    `json:"vaccination_id"`
	PatientName   string    `json:"patient_name"`
	DoseNumber    int       `json:"dose_number"`
	ScheduledDate time.Time `json:"scheduled_date"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type DoctorFilter struct {
	Specialization     string
	OnlineConsultation *bool
}

type AppointmentFilter struct {
	Status AppointmentStatus
	Type   string
}

type LabTestFilter struct {
	Category string
	Search   string
}

type StatusFilter struct {
	Status string
}

type VaccinationFilter struct {
	AgeGroup string
}
