package domain

import "time"

type HomeService struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Category    string    `json:"category"` // house-help, companionship, nursing, physiotherapy, other
	Description string    `json:"description,omitempty"`
	HourlyRate  float64   `json:"hourly_rate"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
}

type ServiceProvider struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Phone      string    `json:"phone,omitempty"`
	Email      string    `json:"email,omitempty"`
	Location   string    `json:"location,omitempty"`
	Services   []string  `json:"services"` // home service ids the provider offers
	Rating     float64   `json:"rating"`
	IsVerified bool      `json:"is_verified"`
	IsActive   bool      `json:"is_active"`
	CreatedAt  time.Time `json:"created_at"`
}

// Offers reports whether the provider offers the given home service.
func (p *ServiceProvider) Offers(serviceID string) bool {
	for _, id := range p.Services {
		if id == serviceID {
			return true
		}
	}
	return false
}

type HomeBookingStatus string

const (
	HomeBookingRequested  HomeBookingStatus = "requested"
	HomeBookingConfirmed  HomeBookingStatus = "confirmed"
	HomeBookingAssigned   HomeBookingStatus = "assigned"
	HomeBookingInProgress HomeBookingStatus = "in-progress"
	HomeBookingCompleted  HomeBookingStatus = "completed"
	HomeBookingCancelled  HomeBookingStatus = "cancelled"
)

type HomeServiceBooking struct {
	ID            string            `json:"id"`
	UserID        string            `json:"user_id"`
	ServiceID     string            `json:"service_id"`
	ProviderID    string            `json:"provider_id,omitempty"`
	ScheduledDate time.Time         `json:"scheduled_date"`
	DurationHours float64           `json:"duration_hours"`
	Address       string            `json:"address"`
	Status        HomeBookingStatus `json:"status"`
	TotalAmount   float64           `json:"total_amount"`
	Rating        *int              `json:"rating,omitempty"`
	Feedback      string            `json:"feedback,omitempty"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
}

func (b *HomeServiceBooking) Terminal() bool {
	return b.Status == HomeBookingCompleted || b.Status == HomeBookingCancelled
}

type AssistanceRequest struct {
	ID          string     `json:"id"`
	UserID      string     `json:"user_id"`
	Type        string     `json:"type"`     // medical, grocery, medication, transportation, other
	Priority    string     `json:"priority"` // low, medium, high
	Description string     `json:"description,omitempty"`
	Status      string     `json:"status"` // open, assigned, in-progress, completed, cancelled
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

type ProviderFilter struct {
	Location  string
	MinRating float64
	ServiceID string
}

type AssistanceFilter struct {
	Status string
	Type   string
}
