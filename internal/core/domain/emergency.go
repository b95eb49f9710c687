package domain

import "time"

type EmergencyContact struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	Name         string    `json:"name"`
	Relationship string    `json:"relationship"`
	Phone        string    `json:"phone"`
	Email        string    `json:"email,omitempty"`
	IsPrimary    bool      `json:"is_primary"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type SOSStatus string

const (
	SOSActive    SOSStatus = "active"
	SOSResolved  SOSStatus = "resolved"
	SOSCancelled SOSStatus = "cancelled"
)

type SOSPriority string

const (
	SOSPriorityLow      SOSPriority = "low"
	SOSPriorityMedium   SOSPriority = "medium"
	SOSPriorityHigh     SOSPriority = "high"
	SOSPriorityCritical SOSPriority = "critical"
)

type SOSAlert struct {
	ID         string      `json:"id"`
	UserID     string      `json:"user_id"`
	Latitude   *float64    `json:"latitude,omitempty"`
	Longitude  *float64    `json:"longitude,omitempty"`
	Address    string      `json:"address,omitempty"`
	Message    string      `json:"message,omitempty"`
	Status     SOSStatus   `json:"status"`
	Priority   SOSPriority `json:"priority"`
	ResolvedAt *time.Time  `json:"resolved_at,omitempty"`
	ResolvedBy string      `json:"resolved_by,omitempty"`
	Notes      string      `json:"notes,omitempty"`
	CreatedAt  time.Time   `json:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at"`
}

// Terminal reports whether the alert can no longer be mutated.
func (a *SOSAlert) Terminal() bool {
	return a.Status == SOSResolved || a.Status == SOSCancelled
}

type ReminderType string

const (
	ReminderMedication  ReminderType = "medication"
	ReminderAppointment ReminderType = "appointment"
	ReminderCustom      ReminderType = "custom"
)

type ReminderStatus string

const (
	ReminderActive    ReminderStatus = "active"
	ReminderCompleted ReminderStatus = "completed"
	ReminderCancelled ReminderStatus = "cancelled"
	ReminderMissed    ReminderStatus = "missed"
)

type Reminder struct {
	ID                  string         `json:"id"`
	UserID              string         `json:"user_id"`
	Type                ReminderType   `json:"type"`
	Title               string         `json:"title"`
	Description         string         `json:"description,omitempty"`
	ScheduledAt         time.Time      `json:"scheduled_at"`
	Frequency           string         `json:"frequency"`
	IsRecurring         bool           `json:"is_recurring"`
	NotificationMethods []string       `json:"notification_methods"`
	Status              ReminderStatus `json:"status"`
	CompletedAt         *time.Time     `json:"completed_at,omitempty"`
	SnoozeUntil         *time.Time     `json:"snooze_until,omitempty"`
	CreatedAt           time.Time      `json:"created_at"`
	UpdatedAt           time.Time      `json:"updated_at"`
}

// SOSAlertFilter and ReminderFilter narrow owner-scoped listings.
type SOSAlertFilter struct {
	Status SOSStatus
}

type ReminderFilter struct {
	Type   ReminderType
	Status ReminderStatus
}
