package services

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/arogyahq/care-platform/internal/core/domain"
	"github.com/arogyahq/care-platform/internal/core/ports"
)

type EmergencyService struct {
	repo      ports.EmergencyRepository
	publisher ports.EventPublisher
	now       func() time.Time
}

func NewEmergencyService(repo ports.EmergencyRepository, publisher ports.EventPublisher) *EmergencyService {
	return &EmergencyService{repo: repo, publisher: publisher, now: time.Now}
}

// Emergency contacts

type ContactInput struct {
	Name         string `json:"name"`
	Relationship string `json:"relationship"`
	Phone        string `json:"phone"`
	Email        string `json:"email"`
	IsPrimary    bool   `json:"is_primary"`
}

func (s *EmergencyService) CreateContact(ctx context.Context, userID string, in ContactInput) (*domain.EmergencyContact, error) {
	if in.IsPrimary {
		if err := s.repo.DemotePrimaryContacts(ctx, userID, ""); err != nil {
			return nil, err
		}
	}

	contact := &domain.EmergencyContact{
		ID:           uuid.NewString(),
		UserID:       userID,
		Name:         in.Name,
		Relationship: in.Relationship,
		Phone:        in.Phone,
		Email:        in.Email,
		IsPrimary:    in.IsPrimary,
		IsActive:     true,
		CreatedAt:    s.now(),
		UpdatedAt:    s.now(),
	}
	if err := s.repo.CreateContact(ctx, contact); err != nil {
		return nil, err
	}
	return contact, nil
}

func (s *EmergencyService) ListContacts(ctx context.Context, userID string, p domain.Page) ([]domain.EmergencyContact, domain.PageMeta, error) {
	contacts, total, err := s.repo.ListContacts(ctx, userID, p)
	if err != nil {
		return nil, domain.PageMeta{}, err
	}
	return contacts, p.Meta(total), nil
}

func (s *EmergencyService) UpdateContact(ctx context.Context, userID, contactID string, in ContactInput) (*domain.EmergencyContact, error) {
	contact, err := s.repo.FindContact(ctx, contactID, userID)
	if err != nil {
		return nil, err
	}

	if in.IsPrimary && !contact.IsPrimary {
		if err := s.repo.DemotePrimaryContacts(ctx, userID, contactID); err != nil {
			return nil, err
		}
	}

	contact.Name = in.Name
	contact.Relationship = in.Relationship
	contact.Phone = in.Phone
	contact.Email = in.Email
	contact.IsPrimary = in.IsPrimary
	contact.UpdatedAt = s.now()

	if err := s.repo.UpdateContact(ctx, contact); err != nil {
		return nil, err
	}
	return contact, nil
}

// DeleteContact soft-deletes; the row stays for alert history.
func (s *EmergencyService) DeleteContact(ctx context.Context, userID, contactID string) error {
	contact, err := s.repo.FindContact(ctx, contactID, userID)
	if err != nil {
		return err
	}
	contact.IsActive = false
	contact.UpdatedAt = s.now()
	return s.repo.UpdateContact(ctx, contact)
}

// SOS alerts

type SOSInput struct {
	Latitude  *float64           `json:"latitude"`
	Longitude *float64           `json:"longitude"`
	Address   string             `json:"address"`
	Message   string             `json:"message"`
	Priority  domain.SOSPriority `json:"priority"`
}

func (s *EmergencyService) CreateSOSAlert(ctx context.Context, userID string, in SOSInput) (*domain.SOSAlert, error) {
	priority := in.Priority
	if priority == "" {
		priority = domain.SOSPriorityHigh
	}

	alert := &domain.SOSAlert{
		ID:        uuid.NewString(),
		UserID:    userID,
		Latitude:  in.Latitude,
		Longitude: in.Longitude,
		Address:   in.Address,
		Message:   in.Message,
		Status:    domain.SOSActive,
		Priority:  priority,
		CreatedAt: s.now(),
		UpdatedAt: s.now(),
	}
	if err := s.repo.CreateAlert(ctx, alert); err != nil {
		return nil, err
	}

	s.publish(ctx, ports.RouteNotifyEmergency, map[string]any{
		"type":     "sos_alert",
		"user_id":  userID,
		"alert_id": alert.ID,
		"location": map[string]any{
			"latitude":  alert.Latitude,
			"longitude": alert.Longitude,
			"address":   alert.Address,
		},
		"priority":  alert.Priority,
		"timestamp": alert.CreatedAt,
	})
	s.notifyContacts(ctx, userID, alert)

	return alert, nil
}

func (s *EmergencyService) ListSOSAlerts(ctx context.Context, userID string, f domain.SOSAlertFilter, p domain.Page) ([]domain.SOSAlert, domain.PageMeta, error) {
	alerts, total, err := s.repo.ListAlerts(ctx, userID, f, p)
	if err != nil {
		return nil, domain.PageMeta{}, err
	}
	return alerts, p.Meta(total), nil
}

type SOSUpdateInput struct {
	Status domain.SOSStatus `json:"status"`
	Notes  string           `json:"notes"`
}

func (s *EmergencyService) UpdateSOSAlert(ctx context.Context, userID, alertID string, in SOSUpdateInput) (*domain.SOSAlert, error) {
	alert, err := s.repo.FindAlert(ctx, alertID, userID)
	if err != nil {
		return nil, err
	}
	if alert.Terminal() {
		return nil, domain.Conflict("cannot update a resolved or cancelled alert")
	}

	if in.Status != "" {
		alert.Status = in.Status
		if in.Status == domain.SOSResolved && alert.ResolvedAt == nil {
			now := s.now()
			alert.ResolvedAt = &now
		}
	}
	if in.Notes != "" {
		alert.Notes = in.Notes
	}
	alert.UpdatedAt = s.now()

	if err := s.repo.UpdateAlert(ctx, alert); err != nil {
		return nil, err
	}
	return alert, nil
}

func (s *EmergencyService) notifyContacts(ctx context.Context, userID string, alert *domain.SOSAlert) {
	contacts, err := s.repo.ListActiveContacts(ctx, userID)
	if err != nil {
		log.Printf("emergency: failed to load contacts for alert %s: %v", alert.ID, err)
		return
	}

	for _, contact := range contacts {
		location := alert.Address
		if location == "" {
			location = "Location not available"
		}
		s.publish(ctx, ports.RouteNotifyEmergencyContact, map[string]any{
			"type":          "sos_notification",
			"contact_phone": contact.Phone,
			"contact_email": contact.Email,
			"message":       "Emergency alert from your contact. Location: " + location,
			"alert_id":      alert.ID,
			"timestamp":     alert.CreatedAt,
		})
	}
}

// Reminders

type ReminderInput struct {
	Type                domain.ReminderType `json:"type"`
	Title               string              `json:"title"`
	Description         string              `json:"description"`
	ScheduledAt         time.Time           `json:"scheduled_at"`
	Frequency           string              `json:"frequency"`
	IsRecurring         bool                `json:"is_recurring"`
	NotificationMethods []string            `json:"notification_methods"`
}

func (s *EmergencyService) CreateReminder(ctx context.Context, userID string, in ReminderInput) (*domain.Reminder, error) {
	frequency := in.Frequency
	if frequency == "" {
		frequency = "once"
	}
	methods := in.NotificationMethods
	if len(methods) == 0 {
		methods = []string{"push"}
	}

	reminder := &domain.Reminder{
		ID:                  uuid.NewString(),
		UserID:              userID,
		Type:                in.Type,
		Title:               in.Title,
		Description:         in.Description,
		ScheduledAt:         in.ScheduledAt,
		Frequency:           frequency,
		IsRecurring:         in.IsRecurring,
		NotificationMethods: methods,
		Status:              domain.ReminderActive,
		CreatedAt:           s.now(),
		UpdatedAt:           s.now(),
	}
	if err := s.repo.CreateReminder(ctx, reminder); err != nil {
		return nil, err
	}

	s.scheduleReminder(ctx, reminder)
	return reminder, nil
}

func (s *EmergencyService) ListReminders(ctx context.Context, userID string, f domain.ReminderFilter, p domain.Page) ([]domain.Reminder, domain.PageMeta, error) {
	reminders, total, err := s.repo.ListReminders(ctx, userID, f, p)
	if err != nil {
		return nil, domain.PageMeta{}, err
	}
	return reminders, p.Meta(total), nil
}

type ReminderUpdateInput struct {
	Title       string                `json:"title"`
	Description string                `json:"description"`
	ScheduledAt *time.Time            `json:"scheduled_at"`
	Status      domain.ReminderStatus `json:"status"`
}

func (s *EmergencyService) UpdateReminder(ctx context.Context, userID, reminderID string, in ReminderUpdateInput) (*domain.Reminder, error) {
	reminder, err := s.repo.FindReminder(ctx, reminderID, userID)
	if err != nil {
		return nil, err
	}

	if in.Title != "" {
		reminder.Title = in.Title
	}
	if in.Description != "" {
		reminder.Description = in.Description
	}
	if in.Status != "" {
		reminder.Status = in.Status
		if in.Status == domain.ReminderCompleted && reminder.CompletedAt == nil {
			now := s.now()
			reminder.CompletedAt = &now
		}
	}
	rescheduled := false
	if in.ScheduledAt != nil {
		reminder.ScheduledAt = *in.ScheduledAt
		rescheduled = true
	}
	reminder.UpdatedAt = s.now()

	if err := s.repo.UpdateReminder(ctx, reminder); err != nil {
		return nil, err
	}
	if rescheduled {
		s.scheduleReminder(ctx, reminder)
	}
	return reminder, nil
}

// DeleteReminder cancels rather than removes the row.
func (s *EmergencyService) DeleteReminder(ctx context.Context, userID, reminderID string) error {
	reminder, err := s.repo.FindReminder(ctx, reminderID, userID)
	if err != nil {
		return err
	}
	reminder.Status = domain.ReminderCancelled
	reminder.UpdatedAt = s.now()
	return s.repo.UpdateReminder(ctx, reminder)
}

func (s *EmergencyService) SnoozeReminder(ctx context.Context, userID, reminderID string, minutes int) (*domain.Reminder, error) {
	if minutes <= 0 {
		minutes = 15
	}
	reminder, err := s.repo.FindReminder(ctx, reminderID, userID)
	if err != nil {
		return nil, err
	}
	until := s.now().Add(time.Duration(minutes) * time.Minute)
	reminder.SnoozeUntil = &until
	reminder.UpdatedAt = s.now()

	if err := s.repo.UpdateReminder(ctx, reminder); err != nil {
		return nil, err
	}
	return reminder, nil
}

func (s *EmergencyService) scheduleReminder(ctx context.Context, r *domain.Reminder) {
	s.publish(ctx, ports.RouteReminderSchedule, map[string]any{
		"type":                 "schedule_reminder",
		"reminder_id":          r.ID,
		"user_id":              r.UserID,
		"scheduled_at":         r.ScheduledAt,
		"title":                r.Title,
		"description":          r.Description,
		"notification_methods": r.NotificationMethods,
		"is_recurring":         r.IsRecurring,
		"frequency":            r.Frequency,
	})
}

// publish is best effort: failures are logged, never propagated, and the
// underlying write is never rolled back.
func (s *EmergencyService) publish(ctx context.Context, key string, event any) {
	if err := s.publisher.Publish(ctx, key, event); err != nil {
		log.Printf("emergency: publish %s failed: %v", key, err)
	}
}
