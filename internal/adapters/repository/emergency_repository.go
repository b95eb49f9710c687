package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"github.com/arogyahq/care-platform/internal/core/domain"
	"github.com/arogyahq/care-platform/internal/core/ports"
)

type EmergencyRepository struct {
	db *sql.DB
}

var _ ports.EmergencyRepository = (*EmergencyRepository)(nil)

func NewEmergencyRepository(db *sql.DB) *EmergencyRepository {
	return &EmergencyRepository{db: db}
}

// Contacts

const contactColumns = `id, user_id, name, relationship, phone, email,
	is_primary, is_active, created_at, updated_at`

func (r *EmergencyRepository) CreateContact(ctx context.Context, c *domain.EmergencyContact) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO emergency_contacts (`+contactColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		c.ID, c.UserID, c.Name, c.Relationship, c.Phone, c.Email,
		c.IsPrimary, c.IsActive, c.CreatedAt, c.UpdatedAt,
	)
	return err
}

func (r *EmergencyRepository) ListContacts(ctx context.Context, userID string, p domain.Page) ([]domain.EmergencyContact, int, error) {
	var total int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM emergency_contacts WHERE user_id = $1 AND is_active = TRUE`,
		userID).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT `+contactColumns+` FROM emergency_contacts
		 WHERE user_id = $1 AND is_active = TRUE
		 ORDER BY is_primary DESC, created_at DESC
		 LIMIT $2 OFFSET $3`,
		userID, p.Limit, p.Offset())
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	contacts := []domain.EmergencyContact{}
	for rows.Next() {
		var c domain.EmergencyContact
		if err := rows.Scan(&c.ID, &c.UserID, &c.Name, &c.Relationship, &c.Phone, &c.Email,
			&c.IsPrimary, &c.IsActive, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, 0, err
		}
		contacts = append(contacts, c)
	}
	return contacts, total, rows.Err()
}

func (r *EmergencyRepository) ListActiveContacts(ctx context.Context, userID string) ([]domain.EmergencyContact, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+contactColumns+` FROM emergency_contacts
		 WHERE user_id = $1 AND is_active = TRUE
		 ORDER BY is_primary DESC, created_at DESC`,
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	contacts := []domain.EmergencyContact{}
	for rows.Next() {
		var c domain.EmergencyContact
		if err := rows.Scan(&c.ID, &c.UserID, &c.Name, &c.Relationship, &c.Phone, &c.Email,
			&c.IsPrimary, &c.IsActive, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		contacts = append(contacts, c)
	}
	return contacts, rows.Err()
}

func (r *EmergencyRepository) FindContact(ctx context.Context, id, userID string) (*domain.EmergencyContact, error) {
	var c domain.EmergencyContact
	err := r.db.QueryRowContext(ctx,
		`SELECT `+contactColumns+` FROM emergency_contacts
		 WHERE id = $1 AND user_id = $2 AND is_active = TRUE`,
		id, userID,
	).Scan(&c.ID, &c.UserID, &c.Name, &c.Relationship, &c.Phone, &c.Email,
		&c.IsPrimary, &c.IsActive, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, asNotFound(err, "emergency contact not found")
	}
	return &c, nil
}

func (r *EmergencyRepository) UpdateContact(ctx context.Context, c *domain.EmergencyContact) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE emergency_contacts SET name = $3, relationship = $4, phone = $5,
		 email = $6, is_primary = $7, is_active = $8, updated_at = $9
		 WHERE id = $1 AND user_id = $2`,
		c.ID, c.UserID, c.Name, c.Relationship, c.Phone, c.Email,
		c.IsPrimary, c.IsActive, c.UpdatedAt)
	if err != nil {
		return err
	}
	return requireRow(res, "emergency contact not found")
}

func (r *EmergencyRepository) DemotePrimaryContacts(ctx context.Context, userID, exceptID string) error {
	query := `UPDATE emergency_contacts SET is_primary = FALSE WHERE user_id = $1 AND is_primary = TRUE`
	args := []any{userID}
	if exceptID != "" {
		query += ` AND id <> $2`
		args = append(args, exceptID)
	}
	_, err := r.db.ExecContext(ctx, query, args...)
	return err
}

// Alerts

const alertColumns = `id, user_id, latitude, longitude, address, message, status,
	priority, resolved_at, resolved_by, notes, created_at, updated_at`

func (r *EmergencyRepository) CreateAlert(ctx context.Context, a *domain.SOSAlert) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO sos_alerts (`+alertColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		a.ID, a.UserID, a.Latitude, a.Longitude, a.Address, a.Message, a.Status,
		a.Priority, a.ResolvedAt, a.ResolvedBy, a.Notes, a.CreatedAt, a.UpdatedAt)
	return err
}

func (r *EmergencyRepository) ListAlerts(ctx context.Context, userID string, f domain.SOSAlertFilter, p domain.Page) ([]domain.SOSAlert, int, error) {
	where := []string{"user_id = $1"}
	args := []any{userID}
	if f.Status != "" {
		args = append(args, f.Status)
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}
	cond := strings.Join(where, " AND ")

	var total int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM sos_alerts WHERE `+cond, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, p.Limit, p.Offset())
	rows, err := r.db.QueryContext(ctx,
		fmt.Sprintf(`SELECT %s FROM sos_alerts WHERE %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
			alertColumns, cond, len(args)-1, len(args)),
		args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	alerts := []domain.SOSAlert{}
	for rows.Next() {
		var a domain.SOSAlert
		if err := rows.Scan(&a.ID, &a.UserID, &a.Latitude, &a.Longitude, &a.Address, &a.Message,
			&a.Status, &a.Priority, &a.ResolvedAt, &a.ResolvedBy, &a.Notes,
			&a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, 0, err
		}
		alerts = append(alerts, a)
	}
	return alerts, total, rows.Err()
}

func (r *EmergencyRepository) FindAlert(ctx context.Context, id, userID string) (*domain.SOSAlert, error) {
	var a domain.SOSAlert
	err := r.db.QueryRowContext(ctx,
		`SELECT `+alertColumns+` FROM sos_alerts WHERE id = $1 AND user_id = $2`,
		id, userID,
	).Scan(&a.ID, &a.UserID, &a.Latitude, &a.Longitude, &a.Address, &a.Message,
		&a.Status, &a.Priority, &a.ResolvedAt, &a.ResolvedBy, &a.Notes,
		&a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, asNotFound(err, "sos alert not found")
	}
	return &a, nil
}

func (r *EmergencyRepository) UpdateAlert(ctx context.Context, a *domain.SOSAlert) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE sos_alerts SET status = $3, priority = $4, resolved_at = $5,
		 resolved_by = $6, notes = $7, updated_at = $8
		 WHERE id = $1 AND user_id = $2`,
		a.ID, a.UserID, a.Status, a.Priority, a.ResolvedAt, a.ResolvedBy, a.Notes, a.UpdatedAt)
	if err != nil {
		return err
	}
	return requireRow(res, "sos alert not found")
}

// Reminders

const reminderColumns = `id, user_id, type, title, description, scheduled_at, frequency,
	is_recurring, notification_methods, status, completed_at, snooze_until,
	created_at, updated_at`

func (r *EmergencyRepository) CreateReminder(ctx context.Context, rem *domain.Reminder) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO reminders (`+reminderColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		rem.ID, rem.UserID, rem.Type, rem.Title, rem.Description, rem.ScheduledAt, rem.Frequency,
		rem.IsRecurring, pq.Array(rem.NotificationMethods), rem.Status, rem.CompletedAt,
		rem.SnoozeUntil, rem.CreatedAt, rem.UpdatedAt)
	return err
}

func (r *EmergencyRepository) ListReminders(ctx context.Context, userID string, f domain.ReminderFilter, p domain.Page) ([]domain.Reminder, int, error) {
	where := []string{"user_id = $1"}
	args := []any{userID}
	if f.Type != "" {
		args = append(args, f.Type)
		where = append(where, fmt.Sprintf("type = $%d", len(args)))
	}
	if f.Status != "" {
		args = append(args, f.Status)
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}
	cond := strings.Join(where, " AND ")

	var total int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM reminders WHERE `+cond, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, p.Limit, p.Offset())
	rows, err := r.db.QueryContext(ctx,
		fmt.Sprintf(`SELECT %s FROM reminders WHERE %s ORDER BY scheduled_at ASC LIMIT $%d OFFSET $%d`,
			reminderColumns, cond, len(args)-1, len(args)),
		args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	reminders := []domain.Reminder{}
	for rows.Next() {
		var rem domain.Reminder
		if err := rows.Scan(&rem.ID, &rem.UserID, &rem.Type, &rem.Title, &rem.Description,
			&rem.ScheduledAt, &rem.Frequency, &rem.IsRecurring,
			pq.Array(&rem.NotificationMethods), &rem.Status, &rem.CompletedAt,
			&rem.SnoozeUntil, &rem.CreatedAt, &rem.UpdatedAt); err != nil {
			return nil, 0, err
		}
		reminders = append(reminders, rem)
	}
	return reminders, total, rows.Err()
}

func (r *EmergencyRepository) FindReminder(ctx context.Context, id, userID string) (*domain.Reminder, error) {
	var rem domain.Reminder
	err := r.db.QueryRowContext(ctx,
		`SELECT `+reminderColumns+` FROM reminders WHERE id = $1 AND user_id = $2`,
		id, userID,
	).Scan(&rem.ID, &rem.UserID, &rem.Type, &rem.Title, &rem.Description,
		&rem.ScheduledAt, &rem.Frequency, &rem.IsRecurring,
		pq.Array(&rem.NotificationMethods), &rem.Status, &rem.CompletedAt,
		&rem.SnoozeUntil, &rem.CreatedAt, &rem.UpdatedAt)
	if err != nil {
		return nil, asNotFound(err, "reminder not found")
	}
	return &rem, nil
}

func (r *EmergencyRepository) UpdateReminder(ctx context.Context, rem *domain.Reminder) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE reminders SET type = $3, title = $4, description = $5, scheduled_at = $6,
		 frequency = $7, is_recurring = $8, notification_methods = $9, status = $10,
		 completed_at = $11, snooze_until = $12, updated_at = $13
		 WHERE id = $1 AND user_id = $2`,
		rem.ID, rem.UserID, rem.Type, rem.Title, rem.Description, rem.ScheduledAt,
		rem.Frequency, rem.IsRecurring, pq.Array(rem.NotificationMethods), rem.Status,
		rem.CompletedAt, rem.SnoozeUntil, rem.UpdatedAt)
	if err != nil {
		return err
	}
	return requireRow(res, "reminder not found")
}
