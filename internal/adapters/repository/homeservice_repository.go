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

type HomeServiceRepository struct {
	db *sql.DB
}

var _ ports.HomeServiceRepository = (*HomeServiceRepository)(nil)

func NewHomeServiceRepository(db *sql.DB) *HomeServiceRepository {
	return &HomeServiceRepository{db: db}
}

// Services

func (r *HomeServiceRepository) ListServices(ctx context.Context, category string, p domain.Page) ([]domain.HomeService, int, error) {
	where := []string{"is_active = TRUE"}
	args := []any{}
	if category != "" {
		args = append(args, category)
		where = append(where, fmt.Sprintf("category = $%d", len(args)))
	}
	cond := strings.Join(where, " AND ")

	var total int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM home_services WHERE `+cond, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, p.Limit, p.Offset())
	rows, err := r.db.QueryContext(ctx,
		fmt.Sprintf(`SELECT id, name, category, description, hourly_rate, is_active, created_at
		 FROM home_services WHERE %s ORDER BY name ASC LIMIT $%d OFFSET $%d`,
			cond, len(args)-1, len(args)),
		args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	services := []domain.HomeService{}
	for rows.Next() {
		var s domain.HomeService
		if err := rows.Scan(&s.ID, &s.Name, &s.Category, &s.Description, &s.HourlyRate,
			&s.IsActive, &s.CreatedAt); err != nil {
			return nil, 0, err
		}
		services = append(services, s)
	}
	return services, total, rows.Err()
}

func (r *HomeServiceRepository) FindService(ctx context.Context, id string) (*domain.HomeService, error) {
	var s domain.HomeService
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, category, description, hourly_rate, is_active, created_at
		 FROM home_services WHERE id = $1`, id,
	).Scan(&s.ID, &s.Name, &s.Category, &s.Description, &s.HourlyRate, &s.IsActive, &s.CreatedAt)
	if err != nil {
		return nil, asNotFound(err, "home service not found")
	}
	return &s, nil
}

// Providers

const providerColumns = `id, name, phone, email, location, services, rating,
	is_verified, is_active, created_at`

func (r *HomeServiceRepository) ListProviders(ctx context.Context, f domain.ProviderFilter, p domain.Page) ([]domain.ServiceProvider, int, error) {
	where := []string{"is_active = TRUE", "is_verified = TRUE"}
	args := []any{}
	if f.Location != "" {
		args = append(args, f.Location)
		where = append(where, fmt.Sprintf("location = $%d", len(args)))
	}
	if f.MinRating > 0 {
		args = append(args, f.MinRating)
		where = append(where, fmt.Sprintf("rating >= $%d", len(args)))
	}
	if f.ServiceID != "" {
		args = append(args, f.ServiceID)
		where = append(where, fmt.Sprintf("$%d = ANY(services)", len(args)))
	}
	cond := strings.Join(where, " AND ")

	var total int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM service_providers WHERE `+cond, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, p.Limit, p.Offset())
	rows, err := r.db.QueryContext(ctx,
		fmt.Sprintf(`SELECT %s FROM service_providers WHERE %s ORDER BY rating DESC LIMIT $%d OFFSET $%d`,
			providerColumns, cond, len(args)-1, len(args)),
		args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	providers := []domain.ServiceProvider{}
	for rows.Next() {
		var sp domain.ServiceProvider
		if err := rows.Scan(&sp.ID, &sp.Name, &sp.Phone, &sp.Email, &sp.Location,
			pq.Array(&sp.Services), &sp.Rating, &sp.IsVerified, &sp.IsActive,
			&sp.CreatedAt); err != nil {
			return nil, 0, err
		}
		providers = append(providers, sp)
	}
	return providers, total, rows.Err()
}

func (r *HomeServiceRepository) FindProvider(ctx context.Context, id string) (*domain.ServiceProvider, error) {
	var sp domain.ServiceProvider
	err := r.db.QueryRowContext(ctx,
		`SELECT `+providerColumns+` FROM service_providers WHERE id = $1`, id,
	).Scan(&sp.ID, &sp.Name, &sp.Phone, &sp.Email, &sp.Location,
		pq.Array(&sp.Services), &sp.Rating, &sp.IsVerified, &sp.IsActive, &sp.CreatedAt)
	if err != nil {
		return nil, asNotFound(err, "service provider not found")
	}
	return &sp, nil
}

func (r *HomeServiceRepository) BestProviderForService(ctx context.Context, serviceID string) (*domain.ServiceProvider, error) {
	var sp domain.ServiceProvider
	err := r.db.QueryRowContext(ctx,
		`SELECT `+providerColumns+` FROM service_providers
		 WHERE is_active = TRUE AND is_verified = TRUE AND $1 = ANY(services)
		 ORDER BY rating DESC
		 LIMIT 1`, serviceID,
	).Scan(&sp.ID, &sp.Name, &sp.Phone, &sp.Email, &sp.Location,
		pq.Array(&sp.Services), &sp.Rating, &sp.IsVerified, &sp.IsActive, &sp.CreatedAt)
	if err != nil {
		return nil, asNotFound(err, "no provider available")
	}
	return &sp, nil
}

func (r *HomeServiceRepository) SetProviderRating(ctx context.Context, providerID string, rating float64) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE service_providers SET rating = $2 WHERE id = $1`, providerID, rating)
	if err != nil {
		return err
	}
	return requireRow(res, "service provider not found")
}

func (r *HomeServiceRepository) AverageProviderRating(ctx context.Context, providerID string) (float64, int, error) {
	var avg sql.NullFloat64
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT AVG(rating), COUNT(rating) FROM home_service_bookings
		 WHERE provider_id = $1 AND rating IS NOT NULL`, providerID,
	).Scan(&avg, &n)
	if err != nil {
		return 0, 0, err
	}
	return avg.Float64, n, nil
}

// Bookings

const homeBookingColumns = `id, user_id, service_id, provider_id, scheduled_date, duration_hours,
	address, status, total_amount, rating, feedback, created_at, updated_at`

func (r *HomeServiceRepository) CreateBooking(ctx context.Context, b *domain.HomeServiceBooking) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO home_service_bookings (`+homeBookingColumns+`)
		 VALUES ($1, $2, $3, NULLIF($4, ''), $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		b.ID, b.UserID, b.ServiceID, b.ProviderID, b.ScheduledDate, b.DurationHours,
		b.Address, b.Status, b.TotalAmount, b.Rating, b.Feedback, b.CreatedAt, b.UpdatedAt)
	return err
}

func (r *HomeServiceRepository) ListBookings(ctx context.Context, userID string, f domain.StatusFilter, p domain.Page) ([]domain.HomeServiceBooking, int, error) {
	where := []string{"user_id = $1"}
	args := []any{userID}
	if f.Status != "" {
		args = append(args, f.Status)
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}
	cond := strings.Join(where, " AND ")

	var total int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM home_service_bookings WHERE `+cond, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, p.Limit, p.Offset())
	rows, err := r.db.QueryContext(ctx,
		fmt.Sprintf(`SELECT id, user_id, service_id, COALESCE(provider_id, ''), scheduled_date,
		   duration_hours, address, status, total_amount, rating, feedback, created_at, updated_at
		 FROM home_service_bookings WHERE %s ORDER BY scheduled_date DESC LIMIT $%d OFFSET $%d`,
			cond, len(args)-1, len(args)),
		args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	bookings := []domain.HomeServiceBooking{}
	for rows.Next() {
		var b domain.HomeServiceBooking
		if err := rows.Scan(&b.ID, &b.UserID, &b.ServiceID, &b.ProviderID, &b.ScheduledDate,
			&b.DurationHours, &b.Address, &b.Status, &b.TotalAmount, &b.Rating,
			&b.Feedback, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, 0, err
		}
		bookings = append(bookings, b)
	}
	return bookings, total, rows.Err()
}

func (r *HomeServiceRepository) FindBooking(ctx context.Context, id, userID string) (*domain.HomeServiceBooking, error) {
	var b domain.HomeServiceBooking
	err := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, service_id, COALESCE(provider_id, ''), scheduled_date,
		   duration_hours, address, status, total_amount, rating, feedback, created_at, updated_at
		 FROM home_service_bookings WHERE id = $1 AND user_id = $2`,
		id, userID,
	).Scan(&b.ID, &b.UserID, &b.ServiceID, &b.ProviderID, &b.ScheduledDate,
		&b.DurationHours, &b.Address, &b.Status, &b.TotalAmount, &b.Rating,
		&b.Feedback, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, asNotFound(err, "booking not found")
	}
	return &b, nil
}

func (r *HomeServiceRepository) UpdateBooking(ctx context.Context, b *domain.HomeServiceBooking) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE home_service_bookings SET provider_id = NULLIF($3, ''), scheduled_date = $4,
		 duration_hours = $5, address = $6, status = $7, total_amount = $8, rating = $9,
		 feedback = $10, updated_at = $11
		 WHERE id = $1 AND user_id = $2`,
		b.ID, b.UserID, b.ProviderID, b.ScheduledDate, b.DurationHours, b.Address,
		b.Status, b.TotalAmount, b.Rating, b.Feedback, b.UpdatedAt)
	if err != nil {
		return err
	}
	return requireRow(res, "booking not found")
}

// Assistance requests

func (r *HomeServiceRepository) CreateAssistanceRequest(ctx context.Context, req *domain.AssistanceRequest) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO assistance_requests (id, user_id, type, priority, description, status,
		   completed_at, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		req.ID, req.UserID, req.Type, req.Priority, req.Description, req.Status,
		req.CompletedAt, req.CreatedAt, req.UpdatedAt)
	return err
}

func (r *HomeServiceRepository) ListAssistanceRequests(ctx context.Context, userID string, f domain.AssistanceFilter, p domain.Page) ([]domain.AssistanceRequest, int, error) {
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
		`SELECT COUNT(*) FROM assistance_requests WHERE `+cond, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, p.Limit, p.Offset())
	rows, err := r.db.QueryContext(ctx,
		fmt.Sprintf(`SELECT id, user_id, type, priority, description, status, completed_at,
		   created_at, updated_at
		 FROM assistance_requests WHERE %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
			cond, len(args)-1, len(args)),
		args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	requests := []domain.AssistanceRequest{}
	for rows.Next() {
		var req domain.AssistanceRequest
		if err := rows.Scan(&req.ID, &req.UserID, &req.Type, &req.Priority, &req.Description,
			&req.Status, &req.CompletedAt, &req.CreatedAt, &req.UpdatedAt); err != nil {
			return nil, 0, err
		}
		requests = append(requests, req)
	}
	return requests, total, rows.Err()
}

func (r *HomeServiceRepository) FindAssistanceRequest(ctx context.Context, id, userID string) (*domain.AssistanceRequest, error) {
	var req domain.AssistanceRequest
	err := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, type, priority, description, status, completed_at, created_at, updated_at
		 FROM assistance_requests WHERE id = $1 AND user_id = $2`,
		id, userID,
	).Scan(&req.ID, &req.UserID, &req.Type, &req.Priority, &req.Description,
		&req.Status, &req.CompletedAt, &req.CreatedAt, &req.UpdatedAt)
	if err != nil {
		return nil, asNotFound(err, "assistance request not found")
	}
	return &req, nil
}

func (r *HomeServiceRepository) UpdateAssistanceRequest(ctx context.Context, req *domain.AssistanceRequest) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE assistance_requests SET type = $3, priority = $4, description = $5, status = $6,
		 completed_at = $7, updated_at = $8
		 WHERE id = $1 AND user_id = $2`,
		req.ID, req.UserID, req.Type, req.Priority, req.Description, req.Status,
		req.CompletedAt, req.UpdatedAt)
	if err != nil {
		return err
	}
	return requireRow(res, "assistance request not found")
}
