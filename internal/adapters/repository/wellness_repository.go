package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/arogyahq/care-platform/internal/core/domain"
	"github.com/arogyahq/care-platform/internal/core/ports"
)

type WellnessRepository struct {
	db *sql.DB
}

var _ ports.WellnessRepository = (*WellnessRepository)(nil)

func NewWellnessRepository(db *sql.DB) *WellnessRepository {
	return &WellnessRepository{db: db}
}

func (r *WellnessRepository) ListDietPlans(ctx context.Context, f domain.WellnessFilter, p domain.Page) ([]domain.DietPlan, int, error) {
	where := []string{"is_active = TRUE"}
	args := []any{}
	if f.Category != "" {
		args = append(args, f.Category)
		where = append(where, fmt.Sprintf("category = $%d", len(args)))
	}
	if f.MaxDuration > 0 {
		args = append(args, f.MaxDuration)
		where = append(where, fmt.Sprintf("duration_days <= $%d", len(args)))
	}
	cond := strings.Join(where, " AND ")

	var total int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM diet_plans WHERE `+cond, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, p.Limit, p.Offset())
	rows, err := r.db.QueryContext(ctx,
		fmt.Sprintf(`SELECT id, name, category, description, duration_days, is_active, created_at
		 FROM diet_plans WHERE %s ORDER BY name ASC LIMIT $%d OFFSET $%d`,
			cond, len(args)-1, len(args)),
		args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	plans := []domain.DietPlan{}
	for rows.Next() {
		var d domain.DietPlan
		if err := rows.Scan(&d.ID, &d.Name, &d.Category, &d.Description, &d.DurationDays,
			&d.IsActive, &d.CreatedAt); err != nil {
			return nil, 0, err
		}
		plans = append(plans, d)
	}
	return plans, total, rows.Err()
}

func (r *WellnessRepository) FindDietPlan(ctx context.Context, id string) (*domain.DietPlan, error) {
	var d domain.DietPlan
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, category, description, duration_days, is_active, created_at
		 FROM diet_plans WHERE id = $1`, id,
	).Scan(&d.ID, &d.Name, &d.Category, &d.Description, &d.DurationDays, &d.IsActive, &d.CreatedAt)
	if err != nil {
		return nil, asNotFound(err, "diet plan not found")
	}
	return &d, nil
}

func (r *WellnessRepository) ListExercisePrograms(ctx context.Context, f domain.WellnessFilter, p domain.Page) ([]domain.ExerciseProgram, int, error) {
	where := []string{"is_active = TRUE"}
	args := []any{}
	if f.Level != "" {
		args = append(args, f.Level)
		where = append(where, fmt.Sprintf("level = $%d", len(args)))
	}
	if f.Category != "" {
		args = append(args, f.Category)
		where = append(where, fmt.Sprintf("category = $%d", len(args)))
	}
	cond := strings.Join(where, " AND ")

	var total int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM exercise_programs WHERE `+cond, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, p.Limit, p.Offset())
	rows, err := r.db.QueryContext(ctx,
		fmt.Sprintf(`SELECT id, name, level, category, description, duration_days, is_active, created_at
		 FROM exercise_programs WHERE %s ORDER BY name ASC LIMIT $%d OFFSET $%d`,
			cond, len(args)-1, len(args)),
		args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	programs := []domain.ExerciseProgram{}
	for rows.Next() {
		var e domain.ExerciseProgram
		if err := rows.Scan(&e.ID, &e.Name, &e.Level, &e.Category, &e.Description,
			&e.DurationDays, &e.IsActive, &e.CreatedAt); err != nil {
			return nil, 0, err
		}
		programs = append(programs, e)
	}
	return programs, total, rows.Err()
}

func (r *WellnessRepository) FindExerciseProgram(ctx context.Context, id string) (*domain.ExerciseProgram, error) {
	var e domain.ExerciseProgram
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, level, category, description, duration_days, is_active, created_at
		 FROM exercise_programs WHERE id = $1`, id,
	).Scan(&e.ID, &e.Name, &e.Level, &e.Category, &e.Description, &e.DurationDays,
		&e.IsActive, &e.CreatedAt)
	if err != nil {
		return nil, asNotFound(err, "exercise program not found")
	}
	return &e, nil
}

func (r *WellnessRepository) ListYogaSessions(ctx context.Context, f domain.WellnessFilter, p domain.Page) ([]domain.YogaSession, int, error) {
	where := []string{"is_active = TRUE"}
	args := []any{}
	if f.Level != "" {
		args = append(args, f.Level)
		where = append(where, fmt.Sprintf("level = $%d", len(args)))
	}
	if f.Type != "" {
		args = append(args, f.Type)
		where = append(where, fmt.Sprintf("type = $%d", len(args)))
	}
	if f.MaxDuration > 0 {
		args = append(args, f.MaxDuration)
		where = append(where, fmt.Sprintf("duration_minutes <= $%d", len(args)))
	}
	cond := strings.Join(where, " AND ")

	var total int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM yoga_sessions WHERE `+cond, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, p.Limit, p.Offset())
	rows, err := r.db.QueryContext(ctx,
		fmt.Sprintf(`SELECT id, name, level, type, description, duration_minutes, is_active, created_at
		 FROM yoga_sessions WHERE %s ORDER BY name ASC LIMIT $%d OFFSET $%d`,
			cond, len(args)-1, len(args)),
		args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	sessions := []domain.YogaSession{}
	for rows.Next() {
		var y domain.YogaSession
		if err := rows.Scan(&y.ID, &y.Name, &y.Level, &y.Type, &y.Description,
			&y.DurationMinutes, &y.IsActive, &y.CreatedAt); err != nil {
			return nil, 0, err
		}
		sessions = append(sessions, y)
	}
	return sessions, total, rows.Err()
}

func (r *WellnessRepository) FindYogaSession(ctx context.Context, id string) (*domain.YogaSession, error) {
	var y domain.YogaSession
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, level, type, description, duration_minutes, is_active, created_at
		 FROM yoga_sessions WHERE id = $1`, id,
	).Scan(&y.ID, &y.Name, &y.Level, &y.Type, &y.Description, &y.DurationMinutes,
		&y.IsActive, &y.CreatedAt)
	if err != nil {
		return nil, asNotFound(err, "yoga session not found")
	}
	return &y, nil
}

// Subscriptions

const subscriptionColumns = `id, user_id, type, resource_id, status, progress, created_at, updated_at`

func (r *WellnessRepository) CreateSubscription(ctx context.Context, s *domain.WellnessSubscription) error {
	progress, err := jsonbValue(s.Progress)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO wellness_subscriptions (`+subscriptionColumns+`)
		 VALUES ($1, $2, $3, NULLIF($4, ''), $5, $6, $7, $8)`,
		s.ID, s.UserID, s.Type, s.ResourceID, s.Status, progress, s.CreatedAt, s.UpdatedAt)
	return err
}

func (r *WellnessRepository) FindActiveSubscriptionByType(ctx context.Context, userID string, t domain.SubscriptionType) (*domain.WellnessSubscription, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, type, COALESCE(resource_id, ''), status, progress, created_at, updated_at
		 FROM wellness_subscriptions
		 WHERE user_id = $1 AND type = $2 AND status = 'active'`,
		userID, t)
	return r.scan(row)
}

func (r *WellnessRepository) ListSubscriptions(ctx context.Context, userID string, f domain.SubscriptionFilter, p domain.Page) ([]domain.WellnessSubscription, int, error) {
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
		`SELECT COUNT(*) FROM wellness_subscriptions WHERE `+cond, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, p.Limit, p.Offset())
	rows, err := r.db.QueryContext(ctx,
		fmt.Sprintf(`SELECT id, user_id, type, COALESCE(resource_id, ''), status, progress,
		   created_at, updated_at
		 FROM wellness_subscriptions WHERE %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
			cond, len(args)-1, len(args)),
		args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	subs := []domain.WellnessSubscription{}
	for rows.Next() {
		var s domain.WellnessSubscription
		var progress []byte
		if err := rows.Scan(&s.ID, &s.UserID, &s.Type, &s.ResourceID, &s.Status,
			&progress, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, 0, err
		}
		if err := scanJSONB(progress, &s.Progress); err != nil {
			return nil, 0, err
		}
		subs = append(subs, s)
	}
	return subs, total, rows.Err()
}

func (r *WellnessRepository) FindSubscription(ctx context.Context, id, userID string) (*domain.WellnessSubscription, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, type, COALESCE(resource_id, ''), status, progress, created_at, updated_at
		 FROM wellness_subscriptions WHERE id = $1 AND user_id = $2`,
		id, userID)
	return r.scan(row)
}

func (r *WellnessRepository) UpdateSubscription(ctx context.Context, s *domain.WellnessSubscription) error {
	progress, err := jsonbValue(s.Progress)
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx,
		`UPDATE wellness_subscriptions SET status = $3, progress = $4, updated_at = $5
		 WHERE id = $1 AND user_id = $2`,
		s.ID, s.UserID, s.Status, progress, s.UpdatedAt)
	if err != nil {
		return err
	}
	return requireRow(res, "subscription not found")
}

func (r *WellnessRepository) scan(row *sql.Row) (*domain.WellnessSubscription, error) {
	var s domain.WellnessSubscription
	var progress []byte
	err := row.Scan(&s.ID, &s.UserID, &s.Type, &s.ResourceID, &s.Status,
		&progress, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, asNotFound(err, "subscription not found")
	}
	if err := scanJSONB(progress, &s.Progress); err != nil {
		return nil, err
	}
	return &s, nil
}
