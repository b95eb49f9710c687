package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/arogyahq/care-platform/internal/core/domain"
	"github.com/arogyahq/care-platform/internal/core/ports"
)

type SupportRepository struct {
	db *sql.DB
}

var _ ports.SupportRepository = (*SupportRepository)(nil)

func NewSupportRepository(db *sql.DB) *SupportRepository {
	return &SupportRepository{db: db}
}

// Disputes

const disputeColumns = `id, user_id, category, priority, subject, description, status,
	feedback, rating, created_at, updated_at`

func (r *SupportRepository) CreateDispute(ctx context.Context, d *domain.Dispute) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO disputes (`+disputeColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		d.ID, d.UserID, d.Category, d.Priority, d.Subject, d.Description, d.Status,
		d.Feedback, d.Rating, d.CreatedAt, d.UpdatedAt)
	return err
}

func (r *SupportRepository) ListDisputes(ctx context.Context, userID string, f domain.DisputeFilter, p domain.Page) ([]domain.Dispute, int, error) {
	where := []string{"user_id = $1"}
	args := []any{userID}
	if f.Status != "" {
		args = append(args, f.Status)
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}
	if f.Category != "" {
		args = append(args, f.Category)
		where = append(where, fmt.Sprintf("category = $%d", len(args)))
	}
	if f.Priority != "" {
		args = append(args, f.Priority)
		where = append(where, fmt.Sprintf("priority = $%d", len(args)))
	}
	cond := strings.Join(where, " AND ")

	var total int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM disputes WHERE `+cond, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, p.Limit, p.Offset())
	rows, err := r.db.QueryContext(ctx,
		fmt.Sprintf(`SELECT %s FROM disputes WHERE %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
			disputeColumns, cond, len(args)-1, len(args)),
		args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	disputes := []domain.Dispute{}
	for rows.Next() {
		var d domain.Dispute
		if err := rows.Scan(&d.ID, &d.UserID, &d.Category, &d.Priority, &d.Subject,
			&d.Description, &d.Status, &d.Feedback, &d.Rating,
			&d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, 0, err
		}
		disputes = append(disputes, d)
	}
	return disputes, total, rows.Err()
}

func (r *SupportRepository) FindDispute(ctx context.Context, id, userID string) (*domain.Dispute, error) {
	var d domain.Dispute
	err := r.db.QueryRowContext(ctx,
		`SELECT `+disputeColumns+` FROM disputes WHERE id = $1 AND user_id = $2`,
		id, userID,
	).Scan(&d.ID, &d.UserID, &d.Category, &d.Priority, &d.Subject, &d.Description,
		&d.Status, &d.Feedback, &d.Rating, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return nil, asNotFound(err, "dispute not found")
	}
	return &d, nil
}

func (r *SupportRepository) UpdateDispute(ctx context.Context, d *domain.Dispute) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE disputes SET category = $3, priority = $4, subject = $5, description = $6,
		 status = $7, feedback = $8, rating = $9, updated_at = $10
		 WHERE id = $1 AND user_id = $2`,
		d.ID, d.UserID, d.Category, d.Priority, d.Subject, d.Description,
		d.Status, d.Feedback, d.Rating, d.UpdatedAt)
	if err != nil {
		return err
	}
	return requireRow(res, "dispute not found")
}

// Tickets

const ticketColumns = `id, user_id, ticket_number, category, priority, subject, description,
	status, last_response_at, closed_at, created_at, updated_at`

func (r *SupportRepository) CreateTicket(ctx context.Context, t *domain.SupportTicket) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO support_tickets (`+ticketColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		t.ID, t.UserID, t.TicketNumber, t.Category, t.Priority, t.Subject, t.Description,
		t.Status, t.LastResponseAt, t.ClosedAt, t.CreatedAt, t.UpdatedAt)
	return err
}

func (r *SupportRepository) ListTickets(ctx context.Context, userID string, f domain.TicketFilter, p domain.Page) ([]domain.SupportTicket, int, error) {
	where := []string{"user_id = $1"}
	args := []any{userID}
	if f.Status != "" {
		args = append(args, f.Status)
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}
	if f.Category != "" {
		args = append(args, f.Category)
		where = append(where, fmt.Sprintf("category = $%d", len(args)))
	}
	if f.Priority != "" {
		args = append(args, f.Priority)
		where = append(where, fmt.Sprintf("priority = $%d", len(args)))
	}
	cond := strings.Join(where, " AND ")

	var total int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM support_tickets WHERE `+cond, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, p.Limit, p.Offset())
	rows, err := r.db.QueryContext(ctx,
		fmt.Sprintf(`SELECT %s FROM support_tickets WHERE %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
			ticketColumns, cond, len(args)-1, len(args)),
		args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	tickets := []domain.SupportTicket{}
	for rows.Next() {
		var t domain.SupportTicket
		if err := rows.Scan(&t.ID, &t.UserID, &t.TicketNumber, &t.Category, &t.Priority,
			&t.Subject, &t.Description, &t.Status, &t.LastResponseAt, &t.ClosedAt,
			&t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, 0, err
		}
		tickets = append(tickets, t)
	}
	return tickets, total, rows.Err()
}

func (r *SupportRepository) FindTicket(ctx context.Context, id, userID string) (*domain.SupportTicket, error) {
	var t domain.SupportTicket
	err := r.db.QueryRowContext(ctx,
		`SELECT `+ticketColumns+` FROM support_tickets WHERE id = $1 AND user_id = $2`,
		id, userID,
	).Scan(&t.ID, &t.UserID, &t.TicketNumber, &t.Category, &t.Priority, &t.Subject,
		&t.Description, &t.Status, &t.LastResponseAt, &t.ClosedAt, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, asNotFound(err, "ticket not found")
	}
	return &t, nil
}

func (r *SupportRepository) UpdateTicket(ctx context.Context, t *domain.SupportTicket) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE support_tickets SET category = $3, priority = $4, subject = $5, description = $6,
		 status = $7, last_response_at = $8, closed_at = $9, updated_at = $10
		 WHERE id = $1 AND user_id = $2`,
		t.ID, t.UserID, t.Category, t.Priority, t.Subject, t.Description,
		t.Status, t.LastResponseAt, t.ClosedAt, t.UpdatedAt)
	if err != nil {
		return err
	}
	return requireRow(res, "ticket not found")
}

func (r *SupportRepository) CreateMessage(ctx context.Context, m *domain.TicketMessage) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO ticket_messages (id, ticket_id, sender_id, sender_type, message,
		   is_internal, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		m.ID, m.TicketID, m.SenderID, m.SenderType, m.Message, m.IsInternal, m.CreatedAt)
	return err
}

func (r *SupportRepository) ListMessages(ctx context.Context, ticketID string, includeInternal bool) ([]domain.TicketMessage, error) {
	query := `SELECT id, ticket_id, sender_id, sender_type, message, is_internal, created_at
	 FROM ticket_messages WHERE ticket_id = $1`
	if !includeInternal {
		query += ` AND is_internal = FALSE`
	}
	query += ` ORDER BY created_at ASC`

	rows, err := r.db.QueryContext(ctx, query, ticketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	messages := []domain.TicketMessage{}
	for rows.Next() {
		var m domain.TicketMessage
		if err := rows.Scan(&m.ID, &m.TicketID, &m.SenderID, &m.SenderType, &m.Message,
			&m.IsInternal, &m.CreatedAt); err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}

// FAQs

const faqColumns = `id, category, question, answer, display_order, view_count,
	helpful_count, is_active, created_at`

func (r *SupportRepository) ListFAQs(ctx context.Context, f domain.FAQFilter, p domain.Page) ([]domain.FAQ, int, error) {
	where := []string{"is_active = TRUE"}
	args := []any{}
	if f.Category != "" {
		args = append(args, f.Category)
		where = append(where, fmt.Sprintf("category = $%d", len(args)))
	}
	if f.Search != "" {
		args = append(args, "%"+f.Search+"%")
		where = append(where, fmt.Sprintf("(question ILIKE $%d OR answer ILIKE $%d)", len(args), len(args)))
	}
	cond := strings.Join(where, " AND ")

	var total int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM faqs WHERE `+cond, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, p.Limit, p.Offset())
	rows, err := r.db.QueryContext(ctx,
		fmt.Sprintf(`SELECT %s FROM faqs WHERE %s ORDER BY display_order ASC, created_at ASC LIMIT $%d OFFSET $%d`,
			faqColumns, cond, len(args)-1, len(args)),
		args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	faqs := []domain.FAQ{}
	for rows.Next() {
		var q domain.FAQ
		if err := rows.Scan(&q.ID, &q.Category, &q.Question, &q.Answer, &q.DisplayOrder,
			&q.ViewCount, &q.HelpfulCount, &q.IsActive, &q.CreatedAt); err != nil {
			return nil, 0, err
		}
		faqs = append(faqs, q)
	}
	return faqs, total, rows.Err()
}

func (r *SupportRepository) FindFAQ(ctx context.Context, id string) (*domain.FAQ, error) {
	var q domain.FAQ
	err := r.db.QueryRowContext(ctx,
		`SELECT `+faqColumns+` FROM faqs WHERE id = $1`, id,
	).Scan(&q.ID, &q.Category, &q.Question, &q.Answer, &q.DisplayOrder,
		&q.ViewCount, &q.HelpfulCount, &q.IsActive, &q.CreatedAt)
	if err != nil {
		return nil, asNotFound(err, "faq not found")
	}
	return &q, nil
}

func (r *SupportRepository) IncrementFAQViews(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE faqs SET view_count = view_count + 1 WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return requireRow(res, "faq not found")
}

func (r *SupportRepository) IncrementFAQHelpful(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE faqs SET helpful_count = helpful_count + 1 WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return requireRow(res, "faq not found")
}

func (r *SupportRepository) FAQCategories(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT DISTINCT category FROM faqs WHERE is_active = TRUE ORDER BY category ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	categories := []string{}
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// Counters

func (r *SupportRepository) CountTickets(ctx context.Context, userID string, openOnly bool) (int, error) {
	query := `SELECT COUNT(*) FROM support_tickets WHERE user_id = $1`
	if openOnly {
		query += ` AND status NOT IN ('resolved', 'closed')`
	}
	var n int
	err := r.db.QueryRowContext(ctx, query, userID).Scan(&n)
	return n, err
}

func (r *SupportRepository) CountDisputes(ctx context.Context, userID string, openOnly bool) (int, error) {
	query := `SELECT COUNT(*) FROM disputes WHERE user_id = $1`
	if openOnly {
		query += ` AND status NOT IN ('resolved', 'closed')`
	}
	var n int
	err := r.db.QueryRowContext(ctx, query, userID).Scan(&n)
	return n, err
}
