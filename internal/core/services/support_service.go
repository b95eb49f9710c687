package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/arogyahq/care-platform/internal/core/domain"
	"github.com/arogyahq/care-platform/internal/core/ports"
)

type SupportService struct {
	repo      ports.SupportRepository
	publisher ports.EventPublisher
	now       func() time.Time
}

func NewSupportService(repo ports.SupportRepository, publisher ports.EventPublisher) *SupportService {
	return &SupportService{repo: repo, publisher: publisher, now: time.Now}
}

// Disputes

type DisputeInput struct {
	Category    string `json:"category"`
	Priority    string `json:"priority"`
	Subject     string `json:"subject"`
	Description string `json:"description"`
}

func (s *SupportService) CreateDispute(ctx context.Context, userID string, in DisputeInput) (*domain.Dispute, error) {
	if in.Subject == "" || in.Category == "" {
		return nil, domain.Validation("subject and category are required")
	}
	priority := in.Priority
	if priority == "" {
		priority = "medium"
	}

	dispute := &domain.Dispute{
		ID:          uuid.NewString(),
		UserID:      userID,
		Category:    in.Category,
		Priority:    priority,
		Subject:     in.Subject,
		Description: in.Description,
		Status:      "open",
		CreatedAt:   s.now(),
		UpdatedAt:   s.now(),
	}
	if err := s.repo.CreateDispute(ctx, dispute); err != nil {
		return nil, err
	}

	s.publish(ctx, ports.RouteNotifySupport, map[string]any{
		"type":       "dispute_created",
		"dispute_id": dispute.ID,
		"user_id":    userID,
		"category":   dispute.Category,
		"priority":   dispute.Priority,
		"timestamp":  dispute.CreatedAt,
	})
	return dispute, nil
}

func (s *SupportService) ListDisputes(ctx context.Context, userID string, f domain.DisputeFilter, p domain.Page) ([]domain.Dispute, domain.PageMeta, error) {
	disputes, total, err := s.repo.ListDisputes(ctx, userID, f, p)
	if err != nil {
		return nil, domain.PageMeta{}, err
	}
	return disputes, p.Meta(total), nil
}

func (s *SupportService) GetDispute(ctx context.Context, userID, disputeID string) (*domain.Dispute, error) {
	return s.repo.FindDispute(ctx, disputeID, userID)
}

type DisputeUpdateInput struct {
	Subject     string `json:"subject"`
	Description string `json:"description"`
	Priority    string `json:"priority"`
}

func (s *SupportService) UpdateDispute(ctx context.Context, userID, disputeID string, in DisputeUpdateInput) (*domain.Dispute, error) {
	dispute, err := s.repo.FindDispute(ctx, disputeID, userID)
	if err != nil {
		return nil, err
	}
	if dispute.Terminal() {
		return nil, domain.Conflict("cannot update a resolved or closed dispute")
	}

	if in.Subject != "" {
		dispute.Subject = in.Subject
	}
	if in.Description != "" {
		dispute.Description = in.Description
	}
	if in.Priority != "" {
		dispute.Priority = in.Priority
	}
	dispute.UpdatedAt = s.now()

	if err := s.repo.UpdateDispute(ctx, dispute); err != nil {
		return nil, err
	}
	return dispute, nil
}

// RateDispute records satisfaction feedback on a resolved dispute.
func (s *SupportService) RateDispute(ctx context.Context, userID, disputeID string, rating int, feedback string) error {
	if rating < 1 || rating > 5 {
		return domain.Validation("rating must be between 1 and 5")
	}
	dispute, err := s.repo.FindDispute(ctx, disputeID, userID)
	if err != nil {
		return err
	}
	if dispute.Status != "resolved" {
		return domain.Conflict("dispute is not resolved yet")
	}
	if dispute.Rating != nil {
		return domain.Conflict("dispute has already been rated")
	}

	dispute.Rating = &rating
	dispute.Feedback = feedback
	dispute.UpdatedAt = s.now()
	return s.repo.UpdateDispute(ctx, dispute)
}

// Tickets

type TicketInput struct {
	Category    string `json:"category"`
	Priority    string `json:"priority"`
	Subject     string `json:"subject"`
	Description string `json:"description"`
}

func (s *SupportService) CreateTicket(ctx context.Context, userID string, in TicketInput) (*domain.SupportTicket, error) {
	if in.Subject == "" || in.Category == "" {
		return nil, domain.Validation("subject and category are required")
	}
	priority := in.Priority
	if priority == "" {
		priority = "medium"
	}

	ticket := &domain.SupportTicket{
		ID:           uuid.NewString(),
		UserID:       userID,
		TicketNumber: s.ticketNumber(),
		Category:     in.Category,
		Priority:     priority,
		Subject:      in.Subject,
		Description:  in.Description,
		Status:       "open",
		CreatedAt:    s.now(),
		UpdatedAt:    s.now(),
	}
	if err := s.repo.CreateTicket(ctx, ticket); err != nil {
		return nil, err
	}

	if in.Description != "" {
		msg := &domain.TicketMessage{
			ID:         uuid.NewString(),
			TicketID:   ticket.ID,
			SenderID:   userID,
			SenderType: "user",
			Message:    in.Description,
			CreatedAt:  s.now(),
		}
		if err := s.repo.CreateMessage(ctx, msg); err != nil {
			log.Printf("support: initial message for ticket %s failed: %v", ticket.TicketNumber, err)
		}
	}

	s.publish(ctx, ports.RouteNotifySupport, map[string]any{
		"type":          "ticket_created",
		"ticket_id":     ticket.ID,
		"ticket_number": ticket.TicketNumber,
		"user_id":       userID,
		"category":      ticket.Category,
		"priority":      ticket.Priority,
		"timestamp":     ticket.CreatedAt,
	})
	return ticket, nil
}

func (s *SupportService) ListTickets(ctx context.Context, userID string, f domain.TicketFilter, p domain.Page) ([]domain.SupportTicket, domain.PageMeta, error) {
	tickets, total, err := s.repo.ListTickets(ctx, userID, f, p)
	if err != nil {
		return nil, domain.PageMeta{}, err
	}
	return tickets, p.Meta(total), nil
}

// GetTicket returns the ticket with its customer-visible message thread.
func (s *SupportService) GetTicket(ctx context.Context, userID, ticketID string) (*domain.SupportTicket, error) {
	ticket, err := s.repo.FindTicket(ctx, ticketID, userID)
	if err != nil {
		return nil, err
	}
	messages, err := s.repo.ListMessages(ctx, ticket.ID, false)
	if err != nil {
		return nil, err
	}
	ticket.Messages = messages
	return ticket, nil
}

// AddTicketMessage appends a customer reply. A reply while the ticket is
// waiting on the customer reopens it.
func (s *SupportService) AddTicketMessage(ctx context.Context, userID, ticketID, message string) (*domain.TicketMessage, error) {
	if strings.TrimSpace(message) == "" {
		return nil, domain.Validation("message is required")
	}

	ticket, err := s.repo.FindTicket(ctx, ticketID, userID)
	if err != nil {
		return nil, err
	}
	if ticket.Terminal() {
		return nil, domain.Conflict("cannot reply to a resolved or closed ticket")
	}

	msg := &domain.TicketMessage{
		ID:         uuid.NewString(),
		TicketID:   ticket.ID,
		SenderID:   userID,
		SenderType: "user",
		Message:    message,
		CreatedAt:  s.now(),
	}
	if err := s.repo.CreateMessage(ctx, msg); err != nil {
		return nil, err
	}

	now := s.now()
	ticket.LastResponseAt = &now
	if ticket.Status == "waiting-customer" {
		ticket.Status = "open"
	}
	ticket.UpdatedAt = now
	if err := s.repo.UpdateTicket(ctx, ticket); err != nil {
		return nil, err
	}
	return msg, nil
}

func (s *SupportService) CloseTicket(ctx context.Context, userID, ticketID string) error {
	ticket, err := s.repo.FindTicket(ctx, ticketID, userID)
	if err != nil {
		return err
	}
	if ticket.Terminal() {
		return domain.Conflict("ticket is already closed")
	}

	now := s.now()
	ticket.Status = "closed"
	ticket.ClosedAt = &now
	ticket.UpdatedAt = now
	return s.repo.UpdateTicket(ctx, ticket)
}

// FAQs

func (s *SupportService) ListFAQs(ctx context.Context, f domain.FAQFilter, p domain.Page) ([]domain.FAQ, domain.PageMeta, error) {
	faqs, total, err := s.repo.ListFAQs(ctx, f, p)
	if err != nil {
		return nil, domain.PageMeta{}, err
	}
	return faqs, p.Meta(total), nil
}

// GetFAQ counts the read as a view.
func (s *SupportService) GetFAQ(ctx context.Context, id string) (*domain.FAQ, error) {
	faq, err := s.repo.FindFAQ(ctx, id)
	if err != nil {
		return nil, err
	}
	if !faq.IsActive {
		return nil, domain.NotFound("faq not found")
	}
	if err := s.repo.IncrementFAQViews(ctx, faq.ID); err != nil {
		log.Printf("support: view count for faq %s failed: %v", faq.ID, err)
	}
	return faq, nil
}

func (s *SupportService) MarkFAQHelpful(ctx context.Context, id string) error {
	faq, err := s.repo.FindFAQ(ctx, id)
	if err != nil {
		return err
	}
	if !faq.IsActive {
		return domain.NotFound("faq not found")
	}
	return s.repo.IncrementFAQHelpful(ctx, faq.ID)
}

func (s *SupportService) FAQCategories(ctx context.Context) ([]string, error) {
	return s.repo.FAQCategories(ctx)
}

// Stats

func (s *SupportService) GetStats(ctx context.Context, userID string) (*domain.SupportStats, error) {
	stats := &domain.SupportStats{}
	var err error

	if stats.Tickets.Total, err = s.repo.CountTickets(ctx, userID, false); err != nil {
		return nil, err
	}
	if stats.Tickets.Open, err = s.repo.CountTickets(ctx, userID, true); err != nil {
		return nil, err
	}
	if stats.Disputes.Total, err = s.repo.CountDisputes(ctx, userID, false); err != nil {
		return nil, err
	}
	if stats.Disputes.Open, err = s.repo.CountDisputes(ctx, userID, true); err != nil {
		return nil, err
	}
	return stats, nil
}

// ticketNumber builds a human-quotable reference like TKT-SX3K2M-4F21.
func (s *SupportService) ticketNumber() string {
	stamp := strings.ToUpper(strconv.FormatInt(s.now().Unix(), 36))
	suffix := make([]byte, 2)
	rand.Read(suffix)
	return "TKT-" + stamp + "-" + strings.ToUpper(hex.EncodeToString(suffix))
}

func (s *SupportService) publish(ctx context.Context, key string, event any) {
	if err := s.publisher.Publish(ctx, key, event); err != nil {
		log.Printf("support: publish %s failed: %v", key, err)
	}
}
