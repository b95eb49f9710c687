package domain

import "time"

type Dispute struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Category    string    `json:"category"` // billing, service-quality, appointment, prescription, technical, other
	Priority    string    `json:"priority"` // low, medium, high, urgent
	Subject     string    `json:"subject"`
	Description string    `json:"description,omitempty"`
	Status      string    `json:"status"` // open, assigned, in-progress, resolved, closed
	Feedback    string    `json:"feedback,omitempty"`
	Rating      *int      `json:"rating,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (d *Dispute) Terminal() bool {
	return d.Status == "resolved" || d.Status == "closed"
}

type SupportTicket struct {
	ID             string          `json:"id"`
	UserID         string          `json:"user_id"`
	TicketNumber   string          `json:"ticket_number"`
	Category       string          `json:"category"` // technical, account, billing, feature-request, general
	Priority       string          `json:"priority"`
	Subject        string          `json:"subject"`
	Description    string          `json:"description,omitempty"`
	Status         string          `json:"status"` // open, assigned, in-progress, waiting-customer, resolved, closed
	LastResponseAt *time.Time      `json:"last_response_at,omitempty"`
	ClosedAt       *time.Time      `json:"closed_at,omitempty"`
	Messages       []TicketMessage `json:"messages,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

func (t *SupportTicket) Terminal() bool {
	return t.Status == "resolved" || t.Status == "closed"
}

type TicketMessage struct {
	ID         string    `json:"id"`
	TicketID   string    `json:"ticket_id"`
	SenderID   string    `json:"sender_id"`
	SenderType string    `json:"sender_type"` // user, support
	Message    string    `json:"message"`
	IsInternal bool      `json:"is_internal"`
	CreatedAt  time.Time `json:"created_at"`
}

type FAQ struct {
	ID           string    `json:"id"`
	Category     string    `json:"category"`
	Question     string    `json:"question"`
	Answer       string    `json:"answer"`
	DisplayOrder int       `json:"display_order"`
	ViewCount    int       `json:"view_count"`
	HelpfulCount int       `json:"helpful_count"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
}

type DisputeFilter struct {
	Status   string
	Category string
	Priority string
}

type TicketFilter struct {
	Status   string
	Category string
	Priority string
}

type FAQFilter struct {
	Category string
	Search   string
}

// SupportStats summarizes a user's open support load.
type SupportStats struct {
	Tickets  CountPair `json:"tickets"`
	Disputes CountPair `json:"disputes"`
}

type CountPair struct {
	Total int `json:"total"`
	Open  int `json:"open"`
}
