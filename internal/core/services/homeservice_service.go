package services

import (
	"context"
	"log"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/arogyahq/care-platform/internal/core/domain"
	"github.com/arogyahq/care-platform/internal/core/ports"
)

type HomeServiceService struct {
	repo      ports.HomeServiceRepository
	publisher ports.EventPublisher
	now       func() time.Time
}

func NewHomeServiceService(repo ports.HomeServiceRepository, publisher ports.EventPublisher) *HomeServiceService {
	return &HomeServiceService{repo: repo, publisher: publisher, now: time.Now}
}

func (s *HomeServiceService) ListServices(ctx context.Context, category string, p domain.Page) ([]domain.HomeService, domain.PageMeta, error) {
	services, total, err := s.repo.ListServices(ctx, category, p)
	if err != nil {
		return nil, domain.PageMeta{}, err
	}
	return services, p.Meta(total), nil
}

func (s *HomeServiceService) GetService(ctx context.Context, id string) (*domain.HomeService, error) {
	service, err := s.repo.FindService(ctx, id)
	if err != nil {
		return nil, err
	}
	if !service.IsActive {
		return nil, domain.NotFound("home service not found")
	}
	return service, nil
}

func (s *HomeServiceService) ListProviders(ctx context.Context, f domain.ProviderFilter, p domain.Page) ([]domain.ServiceProvider, domain.PageMeta, error) {
	providers, total, err := s.repo.ListProviders(ctx, f, p)
	if err != nil {
		return nil, domain.PageMeta{}, err
	}
	return providers, p.Meta(total), nil
}

func (s *HomeServiceService) GetProvider(ctx context.Context, id string) (*domain.ServiceProvider, error) {
	provider, err := s.repo.FindProvider(ctx, id)
	if err != nil {
		return nil, err
	}
	if !provider.IsActive || !provider.IsVerified {
		return nil, domain.NotFound("service provider not found")
	}
	return provider, nil
}

// Bookings

type HomeBookingInput struct {
	ServiceID     string    `json:"service_id"`
	ProviderID    string    `json:"provider_id"`
	ScheduledDate time.Time `json:"scheduled_date"`
	DurationHours float64   `json:"duration_hours"`
	Address       string    `json:"address"`
}

func (s *HomeServiceService) BookService(ctx context.Context, userID string, in HomeBookingInput) (*domain.HomeServiceBooking, error) {
	service, err := s.GetService(ctx, in.ServiceID)
	if err != nil {
		return nil, err
	}

	if in.ProviderID != "" {
		provider, err := s.GetProvider(ctx, in.ProviderID)
		if err != nil {
			return nil, err
		}
		if !provider.Offers(service.ID) {
			return nil, domain.Validation("provider does not offer this service")
		}
	}

	booking := &domain.HomeServiceBooking{
		ID:            uuid.NewString(),
		UserID:        userID,
		ServiceID:     service.ID,
		ProviderID:    in.ProviderID,
		ScheduledDate: in.ScheduledDate,
		DurationHours: in.DurationHours,
		Address:       in.Address,
		Status:        domain.HomeBookingRequested,
		TotalAmount:   service.HourlyRate * in.DurationHours,
		CreatedAt:     s.now(),
		UpdatedAt:     s.now(),
	}
	if err := s.repo.CreateBooking(ctx, booking); err != nil {
		return nil, err
	}

	if booking.ProviderID != "" {
		s.notifyProvider(ctx, booking, "new_booking")
	} else {
		s.assignProvider(ctx, booking)
	}
	return booking, nil
}

func (s *HomeServiceService) ListBookings(ctx context.Context, userID string, f domain.StatusFilter, p domain.Page) ([]domain.HomeServiceBooking, domain.PageMeta, error) {
	bookings, total, err := s.repo.ListBookings(ctx, userID, f, p)
	if err != nil {
		return nil, domain.PageMeta{}, err
	}
	return bookings, p.Meta(total), nil
}

type HomeBookingUpdateInput struct {
	ScheduledDate *time.Time `json:"scheduled_date"`
	DurationHours *float64   `json:"duration_hours"`
	Address       string     `json:"address"`
}

func (s *HomeServiceService) UpdateBooking(ctx context.Context, userID, bookingID string, in HomeBookingUpdateInput) (*domain.HomeServiceBooking, error) {
	booking, err := s.repo.FindBooking(ctx, bookingID, userID)
	if err != nil {
		return nil, err
	}
	if booking.Terminal() {
		return nil, domain.Conflict("cannot update completed or cancelled booking")
	}

	if in.ScheduledDate != nil {
		booking.ScheduledDate = *in.ScheduledDate
	}
	if in.DurationHours != nil {
		booking.DurationHours = *in.DurationHours
	}
	if in.Address != "" {
		booking.Address = in.Address
	}
	booking.UpdatedAt = s.now()

	if err := s.repo.UpdateBooking(ctx, booking); err != nil {
		return nil, err
	}
	return booking, nil
}

func (s *HomeServiceService) CancelBooking(ctx context.Context, userID, bookingID string) error {
	booking, err := s.repo.FindBooking(ctx, bookingID, userID)
	if err != nil {
		return err
	}
	if booking.Status == domain.HomeBookingCancelled {
		return domain.Conflict("booking is already cancelled")
	}

	booking.Status = domain.HomeBookingCancelled
	booking.UpdatedAt = s.now()
	if err := s.repo.UpdateBooking(ctx, booking); err != nil {
		return err
	}

	if booking.ProviderID != "" {
		s.notifyProvider(ctx, booking, "booking_cancelled")
	}
	return nil
}

// RateBooking records a one-time rating against a completed booking and
// refreshes the provider's average.
func (s *HomeServiceService) RateBooking(ctx context.Context, userID, bookingID string, rating int, feedback string) error {
	if rating < 1 || rating > 5 {
		return domain.Validation("rating must be between 1 and 5")
	}

	booking, err := s.repo.FindBooking(ctx, bookingID, userID)
	if err != nil {
		return err
	}
	if booking.Status != domain.HomeBookingCompleted {
		return domain.NotFound("completed booking not found")
	}
	if booking.Rating != nil {
		return domain.Conflict("booking already rated")
	}

	booking.Rating = &rating
	booking.Feedback = feedback
	booking.UpdatedAt = s.now()
	if err := s.repo.UpdateBooking(ctx, booking); err != nil {
		return err
	}

	if booking.ProviderID != "" {
		avg, n, err := s.repo.AverageProviderRating(ctx, booking.ProviderID)
		if err != nil {
			log.Printf("home-service: rating refresh for provider %s failed: %v", booking.ProviderID, err)
			return nil
		}
		if n > 0 {
			rounded := math.Round(avg*100) / 100
			if err := s.repo.SetProviderRating(ctx, booking.ProviderID, rounded); err != nil {
				log.Printf("home-service: rating write for provider %s failed: %v", booking.ProviderID, err)
			}
		}
	}
	return nil
}

// Assistance requests

type AssistanceInput struct {
	Type        string `json:"type"`
	Priority    string `json:"priority"`
	Description string `json:"description"`
}

func (s *HomeServiceService) CreateAssistanceRequest(ctx context.Context, userID string, in AssistanceInput) (*domain.AssistanceRequest, error) {
	priority := in.Priority
	if priority == "" {
		priority = "medium"
	}

	request := &domain.AssistanceRequest{
		ID:          uuid.NewString(),
		UserID:      userID,
		Type:        in.Type,
		Priority:    priority,
		Description: in.Description,
		Status:      "open",
		CreatedAt:   s.now(),
		UpdatedAt:   s.now(),
	}
	if err := s.repo.CreateAssistanceRequest(ctx, request); err != nil {
		return nil, err
	}

	s.publish(ctx, ports.RouteNotifySupport, map[string]any{
		"type":         "assistance_request",
		"request_id":   request.ID,
		"user_id":      userID,
		"priority":     request.Priority,
		"request_type": request.Type,
		"timestamp":    request.CreatedAt,
	})
	return request, nil
}

func (s *HomeServiceService) ListAssistanceRequests(ctx context.Context, userID string, f domain.AssistanceFilter, p domain.Page) ([]domain.AssistanceRequest, domain.PageMeta, error) {
	requests, total, err := s.repo.ListAssistanceRequests(ctx, userID, f, p)
	if err != nil {
		return nil, domain.PageMeta{}, err
	}
	return requests, p.Meta(total), nil
}

type AssistanceUpdateInput struct {
	Description string `json:"description"`
	Status      string `json:"status"`
}

func (s *HomeServiceService) UpdateAssistanceRequest(ctx context.Context, userID, requestID string, in AssistanceUpdateInput) (*domain.AssistanceRequest, error) {
	request, err := s.repo.FindAssistanceRequest(ctx, requestID, userID)
	if err != nil {
		return nil, err
	}

	if in.Description != "" {
		request.Description = in.Description
	}
	if in.Status != "" {
		request.Status = in.Status
		if in.Status == "completed" && request.CompletedAt == nil {
			now := s.now()
			request.CompletedAt = &now
		}
	}
	request.UpdatedAt = s.now()

	if err := s.repo.UpdateAssistanceRequest(ctx, request); err != nil {
		return nil, err
	}
	return request, nil
}

// CancelAssistanceRequest only works while the request is still open.
func (s *HomeServiceService) CancelAssistanceRequest(ctx context.Context, userID, requestID string) error {
	request, err := s.repo.FindAssistanceRequest(ctx, requestID, userID)
	if err != nil {
		return err
	}
	if request.Status != "open" {
		return domain.Conflict("cannot cancel an assigned or completed request")
	}

	request.Status = "cancelled"
	request.UpdatedAt = s.now()
	return s.repo.UpdateAssistanceRequest(ctx, request)
}

func (s *HomeServiceService) assignProvider(ctx context.Context, booking *domain.HomeServiceBooking) {
	provider, err := s.repo.BestProviderForService(ctx, booking.ServiceID)
	if err != nil {
		// No provider available; leave the booking requested and flag it.
		s.publish(ctx, ports.RouteNotifyAdmin, map[string]any{
			"type":       "provider_needed",
			"booking_id": booking.ID,
			"service_id": booking.ServiceID,
			"location":   booking.Address,
			"timestamp":  s.now(),
		})
		return
	}

	booking.ProviderID = provider.ID
	booking.Status = domain.HomeBookingAssigned
	booking.UpdatedAt = s.now()
	if err := s.repo.UpdateBooking(ctx, booking); err != nil {
		log.Printf("home-service: provider assignment for booking %s failed: %v", booking.ID, err)
		return
	}
	s.notifyProvider(ctx, booking, "new_booking")
}

func (s *HomeServiceService) notifyProvider(ctx context.Context, booking *domain.HomeServiceBooking, eventType string) {
	s.publish(ctx, ports.RouteNotifyServiceProvider, map[string]any{
		"type":           eventType,
		"provider_id":    booking.ProviderID,
		"booking_id":     booking.ID,
		"user_id":        booking.UserID,
		"scheduled_date": booking.ScheduledDate,
		"duration_hours": booking.DurationHours,
		"address":        booking.Address,
		"timestamp":      s.now(),
	})
}

func (s *HomeServiceService) publish(ctx context.Context, key string, event any) {
	if err := s.publisher.Publish(ctx, key, event); err != nil {
		log.Printf("home-service: publish %s failed: %v", key, err)
	}
}
