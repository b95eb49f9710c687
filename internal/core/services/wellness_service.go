package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/arogyahq/care-platform/internal/core/domain"
	"github.com/arogyahq/care-platform/internal/core/ports"
)

type WellnessService struct {
	repo ports.WellnessRepository
	now  func() time.Time
}

func NewWellnessService(repo ports.WellnessRepository) *WellnessService {
	return &WellnessService{repo: repo, now: time.Now}
}

func (s *WellnessService) ListDietPlans(ctx context.Context, f domain.WellnessFilter, p domain.Page) ([]domain.DietPlan, domain.PageMeta, error) {
	plans, total, err := s.repo.ListDietPlans(ctx, f, p)
	if err != nil {
		return nil, domain.PageMeta{}, err
	}
	return plans, p.Meta(total), nil
}

func (s *WellnessService) GetDietPlan(ctx context.Context, id string) (*domain.DietPlan, error) {
	plan, err := s.repo.FindDietPlan(ctx, id)
	if err != nil {
		return nil, err
	}
	if !plan.IsActive {
		return nil, domain.NotFound("diet plan not found")
	}
	return plan, nil
}

func (s *WellnessService) ListExercisePrograms(ctx context.Context, f domain.WellnessFilter, p domain.Page) ([]domain.ExerciseProgram, domain.PageMeta, error) {
	programs, total, err := s.repo.ListExercisePrograms(ctx, f, p)
	if err != nil {
		return nil, domain.PageMeta{}, err
	}
	return programs, p.Meta(total), nil
}

func (s *WellnessService) GetExerciseProgram(ctx context.Context, id string) (*domain.ExerciseProgram, error) {
	program, err := s.repo.FindExerciseProgram(ctx, id)
	if err != nil {
		return nil, err
	}
	if !program.IsActive {
		return nil, domain.NotFound("exercise program not found")
	}
	return program, nil
}

func (s *WellnessService) ListYogaSessions(ctx context.Context, f domain.WellnessFilter, p domain.Page) ([]domain.YogaSession, domain.PageMeta, error) {
	sessions, total, err := s.repo.ListYogaSessions(ctx, f, p)
	if err != nil {
		return nil, domain.PageMeta{}, err
	}
	return sessions, p.Meta(total), nil
}

func (s *WellnessService) GetYogaSession(ctx context.Context, id string) (*domain.YogaSession, error) {
	session, err := s.repo.FindYogaSession(ctx, id)
	if err != nil {
		return nil, err
	}
	if !session.IsActive {
		return nil, domain.NotFound("yoga session not found")
	}
	return session, nil
}

// Subscriptions

type SubscribeInput struct {
	Type       domain.SubscriptionType `json:"type"`
	ResourceID string                  `json:"resource_id"`
}

// Subscribe enforces at most one active subscription per content type.
func (s *WellnessService) Subscribe(ctx context.Context, userID string, in SubscribeInput) (*domain.WellnessSubscription, error) {
	switch in.Type {
	case domain.SubscriptionDiet, domain.SubscriptionExercise, domain.SubscriptionYoga, domain.SubscriptionCombo:
	default:
		return nil, domain.Validation(fmt.Sprintf("unknown subscription type %q", in.Type))
	}

	if in.ResourceID != "" {
		if err := s.checkResource(ctx, in.Type, in.ResourceID); err != nil {
			return nil, err
		}
	}

	existing, err := s.repo.FindActiveSubscriptionByType(ctx, userID, in.Type)
	if err != nil && domain.ClassOf(err) != domain.ClassNotFound {
		return nil, err
	}
	if existing != nil {
		return nil, domain.Conflict(fmt.Sprintf("an active %s subscription already exists", in.Type))
	}

	sub := &domain.WellnessSubscription{
		ID:         uuid.NewString(),
		UserID:     userID,
		Type:       in.Type,
		ResourceID: in.ResourceID,
		Status:     domain.SubscriptionActive,
		Progress:   map[string]any{},
		CreatedAt:  s.now(),
		UpdatedAt:  s.now(),
	}
	if err := s.repo.CreateSubscription(ctx, sub); err != nil {
		return nil, err
	}
	return sub, nil
}

func (s *WellnessService) ListSubscriptions(ctx context.Context, userID string, f domain.SubscriptionFilter, p domain.Page) ([]domain.WellnessSubscription, domain.PageMeta, error) {
	subs, total, err := s.repo.ListSubscriptions(ctx, userID, f, p)
	if err != nil {
		return nil, domain.PageMeta{}, err
	}
	return subs, p.Meta(total), nil
}

func (s *WellnessService) GetSubscription(ctx context.Context, userID, id string) (*domain.WellnessSubscription, error) {
	return s.repo.FindSubscription(ctx, id, userID)
}

func (s *WellnessService) PauseSubscription(ctx context.Context, userID, id string) (*domain.WellnessSubscription, error) {
	sub, err := s.repo.FindSubscription(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if sub.Status != domain.SubscriptionActive {
		return nil, domain.Conflict("only active subscriptions can be paused")
	}
	sub.Status = domain.SubscriptionPaused
	sub.UpdatedAt = s.now()
	if err := s.repo.UpdateSubscription(ctx, sub); err != nil {
		return nil, err
	}
	return sub, nil
}

func (s *WellnessService) ResumeSubscription(ctx context.Context, userID, id string) (*domain.WellnessSubscription, error) {
	sub, err := s.repo.FindSubscription(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if sub.Status != domain.SubscriptionPaused {
		return nil, domain.Conflict("only paused subscriptions can be resumed")
	}
	sub.Status = domain.SubscriptionActive
	sub.UpdatedAt = s.now()
	if err := s.repo.UpdateSubscription(ctx, sub); err != nil {
		return nil, err
	}
	return sub, nil
}

func (s *WellnessService) CancelSubscription(ctx context.Context, userID, id string) error {
	sub, err := s.repo.FindSubscription(ctx, id, userID)
	if err != nil {
		return err
	}
	if sub.Status == domain.SubscriptionCancelled || sub.Status == domain.SubscriptionCompleted {
		return domain.Conflict("subscription is already finished")
	}
	sub.Status = domain.SubscriptionCancelled
	sub.UpdatedAt = s.now()
	return s.repo.UpdateSubscription(ctx, sub)
}

// UpdateProgress merges the given keys into the subscription's progress map
// and marks the subscription completed when the payload says so.
func (s *WellnessService) UpdateProgress(ctx context.Context, userID, id string, progress map[string]any) (*domain.WellnessSubscription, error) {
	sub, err := s.repo.FindSubscription(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if sub.Status != domain.SubscriptionActive {
		return nil, domain.Conflict("progress can only be recorded on an active subscription")
	}

	if sub.Progress == nil {
		sub.Progress = map[string]any{}
	}
	for k, v := range progress {
		sub.Progress[k] = v
	}
	if done, ok := sub.Progress["completed"].(bool); ok && done {
		sub.Status = domain.SubscriptionCompleted
	}
	sub.UpdatedAt = s.now()

	if err := s.repo.UpdateSubscription(ctx, sub); err != nil {
		return nil, err
	}
	return sub, nil
}

// Recommendations bundles beginner-friendly content the user has no active
// subscription for yet.
type Recommendations struct {
	DietPlans        []domain.DietPlan        `json:"diet_plans"`
	ExercisePrograms []domain.ExerciseProgram `json:"exercise_programs"`
	YogaSessions     []domain.YogaSession     `json:"yoga_sessions"`
}

func (s *WellnessService) Recommend(ctx context.Context, userID string) (*Recommendations, error) {
	rec := &Recommendations{
		DietPlans:        []domain.DietPlan{},
		ExercisePrograms: []domain.ExerciseProgram{},
		YogaSessions:     []domain.YogaSession{},
	}
	top := domain.Page{Page: 1, Limit: 3}

	if s.noActive(ctx, userID, domain.SubscriptionDiet) {
		plans, _, err := s.repo.ListDietPlans(ctx, domain.WellnessFilter{Category: "general"}, top)
		if err != nil {
			return nil, err
		}
		rec.DietPlans = plans
	}
	if s.noActive(ctx, userID, domain.SubscriptionExercise) {
		programs, _, err := s.repo.ListExercisePrograms(ctx, domain.WellnessFilter{Level: "beginner"}, top)
		if err != nil {
			return nil, err
		}
		rec.ExercisePrograms = programs
	}
	if s.noActive(ctx, userID, domain.SubscriptionYoga) {
		sessions, _, err := s.repo.ListYogaSessions(ctx, domain.WellnessFilter{Level: "beginner"}, top)
		if err != nil {
			return nil, err
		}
		rec.YogaSessions = sessions
	}
	return rec, nil
}

func (s *WellnessService) noActive(ctx context.Context, userID string, t domain.SubscriptionType) bool {
	sub, err := s.repo.FindActiveSubscriptionByType(ctx, userID, t)
	return err != nil || sub == nil
}

func (s *WellnessService) checkResource(ctx context.Context, t domain.SubscriptionType, id string) error {
	switch t {
	case domain.SubscriptionDiet:
		_, err := s.GetDietPlan(ctx, id)
		return err
	case domain.SubscriptionExercise:
		_, err := s.GetExerciseProgram(ctx, id)
		return err
	case domain.SubscriptionYoga:
		_, err := s.GetYogaSession(ctx, id)
		return err
	}
	return nil
}
