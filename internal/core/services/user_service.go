package services

import (
	"context"
	"time"

	"github.com/arogyahq/care-platform/internal/core/domain"
	"github.com/arogyahq/care-platform/internal/core/ports"
)

type UserService struct {
	users ports.UserRepository
	now   func() time.Time
}

func NewUserService(users ports.UserRepository) *UserService {
	return &UserService{users: users, now: time.Now}
}

func (s *UserService) GetProfile(ctx context.Context, userID string) (*domain.User, error) {
	return s.activeUser(ctx, userID)
}

func (s *UserService) UpdateProfile(ctx context.Context, userID string, in domain.UserProfileUpdate) (*domain.User, error) {
	user, err := s.activeUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	apply := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	apply(&user.FirstName, in.FirstName)
	apply(&user.LastName, in.LastName)
	apply(&user.Phone, in.Phone)
	apply(&user.Gender, in.Gender)
	apply(&user.Address, in.Address)
	apply(&user.City, in.City)
	apply(&user.State, in.State)
	apply(&user.ZipCode, in.ZipCode)
	apply(&user.Country, in.Country)
	apply(&user.ProfilePicture, in.ProfilePicture)
	if in.DateOfBirth != nil {
		user.DateOfBirth = in.DateOfBirth
	}
	user.UpdatedAt = s.now()

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// UpdatePreferences merges the given keys over the stored preference bag.
func (s *UserService) UpdatePreferences(ctx context.Context, userID string, prefs map[string]any) (*domain.User, error) {
	user, err := s.activeUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if user.Preferences == nil {
		user.Preferences = make(map[string]any)
	}
	for k, v := range prefs {
		user.Preferences[k] = v
	}
	user.UpdatedAt = s.now()

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) DeactivateAccount(ctx context.Context, userID string) error {
	user, err := s.activeUser(ctx, userID)
	if err != nil {
		return err
	}
	user.IsActive = false
	user.UpdatedAt = s.now()
	return s.users.Update(ctx, user)
}

func (s *UserService) GetStats(ctx context.Context, userID string) (*domain.UserStats, error) {
	user, err := s.activeUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &domain.UserStats{
		AccountAgeDays:  int(s.now().Sub(user.CreatedAt).Hours() / 24),
		JoinDate:        user.CreatedAt,
		LastLogin:       user.LastLoginAt,
		IsVerified:      user.IsVerified,
		ProfileComplete: profileCompleteness(user),
	}, nil
}

func (s *UserService) activeUser(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, domain.NotFound("user not found")
	}
	return user, nil
}

func profileCompleteness(u *domain.User) int {
	fields := []bool{
		u.FirstName != "",
		u.LastName != "",
		u.Email != "",
		u.Phone != "",
		u.DateOfBirth != nil,
		u.Gender != "",
		u.Address != "",
		u.City != "",
		u.State != "",
		u.ZipCode != "",
	}
	done := 0
	for _, set := range fields {
		if set {
			done++
		}
	}
	return done * 100 / len(fields)
}
