package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/arogyahq/care-platform/internal/core/domain"
	"github.com/arogyahq/care-platform/internal/core/ports"
)

var errBadToken = errors.New("invalid token")

// TokenPair is what every successful authentication returns.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type AuthService struct {
	users      ports.UserRepository
	tokens     ports.TokenStore
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	resetTTL   time.Duration
	now        func() time.Time
}

func NewAuthService(users ports.UserRepository, tokens ports.TokenStore, secret string, accessTTL, refreshTTL, resetTTL time.Duration) *AuthService {
	return &AuthService{
		users:      users,
		tokens:     tokens,
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		resetTTL:   resetTTL,
		now:        time.Now,
	}
}

type RegisterInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Phone     string
}

type AuthResult struct {
	User   *domain.User `json:"user"`
	Tokens TokenPair    `json:"tokens"`
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	existing, err := s.users.FindByEmail(ctx, in.Email)
	if err != nil && domain.ClassOf(err) != domain.ClassNotFound {
		return nil, err
	}
	if existing != nil {
		return nil, domain.Conflict("user with this email already exists")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		ID:        uuid.NewString(),
		Email:     in.Email,
		Password:  string(hash),
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Phone:     in.Phone,
		IsActive:  true,
		Preferences: map[string]any{
			"notifications": map[string]any{"email": true, "sms": true, "push": true},
			"language":      "en",
		},
		CreatedAt: s.now(),
		UpdatedAt: s.now(),
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	tokens, err := s.issueTokens(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	return &AuthResult{User: user, Tokens: tokens}, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil || !user.IsActive {
		return nil, domain.Unauthenticated("invalid email or password")
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return nil, domain.Unauthenticated("invalid email or password")
	}

	now := s.now()
	user.LastLoginAt = &now
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}

	tokens, err := s.issueTokens(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	return &AuthResult{User: user, Tokens: tokens}, nil
}

func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*AuthResult, error) {
	userID, err := s.ParseToken(refreshToken)
	if err != nil {
		return nil, domain.Unauthenticated("invalid refresh token")
	}

	stored, err := s.tokens.GetRefreshToken(ctx, userID)
	if err != nil || stored != refreshToken {
		return nil, domain.Unauthenticated("invalid refresh token")
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil || !user.IsActive {
		return nil, domain.Unauthenticated("user not found or inactive")
	}

	tokens, err := s.issueTokens(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	return &AuthResult{User: user, Tokens: tokens}, nil
}

func (s *AuthService) Logout(ctx context.Context, userID string) error {
	return s.tokens.DeleteRefreshToken(ctx, userID)
}

func (s *AuthService) ChangePassword(ctx context.Context, userID, current, next string) error {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(current)) != nil {
		return domain.Validation("current password is incorrect")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(next), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user.Password = string(hash)
	user.UpdatedAt = s.now()
	if err := s.users.Update(ctx, user); err != nil {
		return err
	}

	// Drop the refresh token so stolen sessions die with the old password.
	return s.tokens.DeleteRefreshToken(ctx, userID)
}

// ForgotPassword never reveals whether the email exists.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) (string, error) {
	const reply = "If the email exists, a reset link has been sent"

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil || !user.IsActive {
		return reply, nil
	}

	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	resetToken := hex.EncodeToString(b)

	if err := s.tokens.SaveResetToken(ctx, resetToken, user.ID, s.resetTTL); err != nil {
		return "", err
	}
	return reply, nil
}

func (s *AuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	userID, err := s.tokens.GetResetToken(ctx, token)
	if domain.ClassOf(err) == domain.ClassNotFound || (err == nil && userID == "") {
		return domain.Validation("invalid or expired reset token")
	}
	if err != nil {
		return err
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user.Password = string(hash)
	user.UpdatedAt = s.now()
	if err := s.users.Update(ctx, user); err != nil {
		return err
	}

	if err := s.tokens.DeleteResetToken(ctx, token); err != nil {
		return err
	}
	return s.tokens.DeleteRefreshToken(ctx, userID)
}

// ParseToken validates an HS256 token and returns the subject user id.
// The middleware uses it for access tokens; Refresh reuses it for refresh
// tokens since both carry the same claims.
func (s *AuthService) ParseToken(raw string) (string, error) {
	token, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errBadToken
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return "", errBadToken
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", errBadToken
	}
	sub, _ := claims["sub"].(string)
	if sub == "" {
		return "", errBadToken
	}
	return sub, nil
}

func (s *AuthService) issueTokens(ctx context.Context, userID string) (TokenPair, error) {
	access, err := s.signToken(userID, s.accessTTL)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, err := s.signToken(userID, s.refreshTTL)
	if err != nil {
		return TokenPair{}, err
	}

	// Unconditional overwrite: one refresh token per user at a time.
	if err := s.tokens.SaveRefreshToken(ctx, userID, refresh, s.refreshTTL); err != nil {
		return TokenPair{}, err
	}
	return TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func (s *AuthService) signToken(userID string, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"sub": userID,
		"iat": s.now().Unix(),
		"exp": s.now().Add(ttl).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}
