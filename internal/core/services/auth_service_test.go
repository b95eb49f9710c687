package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/arogyahq/care-platform/internal/core/domain"
)

const testSecret = "test-secret"

func newAuthServiceForTest(users *mockUserRepo, tokens *mockTokenStore) *AuthService {
	return NewAuthService(users, tokens, testSecret, 15*time.Minute, 7*24*time.Hour, 15*time.Minute)
}

func seedUser(t *testing.T, users *mockUserRepo, email, password string, active bool) *domain.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	u := &domain.User{
		ID:       "user-" + email,
		Email:    email,
		Password: string(hash),
		IsActive: active,
	}
	users.add(u)
	return u
}

func TestAuthService_Register(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		users := newMockUserRepo()
		tokens := newMockTokenStore()
		svc := newAuthServiceForTest(users, tokens)

		result, err := svc.Register(context.Background(), RegisterInput{
			Email:     "new@example.com",
			Password:  "s3cret",
			FirstName: "Asha",
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.User.ID == "" || !result.User.IsActive {
			t.Error("expected an active user with an id")
		}
		if result.Tokens.AccessToken == "" || result.Tokens.RefreshToken == "" {
			t.Error("expected both tokens to be issued")
		}
		if result.User.Password == "s3cret" {
			t.Error("password must be stored hashed")
		}
		if tokens.refresh[result.User.ID] != result.Tokens.RefreshToken {
			t.Error("refresh token must be cached under the user id")
		}
	})

	t.Run("duplicate_email", func(t *testing.T) {
		users := newMockUserRepo()
		seedUser(t, users, "taken@example.com", "whatever", true)
		svc := newAuthServiceForTest(users, newMockTokenStore())

		_, err := svc.Register(context.Background(), RegisterInput{Email: "taken@example.com", Password: "pw"})
		if domain.ClassOf(err) != domain.ClassConflict {
			t.Errorf("got %v, want conflict", err)
		}
	})
}

func TestAuthService_Login(t *testing.T) {
	tests := []struct {
		name     string
		email    string
		password string
		active   bool
		tryEmail string
		tryPass  string
		wantErr  bool
	}{
		{"success", "a@example.com", "correct", true, "a@example.com", "correct", false},
		{"wrong_password", "a@example.com", "correct", true, "a@example.com", "wrong", true},
		{"unknown_email", "a@example.com", "correct", true, "b@example.com", "correct", true},
		{"deactivated_account", "a@example.com", "correct", false, "a@example.com", "correct", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := newMockUserRepo()
			seedUser(t, users, tt.email, tt.password, tt.active)
			svc := newAuthServiceForTest(users, newMockTokenStore())

			result, err := svc.Login(context.Background(), tt.tryEmail, tt.tryPass)
			if tt.wantErr {
				if domain.ClassOf(err) != domain.ClassUnauthenticated {
					t.Errorf("got %v, want unauthenticated", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if result.User.LastLoginAt == nil {
				t.Error("login must stamp LastLoginAt")
			}
		})
	}
}

func TestAuthService_Refresh(t *testing.T) {
	users := newMockUserRepo()
	tokens := newMockTokenStore()
	user := seedUser(t, users, "a@example.com", "pw", true)
	svc := newAuthServiceForTest(users, tokens)

	result, err := svc.Login(context.Background(), "a@example.com", "pw")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	t.Run("valid_refresh", func(t *testing.T) {
		refreshed, err := svc.Refresh(context.Background(), result.Tokens.RefreshToken)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if refreshed.User.ID != user.ID {
			t.Errorf("refreshed user %s, want %s", refreshed.User.ID, user.ID)
		}
	})

	t.Run("garbage_token", func(t *testing.T) {
		_, err := svc.Refresh(context.Background(), "not-a-jwt")
		if domain.ClassOf(err) != domain.ClassUnauthenticated {
			t.Errorf("got %v, want unauthenticated", err)
		}
	})

	t.Run("rejected_after_logout", func(t *testing.T) {
		login, err := svc.Login(context.Background(), "a@example.com", "pw")
		if err != nil {
			t.Fatalf("login: %v", err)
		}
		if err := svc.Logout(context.Background(), user.ID); err != nil {
			t.Fatalf("logout: %v", err)
		}
		if _, err := svc.Refresh(context.Background(), login.Tokens.RefreshToken); domain.ClassOf(err) != domain.ClassUnauthenticated {
			t.Errorf("got %v, want unauthenticated", err)
		}
	})
}

func TestAuthService_ChangePassword(t *testing.T) {
	users := newMockUserRepo()
	tokens := newMockTokenStore()
	user := seedUser(t, users, "a@example.com", "old-pw", true)
	tokens.refresh[user.ID] = "some-refresh-token"
	svc := newAuthServiceForTest(users, tokens)

	if err := svc.ChangePassword(context.Background(), user.ID, "wrong", "new-pw"); domain.ClassOf(err) != domain.ClassValidation {
		t.Errorf("wrong current password: got %v, want validation", err)
	}

	if err := svc.ChangePassword(context.Background(), user.ID, "old-pw", "new-pw"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := tokens.refresh[user.ID]; ok {
		t.Error("refresh token must be dropped on password change")
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("new-pw")) != nil {
		t.Error("stored hash must match the new password")
	}
}

func TestAuthService_ForgotPassword_NeverRevealsExistence(t *testing.T) {
	users := newMockUserRepo()
	seedUser(t, users, "known@example.com", "pw", true)
	tokens := newMockTokenStore()
	svc := newAuthServiceForTest(users, tokens)

	knownMsg, err := svc.ForgotPassword(context.Background(), "known@example.com")
	if err != nil {
		t.Fatalf("known email: %v", err)
	}
	unknownMsg, err := svc.ForgotPassword(context.Background(), "unknown@example.com")
	if err != nil {
		t.Fatalf("unknown email: %v", err)
	}
	if knownMsg != unknownMsg {
		t.Errorf("responses differ: %q vs %q", knownMsg, unknownMsg)
	}
	if len(tokens.reset) != 1 {
		t.Errorf("expected exactly one reset token saved, got %d", len(tokens.reset))
	}
}

func TestAuthService_ResetPassword(t *testing.T) {
	users := newMockUserRepo()
	tokens := newMockTokenStore()
	user := seedUser(t, users, "a@example.com", "old-pw", true)
	tokens.reset["valid-token"] = user.ID
	tokens.refresh[user.ID] = "live-session"
	svc := newAuthServiceForTest(users, tokens)

	if err := svc.ResetPassword(context.Background(), "bogus", "new-pw"); domain.ClassOf(err) != domain.ClassValidation {
		t.Errorf("bogus token: got %v, want validation", err)
	}

	if err := svc.ResetPassword(context.Background(), "valid-token", "new-pw"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := tokens.reset["valid-token"]; ok {
		t.Error("reset token must be single use")
	}
	if _, ok := tokens.refresh[user.ID]; ok {
		t.Error("existing sessions must be revoked on reset")
	}
}

func TestAuthService_ResetPassword_StoreOutageIsNotValidation(t *testing.T) {
	users := newMockUserRepo()
	tokens := newMockTokenStore()
	seedUser(t, users, "a@example.com", "old-pw", true)
	tokens.GetResetErr = errors.New("circuit breaker is open")
	svc := newAuthServiceForTest(users, tokens)

	// An unreachable token store is an outage, not a bad token; reporting
	// it as "invalid or expired" would hide the failure from operators.
	err := svc.ResetPassword(context.Background(), "any-token", "new-pw")
	if err == nil {
		t.Fatal("expected an error when the token store is down")
	}
	if domain.ClassOf(err) != domain.ClassInternal {
		t.Errorf("error class = %v, want internal", domain.ClassOf(err))
	}
}

func TestAuthService_ParseToken(t *testing.T) {
	users := newMockUserRepo()
	seedUser(t, users, "a@example.com", "pw", true)
	svc := newAuthServiceForTest(users, newMockTokenStore())

	result, err := svc.Login(context.Background(), "a@example.com", "pw")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	sub, err := svc.ParseToken(result.Tokens.AccessToken)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if sub != result.User.ID {
		t.Errorf("subject = %q, want %q", sub, result.User.ID)
	}

	other := NewAuthService(users, newMockTokenStore(), "different-secret", time.Minute, time.Hour, time.Minute)
	if _, err := other.ParseToken(result.Tokens.AccessToken); err == nil {
		t.Error("token signed with another secret must not verify")
	}
}
