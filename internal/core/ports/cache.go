package ports

import (
	"context"
	"time"
)

// TokenStore is the key-value session cache. Refresh tokens are keyed by
// user id and unconditionally overwritten on login/refresh; reset tokens
// are keyed by the token itself and resolve to a user id.
type TokenStore interface {
	SaveRefreshToken(ctx context.Context, userID, token string, ttl time.Duration) error
	GetRefreshToken(ctx context.Context, userID string) (string, error)
	DeleteRefreshToken(ctx context.Context, userID string) error

	SaveResetToken(ctx context.Context, token, userID string, ttl time.Duration) error
	GetResetToken(ctx context.Context, token string) (string, error)
	DeleteResetToken(ctx context.Context, token string) error
}
