package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sony/gobreaker"

	"github.com/arogyahq/care-platform/internal/config"
	"github.com/arogyahq/care-platform/internal/core/domain"
	"github.com/arogyahq/care-platform/internal/core/ports"
)

// RedisTokenStore implements ports.TokenStore on Redis. A circuit breaker
// wraps every call so a flapping Redis fails fast instead of piling up
// blocked logins.
type RedisTokenStore struct {
	client *redis.Client
	cb     *gobreaker.CircuitBreaker
}

var _ ports.TokenStore = (*RedisTokenStore)(nil)

func NewRedisTokenStore(client *redis.Client) *RedisTokenStore {
	return &RedisTokenStore{
		client: client,
		cb:     config.NewCircuitBreaker("Redis-Tokens"),
	}
}

func refreshKey(userID string) string {
	return fmt.Sprintf("refresh_token:%s", userID)
}

func resetKey(token string) string {
	return fmt.Sprintf("reset_token:%s", token)
}

func (s *RedisTokenStore) SaveRefreshToken(ctx context.Context, userID, token string, ttl time.Duration) error {
	_, err := s.cb.Execute(func() (interface{}, error) {
		return nil, s.client.Set(ctx, refreshKey(userID), token, ttl).Err()
	})
	return err
}

func (s *RedisTokenStore) GetRefreshToken(ctx context.Context, userID string) (string, error) {
	return s.get(ctx, refreshKey(userID))
}

func (s *RedisTokenStore) DeleteRefreshToken(ctx context.Context, userID string) error {
	_, err := s.cb.Execute(func() (interface{}, error) {
		return nil, s.client.Del(ctx, refreshKey(userID)).Err()
	})
	return err
}

func (s *RedisTokenStore) SaveResetToken(ctx context.Context, token, userID string, ttl time.Duration) error {
	_, err := s.cb.Execute(func() (interface{}, error) {
		return nil, s.client.Set(ctx, resetKey(token), userID, ttl).Err()
	})
	return err
}

func (s *RedisTokenStore) GetResetToken(ctx context.Context, token string) (string, error) {
	return s.get(ctx, resetKey(token))
}

func (s *RedisTokenStore) DeleteResetToken(ctx context.Context, token string) error {
	_, err := s.cb.Execute(func() (interface{}, error) {
		return nil, s.client.Del(ctx, resetKey(token)).Err()
	})
	return err
}

func (s *RedisTokenStore) get(ctx context.Context, key string) (string, error) {
	v, err := s.cb.Execute(func() (interface{}, error) {
		val, err := s.client.Get(ctx, key).Result()
		if errors.Is(err, redis.Nil) {
			// A miss is an answer. Only real Redis errors may count
			// against the breaker.
			return nil, nil
		}
		return val, err
	})
	if err != nil {
		return "", err
	}
	if v == nil {
		return "", domain.NotFound("token not found")
	}
	return v.(string), nil
}
