package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

var ErrOTPNotFound = errors.New("otp not found or expired")

// OTPStore keeps one live code per (purpose, email). Expiry is left to Redis.
type OTPStore interface {
	Save(ctx context.Context, purpose, email, code string, ttl time.Duration) error
	Get(ctx context.Context, purpose, email string) (string, error)
	Delete(ctx context.Context, purpose, email string) error
}

type redisOTPStore struct {
	client *redis.Client
}

func NewOTPStore(client *redis.Client) OTPStore {
	return &redisOTPStore{client: client}
}

func otpKey(purpose, email string) string {
	return fmt.Sprintf("otp:%s:%s", purpose, strings.ToLower(strings.TrimSpace(email)))
}

func (s *redisOTPStore) Save(ctx context.Context, purpose, email, code string, ttl time.Duration) error {
	return s.client.Set(ctx, otpKey(purpose, email), code, ttl).Err()
}

func (s *redisOTPStore) Get(ctx context.Context, purpose, email string) (string, error) {
	code, err := s.client.Get(ctx, otpKey(purpose, email)).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrOTPNotFound
	}
	return code, err
}

func (s *redisOTPStore) Delete(ctx context.Context, purpose, email string) error {
	return s.client.Del(ctx, otpKey(purpose, email)).Err()
}
