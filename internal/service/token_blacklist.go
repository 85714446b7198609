package service

import (
	"context"
	"fmt"
	"time"

	"github.com/HYG-0822/myauth/pkg/database"
)

// TokenBlacklistService tracks revoked refresh token IDs in Redis. Entries
// are keyed by jti and expire together with the token itself, so the set
// stays bounded without a cleanup job.
type TokenBlacklistService struct {
	redis *database.Redis
}

// NewTokenBlacklistService creates a new token blacklist service
func NewTokenBlacklistService(redis *database.Redis) *TokenBlacklistService {
	return &TokenBlacklistService{redis: redis}
}

// AddJTI blacklists a token id until its natural expiry
func (s *TokenBlacklistService) AddJTI(ctx context.Context, jti string, expiry time.Duration) error {
	key := fmt.Sprintf("blacklist:jti:%s", jti)
	if err := s.redis.Client.Set(ctx, key, "1", expiry).Err(); err != nil {
		return fmt.Errorf("failed to blacklist token id: %w", err)
	}
	return nil
}

// IsBlacklisted checks whether a token id has been revoked
func (s *TokenBlacklistService) IsBlacklisted(ctx context.Context, jti string) (bool, error) {
	key := fmt.Sprintf("blacklist:jti:%s", jti)
	exists, err := s.redis.Client.Exists(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check token blacklist: %w", err)
	}
	return exists > 0, nil
}
