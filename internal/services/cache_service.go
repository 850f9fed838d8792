package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"gopilot/pkg/logger"

	"github.com/redis/go-redis/v9"
)

// CacheService is the cache-aside layer the repositories read through.
// Errors from Get are returned so callers can fall through to the database;
// write failures are logged and swallowed, the cache is best effort.
type CacheService interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	Exists(ctx context.Context, key string) (bool, error)

	// Increment bumps a counter, setting the expiration when the key is new.
	// Used for the login rate limiter.
	Increment(ctx context.Context, key string, window time.Duration) (int64, error)

	Ping(ctx context.Context) error
}

type cacheService struct {
	client    *redis.Client
	keyPrefix string
	logger    *logger.Logger
}

func NewCacheService(client *redis.Client, keyPrefix string, log *logger.Logger) CacheService {
	return &cacheService{
		client:    client,
		keyPrefix: keyPrefix,
		logger:    log,
	}
}

func (s *cacheService) key(key string) string {
	if s.keyPrefix == "" {
		return key
	}
	return s.keyPrefix + key
}

func (s *cacheService) Get(ctx context.Context, key string, dest interface{}) error {
	data, err := s.client.Get(ctx, s.key(key)).Result()
	if err != nil {
		if err == redis.Nil {
			return fmt.Errorf("cache miss for key %s", key)
		}
		return fmt.Errorf("cache get failed: %w", err)
	}

	if err := json.Unmarshal([]byte(data), dest); err != nil {
		return fmt.Errorf("cache unmarshal failed: %w", err)
	}
	return nil
}

func (s *cacheService) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache marshal failed: %w", err)
	}

	if err := s.client.Set(ctx, s.key(key), data, expiration).Err(); err != nil {
		if s.logger != nil {
			s.logger.WithError(err).WithField("key", key).Warn("cache set failed")
		}
		return fmt.Errorf("cache set failed: %w", err)
	}
	return nil
}

func (s *cacheService) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}

	prefixed := make([]string, len(keys))
	for i, k := range keys {
		prefixed[i] = s.key(k)
	}

	if err := s.client.Del(ctx, prefixed...).Err(); err != nil {
		if s.logger != nil {
			s.logger.WithError(err).Warn("cache delete failed")
		}
		return fmt.Errorf("cache delete failed: %w", err)
	}
	return nil
}

func (s *cacheService) Exists(ctx context.Context, key string) (bool, error) {
	n, err := s.client.Exists(ctx, s.key(key)).Result()
	if err != nil {
		return false, fmt.Errorf("cache exists failed: %w", err)
	}
	return n > 0, nil
}

func (s *cacheService) Increment(ctx context.Context, key string, window time.Duration) (int64, error) {
	k := s.key(key)

	count, err := s.client.Incr(ctx, k).Result()
	if err != nil {
		return 0, fmt.Errorf("cache increment failed: %w", err)
	}

	if count == 1 && window > 0 {
		if err := s.client.Expire(ctx, k, window).Err(); err != nil && s.logger != nil {
			s.logger.WithError(err).WithField("key", key).Warn("cache expire failed")
		}
	}

	return count, nil
}

func (s *cacheService) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
