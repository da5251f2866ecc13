// Package redis keeps the logged-out token denylist in Redis so that
// revocations are shared between API replicas.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker"

	"github.com/jwalitptl/ideabox-api/internal/repository"
	"github.com/jwalitptl/ideabox-api/pkg/circuitbreaker"
)

const keyPrefix = "ideabox:revoked:"

type Config struct {
	URL          string
	MaxRetries   int
	RetryBackoff time.Duration
	PoolSize     int
	MinIdleConns int
}

// NewClient parses cfg.URL, applies pool settings and pings the server.
func NewClient(ctx context.Context, cfg Config) (*redis.Client, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	if cfg.MaxRetries > 0 {
		opts.MaxRetries = cfg.MaxRetries
	}
	if cfg.RetryBackoff > 0 {
		opts.MinRetryBackoff = cfg.RetryBackoff
	}
	if cfg.PoolSize > 0 {
		opts.PoolSize = cfg.PoolSize
	}
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return client, nil
}

type revocationStore struct {
	client redis.Cmdable
	cb     *gobreaker.CircuitBreaker
}

func NewRevocationStore(client redis.Cmdable) repository.RevocationStore {
	return &revocationStore{
		client: client,
		cb: circuitbreaker.New(circuitbreaker.Settings{
			Name:        "redis-revocation",
			MaxRequests: 1,
			Interval:    10 * time.Second,
			Timeout:     5 * time.Second,
		}, log.Logger),
	}
}

func revokedKey(jti string) string {
	return keyPrefix + jti
}

func (s *revocationStore) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	_, err := s.cb.Execute(func() (interface{}, error) {
		return nil, s.client.Set(ctx, revokedKey(jti), 1, ttl).Err()
	})
	if err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	return nil
}

func (s *revocationStore) IsRevoked(ctx context.Context, jti string) (bool, error) {
	res, err := s.cb.Execute(func() (interface{}, error) {
		n, err := s.client.Exists(ctx, revokedKey(jti)).Result()
		if err != nil && !errors.Is(err, redis.Nil) {
			return false, err
		}
		return n > 0, nil
	})
	if err != nil {
		return false, fmt.Errorf("failed to check token revocation: %w", err)
	}
	return res.(bool), nil
}
