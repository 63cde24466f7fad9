// Package revocation implements the refresh-token blacklist on Redis.
//
// Entries are keyed by the SHA-256 of the token value so raw tokens never
// reach the store, and carry a TTL equal to the token's remaining natural
// lifetime, so the blacklist can never outgrow the set of live tokens.
package revocation

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	autherror "github.com/ttogle918/KOCRUIT/internal/errors"
)

// Default timeouts for Redis operations.
const (
	DefaultDialTimeout  = 5 * time.Second
	DefaultReadTimeout  = 3 * time.Second
	DefaultWriteTimeout = 3 * time.Second
)

const defaultKeyPrefix = "auth:revoked:"

// Config holds Redis connection parameters, all fixed at process start.
type Config struct {
	Addr     string
	Password string
	DB       int

	// KeyPrefix defaults to "auth:revoked:".
	KeyPrefix string

	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// RedisStore is a domain.RevocationStore backed by a shared Redis instance.
// All server instances must point at the same store; it is the only
// revocation authority.
type RedisStore struct {
	client    redis.UniversalClient
	keyPrefix string
}

// NewRedisStore connects to Redis and verifies the connection with a ping.
func NewRedisStore(ctx context.Context, cfg Config) (*RedisStore, error) {
	if cfg.DialTimeout == 0 {
		cfg.DialTimeout = DefaultDialTimeout
	}
	if cfg.ReadTimeout == 0 {
		cfg.ReadTimeout = DefaultReadTimeout
	}
	if cfg.WriteTimeout == 0 {
		cfg.WriteTimeout = DefaultWriteTimeout
	}
	if cfg.KeyPrefix == "" {
		cfg.KeyPrefix = defaultKeyPrefix
	}

	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisStore{client: client, keyPrefix: cfg.KeyPrefix}, nil
}

// NewRedisStoreWithClient wraps an existing client. Used by tests.
func NewRedisStoreWithClient(client redis.UniversalClient) *RedisStore {
	return &RedisStore{client: client, keyPrefix: defaultKeyPrefix}
}

func (s *RedisStore) key(token string) string {
	sum := sha256.Sum256([]byte(token))
	return s.keyPrefix + hex.EncodeToString(sum[:])
}

// Revoke records the token for ttl. A revoked token must stay rejected for
// its entire remaining lifetime, so ttl must cover it; callers that cannot
// derive the remaining lifetime pass the maximum refresh TTL.
func (s *RedisStore) Revoke(ctx context.Context, token string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil // already past its natural expiry, nothing to record
	}
	if err := s.client.Set(ctx, s.key(token), "1", ttl).Err(); err != nil {
		return fmt.Errorf("%w: %v", autherror.ErrStoreUnavailable, err)
	}
	return nil
}

// IsRevoked reports whether the token has a live revocation entry. A store
// error surfaces as ErrStoreUnavailable; callers fail the request closed.
func (s *RedisStore) IsRevoked(ctx context.Context, token string) (bool, error) {
	n, err := s.client.Exists(ctx, s.key(token)).Result()
	if err != nil {
		return false, fmt.Errorf("%w: %v", autherror.ErrStoreUnavailable, err)
	}
	return n > 0, nil
}

// Close releases the underlying client.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
