package audit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/mikey/engagement-integrity/internal/core"
)

var redisAuditPrefix = "audit/"

// RedisStore is a Redis implementation of the AuditRepository interface.
// Retention is enforced by key expiry, so Cleanup has nothing to do.
type RedisStore struct {
	Client *redis.Client
	logger *zap.Logger
}

// NewRedisStore connects to the given redis:// URL
func NewRedisStore(redisURL string, logger *zap.Logger) (*RedisStore, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}
	rdb := redis.NewClient(opt)
	// check redis connection
	if _, err := rdb.Ping(context.TODO()).Result(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return &RedisStore{Client: rdb, logger: logger}, nil
}

// Get retrieves the audit record of a submission
func (s *RedisStore) Get(ctx context.Context, submissionID string) (*core.AuditRecord, error) {
	data, err := s.Client.Get(ctx, redisAuditPrefix+submissionID).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	} else if err != nil {
		return nil, fmt.Errorf("failed to query audit record: %w", err)
	}
	return decodeRecord(data)
}

// Set stores an audit record with the remaining retention as its TTL
func (s *RedisStore) Set(ctx context.Context, record *core.AuditRecord) error {
	data, err := encodeRecord(record)
	if err != nil {
		return err
	}

	ttl := time.Until(record.ExpiresAt)
	if ttl <= 0 {
		return ErrExpired
	}

	if err := s.Client.Set(ctx, redisAuditPrefix+record.SubmissionID, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to insert audit record: %w", err)
	}
	return nil
}

// Delete removes an audit record
func (s *RedisStore) Delete(ctx context.Context, submissionID string) error {
	if err := s.Client.Del(ctx, redisAuditPrefix+submissionID).Err(); err != nil {
		return fmt.Errorf("failed to delete audit record: %w", err)
	}
	return nil
}

// Cleanup is a no-op; Redis expires keys on its own
func (s *RedisStore) Cleanup(ctx context.Context) error {
	s.logger.Debug("Redis audit store relies on key expiry, nothing to clean up")
	return nil
}

// Stop closes the Redis client
func (s *RedisStore) Stop() {
	if err := s.Client.Close(); err != nil {
		s.logger.Error("Failed to close Redis client", zap.Error(err))
	}
}
