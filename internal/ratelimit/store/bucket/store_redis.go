package bucket

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"pkgconfirm/internal/ratelimit/models"
)

const redisKeyPrefix = "pkgconfirm:ratelimit:"

// RedisBucketStore keeps one sorted set per key, scored by request time in
// milliseconds. The count and the insert are separate transactions, so racing
// replicas can admit a few requests past the limit.
type RedisBucketStore struct {
	client redis.UniversalClient
	now    func() time.Time
}

type RedisOption func(*RedisBucketStore)

func WithRedisClock(now func() time.Time) RedisOption {
	return func(s *RedisBucketStore) {
		if now != nil {
			s.now = now
		}
	}
}

func NewRedisBucketStore(client redis.UniversalClient, opts ...RedisOption) *RedisBucketStore {
	s := &RedisBucketStore{client: client, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *RedisBucketStore) Allow(ctx context.Context, key string, limit int, window time.Duration) (*models.RateLimitResult, error) {
	now := s.now()
	redisKey := redisKeyPrefix + key
	cutoff := now.Add(-window).UnixMilli()

	var (
		count  *redis.IntCmd
		oldest *redis.ZSliceCmd
	)
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.ZRemRangeByScore(ctx, redisKey, "-inf", strconv.FormatInt(cutoff, 10))
		count = pipe.ZCard(ctx, redisKey)
		oldest = pipe.ZRangeWithScores(ctx, redisKey, 0, 0)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("rate limit window: %w", err)
	}

	resetAt := now.Add(window)
	if first := oldest.Val(); len(first) > 0 {
		resetAt = time.UnixMilli(int64(first[0].Score)).Add(window)
	}
	if int(count.Val()) >= limit {
		return models.Denied(limit, resetAt, now), nil
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.ZAdd(ctx, redisKey, redis.Z{Score: float64(now.UnixMilli()), Member: uuid.NewString()})
		pipe.PExpire(ctx, redisKey, window)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("rate limit record: %w", err)
	}
	return &models.RateLimitResult{
		Allowed:   true,
		Limit:     limit,
		Remaining: limit - int(count.Val()) - 1,
		ResetAt:   resetAt,
	}, nil
}

func (s *RedisBucketStore) Reset(ctx context.Context, key string) error {
	return s.client.Del(ctx, redisKeyPrefix+key).Err()
}
