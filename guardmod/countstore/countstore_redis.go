package countstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	redisKeyPrefix      = "warden/count/"
	redisHLLKeyPrefix   = "warden/hll/"
	redisConnectTimeout = 5 * time.Second

	// period buckets outlive their window by one interval so a count
	// remains readable right after rollover
	defaultHourRetention = 2 * time.Hour
	defaultDayRetention  = 48 * time.Hour
)

// RedisCountStore keeps counters in redis: plain INCR counters per period
// bucket, HyperLogLog sets for distinct counts. Hour and day buckets carry
// a TTL; total buckets never expire.
type RedisCountStore struct {
	client        *redis.Client
	hourRetention time.Duration
	dayRetention  time.Duration
}

func NewRedisCountStore(redisURL string) (*RedisCountStore, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}
	rdb := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), redisConnectTimeout)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connecting to redis: %w", err)
	}

	return &RedisCountStore{
		client:        rdb,
		hourRetention: defaultHourRetention,
		dayRetention:  defaultDayRetention,
	}, nil
}

func (s *RedisCountStore) GetCount(ctx context.Context, name, val, period string) (int, error) {
	c, err := s.client.Get(ctx, redisKeyPrefix+bucketKey(name, val, period)).Int()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	} else if err != nil {
		return 0, fmt.Errorf("reading counter %s/%s: %w", name, val, err)
	}
	return c, nil
}

// Increment bumps all three period buckets in one pipelined round-trip.
func (s *RedisCountStore) Increment(ctx context.Context, name, val string) error {
	pipe := s.client.Pipeline()
	for _, p := range allPeriods {
		key := redisKeyPrefix + bucketKey(name, val, p)
		pipe.Incr(ctx, key)
		if ttl := s.retention(p); ttl > 0 {
			pipe.Expire(ctx, key, ttl)
		}
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("incrementing counter %s/%s: %w", name, val, err)
	}
	return nil
}

func (s *RedisCountStore) GetCountDistinct(ctx context.Context, name, bucket, period string) (int, error) {
	c, err := s.client.PFCount(ctx, redisHLLKeyPrefix+bucketKey(name, bucket, period)).Result()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	} else if err != nil {
		return 0, fmt.Errorf("reading distinct counter %s/%s: %w", name, bucket, err)
	}
	return int(c), nil
}

func (s *RedisCountStore) IncrementDistinct(ctx context.Context, name, bucket, val string) error {
	pipe := s.client.Pipeline()
	for _, p := range allPeriods {
		key := redisHLLKeyPrefix + bucketKey(name, bucket, p)
		pipe.PFAdd(ctx, key, val)
		if ttl := s.retention(p); ttl > 0 {
			pipe.Expire(ctx, key, ttl)
		}
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("incrementing distinct counter %s/%s: %w", name, bucket, err)
	}
	return nil
}

func (s *RedisCountStore) retention(period string) time.Duration {
	switch period {
	case PeriodHour:
		return s.hourRetention
	case PeriodDay:
		return s.dayRetention
	}
	return 0
}
