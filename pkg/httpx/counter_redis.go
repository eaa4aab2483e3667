package httpx

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisCounterStore shares rate-limit counters across service instances
// using Redis's atomic INCR. The window TTL is set only when the key is
// first created (NX), so every instance observes the same window boundary.
type RedisCounterStore struct {
	rdb    *redis.Client
	prefix string
}

// NewRedisCounterStore creates a client from a URL
// (e.g. redis://:pass@host:6379/0). If prefix is empty, "authgate:rl:" is
// used. Fails fast if the server is unreachable.
func NewRedisCounterStore(redisURL, prefix string) (*RedisCounterStore, error) {
	if prefix == "" {
		prefix = "authgate:rl:"
	}

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	rdb := redis.NewClient(opt)

	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return nil, err
	}

	return &RedisCounterStore{rdb: rdb, prefix: prefix}, nil
}

func (s *RedisCounterStore) Incr(
	ctx context.Context,
	key string,
	window time.Duration,
) (int64, time.Time, error) {
	k := s.prefix + key

	pipe := s.rdb.TxPipeline()
	incr := pipe.Incr(ctx, k)
	pipe.ExpireNX(ctx, k, window)
	ttl := pipe.TTL(ctx, k)

	if _, err := pipe.Exec(ctx); err != nil {
		return 0, time.Time{}, err
	}

	reset := time.Now().Add(ttl.Val())
	return incr.Val(), reset, nil
}

func (s *RedisCounterStore) Close() error { return s.rdb.Close() }
