package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	fieldCount   = "count"
	fieldResetAt = "reset_at"
)

// incrFailureScript restarts an entry whose deadline has passed and records
// one failure in a single step, so concurrent instances never lose a count.
// KEYS[1] = failure hash key
// ARGV[1] = now in unix ms, ARGV[2] = new reset deadline in unix ms
// Returns the failure count after the increment
var incrFailureScript = redis.NewScript(`
local reset_at = tonumber(redis.call('HGET', KEYS[1], 'reset_at'))
if reset_at == nil or reset_at <= tonumber(ARGV[1]) then
    redis.call('DEL', KEYS[1])
end
local count = redis.call('HINCRBY', KEYS[1], 'count', 1)
redis.call('HSET', KEYS[1], 'reset_at', ARGV[2])
redis.call('PEXPIREAT', KEYS[1], ARGV[2])
return count
`)

// RedisFailureStore keeps one hash per key with a PEXPIREAT at the reset
// deadline, so Redis evicts expired entries on its own.
type RedisFailureStore struct {
	client *redis.Client
	prefix string
}

func NewRedisFailureStore(client *redis.Client, prefix string) *RedisFailureStore {
	if prefix == "" {
		prefix = "licenseguard:ratelimit:"
	}
	return &RedisFailureStore{client: client, prefix: prefix}
}

func (s *RedisFailureStore) key(k string) string {
	return s.prefix + k
}

func (s *RedisFailureStore) Get(ctx context.Context, key string, now time.Time) (Entry, bool, error) {
	vals, err := s.client.HGetAll(ctx, s.key(key)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Entry{}, false, nil
		}
		return Entry{}, false, fmt.Errorf("failed to read failure entry: %w", err)
	}
	if len(vals) == 0 {
		return Entry{}, false, nil
	}

	e, err := parseEntry(vals)
	if err != nil {
		return Entry{}, false, err
	}
	// clock skew between app and redis can leave a key briefly past its deadline
	if e.Expired(now) {
		return Entry{}, false, nil
	}
	return e, true, nil
}

func (s *RedisFailureStore) Incr(ctx context.Context, key string, now, resetAt time.Time) (Entry, error) {
	deadline := resetAt.UnixMilli()
	count, err := incrFailureScript.Run(ctx, s.client,
		[]string{s.key(key)},
		now.UnixMilli(), deadline,
	).Int()
	if err != nil {
		return Entry{}, fmt.Errorf("failed to record failure: %w", err)
	}

	return Entry{Count: count, ResetAt: time.UnixMilli(deadline).UTC()}, nil
}

func (s *RedisFailureStore) Clear(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.key(key)).Err(); err != nil {
		return fmt.Errorf("failed to clear failure entry: %w", err)
	}
	return nil
}

// Sweep is a no-op: key expiry is delegated to redis.
func (s *RedisFailureStore) Sweep(context.Context, time.Time) (int, error) {
	return 0, nil
}

func parseEntry(vals map[string]string) (Entry, error) {
	count, err := strconv.Atoi(vals[fieldCount])
	if err != nil {
		return Entry{}, fmt.Errorf("corrupt failure count %q: %w", vals[fieldCount], err)
	}
	ms, err := strconv.ParseInt(vals[fieldResetAt], 10, 64)
	if err != nil {
		return Entry{}, fmt.Errorf("corrupt failure reset_at %q: %w", vals[fieldResetAt], err)
	}
	return Entry{Count: count, ResetAt: time.UnixMilli(ms).UTC()}, nil
}
