package quota

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// checkAndIncrementScript increments the counter and starts the window on
// the first hit, returning the new count and the remaining window in one
// atomic round trip.
const checkAndIncrementScript = `local count = redis.call("INCR", KEYS[1])
if count == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
local ttl = redis.call("PTTL", KEYS[1])
return {count, ttl}`

// RedisStore is the durable Store backend shared by all gateway instances.
type RedisStore struct {
	client redis.UniversalClient
}

func NewRedisStore(client redis.UniversalClient) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) CheckAndIncrement(
	ctx context.Context,
	identifier, action string,
	limit int,
	window time.Duration,
) (Decision, error) {
	key := fmt.Sprintf("quota:%s:%s", action, identifier)

	result, err := s.client.Eval(ctx, checkAndIncrementScript, []string{key}, window.Milliseconds()).Result()
	if err != nil {
		return Decision{}, fmt.Errorf("quota eval for %s: %w", key, err)
	}

	values, ok := result.([]interface{})
	if !ok || len(values) != 2 {
		return Decision{}, fmt.Errorf("unexpected quota eval reply for %s: %v", key, result)
	}
	count, ok := values[0].(int64)
	if !ok {
		return Decision{}, fmt.Errorf("unexpected quota count reply for %s: %v", key, values[0])
	}
	ttlMillis, ok := values[1].(int64)
	if !ok {
		return Decision{}, fmt.Errorf("unexpected quota ttl reply for %s: %v", key, values[1])
	}

	resetIn := time.Duration(ttlMillis) * time.Millisecond
	if resetIn < 0 {
		resetIn = window
	}
	return decide(limit, count, resetIn), nil
}
