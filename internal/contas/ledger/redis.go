package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "contas:pending:"

// verifyScript implements compare-and-consume atomically on the server so a
// concurrent Put for the same key cannot interleave with the read-then-delete.
// Expired entries are evicted by redis itself, so they surface as notfound;
// the two outcomes are observationally identical for callers.
var verifyScript = redis.NewScript(`
local code = redis.call('HGET', KEYS[1], 'code')
if not code then
	return 'notfound'
end
if code ~= ARGV[1] then
	return 'mismatch'
end
local payload = redis.call('HGET', KEYS[1], 'payload')
redis.call('DEL', KEYS[1])
return payload
`)

// Redis is the external expiring-cache Ledger backend, for deployments where
// pending attempts should survive a process restart or be shared between
// replicas.
type Redis struct {
	client redis.UniversalClient
}

func NewRedis(client redis.UniversalClient) *Redis {
	return &Redis{client: client}
}

func (r *Redis) Put(ctx context.Context, key string, payload []byte, code string, ttl time.Duration) error {
	rkey := redisKeyPrefix + key

	pipe := r.client.TxPipeline()
	pipe.HSet(ctx, rkey, "code", code, "payload", payload)
	pipe.PExpire(ctx, rkey, ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("ledger: redis put: %w", err)
	}
	return nil
}

func (r *Redis) Peek(ctx context.Context, key string) (Entry, error) {
	rkey := redisKeyPrefix + key

	fields, err := r.client.HGetAll(ctx, rkey).Result()
	if err != nil {
		return Entry{}, fmt.Errorf("ledger: redis peek: %w", err)
	}
	if len(fields) == 0 {
		return Entry{}, ErrNotFound
	}

	ttl, err := r.client.PTTL(ctx, rkey).Result()
	if err != nil {
		return Entry{}, fmt.Errorf("ledger: redis pttl: %w", err)
	}

	return Entry{
		Payload:   []byte(fields["payload"]),
		Code:      fields["code"],
		ExpiresAt: time.Now().Add(ttl),
	}, nil
}

func (r *Redis) Verify(ctx context.Context, key, code string) ([]byte, error) {
	res, err := verifyScript.Run(ctx, r.client, []string{redisKeyPrefix + key}, code).Result()
	if err != nil {
		return nil, fmt.Errorf("ledger: redis verify: %w", err)
	}

	str, ok := res.(string)
	if !ok {
		return nil, errors.New("ledger: unexpected redis verify reply")
	}

	switch str {
	case "notfound":
		return nil, ErrNotFound
	case "mismatch":
		return nil, ErrCodeMismatch
	default:
		return []byte(str), nil
	}
}

func (r *Redis) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, redisKeyPrefix+key).Err(); err != nil {
		return fmt.Errorf("ledger: redis delete: %w", err)
	}
	return nil
}

// SweepExpired is a no-op: redis evicts expired keys itself.
func (r *Redis) SweepExpired(context.Context) (int, error) {
	return 0, nil
}
