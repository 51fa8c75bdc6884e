package redislock

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/LavaJover/shvark-topup-service/internal/domain"
	"github.com/jaevor/go-nanoid"
	"github.com/redis/go-redis/v9"
)

// releaseScript deletes the key only while it still holds our token, so an
// expired lock taken over by another process is left alone.
const releaseScript = `
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`

type scripter interface {
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd
	Eval(ctx context.Context, script string, keys []string, args ...interface{}) *redis.Cmd
}

// RedisPassLock is a best-effort distributed mutex built on SET NX PX.
type RedisPassLock struct {
	client   scripter
	key      string
	ttl      time.Duration
	newToken func() string
}

func NewRedisPassLock(client *redis.Client, key string, ttl time.Duration) (*RedisPassLock, error) {
	gen, err := nanoid.Standard(21)
	if err != nil {
		return nil, fmt.Errorf("failed to create token generator: %w", err)
	}
	return &RedisPassLock{client: client, key: key, ttl: ttl, newToken: gen}, nil
}

func (l *RedisPassLock) TryAcquire(ctx context.Context) (func(context.Context) error, error) {
	token := l.newToken()

	ok, err := l.client.SetNX(ctx, l.key, token, l.ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to acquire %s: %w", l.key, err)
	}
	if !ok {
		return nil, domain.ErrLockNotAcquired
	}

	return func(ctx context.Context) error {
		if err := l.client.Eval(ctx, releaseScript, []string{l.key}, token).Err(); err != nil {
			return fmt.Errorf("failed to release %s: %w", l.key, err)
		}
		return nil
	}, nil
}

// LocalPassLock serializes passes inside one process when Redis is not
// configured.
type LocalPassLock struct {
	held atomic.Bool
}

func NewLocalPassLock() *LocalPassLock {
	return &LocalPassLock{}
}

func (l *LocalPassLock) TryAcquire(context.Context) (func(context.Context) error, error) {
	if !l.held.CompareAndSwap(false, true) {
		return nil, domain.ErrLockNotAcquired
	}
	return func(context.Context) error {
		l.held.Store(false)
		return nil
	}, nil
}
