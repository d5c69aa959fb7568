// Package lock provides the mutual exclusion used by the auction sweep.
package lock

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrNotAcquired is returned when the key is already held.
var ErrNotAcquired = errors.New("lock already held by another process")

// ReleaseFunc gives up a held lock.
type ReleaseFunc func(ctx context.Context) error

// Locker grants exclusive ownership of a key.
type Locker interface {
	Acquire(ctx context.Context, key string) (ReleaseFunc, error)
}

const releaseScript = `
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
else
	return 0
end
`

// RedisLocker holds locks as Redis keys with a TTL so a crashed holder
// cannot block other processes forever.
type RedisLocker struct {
	client   redis.Cmdable
	ttl      time.Duration
	newToken func() string
}

// NewRedisLocker creates a RedisLocker. A non-positive ttl defaults to
// five minutes.
func NewRedisLocker(client redis.Cmdable, ttl time.Duration) *RedisLocker {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &RedisLocker{client: client, ttl: ttl, newToken: uuid.NewString}
}

// Acquire sets key if absent. The returned ReleaseFunc deletes the key only
// while it still carries this holder's token.
func (l *RedisLocker) Acquire(ctx context.Context, key string) (ReleaseFunc, error) {
	token := l.newToken()
	ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("acquire lock %s: %w", key, err)
	}
	if !ok {
		return nil, ErrNotAcquired
	}
	return func(ctx context.Context) error {
		n, err := l.client.Eval(ctx, releaseScript, []string{key}, token).Int()
		if err != nil {
			return fmt.Errorf("release lock %s: %w", key, err)
		}
		if n == 0 {
			return fmt.Errorf("lock %s expired before release", key)
		}
		return nil
	}, nil
}

// LocalLocker serializes holders within one process.
type LocalLocker struct {
	mu   sync.Mutex
	held map[string]bool
}

// NewLocalLocker creates a LocalLocker.
func NewLocalLocker() *LocalLocker {
	return &LocalLocker{held: make(map[string]bool)}
}

// Acquire marks key as held or fails with ErrNotAcquired.
func (l *LocalLocker) Acquire(_ context.Context, key string) (ReleaseFunc, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.held[key] {
		return nil, ErrNotAcquired
	}
	l.held[key] = true
	var once sync.Once
	return func(context.Context) error {
		once.Do(func() {
			l.mu.Lock()
			delete(l.held, key)
			l.mu.Unlock()
		})
		return nil
	}, nil
}
