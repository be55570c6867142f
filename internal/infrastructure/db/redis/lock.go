package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const importLockTTL = 5 * time.Minute

// ErrLockNotHeld is returned by Release when the lock expired or was taken
// over by another holder.
var ErrLockNotHeld = errors.New("lock not held")

// releaseScript deletes KEYS[1] only while it still stores ARGV[1].
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// ImportLock keeps two imports of the same decree number from running at
// the same time. Key format: import-lock:<decree_number>, value: holder token.
type ImportLock struct {
	client   *redis.Client
	ttl      time.Duration
	newToken func() string
}

// NewImportLock creates an ImportLock wrapping the given Redis client.
func NewImportLock(client *redis.Client) *ImportLock {
	return &ImportLock{client: client, ttl: importLockTTL, newToken: uuid.NewString}
}

// Acquire reports whether the lock for number was free and is now held.
// The lock expires after the TTL even if Release is never called.
func (l *ImportLock) Acquire(ctx context.Context, number string) (string, bool, error) {
	token := l.newToken()
	ok, err := l.client.SetNX(ctx, lockKey(number), token, l.ttl).Result()
	if err != nil {
		return "", false, fmt.Errorf("import lock: %w", err)
	}
	if !ok {
		return "", false, nil
	}
	return token, true, nil
}

// Release frees the lock for number if token still holds it. An import that
// outlived the TTL gets ErrLockNotHeld and leaves the new holder's lock alone.
func (l *ImportLock) Release(ctx context.Context, number, token string) error {
	if token == "" {
		return fmt.Errorf("import unlock: %w", ErrLockNotHeld)
	}
	n, err := releaseScript.Run(ctx, l.client, []string{lockKey(number)}, token).Int()
	if err != nil {
		return fmt.Errorf("import unlock: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("import unlock: %w", ErrLockNotHeld)
	}
	return nil
}

func lockKey(number string) string {
	return "import-lock:" + number
}
