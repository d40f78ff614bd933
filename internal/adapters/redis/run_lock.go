// Package redis provides Redis-based adapters for the badge pipeline.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/ynyg-work/CorelDRAW-QRCode-Generate-Plugin/internal/core"
)

// releaseScript deletes the key only while it still holds the caller's token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RunLock is a single-owner lock on a host document shared by every process
// pointing at the same Redis.
type RunLock struct {
	client redis.UniversalClient
	prefix string
}

var _ core.RunLock = (*RunLock)(nil)

// NewRunLock creates a RunLock.
func NewRunLock(client redis.UniversalClient) *RunLock {
	return NewRunLockWithPrefix(client, "lock:")
}

// NewRunLockWithPrefix creates a RunLock with a custom key prefix.
func NewRunLockWithPrefix(client redis.UniversalClient, prefix string) *RunLock {
	return &RunLock{client: client, prefix: prefix}
}

// Acquire sets key to owner unless it is already held.
func (l *RunLock) Acquire(ctx context.Context, key, owner string, ttl time.Duration) (bool, error) {
	if key == "" || owner == "" {
		return false, errors.New("lock key and owner cannot be empty")
	}
	if ttl <= 0 {
		return false, errors.New("lock ttl must be positive")
	}
	ok, err := l.client.SetNX(ctx, l.prefix+key, owner, ttl).Result()
	if err != nil {
		return false, fmt.Errorf("acquire lock %s: %w", key, err)
	}
	return ok, nil
}

// Release frees key if owner still holds it. Releasing a lock that expired
// or passed to another owner is not an error.
func (l *RunLock) Release(ctx context.Context, key, owner string) error {
	if err := releaseScript.Run(ctx, l.client, []string{l.prefix + key}, owner).Err(); err != nil {
		return fmt.Errorf("release lock %s: %w", key, err)
	}
	return nil
}

// Holder returns the current owner of key, or "" when it is free.
func (l *RunLock) Holder(ctx context.Context, key string) (string, error) {
	owner, err := l.client.Get(ctx, l.prefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read lock %s: %w", key, err)
	}
	return owner, nil
}
