package redis

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ynyg-work/CorelDRAW-QRCode-Generate-Plugin/internal/testutil"
)

// setupTestRedis creates a Redis client for testing.
// Tests will be skipped if Redis is not available.
func setupTestRedis(t *testing.T) *redis.Client {
	t.Helper()
	return testutil.SetupTestRedis(t)
}

func TestRunLock_AcquireRelease(t *testing.T) {
	client := setupTestRedis(t)
	defer client.Close()

	lock := NewRunLock(client)
	ctx := context.Background()

	ok, err := lock.Acquire(ctx, "doc-1", "run-a", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = lock.Acquire(ctx, "doc-1", "run-b", time.Minute)
	require.NoError(t, err)
	assert.False(t, ok, "second owner must not acquire a held lock")

	holder, err := lock.Holder(ctx, "doc-1")
	require.NoError(t, err)
	assert.Equal(t, "run-a", holder)

	// a stranger cannot release it
	require.NoError(t, lock.Release(ctx, "doc-1", "run-b"))
	holder, err = lock.Holder(ctx, "doc-1")
	require.NoError(t, err)
	assert.Equal(t, "run-a", holder)

	require.NoError(t, lock.Release(ctx, "doc-1", "run-a"))
	holder, err = lock.Holder(ctx, "doc-1")
	require.NoError(t, err)
	assert.Empty(t, holder)

	ok, err = lock.Acquire(ctx, "doc-1", "run-b", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRunLock_Expires(t *testing.T) {
	client := setupTestRedis(t)
	defer client.Close()

	lock := NewRunLockWithPrefix(client, "test-lock:")
	ctx := context.Background()

	ok, err := lock.Acquire(ctx, "doc-2", "run-a", 100*time.Millisecond)
	require.NoError(t, err)
	require.True(t, ok)

	require.Eventually(t, func() bool {
		ok, err = lock.Acquire(ctx, "doc-2", "run-b", time.Minute)
		return err == nil && ok
	}, 2*time.Second, 50*time.Millisecond)
}

func TestRunLock_InvalidArguments(t *testing.T) {
	lock := NewRunLock(nil)
	ctx := context.Background()

	_, err := lock.Acquire(ctx, "", "run-a", time.Minute)
	require.Error(t, err)
	_, err = lock.Acquire(ctx, "doc", "", time.Minute)
	require.Error(t, err)
	_, err = lock.Acquire(ctx, "doc", "run-a", 0)
	require.Error(t, err)
}
