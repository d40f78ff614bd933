package testutil

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// GetTestRedisAddr finds a reachable Redis: REDIS_ADDR, then the usual CI
// addresses, then the local test port 56379.
func GetTestRedisAddr(t TestingTB) (string, bool) {
	t.Helper()

	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		return addr, pingRedis(t, addr)
	}
	for _, addr := range []string{"redis:6379", "localhost:6379", "localhost:56379"} {
		if pingRedis(t, addr) {
			return addr, true
		}
	}
	return "localhost:56379", false
}

func pingRedis(t TestingTB, addr string) bool {
	t.Helper()
	client := redis.NewClient(&redis.Options{Addr: addr})
	defer closeAndLog(t, "redis ping", client)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		t.Logf("Redis not available at %s: %v", addr, err)
		return false
	}
	return true
}

// selectTestRedisDB picks TEST_REDIS_DB, or reserves one of DB 1..15 through
// a key in DB 0 so parallel packages do not flush each other.
func selectTestRedisDB(t TestingTB, addr string) int {
	if v := os.Getenv("TEST_REDIS_DB"); v != "" {
		if i, err := strconv.Atoi(v); err == nil && i >= 0 {
			return i
		}
		t.Logf("Invalid TEST_REDIS_DB=%q, falling back to auto-select", v)
	}

	meta := redis.NewClient(&redis.Options{Addr: addr, DB: 0})
	defer closeAndLog(t, "redis meta client", meta)

	for i := 1; i <= 15; i++ {
		key := fmt.Sprintf("qrbadge:testutil:db_lock:%d", i)
		val := fmt.Sprintf("%d:%d", os.Getpid(), time.Now().UnixNano())
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		ok, err := meta.SetNX(ctx, key, val, 30*time.Minute).Result()
		cancel()
		if err != nil || !ok {
			continue
		}
		if tc, isCleaner := any(t).(interface{ Cleanup(func()) }); isCleaner {
			tc.Cleanup(func() {
				c := redis.NewClient(&redis.Options{Addr: addr, DB: 0})
				defer closeAndLog(t, "redis cleanup client", c)
				cctx, ccancel := context.WithTimeout(context.Background(), 2*time.Second)
				defer ccancel()
				if delErr := c.Del(cctx, key).Err(); delErr != nil {
					t.Logf("warning: failed to release redis db lock %s: %v", key, delErr)
				}
			})
		}
		return i
	}
	return 1
}

// SetupTestRedis returns a client on an emptied test DB, or skips the test.
func SetupTestRedis(t TestingTB) *redis.Client {
	t.Helper()

	addr, ok := GetTestRedisAddr(t)
	if !ok {
		skipOrFail(t, requireRedis(), "Redis not available for testing")
	}

	client := redis.NewClient(&redis.Options{Addr: addr, DB: selectTestRedisDB(t, addr)})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.FlushDB(ctx).Err(); err != nil {
		closeAndLog(t, "redis client", client)
		skipOrFail(t, requireRedis(), "Redis not usable for testing:", err)
	}
	return client
}
