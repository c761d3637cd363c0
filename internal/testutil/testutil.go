// Package testutil provides helpers for integration tests.
package testutil

import (
	"context"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
)

// TestingTB is the subset of testing.TB the helpers need.
type TestingTB interface {
	Helper()
	Skip(args ...interface{})
	Skipf(format string, args ...interface{})
	Fatal(args ...interface{})
	Fatalf(format string, args ...interface{})
	Logf(format string, args ...interface{})
}

// requireRedis reports whether tests must fail (rather than skip) when
// Redis is unavailable. Set TEST_REQUIRE_REDIS=1 in CI.
func requireRedis() bool {
	return os.Getenv("TEST_REQUIRE_REDIS") == "1"
}

// TestRedisAddr returns the Redis address for tests.
// Defaults to localhost:6379; override with TEST_REDIS_ADDR.
func TestRedisAddr() string {
	if addr := os.Getenv("TEST_REDIS_ADDR"); addr != "" {
		return addr
	}
	return "localhost:6379"
}

// SetupTestRedis creates a Redis client for testing.
// Tests are skipped if Redis is not available, unless TEST_REQUIRE_REDIS=1.
// The selected database is flushed before the client is returned.
func SetupTestRedis(t TestingTB) *redis.Client {
	t.Helper()

	addr := TestRedisAddr()
	client := redis.NewClient(&redis.Options{
		Addr: addr,
		// Keep test data away from the default database.
		DB: 9,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		if cerr := client.Close(); cerr != nil {
			t.Logf("warning: failed to close redis client after ping error: %v", cerr)
		}
		if requireRedis() {
			t.Fatalf("Redis not available for testing at %s: %v", addr, err)
		}
		t.Skipf("Redis not available for testing at %s: %v", addr, err)
	}

	client.FlushDB(ctx)
	return client
}
