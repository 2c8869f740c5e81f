package cache

import (
	"context"
	"errors"
	"net"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
)

// redisAddr returns the address of a test Redis server or skips the test.
func redisAddr(t *testing.T) string {
	t.Helper()
	addr := os.Getenv("JSONVIZ_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("JSONVIZ_TEST_REDIS_ADDR not set")
	}
	return addr
}

func TestRedisCache(t *testing.T) {
	ctx := context.Background()
	c, err := NewRedisCache(ctx, RedisConfig{Addr: redisAddr(t), Prefix: "jsonviz-test:" + uuid.NewString() + ":"})
	if err != nil {
		t.Fatalf("NewRedisCache: %v", err)
	}
	defer c.Close()

	if _, hit, err := c.Get(ctx, "k"); hit || err != nil {
		t.Fatalf("Get(missing) = hit %v, err %v", hit, err)
	}
	if err := c.Set(ctx, "k", []byte("v"), time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}
	data, hit, err := c.Get(ctx, "k")
	if err != nil || !hit || string(data) != "v" {
		t.Fatalf("Get(k) = %q, %v, %v", data, hit, err)
	}
	if err := c.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("Get after Delete should miss")
	}
}

func TestClassify(t *testing.T) {
	if classify(nil) != nil {
		t.Error("classify(nil) should be nil")
	}

	netErr := &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")}
	err := classify(netErr)
	if !IsRetryable(err) || !errors.Is(err, ErrNetwork) {
		t.Errorf("classify(net error) = %v, want retryable network error", err)
	}

	err = classify(errors.New("WRONGTYPE"))
	if IsRetryable(err) || errors.Is(err, ErrNetwork) {
		t.Errorf("classify(command error) = %v, want permanent error", err)
	}
}
