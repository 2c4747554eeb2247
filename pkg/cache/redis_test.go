package cache

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"
)

func redisAddr(t *testing.T) string {
	t.Helper()
	addr := os.Getenv("PINMAP_TEST_REDIS")
	if addr == "" {
		t.Skip("PINMAP_TEST_REDIS not set")
	}
	return addr
}

func TestRedisCache(t *testing.T) {
	ctx := context.Background()
	c, err := NewRedisCache(ctx, redisAddr(t))
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	key := NewScopedKeyer(nil, "pinmap:test:").ArtifactKey(Hash([]byte(t.Name())), ArtifactKeyOpts{Format: "svg"})
	_ = c.Delete(ctx, key)

	if _, hit, err := c.Get(ctx, key); hit || err != nil {
		t.Fatalf("Get before Set = hit %v, err %v", hit, err)
	}
	if err := c.Set(ctx, key, []byte("<svg/>"), time.Minute); err != nil {
		t.Fatal(err)
	}
	data, hit, err := c.Get(ctx, key)
	if err != nil || !hit || string(data) != "<svg/>" {
		t.Errorf("Get = %q, %v, %v", data, hit, err)
	}
	if err := c.Delete(ctx, key); err != nil {
		t.Error(err)
	}
}

func TestRedisCacheUnavailable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	_, err := NewRedisCache(ctx, "127.0.0.1:1")
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("NewRedisCache error = %v, want ErrUnavailable", err)
	}
}
