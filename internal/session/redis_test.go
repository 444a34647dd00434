package session

import (
	"fmt"
	"os"
	"testing"
	"time"
)

// Los tests de integración corren solo con un Redis real disponible:
//
//	TEST_REDIS_ADDR=localhost:6379 go test ./internal/session/ -run Redis
func newRedisTestStore(t *testing.T, ttl time.Duration) Store {
	t.Helper()
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set; skipping redis integration test")
	}

	// prefijo único por corrida para no pisar datos de otra
	prefix := fmt.Sprintf("relay-test-%d", time.Now().UnixNano())
	s, err := NewRedis(addr, os.Getenv("TEST_REDIS_PASSWORD"), 0, prefix, ttl)
	if err != nil {
		t.Fatalf("NewRedis err: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestRedis_StoreConformance(t *testing.T) {
	s := newRedisTestStore(t, DefaultTTL)
	runStoreConformance(t, s)
}

func TestRedis_ExpiredLooksLikeUnknown(t *testing.T) {
	ttl := 200 * time.Millisecond
	s := newRedisTestStore(t, ttl)
	runStoreExpiry(t, s, ttl)
}
