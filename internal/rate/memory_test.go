package rate

import (
	"context"
	"testing"
	"time"
)

func TestMemoryLimiter_AllowsUpToMax(t *testing.T) {
	l := NewMemory(3, time.Minute)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		res, err := l.Allow(ctx, "1.2.3.4")
		if err != nil {
			t.Fatalf("Allow err: %v", err)
		}
		if !res.Allowed {
			t.Fatalf("hit %d should be allowed", i+1)
		}
	}

	res, err := l.Allow(ctx, "1.2.3.4")
	if err != nil {
		t.Fatalf("Allow err: %v", err)
	}
	if res.Allowed {
		t.Fatalf("hit over the limit must be rejected")
	}
	if res.RetryAfter <= 0 {
		t.Fatalf("RetryAfter must be positive, got %v", res.RetryAfter)
	}
}

func TestMemoryLimiter_KeysAreIndependent(t *testing.T) {
	l := NewMemory(1, time.Minute)
	ctx := context.Background()

	if res, _ := l.Allow(ctx, "a"); !res.Allowed {
		t.Fatalf("first hit for a must pass")
	}
	if res, _ := l.Allow(ctx, "b"); !res.Allowed {
		t.Fatalf("first hit for b must pass")
	}
	if res, _ := l.Allow(ctx, "a"); res.Allowed {
		t.Fatalf("second hit for a must be rejected")
	}
}

func TestMemoryLimiter_WindowResets(t *testing.T) {
	l := NewMemory(1, 50*time.Millisecond)
	ctx := context.Background()

	if res, _ := l.Allow(ctx, "x"); !res.Allowed {
		t.Fatalf("first hit must pass")
	}

	time.Sleep(60 * time.Millisecond)

	if res, _ := l.Allow(ctx, "x"); !res.Allowed {
		t.Fatalf("hit in the next window must pass")
	}
}
