package session

import (
	"context"
	"sync"
	"testing"
	"time"
)

// runStoreConformance ejercita el contrato de Store contra un backend real.
// Los tests de redis/postgres lo comparten; el de memoria tiene además sus
// propios casos.
func runStoreConformance(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	t.Run("RoundTrip", func(t *testing.T) {
		sess, err := s.Create(ctx, "twitch")
		if err != nil {
			t.Fatalf("Create err: %v", err)
		}
		st, err := s.Consume(ctx, sess.Key)
		if err != nil {
			t.Fatalf("Consume err: %v", err)
		}
		if st.Platform != "twitch" || st.Verifier != sess.Verifier {
			t.Fatalf("state mismatch: %+v", st)
		}
	})

	t.Run("SingleUse", func(t *testing.T) {
		sess, err := s.Create(ctx, "twitch")
		if err != nil {
			t.Fatalf("Create err: %v", err)
		}
		if _, err := s.Consume(ctx, sess.Key); err != nil {
			t.Fatalf("first Consume err: %v", err)
		}
		if _, err := s.Consume(ctx, sess.Key); !IsNotFound(err) {
			t.Fatalf("second Consume: want not-found, got %v", err)
		}
	})

	t.Run("UnknownKey", func(t *testing.T) {
		if _, err := s.Consume(ctx, "never-existed"); !IsNotFound(err) {
			t.Fatalf("want not-found, got %v", err)
		}
	})

	t.Run("ConcurrentExactlyOneWinner", func(t *testing.T) {
		sess, err := s.Create(ctx, "twitch")
		if err != nil {
			t.Fatalf("Create err: %v", err)
		}

		const n = 32
		var (
			wg      sync.WaitGroup
			mu      sync.Mutex
			winners int
		)
		start := make(chan struct{})
		for i := 0; i < n; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				<-start
				if _, err := s.Consume(ctx, sess.Key); err == nil {
					mu.Lock()
					winners++
					mu.Unlock()
				}
			}()
		}
		close(start)
		wg.Wait()

		if winners != 1 {
			t.Fatalf("want exactly 1 winner, got %d", winners)
		}
	})

	t.Run("Ping", func(t *testing.T) {
		if err := s.Ping(ctx); err != nil {
			t.Fatalf("Ping err: %v", err)
		}
	})
}

// runStoreExpiry verifica que una sesión vencida sea indistinguible de una
// inexistente. Recibe un store creado con el TTL corto dado.
func runStoreExpiry(t *testing.T, s Store, ttl time.Duration) {
	t.Helper()
	ctx := context.Background()

	sess, err := s.Create(ctx, "youtube")
	if err != nil {
		t.Fatalf("Create err: %v", err)
	}

	time.Sleep(ttl + 50*time.Millisecond)

	_, err = s.Consume(ctx, sess.Key)
	if !IsNotFound(err) {
		t.Fatalf("want not-found, got %v", err)
	}
	_, unknownErr := s.Consume(ctx, "never-existed")
	if err.Error() != unknownErr.Error() {
		t.Fatalf("expired and unknown must be indistinguishable: %q vs %q", err, unknownErr)
	}
}
