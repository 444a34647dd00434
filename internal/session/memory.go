package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// memoryStore implementa Store in-process sobre go-cache.
//
// go-cache resuelve la expiración (lazy en Get + janitor periódico); el mutex
// del store hace que Consume sea un check-and-delete atómico: sin él, dos
// consumidores podrían leer la misma key antes de que cualquiera la borre.
type memoryStore struct {
	ttl time.Duration
	mu  sync.Mutex
	c   *gocache.Cache
}

// NewMemory crea un store en memoria. Las garantías de unicidad y de consumo
// único son locales al proceso.
func NewMemory(ttl time.Duration) Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &memoryStore{
		ttl: ttl,
		c:   gocache.New(ttl, time.Minute),
	}
}

func (s *memoryStore) Create(ctx context.Context, platform string) (Session, error) {
	sess, err := newSession()
	if err != nil {
		return Session{}, err
	}

	st := State{
		Platform:  platform,
		Verifier:  sess.Verifier,
		CreatedAt: time.Now().UTC(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Add falla si la key ya existe; con 256 bits de entropía una colisión
	// indica un rand roto, no mala suerte.
	if err := s.c.Add(sess.Key, st, s.ttl); err != nil {
		return Session{}, fmt.Errorf("session: duplicate key: %w", err)
	}
	return sess, nil
}

func (s *memoryStore) Consume(ctx context.Context, key string) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.c.Get(key)
	if !ok {
		return State{}, ErrNotFound
	}
	st, ok := v.(State)
	if !ok {
		return State{}, ErrNotFound
	}

	// go-cache ya filtra expirados, pero el TTL se verifica también contra
	// CreatedAt para que el contrato no dependa del janitor.
	if time.Since(st.CreatedAt) > s.ttl {
		s.c.Delete(key)
		return State{}, ErrNotFound
	}

	s.c.Delete(key)
	return st, nil
}

func (s *memoryStore) Ping(ctx context.Context) error { return nil }

func (s *memoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.c.Flush()
	return nil
}
