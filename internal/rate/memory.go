package rate

import (
	"context"
	"sync"
	"time"
)

// MemoryLimiter: fixed window in-process. Igual que el session store en
// memoria, sus garantías son locales al proceso.
type MemoryLimiter struct {
	max    int64
	window time.Duration

	mu   sync.Mutex
	hits map[string]*windowCounter
}

type windowCounter struct {
	start time.Time
	count int64
}

// NewMemory crea un limiter en memoria con max hits por ventana.
func NewMemory(max int, window time.Duration) *MemoryLimiter {
	return &MemoryLimiter{
		max:    int64(max),
		window: window,
		hits:   make(map[string]*windowCounter),
	}
}

func (l *MemoryLimiter) Allow(ctx context.Context, key string) (Result, error) {
	now := time.Now().UTC()
	winStart := now.Truncate(l.window)

	l.mu.Lock()
	defer l.mu.Unlock()

	wc, ok := l.hits[key]
	if !ok || wc.start.Before(winStart) {
		wc = &windowCounter{start: winStart}
		l.hits[key] = wc
	}
	wc.count++

	// Limpieza oportunista: las ventanas viejas de otros clientes se purgan
	// acá en vez de con un janitor propio.
	if len(l.hits) > 1024 {
		for k, v := range l.hits {
			if v.start.Before(winStart) {
				delete(l.hits, k)
			}
		}
	}

	res := Result{
		Allowed:     wc.count <= l.max,
		CurrentHits: wc.count,
		Remaining:   maxInt64(l.max-wc.count, 0),
	}
	if !res.Allowed {
		res.RetryAfter = winStart.Add(l.window).Sub(now)
	}
	return res, nil
}

func maxInt64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}
