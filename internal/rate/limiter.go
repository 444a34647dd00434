// Package rate limita requests por cliente con ventanas fijas.
//
// El relay es la única pieza que conoce los client secrets, así que un
// atacante que quiera forzar un secret o inundar al provider tiene que pasar
// por acá. El límite es por IP y por endpoint.
package rate

import (
	"context"
	"time"
)

// Result es el veredicto del limiter para un hit.
type Result struct {
	Allowed     bool
	Remaining   int64
	RetryAfter  time.Duration
	CurrentHits int64
}

// Limiter decide si un hit identificado por key entra en la ventana actual.
type Limiter interface {
	Allow(ctx context.Context, key string) (Result, error)
}
