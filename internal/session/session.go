// Package session implementa el store de sesiones de autorización.
//
// Una sesión correlaciona el redirect hacia el provider con el callback que
// vuelve: guarda la plataforma y el PKCE verifier bajo una key opaca que viaja
// como parámetro `state`. Las sesiones son de un solo uso y expiran por TTL.
//
// Backends:
//   - Memory (in-process, default)
//   - Redis (distribuido)
//   - Postgres (distribuido, durable)
package session

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// DefaultTTL es la vida máxima de una sesión no consumida.
const DefaultTTL = 10 * time.Minute

// ErrNotFound se retorna cuando la key no existe, ya fue consumida o expiró.
// Los tres casos son indistinguibles a propósito: un replay no debe poder
// saber si la sesión existió alguna vez.
var ErrNotFound = errNotFound{}

type errNotFound struct{}

func (errNotFound) Error() string { return "session: not found or expired" }

// IsNotFound verifica si el error es porque la sesión no existe.
func IsNotFound(err error) bool {
	_, ok := err.(errNotFound)
	return ok
}

// Session es el resultado de Create. El Verifier queda retenido server-side;
// solo la Key (como `state`) y el Challenge viajan al browser.
type Session struct {
	Key       string
	Verifier  string
	Challenge string
}

// State es el registro guardado bajo la key.
type State struct {
	Platform  string    `json:"platform"`
	Verifier  string    `json:"verifier"`
	CreatedAt time.Time `json:"created_at"`
}

// Store define las operaciones del session store.
type Store interface {
	// Create genera una sesión nueva con key y par PKCE aleatorios.
	Create(ctx context.Context, platform string) (Session, error)

	// Consume retorna y elimina la sesión en un único paso atómico.
	// Bajo N llamadas concurrentes con la misma key, exactamente una gana;
	// el resto recibe ErrNotFound.
	Consume(ctx context.Context, key string) (State, error)

	// Ping verifica la conexión al backend.
	Ping(ctx context.Context) error

	// Close libera recursos del backend.
	Close() error
}

// Config configuración para crear un store.
type Config struct {
	Driver string // "memory" | "redis" | "postgres"
	TTL    time.Duration

	Redis struct {
		Addr     string
		Password string
		DB       int
		Prefix   string
	}

	Postgres struct {
		DSN string
	}
}

// New crea un store según la configuración.
func New(cfg Config) (Store, error) {
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	switch strings.ToLower(cfg.Driver) {
	case "redis":
		return NewRedis(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.Prefix, ttl)
	case "postgres":
		return NewPostgres(cfg.Postgres.DSN, ttl)
	case "memory", "":
		return NewMemory(ttl), nil
	default:
		return nil, fmt.Errorf("session: unknown driver %q", cfg.Driver)
	}
}
