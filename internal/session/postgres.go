package session

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dropDatabas3/relay/internal/observability/logger"
)

const sessionsSchema = `
CREATE TABLE IF NOT EXISTS relay_sessions (
	key        TEXT PRIMARY KEY,
	platform   TEXT NOT NULL,
	verifier   TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL,
	consumed   BOOLEAN NOT NULL DEFAULT FALSE
);
CREATE INDEX IF NOT EXISTS relay_sessions_created_at_idx ON relay_sessions (created_at);
`

// pgStore implementa Store sobre Postgres.
//
// El consumo único lo garantiza un UPDATE condicional: la fila se marca
// consumida y se retorna en la misma sentencia, así que entre consumidores
// concurrentes solo uno ve la fila sin consumir. Un janitor borra filas
// vencidas para acotar el tamaño de la tabla.
type pgStore struct {
	pool *pgxpool.Pool
	ttl  time.Duration
	stop chan struct{}
	done chan struct{}
}

// NewPostgres crea un store Postgres, asegura el schema y arranca el janitor.
func NewPostgres(dsn string, ttl time.Duration) (Store, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("session: postgres connect failed: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("session: postgres ping failed: %w", err)
	}
	if _, err := pool.Exec(ctx, sessionsSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("session: schema setup failed: %w", err)
	}

	s := &pgStore{
		pool: pool,
		ttl:  ttl,
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}
	go s.janitor()
	return s, nil
}

func (s *pgStore) Create(ctx context.Context, platform string) (Session, error) {
	sess, err := newSession()
	if err != nil {
		return Session{}, err
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO relay_sessions (key, platform, verifier, created_at) VALUES ($1, $2, $3, $4)`,
		sess.Key, platform, sess.Verifier, time.Now().UTC(),
	)
	if err != nil {
		return Session{}, fmt.Errorf("session: insert failed: %w", err)
	}
	return sess, nil
}

func (s *pgStore) Consume(ctx context.Context, key string) (State, error) {
	var st State

	// Check-and-mark en una sola sentencia. Una fila vencida cuenta como
	// inexistente aunque el janitor todavía no la haya borrado.
	err := s.pool.QueryRow(ctx,
		`UPDATE relay_sessions
		    SET consumed = TRUE
		  WHERE key = $1 AND NOT consumed AND created_at > $2
		  RETURNING platform, verifier, created_at`,
		key, time.Now().UTC().Add(-s.ttl),
	).Scan(&st.Platform, &st.Verifier, &st.CreatedAt)

	if err == pgx.ErrNoRows {
		return State{}, ErrNotFound
	}
	if err != nil {
		return State{}, fmt.Errorf("session: consume failed: %w", err)
	}
	return st, nil
}

func (s *pgStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func (s *pgStore) Close() error {
	close(s.stop)
	<-s.done
	s.pool.Close()
	return nil
}

// janitor borra periódicamente sesiones vencidas o ya consumidas.
func (s *pgStore) janitor() {
	defer close(s.done)

	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			tag, err := s.pool.Exec(ctx,
				`DELETE FROM relay_sessions WHERE consumed OR created_at <= $1`,
				time.Now().UTC().Add(-s.ttl),
			)
			cancel()
			if err != nil {
				logger.L().Warn("session janitor sweep failed",
					logger.Component("session.postgres"), logger.Err(err))
				continue
			}
			if n := tag.RowsAffected(); n > 0 {
				logger.L().Debug("session janitor sweep",
					logger.Component("session.postgres"), logger.Count(int(n)))
			}
		}
	}
}
