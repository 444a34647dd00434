package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// redisStore implementa Store sobre Redis para despliegues multi-instancia.
//
// El consumo único se apoya en GETDEL: Redis ejecuta comandos de forma
// serializada, así que leer y borrar en un solo comando garantiza exactamente
// un ganador entre consumidores concurrentes.
type redisStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedis crea un store Redis y verifica la conexión.
func NewRedis(addr, password string, db int, prefix string, ttl time.Duration) (Store, error) {
	if addr == "" {
		addr = "localhost:6379"
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("session: redis ping failed: %w", err)
	}

	return &redisStore{client: rdb, prefix: prefix, ttl: ttl}, nil
}

func (s *redisStore) key(k string) string {
	if s.prefix == "" {
		return k
	}
	return s.prefix + ":" + k
}

func (s *redisStore) Create(ctx context.Context, platform string) (Session, error) {
	sess, err := newSession()
	if err != nil {
		return Session{}, err
	}

	st := State{
		Platform:  platform,
		Verifier:  sess.Verifier,
		CreatedAt: time.Now().UTC(),
	}
	raw, err := json.Marshal(st)
	if err != nil {
		return Session{}, err
	}

	// SETNX preserva la unicidad de la key; Redis expira la entrada por TTL.
	ok, err := s.client.SetNX(ctx, s.key(sess.Key), raw, s.ttl).Result()
	if err != nil {
		return Session{}, fmt.Errorf("session: redis set failed: %w", err)
	}
	if !ok {
		return Session{}, fmt.Errorf("session: duplicate key")
	}
	return sess, nil
}

func (s *redisStore) Consume(ctx context.Context, key string) (State, error) {
	raw, err := s.client.GetDel(ctx, s.key(key)).Result()
	if err == redis.Nil {
		return State{}, ErrNotFound
	}
	if err != nil {
		return State{}, fmt.Errorf("session: redis getdel failed: %w", err)
	}

	var st State
	if err := json.Unmarshal([]byte(raw), &st); err != nil {
		return State{}, ErrNotFound
	}

	// Redis ya expiró la key si venció el TTL; el doble check mantiene el
	// contrato si el TTL del proceso difiere del TTL con que se escribió.
	if time.Since(st.CreatedAt) > s.ttl {
		return State{}, ErrNotFound
	}
	return st, nil
}

func (s *redisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *redisStore) Close() error {
	return s.client.Close()
}
