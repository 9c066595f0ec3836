package repository

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/cafeteria-booking/internal/model"
)

// SessionStore persists booking sessions for a limited time.  Save resets
// the expiry so a session lives for ttl after its last change.
type SessionStore interface {
	Save(ctx context.Context, s model.BookingSession, ttl time.Duration) error
	Get(ctx context.Context, id string) (model.BookingSession, error)
	Delete(ctx context.Context, id string) error
}

// RedisSessionStore keeps each session as a JSON string under
// <prefix>:<id> with a TTL.
type RedisSessionStore struct {
	rdb    *redis.Client
	prefix string
}

// NewRedisSessionStore returns a store writing keys under prefix.
func NewRedisSessionStore(rdb *redis.Client, prefix string) *RedisSessionStore {
	if prefix == "" {
		prefix = "cafeteria:session"
	}
	return &RedisSessionStore{rdb: rdb, prefix: prefix}
}

func (r *RedisSessionStore) key(id string) string { return r.prefix + ":" + id }

func (r *RedisSessionStore) Save(ctx context.Context, s model.BookingSession, ttl time.Duration) error {
	body, err := json.Marshal(s)
	if err != nil {
		return err
	}
	return r.rdb.Set(ctx, r.key(s.ID), body, ttl).Err()
}

func (r *RedisSessionStore) Get(ctx context.Context, id string) (model.BookingSession, error) {
	var s model.BookingSession
	body, err := r.rdb.Get(ctx, r.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return s, ErrSessionNotFound
	}
	if err != nil {
		return s, err
	}
	err = json.Unmarshal(body, &s)
	return s, err
}

func (r *RedisSessionStore) Delete(ctx context.Context, id string) error {
	return r.rdb.Del(ctx, r.key(id)).Err()
}

// MemorySessionStore is a process-local SessionStore used when Redis is
// unavailable and in tests.
type MemorySessionStore struct {
	mu       sync.Mutex
	sessions map[string]memorySession
	now      func() time.Time
}

type memorySession struct {
	body      []byte
	expiresAt time.Time
}

// NewMemorySessionStore returns an empty in-memory store.
func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{sessions: make(map[string]memorySession), now: time.Now}
}

// Sessions are stored encoded so callers never share slices with the store.
func (m *MemorySessionStore) Save(_ context.Context, s model.BookingSession, ttl time.Duration) error {
	body, err := json.Marshal(s)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID] = memorySession{body: body, expiresAt: m.now().Add(ttl)}
	return nil
}

func (m *MemorySessionStore) Get(_ context.Context, id string) (model.BookingSession, error) {
	var s model.BookingSession
	m.mu.Lock()
	ms, ok := m.sessions[id]
	if ok && !m.now().Before(ms.expiresAt) {
		delete(m.sessions, id)
		ok = false
	}
	m.mu.Unlock()
	if !ok {
		return s, ErrSessionNotFound
	}
	err := json.Unmarshal(ms.body, &s)
	return s, err
}

func (m *MemorySessionStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}
