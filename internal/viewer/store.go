package viewer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	pkgredis "github.com/angelmondragon/artisanhub/pkg/redis"
)

// ErrSessionNotFound is returned for unknown or expired sessions.
var ErrSessionNotFound = errors.New("viewer session not found")

// Store persists loaded sessions between requests.
type Store interface {
	Save(ctx context.Context, state State, ttl time.Duration) error
	Load(ctx context.Context, id string) (State, error)
	Delete(ctx context.Context, id string) error
	// Touch extends a live session's TTL. Unknown or expired ids return
	// ErrSessionNotFound.
	Touch(ctx context.Context, id string, ttl time.Duration) error
}

type memoryEntry struct {
	state     State
	expiresAt time.Time
}

// MemoryStore keeps sessions in process. Entries expire after their TTL.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: map[string]memoryEntry{}, now: time.Now}
}

func (m *MemoryStore) Save(_ context.Context, state State, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	for id, entry := range m.entries {
		if !entry.expiresAt.After(now) {
			delete(m.entries, id)
		}
	}
	m.entries[state.ID] = memoryEntry{state: state, expiresAt: now.Add(ttl)}
	return nil
}

func (m *MemoryStore) Load(_ context.Context, id string) (State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	entry, ok := m.entries[id]
	if !ok {
		return State{}, ErrSessionNotFound
	}
	if !entry.expiresAt.After(m.now()) {
		delete(m.entries, id)
		return State{}, ErrSessionNotFound
	}
	return entry.state, nil
}

func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, id)
	return nil
}

func (m *MemoryStore) Touch(_ context.Context, id string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	entry, ok := m.entries[id]
	if !ok || !entry.expiresAt.After(now) {
		delete(m.entries, id)
		return ErrSessionNotFound
	}
	entry.expiresAt = now.Add(ttl)
	m.entries[id] = entry
	return nil
}

// Len returns the number of stored entries, expired ones included.
func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

type redisClient interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
	Touch(ctx context.Context, key string, ttl time.Duration) (bool, error)
	SessionKey(sessionID string) string
}

// RedisStore keeps sessions in Redis so any API instance can serve them.
type RedisStore struct {
	client redisClient
}

func NewRedisStore(client redisClient) (*RedisStore, error) {
	if client == nil {
		return nil, errors.New("redis client required")
	}
	return &RedisStore{client: client}, nil
}

func (r *RedisStore) Save(ctx context.Context, state State, ttl time.Duration) error {
	payload, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encode session %s: %w", state.ID, err)
	}
	return r.client.Set(ctx, r.client.SessionKey(state.ID), string(payload), ttl)
}

func (r *RedisStore) Load(ctx context.Context, id string) (State, error) {
	raw, err := r.client.Get(ctx, r.client.SessionKey(id))
	if errors.Is(err, pkgredis.ErrNotFound) {
		return State{}, ErrSessionNotFound
	}
	if err != nil {
		return State{}, fmt.Errorf("read session %s: %w", id, err)
	}
	var state State
	if err := json.Unmarshal([]byte(raw), &state); err != nil {
		return State{}, fmt.Errorf("decode session %s: %w", id, err)
	}
	return state, nil
}

func (r *RedisStore) Delete(ctx context.Context, id string) error {
	return r.client.Del(ctx, r.client.SessionKey(id))
}

func (r *RedisStore) Touch(ctx context.Context, id string, ttl time.Duration) error {
	ok, err := r.client.Touch(ctx, r.client.SessionKey(id), ttl)
	if err != nil {
		return fmt.Errorf("refresh session %s: %w", id, err)
	}
	if !ok {
		return ErrSessionNotFound
	}
	return nil
}
