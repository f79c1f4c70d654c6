// Package session keeps the last rendered prediction message per browser
// session so a refresh can show it again.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultTTL is how long a result is kept when none is configured
const DefaultTTL = 24 * time.Hour

// Store holds one result string per session id
type Store interface {
	// Get returns "" when the session has no stored result
	Get(ctx context.Context, id string) (string, error)
	Set(ctx context.Context, id, result string) error
	Ping(ctx context.Context) error
}

// RedisClient is the subset of go-redis used by RedisStore
type RedisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Ping(ctx context.Context) *redis.StatusCmd
}

// RedisStore keeps results in Redis under tp:session:{id}
type RedisStore struct {
	client RedisClient
	ttl    time.Duration
}

func NewRedisStore(client RedisClient, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisStore{client: client, ttl: ttl}
}

func key(id string) string { return "tp:session:" + id }

func (s *RedisStore) Get(ctx context.Context, id string) (string, error) {
	v, err := s.client.Get(ctx, key(id)).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	return v, err
}

func (s *RedisStore) Set(ctx context.Context, id, result string) error {
	return s.client.Set(ctx, key(id), result, s.ttl).Err()
}

func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

type memoryItem struct {
	result    string
	expiresAt time.Time
}

// MemoryStore is the single-process fallback used when Redis is not configured
type MemoryStore struct {
	mu    sync.RWMutex
	items map[string]memoryItem
	ttl   time.Duration
	now   func() time.Time
	done  chan struct{}
	once  sync.Once
}

// NewMemoryStore starts a cleanup loop; call Close to stop it
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	s := &MemoryStore{
		items: make(map[string]memoryItem),
		ttl:   ttl,
		now:   time.Now,
		done:  make(chan struct{}),
	}
	go s.cleanup(5 * time.Minute)
	return s
}

func (s *MemoryStore) Get(ctx context.Context, id string) (string, error) {
	s.mu.RLock()
	item, ok := s.items[id]
	s.mu.RUnlock()
	if !ok || s.now().After(item.expiresAt) {
		return "", nil
	}
	return item.result, nil
}

func (s *MemoryStore) Set(ctx context.Context, id, result string) error {
	s.mu.Lock()
	s.items[id] = memoryItem{result: result, expiresAt: s.now().Add(s.ttl)}
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Ping(ctx context.Context) error { return nil }

// Len reports the number of stored entries, expired or not
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

func (s *MemoryStore) Close() {
	s.once.Do(func() { close(s.done) })
}

func (s *MemoryStore) cleanup(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.evictExpired()
		case <-s.done:
			return
		}
	}
}

func (s *MemoryStore) evictExpired() {
	now := s.now()
	s.mu.Lock()
	for id, item := range s.items {
		if now.After(item.expiresAt) {
			delete(s.items, id)
		}
	}
	s.mu.Unlock()
}
