package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MockRedisClient records Set calls and serves Get from a map
type MockRedisClient struct {
	data    map[string]string
	lastTTL time.Duration
	pingErr error
}

func (m *MockRedisClient) Get(ctx context.Context, key string) *redis.StringCmd {
	cmd := redis.NewStringCmd(ctx, "get", key)
	if v, ok := m.data[key]; ok {
		cmd.SetVal(v)
	} else {
		cmd.SetErr(redis.Nil)
	}
	return cmd
}

func (m *MockRedisClient) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	m.data[key] = value.(string)
	m.lastTTL = expiration
	cmd := redis.NewStatusCmd(ctx, "set", key, value)
	cmd.SetVal("OK")
	return cmd
}

func (m *MockRedisClient) Ping(ctx context.Context) *redis.StatusCmd {
	cmd := redis.NewStatusCmd(ctx, "ping")
	if m.pingErr != nil {
		cmd.SetErr(m.pingErr)
	}
	return cmd
}

func TestRedisStore(t *testing.T) {
	ctx := context.Background()
	client := &MockRedisClient{data: map[string]string{}}
	store := NewRedisStore(client, time.Hour)

	got, err := store.Get(ctx, "abc")
	require.NoError(t, err)
	assert.Empty(t, got)

	require.NoError(t, store.Set(ctx, "abc", "Predicted winner is: X with probability: 60%"))
	assert.Equal(t, time.Hour, client.lastTTL)
	assert.Contains(t, client.data, "tp:session:abc")

	got, err = store.Get(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, "Predicted winner is: X with probability: 60%", got)

	assert.NoError(t, store.Ping(ctx))
	client.pingErr = errors.New("down")
	assert.Error(t, store.Ping(ctx))
}

func TestMemoryStore_Expiry(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(time.Minute)
	defer store.Close()

	now := time.Date(2024, 7, 14, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	require.NoError(t, store.Set(ctx, "s1", "result"))
	got, _ := store.Get(ctx, "s1")
	assert.Equal(t, "result", got)

	got, _ = store.Get(ctx, "other")
	assert.Empty(t, got)

	now = now.Add(2 * time.Minute)
	got, _ = store.Get(ctx, "s1")
	assert.Empty(t, got)

	assert.Equal(t, 1, store.Len())
	store.evictExpired()
	assert.Equal(t, 0, store.Len())
}

func TestMemoryStore_CloseIsIdempotent(t *testing.T) {
	store := NewMemoryStore(0)
	store.Close()
	store.Close()
	assert.NoError(t, store.Ping(context.Background()))
}
