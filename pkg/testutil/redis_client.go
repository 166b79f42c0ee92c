package testutil

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// MockRedisClient is an in-memory xredis.Client. TTLs are ignored.
type MockRedisClient struct {
	mu     sync.Mutex
	values map[string]string
}

func NewMockRedisClient() *MockRedisClient {
	return &MockRedisClient{values: make(map[string]string)}
}

// Has reports whether key holds a value.
func (m *MockRedisClient) Has(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	_, ok := m.values[key]
	return ok
}

func (m *MockRedisClient) Del(ctx context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, key := range keys {
		delete(m.values, key)
	}

	return nil
}

func (m *MockRedisClient) SetNX(ctx context.Context, key, value string, ttl time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.values[key]; ok {
		return false, nil
	}

	m.values[key] = value
	return true, nil
}

func (m *MockRedisClient) SetObj(ctx context.Context, key string, obj any, ttl time.Duration) error {
	b, err := json.Marshal(obj)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.values[key] = string(b)
	return nil
}

func (m *MockRedisClient) GetObj(ctx context.Context, key string, v any) error {
	m.mu.Lock()
	value, ok := m.values[key]
	m.mu.Unlock()

	if !ok {
		return redis.Nil
	}

	return json.Unmarshal([]byte(value), v)
}
