package testutil

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/lotto-lab/backend/pkg/xredis"
)

// MemoryRedisClient keeps objects in memory and ignores ttl.
type MemoryRedisClient struct {
	mutex sync.Mutex
	data  map[string]string
}

func NewMemoryRedisClient() *MemoryRedisClient {
	return &MemoryRedisClient{data: map[string]string{}}
}

func (m *MemoryRedisClient) Exist(ctx context.Context, key string) (bool, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	_, ok := m.data[key]
	return ok, nil
}

func (m *MemoryRedisClient) Del(ctx context.Context, keys ...string) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	for _, k := range keys {
		delete(m.data, k)
	}

	return nil
}

func (m *MemoryRedisClient) Get(ctx context.Context, key string) (string, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	v, ok := m.data[key]
	if !ok {
		return "", xredis.ErrNotFound
	}

	return v, nil
}

func (m *MemoryRedisClient) Set(ctx context.Context, key string, value string) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.data[key] = value
	return nil
}

func (m *MemoryRedisClient) SetObj(ctx context.Context, key string, obj any, ttl time.Duration) error {
	b, err := json.Marshal(obj)
	if err != nil {
		return err
	}

	return m.Set(ctx, key, string(b))
}

func (m *MemoryRedisClient) GetObj(ctx context.Context, key string, v any) error {
	s, err := m.Get(ctx, key)
	if err != nil {
		return err
	}

	return json.Unmarshal([]byte(s), v)
}
