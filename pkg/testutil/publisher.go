package testutil

import (
	"context"
	"sync"

	"github.com/lotto-lab/backend/pkg/pubsub"
)

type MockPublisher struct {
	PublishFunc func(context.Context, string, *pubsub.Pack) error

	mutex     sync.Mutex
	Published []*pubsub.Pack
}

func (m *MockPublisher) Publish(ctx context.Context, topic string, pack *pubsub.Pack) error {
	m.mutex.Lock()
	m.Published = append(m.Published, pack)
	m.mutex.Unlock()

	if m.PublishFunc != nil {
		return m.PublishFunc(ctx, topic, pack)
	}

	return nil
}

func (m *MockPublisher) Packs() []*pubsub.Pack {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return append([]*pubsub.Pack{}, m.Published...)
}
