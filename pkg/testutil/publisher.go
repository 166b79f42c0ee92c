package testutil

import (
	"context"
	"sync"

	"github.com/bridgeart/backend/pkg/errorx"
	"github.com/bridgeart/backend/pkg/pubsub"
)

type MockPublisher struct {
	PublishFunc func(context.Context, string, *pubsub.Pack) error
}

func (m *MockPublisher) Publish(ctx context.Context, topic string, pack *pubsub.Pack) error {
	if m.PublishFunc != nil {
		return m.PublishFunc(ctx, topic, pack)
	}

	return errorx.New(errorx.NotImplemented, "Not implemented")
}

// RecordPublisher keeps every published pack grouped by topic.
type RecordPublisher struct {
	mu       sync.Mutex
	Messages map[string][]*pubsub.Pack
}

func NewRecordPublisher() *RecordPublisher {
	return &RecordPublisher{Messages: make(map[string][]*pubsub.Pack)}
}

func (p *RecordPublisher) Publish(_ context.Context, topic string, pack *pubsub.Pack) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Messages[topic] = append(p.Messages[topic], pack)
	return nil
}

func (p *RecordPublisher) Get(topic string) []*pubsub.Pack {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]*pubsub.Pack(nil), p.Messages[topic]...)
}
