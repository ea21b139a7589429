package broadcast

import (
	"context"
	"time"

	"github.com/lotto-lab/backend/internal/domain/event"
	"github.com/lotto-lab/backend/pkg/pubsub"
	"github.com/lotto-lab/backend/pkg/xcontext"

	"github.com/puzpuzpuz/xsync"
)

// Subscriber receives encoded frames. Write must not block, a subscriber
// which cannot accept a frame returns an error and misses it.
type Subscriber interface {
	Write(msg []byte) error
}

type Bus interface {
	Subscribe(connID string, sub Subscriber)
	Unsubscribe(connID string)
	Send(ctx context.Context, connID string, ev event.Event)
	Broadcast(ctx context.Context, ev event.Event)
	BroadcastExcept(ctx context.Context, connID string, ev event.Event)
}

type bus struct {
	subscribers *xsync.MapOf[string, Subscriber]

	instanceID string
	topic      string
	publisher  pubsub.Publisher
}

func NewBus() *bus {
	return &bus{subscribers: xsync.NewMapOf[Subscriber]()}
}

// WithRelay makes every broadcast also published to topic, so that other
// instances sharing the topic deliver it to their own connections.
func (b *bus) WithRelay(instanceID, topic string, publisher pubsub.Publisher) *bus {
	b.instanceID = instanceID
	b.topic = topic
	b.publisher = publisher
	return b
}

func (b *bus) Subscribe(connID string, sub Subscriber) {
	b.subscribers.Store(connID, sub)
}

func (b *bus) Unsubscribe(connID string) {
	b.subscribers.Delete(connID)
}

// Send delivers ev to a single connection. It is a no-op if the connection
// is gone.
func (b *bus) Send(ctx context.Context, connID string, ev event.Event) {
	sub, ok := b.subscribers.Load(connID)
	if !ok {
		return
	}

	msg, err := event.Marshal(ev)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot marshal event %s: %v", ev.Op(), err)
		return
	}

	if err := sub.Write(msg); err != nil {
		xcontext.Logger(ctx).Warnf("Cannot send %s to %s: %v", ev.Op(), connID, err)
	}
}

func (b *bus) Broadcast(ctx context.Context, ev event.Event) {
	b.BroadcastExcept(ctx, "", ev)
}

// BroadcastExcept delivers ev to every connection but connID. Subscribers
// are snapshotted first, connections opened or closed meanwhile are not
// affected.
func (b *bus) BroadcastExcept(ctx context.Context, connID string, ev event.Event) {
	msg, err := event.Marshal(ev)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot marshal event %s: %v", ev.Op(), err)
		return
	}

	b.deliver(ctx, connID, msg)

	if b.publisher != nil {
		pack := &pubsub.Pack{Key: []byte(b.instanceID), Msg: msg}
		if err := b.publisher.Publish(ctx, b.topic, pack); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot relay event %s: %v", ev.Op(), err)
		}
	}
}

// Relay delivers a frame broadcast by another instance. Frames published by
// this instance are ignored because they were already delivered locally.
func (b *bus) Relay(ctx context.Context, pack *pubsub.Pack, t time.Time) {
	if string(pack.Key) == b.instanceID {
		return
	}

	b.deliver(ctx, "", pack.Msg)
}

func (b *bus) deliver(ctx context.Context, except string, msg []byte) {
	type target struct {
		connID string
		sub    Subscriber
	}

	targets := []target{}
	b.subscribers.Range(func(connID string, sub Subscriber) bool {
		if connID != except {
			targets = append(targets, target{connID, sub})
		}
		return true
	})

	for _, t := range targets {
		if err := t.sub.Write(msg); err != nil {
			xcontext.Logger(ctx).Debugf("Skip broadcasting to %s: %v", t.connID, err)
		}
	}
}
