package pubsub

import (
	"context"
	"time"
)

type SubscribeHandler func(context.Context, *Pack, time.Time)

type Subscriber interface {
	// Subscribe starts consuming in the background until ctx is done.
	Subscribe(ctx context.Context)
	// Ready is closed once the first consumer session is set up.
	Ready() <-chan struct{}
	Stop(ctx context.Context) error
}
