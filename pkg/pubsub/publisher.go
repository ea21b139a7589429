package pubsub

import "context"

// Pack is the unit carried by the message broker. Key identifies the
// producer, Msg is the encoded payload.
type Pack struct {
	Key []byte
	Msg []byte
}

type Publisher interface {
	Publish(context.Context, string, *Pack) error
}
