package main

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type stubSubscriber struct {
	ready chan struct{}
}

func (s *stubSubscriber) Subscribe(context.Context)  {}
func (s *stubSubscriber) Stop(context.Context) error { return nil }
func (s *stubSubscriber) Ready() <-chan struct{}     { return s.ready }

func Test_waitReady(t *testing.T) {
	sub := &stubSubscriber{ready: make(chan struct{})}

	// An unreachable broker must not hold the server back.
	start := time.Now()
	require.False(t, waitReady(context.Background(), sub, 20*time.Millisecond))
	require.Less(t, time.Since(start), time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.False(t, waitReady(ctx, sub, time.Minute))

	close(sub.ready)
	require.True(t, waitReady(context.Background(), sub, time.Minute))
}
