package kafka

import (
	"context"
	"time"

	"github.com/lotto-lab/backend/pkg/pubsub"
	"github.com/lotto-lab/backend/pkg/xcontext"

	"github.com/Shopify/sarama"
)

type Subscriber struct {
	groupID string
	topics  []string
	client  sarama.ConsumerGroup
	handler pubsub.SubscribeHandler
	ready   chan struct{}
}

// NewSubscriber joins groupID. Only messages produced after the group first
// joins are delivered.
func NewSubscriber(
	groupID string,
	brokerAddrs []string,
	topics []string,
	handler pubsub.SubscribeHandler,
) (*Subscriber, error) {
	config := sarama.NewConfig()
	config.Consumer.Group.Rebalance.Strategy = sarama.BalanceStrategyRoundRobin
	config.Consumer.Offsets.Initial = sarama.OffsetNewest

	client, err := sarama.NewConsumerGroup(brokerAddrs, groupID, config)
	if err != nil {
		return nil, err
	}

	return &Subscriber{
		groupID: groupID,
		topics:  topics,
		client:  client,
		handler: handler,
		ready:   make(chan struct{}),
	}, nil
}

func (s *Subscriber) Stop(ctx context.Context) error {
	return s.client.Close()
}

func (s *Subscriber) Ready() <-chan struct{} {
	return s.ready
}

// Subscribe consumes in the background until ctx is done.
func (s *Subscriber) Subscribe(ctx context.Context) {
	consumer := &consumerGroupHandler{
		ready: s.ready,
		fn:    s.handler,
	}

	go func() {
		for {
			// Consume returns on every rebalance, the session must be recreated.
			if err := s.client.Consume(ctx, s.topics, consumer); err != nil {
				xcontext.Logger(ctx).Errorf("Error from consumer group %s: %v", s.groupID, err)
				if err == sarama.ErrClosedConsumerGroup {
					return
				}

				time.Sleep(time.Second)
			}

			if ctx.Err() != nil {
				return
			}

			consumer.ready = make(chan struct{})
		}
	}()
}

type consumerGroupHandler struct {
	ready chan struct{}
	fn    pubsub.SubscribeHandler
}

func (h *consumerGroupHandler) Setup(sarama.ConsumerGroupSession) error {
	close(h.ready)
	return nil
}

func (h *consumerGroupHandler) Cleanup(sarama.ConsumerGroupSession) error {
	return nil
}

func (h *consumerGroupHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for message := range claim.Messages() {
		session.MarkMessage(message, "")
		h.fn(session.Context(), &pubsub.Pack{
			Key: message.Key,
			Msg: message.Value,
		}, message.Timestamp)
	}

	return nil
}
