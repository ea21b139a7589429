package kafka

import (
	"context"
	"fmt"

	"github.com/lotto-lab/backend/pkg/pubsub"

	"github.com/Shopify/sarama"
)

type Publisher struct {
	clientID string
	producer sarama.SyncProducer
}

func NewPublisher(clientID string, brokerAddrs []string) (*Publisher, error) {
	config := sarama.NewConfig()
	config.ClientID = clientID
	config.Producer.Return.Successes = true
	config.Producer.RequiredAcks = sarama.WaitForLocal

	producer, err := sarama.NewSyncProducer(brokerAddrs, config)
	if err != nil {
		return nil, err
	}

	return &Publisher{clientID: clientID, producer: producer}, nil
}

func (p *Publisher) Stop(ctx context.Context) error {
	return p.producer.Close()
}

func (p *Publisher) Publish(ctx context.Context, topic string, pack *pubsub.Pack) error {
	m := &sarama.ProducerMessage{
		Topic: topic,
		Key:   sarama.ByteEncoder(pack.Key),
		Value: sarama.ByteEncoder(pack.Msg),
	}

	if _, _, err := p.producer.SendMessage(m); err != nil {
		return fmt.Errorf("p.producer.SendMessage: %w", err)
	}

	return nil
}
