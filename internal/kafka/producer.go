package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dkurenkov/eventease/internal/relay"
	"github.com/segmentio/kafka-go"
)

type Producer struct {
	writer *kafka.Writer
}

func NewProducer(brokers []string) *Producer {
	return &Producer{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Balancer:     &kafka.LeastBytes{},
			BatchTimeout: 50 * time.Millisecond,
			RequiredAcks: kafka.RequireOne,
		},
	}
}

func (p *Producer) Publish(ctx context.Context, topic, key string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	msg := kafka.Message{
		Topic: topic,
		Key:   []byte(key),
		Value: data,
		Time:  time.Now(),
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("write message to kafka: %w", err)
	}
	return nil
}

func (p *Producer) Close() error {
	if p.writer != nil {
		return p.writer.Close()
	}
	return nil
}

// NotificationPublisher adapts the producer to the relay.Publisher interface,
// pushing every inventory notification onto a single topic for out-of-process
// consumers such as the notification worker.
type NotificationPublisher struct {
	producer *Producer
	topic    string
}

func NewNotificationPublisher(producer *Producer, topic string) *NotificationPublisher {
	return &NotificationPublisher{producer: producer, topic: topic}
}

func (p *NotificationPublisher) Publish(ctx context.Context, n relay.Notification) error {
	return p.producer.Publish(ctx, p.topic, string(n.Type), n)
}

var _ relay.Publisher = (*NotificationPublisher)(nil)
