// Package events publishes order lifecycle events to Kafka.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/example/buttg/pkg/config"
	"github.com/segmentio/kafka-go"
)

const TypeOrderSubmitted = "order.submitted"

// OrderSubmitted is published once both order emails went out.
type OrderSubmitted struct {
	Type        string    `json:"type"`
	OrderID     string    `json:"orderId"`
	Items       string    `json:"items"`
	Subtotal    int64     `json:"subtotal"`
	DeliveryFee int64     `json:"deliveryFee"`
	Total       int64     `json:"total"`
	SubmittedAt time.Time `json:"submittedAt"`
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type KafkaPublisher struct {
	writer messageWriter
}

func NewKafkaWriter(cfg config.KafkaConfig) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Topic:                  cfg.Topic,
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
	}
}

func NewKafkaPublisher(cfg config.KafkaConfig) *KafkaPublisher {
	return &KafkaPublisher{writer: NewKafkaWriter(cfg)}
}

func (p *KafkaPublisher) PublishOrderSubmitted(ctx context.Context, event OrderSubmitted) error {
	event.Type = TypeOrderSubmitted
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(fmt.Sprintf("%s.%s", TypeOrderSubmitted, event.OrderID)),
		Value: value,
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to publish %s: %w", TypeOrderSubmitted, err)
	}
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
