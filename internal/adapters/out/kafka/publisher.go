// Package kafka implements the event publisher port on top of a Kafka topic.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/ports"

	"github.com/segmentio/kafka-go"
)

// Publisher emits order status-change events to a Kafka topic.
// Messages are keyed by order id so all events of one order land in the
// same partition and stay ordered.
type Publisher struct {
	writer *kafka.Writer
}

// NewPublisher creates a Kafka publisher for the given brokers and topic.
func NewPublisher(brokers []string, topic string) *Publisher {
	return &Publisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireOne,
		},
	}
}

// PublishStatusChanged writes the status-change event for a committed
// transition. The caller treats failures as log-and-continue.
func (p *Publisher) PublishStatusChanged(ctx context.Context, aggregate *order.Order, from order.Status, actor order.Actor) error {
	message, err := newStatusChangedMessage(aggregate, from, actor, time.Now().UTC())
	if err != nil {
		return err
	}

	if err := p.writer.WriteMessages(ctx, message); err != nil {
		return fmt.Errorf("write status change for order %s: %w", aggregate.ID().String(), err)
	}

	return nil
}

// Close flushes and closes the underlying writer.
func (p *Publisher) Close() error {
	return p.writer.Close()
}

// newStatusChangedMessage builds the Kafka message for one transition.
func newStatusChangedMessage(aggregate *order.Order, from order.Status, actor order.Actor, occurredAt time.Time) (kafka.Message, error) {
	event := ports.OrderStatusChangedEvent{
		OrderID:    aggregate.ID().String(),
		FromStatus: from.String(),
		ToStatus:   aggregate.Status().String(),
		Actor:      actor.String(),
		OccurredAt: occurredAt.Format(time.RFC3339),
	}

	value, err := json.Marshal(event)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("marshal status change event: %w", err)
	}

	return kafka.Message{
		Key:   []byte(event.OrderID),
		Value: value,
		Time:  occurredAt,
	}, nil
}
