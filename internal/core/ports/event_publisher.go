package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/order"
)

// OrderStatusChangedEvent is the integration event emitted after an order's
// status transition has been committed.
type OrderStatusChangedEvent struct {
	OrderID    string `json:"order_id"`
	FromStatus string `json:"from_status"`
	ToStatus   string `json:"to_status"`
	Actor      string `json:"actor"`
	OccurredAt string `json:"occurred_at"`
}

// EventPublisher publishes integration events to the message broker.
// Publishing is best-effort and happens after the owning transaction
// commits; a failed publish must not roll the transition back.
type EventPublisher interface {
	PublishStatusChanged(ctx context.Context, aggregate *order.Order, from order.Status, actor order.Actor) error
}
