package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for order aggregates.
// Provides methods for storing, retrieving, and querying order entities
// based on their payment and fulfillment state.
type OrderRepository interface {
	// Add persists a new order aggregate to storage.
	// The order must be valid and not already exist in the repository.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists changes to an existing order aggregate.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get retrieves an order aggregate by its unique identifier.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// GetByGatewayPaymentID retrieves the order already materialized for a
	// gateway payment, if any. Used to make payment verification idempotent.
	GetByGatewayPaymentID(ctx context.Context, gatewayPaymentID string) (*order.Order, error)

	// GetAllTrackable retrieves all orders that carry a tracking number and
	// have not reached a terminal status. Used by the tracking sweep.
	GetAllTrackable(ctx context.Context) ([]*order.Order, error)
}
