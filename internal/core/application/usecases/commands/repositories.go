// Package commands contains business operations that modify system state.
// Implements the Command pattern for write operations in the CQRS architecture.
// All commands follow a consistent pattern: validation, transaction management, and persistence.
package commands

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/ports"
)

// Unit of Work interfaces provide transaction management for command handlers.
// These abstractions ensure data consistency across aggregate boundaries.
type (
	// TxManager handles database transaction lifecycle.
	// Ensures atomic operations across multiple repository calls.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	// OrderRepoFactory provides access to order repository within a transaction.
	OrderRepoFactory interface {
		OrderRepository() ports.OrderRepository
	}

	// OrderUoW manages transactions for order operations. The order is the
	// only aggregate of this service, so every command handler uses it.
	OrderUoW interface {
		TxManager
		OrderRepoFactory
	}

	// OrderUoWFactory creates new order unit of work instances.
	OrderUoWFactory interface {
		Create() OrderUoW
	}
)

// StatusNotifier receives committed status changes for best-effort customer
// notification. Implementations must not block the caller and must swallow
// delivery failures.
type StatusNotifier interface {
	NotifyStatusChanged(ctx context.Context, aggregate *order.Order, from order.Status)
}

// PollScheduler controls the per-order background tracking polls. Starting
// an order that is already polled and stopping one that is not are no-ops.
type PollScheduler interface {
	StartPolling(orderID kernel.UUID)
	StopPolling(orderID kernel.UUID)
}
