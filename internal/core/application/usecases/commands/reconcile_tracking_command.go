package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrReconcileTrackingCommandIsNotConstructed = errors.New(
	"ReconcileTrackingCommand must be created via NewReconcileTrackingCommand constructor",
)

// ReconcileTrackingCommand represents a request to poll the courier API for
// one order and fold the reported state back into the aggregate.
type ReconcileTrackingCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

// NewReconcileTrackingCommand creates a command to reconcile one order
// against its courier tracking feed.
func NewReconcileTrackingCommand(orderID kernel.UUID) (ReconcileTrackingCommand, error) {
	trackingCommand := ReconcileTrackingCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := trackingCommand.setOrderID(orderID); err != nil {
		return ReconcileTrackingCommand{}, err
	}

	return trackingCommand, nil
}

// Validate ensures the command was created through the constructor.
func (c ReconcileTrackingCommand) Validate() error {
	return c.guard.Validate(ErrReconcileTrackingCommandIsNotConstructed)
}

// OrderID returns the order to reconcile.
func (c ReconcileTrackingCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c *ReconcileTrackingCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}
