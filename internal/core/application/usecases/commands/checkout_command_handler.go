package commands

import (
	"context"

	"fulfillment/internal/core/domain/model/order"
)

// CheckoutCommandHandler handles the business logic for placing orders.
// Creates new orders in "ORDER_PLACED" status with payment pending and
// kicks off the placement notification after the transaction commits.
type CheckoutCommandHandler struct {
	uowFactory OrderUoWFactory
	notifier   StatusNotifier
}

// NewCheckoutCommandHandler creates a handler for checkout operations.
func NewCheckoutCommandHandler(uowFactory OrderUoWFactory, notifier StatusNotifier) CheckoutCommandHandler {
	return CheckoutCommandHandler{
		uowFactory: uowFactory,
		notifier:   notifier,
	}
}

// Handle processes the checkout command.
// Materializes the order in "ORDER_PLACED" status inside a transaction and
// notifies the customer best-effort once the order is durable.
func (h *CheckoutCommandHandler) Handle(ctx context.Context, cmd CheckoutCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	aggregate, err := order.NewOrder(
		cmd.OrderID(),
		cmd.Items(),
		cmd.ShippingFee(),
		cmd.PaymentMethod(),
		cmd.CustomerID(),
		cmd.Guest(),
	)
	if err != nil {
		return err
	}

	if err = uow.OrderRepository().Add(ctx, aggregate); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	h.notifier.NotifyStatusChanged(ctx, aggregate, order.Unknown)
	return nil
}
