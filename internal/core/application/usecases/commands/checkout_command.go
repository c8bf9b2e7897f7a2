package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/guard"
)

var (
	ErrCheckoutCommandIsNotConstructed = errors.New(
		"CheckoutCommand must be created via NewCheckoutCommand constructor",
	)
	ErrItemsAreRequired   = errors.New("at least one order item is required")
	ErrShippingFeeInvalid = errors.New("shipping fee must not be negative")
	ErrPartyIsAmbiguous   = errors.New("exactly one of customer ID or guest info must be provided")
)

// CheckoutCommand represents a request to place a new order.
//
// Cash-on-delivery orders are materialized directly from checkout. Card
// orders placed through the payment gateway are materialized by the payment
// verification flow instead, so this command is the COD entry point and the
// merchant-side manual entry point.
type CheckoutCommand struct { //nolint:recvcheck //using for validation
	orderID       kernel.UUID
	items         []order.Item
	shippingFee   int64
	paymentMethod order.PaymentMethod
	customerID    *kernel.UUID
	guest         *order.GuestInfo

	guard guard.ConstructorGuard
}

// NewCheckoutCommand creates a command to place a new order.
// Validates the order identity, line items, fee, payment method, and that
// exactly one of customerID / guest is provided.
func NewCheckoutCommand(
	orderID kernel.UUID,
	items []order.Item,
	shippingFee int64,
	paymentMethod order.PaymentMethod,
	customerID *kernel.UUID,
	guest *order.GuestInfo,
) (CheckoutCommand, error) {
	checkoutCommand := CheckoutCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		checkoutCommand.setOrderID(orderID),
		checkoutCommand.setItems(items),
		checkoutCommand.setShippingFee(shippingFee),
		checkoutCommand.setPaymentMethod(paymentMethod),
		checkoutCommand.setParty(customerID, guest),
	); err != nil {
		return CheckoutCommand{}, err
	}

	return checkoutCommand, nil
}

// Validate ensures the command was created through the constructor.
func (c CheckoutCommand) Validate() error {
	return c.guard.Validate(ErrCheckoutCommandIsNotConstructed)
}

// OrderID returns the identifier the new order will be created under.
func (c CheckoutCommand) OrderID() kernel.UUID {
	return c.orderID
}

// Items returns the order lines.
func (c CheckoutCommand) Items() []order.Item {
	return c.items
}

// ShippingFee returns the shipping fee in minor units.
func (c CheckoutCommand) ShippingFee() int64 {
	return c.shippingFee
}

// PaymentMethod returns the chosen payment method.
func (c CheckoutCommand) PaymentMethod() order.PaymentMethod {
	return c.paymentMethod
}

// CustomerID returns the registered customer reference, or nil for guests.
func (c CheckoutCommand) CustomerID() *kernel.UUID {
	return c.customerID
}

// Guest returns the guest contact snapshot, or nil.
func (c CheckoutCommand) Guest() *order.GuestInfo {
	return c.guest
}

func (c *CheckoutCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *CheckoutCommand) setItems(items []order.Item) error {
	if len(items) == 0 {
		return ErrItemsAreRequired
	}
	for _, item := range items {
		if err := item.Validate(); err != nil {
			return err
		}
	}

	c.items = items
	return nil
}

func (c *CheckoutCommand) setShippingFee(fee int64) error {
	if fee < 0 {
		return ErrShippingFeeInvalid
	}

	c.shippingFee = fee
	return nil
}

func (c *CheckoutCommand) setPaymentMethod(method order.PaymentMethod) error {
	if err := method.Validate(); err != nil {
		return err
	}

	c.paymentMethod = method
	return nil
}

func (c *CheckoutCommand) setParty(customerID *kernel.UUID, guest *order.GuestInfo) error {
	if (customerID == nil) == (guest == nil) {
		return ErrPartyIsAmbiguous
	}

	c.customerID = customerID
	c.guest = guest
	return nil
}
