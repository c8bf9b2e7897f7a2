package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrVerifyPaymentCommandIsNotConstructed = errors.New(
	"VerifyPaymentCommand must be created via NewVerifyPaymentCommand constructor",
)

// VerifyPaymentCommand represents a payment gateway callback reporting a
// captured payment.
//
// The callback always references the internal order id the storefront used
// as the gateway receipt. The order may already exist (a pending card order
// or an unpaid COD order being upgraded to prepaid) or not exist at all, in
// which case the command must carry the cart payload so the order can be
// materialized from the callback alone.
type VerifyPaymentCommand struct { //nolint:recvcheck //using for validation
	orderID          kernel.UUID
	gatewayOrderID   string
	gatewayPaymentID string
	signature        string

	items       []order.Item
	shippingFee int64
	customerID  *kernel.UUID
	guest       *order.GuestInfo

	guard guard.ConstructorGuard
}

// NewVerifyPaymentCommand creates a command from a gateway callback.
// The cart payload (items, fee, party) is optional; when items are present
// the payload is validated the same way checkout validates it.
func NewVerifyPaymentCommand(
	orderID kernel.UUID,
	gatewayOrderID string,
	gatewayPaymentID string,
	signature string,
	items []order.Item,
	shippingFee int64,
	customerID *kernel.UUID,
	guest *order.GuestInfo,
) (VerifyPaymentCommand, error) {
	paymentCommand := VerifyPaymentCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		paymentCommand.setOrderID(orderID),
		paymentCommand.setGatewayRefs(gatewayOrderID, gatewayPaymentID, signature),
		paymentCommand.setPayload(items, shippingFee, customerID, guest),
	); err != nil {
		return VerifyPaymentCommand{}, err
	}

	return paymentCommand, nil
}

// Validate ensures the command was created through the constructor.
func (c VerifyPaymentCommand) Validate() error {
	return c.guard.Validate(ErrVerifyPaymentCommandIsNotConstructed)
}

// OrderID returns the internal order id referenced by the callback.
func (c VerifyPaymentCommand) OrderID() kernel.UUID {
	return c.orderID
}

// GatewayOrderID returns the gateway's order identifier.
func (c VerifyPaymentCommand) GatewayOrderID() string {
	return c.gatewayOrderID
}

// GatewayPaymentID returns the gateway's payment identifier.
func (c VerifyPaymentCommand) GatewayPaymentID() string {
	return c.gatewayPaymentID
}

// Signature returns the hex HMAC signature of the callback.
func (c VerifyPaymentCommand) Signature() string {
	return c.signature
}

// HasPayload reports whether the callback carries a cart payload for
// materializing the order from scratch.
func (c VerifyPaymentCommand) HasPayload() bool {
	return len(c.items) > 0
}

// Items returns the cart payload lines, possibly empty.
func (c VerifyPaymentCommand) Items() []order.Item {
	return c.items
}

// ShippingFee returns the cart payload shipping fee in minor units.
func (c VerifyPaymentCommand) ShippingFee() int64 {
	return c.shippingFee
}

// CustomerID returns the payload's registered customer reference, or nil.
func (c VerifyPaymentCommand) CustomerID() *kernel.UUID {
	return c.customerID
}

// Guest returns the payload's guest contact snapshot, or nil.
func (c VerifyPaymentCommand) Guest() *order.GuestInfo {
	return c.guest
}

func (c *VerifyPaymentCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *VerifyPaymentCommand) setGatewayRefs(gatewayOrderID, gatewayPaymentID, signature string) error {
	if gatewayOrderID == "" {
		return errs.NewValueIsRequiredError("gatewayOrderId")
	}
	if gatewayPaymentID == "" {
		return errs.NewValueIsRequiredError("gatewayPaymentId")
	}
	if signature == "" {
		return errs.NewValueIsRequiredError("signature")
	}

	c.gatewayOrderID = gatewayOrderID
	c.gatewayPaymentID = gatewayPaymentID
	c.signature = signature
	return nil
}

func (c *VerifyPaymentCommand) setPayload(
	items []order.Item,
	shippingFee int64,
	customerID *kernel.UUID,
	guest *order.GuestInfo,
) error {
	if len(items) == 0 {
		return nil
	}

	for _, item := range items {
		if err := item.Validate(); err != nil {
			return err
		}
	}
	if shippingFee < 0 {
		return ErrShippingFeeInvalid
	}
	if (customerID == nil) == (guest == nil) {
		return ErrPartyIsAmbiguous
	}

	c.items = items
	c.shippingFee = shippingFee
	c.customerID = customerID
	c.guest = guest
	return nil
}
