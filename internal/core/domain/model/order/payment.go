package order

import (
	"fmt"

	"fulfillment/internal/pkg/errs"
)

// PaymentMethod is the closed enum of supported payment methods.
type PaymentMethod int

const (
	// PaymentMethodUnknown represents an invalid or undefined payment method.
	PaymentMethodUnknown PaymentMethod = iota

	// COD is cash on delivery: the order is materialized unpaid at checkout.
	COD

	// Card is a gateway-verified card payment: the order is materialized
	// paid by the payment verifier, or a COD order is upgraded to it.
	Card
)

// ParsePaymentMethod converts a persisted or client-supplied string into a
// PaymentMethod.
func ParsePaymentMethod(s string) (PaymentMethod, error) {
	switch s {
	case "COD":
		return COD, nil
	case "CARD":
		return Card, nil
	default:
		return PaymentMethodUnknown, errs.NewValueIsInvalidErrorWithCause(
			"paymentMethod is invalid", fmt.Errorf("%q is not a valid payment method", s))
	}
}

// String returns the persisted name of the payment method.
func (m PaymentMethod) String() string {
	switch m {
	case COD:
		return "COD"
	case Card:
		return "CARD"
	default:
		return "UNKNOWN"
	}
}

// Validate checks that the payment method is one of the defined values.
func (m PaymentMethod) Validate() error {
	if m != COD && m != Card {
		return errs.NewValueIsInvalidErrorWithCause(
			"paymentMethod is invalid", fmt.Errorf("%d is not a valid payment method", m))
	}
	return nil
}

// PaymentStatus is the closed enum of payment settlement states.
type PaymentStatus int

const (
	// PaymentStatusUnknown represents an invalid or undefined payment status.
	PaymentStatusUnknown PaymentStatus = iota

	// PaymentPending means no successful payment has settled yet.
	PaymentPending

	// PaymentPaid means a payment has settled. Paid is monotonic: the
	// aggregate never moves an order back to pending.
	PaymentPaid
)

// ParsePaymentStatus converts a persisted string into a PaymentStatus.
func ParsePaymentStatus(s string) (PaymentStatus, error) {
	switch s {
	case "pending":
		return PaymentPending, nil
	case "paid":
		return PaymentPaid, nil
	default:
		return PaymentStatusUnknown, errs.NewValueIsInvalidErrorWithCause(
			"paymentStatus is invalid", fmt.Errorf("%q is not a valid payment status", s))
	}
}

// String returns the persisted name of the payment status.
func (s PaymentStatus) String() string {
	switch s {
	case PaymentPending:
		return "pending"
	case PaymentPaid:
		return "paid"
	default:
		return "unknown"
	}
}

// Validate checks that the payment status is one of the defined values.
func (s PaymentStatus) Validate() error {
	if s != PaymentPending && s != PaymentPaid {
		return errs.NewValueIsInvalidErrorWithCause(
			"paymentStatus is invalid", fmt.Errorf("%d is not a valid payment status", s))
	}
	return nil
}

// Coupon is a discount snapshot captured on the order. It is a record of
// what was applied at a point in time, never recomputed afterwards.
type Coupon struct {
	Code     string
	Discount int64
}
