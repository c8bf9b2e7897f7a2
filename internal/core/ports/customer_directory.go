package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"
)

// CustomerContact is the minimal contact card needed to notify a
// registered customer about their order.
type CustomerContact struct {
	Name  string
	Email string
}

// CustomerDirectory resolves contact details for registered customers.
// Guest orders carry their contact details inline and never hit this port.
type CustomerDirectory interface {
	// GetContact returns the contact card for the given customer.
	// Returns errs.ObjectNotFoundError when the customer is unknown.
	GetContact(ctx context.Context, customerID kernel.UUID) (CustomerContact, error)
}
