// Package notifications delivers best-effort customer emails when an order
// changes status. Delivery is asynchronous and never feeds errors back into
// the write path: a failed email is logged and dropped, the status change
// stands.
package notifications

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/ports"
)

// statusTemplate holds the subject and body copy for one status.
// The body is a fmt format string taking the recipient name and the
// short order number.
type statusTemplate struct {
	subject string
	body    string
}

// templates maps order statuses to their email copy. Statuses without an
// entry fall back to genericTemplate.
var templates = map[order.Status]statusTemplate{
	order.OrderPlaced: {
		subject: "Your order %s has been placed",
		body:    "Hi %s,\n\nThanks for your order %s. We have received it and will start preparing it shortly.",
	},
	order.Processing: {
		subject: "Your order %s is being prepared",
		body:    "Hi %s,\n\nYour order %s is being prepared for dispatch.",
	},
	order.Shipped: {
		subject: "Your order %s has shipped",
		body:    "Hi %s,\n\nGood news! Your order %s has been handed to the courier.",
	},
	order.OutForDelivery: {
		subject: "Your order %s is out for delivery",
		body:    "Hi %s,\n\nYour order %s is out for delivery and should reach you today.",
	},
	order.Delivered: {
		subject: "Your order %s has been delivered",
		body:    "Hi %s,\n\nYour order %s has been delivered. We hope you enjoy it!",
	},
	order.Cancelled: {
		subject: "Your order %s has been cancelled",
		body:    "Hi %s,\n\nYour order %s has been cancelled. If you paid online, the refund is on its way.",
	},
	order.ReturnRequested: {
		subject: "Return requested for order %s",
		body:    "Hi %s,\n\nWe have registered your return request for order %s and will arrange a pickup.",
	},
	order.Returned: {
		subject: "Return completed for order %s",
		body:    "Hi %s,\n\nYour return for order %s is complete. The refund will be processed shortly.",
	},
}

// genericTemplate covers intermediate statuses that have no dedicated copy.
var genericTemplate = statusTemplate{
	subject: "Update on your order %s",
	body:    "Hi %s,\n\nYour order %s has a new status update.",
}

// Dispatcher sends status-change emails through a MailSender, resolving
// the recipient from the order's guest snapshot or the customer directory.
// Orders without a reachable email address are skipped silently.
type Dispatcher struct {
	sender    ports.MailSender
	directory ports.CustomerDirectory
	logger    *slog.Logger

	wg sync.WaitGroup
}

// NewDispatcher creates a notification dispatcher.
// The customer directory may be nil when the store only serves guest checkout.
func NewDispatcher(sender ports.MailSender, directory ports.CustomerDirectory, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{
		sender:    sender,
		directory: directory,
		logger:    logger.With("component", "notifications"),
	}
}

// NotifyStatusChanged dispatches the email for a status change in the
// background. It returns immediately; recipient resolution, rendering and
// delivery all happen on the goroutine, so the caller never waits on the
// customer directory or the mail transport. Failures are logged, never
// returned.
func (d *Dispatcher) NotifyStatusChanged(ctx context.Context, aggregate *order.Order, from order.Status) {
	// Capture everything the goroutine needs before returning, the
	// aggregate may be mutated by the caller afterwards.
	orderID := aggregate.ID()
	shortNumber := aggregate.ShortNumber()
	to := aggregate.Status()
	source := newRecipientSource(aggregate)

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		// The transition is already committed; detach from the caller's
		// cancellation so it cannot cut the delivery short.
		ctx := context.WithoutCancel(ctx)

		name, email := d.resolveRecipient(ctx, source)
		if email == "" {
			d.logger.DebugContext(ctx, "no recipient email, skipping notification",
				"order_id", orderID.String(),
				"status", to.String())
			return
		}

		tmpl, ok := templates[to]
		if !ok {
			tmpl = genericTemplate
		}

		subject := fmt.Sprintf(tmpl.subject, shortNumber)
		body := fmt.Sprintf(tmpl.body, name, shortNumber)

		if err := d.sender.Send(ctx, email, subject, body); err != nil {
			d.logger.ErrorContext(ctx, "failed to send status notification",
				"order_id", orderID.String(),
				"from", from.String(),
				"to", to.String(),
				"error", err)
			return
		}

		d.logger.InfoContext(ctx, "status notification sent",
			"order_id", orderID.String(),
			"status", to.String())
	}()
}

// Wait blocks until all in-flight notifications have finished.
// Used on shutdown and in tests.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

// recipientSource is the addressing snapshot of an order, captured on the
// caller's goroutine so the aggregate itself never escapes into the
// background send.
type recipientSource struct {
	orderID    kernel.UUID
	hasGuest   bool
	guestName  string
	guestEmail string
	customerID *kernel.UUID
}

func newRecipientSource(aggregate *order.Order) recipientSource {
	source := recipientSource{orderID: aggregate.ID()}

	if guest := aggregate.Guest(); guest != nil {
		source.hasGuest = true
		source.guestName = guest.Name()
		source.guestEmail = guest.Email()
		return source
	}

	if customerID := aggregate.CustomerID(); customerID != nil {
		captured := *customerID
		source.customerID = &captured
	}
	return source
}

// resolveRecipient picks the notification address: the guest snapshot when
// present, otherwise the customer directory. Returns empty email when the
// order has no reachable address.
func (d *Dispatcher) resolveRecipient(ctx context.Context, source recipientSource) (name, email string) {
	if source.hasGuest {
		return source.guestName, source.guestEmail
	}

	if source.customerID == nil || d.directory == nil {
		return "", ""
	}

	contact, err := d.directory.GetContact(ctx, *source.customerID)
	if err != nil {
		d.logger.WarnContext(ctx, "failed to resolve customer contact",
			"order_id", source.orderID.String(),
			"customer_id", source.customerID.String(),
			"error", err)
		return "", ""
	}

	return contact.Name, contact.Email
}
