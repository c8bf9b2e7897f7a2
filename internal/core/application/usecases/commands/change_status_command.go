package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/guard"
)

var (
	ErrChangeStatusCommandIsNotConstructed = errors.New(
		"ChangeStatusCommand must be created via NewChangeStatusCommand constructor",
	)
	ErrNothingToChange = errors.New("a target status or a tracking update is required")
)

// ChangeStatusCommand represents a request to move an order to a different
// status, optionally updating courier tracking details in the same change.
//
// The actor decides the rule set applied: merchant requests are permissive
// manual overrides, system requests are monotonic courier reconciliation
// proposals. A command may carry only tracking fields, in which case the
// status is left to the aggregate's auto-promotion rule.
type ChangeStatusCommand struct { //nolint:recvcheck //using for validation
	orderID     kernel.UUID
	target      order.Status
	actor       order.Actor
	trackingID  string
	courierName string
	trackingURL string

	guard guard.ConstructorGuard
}

// NewChangeStatusCommand creates a command to change an order's status.
// target may be order.Unknown for a tracking-only update; in that case at
// least one tracking field must be non-empty.
func NewChangeStatusCommand(
	orderID kernel.UUID,
	target order.Status,
	actor order.Actor,
	trackingID string,
	courierName string,
	trackingURL string,
) (ChangeStatusCommand, error) {
	statusCommand := ChangeStatusCommand{
		trackingID:  trackingID,
		courierName: courierName,
		trackingURL: trackingURL,
		guard:       guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		statusCommand.setOrderID(orderID),
		statusCommand.setActor(actor),
		statusCommand.setTarget(target),
	); err != nil {
		return ChangeStatusCommand{}, err
	}

	return statusCommand, nil
}

// Validate ensures the command was created through the constructor.
func (c ChangeStatusCommand) Validate() error {
	return c.guard.Validate(ErrChangeStatusCommandIsNotConstructed)
}

// OrderID returns the order to change.
func (c ChangeStatusCommand) OrderID() kernel.UUID {
	return c.orderID
}

// Target returns the requested status, or order.Unknown for a
// tracking-only update.
func (c ChangeStatusCommand) Target() order.Status {
	return c.target
}

// Actor returns who requested the change.
func (c ChangeStatusCommand) Actor() order.Actor {
	return c.actor
}

// HasTrackingUpdate reports whether any tracking field is present.
func (c ChangeStatusCommand) HasTrackingUpdate() bool {
	return c.trackingID != "" || c.courierName != "" || c.trackingURL != ""
}

// TrackingID returns the tracking number to record, possibly empty.
func (c ChangeStatusCommand) TrackingID() string {
	return c.trackingID
}

// CourierName returns the courier vendor name to record, possibly empty.
func (c ChangeStatusCommand) CourierName() string {
	return c.courierName
}

// TrackingURL returns the tracking page URL to record, possibly empty.
func (c ChangeStatusCommand) TrackingURL() string {
	return c.trackingURL
}

func (c *ChangeStatusCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *ChangeStatusCommand) setActor(actor order.Actor) error {
	if err := actor.Validate(); err != nil {
		return err
	}

	c.actor = actor
	return nil
}

func (c *ChangeStatusCommand) setTarget(target order.Status) error {
	if target == order.Unknown {
		if !c.HasTrackingUpdate() {
			return ErrNothingToChange
		}
		return nil
	}

	if err := target.Validate(); err != nil {
		return err
	}

	c.target = target
	return nil
}
