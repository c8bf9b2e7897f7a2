package order

import (
	"errors"
	"time"

	"fulfillment/internal/pkg/errs"
)

// ErrCourierEventIsNotConstructed is returned when a CourierEvent was not
// created through the NewCourierEvent factory method.
var ErrCourierEventIsNotConstructed = errors.New("CourierEvent must be created via NewCourierEvent constructor")

// CourierEvent is one entry of a courier's tracking history as reported by
// the tracking API. The status text is the courier's free-text vocabulary;
// it feeds the reconciler but is never persisted as the order's status.
type CourierEvent struct {
	statusText string
	location   string
	occurredAt time.Time
	remarks    string

	isConstructed bool
}

// NewCourierEvent creates a validated courier history entry.
// The status text is required; location and remarks are optional.
func NewCourierEvent(statusText, location string, occurredAt time.Time, remarks string) (CourierEvent, error) {
	if statusText == "" {
		return CourierEvent{}, errs.NewValueIsRequiredError("courier event status")
	}

	return CourierEvent{
		statusText:    statusText,
		location:      location,
		occurredAt:    occurredAt,
		remarks:       remarks,
		isConstructed: true,
	}, nil
}

// Validate ensures the CourierEvent was created via NewCourierEvent.
func (e CourierEvent) Validate() error {
	if !e.isConstructed {
		return ErrCourierEventIsNotConstructed
	}
	return nil
}

// StatusText returns the courier's free-text status for this entry.
func (e CourierEvent) StatusText() string {
	return e.statusText
}

// Location returns where the event was recorded, possibly empty.
func (e CourierEvent) Location() string {
	return e.location
}

// OccurredAt returns the courier-reported event time.
func (e CourierEvent) OccurredAt() time.Time {
	return e.occurredAt
}

// Remarks returns the courier's free-text remarks, possibly empty.
func (e CourierEvent) Remarks() string {
	return e.remarks
}

// IsSame reports whether two events describe the same courier history
// entry. Used to keep event syncing append-only without duplicating
// entries across polls.
func (e CourierEvent) IsSame(other CourierEvent) bool {
	return e.statusText == other.statusText && e.occurredAt.Equal(other.occurredAt)
}
