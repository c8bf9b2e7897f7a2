package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/tracking"
)

// TrackingProvider fetches the courier-reported state of a shipment from
// an external tracking API.
type TrackingProvider interface {
	// Fetch returns the current snapshot for the given tracking number.
	// Returns errs.ObjectNotFoundError when the courier does not know the
	// tracking number.
	Fetch(ctx context.Context, trackingID string) (tracking.Snapshot, error)
}
