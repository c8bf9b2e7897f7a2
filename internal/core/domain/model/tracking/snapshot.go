// Package tracking holds the courier-reported view of a shipment as
// returned by a courier tracking API. These are plain data snapshots from
// an external system: they carry free-text vendor vocabulary and are never
// persisted as-is. The status reconciler maps them onto the internal
// status enum.
package tracking

import "time"

// Event is one entry of the courier's tracking history.
type Event struct {
	Status   string
	Location string
	Time     time.Time
	Remarks  string
}

// Snapshot is the polled state of a shipment, keyed by its tracking
// number (AWB). Events are in the courier's reported order, oldest first.
type Snapshot struct {
	CurrentStatusText    string
	CurrentLocation      string
	ExpectedDeliveryDate *time.Time
	Events               []Event
}

// LatestEvent returns the most recent history entry, if any.
func (s Snapshot) LatestEvent() (Event, bool) {
	if len(s.Events) == 0 {
		return Event{}, false
	}
	return s.Events[len(s.Events)-1], true
}
