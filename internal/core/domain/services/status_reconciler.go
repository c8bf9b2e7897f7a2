package services

import (
	"strings"

	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/tracking"
)

// keywordTableVersion identifies the courier vocabulary revision the
// reconciler is built against. The table is a configuration artifact kept
// separate from the transition rules so vendor phrasing can change without
// touching the state machine.
const keywordTableVersion = "2024-06"

// keywordRule maps courier phrases to a candidate internal status.
// Rules are evaluated in order; the first match wins.
type keywordRule struct {
	keywords  []string
	candidate order.Status
}

// keywordTable is the ordered courier-vocabulary table, most specific
// phrases first. "shipped"-class and "pending" phrases carry extra
// conditions handled in Reconcile because their meaning depends on how far
// the shipment already progressed.
func keywordTable() []keywordRule {
	return []keywordRule{
		{keywords: []string{"delivered"}, candidate: order.Delivered},
		{keywords: []string{"out for delivery"}, candidate: order.OutForDelivery},
		{keywords: []string{"picked up", "picked-up"}, candidate: order.PickedUp},
		{keywords: []string{"pickup requested"}, candidate: order.PickupRequested},
		{keywords: []string{"waiting for pickup"}, candidate: order.WaitingForPickup},
		{keywords: []string{"warehouse", "hub"}, candidate: order.WarehouseReceived},
		{keywords: []string{"in transit", "dispatched", "shipped", "forwarded"}, candidate: order.Shipped},
		{keywords: []string{"pending"}, candidate: order.Processing},
	}
}

// StatusReconciler is a pure domain service that maps a courier's
// free-text tracking snapshot to a candidate internal status.
//
// Key responsibilities:
//   - Building a text corpus from the snapshot's current status and its
//     most recent event
//   - Matching the corpus against the ordered keyword table
//   - Enforcing the monotonicity guard: a candidate is only proposed when
//     it moves the order strictly forward along the canonical pipeline
//
// The reconciler performs no I/O; persistence of an accepted candidate is
// the caller's concern. Because regressions are filtered here and again by
// the transition rules, out-of-order or duplicate courier snapshots are
// safe to apply repeatedly.
type StatusReconciler struct{}

// NewStatusReconciler creates a new StatusReconciler instance.
func NewStatusReconciler() StatusReconciler {
	return StatusReconciler{}
}

// TableVersion returns the courier vocabulary revision in use.
func (r StatusReconciler) TableVersion() string {
	return keywordTableVersion
}

// Reconcile maps a courier snapshot to a candidate status for an order
// currently in the given status.
//
// Returns (candidate, true) when the snapshot supports moving the order
// forward, and ok=false when the snapshot carries no new information: no
// keyword matched, the candidate equals the current status, or the
// candidate would not advance the canonical pipeline. An order in a
// terminal or off-pipeline status never receives a candidate.
func (r StatusReconciler) Reconcile(current order.Status, snapshot tracking.Snapshot) (order.Status, bool) {
	corpus := buildCorpus(snapshot)
	if corpus == "" {
		return order.Unknown, false
	}

	candidate, matched := matchKeywords(corpus)
	if !matched {
		return order.Unknown, false
	}

	// "shipped"-class phrases are ambiguous once the shipment is past
	// pickup: couriers keep emitting them for intermediate scans, where
	// they would be a regression from e.g. OutForDelivery.
	if candidate == order.Shipped && !atOrBeforePickupRequested(current) {
		return order.Unknown, false
	}

	// A bare "pending" only means progress for a freshly placed order.
	if candidate == order.Processing && current != order.OrderPlaced {
		return order.Unknown, false
	}

	if !current.AcceptsSystemCandidate(candidate) {
		return order.Unknown, false
	}

	return candidate, true
}

// buildCorpus concatenates the lowercased current status text with the
// most recent event's status and remarks.
func buildCorpus(snapshot tracking.Snapshot) string {
	parts := []string{snapshot.CurrentStatusText}
	if latest, ok := snapshot.LatestEvent(); ok {
		parts = append(parts, latest.Status, latest.Remarks)
	}
	return strings.ToLower(strings.TrimSpace(strings.Join(parts, " ")))
}

// matchKeywords runs the ordered keyword table over the corpus,
// first match wins.
func matchKeywords(corpus string) (order.Status, bool) {
	for _, rule := range keywordTable() {
		for _, keyword := range rule.keywords {
			if strings.Contains(corpus, keyword) {
				return rule.candidate, true
			}
		}
	}
	return order.Unknown, false
}

// atOrBeforePickupRequested reports whether the status sits at or before
// PickupRequested on the canonical pipeline.
func atOrBeforePickupRequested(s order.Status) bool {
	currentIdx, ok := s.PipelineIndex()
	if !ok {
		return false
	}
	pickupIdx, _ := order.PickupRequested.PipelineIndex()
	return currentIdx <= pickupIdx
}
