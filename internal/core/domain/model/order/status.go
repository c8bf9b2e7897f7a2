package order

import (
	"fmt"

	"fulfillment/internal/pkg/errs"
)

// Status represents the fulfillment state of an order.
// It implements a state machine whose happy path follows the canonical
// pipeline, with side branches for cancellation and payment failure and a
// return branch reachable only from Delivered.
//
// Canonical pipeline:
//
//	OrderPlaced -> Confirmed -> Processing -> PickupRequested ->
//	WaitingForPickup -> PickedUp -> WarehouseReceived -> Shipped ->
//	OutForDelivery -> Delivered
//
// Side branches (from any non-terminal state): Cancelled, PaymentFailed.
// Return branch (from Delivered only): ReturnRequested -> ReturnApproved -> Returned.
// Terminal states: Delivered (until a return is requested), Cancelled, Returned.
//
// Status is a value object that validates state transitions and provides
// string representations for persistence and display. Only members of the
// closed enum are ever persisted.
type Status int

const (
	// Unknown represents an invalid or undefined status.
	// This value (0) helps catch uninitialized Status values.
	Unknown Status = iota

	// OrderPlaced is the initial status when an order is materialized,
	// either at checkout (COD) or by the payment verifier (CARD).
	OrderPlaced

	// Confirmed indicates the merchant has acknowledged the order.
	Confirmed

	// Processing indicates the order is being prepared for shipment.
	Processing

	// PickupRequested indicates a courier pickup has been requested.
	PickupRequested

	// WaitingForPickup indicates the shipment is packed and awaiting the courier.
	WaitingForPickup

	// PickedUp indicates the courier has collected the shipment.
	PickedUp

	// WarehouseReceived indicates the shipment reached a courier warehouse or hub.
	WarehouseReceived

	// Shipped indicates the shipment is in transit to the buyer.
	Shipped

	// OutForDelivery indicates the shipment is on its final delivery leg.
	OutForDelivery

	// Delivered indicates the shipment reached the buyer.
	// Terminal unless a return is later requested.
	Delivered

	// Cancelled indicates the order was cancelled. Terminal.
	Cancelled

	// PaymentFailed indicates the order's payment did not complete.
	PaymentFailed

	// ReturnRequested indicates the buyer asked to return a delivered order.
	ReturnRequested

	// ReturnApproved indicates the merchant approved the return.
	ReturnApproved

	// Returned indicates the shipment came back to the merchant. Terminal.
	Returned
)

// getStatusStrings returns a map of Status values to their persisted string
// representations. All statuses are included for string conversion.
func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:           "UNKNOWN",
		OrderPlaced:       "ORDER_PLACED",
		Confirmed:         "CONFIRMED",
		Processing:        "PROCESSING",
		PickupRequested:   "PICKUP_REQUESTED",
		WaitingForPickup:  "WAITING_FOR_PICKUP",
		PickedUp:          "PICKED_UP",
		WarehouseReceived: "WAREHOUSE_RECEIVED",
		Shipped:           "SHIPPED",
		OutForDelivery:    "OUT_FOR_DELIVERY",
		Delivered:         "DELIVERED",
		Cancelled:         "CANCELLED",
		PaymentFailed:     "PAYMENT_FAILED",
		ReturnRequested:   "RETURN_REQUESTED",
		ReturnApproved:    "RETURN_APPROVED",
		Returned:          "RETURNED",
	}
}

// canonicalPipeline is the ordered forward progression of a shipment.
// Position in this slice is the status's pipeline index; statuses absent
// from it (cancellation, payment failure, return branch) are off-pipeline.
func canonicalPipeline() []Status {
	return []Status{
		OrderPlaced,
		Confirmed,
		Processing,
		PickupRequested,
		WaitingForPickup,
		PickedUp,
		WarehouseReceived,
		Shipped,
		OutForDelivery,
		Delivered,
	}
}

// ParseStatus converts a persisted or client-supplied string into a Status.
// Free text that is not a member of the closed enum is rejected, never
// coerced; this is what keeps arbitrary courier vocabulary out of storage.
func ParseStatus(s string) (Status, error) {
	for status, str := range getStatusStrings() {
		if str == s && status != Unknown {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause(
		"status is invalid", fmt.Errorf("%q is not a valid status", s))
}

// Validate checks if the Status value is a member of the closed enum.
// Unknown (0) and out-of-range values are invalid.
func (s Status) Validate() error {
	if _, ok := getStatusStrings()[s]; !ok || s == Unknown {
		return errs.NewValueIsInvalidErrorWithCause(
			"status is invalid", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the persisted name of the status, e.g. "OUT_FOR_DELIVERY".
// Implements fmt.Stringer and is safe to call on any Status value.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "UNKNOWN"
}

// PipelineIndex returns the status's position on the canonical pipeline
// and whether the status is on the pipeline at all. Off-pipeline statuses
// (Cancelled, PaymentFailed, the return branch) report ok=false.
func (s Status) PipelineIndex() (int, bool) {
	for i, status := range canonicalPipeline() {
		if status == s {
			return i, true
		}
	}
	return -1, false
}

// IsTerminal reports whether the status ends the order lifecycle.
// Delivered is terminal until a return is requested; the only legal move
// out of a terminal state is Delivered -> ReturnRequested.
func (s Status) IsTerminal() bool {
	return s == Delivered || s == Cancelled || s == Returned
}

// ValidateMerchantTransition checks whether a merchant may move an order
// from s to the requested status. Merchant overrides are intentionally
// permissive: any transition between non-terminal states is accepted, and
// the caller is expected to audit-log it. The single restriction is
// backward moves out of a terminal state, where only
// Delivered -> ReturnRequested is allowed.
func (s Status) ValidateMerchantTransition(to Status) error {
	if err := to.Validate(); err != nil {
		return err
	}

	if s.IsTerminal() && !(s == Delivered && to == ReturnRequested) {
		return errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("%s is terminal and cannot transition to %s", s.String(), to.String()),
		)
	}

	return nil
}

// AcceptsSystemCandidate reports whether an automated (courier-derived)
// proposal from s to the candidate status should be applied. System
// proposals may only move forward along the canonical pipeline: both
// statuses must be on the pipeline and the candidate's index must be
// strictly greater than the current one. Proposals against terminal or
// off-pipeline statuses are always discarded. This is the monotonicity
// guard that makes duplicate or out-of-order courier snapshots safe.
func (s Status) AcceptsSystemCandidate(candidate Status) bool {
	currentIdx, onPipeline := s.PipelineIndex()
	if !onPipeline {
		return false
	}

	candidateIdx, onPipeline := candidate.PipelineIndex()
	if !onPipeline {
		return false
	}

	return candidateIdx > currentIdx
}
