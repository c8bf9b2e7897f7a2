package order

import (
	"fmt"

	"fulfillment/internal/pkg/errs"
)

// Actor identifies who initiated a status transition. The transition rules
// differ by actor: merchant edits are permissive manual overrides, system
// proposals come from courier reconciliation and only move forward.
type Actor int

const (
	// ActorUnknown represents an invalid or undefined actor.
	ActorUnknown Actor = iota

	// ActorMerchant is a human operator editing the order manually.
	ActorMerchant

	// ActorSystem is the automated courier status reconciler.
	ActorSystem
)

// String returns the audit-log name of the actor.
func (a Actor) String() string {
	switch a {
	case ActorMerchant:
		return "merchant"
	case ActorSystem:
		return "system"
	default:
		return "unknown"
	}
}

// Validate checks that the actor is one of the defined values.
func (a Actor) Validate() error {
	if a != ActorMerchant && a != ActorSystem {
		return errs.NewValueIsInvalidErrorWithCause(
			"actor is invalid", fmt.Errorf("%d is not a valid actor", a))
	}
	return nil
}
