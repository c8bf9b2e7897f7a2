package commands

import (
	"errors"

	"fulfillment/internal/pkg/guard"
)

var ErrReconcileAllTrackingCommandIsNotConstructed = errors.New(
	"ReconcileAllTrackingCommand must be created via NewReconcileAllTrackingCommand constructor",
)

// ReconcileAllTrackingCommand triggers reconciliation of every order that
// carries a tracking number and has not reached a terminal status. This is
// the batch operation behind the periodic tracking sweep.
type ReconcileAllTrackingCommand struct {
	guard guard.ConstructorGuard
}

// NewReconcileAllTrackingCommand creates a command to reconcile all
// trackable orders against the courier feed. This is a parameterless
// command that processes the whole work set.
func NewReconcileAllTrackingCommand() ReconcileAllTrackingCommand {
	return ReconcileAllTrackingCommand{guard: guard.NewConstructorGuard()}
}

// Validate ensures the command was created through the constructor.
func (c ReconcileAllTrackingCommand) Validate() error {
	return c.guard.Validate(ErrReconcileAllTrackingCommandIsNotConstructed)
}
