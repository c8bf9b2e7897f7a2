package commands

import (
	"context"
	"errors"
	"log/slog"

	"fulfillment/internal/pkg/errs"
)

// ReconcileAllTrackingResult summarizes one batch reconciliation pass.
type ReconcileAllTrackingResult struct {
	// Processed is how many trackable orders were reconciled without error.
	Processed int
	// Advanced is how many of those moved to a new status.
	Advanced int
}

// ReconcileAllTrackingCommandHandler reconciles the whole trackable work
// set in one pass. The work set comes from the order repository; each
// order then goes through the single-order handler so it keeps its own
// transaction, and a failure on one order never stops the rest of the
// pass.
type ReconcileAllTrackingCommandHandler struct {
	uowFactory       OrderUoWFactory
	reconcileHandler ReconcileTrackingCommandHandler
	logger           *slog.Logger
}

// NewReconcileAllTrackingCommandHandler creates a handler for batch
// reconciliation passes.
func NewReconcileAllTrackingCommandHandler(
	uowFactory OrderUoWFactory,
	reconcileHandler ReconcileTrackingCommandHandler,
	logger *slog.Logger,
) ReconcileAllTrackingCommandHandler {
	return ReconcileAllTrackingCommandHandler{
		uowFactory:       uowFactory,
		reconcileHandler: reconcileHandler,
		logger:           logger.With("component", "reconcile_all_tracking"),
	}
}

// Handle processes a batch reconciliation command.
// Loads every trackable order and reconciles each one; per-order failures
// are logged and skipped so one bad tracking number cannot stall the
// sweep.
func (h *ReconcileAllTrackingCommandHandler) Handle(
	ctx context.Context, cmd ReconcileAllTrackingCommand,
) (ReconcileAllTrackingResult, error) {
	if err := cmd.Validate(); err != nil {
		return ReconcileAllTrackingResult{}, err
	}

	// The work set is a plain read; each order opens its own transaction
	// inside the single-order handler afterwards.
	uow := h.uowFactory.Create()
	trackable, err := uow.OrderRepository().GetAllTrackable(ctx)
	if err != nil {
		return ReconcileAllTrackingResult{}, err
	}

	var result ReconcileAllTrackingResult
	for _, aggregate := range trackable {
		orderCmd, err := NewReconcileTrackingCommand(aggregate.ID())
		if err != nil {
			h.logger.ErrorContext(ctx, "skipped order in reconciliation pass",
				"order_id", aggregate.ID().String(), "error", err)
			continue
		}

		orderResult, err := h.reconcileHandler.Handle(ctx, orderCmd)
		if err != nil {
			// An unknown tracking number is a data issue on the courier
			// side, not a system failure. Keep it at warn level.
			if errors.Is(err, errs.ErrObjectNotFound) {
				h.logger.WarnContext(ctx, "no courier data for order",
					"order_id", aggregate.ID().String(),
					"tracking_id", aggregate.TrackingID())
				continue
			}
			h.logger.ErrorContext(ctx, "failed to reconcile order",
				"order_id", aggregate.ID().String(), "error", err)
			continue
		}

		result.Processed++
		if orderResult.StatusChanged {
			result.Advanced++
		}
	}

	return result, nil
}
