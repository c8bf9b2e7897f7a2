package commands

import (
	"context"
	"log/slog"

	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/ports"
)

// ChangeStatusResult reports the outcome of a status change request.
type ChangeStatusResult struct {
	From    order.Status
	To      order.Status
	Changed bool
}

// ChangeStatusCommandHandler handles merchant and system status changes.
//
// The transition itself is decided by the aggregate; the handler owns the
// transaction, the audit log of merchant overrides, and the best-effort
// side effects (customer notification and the status-changed integration
// event) that run only after the transaction commits.
type ChangeStatusCommandHandler struct {
	uowFactory OrderUoWFactory
	notifier   StatusNotifier
	publisher  ports.EventPublisher
	poller     PollScheduler
	logger     *slog.Logger
}

// NewChangeStatusCommandHandler creates a handler for status change operations.
// The poller may be nil when background polling is disabled.
func NewChangeStatusCommandHandler(
	uowFactory OrderUoWFactory,
	notifier StatusNotifier,
	publisher ports.EventPublisher,
	poller PollScheduler,
	logger *slog.Logger,
) ChangeStatusCommandHandler {
	return ChangeStatusCommandHandler{
		uowFactory: uowFactory,
		notifier:   notifier,
		publisher:  publisher,
		poller:     poller,
		logger:     logger.With("component", "change_status"),
	}
}

// Handle processes a status change command.
//
// Applies the optional tracking update first, then the requested transition
// under the actor's rule set. A discarded system proposal is a successful
// no-op; a rejected merchant transition rolls back and surfaces
// order.ErrIllegalTransition. Notification and event publishing happen only
// for committed changes and never fail the command.
func (h *ChangeStatusCommandHandler) Handle(
	ctx context.Context, cmd ChangeStatusCommand,
) (ChangeStatusResult, error) {
	if err := cmd.Validate(); err != nil {
		return ChangeStatusResult{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return ChangeStatusResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	aggregate, err := orderRepo.Get(ctx, cmd.OrderID())
	if err != nil {
		return ChangeStatusResult{}, err
	}

	from := aggregate.Status()
	changed := false

	if cmd.HasTrackingUpdate() {
		promoted, err := aggregate.AssignTracking(cmd.TrackingID(), cmd.CourierName(), cmd.TrackingURL())
		if err != nil {
			return ChangeStatusResult{}, err
		}
		changed = changed || promoted
	}

	if cmd.Target() != order.Unknown {
		transitioned, err := aggregate.TransitionTo(cmd.Target(), cmd.Actor())
		if err != nil {
			return ChangeStatusResult{}, err
		}
		changed = changed || transitioned
	}

	if err = orderRepo.Update(ctx, aggregate); err != nil {
		return ChangeStatusResult{}, err
	}
	if err = uow.Commit(ctx); err != nil {
		return ChangeStatusResult{}, err
	}

	// Keep the per-order poll loop in step with the tracking lifecycle: a
	// fresh tracking number starts a loop, a terminal status ends one.
	if h.poller != nil {
		if cmd.HasTrackingUpdate() && aggregate.IsTrackable() {
			h.poller.StartPolling(aggregate.ID())
		} else if aggregate.Status().IsTerminal() {
			h.poller.StopPolling(aggregate.ID())
		}
	}

	result := ChangeStatusResult{From: from, To: aggregate.Status(), Changed: changed}
	if !changed {
		return result, nil
	}

	// Merchant overrides bypass the pipeline order, so every one of them
	// is recorded with actor attribution.
	h.logger.InfoContext(ctx, "order status changed",
		"order_id", aggregate.ID().String(),
		"from", from.String(),
		"to", aggregate.Status().String(),
		"actor", cmd.Actor().String())

	h.notifier.NotifyStatusChanged(ctx, aggregate, from)

	if err = h.publisher.PublishStatusChanged(ctx, aggregate, from, cmd.Actor()); err != nil {
		h.logger.ErrorContext(ctx, "failed to publish status change",
			"order_id", aggregate.ID().String(), "error", err)
	}

	return result, nil
}
