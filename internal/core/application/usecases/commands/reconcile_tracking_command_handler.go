package commands

import (
	"context"
	"log/slog"

	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/tracking"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/core/ports"
)

// ReconcileTrackingResult reports what a reconciliation pass changed.
type ReconcileTrackingResult struct {
	// EventsAppended is how many new courier history entries were recorded.
	EventsAppended int
	// StatusChanged is true when the reconciled candidate advanced the order.
	StatusChanged bool
	// From and To describe the applied transition when StatusChanged is true.
	From order.Status
	To   order.Status
}

// ReconcileTrackingCommandHandler folds one courier tracking snapshot into
// an order.
//
// The courier feed is untrusted input: free-text vocabulary, arriving out
// of order, possibly stale. The handler fetches the snapshot outside the
// transaction, appends unseen history entries, asks the status reconciler
// for a candidate, and applies it as a system transition so the aggregate's
// monotonicity guard has the final word. Running the same reconciliation
// twice changes nothing the second time.
type ReconcileTrackingCommandHandler struct {
	uowFactory OrderUoWFactory
	provider   ports.TrackingProvider
	reconciler services.StatusReconciler
	notifier   StatusNotifier
	publisher  ports.EventPublisher
	logger     *slog.Logger
}

// NewReconcileTrackingCommandHandler creates a handler for courier
// reconciliation operations.
func NewReconcileTrackingCommandHandler(
	uowFactory OrderUoWFactory,
	provider ports.TrackingProvider,
	reconciler services.StatusReconciler,
	notifier StatusNotifier,
	publisher ports.EventPublisher,
	logger *slog.Logger,
) ReconcileTrackingCommandHandler {
	return ReconcileTrackingCommandHandler{
		uowFactory: uowFactory,
		provider:   provider,
		reconciler: reconciler,
		notifier:   notifier,
		publisher:  publisher,
		logger:     logger.With("component", "reconcile_tracking"),
	}
}

// Handle processes a tracking reconciliation command.
// Orders without a tracking number or already in a terminal status are
// skipped as successful no-ops.
func (h *ReconcileTrackingCommandHandler) Handle(
	ctx context.Context, cmd ReconcileTrackingCommand,
) (ReconcileTrackingResult, error) {
	if err := cmd.Validate(); err != nil {
		return ReconcileTrackingResult{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return ReconcileTrackingResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	aggregate, err := orderRepo.Get(ctx, cmd.OrderID())
	if err != nil {
		return ReconcileTrackingResult{}, err
	}

	if !aggregate.IsTrackable() {
		return ReconcileTrackingResult{}, nil
	}

	snapshot, err := h.provider.Fetch(ctx, aggregate.TrackingID())
	if err != nil {
		return ReconcileTrackingResult{}, err
	}

	appended, err := aggregate.SyncCourierEvents(courierEvents(snapshot))
	if err != nil {
		return ReconcileTrackingResult{}, err
	}

	from := aggregate.Status()
	statusChanged := false
	if candidate, ok := h.reconciler.Reconcile(aggregate.Status(), snapshot); ok {
		statusChanged, err = aggregate.TransitionTo(candidate, order.ActorSystem)
		if err != nil {
			return ReconcileTrackingResult{}, err
		}
	}

	if appended == 0 && !statusChanged {
		return ReconcileTrackingResult{From: from, To: from}, nil
	}

	if err = orderRepo.Update(ctx, aggregate); err != nil {
		return ReconcileTrackingResult{}, err
	}
	if err = uow.Commit(ctx); err != nil {
		return ReconcileTrackingResult{}, err
	}

	result := ReconcileTrackingResult{
		EventsAppended: appended,
		StatusChanged:  statusChanged,
		From:           from,
		To:             aggregate.Status(),
	}

	if !statusChanged {
		return result, nil
	}

	h.logger.InfoContext(ctx, "order status reconciled from courier feed",
		"order_id", aggregate.ID().String(),
		"tracking_id", aggregate.TrackingID(),
		"from", from.String(),
		"to", aggregate.Status().String())

	h.notifier.NotifyStatusChanged(ctx, aggregate, from)

	if err = h.publisher.PublishStatusChanged(ctx, aggregate, from, order.ActorSystem); err != nil {
		h.logger.ErrorContext(ctx, "failed to publish status change",
			"order_id", aggregate.ID().String(), "error", err)
	}

	return result, nil
}

// courierEvents converts a snapshot's history into domain courier events,
// dropping entries too malformed to carry a status text.
func courierEvents(snapshot tracking.Snapshot) []order.CourierEvent {
	events := make([]order.CourierEvent, 0, len(snapshot.Events))
	for _, raw := range snapshot.Events {
		event, err := order.NewCourierEvent(raw.Status, raw.Location, raw.Time, raw.Remarks)
		if err != nil {
			continue
		}
		events = append(events, event)
	}
	return events
}
