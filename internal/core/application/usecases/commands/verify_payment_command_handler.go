package commands

import (
	"context"
	"errors"
	"log/slog"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/pkg/errs"
)

// ErrSignatureMismatch is returned when a gateway callback fails HMAC
// verification. No order state is touched in that case.
var ErrSignatureMismatch = errors.New("payment signature mismatch")

// VerifyPaymentResult reports the outcome of a verified payment callback.
type VerifyPaymentResult struct {
	// OrderID is the order the payment settled against.
	OrderID kernel.UUID
	// AlreadyProcessed is true when the gateway payment id had been
	// recorded before and the callback changed nothing.
	AlreadyProcessed bool
	// DiscountApplied is true when a COD order was converted to prepaid
	// and received the conversion discount.
	DiscountApplied bool
}

// VerifyPaymentCommandHandler handles payment gateway callbacks.
//
// The handler is the single writer for payment state and is idempotent end
// to end: the signature gate rejects forgeries, a known gateway payment id
// short-circuits to the already-materialized order, and the aggregate's own
// guards make re-applied payments and conversions no-ops.
type VerifyPaymentCommandHandler struct {
	uowFactory OrderUoWFactory
	verifier   services.PaymentSignatureVerifier
	notifier   StatusNotifier
	logger     *slog.Logger
}

// NewVerifyPaymentCommandHandler creates a handler for payment verification.
func NewVerifyPaymentCommandHandler(
	uowFactory OrderUoWFactory,
	verifier services.PaymentSignatureVerifier,
	notifier StatusNotifier,
	logger *slog.Logger,
) VerifyPaymentCommandHandler {
	return VerifyPaymentCommandHandler{
		uowFactory: uowFactory,
		verifier:   verifier,
		notifier:   notifier,
		logger:     logger.With("component", "verify_payment"),
	}
}

// Handle processes a payment gateway callback.
//
// After signature verification the handler resolves the callback to exactly
// one of three flows inside a single transaction:
//   - the gateway payment id is already recorded: return the existing order
//   - the referenced order exists: settle it (COD orders are converted to
//     prepaid with the conversion discount, card orders are marked paid)
//   - the order does not exist and the callback carries a cart payload:
//     materialize a paid card order from the payload
func (h *VerifyPaymentCommandHandler) Handle(
	ctx context.Context, cmd VerifyPaymentCommand,
) (VerifyPaymentResult, error) {
	if err := cmd.Validate(); err != nil {
		return VerifyPaymentResult{}, err
	}

	if !h.verifier.Verify(cmd.GatewayOrderID(), cmd.GatewayPaymentID(), cmd.Signature()) {
		h.logger.WarnContext(ctx, "rejected payment callback",
			"gateway_order_id", cmd.GatewayOrderID(),
			"gateway_payment_id", cmd.GatewayPaymentID())
		return VerifyPaymentResult{}, ErrSignatureMismatch
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return VerifyPaymentResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()

	existing, err := orderRepo.GetByGatewayPaymentID(ctx, cmd.GatewayPaymentID())
	if err != nil && !errors.Is(err, errs.ErrObjectNotFound) {
		return VerifyPaymentResult{}, err
	}
	if existing != nil {
		return VerifyPaymentResult{OrderID: existing.ID(), AlreadyProcessed: true}, nil
	}

	aggregate, err := orderRepo.Get(ctx, cmd.OrderID())
	switch {
	case err == nil:
		return h.settleExisting(ctx, uow, aggregate, cmd)
	case errors.Is(err, errs.ErrObjectNotFound):
		return h.materialize(ctx, uow, cmd)
	default:
		return VerifyPaymentResult{}, err
	}
}

func (h *VerifyPaymentCommandHandler) settleExisting(
	ctx context.Context, uow OrderUoW, aggregate *order.Order, cmd VerifyPaymentCommand,
) (VerifyPaymentResult, error) {
	discountApplied := false

	if aggregate.PaymentMethod() == order.COD {
		applied, err := aggregate.ConvertToPrepaid(cmd.GatewayPaymentID(), cmd.GatewayOrderID())
		if err != nil {
			return VerifyPaymentResult{}, err
		}
		discountApplied = applied
	} else {
		if err := aggregate.MarkPaid(cmd.GatewayPaymentID(), cmd.GatewayOrderID()); err != nil {
			return VerifyPaymentResult{}, err
		}
	}

	if err := uow.OrderRepository().Update(ctx, aggregate); err != nil {
		return VerifyPaymentResult{}, err
	}
	if err := uow.Commit(ctx); err != nil {
		return VerifyPaymentResult{}, err
	}

	h.logger.InfoContext(ctx, "payment settled",
		"order_id", aggregate.ID().String(),
		"gateway_payment_id", cmd.GatewayPaymentID(),
		"discount_applied", discountApplied)

	return VerifyPaymentResult{OrderID: aggregate.ID(), DiscountApplied: discountApplied}, nil
}

func (h *VerifyPaymentCommandHandler) materialize(
	ctx context.Context, uow OrderUoW, cmd VerifyPaymentCommand,
) (VerifyPaymentResult, error) {
	if !cmd.HasPayload() {
		return VerifyPaymentResult{}, errs.NewObjectNotFoundError("orderId", cmd.OrderID())
	}

	aggregate, err := order.NewOrder(
		cmd.OrderID(),
		cmd.Items(),
		cmd.ShippingFee(),
		order.Card,
		cmd.CustomerID(),
		cmd.Guest(),
	)
	if err != nil {
		return VerifyPaymentResult{}, err
	}

	if err = aggregate.MarkPaid(cmd.GatewayPaymentID(), cmd.GatewayOrderID()); err != nil {
		return VerifyPaymentResult{}, err
	}

	if err = uow.OrderRepository().Add(ctx, aggregate); err != nil {
		return VerifyPaymentResult{}, err
	}
	if err = uow.Commit(ctx); err != nil {
		return VerifyPaymentResult{}, err
	}

	h.logger.InfoContext(ctx, "order materialized from payment callback",
		"order_id", aggregate.ID().String(),
		"gateway_payment_id", cmd.GatewayPaymentID())

	h.notifier.NotifyStatusChanged(ctx, aggregate, order.Unknown)
	return VerifyPaymentResult{OrderID: aggregate.ID()}, nil
}
