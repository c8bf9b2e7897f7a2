package commands_test

import (
	"testing"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testPaymentSecret = "merchant-secret"

func signedPaymentCommand(
	t *testing.T, orderID kernel.UUID, gatewayOrderID, gatewayPaymentID string, payload bool,
) commands.VerifyPaymentCommand {
	t.Helper()
	signature := services.NewPaymentSignatureVerifier(testPaymentSecret).Sign(gatewayOrderID, gatewayPaymentID)

	var cmd commands.VerifyPaymentCommand
	var err error
	if payload {
		cmd, err = commands.NewVerifyPaymentCommand(
			orderID, gatewayOrderID, gatewayPaymentID, signature, testItems(t), 60_00, nil, testGuest(t))
	} else {
		cmd, err = commands.NewVerifyPaymentCommand(
			orderID, gatewayOrderID, gatewayPaymentID, signature, nil, 0, nil, nil)
	}
	require.NoError(t, err)
	return cmd
}

func newVerifyPaymentHandler(factory *MockOrderUoWFactory, notifier *RecordingNotifier) commands.VerifyPaymentCommandHandler {
	return commands.NewVerifyPaymentCommandHandler(
		factory,
		services.NewPaymentSignatureVerifier(testPaymentSecret),
		notifier,
		discardLogger(),
	)
}

func TestVerifyPaymentCommandHandler_Handle_SignatureMismatch(t *testing.T) {
	ctx := t.Context()
	id := kernel.NewUUID()
	cmd, err := commands.NewVerifyPaymentCommand(
		id, "gw_order_1", "pay_1", "0000000000000000", nil, 0, nil, nil)
	require.NoError(t, err)

	factory := new(MockOrderUoWFactory)
	h := newVerifyPaymentHandler(factory, new(RecordingNotifier))

	_, err = h.Handle(ctx, cmd)
	require.ErrorIs(t, err, commands.ErrSignatureMismatch)
	factory.AssertNotCalled(t, "Create")
}

func TestVerifyPaymentCommandHandler_Handle_DuplicatePayment(t *testing.T) {
	ctx := t.Context()
	existing := placedGuestOrder(t, order.Card)
	cmd := signedPaymentCommand(t, kernel.NewUUID(), "gw_order_1", "pay_dup", false)

	repo := new(MockOrderRepository)
	uow := new(MockOrderUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(repo).Once(),
		repo.On("GetByGatewayPaymentID", mock.Anything, "pay_dup").Return(existing, nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := newVerifyPaymentHandler(factory, new(RecordingNotifier))
	result, err := h.Handle(ctx, cmd)
	require.NoError(t, err)
	require.True(t, result.AlreadyProcessed)
	require.Equal(t, existing.ID(), result.OrderID)
	repo.AssertExpectations(t)
	uow.AssertExpectations(t)
}

func TestVerifyPaymentCommandHandler_Handle_ConvertsCODOrder(t *testing.T) {
	ctx := t.Context()
	aggregate := placedGuestOrder(t, order.COD)
	totalBefore := aggregate.Total()
	cmd := signedPaymentCommand(t, aggregate.ID(), "gw_order_1", "pay_upsell", false)

	repo := new(MockOrderRepository)
	uow := new(MockOrderUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(repo).Twice(),
		repo.On("GetByGatewayPaymentID", mock.Anything, "pay_upsell").
			Return(nil, errs.NewObjectNotFoundError("gatewayPaymentId", "pay_upsell")).Once(),
		repo.On("Get", mock.Anything, aggregate.ID()).Return(aggregate, nil).Once(),
		repo.On("Update", mock.Anything, aggregate).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := newVerifyPaymentHandler(factory, new(RecordingNotifier))
	result, err := h.Handle(ctx, cmd)
	require.NoError(t, err)
	require.True(t, result.DiscountApplied)
	require.Equal(t, aggregate.ID(), result.OrderID)

	require.True(t, aggregate.IsPaid())
	require.Equal(t, order.Card, aggregate.PaymentMethod())
	require.Equal(t, totalBefore-totalBefore*5/100, aggregate.Total())
	require.Equal(t, "PREPAID5", aggregate.Coupon().Code)
	repo.AssertExpectations(t)
}

func TestVerifyPaymentCommandHandler_Handle_MarksCardOrderPaid(t *testing.T) {
	ctx := t.Context()
	aggregate := placedGuestOrder(t, order.Card)
	totalBefore := aggregate.Total()
	cmd := signedPaymentCommand(t, aggregate.ID(), "gw_order_2", "pay_card", false)

	repo := new(MockOrderRepository)
	uow := new(MockOrderUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(repo).Twice(),
		repo.On("GetByGatewayPaymentID", mock.Anything, "pay_card").
			Return(nil, errs.NewObjectNotFoundError("gatewayPaymentId", "pay_card")).Once(),
		repo.On("Get", mock.Anything, aggregate.ID()).Return(aggregate, nil).Once(),
		repo.On("Update", mock.Anything, aggregate).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := newVerifyPaymentHandler(factory, new(RecordingNotifier))
	result, err := h.Handle(ctx, cmd)
	require.NoError(t, err)
	require.False(t, result.DiscountApplied)

	// A card order settles at full price, no conversion discount.
	require.True(t, aggregate.IsPaid())
	require.Equal(t, totalBefore, aggregate.Total())
	require.Nil(t, aggregate.Coupon())
}

func TestVerifyPaymentCommandHandler_Handle_MaterializesFromPayload(t *testing.T) {
	ctx := t.Context()
	orderID := kernel.NewUUID()
	cmd := signedPaymentCommand(t, orderID, "gw_order_3", "pay_new", true)

	repo := new(MockOrderRepository)
	uow := new(MockOrderUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(repo).Twice(),
		repo.On("GetByGatewayPaymentID", mock.Anything, "pay_new").
			Return(nil, errs.NewObjectNotFoundError("gatewayPaymentId", "pay_new")).Once(),
		repo.On("Get", mock.Anything, orderID).
			Return(nil, errs.NewObjectNotFoundError("orderId", orderID)).Once(),
		repo.On("Add", mock.Anything, mock.AnythingOfType("*order.Order")).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	notifier := new(RecordingNotifier)
	h := newVerifyPaymentHandler(factory, notifier)
	result, err := h.Handle(ctx, cmd)
	require.NoError(t, err)
	require.Equal(t, orderID, result.OrderID)
	require.False(t, result.AlreadyProcessed)
	require.Equal(t, []order.Status{order.Unknown}, notifier.Calls())

	added := repo.Calls[len(repo.Calls)-1].Arguments.Get(1).(*order.Order)
	require.True(t, added.IsPaid())
	require.Equal(t, order.Card, added.PaymentMethod())
	require.Equal(t, "pay_new", added.GatewayPaymentID())
}

func TestVerifyPaymentCommandHandler_Handle_UnknownOrderWithoutPayload(t *testing.T) {
	ctx := t.Context()
	orderID := kernel.NewUUID()
	cmd := signedPaymentCommand(t, orderID, "gw_order_4", "pay_missing", false)

	repo := new(MockOrderRepository)
	uow := new(MockOrderUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(repo).Twice(),
		repo.On("GetByGatewayPaymentID", mock.Anything, "pay_missing").
			Return(nil, errs.NewObjectNotFoundError("gatewayPaymentId", "pay_missing")).Once(),
		repo.On("Get", mock.Anything, orderID).
			Return(nil, errs.NewObjectNotFoundError("orderId", orderID)).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := newVerifyPaymentHandler(factory, new(RecordingNotifier))
	_, err := h.Handle(ctx, cmd)
	require.ErrorIs(t, err, errs.ErrObjectNotFound)
}
