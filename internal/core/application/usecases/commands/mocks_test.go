package commands_test

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/tracking"
	"fulfillment/internal/core/ports"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) Add(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}
func (m *MockOrderRepository) Update(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}
func (m *MockOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}
func (m *MockOrderRepository) GetByGatewayPaymentID(ctx context.Context, paymentID string) (*order.Order, error) {
	args := m.Called(ctx, paymentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}
func (m *MockOrderRepository) GetAllTrackable(ctx context.Context) ([]*order.Order, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*order.Order), args.Error(1)
}

type MockOrderUoW struct{ mock.Mock }

func (m *MockOrderUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
func (m *MockOrderUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
func (m *MockOrderUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockOrderUoW) OrderRepository() ports.OrderRepository {
	args := m.Called()
	return args.Get(0).(ports.OrderRepository)
}

type MockOrderUoWFactory struct{ mock.Mock }

func (m *MockOrderUoWFactory) Create() commands.OrderUoW {
	args := m.Called()
	return args.Get(0).(commands.OrderUoW)
}

// RecordingNotifier captures notification calls without testify's ordering
// machinery, since notification is fire-and-forget and order-independent.
type RecordingNotifier struct {
	mu    sync.Mutex
	calls []order.Status // the from-status of each call
}

func (n *RecordingNotifier) NotifyStatusChanged(_ context.Context, _ *order.Order, from order.Status) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls = append(n.calls, from)
}

func (n *RecordingNotifier) Calls() []order.Status {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]order.Status(nil), n.calls...)
}

// RecordingPollScheduler captures poll start/stop requests the same way
// RecordingNotifier captures notifications.
type RecordingPollScheduler struct {
	mu      sync.Mutex
	started []kernel.UUID
	stopped []kernel.UUID
}

func (p *RecordingPollScheduler) StartPolling(orderID kernel.UUID) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.started = append(p.started, orderID)
}

func (p *RecordingPollScheduler) StopPolling(orderID kernel.UUID) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopped = append(p.stopped, orderID)
}

func (p *RecordingPollScheduler) Started() []kernel.UUID {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]kernel.UUID(nil), p.started...)
}

func (p *RecordingPollScheduler) Stopped() []kernel.UUID {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]kernel.UUID(nil), p.stopped...)
}

type MockEventPublisher struct{ mock.Mock }

func (m *MockEventPublisher) PublishStatusChanged(
	ctx context.Context, o *order.Order, from order.Status, actor order.Actor,
) error {
	args := m.Called(ctx, o, from, actor)
	return args.Error(0)
}

type MockTrackingProvider struct{ mock.Mock }

func (m *MockTrackingProvider) Fetch(ctx context.Context, trackingID string) (tracking.Snapshot, error) {
	args := m.Called(ctx, trackingID)
	return args.Get(0).(tracking.Snapshot), args.Error(1)
}

func testItems(t *testing.T) []order.Item {
	t.Helper()
	item, err := order.NewItem("SKU-1", "Walnut desk organizer", 2, 450_00)
	require.NoError(t, err)
	return []order.Item{item}
}

func testGuest(t *testing.T) *order.GuestInfo {
	t.Helper()
	guest, err := order.NewGuestInfo("Riya Sen", "riya@example.com", "+91900000001", "14 Lake Road, Kolkata")
	require.NoError(t, err)
	return &guest
}

func placedGuestOrder(t *testing.T, method order.PaymentMethod) *order.Order {
	t.Helper()
	aggregate, err := order.NewOrder(kernel.NewUUID(), testItems(t), 60_00, method, nil, testGuest(t))
	require.NoError(t, err)
	return aggregate
}
