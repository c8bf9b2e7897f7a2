package jobs

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/kernel"
)

// ErrAlreadyPolling indicates that a poller is already running for the order.
var ErrAlreadyPolling = errors.New("order is already being polled")

// DefaultPollInterval is the refresh interval used when a poll loop is
// started from the order workflow rather than an explicit caller.
const DefaultPollInterval = 15 * time.Second

// PollToken identifies one running poll loop. Cancelling the token stops
// future ticks and discards the result of any fetch still in flight.
type PollToken struct {
	orderID kernel.UUID
	cancel  context.CancelFunc
	done    chan struct{}
}

// OrderID returns the order this token polls.
func (t *PollToken) OrderID() kernel.UUID {
	return t.orderID
}

// TrackingPoller runs a dedicated poll loop per order. Unlike the sweep,
// which covers the whole work set on a coarse schedule, the poller gives
// a single order a tight refresh interval, typically right after a
// tracking number is assigned. Each loop issues at most one reconcile at
// a time: a tick is skipped while the previous fetch is still running.
type TrackingPoller struct {
	reconcileHandler commands.ReconcileTrackingCommandHandler
	logger           *slog.Logger

	mu     sync.Mutex
	active map[kernel.UUID]*PollToken
}

// NewTrackingPoller creates a poller that reconciles orders through the
// given command handler.
func NewTrackingPoller(reconcileHandler commands.ReconcileTrackingCommandHandler, logger *slog.Logger) *TrackingPoller {
	return &TrackingPoller{
		reconcileHandler: reconcileHandler,
		logger:           logger.With("component", "tracking_poller"),
		active:           make(map[kernel.UUID]*PollToken),
	}
}

// Start launches a poll loop for the order at the given interval and
// returns its token. Returns ErrAlreadyPolling when a loop for the order
// is already running.
func (p *TrackingPoller) Start(orderID kernel.UUID, interval time.Duration) (*PollToken, error) {
	if err := orderID.Validate(); err != nil {
		return nil, err
	}
	if interval <= 0 {
		return nil, errors.New("poll interval must be positive")
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if _, exists := p.active[orderID]; exists {
		return nil, ErrAlreadyPolling
	}

	ctx, cancel := context.WithCancel(context.Background())
	token := &PollToken{
		orderID: orderID,
		cancel:  cancel,
		done:    make(chan struct{}),
	}
	p.active[orderID] = token

	go p.loop(ctx, token, interval)

	p.logger.InfoContext(ctx, "Started polling order",
		"order_id", orderID.String(), "interval", interval.String())
	return token, nil
}

// Stop cancels the poll loop for the token and waits for it to exit.
// Stopping an already stopped token is a no-op.
func (p *TrackingPoller) Stop(token *PollToken) {
	if token == nil {
		return
	}

	p.mu.Lock()
	current, exists := p.active[token.orderID]
	if exists && current == token {
		delete(p.active, token.orderID)
	}
	p.mu.Unlock()

	if !exists || current != token {
		return
	}

	token.cancel()
	<-token.done

	p.logger.InfoContext(context.Background(), "Stopped polling order",
		"order_id", token.orderID.String())
}

// StartPolling launches a poll loop for the order at the default interval.
// An order that is already polled is left as is. Together with StopPolling
// this implements the command layer's PollScheduler, letting the status
// change workflow start a loop the moment a tracking number is assigned.
func (p *TrackingPoller) StartPolling(orderID kernel.UUID) {
	if _, err := p.Start(orderID, DefaultPollInterval); err != nil && !errors.Is(err, ErrAlreadyPolling) {
		p.logger.ErrorContext(context.Background(), "Failed to start poll loop",
			"order_id", orderID.String(), "error", err)
	}
}

// StopPolling cancels the order's poll loop if one is running.
func (p *TrackingPoller) StopPolling(orderID kernel.UUID) {
	p.mu.Lock()
	token := p.active[orderID]
	p.mu.Unlock()

	p.Stop(token)
}

// StopAll cancels every running poll loop. Used on shutdown.
func (p *TrackingPoller) StopAll() {
	p.mu.Lock()
	tokens := make([]*PollToken, 0, len(p.active))
	for _, token := range p.active {
		tokens = append(tokens, token)
	}
	p.active = make(map[kernel.UUID]*PollToken)
	p.mu.Unlock()

	for _, token := range tokens {
		token.cancel()
		<-token.done
	}
}

// IsPolling reports whether a loop is currently running for the order.
func (p *TrackingPoller) IsPolling(orderID kernel.UUID) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, exists := p.active[orderID]
	return exists
}

func (p *TrackingPoller) loop(ctx context.Context, token *PollToken, interval time.Duration) {
	defer close(token.done)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if p.poll(ctx, token.orderID) {
				p.forget(token)
				p.logger.InfoContext(ctx, "Order reached terminal status, poll loop ended",
					"order_id", token.orderID.String())
				return
			}
		}
	}
}

// poll runs one reconcile pass and reports whether the order reached a
// terminal status, which ends the loop. The loop calls it synchronously,
// so at most one fetch per order is in flight; ticks that fire while a
// fetch is running are dropped by the ticker.
func (p *TrackingPoller) poll(ctx context.Context, orderID kernel.UUID) bool {
	cmd, err := commands.NewReconcileTrackingCommand(orderID)
	if err != nil {
		p.logger.ErrorContext(ctx, "Failed to build reconcile command",
			"order_id", orderID.String(), "error", err)
		return false
	}

	result, err := p.reconcileHandler.Handle(ctx, cmd)
	if err != nil {
		// A cancelled context means the loop was stopped mid-fetch; the
		// result is discarded without noise.
		if ctx.Err() != nil {
			return false
		}
		p.logger.WarnContext(ctx, "Poll tick failed, will retry next tick",
			"order_id", orderID.String(), "error", err)
		return false
	}

	if result.StatusChanged {
		p.logger.InfoContext(ctx, "Poll advanced order",
			"order_id", orderID.String(),
			"from", result.From.String(),
			"to", result.To.String())
	}

	return result.StatusChanged && result.To.IsTerminal()
}

// forget drops the token from the active set when its loop ends on its
// own. Stop on a forgotten token stays a no-op.
func (p *TrackingPoller) forget(token *PollToken) {
	p.mu.Lock()
	if current, exists := p.active[token.orderID]; exists && current == token {
		delete(p.active, token.orderID)
	}
	p.mu.Unlock()
}
