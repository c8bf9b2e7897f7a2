package jobs

import (
	"context"
	"log/slog"

	"fulfillment/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// TrackingSweepJob periodically reconciles every trackable order against
// the courier tracking API. Runs every 30 seconds over all orders that
// carry a tracking number and have not reached a terminal status.
type TrackingSweepJob struct {
	reconcileAllHandler commands.ReconcileAllTrackingCommandHandler
	cron                *cron.Cron
	logger              *slog.Logger
}

// NewTrackingSweepJob creates the sweep job around the batch
// reconciliation command.
func NewTrackingSweepJob(
	reconcileAllHandler commands.ReconcileAllTrackingCommandHandler,
	logger *slog.Logger,
) *TrackingSweepJob {
	return &TrackingSweepJob{
		reconcileAllHandler: reconcileAllHandler,
		cron:                cron.New(cron.WithSeconds()),
		logger:              logger.With("component", "tracking_sweep_job"),
	}
}

// Start begins the sweep on a 30-second schedule.
func (j *TrackingSweepJob) Start() error {
	_, err := j.cron.AddFunc("*/30 * * * * *", func() {
		j.Run(context.Background())
	})
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Tracking sweep job started (running every 30 seconds)")
	return nil
}

// Run executes one sweep pass. Per-order failures are handled inside the
// batch command; only a failure of the pass itself is reported here.
func (j *TrackingSweepJob) Run(ctx context.Context) {
	result, err := j.reconcileAllHandler.Handle(ctx, commands.NewReconcileAllTrackingCommand())
	if err != nil {
		j.logger.ErrorContext(ctx, "Tracking sweep failed", "error", err)
		return
	}

	if result.Advanced > 0 {
		j.logger.InfoContext(ctx, "Tracking sweep advanced orders",
			"processed", result.Processed,
			"advanced", result.Advanced)
	}
}

// Stop stops the sweep job.
func (j *TrackingSweepJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Tracking sweep job stopped")
}
