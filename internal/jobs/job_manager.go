package jobs

import (
	"fmt"
	"log/slog"

	"fulfillment/internal/core/application/usecases/commands"
)

// JobManager coordinates all scheduled jobs in the application.
// Provides a unified interface to start and stop all background jobs.
type JobManager struct {
	trackingSweepJob *TrackingSweepJob
	trackingPoller   *TrackingPoller
}

// NewJobManager creates a new job manager with all required jobs.
// Takes the command handlers as dependencies to wire up job execution.
func NewJobManager(
	reconcileAllHandler commands.ReconcileAllTrackingCommandHandler,
	reconcileHandler commands.ReconcileTrackingCommandHandler,
	logger *slog.Logger,
) *JobManager {
	return &JobManager{
		trackingSweepJob: NewTrackingSweepJob(reconcileAllHandler, logger),
		trackingPoller:   NewTrackingPoller(reconcileHandler, logger),
	}
}

// Poller returns the per-order tracking poller. The status change workflow
// starts a loop here whenever a tracking number is assigned; callers that
// want a different refresh interval on one order use Start directly.
func (jm *JobManager) Poller() *TrackingPoller {
	return jm.trackingPoller
}

// StartAll starts all scheduled jobs.
// Returns an error if any job fails to start.
func (jm *JobManager) StartAll() error {
	if err := jm.trackingSweepJob.Start(); err != nil {
		return fmt.Errorf("failed to start tracking sweep job: %w", err)
	}

	return nil
}

// StopAll stops all scheduled jobs gracefully, including any per-order
// poll loops still running.
func (jm *JobManager) StopAll() {
	jm.trackingSweepJob.Stop()
	jm.trackingPoller.StopAll()
}
