// Package jobs provides scheduled background tasks for the fulfillment system.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3
// plus a per-order ticker loop for tight tracking refresh.
//
// # Available Jobs
//
// 1. TrackingSweepJob - Runs every 30 seconds to reconcile all trackable orders against the courier API
// 2. TrackingPoller - Runs a dedicated poll loop for a single order at a caller-chosen interval
//
// # Usage
//
// Jobs are managed through JobManager which provides a unified interface:
//
//	// Create job manager with required handlers
//	jobManager := jobs.NewJobManager(reconcileAllHandler, reconcileHandler, logger)
//
//	// Start all jobs
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//
//	// Stop all jobs when shutting down
//	defer jobManager.StopAll()
//
// # Scheduling
//
// The sweep uses the cron expression "*/30 * * * * *" (every 30 seconds).
// The poller is started per order when a tracking number is assigned, and
// stopped through its token, when the order reaches a terminal status, or
// on shutdown.
//
// # Error Handling
//
// - Sweep failures on one order are logged and do not stop the pass
// - Unknown tracking numbers are logged at warn level and retried next pass
// - A stopped poll loop discards the result of any fetch still in flight
package jobs
