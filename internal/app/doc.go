// Package app provides the orchestration layer for awsbw.
//
// # Overview
//
// This package wires together configuration, logging, the AWS services, the
// poller, the snapshot store and the UI. It is the composition root where all
// dependencies are initialized and connected.
//
// # Components
//
//   - app.go: Run and ListQueues
//   - poller.go: Background goroutine that lists every queue/status pair each cycle
//
// # Data Flow
//
//	┌──────────────┐
//	│   Run()      │ Initialize everything
//	└──────┬───────┘
//	       │
//	       ├─────> config.Load()         Read config.toml, apply flags
//	       ├─────> logging.New()         Rotating JSON log file
//	       ├─────> batch.NewClient()     Batch + CloudWatch Logs clients
//	       ├─────> batch.ResolveQueues() Expand queue patterns
//	       ├─────> StartPoller()         Launch background refresh
//	       └─────> ui.Run()              Start TUI (blocks)
//
//	Background Poller Loop:
//	┌─────────────────────────────────────────┐
//	│ StartPoller() goroutine                 │
//	│  ├─> ListAllJobs() per queue × status   │
//	│  ├─> SortNewestFirst() per queue        │
//	│  └─> store.Publish()  (pointer swap)    │
//	│      └─> UI tick reads store.Read()     │
//	└─────────────────────────────────────────┘
//
// # Polling Behavior
//
// A cycle starts immediately and then every poll interval (default 60s,
// minimum 1s), measured from the start of the previous cycle. A cycle that
// overruns the interval is followed by the next one at once. ListJobs calls
// share a rate limiter (default 5 per second) so wide queue lists do not trip
// API throttling.
//
// # Error Handling
//
// Fatal errors (returned from Run):
//   - Invalid configuration, e.g. only one of the static keys set
//   - AWS configuration that cannot be loaded
//   - Queue patterns that are invalid or match nothing
//   - A poller that exits on its own (ErrPollerDied)
//
// Recoverable errors (logged, polling continues):
//   - Individual queue/status fetch failures, which count as empty
//   - Detail, log and terminate failures inside the UI
//
// # Usage Example
//
//	err := app.Run(ctx, app.Options{
//		Overrides: config.Overrides{Queues: []string{"gpu-spot"}},
//	})
//	if errors.Is(err, app.ErrNoQueues) {
//		// print usage
//	}
package app
