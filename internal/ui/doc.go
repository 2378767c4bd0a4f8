// Package ui provides the Bubble Tea dashboard for awsbw.
//
// # Architecture Overview
//
// Model is the root tea.Model. Every 100ms a tick reads the latest
// state.Snapshot, filters it to the active queue and the age window, groups
// the jobs into status columns and re-resolves the cursor by job id. The grid
// is redrawn in full on every frame, so a shrinking terminal never leaves
// stale cells behind.
//
// # Modes
//
// Input goes to exactly one view at a time:
//
//   - grid: arrow keys move the cursor, < and > switch queue tabs
//   - detail (D): timing, definition, image, resources and command
//   - log (L): CloudWatch events with paging and order toggle (O)
//   - terminate (T): Y confirms, any other key cancels
//
// Modals fetch through tea.Cmds tagged with a request id. A result whose id
// no longer matches the open modal is discarded, so closing a modal while its
// request is in flight is always safe.
//
// # Package Structure
//
//   - app.go: Model, Options, mode dispatch and Run
//   - grid.go: filtering, grouping, viewport math, navigation, grid lines
//   - header.go: frame, queue tabs, timestamp and footer legend
//   - modal.go: Modal interface, request ids, async commands
//   - detail.go, logs.go, terminate.go: the three modals
//   - layout.go: thresholds, timings and the modal box
//   - keys.go, theme.go, strings.go, style_helpers.go: bindings, palettes, text helpers
//
// # Usage Example
//
//	err := ui.Run(ui.Options{
//		Context: ctx,
//		Jobs:    client,
//		Logs:    client,
//		Store:   store,
//		Poller:  poller,
//		Queues:  queues,
//	})
package ui
