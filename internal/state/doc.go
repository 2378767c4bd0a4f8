// Package state provides the shared job store between the poller and the UI.
//
// # Overview
//
// The poller is the only writer and the UI tick is the only reader. Each poll
// cycle produces a complete Snapshot which is handed over in one step:
//
//	Producer (Poller):              Consumer (UI):
//	┌──────────────────┐           ┌──────────────────┐
//	│ ListAllJobs()    │           │                  │
//	│ build Snapshot   │           │                  │
//	│      ↓           │           │                  │
//	│ store.Publish()  │──────────→│ store.Read()     │
//	│      ↓           │ (pointer  │      ↓           │
//	│  sleep, repeat   │   swap)   │  rebuild grid    │
//	└──────────────────┘           └──────────────────┘
//
// # Concurrency Model
//
// Publish clones the job slice, then swaps a single *Snapshot under the write
// lock. Read copies the pointer under the read lock. A stored Snapshot is
// never mutated after the swap, so a reader sees either the previous cycle
// or the new one in full, and never holds the lock while rendering.
//
// # Loading vs Empty
//
// The zero Store reads as an unloaded, empty Snapshot. The poller sets Loaded
// once any fetch of a cycle has succeeded, so the grid can show "Loading..."
// until then and "No Jobs" afterwards.
package state
