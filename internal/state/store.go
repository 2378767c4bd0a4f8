package state

import (
	"sync"
	"time"

	"github.com/jgolob/awsbw/internal/batch"
)

// Snapshot is the full job set produced by one poll cycle.
type Snapshot struct {
	Jobs       []batch.Job
	CapturedAt time.Time

	// Loaded is false until a poll cycle has completed at least one
	// successful fetch. The UI uses it to tell "loading" from "no jobs".
	Loaded bool

	// Cycle is the correlation id of the poll cycle that produced it.
	Cycle string

	// Failures counts the queue/status fetches that failed in that cycle.
	Failures int
}

// Store holds the latest Snapshot for concurrent readers.
type Store struct {
	mu      sync.RWMutex
	current *Snapshot
}

// Publish replaces the stored snapshot. The new value is built before the
// lock is taken, so readers only ever wait for the pointer swap.
func (s *Store) Publish(snap Snapshot) {
	next := snap
	next.Jobs = cloneJobs(snap.Jobs)
	if next.CapturedAt.IsZero() {
		next.CapturedAt = time.Now()
	}

	s.mu.Lock()
	s.current = &next
	s.mu.Unlock()
}

// Read returns the latest snapshot and its capture time. A store that has
// never been published to returns an empty, unloaded snapshot.
func (s *Store) Read() (Snapshot, time.Time) {
	s.mu.RLock()
	cur := s.current
	s.mu.RUnlock()

	if cur == nil {
		return Snapshot{}, time.Time{}
	}
	return *cur, cur.CapturedAt
}

// Loaded reports whether any snapshot has been published.
func (s *Store) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current != nil
}

func cloneJobs(jobs []batch.Job) []batch.Job {
	if len(jobs) == 0 {
		return nil
	}
	dup := make([]batch.Job, len(jobs))
	copy(dup, jobs)
	return dup
}
