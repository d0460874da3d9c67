package usecase

import "sync"

// assigneeLocker serializes the read-occupancy → choose-slot → write critical
// section per assignee. The per-task version check alone cannot stop two new
// tasks from claiming the same freshly computed gap, because neither has a
// prior version to collide on.
type assigneeLocker struct {
	mu      sync.Mutex
	entries map[string]*lockEntry
}

type lockEntry struct {
	mu   sync.Mutex
	refs int
}

func newAssigneeLocker() *assigneeLocker {
	return &assigneeLocker{entries: make(map[string]*lockEntry)}
}

// Lock acquires the assignee's lock and returns the matching unlock func.
// Entries are reference-counted so the map does not grow with every
// assignee ever seen.
func (al *assigneeLocker) Lock(assigneeID string) func() {
	al.mu.Lock()
	entry, ok := al.entries[assigneeID]
	if !ok {
		entry = &lockEntry{}
		al.entries[assigneeID] = entry
	}
	entry.refs++
	al.mu.Unlock()

	entry.mu.Lock()

	return func() {
		entry.mu.Unlock()

		al.mu.Lock()
		entry.refs--
		if entry.refs == 0 {
			delete(al.entries, assigneeID)
		}
		al.mu.Unlock()
	}
}
