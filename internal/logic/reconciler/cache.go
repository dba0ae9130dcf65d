package reconciler

import "sync"

// SnapshotCache is the single-slot holder of the last successfully
// reconciled snapshot. It is written on every successful pass and read by
// the fallback path when the cluster API is unreachable. Store replaces
// the previous snapshot wholesale; concurrent passes get last-write-wins.
type SnapshotCache struct {
	mu       sync.RWMutex
	snapshot *Snapshot
}

// NewSnapshotCache creates an empty snapshot cache.
func NewSnapshotCache() *SnapshotCache {
	return &SnapshotCache{}
}

// Load returns the cached snapshot, or false when no pass has succeeded yet.
func (c *SnapshotCache) Load() (*Snapshot, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.snapshot == nil {
		return nil, false
	}

	return c.snapshot, true
}

// Store replaces the cached snapshot.
func (c *SnapshotCache) Store(snapshot *Snapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.snapshot = snapshot
}
