// Package resultstore holds the current prediction snapshot. Only the
// latest result is kept; history is out of scope.
package resultstore

import (
	"context"
	"sync"

	"github.com/skystream/logistics-cloud/internal/domain/shipment"
)

// MemoryStore keeps the latest snapshot in process memory. The whole
// object is swapped under the lock, so readers never observe a
// half-written result.
type MemoryStore struct {
	mu   sync.RWMutex
	snap shipment.Snapshot
	set  bool
}

// NewMemoryStore constructs an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Publish implements shipment.SnapshotStore.
func (s *MemoryStore) Publish(_ context.Context, snap shipment.Snapshot) error {
	s.mu.Lock()
	s.snap = snap
	s.set = true
	s.mu.Unlock()
	return nil
}

// Latest implements shipment.SnapshotStore.
func (s *MemoryStore) Latest(_ context.Context) (shipment.Snapshot, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap, s.set, nil
}

var _ shipment.SnapshotStore = (*MemoryStore)(nil)
