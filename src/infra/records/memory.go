package records

import (
	"context"
	"fmt"
	"sync"

	"github.com/contre95/photoimport/src/media"
)

// MemoryStore is an in-memory implementation of media.RecordStore.
type MemoryStore struct {
	mu      sync.Mutex
	flushed map[media.RecordSet][]string
	pending map[media.RecordSet][]string
	Flushes int
}

// NewMemoryStore creates a store, optionally seeded with already durable paths.
func NewMemoryStore(imported, errored []string) *MemoryStore {
	return &MemoryStore{
		flushed: map[media.RecordSet][]string{
			media.Imported: append([]string(nil), imported...),
			media.Errored:  append([]string(nil), errored...),
		},
		pending: make(map[media.RecordSet][]string),
	}
}

// Load returns the durable records.
func (m *MemoryStore) Load(ctx context.Context) (*media.Records, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	records := media.NewRecords()
	for set, paths := range m.flushed {
		for _, p := range paths {
			records.Add(set, p)
		}
	}
	return records, nil
}

// Append queues a path until Flush.
func (m *MemoryStore) Append(ctx context.Context, set media.RecordSet, path string) error {
	if set != media.Imported && set != media.Errored {
		return fmt.Errorf("unknown record set %q", set)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pending[set] = append(m.pending[set], path)
	return nil
}

// Flush makes pending paths durable.
func (m *MemoryStore) Flush(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for set, paths := range m.pending {
		m.flushed[set] = append(m.flushed[set], paths...)
		delete(m.pending, set)
	}
	m.Flushes++
	return nil
}

// Close does nothing.
func (m *MemoryStore) Close() error {
	return nil
}

// Paths returns the durable paths of a set in append order.
func (m *MemoryStore) Paths(set media.RecordSet) []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.flushed[set]...)
}

// Pending returns the number of appended but unflushed paths.
func (m *MemoryStore) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, paths := range m.pending {
		n += len(paths)
	}
	return n
}
