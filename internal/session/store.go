package session

import (
	"context"
	"sync"
	"time"

	"coffee-order/internal/order"
)

// Store keeps form snapshots between requests and, for durable stores,
// across restarts.
type Store interface {
	Load(ctx context.Context, id string) (order.Snapshot, bool, error)
	Save(ctx context.Context, id string, s order.Snapshot) error
	Delete(ctx context.Context, id string) error
}

// pruner is implemented by stores that expire entries themselves.
type pruner interface {
	Prune(before time.Time)
}

type memoryRecord struct {
	snapshot  order.Snapshot
	updatedAt time.Time
}

type MemoryStore struct {
	mu      sync.Mutex
	records map[string]memoryRecord
	now     func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		records: make(map[string]memoryRecord),
		now:     time.Now,
	}
}

func (m *MemoryStore) Load(_ context.Context, id string) (order.Snapshot, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.records[id]
	return rec.snapshot, ok, nil
}

func (m *MemoryStore) Save(_ context.Context, id string, s order.Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[id] = memoryRecord{snapshot: s, updatedAt: m.now()}
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.records, id)
	return nil
}

// Prune drops records not saved since before.
func (m *MemoryStore) Prune(before time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, rec := range m.records {
		if rec.updatedAt.Before(before) {
			delete(m.records, id)
		}
	}
}

func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.records)
}
