package store

import (
	"context"
	"sync"

	"github.com/serroba/linkdeck/internal/analytics"
)

// MemoryAnalyticsStore is an in-memory implementation of analytics.Store.
type MemoryAnalyticsStore struct {
	mu      sync.RWMutex
	records map[string]*analytics.Record // link id -> record
}

// NewMemoryAnalyticsStore creates a new in-memory analytics store.
func NewMemoryAnalyticsStore() *MemoryAnalyticsStore {
	return &MemoryAnalyticsStore{
		records: make(map[string]*analytics.Record),
	}
}

func (m *MemoryAnalyticsStore) GetOrCreate(_ context.Context, linkID, ownerID string) (*analytics.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if record, ok := m.records[linkID]; ok {
		return record.Clone(), nil
	}

	record := analytics.NewRecord(linkID, ownerID)
	m.records[linkID] = record.Clone()

	return record, nil
}

func (m *MemoryAnalyticsStore) Get(_ context.Context, linkID string) (*analytics.Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	record, ok := m.records[linkID]
	if !ok {
		return nil, analytics.ErrNotFound
	}

	return record.Clone(), nil
}

func (m *MemoryAnalyticsStore) Save(_ context.Context, record *analytics.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.records[record.LinkID] = record.Clone()

	return nil
}

func (m *MemoryAnalyticsStore) Delete(_ context.Context, linkID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.records, linkID)

	return nil
}

func (m *MemoryAnalyticsStore) ListByLinkIDs(_ context.Context, linkIDs []string) ([]*analytics.Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	records := make([]*analytics.Record, 0, len(linkIDs))

	for _, id := range linkIDs {
		if record, ok := m.records[id]; ok {
			records = append(records, record.Clone())
		}
	}

	return records, nil
}

func (m *MemoryAnalyticsStore) ListByOwner(_ context.Context, ownerID string) ([]*analytics.Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var records []*analytics.Record

	for _, record := range m.records {
		if record.OwnerID == ownerID {
			records = append(records, record.Clone())
		}
	}

	return records, nil
}
