package store

import (
	"context"
	"sync"

	"github.com/serroba/linkdeck/internal/collections"
)

// MemoryCollectionStore is an in-memory implementation of collections.Repository.
type MemoryCollectionStore struct {
	mu          sync.RWMutex
	collections map[string]*collections.Collection
}

// NewMemoryCollectionStore creates a new in-memory collection store.
func NewMemoryCollectionStore() *MemoryCollectionStore {
	return &MemoryCollectionStore{
		collections: make(map[string]*collections.Collection),
	}
}

func (m *MemoryCollectionStore) Save(_ context.Context, collection *collections.Collection) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.collections[collection.ID] = cloneCollection(collection)

	return nil
}

func (m *MemoryCollectionStore) Get(_ context.Context, id string) (*collections.Collection, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	collection, ok := m.collections[id]
	if !ok {
		return nil, collections.ErrNotFound
	}

	return cloneCollection(collection), nil
}

func (m *MemoryCollectionStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.collections[id]; !ok {
		return collections.ErrNotFound
	}

	delete(m.collections, id)

	return nil
}

func (m *MemoryCollectionStore) ListByOwner(_ context.Context, ownerID string) ([]*collections.Collection, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var owned []*collections.Collection

	for _, collection := range m.collections {
		if collection.OwnerID == ownerID {
			owned = append(owned, cloneCollection(collection))
		}
	}

	return owned, nil
}

func (m *MemoryCollectionStore) AddLink(_ context.Context, id, linkID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	collection, ok := m.collections[id]
	if !ok {
		return collections.ErrNotFound
	}

	if collection.Contains(linkID) {
		return nil
	}

	collection.LinkIDs = append(collection.LinkIDs, linkID)

	return nil
}

func (m *MemoryCollectionStore) RemoveLink(_ context.Context, id, linkID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	collection, ok := m.collections[id]
	if !ok {
		return collections.ErrNotFound
	}

	for i, existing := range collection.LinkIDs {
		if existing == linkID {
			collection.LinkIDs = append(collection.LinkIDs[:i], collection.LinkIDs[i+1:]...)
			break
		}
	}

	return nil
}

func cloneCollection(collection *collections.Collection) *collections.Collection {
	clone := *collection
	clone.LinkIDs = append([]string(nil), collection.LinkIDs...)

	return &clone
}
