package store

import (
	"context"
	"sync"
	"time"

	"github.com/serroba/linkdeck/internal/shortener"
)

// MemoryLinkStore is an in-memory implementation of shortener.Repository.
type MemoryLinkStore struct {
	mu     sync.RWMutex
	links  map[string]*shortener.ShortLink // id -> link
	byCode map[string]string               // code or alias -> id
	byHash map[shortener.URLHash]string    // url hash -> id
}

// NewMemoryLinkStore creates a new in-memory link store.
func NewMemoryLinkStore() *MemoryLinkStore {
	return &MemoryLinkStore{
		links:  make(map[string]*shortener.ShortLink),
		byCode: make(map[string]string),
		byHash: make(map[shortener.URLHash]string),
	}
}

func (m *MemoryLinkStore) Save(_ context.Context, link *shortener.ShortLink) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, taken := m.byCode[string(link.Code)]; taken {
		return shortener.ErrCodeTaken
	}

	if link.CustomAlias != "" {
		if _, taken := m.byCode[link.CustomAlias]; taken {
			return shortener.ErrCodeTaken
		}
	}

	stored := cloneLink(link)
	m.links[stored.ID] = stored
	m.byCode[string(stored.Code)] = stored.ID

	if stored.CustomAlias != "" {
		m.byCode[stored.CustomAlias] = stored.ID
	}

	if stored.URLHash != "" {
		m.byHash[stored.URLHash] = stored.ID
	}

	return nil
}

func (m *MemoryLinkStore) GetByCode(_ context.Context, code shortener.Code) (*shortener.ShortLink, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	id, ok := m.byCode[string(code)]
	if !ok {
		return nil, shortener.ErrNotFound
	}

	return cloneLink(m.links[id]), nil
}

func (m *MemoryLinkStore) GetByHash(_ context.Context, hash shortener.URLHash) (*shortener.ShortLink, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	id, ok := m.byHash[hash]
	if !ok {
		return nil, shortener.ErrNotFound
	}

	return cloneLink(m.links[id]), nil
}

func (m *MemoryLinkStore) Rename(_ context.Context, id string, newCode shortener.Code) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	link, ok := m.links[id]
	if !ok {
		return shortener.ErrNotFound
	}

	if owner, taken := m.byCode[string(newCode)]; taken && owner != id {
		return shortener.ErrCodeTaken
	}

	delete(m.byCode, string(link.Code))
	link.Code = newCode
	m.byCode[string(newCode)] = id

	return nil
}

func (m *MemoryLinkStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	link, ok := m.links[id]
	if !ok {
		return shortener.ErrNotFound
	}

	delete(m.byCode, string(link.Code))

	if link.CustomAlias != "" {
		delete(m.byCode, link.CustomAlias)
	}

	if link.URLHash != "" {
		delete(m.byHash, link.URLHash)
	}

	delete(m.links, id)

	return nil
}

func (m *MemoryLinkStore) ListByOwner(_ context.Context, ownerID string) ([]*shortener.ShortLink, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var links []*shortener.ShortLink

	for _, link := range m.links {
		if link.OwnerID == ownerID {
			links = append(links, cloneLink(link))
		}
	}

	return links, nil
}

func (m *MemoryLinkStore) ListByIDs(_ context.Context, ids []string) ([]*shortener.ShortLink, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	links := make([]*shortener.ShortLink, 0, len(ids))

	for _, id := range ids {
		if link, ok := m.links[id]; ok {
			links = append(links, cloneLink(link))
		}
	}

	return links, nil
}

func (m *MemoryLinkStore) RecordClick(_ context.Context, id string, uniqueVisitors int, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	link, ok := m.links[id]
	if !ok {
		return shortener.ErrNotFound
	}

	link.ClickCount++
	link.UniqueVisitors = uniqueVisitors
	clicked := at
	link.LastClickedAt = &clicked

	return nil
}

func cloneLink(link *shortener.ShortLink) *shortener.ShortLink {
	clone := *link

	if link.ExpiresAt != nil {
		expires := *link.ExpiresAt
		clone.ExpiresAt = &expires
	}

	if link.LastClickedAt != nil {
		clicked := *link.LastClickedAt
		clone.LastClickedAt = &clicked
	}

	return &clone
}
