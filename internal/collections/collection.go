package collections

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when no collection matches an id.
var ErrNotFound = errors.New("collection not found")

// Collection groups a user's short links for shared analytics views.
type Collection struct {
	ID          string
	OwnerID     string
	Name        string
	Description string
	LinkIDs     []string
	CreatedAt   time.Time
}

// Contains reports whether the collection holds the given link.
func (c *Collection) Contains(linkID string) bool {
	for _, id := range c.LinkIDs {
		if id == linkID {
			return true
		}
	}

	return false
}

// Repository defines the interface for collection storage.
type Repository interface {
	Save(ctx context.Context, collection *Collection) error
	Get(ctx context.Context, id string) (*Collection, error)
	Delete(ctx context.Context, id string) error
	ListByOwner(ctx context.Context, ownerID string) ([]*Collection, error)

	// AddLink appends a link to the collection; adding an already-present
	// link is a no-op.
	AddLink(ctx context.Context, id, linkID string) error

	// RemoveLink detaches a link from the collection.
	RemoveLink(ctx context.Context, id, linkID string) error
}
