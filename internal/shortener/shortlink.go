package shortener

import (
	"context"
	"errors"
	"time"
)

// Code represents a short link code, the unique path segment a link
// resolves from.
type Code string

// URLHash represents a hash of a normalized target URL.
type URLHash string

var (
	// ErrNotFound is returned when no link matches a code, hash, or id.
	ErrNotFound = errors.New("short link not found")
	// ErrCodeTaken is returned when a code or custom alias is already in use.
	ErrCodeTaken = errors.New("short code already taken")
)

// ShortLink represents a shortening mapping owned by a user.
//
// ClickCount, UniqueVisitors, and LastClickedAt are a denormalized cache of
// the link's analytics record, refreshed after every recorded click. They
// may briefly lag the record.
type ShortLink struct {
	ID           string
	OwnerID      string
	Code         Code
	CustomAlias  string
	TargetURL    string
	URLHash      URLHash // empty for token strategy, populated for hash strategy
	PasswordHash string
	ExpiresAt    *time.Time
	Active       bool

	ClickCount     int
	UniqueVisitors int
	LastClickedAt  *time.Time
	CreatedAt      time.Time
}

// IsExpired reports whether the link's expiry timestamp has passed.
func (l *ShortLink) IsExpired() bool {
	if l.ExpiresAt == nil {
		return false
	}

	return time.Now().After(*l.ExpiresAt)
}

// Repository defines the interface for short link storage.
type Repository interface {
	// Save persists a new link. Returns ErrCodeTaken when the code or
	// custom alias collides with an existing link.
	Save(ctx context.Context, link *ShortLink) error

	// GetByCode returns the link whose code or custom alias matches.
	GetByCode(ctx context.Context, code Code) (*ShortLink, error)

	// GetByHash returns the link for a normalized URL hash.
	// Used by the hash strategy to deduplicate targets.
	GetByHash(ctx context.Context, hash URLHash) (*ShortLink, error)

	// Rename changes a link's code, re-validating uniqueness.
	Rename(ctx context.Context, id string, newCode Code) error

	// Delete removes a link by id.
	Delete(ctx context.Context, id string) error

	// ListByOwner returns all links owned by ownerID.
	ListByOwner(ctx context.Context, ownerID string) ([]*ShortLink, error)

	// ListByIDs returns the links for the given ids; missing ids are skipped.
	ListByIDs(ctx context.Context, ids []string) ([]*ShortLink, error)

	// RecordClick bumps the denormalized click counters for a link.
	RecordClick(ctx context.Context, id string, uniqueVisitors int, at time.Time) error
}
