package shortener

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// CreateRequest carries everything needed to mint a new short link.
type CreateRequest struct {
	OwnerID      string
	TargetURL    string
	CustomAlias  string
	PasswordHash string
	ExpiresAt    *time.Time
}

// Strategy defines the interface for URL shortening strategies.
type Strategy interface {
	Shorten(ctx context.Context, req CreateRequest) (*ShortLink, error)
}

// CodeGenerator generates unique short codes.
type CodeGenerator func() string

func newLink(req CreateRequest, code Code, hash URLHash) *ShortLink {
	return &ShortLink{
		ID:           uuid.NewString(),
		OwnerID:      req.OwnerID,
		Code:         code,
		CustomAlias:  req.CustomAlias,
		TargetURL:    req.TargetURL,
		URLHash:      hash,
		PasswordHash: req.PasswordHash,
		ExpiresAt:    req.ExpiresAt,
		Active:       true,
		CreatedAt:    time.Now(),
	}
}

// TokenStrategy always generates a new code for each URL.
type TokenStrategy struct {
	store        Repository
	generateCode CodeGenerator
}

// NewTokenStrategy creates a new token-based shortening strategy.
func NewTokenStrategy(store Repository, generator CodeGenerator) *TokenStrategy {
	return &TokenStrategy{
		store:        store,
		generateCode: generator,
	}
}

func (s *TokenStrategy) Shorten(ctx context.Context, req CreateRequest) (*ShortLink, error) {
	if req.CustomAlias != "" {
		if err := ensureAliasFree(ctx, s.store, Code(req.CustomAlias)); err != nil {
			return nil, err
		}
	}

	link := newLink(req, Code(s.generateCode()), "")

	if err := s.store.Save(ctx, link); err != nil {
		return nil, err
	}

	return link, nil
}

// HashStrategy deduplicates targets: shortening the same URL twice returns
// the same link. Requests carrying an alias, password, or expiry always get
// a fresh link, since those attributes are per-link.
type HashStrategy struct {
	store        Repository
	generateCode CodeGenerator
}

// NewHashStrategy creates a new hash-based shortening strategy.
func NewHashStrategy(store Repository, generator CodeGenerator) *HashStrategy {
	return &HashStrategy{
		store:        store,
		generateCode: generator,
	}
}

func (s *HashStrategy) Shorten(ctx context.Context, req CreateRequest) (*ShortLink, error) {
	normalized, err := NormalizeURL(req.TargetURL)
	if err != nil {
		return nil, err
	}

	hash := URLHash(HashURL(normalized))

	if req.CustomAlias == "" && req.PasswordHash == "" && req.ExpiresAt == nil {
		existing, err := s.store.GetByHash(ctx, hash)
		if err == nil {
			return existing, nil
		}

		if !errors.Is(err, ErrNotFound) {
			return nil, err
		}
	} else if req.CustomAlias != "" {
		if err := ensureAliasFree(ctx, s.store, Code(req.CustomAlias)); err != nil {
			return nil, err
		}
	}

	link := newLink(req, Code(s.generateCode()), hash)

	if err = s.store.Save(ctx, link); err != nil {
		return nil, err
	}

	return link, nil
}

func ensureAliasFree(ctx context.Context, store Repository, alias Code) error {
	_, err := store.GetByCode(ctx, alias)
	if err == nil {
		return ErrCodeTaken
	}

	if !errors.Is(err, ErrNotFound) {
		return err
	}

	return nil
}
