package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/serroba/linkdeck/internal/shortener"
	"github.com/serroba/linkdeck/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLink(id, code string) *shortener.ShortLink {
	return &shortener.ShortLink{
		ID:        id,
		OwnerID:   "owner-1",
		Code:      shortener.Code(code),
		TargetURL: "https://example.com/" + id,
		Active:    true,
		CreatedAt: time.Now(),
	}
}

func TestMemoryLinkStore(t *testing.T) {
	ctx := context.Background()

	t.Run("save and get by code", func(t *testing.T) {
		s := store.NewMemoryLinkStore()
		require.NoError(t, s.Save(ctx, newLink("link-1", "abc123")))

		link, err := s.GetByCode(ctx, "abc123")
		require.NoError(t, err)
		assert.Equal(t, "link-1", link.ID)
	})

	t.Run("get by custom alias", func(t *testing.T) {
		s := store.NewMemoryLinkStore()
		link := newLink("link-1", "abc123")
		link.CustomAlias = "launch"
		require.NoError(t, s.Save(ctx, link))

		byAlias, err := s.GetByCode(ctx, "launch")
		require.NoError(t, err)
		assert.Equal(t, "link-1", byAlias.ID)
	})

	t.Run("duplicate code is rejected", func(t *testing.T) {
		s := store.NewMemoryLinkStore()
		require.NoError(t, s.Save(ctx, newLink("link-1", "abc123")))

		err := s.Save(ctx, newLink("link-2", "abc123"))
		assert.ErrorIs(t, err, shortener.ErrCodeTaken)
	})

	t.Run("alias colliding with an existing code is rejected", func(t *testing.T) {
		s := store.NewMemoryLinkStore()
		require.NoError(t, s.Save(ctx, newLink("link-1", "abc123")))

		link := newLink("link-2", "def456")
		link.CustomAlias = "abc123"

		err := s.Save(ctx, link)
		assert.ErrorIs(t, err, shortener.ErrCodeTaken)
	})

	t.Run("get by hash", func(t *testing.T) {
		s := store.NewMemoryLinkStore()
		link := newLink("link-1", "abc123")
		link.URLHash = "somehash"
		require.NoError(t, s.Save(ctx, link))

		byHash, err := s.GetByHash(ctx, "somehash")
		require.NoError(t, err)
		assert.Equal(t, "link-1", byHash.ID)

		_, err = s.GetByHash(ctx, "otherhash")
		assert.ErrorIs(t, err, shortener.ErrNotFound)
	})

	t.Run("rename moves the code index", func(t *testing.T) {
		s := store.NewMemoryLinkStore()
		require.NoError(t, s.Save(ctx, newLink("link-1", "abc123")))

		require.NoError(t, s.Rename(ctx, "link-1", "new456"))

		_, err := s.GetByCode(ctx, "abc123")
		assert.ErrorIs(t, err, shortener.ErrNotFound)

		link, err := s.GetByCode(ctx, "new456")
		require.NoError(t, err)
		assert.Equal(t, "link-1", link.ID)
	})

	t.Run("rename onto a taken code fails", func(t *testing.T) {
		s := store.NewMemoryLinkStore()
		require.NoError(t, s.Save(ctx, newLink("link-1", "abc123")))
		require.NoError(t, s.Save(ctx, newLink("link-2", "def456")))

		err := s.Rename(ctx, "link-1", "def456")
		assert.ErrorIs(t, err, shortener.ErrCodeTaken)
	})

	t.Run("delete removes every index", func(t *testing.T) {
		s := store.NewMemoryLinkStore()
		link := newLink("link-1", "abc123")
		link.CustomAlias = "launch"
		link.URLHash = "somehash"
		require.NoError(t, s.Save(ctx, link))

		require.NoError(t, s.Delete(ctx, "link-1"))

		_, err := s.GetByCode(ctx, "abc123")
		assert.ErrorIs(t, err, shortener.ErrNotFound)
		_, err = s.GetByCode(ctx, "launch")
		assert.ErrorIs(t, err, shortener.ErrNotFound)
		_, err = s.GetByHash(ctx, "somehash")
		assert.ErrorIs(t, err, shortener.ErrNotFound)

		assert.ErrorIs(t, s.Delete(ctx, "link-1"), shortener.ErrNotFound)
	})

	t.Run("list by owner", func(t *testing.T) {
		s := store.NewMemoryLinkStore()
		require.NoError(t, s.Save(ctx, newLink("link-1", "abc123")))
		require.NoError(t, s.Save(ctx, newLink("link-2", "def456")))

		other := newLink("link-3", "ghi789")
		other.OwnerID = "owner-2"
		require.NoError(t, s.Save(ctx, other))

		links, err := s.ListByOwner(ctx, "owner-1")
		require.NoError(t, err)
		assert.Len(t, links, 2)
	})

	t.Run("list by ids skips unknown ids", func(t *testing.T) {
		s := store.NewMemoryLinkStore()
		require.NoError(t, s.Save(ctx, newLink("link-1", "abc123")))

		links, err := s.ListByIDs(ctx, []string{"link-1", "ghost"})
		require.NoError(t, err)
		assert.Len(t, links, 1)
	})

	t.Run("record click bumps the denormalized counters", func(t *testing.T) {
		s := store.NewMemoryLinkStore()
		require.NoError(t, s.Save(ctx, newLink("link-1", "abc123")))

		at := time.Date(2024, 1, 10, 14, 30, 0, 0, time.UTC)
		require.NoError(t, s.RecordClick(ctx, "link-1", 1, at))
		require.NoError(t, s.RecordClick(ctx, "link-1", 2, at.Add(time.Hour)))

		link, err := s.GetByCode(ctx, "abc123")
		require.NoError(t, err)
		assert.Equal(t, 2, link.ClickCount)
		assert.Equal(t, 2, link.UniqueVisitors)
		require.NotNil(t, link.LastClickedAt)
		assert.Equal(t, at.Add(time.Hour), *link.LastClickedAt)

		assert.ErrorIs(t, s.RecordClick(ctx, "ghost", 1, at), shortener.ErrNotFound)
	})

	t.Run("returned links are copies", func(t *testing.T) {
		s := store.NewMemoryLinkStore()
		require.NoError(t, s.Save(ctx, newLink("link-1", "abc123")))

		link, err := s.GetByCode(ctx, "abc123")
		require.NoError(t, err)
		link.TargetURL = "mutated"

		again, err := s.GetByCode(ctx, "abc123")
		require.NoError(t, err)
		assert.NotEqual(t, "mutated", again.TargetURL)
	})
}
