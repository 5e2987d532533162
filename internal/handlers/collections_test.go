package handlers_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/serroba/linkdeck/internal/collections"
	"github.com/serroba/linkdeck/internal/handlers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (f *fixture) collectionHandler() *handlers.CollectionHandler {
	return handlers.NewCollectionHandler(f.collections)
}

func createCollection(t *testing.T, handler *handlers.CollectionHandler, name string) handlers.CollectionView {
	t.Helper()

	req := &handlers.CreateCollectionRequest{OwnerID: testOwnerID}
	req.Body.Name = name

	resp, err := handler.CreateCollection(context.Background(), req)
	require.NoError(t, err)

	return resp.Body
}

func TestCreateCollection(t *testing.T) {
	t.Run("creates an empty collection", func(t *testing.T) {
		f := newFixture()

		view := createCollection(t, f.collectionHandler(), "launch")

		assert.NotEmpty(t, view.ID)
		assert.Equal(t, "launch", view.Name)
		assert.Empty(t, view.LinkIDs)
		assert.NotNil(t, view.LinkIDs)
		assert.False(t, view.CreatedAt.IsZero())
	})
}

func TestListCollections(t *testing.T) {
	t.Run("lists only the caller's collections", func(t *testing.T) {
		f := newFixture()
		handler := f.collectionHandler()
		createCollection(t, handler, "launch")
		createCollection(t, handler, "press")

		require.NoError(t, f.collections.Save(context.Background(), &collections.Collection{
			ID: "foreign", OwnerID: "owner-2", Name: "theirs",
		}))

		resp, err := handler.ListCollections(context.Background(), &handlers.ListCollectionsRequest{OwnerID: testOwnerID})
		require.NoError(t, err)

		assert.Len(t, resp.Body.Collections, 2)
	})
}

func TestDeleteCollection(t *testing.T) {
	t.Run("removes the collection but not its links", func(t *testing.T) {
		f := newFixture()
		handler := f.collectionHandler()

		created := f.shorten(t, testURL)
		view := createCollection(t, handler, "launch")
		require.NoError(t, f.collections.AddLink(context.Background(), view.ID, created.Body.ID))

		_, err := handler.DeleteCollection(context.Background(), &handlers.DeleteCollectionRequest{
			OwnerID: testOwnerID, ID: view.ID,
		})
		require.NoError(t, err)

		_, err = f.collections.Get(context.Background(), view.ID)
		assert.ErrorIs(t, err, collections.ErrNotFound)

		links, err := f.links.ListByOwner(context.Background(), testOwnerID)
		require.NoError(t, err)
		assert.Len(t, links, 1)
	})

	t.Run("another owner's collection reads as not found", func(t *testing.T) {
		f := newFixture()
		handler := f.collectionHandler()
		view := createCollection(t, handler, "launch")

		_, err := handler.DeleteCollection(context.Background(), &handlers.DeleteCollectionRequest{
			OwnerID: "owner-2", ID: view.ID,
		})
		assertStatusError(t, err, http.StatusNotFound)
	})
}

func TestCollectionLinks(t *testing.T) {
	t.Run("add and remove a link", func(t *testing.T) {
		f := newFixture()
		handler := f.collectionHandler()
		view := createCollection(t, handler, "launch")

		addReq := &handlers.CollectionLinkRequest{OwnerID: testOwnerID, ID: view.ID}
		addReq.Body.LinkID = "link-1"

		_, err := handler.AddLink(context.Background(), addReq)
		require.NoError(t, err)

		coll, err := f.collections.Get(context.Background(), view.ID)
		require.NoError(t, err)
		assert.Equal(t, []string{"link-1"}, coll.LinkIDs)

		_, err = handler.RemoveLink(context.Background(), &handlers.RemoveCollectionLinkRequest{
			OwnerID: testOwnerID, ID: view.ID, LinkID: "link-1",
		})
		require.NoError(t, err)

		coll, err = f.collections.Get(context.Background(), view.ID)
		require.NoError(t, err)
		assert.Empty(t, coll.LinkIDs)
	})

	t.Run("adding twice keeps a single membership", func(t *testing.T) {
		f := newFixture()
		handler := f.collectionHandler()
		view := createCollection(t, handler, "launch")

		addReq := &handlers.CollectionLinkRequest{OwnerID: testOwnerID, ID: view.ID}
		addReq.Body.LinkID = "link-1"

		_, err := handler.AddLink(context.Background(), addReq)
		require.NoError(t, err)
		_, err = handler.AddLink(context.Background(), addReq)
		require.NoError(t, err)

		coll, err := f.collections.Get(context.Background(), view.ID)
		require.NoError(t, err)
		assert.Equal(t, []string{"link-1"}, coll.LinkIDs)
	})

	t.Run("unknown collection returns not found", func(t *testing.T) {
		f := newFixture()

		addReq := &handlers.CollectionLinkRequest{OwnerID: testOwnerID, ID: "nope"}
		addReq.Body.LinkID = "link-1"

		_, err := f.collectionHandler().AddLink(context.Background(), addReq)
		assertStatusError(t, err, http.StatusNotFound)
	})
}
