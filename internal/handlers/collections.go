package handlers

import (
	"context"
	"errors"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"
	"github.com/serroba/linkdeck/internal/collections"
)

// CollectionHandler handles collection CRUD.
type CollectionHandler struct {
	collections collections.Repository
}

// NewCollectionHandler creates a new collection handler.
func NewCollectionHandler(colls collections.Repository) *CollectionHandler {
	return &CollectionHandler{collections: colls}
}

func (h *CollectionHandler) CreateCollection(ctx context.Context, req *CreateCollectionRequest) (*CreateCollectionResponse, error) {
	collection := &collections.Collection{
		ID:          uuid.NewString(),
		OwnerID:     req.OwnerID,
		Name:        req.Body.Name,
		Description: req.Body.Description,
		CreatedAt:   time.Now(),
	}

	if err := h.collections.Save(ctx, collection); err != nil {
		return nil, huma.Error500InternalServerError("failed to save collection")
	}

	return &CreateCollectionResponse{Body: collectionView(collection)}, nil
}

func (h *CollectionHandler) ListCollections(ctx context.Context, req *ListCollectionsRequest) (*ListCollectionsResponse, error) {
	owned, err := h.collections.ListByOwner(ctx, req.OwnerID)
	if err != nil {
		return nil, huma.Error500InternalServerError("failed to list collections")
	}

	resp := &ListCollectionsResponse{}
	resp.Body.Collections = make([]CollectionView, 0, len(owned))

	for _, collection := range owned {
		resp.Body.Collections = append(resp.Body.Collections, collectionView(collection))
	}

	return resp, nil
}

func (h *CollectionHandler) DeleteCollection(ctx context.Context, req *DeleteCollectionRequest) (*struct{}, error) {
	if err := h.ownedBy(ctx, req.ID, req.OwnerID); err != nil {
		return nil, err
	}

	if err := h.collections.Delete(ctx, req.ID); err != nil {
		if errors.Is(err, collections.ErrNotFound) {
			return nil, huma.Error404NotFound("collection not found")
		}

		return nil, huma.Error500InternalServerError("failed to delete collection")
	}

	return nil, nil
}

func (h *CollectionHandler) AddLink(ctx context.Context, req *CollectionLinkRequest) (*struct{}, error) {
	if err := h.ownedBy(ctx, req.ID, req.OwnerID); err != nil {
		return nil, err
	}

	if err := h.collections.AddLink(ctx, req.ID, req.Body.LinkID); err != nil {
		return nil, huma.Error500InternalServerError("failed to add link")
	}

	return nil, nil
}

func (h *CollectionHandler) RemoveLink(ctx context.Context, req *RemoveCollectionLinkRequest) (*struct{}, error) {
	if err := h.ownedBy(ctx, req.ID, req.OwnerID); err != nil {
		return nil, err
	}

	if err := h.collections.RemoveLink(ctx, req.ID, req.LinkID); err != nil {
		return nil, huma.Error500InternalServerError("failed to remove link")
	}

	return nil, nil
}

func (h *CollectionHandler) ownedBy(ctx context.Context, id, ownerID string) error {
	collection, err := h.collections.Get(ctx, id)
	if err != nil {
		if errors.Is(err, collections.ErrNotFound) {
			return huma.Error404NotFound("collection not found")
		}

		return huma.Error500InternalServerError("failed to load collection")
	}

	if collection.OwnerID != ownerID {
		return huma.Error404NotFound("collection not found")
	}

	return nil
}

func collectionView(collection *collections.Collection) CollectionView {
	linkIDs := collection.LinkIDs
	if linkIDs == nil {
		linkIDs = []string{}
	}

	return CollectionView{
		ID:          collection.ID,
		Name:        collection.Name,
		Description: collection.Description,
		LinkIDs:     linkIDs,
		CreatedAt:   collection.CreatedAt,
	}
}
