package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/serroba/linkdeck/internal/analytics"
	"github.com/serroba/linkdeck/internal/collections"
	"github.com/serroba/linkdeck/internal/messaging"
	"github.com/serroba/linkdeck/internal/shortener"
	"go.uber.org/zap"
)

// URLHandler handles short link operations.
type URLHandler struct {
	strategies      map[Strategy]shortener.Strategy
	links           shortener.Repository
	records         analytics.Store
	collections     collections.Repository
	resolver        *shortener.Resolver
	baseURL         string
	defaultStrategy Strategy
	publishClick    messaging.Publish[analytics.ClickEvent]
	publishCreated  messaging.Publish[analytics.LinkCreatedEvent]
	logger          *zap.Logger
}

// NewURLHandler creates a new URL handler with injected strategies.
func NewURLHandler(
	links shortener.Repository,
	records analytics.Store,
	colls collections.Repository,
	baseURL string,
	strategies map[Strategy]shortener.Strategy,
	publishClick messaging.Publish[analytics.ClickEvent],
	publishCreated messaging.Publish[analytics.LinkCreatedEvent],
	logger *zap.Logger,
) *URLHandler {
	return &URLHandler{
		strategies:      strategies,
		links:           links,
		records:         records,
		collections:     colls,
		resolver:        shortener.NewResolver(links),
		baseURL:         baseURL,
		defaultStrategy: StrategyToken,
		publishClick:    publishClick,
		publishCreated:  publishCreated,
		logger:          logger,
	}
}

func (h *URLHandler) CreateShortURL(ctx context.Context, req *CreateShortURLRequest) (*CreateShortURLResponse, error) {
	strategyName := req.Body.Strategy
	if strategyName == "" {
		strategyName = h.defaultStrategy
	}

	strategy, ok := h.strategies[strategyName]
	if !ok {
		return nil, huma.Error400BadRequest("invalid strategy: must be 'token' or 'hash'")
	}

	create := shortener.CreateRequest{
		OwnerID:     req.OwnerID,
		TargetURL:   req.Body.URL,
		CustomAlias: req.Body.CustomAlias,
		ExpiresAt:   req.Body.ExpiresAt,
	}

	if req.Body.Password != "" {
		hash, err := shortener.HashPassword(req.Body.Password)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to save url")
		}

		create.PasswordHash = hash
	}

	link, err := strategy.Shorten(ctx, create)
	if err != nil {
		if errors.Is(err, shortener.ErrCodeTaken) {
			return nil, huma.Error409Conflict("custom alias already taken")
		}

		return nil, huma.Error500InternalServerError("failed to save url")
	}

	if req.Body.CollectionID != "" {
		if err := h.collections.AddLink(ctx, req.Body.CollectionID, link.ID); err != nil {
			if errors.Is(err, collections.ErrNotFound) {
				return nil, huma.Error404NotFound("collection not found")
			}

			return nil, huma.Error500InternalServerError("failed to add link to collection")
		}
	}

	meta := RequestMetaFromContext(ctx)
	event := &analytics.LinkCreatedEvent{
		LinkID:    link.ID,
		OwnerID:   link.OwnerID,
		Code:      string(link.Code),
		TargetURL: link.TargetURL,
		Strategy:  string(strategyName),
		CreatedAt: link.CreatedAt,
		ClientIP:  meta.ClientIP,
		UserAgent: meta.UserAgent,
	}

	if err := h.publishCreated(event); err != nil {
		h.logger.Error("failed to publish link created event",
			zap.String("code", event.Code),
			zap.Error(err),
		)
	}

	code := string(link.Code)
	if link.CustomAlias != "" {
		code = link.CustomAlias
	}

	fullShortURL := fmt.Sprintf("%s/%s", h.baseURL, code)

	resp := &CreateShortURLResponse{}
	resp.Headers.Location = fullShortURL
	resp.Body.ID = link.ID
	resp.Body.Code = string(link.Code)
	resp.Body.ShortURL = fullShortURL
	resp.Body.OriginalURL = link.TargetURL

	return resp, nil
}

// RedirectToURL resolves a short code and redirects. Click tracking is
// best-effort: the event publish happens after access is granted and its
// failure is logged, never surfaced. The visitor is redirected regardless.
func (h *URLHandler) RedirectToURL(ctx context.Context, req *RedirectRequest) (*RedirectResponse, error) {
	resolution, err := h.resolver.Resolve(ctx, shortener.Code(req.Code), req.Password)
	if err != nil {
		if errors.Is(err, shortener.ErrNotFound) {
			return nil, huma.Error404NotFound("short url not found")
		}

		return nil, huma.Error500InternalServerError("failed to get url")
	}

	if !resolution.AccessGranted {
		switch resolution.DenyReason {
		case shortener.DenyExpired:
			return nil, huma.Error410Gone("short url expired")
		case shortener.DenyPassword:
			return nil, huma.Error403Forbidden("password required")
		default:
			return nil, huma.Error404NotFound("short url not found")
		}
	}

	meta := RequestMetaFromContext(ctx)
	event := &analytics.ClickEvent{
		LinkID:    resolution.LinkID,
		OwnerID:   resolution.OwnerID,
		VisitorID: meta.VisitorID,
		UserAgent: meta.UserAgent,
		ClientIP:  meta.ClientIP,
		Referrer:  meta.Referrer,
		At:        time.Now(),
	}

	if err = h.publishClick(event); err != nil {
		h.logger.Error("failed to publish click event",
			zap.String("linkId", event.LinkID),
			zap.Error(err),
		)
	}

	resp := &RedirectResponse{
		Status: http.StatusMovedPermanently,
	}
	resp.Headers.Location = resolution.TargetURL

	return resp, nil
}

func (h *URLHandler) DeleteLink(ctx context.Context, req *DeleteLinkRequest) (*struct{}, error) {
	if err := h.links.Delete(ctx, req.ID); err != nil {
		if errors.Is(err, shortener.ErrNotFound) {
			return nil, huma.Error404NotFound("link not found")
		}

		return nil, huma.Error500InternalServerError("failed to delete link")
	}

	// The analytics record shares the link's lifecycle.
	if err := h.records.Delete(ctx, req.ID); err != nil {
		h.logger.Error("failed to delete analytics record",
			zap.String("linkId", req.ID),
			zap.Error(err),
		)
	}

	return nil, nil
}

func (h *URLHandler) ListLinks(ctx context.Context, req *ListLinksRequest) (*ListLinksResponse, error) {
	links, err := h.links.ListByOwner(ctx, req.OwnerID)
	if err != nil {
		return nil, huma.Error500InternalServerError("failed to list links")
	}

	resp := &ListLinksResponse{}
	resp.Body.Links = make([]LinkView, 0, len(links))

	for _, link := range links {
		resp.Body.Links = append(resp.Body.Links, LinkView{
			ID:             link.ID,
			Code:           string(link.Code),
			CustomAlias:    link.CustomAlias,
			TargetURL:      link.TargetURL,
			Active:         link.Active,
			ExpiresAt:      link.ExpiresAt,
			ClickCount:     link.ClickCount,
			UniqueVisitors: link.UniqueVisitors,
			LastClickedAt:  link.LastClickedAt,
			CreatedAt:      link.CreatedAt,
		})
	}

	return resp, nil
}
