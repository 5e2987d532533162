package handlers

import (
	"context"
	"errors"

	"github.com/danielgtaylor/huma/v2"
	"github.com/serroba/linkdeck/internal/analytics"
	"github.com/serroba/linkdeck/internal/collections"
)

// AnalyticsHandler serves the dashboard's summary views.
type AnalyticsHandler struct {
	reporter *analytics.Reporter
}

// NewAnalyticsHandler creates a new analytics handler.
func NewAnalyticsHandler(reporter *analytics.Reporter) *AnalyticsHandler {
	return &AnalyticsHandler{reporter: reporter}
}

func (h *AnalyticsHandler) GetLinkAnalytics(ctx context.Context, req *LinkAnalyticsRequest) (*LinkAnalyticsResponse, error) {
	summary, err := h.reporter.LinkSummary(ctx, req.ID, analytics.ParsePeriod(req.Period))
	if err != nil {
		return nil, huma.Error500InternalServerError("failed to load analytics")
	}

	return &LinkAnalyticsResponse{Body: *summary}, nil
}

func (h *AnalyticsHandler) GetCollectionAnalytics(ctx context.Context, req *CollectionAnalyticsRequest) (*CollectionAnalyticsResponse, error) {
	report, err := h.reporter.CollectionSummary(ctx, req.ID, analytics.ParsePeriod(req.Period))
	if err != nil {
		if errors.Is(err, collections.ErrNotFound) {
			return nil, huma.Error404NotFound("collection not found")
		}

		return nil, huma.Error500InternalServerError("failed to load analytics")
	}

	return &CollectionAnalyticsResponse{Body: *report}, nil
}

func (h *AnalyticsHandler) GetUserAnalytics(ctx context.Context, req *UserAnalyticsRequest) (*UserAnalyticsResponse, error) {
	summary, err := h.reporter.UserSummary(ctx, req.OwnerID, analytics.ParsePeriod(req.Period))
	if err != nil {
		return nil, huma.Error500InternalServerError("failed to load analytics")
	}

	return &UserAnalyticsResponse{Body: *summary}, nil
}
