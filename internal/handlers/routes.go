package handlers

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

// RegisterRoutes registers all linkdeck routes.
func RegisterRoutes(api huma.API, urls *URLHandler, colls *CollectionHandler, stats *AnalyticsHandler) {
	huma.Register(api, huma.Operation{
		Method:      http.MethodPost,
		Path:        "/shorten",
		Summary:     "Create short link",
		Description: "Creates a shortened URL using the specified strategy (token or hash).",
		Tags:        []string{"Links"},
	}, urls.CreateShortURL)

	huma.Register(api, huma.Operation{
		Method:      http.MethodGet,
		Path:        "/{code}",
		Summary:     "Redirect to target URL",
		Description: "Redirects to the target URL and records the click (best-effort).",
		Tags:        []string{"Links"},
	}, urls.RedirectToURL)

	huma.Register(api, huma.Operation{
		Method:  http.MethodGet,
		Path:    "/links",
		Summary: "List links",
		Tags:    []string{"Links"},
	}, urls.ListLinks)

	huma.Register(api, huma.Operation{
		Method:        http.MethodDelete,
		Path:          "/links/{id}",
		Summary:       "Delete link",
		Description:   "Deletes a link and its analytics record.",
		Tags:          []string{"Links"},
		DefaultStatus: http.StatusNoContent,
	}, urls.DeleteLink)

	huma.Register(api, huma.Operation{
		Method:  http.MethodGet,
		Path:    "/links/{id}/analytics",
		Summary: "Link analytics",
		Tags:    []string{"Analytics"},
	}, stats.GetLinkAnalytics)

	huma.Register(api, huma.Operation{
		Method:  http.MethodGet,
		Path:    "/collections/{id}/analytics",
		Summary: "Collection analytics",
		Tags:    []string{"Analytics"},
	}, stats.GetCollectionAnalytics)

	huma.Register(api, huma.Operation{
		Method:  http.MethodGet,
		Path:    "/users/{ownerId}/analytics",
		Summary: "User analytics",
		Tags:    []string{"Analytics"},
	}, stats.GetUserAnalytics)

	huma.Register(api, huma.Operation{
		Method:        http.MethodPost,
		Path:          "/collections",
		Summary:       "Create collection",
		Tags:          []string{"Collections"},
		DefaultStatus: http.StatusCreated,
	}, colls.CreateCollection)

	huma.Register(api, huma.Operation{
		Method:  http.MethodGet,
		Path:    "/collections",
		Summary: "List collections",
		Tags:    []string{"Collections"},
	}, colls.ListCollections)

	huma.Register(api, huma.Operation{
		Method:        http.MethodDelete,
		Path:          "/collections/{id}",
		Summary:       "Delete collection",
		Tags:          []string{"Collections"},
		DefaultStatus: http.StatusNoContent,
	}, colls.DeleteCollection)

	huma.Register(api, huma.Operation{
		Method:        http.MethodPost,
		Path:          "/collections/{id}/links",
		Summary:       "Add link to collection",
		Tags:          []string{"Collections"},
		DefaultStatus: http.StatusNoContent,
	}, colls.AddLink)

	huma.Register(api, huma.Operation{
		Method:        http.MethodDelete,
		Path:          "/collections/{id}/links/{linkId}",
		Summary:       "Remove link from collection",
		Tags:          []string{"Collections"},
		DefaultStatus: http.StatusNoContent,
	}, colls.RemoveLink)
}
