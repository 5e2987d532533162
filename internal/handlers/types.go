package handlers

import (
	"time"

	"github.com/serroba/linkdeck/internal/analytics"
)

// Strategy identifies a URL shortening strategy.
type Strategy string

const (
	StrategyToken Strategy = "token"
	StrategyHash  Strategy = "hash"
)

// CreateShortURLRequest is the request body for creating a short link.
type CreateShortURLRequest struct {
	OwnerID string `doc:"Owner account id" header:"X-Owner-ID" required:"true"`
	Body    struct {
		URL          string     `doc:"The URL to shorten"                          example:"https://example.com/very/long/path" json:"url"`
		Strategy     Strategy   `doc:"Shortening strategy"                         enum:"token,hash"                            json:"strategy,omitempty"`
		CustomAlias  string     `doc:"Optional custom alias for the short code"    example:"launch-day"                         json:"customAlias,omitempty"`
		Password     string     `doc:"Optional password protecting the link"       json:"password,omitempty"`
		ExpiresAt    *time.Time `doc:"Optional expiry timestamp"                   json:"expiresAt,omitempty"`
		CollectionID string     `doc:"Optional collection to add the link to"      json:"collectionId,omitempty"`
	}
}

// CreateShortURLResponse is the response for a successfully created link.
type CreateShortURLResponse struct {
	Headers struct {
		Location string `doc:"The short URL location" header:"Location"`
	}
	Body struct {
		ID          string `doc:"Link id"             json:"id"`
		Code        string `doc:"The short code"      example:"abc123"                             json:"code"`
		ShortURL    string `doc:"The full short URL"  example:"http://localhost:8888/abc123"       json:"shortUrl"`
		OriginalURL string `doc:"The original URL"    example:"https://example.com/very/long/path" json:"originalUrl"`
	}
}

// RedirectRequest is the request for redirecting a short link.
type RedirectRequest struct {
	Code     string `doc:"The short code"                     example:"abc123" path:"code"`
	Password string `doc:"Password for protected links"       query:"password"`
}

// RedirectResponse redirects the visitor to the target URL.
type RedirectResponse struct {
	Status  int
	Headers struct {
		Location string `doc:"The target URL" header:"Location"`
	}
}

// DeleteLinkRequest deletes a link and its analytics record.
type DeleteLinkRequest struct {
	OwnerID string `doc:"Owner account id" header:"X-Owner-ID" required:"true"`
	ID      string `doc:"Link id"          path:"id"`
}

// ListLinksRequest lists the caller's links.
type ListLinksRequest struct {
	OwnerID string `doc:"Owner account id" header:"X-Owner-ID" required:"true"`
}

// LinkView is the list-view projection of a link, served from the
// denormalized counters.
type LinkView struct {
	ID             string     `json:"id"`
	Code           string     `json:"code"`
	CustomAlias    string     `json:"customAlias,omitempty"`
	TargetURL      string     `json:"targetUrl"`
	Active         bool       `json:"active"`
	ExpiresAt      *time.Time `json:"expiresAt,omitempty"`
	ClickCount     int        `json:"clickCount"`
	UniqueVisitors int        `json:"uniqueVisitors"`
	LastClickedAt  *time.Time `json:"lastClickedAt,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
}

// ListLinksResponse is the response for listing links.
type ListLinksResponse struct {
	Body struct {
		Links []LinkView `json:"links"`
	}
}

// LinkAnalyticsRequest fetches a link's analytics summary.
type LinkAnalyticsRequest struct {
	ID     string `doc:"Link id"                                  path:"id"`
	Period string `doc:"Date window: 7d, 30d, 90d, all, or days"  query:"period"`
}

// LinkAnalyticsResponse carries a per-link summary.
type LinkAnalyticsResponse struct {
	Body analytics.Summary
}

// CollectionAnalyticsRequest fetches a collection's merged summary.
type CollectionAnalyticsRequest struct {
	ID     string `doc:"Collection id"                            path:"id"`
	Period string `doc:"Date window: 7d, 30d, 90d, all, or days"  query:"period"`
}

// CollectionAnalyticsResponse carries a collection summary plus top links.
type CollectionAnalyticsResponse struct {
	Body analytics.CollectionReport
}

// UserAnalyticsRequest fetches an account's merged summary.
type UserAnalyticsRequest struct {
	OwnerID string `doc:"Owner account id"                         path:"ownerId"`
	Period  string `doc:"Date window: 7d, 30d, 90d, all, or days"  query:"period"`
}

// UserAnalyticsResponse carries a per-user summary.
type UserAnalyticsResponse struct {
	Body analytics.Summary
}

// CreateCollectionRequest creates a collection.
type CreateCollectionRequest struct {
	OwnerID string `doc:"Owner account id" header:"X-Owner-ID" required:"true"`
	Body    struct {
		Name        string `doc:"Collection name" json:"name"                  minLength:"1"`
		Description string `doc:"Description"     json:"description,omitempty"`
	}
}

// CollectionView is the API projection of a collection.
type CollectionView struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	LinkIDs     []string  `json:"linkIds"`
	CreatedAt   time.Time `json:"createdAt"`
}

// CreateCollectionResponse returns the created collection.
type CreateCollectionResponse struct {
	Body CollectionView
}

// ListCollectionsRequest lists the caller's collections.
type ListCollectionsRequest struct {
	OwnerID string `doc:"Owner account id" header:"X-Owner-ID" required:"true"`
}

// ListCollectionsResponse lists collections.
type ListCollectionsResponse struct {
	Body struct {
		Collections []CollectionView `json:"collections"`
	}
}

// DeleteCollectionRequest deletes a collection (links survive).
type DeleteCollectionRequest struct {
	OwnerID string `doc:"Owner account id" header:"X-Owner-ID" required:"true"`
	ID      string `doc:"Collection id"    path:"id"`
}

// CollectionLinkRequest attaches or detaches a link.
type CollectionLinkRequest struct {
	OwnerID string `doc:"Owner account id" header:"X-Owner-ID" required:"true"`
	ID      string `doc:"Collection id"    path:"id"`
	Body    struct {
		LinkID string `doc:"Link id" json:"linkId" minLength:"1"`
	}
}

// RemoveCollectionLinkRequest detaches a link from a collection.
type RemoveCollectionLinkRequest struct {
	OwnerID string `doc:"Owner account id" header:"X-Owner-ID" required:"true"`
	ID      string `doc:"Collection id"    path:"id"`
	LinkID  string `doc:"Link id"          path:"linkId"`
}
