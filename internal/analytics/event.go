package analytics

import "time"

// Topics for the analytics event stream.
const (
	TopicLinkClicked = "link.clicked"
	TopicLinkCreated = "link.created"
)

// ClickEvent is emitted on every access-granted redirect. It carries the
// raw request context; classification happens when the event is applied,
// off the redirect path.
type ClickEvent struct {
	LinkID    string    `json:"linkId"`
	OwnerID   string    `json:"ownerId"`
	VisitorID string    `json:"visitorId"`
	UserAgent string    `json:"userAgent"`
	ClientIP  string    `json:"clientIp"`
	Referrer  string    `json:"referrer"`
	At        time.Time `json:"at"`
}

// LinkCreatedEvent is emitted when a URL is shortened.
type LinkCreatedEvent struct {
	LinkID    string    `json:"linkId"`
	OwnerID   string    `json:"ownerId"`
	Code      string    `json:"code"`
	TargetURL string    `json:"targetUrl"`
	Strategy  string    `json:"strategy"`
	CreatedAt time.Time `json:"createdAt"`
	ClientIP  string    `json:"clientIp"`
	UserAgent string    `json:"userAgent"`
}
