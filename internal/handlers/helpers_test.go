package handlers_test

import (
	"context"
	"errors"
	"testing"

	"github.com/jaevor/go-nanoid"
	"github.com/serroba/linkdeck/internal/analytics"
	"github.com/serroba/linkdeck/internal/handlers"
	"github.com/serroba/linkdeck/internal/messaging"
	"github.com/serroba/linkdeck/internal/shortener"
	"github.com/serroba/linkdeck/internal/store"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const (
	testURL     = "https://example.com/very/long/path"
	testOwnerID = "owner-1"
	testBaseURL = "http://localhost:8888"
)

var errPublish = errors.New("publish error")

// noopPublish returns a publish function that always succeeds.
func noopPublish[T any]() messaging.Publish[T] {
	return func(_ *T) error { return nil }
}

// errorPublish returns a publish function that always fails.
func errorPublish[T any](err error) messaging.Publish[T] {
	return func(_ *T) error { return err }
}

// capturePublish records the last published message.
type capturePublish[T any] struct {
	last *T
	n    int
}

func (c *capturePublish[T]) publish(msg *T) error {
	c.last = msg
	c.n++

	return nil
}

// fixture wires a URL handler over memory stores.
type fixture struct {
	links       *store.MemoryLinkStore
	records     *store.MemoryAnalyticsStore
	collections *store.MemoryCollectionStore

	clicks  *capturePublish[analytics.ClickEvent]
	created *capturePublish[analytics.LinkCreatedEvent]

	urls *handlers.URLHandler
}

func newFixture() *fixture {
	f := &fixture{
		links:       store.NewMemoryLinkStore(),
		records:     store.NewMemoryAnalyticsStore(),
		collections: store.NewMemoryCollectionStore(),
		clicks:      &capturePublish[analytics.ClickEvent]{},
		created:     &capturePublish[analytics.LinkCreatedEvent]{},
	}

	f.urls = handlers.NewURLHandler(
		f.links,
		f.records,
		f.collections,
		testBaseURL,
		newStrategies(f.links),
		f.clicks.publish,
		f.created.publish,
		zap.NewNop(),
	)

	return f
}

func newStrategies(repo shortener.Repository) map[handlers.Strategy]shortener.Strategy {
	gen, _ := nanoid.Standard(8)

	return map[handlers.Strategy]shortener.Strategy{
		handlers.StrategyToken: shortener.NewTokenStrategy(repo, gen),
		handlers.StrategyHash:  shortener.NewHashStrategy(repo, gen),
	}
}

func newHandlerWithPublishError(repo shortener.Repository, records analytics.Store) *handlers.URLHandler {
	return handlers.NewURLHandler(
		repo,
		records,
		store.NewMemoryCollectionStore(),
		testBaseURL,
		newStrategies(repo),
		errorPublish[analytics.ClickEvent](errPublish),
		errorPublish[analytics.LinkCreatedEvent](errPublish),
		zap.NewNop(),
	)
}

func (f *fixture) shorten(t *testing.T, target string) *handlers.CreateShortURLResponse {
	t.Helper()

	req := &handlers.CreateShortURLRequest{OwnerID: testOwnerID}
	req.Body.URL = target

	resp, err := f.urls.CreateShortURL(context.Background(), req)
	require.NoError(t, err)

	return resp
}

// metaContext builds a context carrying typical redirect request metadata.
func metaContext(visitorID string) context.Context {
	return handlers.ContextWithRequestMeta(context.Background(), handlers.RequestMeta{
		ClientIP:  "203.0.113.7",
		UserAgent: "Mozilla/5.0 (Windows NT 10.0; Win64; x64) Chrome/120.0.0.0",
		Referrer:  "https://google.com/search",
		VisitorID: visitorID,
	})
}
