package analytics_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/serroba/linkdeck/internal/analytics"
	"github.com/serroba/linkdeck/internal/shortener"
	"github.com/serroba/linkdeck/internal/store"
	"github.com/serroba/linkdeck/internal/visitor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// failingAnalyticsStore wraps the memory store and fails selected calls.
type failingAnalyticsStore struct {
	*store.MemoryAnalyticsStore

	saveErr error
}

func (f *failingAnalyticsStore) Save(ctx context.Context, record *analytics.Record) error {
	if f.saveErr != nil {
		return f.saveErr
	}

	return f.MemoryAnalyticsStore.Save(ctx, record)
}

// failingLinkStore wraps the memory store and fails counter refreshes.
type failingLinkStore struct {
	*store.MemoryLinkStore

	recordClickErr error
}

func (f *failingLinkStore) RecordClick(ctx context.Context, id string, uniqueVisitors int, at time.Time) error {
	if f.recordClickErr != nil {
		return f.recordClickErr
	}

	return f.MemoryLinkStore.RecordClick(ctx, id, uniqueVisitors, at)
}

func seedLink(t *testing.T, links shortener.Repository, id, code string) {
	t.Helper()

	err := links.Save(context.Background(), &shortener.ShortLink{
		ID:        id,
		OwnerID:   "owner-1",
		Code:      shortener.Code(code),
		TargetURL: "https://example.com/page",
		Active:    true,
	})
	require.NoError(t, err)
}

func clickEvent(t *testing.T, linkID, visitorID string) *analytics.ClickEvent {
	t.Helper()

	return &analytics.ClickEvent{
		LinkID:    linkID,
		OwnerID:   "owner-1",
		VisitorID: visitorID,
		UserAgent: testUserAgent,
		ClientIP:  "203.0.113.7",
		Referrer:  "https://google.com/search",
		At:        mustParseTime(t, "2024-01-10T14:30:00Z"),
	}
}

func TestRecorderRecord(t *testing.T) {
	classifier := visitor.NewClassifier(visitor.NewNoopResolver())

	t.Run("applies the click and refreshes link counters", func(t *testing.T) {
		records := store.NewMemoryAnalyticsStore()
		links := store.NewMemoryLinkStore()
		seedLink(t, links, "link-1", "abc123")

		recorder := analytics.NewRecorder(records, links, classifier, zap.NewNop())

		err := recorder.Record(context.Background(), clickEvent(t, "link-1", "v1"))
		require.NoError(t, err)

		record, err := records.Get(context.Background(), "link-1")
		require.NoError(t, err)
		assert.Equal(t, 1, record.TotalClicks)
		assert.Equal(t, 1, record.UniqueVisitors)
		assert.Equal(t, 1, record.Browsers["Chrome"])
		assert.Equal(t, 1, record.Referrers["google.com"])

		link, err := links.GetByCode(context.Background(), "abc123")
		require.NoError(t, err)
		assert.Equal(t, 1, link.ClickCount)
		assert.Equal(t, 1, link.UniqueVisitors)
		require.NotNil(t, link.LastClickedAt)
	})

	t.Run("creates the record on first click", func(t *testing.T) {
		records := store.NewMemoryAnalyticsStore()
		links := store.NewMemoryLinkStore()
		seedLink(t, links, "link-1", "abc123")

		recorder := analytics.NewRecorder(records, links, classifier, zap.NewNop())

		_, err := records.Get(context.Background(), "link-1")
		require.ErrorIs(t, err, analytics.ErrNotFound)

		require.NoError(t, recorder.Record(context.Background(), clickEvent(t, "link-1", "v1")))

		record, err := records.Get(context.Background(), "link-1")
		require.NoError(t, err)
		assert.Equal(t, "owner-1", record.OwnerID)
	})

	t.Run("propagates a save failure for redelivery", func(t *testing.T) {
		saveErr := errors.New("postgres down")
		records := &failingAnalyticsStore{MemoryAnalyticsStore: store.NewMemoryAnalyticsStore(), saveErr: saveErr}
		links := store.NewMemoryLinkStore()
		seedLink(t, links, "link-1", "abc123")

		recorder := analytics.NewRecorder(records, links, classifier, zap.NewNop())

		err := recorder.Record(context.Background(), clickEvent(t, "link-1", "v1"))
		assert.ErrorIs(t, err, saveErr)
	})

	t.Run("tolerates a counter refresh failure", func(t *testing.T) {
		records := store.NewMemoryAnalyticsStore()
		links := &failingLinkStore{MemoryLinkStore: store.NewMemoryLinkStore(), recordClickErr: errors.New("boom")}
		seedLink(t, links.MemoryLinkStore, "link-1", "abc123")

		recorder := analytics.NewRecorder(records, links, classifier, zap.NewNop())

		err := recorder.Record(context.Background(), clickEvent(t, "link-1", "v1"))
		require.NoError(t, err)

		record, err := records.Get(context.Background(), "link-1")
		require.NoError(t, err)
		assert.Equal(t, 1, record.TotalClicks)
	})
}

func TestRecorderEnsureRecord(t *testing.T) {
	t.Run("creates a zeroed record for a new link", func(t *testing.T) {
		records := store.NewMemoryAnalyticsStore()
		recorder := analytics.NewRecorder(records, store.NewMemoryLinkStore(), visitor.NewClassifier(visitor.NewNoopResolver()), zap.NewNop())

		err := recorder.EnsureRecord(context.Background(), &analytics.LinkCreatedEvent{LinkID: "link-1", OwnerID: "owner-1"})
		require.NoError(t, err)

		record, err := records.Get(context.Background(), "link-1")
		require.NoError(t, err)
		assert.Equal(t, 0, record.TotalClicks)
		assert.Equal(t, "owner-1", record.OwnerID)
	})

	t.Run("is idempotent over an existing record", func(t *testing.T) {
		records := store.NewMemoryAnalyticsStore()
		classifier := visitor.NewClassifier(visitor.NewNoopResolver())
		links := store.NewMemoryLinkStore()
		seedLink(t, links, "link-1", "abc123")

		recorder := analytics.NewRecorder(records, links, classifier, zap.NewNop())
		require.NoError(t, recorder.Record(context.Background(), clickEvent(t, "link-1", "v1")))

		err := recorder.EnsureRecord(context.Background(), &analytics.LinkCreatedEvent{LinkID: "link-1", OwnerID: "owner-1"})
		require.NoError(t, err)

		record, err := records.Get(context.Background(), "link-1")
		require.NoError(t, err)
		assert.Equal(t, 1, record.TotalClicks)
	})
}
