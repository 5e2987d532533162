package analytics

import (
	"context"

	"github.com/serroba/linkdeck/internal/shortener"
	"github.com/serroba/linkdeck/internal/visitor"
	"go.uber.org/zap"
)

// Recorder applies click events to analytics records. It runs as the
// consumer-side handler of the click topic, so per-link read-modify-write
// updates are serialized by event arrival order and never sit on the
// redirect path.
type Recorder struct {
	records    Store
	links      shortener.Repository
	classifier *visitor.Classifier
	logger     *zap.Logger
}

// NewRecorder creates a recorder over the given stores.
func NewRecorder(
	records Store,
	links shortener.Repository,
	classifier *visitor.Classifier,
	logger *zap.Logger,
) *Recorder {
	return &Recorder{
		records:    records,
		links:      links,
		classifier: classifier,
		logger:     logger,
	}
}

// Record classifies the visitor, folds the click into the link's record,
// persists it, and refreshes the link's denormalized counters.
func (r *Recorder) Record(ctx context.Context, event *ClickEvent) error {
	profile := r.classifier.Classify(event.UserAgent, event.ClientIP)

	record, err := r.records.GetOrCreate(ctx, event.LinkID, event.OwnerID)
	if err != nil {
		return err
	}

	record.Apply(Click{
		VisitorID: event.VisitorID,
		At:        event.At,
		Profile:   profile,
		Referrer:  ReferrerHost(event.Referrer),
	})

	if err := r.records.Save(ctx, record); err != nil {
		return err
	}

	// The link counters are a cache of the record; failing to refresh them
	// loses nothing that the next click won't restore.
	if err := r.links.RecordClick(ctx, event.LinkID, record.UniqueVisitors, event.At); err != nil {
		r.logger.Warn("failed to update link click counters",
			zap.String("linkId", event.LinkID),
			zap.Error(err),
		)
	}

	return nil
}

// EnsureRecord creates the zeroed analytics record for a freshly shortened
// link, so dashboards show empty state instead of missing data.
func (r *Recorder) EnsureRecord(ctx context.Context, event *LinkCreatedEvent) error {
	_, err := r.records.GetOrCreate(ctx, event.LinkID, event.OwnerID)

	return err
}
