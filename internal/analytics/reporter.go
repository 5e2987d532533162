package analytics

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/serroba/linkdeck/internal/collections"
	"github.com/serroba/linkdeck/internal/shortener"
)

// Top-N sizes served by the dashboard views.
const (
	topBrowserCount  = 5
	topCountryCount  = 10
	topCityCount     = 10
	topReferrerCount = 10
	topLinkCount     = 10
)

// LinkDetails is the slice of a short link surfaced in top-link rows.
type LinkDetails struct {
	Code        string `json:"code"`
	CustomAlias string `json:"customAlias,omitempty"`
	TargetURL   string `json:"targetUrl"`
}

// TopLink is one row of a collection's busiest-links list.
type TopLink struct {
	LinkID     string       `json:"linkId"`
	Clicks     int          `json:"clicks"`
	URLDetails *LinkDetails `json:"urlDetails,omitempty"`
}

// CollectionReport is a collection summary plus its busiest links.
type CollectionReport struct {
	Summary  *Summary  `json:"summary"`
	TopLinks []TopLink `json:"topLinks"`
}

// Reporter produces the read-side summary views for the API. It only ever
// reads records; all mutation goes through the Recorder.
type Reporter struct {
	records     Store
	links       shortener.Repository
	collections collections.Repository
}

// NewReporter creates a reporter over the given stores.
func NewReporter(records Store, links shortener.Repository, colls collections.Repository) *Reporter {
	return &Reporter{
		records:     records,
		links:       links,
		collections: colls,
	}
}

// LinkSummary rolls up a single link's record. A link with no record yet
// reports all-zero fields rather than an error.
func (r *Reporter) LinkSummary(ctx context.Context, linkID string, period Period) (*Summary, error) {
	record, err := r.records.Get(ctx, linkID)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			return nil, err
		}

		record = NewRecord(linkID, "")
	}

	return RollUp([]*Record{record}, r.options(period, 0)), nil
}

// CollectionSummary merges the records of every link in the collection and
// ranks its busiest links.
func (r *Reporter) CollectionSummary(ctx context.Context, collectionID string, period Period) (*CollectionReport, error) {
	collection, err := r.collections.Get(ctx, collectionID)
	if err != nil {
		return nil, err
	}

	records, err := r.records.ListByLinkIDs(ctx, collection.LinkIDs)
	if err != nil {
		return nil, err
	}

	summary := RollUp(records, r.options(period, len(collection.LinkIDs)))

	topLinks, err := r.topLinks(ctx, records)
	if err != nil {
		return nil, err
	}

	return &CollectionReport{
		Summary:  summary,
		TopLinks: topLinks,
	}, nil
}

// UserSummary merges the records of every link the owner has.
func (r *Reporter) UserSummary(ctx context.Context, ownerID string, period Period) (*Summary, error) {
	links, err := r.links.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	records, err := r.records.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	return RollUp(records, r.options(period, len(links))), nil
}

func (r *Reporter) options(period Period, linkCount int) Options {
	return Options{
		Period:       period,
		AsOf:         time.Now(),
		TopBrowsers:  topBrowserCount,
		TopCountries: topCountryCount,
		TopCities:    topCityCount,
		TopReferrers: topReferrerCount,
		LinkCount:    linkCount,
	}
}

func (r *Reporter) topLinks(ctx context.Context, records []*Record) ([]TopLink, error) {
	top := make([]TopLink, 0, len(records))
	ids := make([]string, 0, len(records))

	for _, record := range records {
		top = append(top, TopLink{LinkID: record.LinkID, Clicks: record.TotalClicks})
		ids = append(ids, record.LinkID)
	}

	sort.Slice(top, func(i, j int) bool { return top[i].Clicks > top[j].Clicks })

	if len(top) > topLinkCount {
		top = top[:topLinkCount]
		ids = ids[:0]

		for _, row := range top {
			ids = append(ids, row.LinkID)
		}
	}

	links, err := r.links.ListByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	details := make(map[string]*LinkDetails, len(links))
	for _, link := range links {
		details[link.ID] = &LinkDetails{
			Code:        string(link.Code),
			CustomAlias: link.CustomAlias,
			TargetURL:   link.TargetURL,
		}
	}

	for i := range top {
		top[i].URLDetails = details[top[i].LinkID]
	}

	return top, nil
}
