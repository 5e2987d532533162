package store

import (
	"context"
	"encoding/json"
	"errors"
	"sort"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/serroba/linkdeck/internal/analytics"
)

// PostgresAnalyticsStore is a PostgreSQL implementation of analytics.Store.
// The record body is a single jsonb document: the breakdowns are open-ended
// key->count maps, so rows carry explicit key-value pairs rather than a
// fixed column per dimension.
type PostgresAnalyticsStore struct {
	pool *pgxpool.Pool
}

// NewPostgresAnalyticsStore creates a new PostgreSQL-backed analytics store.
func NewPostgresAnalyticsStore(pool *pgxpool.Pool) *PostgresAnalyticsStore {
	return &PostgresAnalyticsStore{pool: pool}
}

// recordDoc is the jsonb shape of an analytics record.
type recordDoc struct {
	TotalClicks    int                       `json:"totalClicks"`
	UniqueVisitors int                       `json:"uniqueVisitors"`
	ClicksByDate   []analytics.DatePoint     `json:"clicksByDate"`
	ClicksByHour   [24]int                   `json:"clicksByHour"`
	ClicksByDay    [7]int                    `json:"clicksByDay"`
	Devices        analytics.DeviceBreakdown `json:"deviceBreakdown"`
	Browsers       map[string]int            `json:"browserBreakdown"`
	OSes           map[string]int            `json:"osBreakdown"`
	Countries      map[string]int            `json:"countryBreakdown"`
	Cities         map[string]int            `json:"cityBreakdown"`
	Referrers      map[string]int            `json:"referrerBreakdown"`
	VisitorIDs     []string                  `json:"visitorIds"`
}

func encodeRecord(record *analytics.Record) ([]byte, error) {
	visitorIDs := make([]string, 0, len(record.VisitorIDs))
	for id := range record.VisitorIDs {
		visitorIDs = append(visitorIDs, id)
	}

	// Stable document bytes regardless of map iteration order
	sort.Strings(visitorIDs)

	return json.Marshal(recordDoc{
		TotalClicks:    record.TotalClicks,
		UniqueVisitors: record.UniqueVisitors,
		ClicksByDate:   record.ClicksByDate,
		ClicksByHour:   record.ClicksByHour,
		ClicksByDay:    record.ClicksByDay,
		Devices:        record.Devices,
		Browsers:       record.Browsers,
		OSes:           record.OSes,
		Countries:      record.Countries,
		Cities:         record.Cities,
		Referrers:      record.Referrers,
		VisitorIDs:     visitorIDs,
	})
}

func decodeRecord(linkID, ownerID string, payload []byte) (*analytics.Record, error) {
	var doc recordDoc
	if err := json.Unmarshal(payload, &doc); err != nil {
		return nil, err
	}

	record := analytics.NewRecord(linkID, ownerID)
	record.TotalClicks = doc.TotalClicks
	record.UniqueVisitors = doc.UniqueVisitors
	record.ClicksByDate = doc.ClicksByDate
	record.ClicksByHour = doc.ClicksByHour
	record.ClicksByDay = doc.ClicksByDay
	record.Devices = doc.Devices

	mergeCounts(record.Browsers, doc.Browsers)
	mergeCounts(record.OSes, doc.OSes)
	mergeCounts(record.Countries, doc.Countries)
	mergeCounts(record.Cities, doc.Cities)
	mergeCounts(record.Referrers, doc.Referrers)

	for _, id := range doc.VisitorIDs {
		record.VisitorIDs[id] = struct{}{}
	}

	return record, nil
}

func mergeCounts(dst, src map[string]int) {
	for key, count := range src {
		dst[key] = count
	}
}

func (p *PostgresAnalyticsStore) GetOrCreate(ctx context.Context, linkID, ownerID string) (*analytics.Record, error) {
	record, err := p.Get(ctx, linkID)
	if err == nil {
		return record, nil
	}

	if !errors.Is(err, analytics.ErrNotFound) {
		return nil, err
	}

	record = analytics.NewRecord(linkID, ownerID)

	payload, err := encodeRecord(record)
	if err != nil {
		return nil, err
	}

	_, err = p.pool.Exec(ctx, `
		INSERT INTO analytics_records (link_id, owner_id, payload)
		VALUES ($1, $2, $3)
		ON CONFLICT (link_id) DO NOTHING
	`, linkID, ownerID, payload)
	if err != nil {
		return nil, err
	}

	return record, nil
}

func (p *PostgresAnalyticsStore) Get(ctx context.Context, linkID string) (*analytics.Record, error) {
	var (
		ownerID string
		payload []byte
	)

	err := p.pool.QueryRow(ctx, `
		SELECT owner_id, payload
		FROM analytics_records
		WHERE link_id = $1
	`, linkID).Scan(&ownerID, &payload)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, analytics.ErrNotFound
		}

		return nil, err
	}

	return decodeRecord(linkID, ownerID, payload)
}

func (p *PostgresAnalyticsStore) Save(ctx context.Context, record *analytics.Record) error {
	payload, err := encodeRecord(record)
	if err != nil {
		return err
	}

	_, err = p.pool.Exec(ctx, `
		INSERT INTO analytics_records (link_id, owner_id, payload)
		VALUES ($1, $2, $3)
		ON CONFLICT (link_id) DO UPDATE SET payload = EXCLUDED.payload
	`, record.LinkID, record.OwnerID, payload)

	return err
}

func (p *PostgresAnalyticsStore) Delete(ctx context.Context, linkID string) error {
	_, err := p.pool.Exec(ctx, `DELETE FROM analytics_records WHERE link_id = $1`, linkID)

	return err
}

func (p *PostgresAnalyticsStore) ListByLinkIDs(ctx context.Context, linkIDs []string) ([]*analytics.Record, error) {
	if len(linkIDs) == 0 {
		return nil, nil
	}

	rows, err := p.pool.Query(ctx, `
		SELECT link_id, owner_id, payload
		FROM analytics_records
		WHERE link_id = ANY($1)
	`, linkIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return p.scanRecords(rows)
}

func (p *PostgresAnalyticsStore) ListByOwner(ctx context.Context, ownerID string) ([]*analytics.Record, error) {
	rows, err := p.pool.Query(ctx, `
		SELECT link_id, owner_id, payload
		FROM analytics_records
		WHERE owner_id = $1
	`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return p.scanRecords(rows)
}

func (p *PostgresAnalyticsStore) scanRecords(rows pgx.Rows) ([]*analytics.Record, error) {
	var records []*analytics.Record

	for rows.Next() {
		var (
			linkID  string
			ownerID string
			payload []byte
		)

		if err := rows.Scan(&linkID, &ownerID, &payload); err != nil {
			return nil, err
		}

		record, err := decodeRecord(linkID, ownerID, payload)
		if err != nil {
			return nil, err
		}

		records = append(records, record)
	}

	return records, rows.Err()
}
