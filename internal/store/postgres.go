package store

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/serroba/linkdeck/internal/shortener"
)

// PostgresLinkStore is a PostgreSQL implementation of shortener.Repository.
type PostgresLinkStore struct {
	pool *pgxpool.Pool
}

// NewPostgresLinkStore creates a new PostgreSQL-backed link store.
func NewPostgresLinkStore(pool *pgxpool.Pool) *PostgresLinkStore {
	return &PostgresLinkStore{pool: pool}
}

const linkColumns = `
	id, owner_id, code, custom_alias, target_url, url_hash, password_hash,
	expires_at, active, click_count, unique_visitors, last_clicked_at, created_at
`

func (p *PostgresLinkStore) Save(ctx context.Context, link *shortener.ShortLink) error {
	query := `
		INSERT INTO short_links (` + linkColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	_, err := p.pool.Exec(ctx, query,
		link.ID,
		link.OwnerID,
		string(link.Code),
		nullableString(link.CustomAlias),
		link.TargetURL,
		nullableString(string(link.URLHash)),
		nullableString(link.PasswordHash),
		link.ExpiresAt,
		link.Active,
		link.ClickCount,
		link.UniqueVisitors,
		link.LastClickedAt,
		link.CreatedAt,
	)
	if isUniqueViolation(err) {
		return shortener.ErrCodeTaken
	}

	return err
}

func (p *PostgresLinkStore) GetByCode(ctx context.Context, code shortener.Code) (*shortener.ShortLink, error) {
	query := `
		SELECT ` + linkColumns + `
		FROM short_links
		WHERE code = $1 OR custom_alias = $1
	`

	return p.scanOne(p.pool.QueryRow(ctx, query, string(code)))
}

func (p *PostgresLinkStore) GetByHash(ctx context.Context, hash shortener.URLHash) (*shortener.ShortLink, error) {
	query := `
		SELECT ` + linkColumns + `
		FROM short_links
		WHERE url_hash = $1
		LIMIT 1
	`

	return p.scanOne(p.pool.QueryRow(ctx, query, string(hash)))
}

func (p *PostgresLinkStore) Rename(ctx context.Context, id string, newCode shortener.Code) error {
	tag, err := p.pool.Exec(ctx,
		`UPDATE short_links SET code = $2 WHERE id = $1`,
		id, string(newCode),
	)
	if isUniqueViolation(err) {
		return shortener.ErrCodeTaken
	}

	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return shortener.ErrNotFound
	}

	return nil
}

func (p *PostgresLinkStore) Delete(ctx context.Context, id string) error {
	tag, err := p.pool.Exec(ctx, `DELETE FROM short_links WHERE id = $1`, id)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return shortener.ErrNotFound
	}

	return nil
}

func (p *PostgresLinkStore) ListByOwner(ctx context.Context, ownerID string) ([]*shortener.ShortLink, error) {
	query := `
		SELECT ` + linkColumns + `
		FROM short_links
		WHERE owner_id = $1
		ORDER BY created_at DESC
	`

	rows, err := p.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return p.scanAll(rows)
}

func (p *PostgresLinkStore) ListByIDs(ctx context.Context, ids []string) ([]*shortener.ShortLink, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query := `
		SELECT ` + linkColumns + `
		FROM short_links
		WHERE id = ANY($1)
	`

	rows, err := p.pool.Query(ctx, query, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return p.scanAll(rows)
}

func (p *PostgresLinkStore) RecordClick(ctx context.Context, id string, uniqueVisitors int, at time.Time) error {
	tag, err := p.pool.Exec(ctx, `
		UPDATE short_links
		SET click_count = click_count + 1,
		    unique_visitors = $2,
		    last_clicked_at = $3
		WHERE id = $1
	`, id, uniqueVisitors, at)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return shortener.ErrNotFound
	}

	return nil
}

func (p *PostgresLinkStore) scanOne(row pgx.Row) (*shortener.ShortLink, error) {
	var (
		link         shortener.ShortLink
		customAlias  *string
		urlHash      *string
		passwordHash *string
	)

	err := row.Scan(
		&link.ID,
		&link.OwnerID,
		&link.Code,
		&customAlias,
		&link.TargetURL,
		&urlHash,
		&passwordHash,
		&link.ExpiresAt,
		&link.Active,
		&link.ClickCount,
		&link.UniqueVisitors,
		&link.LastClickedAt,
		&link.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shortener.ErrNotFound
		}

		return nil, err
	}

	if customAlias != nil {
		link.CustomAlias = *customAlias
	}

	if urlHash != nil {
		link.URLHash = shortener.URLHash(*urlHash)
	}

	if passwordHash != nil {
		link.PasswordHash = *passwordHash
	}

	return &link, nil
}

func (p *PostgresLinkStore) scanAll(rows pgx.Rows) ([]*shortener.ShortLink, error) {
	var links []*shortener.ShortLink

	for rows.Next() {
		link, err := p.scanOne(rows)
		if err != nil {
			return nil, err
		}

		links = append(links, link)
	}

	return links, rows.Err()
}

func nullableString(s string) *string {
	if s == "" {
		return nil
	}

	return &s
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError

	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}
