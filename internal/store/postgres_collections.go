package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/serroba/linkdeck/internal/collections"
)

// PostgresCollectionStore is a PostgreSQL implementation of collections.Repository.
type PostgresCollectionStore struct {
	pool *pgxpool.Pool
}

// NewPostgresCollectionStore creates a new PostgreSQL-backed collection store.
func NewPostgresCollectionStore(pool *pgxpool.Pool) *PostgresCollectionStore {
	return &PostgresCollectionStore{pool: pool}
}

func (p *PostgresCollectionStore) Save(ctx context.Context, collection *collections.Collection) error {
	_, err := p.pool.Exec(ctx, `
		INSERT INTO collections (id, owner_id, name, description, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, description = EXCLUDED.description
	`, collection.ID, collection.OwnerID, collection.Name, collection.Description, collection.CreatedAt)

	return err
}

func (p *PostgresCollectionStore) Get(ctx context.Context, id string) (*collections.Collection, error) {
	var collection collections.Collection

	err := p.pool.QueryRow(ctx, `
		SELECT id, owner_id, name, description, created_at
		FROM collections
		WHERE id = $1
	`, id).Scan(
		&collection.ID,
		&collection.OwnerID,
		&collection.Name,
		&collection.Description,
		&collection.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, collections.ErrNotFound
		}

		return nil, err
	}

	linkIDs, err := p.linkIDs(ctx, id)
	if err != nil {
		return nil, err
	}

	collection.LinkIDs = linkIDs

	return &collection, nil
}

func (p *PostgresCollectionStore) Delete(ctx context.Context, id string) error {
	tag, err := p.pool.Exec(ctx, `DELETE FROM collections WHERE id = $1`, id)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return collections.ErrNotFound
	}

	return nil
}

func (p *PostgresCollectionStore) ListByOwner(ctx context.Context, ownerID string) ([]*collections.Collection, error) {
	rows, err := p.pool.Query(ctx, `
		SELECT id, owner_id, name, description, created_at
		FROM collections
		WHERE owner_id = $1
		ORDER BY created_at DESC
	`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var owned []*collections.Collection

	for rows.Next() {
		var collection collections.Collection

		err := rows.Scan(
			&collection.ID,
			&collection.OwnerID,
			&collection.Name,
			&collection.Description,
			&collection.CreatedAt,
		)
		if err != nil {
			return nil, err
		}

		owned = append(owned, &collection)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, collection := range owned {
		linkIDs, err := p.linkIDs(ctx, collection.ID)
		if err != nil {
			return nil, err
		}

		collection.LinkIDs = linkIDs
	}

	return owned, nil
}

func (p *PostgresCollectionStore) AddLink(ctx context.Context, id, linkID string) error {
	_, err := p.pool.Exec(ctx, `
		INSERT INTO collection_links (collection_id, link_id)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING
	`, id, linkID)

	return err
}

func (p *PostgresCollectionStore) RemoveLink(ctx context.Context, id, linkID string) error {
	_, err := p.pool.Exec(ctx, `
		DELETE FROM collection_links
		WHERE collection_id = $1 AND link_id = $2
	`, id, linkID)

	return err
}

func (p *PostgresCollectionStore) linkIDs(ctx context.Context, id string) ([]string, error) {
	rows, err := p.pool.Query(ctx, `
		SELECT link_id
		FROM collection_links
		WHERE collection_id = $1
		ORDER BY added_at
	`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var linkIDs []string

	for rows.Next() {
		var linkID string
		if err := rows.Scan(&linkID); err != nil {
			return nil, err
		}

		linkIDs = append(linkIDs, linkID)
	}

	return linkIDs, rows.Err()
}
