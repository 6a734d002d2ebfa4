// internal/repository/postgres/feed_repo.go
package postgres

import (
	"context"
	"fmt"

	"slate-service/internal/domain/feed"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"
)

type FeedRepository struct {
	db *pgxpool.Pool
}

func NewFeedRepository(db *pgxpool.Pool) *FeedRepository {
	return &FeedRepository{db: db}
}

// GetFeedForUser returns the user's feed page plus the total count. Rows with
// a NULL user_id are global announcements included for everyone.
func (r *FeedRepository) GetFeedForUser(ctx context.Context, userID string, limit, offset int) ([]feed.Item, int64, error) {
	query := `
		SELECT id, user_id, type, title, content, media_url, tags, created_at, updated_at
		FROM feed_items
		WHERE user_id = $1 OR user_id IS NULL
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.Query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list feed items: %w", err)
	}
	defer rows.Close()

	items := []feed.Item{}
	for rows.Next() {
		var item feed.Item
		var tags []string

		err := rows.Scan(
			&item.ID, &item.UserID, &item.Type, &item.Title, &item.Content,
			&item.MediaURL, pq.Array(&tags), &item.CreatedAt, &item.UpdatedAt,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan feed item: %w", err)
		}

		item.Tags = tags
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	countQuery := `SELECT COUNT(*) FROM feed_items WHERE user_id = $1 OR user_id IS NULL`

	var total int64
	if err := r.db.QueryRow(ctx, countQuery, userID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count feed items: %w", err)
	}

	return items, total, nil
}

func (r *FeedRepository) Create(ctx context.Context, item *feed.Item) error {
	query := `
		INSERT INTO feed_items (user_id, type, title, content, media_url, tags)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRow(
		ctx, query,
		item.UserID, item.Type, item.Title, item.Content, item.MediaURL, pq.Array(item.Tags),
	).Scan(&item.ID, &item.CreatedAt, &item.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create feed item: %w", err)
	}

	return nil
}
