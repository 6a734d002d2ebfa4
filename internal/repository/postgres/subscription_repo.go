// internal/repository/postgres/subscription_repo.go
package postgres

import (
	"context"
	"errors"
	"fmt"

	"slate-service/internal/domain/subscription"
	xerrors "slate-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type SubscriptionRepository struct {
	db *pgxpool.Pool
}

func NewSubscriptionRepository(db *pgxpool.Pool) *SubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

func (r *SubscriptionRepository) GetByUserID(ctx context.Context, userID string) (*subscription.Subscription, error) {
	query := `
		SELECT id, user_id, tier, status, current_period_start, current_period_end,
		       cancel_at_period_end, created_at, updated_at
		FROM subscriptions
		WHERE user_id = $1
	`
	return r.scanSubscription(r.db.QueryRow(ctx, query, userID))
}

func (r *SubscriptionRepository) Create(ctx context.Context, s *subscription.Subscription) error {
	query := `
		INSERT INTO subscriptions (user_id, tier, status, current_period_start, current_period_end, cancel_at_period_end)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRow(
		ctx, query,
		s.UserID, s.Tier, s.Status, s.CurrentPeriodStart, s.CurrentPeriodEnd, s.CancelAtPeriodEnd,
	).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create subscription: %w", err)
	}

	return nil
}

func (r *SubscriptionRepository) UpdateTier(ctx context.Context, userID string, tier subscription.Tier) (*subscription.Subscription, error) {
	query := `
		UPDATE subscriptions
		SET tier = $1, status = 'active', updated_at = NOW()
		WHERE user_id = $2
		RETURNING id, user_id, tier, status, current_period_start, current_period_end,
		          cancel_at_period_end, created_at, updated_at
	`
	return r.scanSubscription(r.db.QueryRow(ctx, query, tier, userID))
}

func (r *SubscriptionRepository) scanSubscription(row pgx.Row) (*subscription.Subscription, error) {
	var s subscription.Subscription
	err := row.Scan(
		&s.ID, &s.UserID, &s.Tier, &s.Status, &s.CurrentPeriodStart, &s.CurrentPeriodEnd,
		&s.CancelAtPeriodEnd, &s.CreatedAt, &s.UpdatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan subscription: %w", err)
	}

	return &s, nil
}
