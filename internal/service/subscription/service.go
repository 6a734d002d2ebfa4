// internal/service/subscription/service.go
package subscription

import (
	"context"
	"errors"
	"fmt"
	"time"

	"slate-service/internal/domain/subscription"
	xerrors "slate-service/internal/pkg/errors"

	"go.uber.org/zap"
)

type Store interface {
	GetByUserID(ctx context.Context, userID string) (*subscription.Subscription, error)
	Create(ctx context.Context, s *subscription.Subscription) error
	UpdateTier(ctx context.Context, userID string, tier subscription.Tier) (*subscription.Subscription, error)
}

// tierCatalog is the static pricing table. No billing provider is wired in,
// so upgrades switch the tier immediately.
var tierCatalog = []subscription.TierDetails{
	{
		ID:       subscription.TierFree,
		Name:     "Free",
		Price:    0,
		Currency: "USD",
		Interval: "monthly",
		Features: []string{
			"Basic profile",
			"Standard feed",
			"Email notifications",
		},
	},
	{
		ID:       subscription.TierPremium,
		Name:     "Premium",
		Price:    19.99,
		Currency: "USD",
		Interval: "monthly",
		Features: []string{
			"Everything in Free",
			"Priority support",
			"Advanced privacy controls",
			"No marketing emails",
		},
	},
	{
		ID:       subscription.TierDeveloper,
		Name:     "Developer",
		Price:    49.99,
		Currency: "USD",
		Interval: "monthly",
		Features: []string{
			"Everything in Premium",
			"API access",
			"Webhook integrations",
			"Extended session limits",
		},
	},
}

type SubscriptionService struct {
	store  Store
	logger *zap.Logger
}

func NewSubscriptionService(store Store, logger *zap.Logger) *SubscriptionService {
	return &SubscriptionService{store: store, logger: logger}
}

// ListTiers returns the static tier catalog.
func (s *SubscriptionService) ListTiers() []subscription.TierDetails {
	return tierCatalog
}

// GetCurrent returns the user's subscription, provisioning a free-tier row
// on first access.
func (s *SubscriptionService) GetCurrent(ctx context.Context, userID string) (*subscription.Subscription, error) {
	sub, err := s.store.GetByUserID(ctx, userID)
	if errors.Is(err, xerrors.ErrNotFound) {
		return s.provisionFree(ctx, userID)
	}
	return sub, err
}

// EnsureDefault seeds the free-tier subscription for a fresh account. Safe to
// call when a row already exists.
func (s *SubscriptionService) EnsureDefault(ctx context.Context, userID string) error {
	_, err := s.GetCurrent(ctx, userID)
	return err
}

// UpgradeTier switches the user onto the requested tier.
func (s *SubscriptionService) UpgradeTier(ctx context.Context, userID string, tier subscription.Tier) (*subscription.Subscription, error) {
	if !tier.Valid() {
		return nil, fmt.Errorf("unknown tier %q: %w", tier, xerrors.ErrInvalidInput)
	}

	// Make sure a row exists before updating it.
	current, err := s.GetCurrent(ctx, userID)
	if err != nil {
		return nil, err
	}
	if current.Tier == tier {
		return current, nil
	}

	updated, err := s.store.UpdateTier(ctx, userID, tier)
	if err != nil {
		return nil, err
	}

	s.logger.Info("subscription tier changed",
		zap.String("user_id", userID),
		zap.String("from", string(current.Tier)),
		zap.String("to", string(tier)),
	)
	return updated, nil
}

func (s *SubscriptionService) provisionFree(ctx context.Context, userID string) (*subscription.Subscription, error) {
	now := time.Now()
	sub := &subscription.Subscription{
		UserID:             userID,
		Tier:               subscription.TierFree,
		Status:             subscription.StatusActive,
		CurrentPeriodStart: now,
		// The free tier never expires; park the period end far out.
		CurrentPeriodEnd: now.AddDate(10, 0, 0),
	}

	if err := s.store.Create(ctx, sub); err != nil {
		return nil, err
	}

	s.logger.Info("free subscription provisioned", zap.String("user_id", userID))
	return sub, nil
}
