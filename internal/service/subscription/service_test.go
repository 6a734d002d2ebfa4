// internal/service/subscription/service_test.go
package subscription

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"slate-service/internal/domain/subscription"
	xerrors "slate-service/internal/pkg/errors"

	"go.uber.org/zap"
)

type memSubscriptionStore struct {
	mu   sync.Mutex
	rows map[string]*subscription.Subscription
}

func newMemSubscriptionStore() *memSubscriptionStore {
	return &memSubscriptionStore{rows: map[string]*subscription.Subscription{}}
}

func (m *memSubscriptionStore) GetByUserID(ctx context.Context, userID string) (*subscription.Subscription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.rows[userID]
	if !ok {
		return nil, xerrors.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (m *memSubscriptionStore) Create(ctx context.Context, s *subscription.Subscription) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s.ID = "sub-" + s.UserID
	cp := *s
	m.rows[s.UserID] = &cp
	return nil
}

func (m *memSubscriptionStore) UpdateTier(ctx context.Context, userID string, tier subscription.Tier) (*subscription.Subscription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.rows[userID]
	if !ok {
		return nil, xerrors.ErrNotFound
	}
	s.Tier = tier
	s.Status = subscription.StatusActive
	cp := *s
	return &cp, nil
}

func newTestSubscription(t *testing.T) (*SubscriptionService, *memSubscriptionStore) {
	t.Helper()
	store := newMemSubscriptionStore()
	return NewSubscriptionService(store, zap.NewNop()), store
}

func TestListTiers_Catalog(t *testing.T) {
	svc, _ := newTestSubscription(t)

	tiers := svc.ListTiers()
	if len(tiers) != 3 {
		t.Fatalf("tiers = %d, want 3", len(tiers))
	}

	prices := map[subscription.Tier]float64{}
	for _, tier := range tiers {
		prices[tier.ID] = tier.Price
		if tier.Currency != "USD" {
			t.Errorf("%s currency = %q, want USD", tier.ID, tier.Currency)
		}
		if tier.Interval != "monthly" {
			t.Errorf("%s interval = %q, want monthly", tier.ID, tier.Interval)
		}
	}

	if prices[subscription.TierFree] != 0 {
		t.Errorf("free price = %v, want 0", prices[subscription.TierFree])
	}
	if prices[subscription.TierPremium] != 19.99 {
		t.Errorf("premium price = %v, want 19.99", prices[subscription.TierPremium])
	}
	if prices[subscription.TierDeveloper] != 49.99 {
		t.Errorf("developer price = %v, want 49.99", prices[subscription.TierDeveloper])
	}
}

func TestGetCurrent_ProvisionsFreeOnFirstAccess(t *testing.T) {
	svc, store := newTestSubscription(t)

	sub, err := svc.GetCurrent(context.Background(), "u1")
	if err != nil {
		t.Fatalf("GetCurrent: %v", err)
	}

	if sub.Tier != subscription.TierFree {
		t.Errorf("tier = %q, want free", sub.Tier)
	}
	if sub.Status != subscription.StatusActive {
		t.Errorf("status = %q, want active", sub.Status)
	}
	if sub.CurrentPeriodEnd.Before(time.Now().AddDate(9, 0, 0)) {
		t.Errorf("free period end %v should be far in the future", sub.CurrentPeriodEnd)
	}

	if _, err := store.GetByUserID(context.Background(), "u1"); err != nil {
		t.Errorf("row not persisted: %v", err)
	}

	// Second read returns the same row, not a new one.
	again, err := svc.GetCurrent(context.Background(), "u1")
	if err != nil {
		t.Fatalf("GetCurrent: %v", err)
	}
	if again.ID != sub.ID {
		t.Errorf("id = %q, want %q", again.ID, sub.ID)
	}
}

func TestUpgradeTier(t *testing.T) {
	svc, _ := newTestSubscription(t)

	sub, err := svc.UpgradeTier(context.Background(), "u1", subscription.TierPremium)
	if err != nil {
		t.Fatalf("UpgradeTier: %v", err)
	}
	if sub.Tier != subscription.TierPremium {
		t.Errorf("tier = %q, want premium", sub.Tier)
	}

	// Same-tier upgrade is a no-op.
	same, err := svc.UpgradeTier(context.Background(), "u1", subscription.TierPremium)
	if err != nil {
		t.Fatalf("UpgradeTier: %v", err)
	}
	if same.Tier != subscription.TierPremium {
		t.Errorf("tier = %q, want premium", same.Tier)
	}
}

func TestUpgradeTier_UnknownTier(t *testing.T) {
	svc, _ := newTestSubscription(t)

	_, err := svc.UpgradeTier(context.Background(), "u1", subscription.Tier("platinum"))
	if !errors.Is(err, xerrors.ErrInvalidInput) {
		t.Errorf("err = %v, want ErrInvalidInput", err)
	}
}
