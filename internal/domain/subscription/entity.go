// internal/domain/subscription/entity.go
package subscription

import "time"

type Tier string

const (
	TierFree      Tier = "free"
	TierPremium   Tier = "premium"
	TierDeveloper Tier = "developer"
)

func (t Tier) Valid() bool {
	switch t {
	case TierFree, TierPremium, TierDeveloper:
		return true
	}
	return false
}

type Status string

const (
	StatusActive    Status = "active"
	StatusCancelled Status = "cancelled"
	StatusPastDue   Status = "past_due"
)

type Subscription struct {
	ID                 string    `json:"id" db:"id"`
	UserID             string    `json:"user_id" db:"user_id"`
	Tier               Tier      `json:"tier" db:"tier"`
	Status             Status    `json:"status" db:"status"`
	CurrentPeriodStart time.Time `json:"current_period_start" db:"current_period_start"`
	CurrentPeriodEnd   time.Time `json:"current_period_end" db:"current_period_end"`
	CancelAtPeriodEnd  bool      `json:"cancel_at_period_end" db:"cancel_at_period_end"`
	CreatedAt          time.Time `json:"created_at" db:"created_at"`
	UpdatedAt          time.Time `json:"updated_at" db:"updated_at"`
}

// TierDetails describes one entry of the static tier catalog.
type TierDetails struct {
	ID       Tier     `json:"id"`
	Name     string   `json:"name"`
	Price    float64  `json:"price"`
	Currency string   `json:"currency"`
	Interval string   `json:"interval"`
	Features []string `json:"features"`
}

type UpgradeRequest struct {
	Tier Tier `json:"tier" binding:"required,oneof=free premium developer"`
}
