package repository

import (
	"context"

	"github.com/meridianshop/paygate/internal/domain/model"
)

// RewardRepository exposes the atomic reward computation. The whole grant
// (purchase points, one-time first-order bonus, referral completion) commits
// or rolls back as a single unit.
type RewardRepository interface {
	ProcessPaymentAtomically(ctx context.Context, orderID, userID int64, orderTotal float64) (*model.RewardResult, error)
	HasClaim(ctx context.Context, userID int64, rewardType model.RewardType) (bool, error)
}

// PromoRepository mutates promo-code usage counters.
type PromoRepository interface {
	// IncrementUsage bumps the usage counter exactly once for the calling
	// order. Invoked only after the reward computation succeeded.
	IncrementUsage(ctx context.Context, promoID int64) error
}

// StreakRepository maintains rolling purchase streaks.
type StreakRepository interface {
	UpdateStreak(ctx context.Context, userID int64, orderTotal float64) (*model.StreakResult, error)
}
