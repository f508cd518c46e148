package model

import "time"

// RewardType identifies a class of loyalty reward.
type RewardType string

const (
	RewardTypeFirstOrder RewardType = "first_order_bonus"
	RewardTypePurchase   RewardType = "purchase_points"
	RewardTypeReferral   RewardType = "referral_completion"
	RewardTypeStreak     RewardType = "streak_bonus"
)

// RewardClaim records a one-time reward granted to a user.
type RewardClaim struct {
	ID        int64
	UserID    int64
	Type      RewardType
	ClaimedAt time.Time
}

// RewardResult is the outcome of the atomic reward computation for one paid order.
type RewardResult struct {
	Success                bool
	PointsAwarded          float64
	FirstOrderBonusClaimed bool
	ReferralProcessed      bool
	ErrorMessage           string
}
