package model

import "time"

// PurchaseStreak tracks consecutive qualifying purchase days for a user.
type PurchaseStreak struct {
	UserID       int64
	CurrentDays  int
	LastPurchase time.Time
}

// StreakResult is the outcome of one streak update.
type StreakResult struct {
	Streak          int
	Qualifies       bool
	StreakCompleted bool
	AwardedPoints   float64
	Message         string
}
