package model

import "time"

// AlertType classifies operator alerts by the failed downstream step.
type AlertType string

const (
	AlertRewardProcessingFailed AlertType = "reward_processing_failed"
	AlertPromoIncrementFailed   AlertType = "promo_increment_failed"
	AlertNotificationFailed     AlertType = "notification_failed"
	AlertExternalSyncFailed     AlertType = "external_sync_failed"
)

// OperatorAlert is an internal notice that a best-effort step needs human
// attention. It never affects order correctness.
type OperatorAlert struct {
	ID        string
	Type      AlertType
	Title     string
	Message   string
	Metadata  map[string]string
	CreatedAt time.Time
}
