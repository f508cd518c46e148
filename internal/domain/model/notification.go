package model

import "time"

// NotificationType identifies a delivery channel and audience.
type NotificationType string

const (
	NotificationPaymentEmail NotificationType = "payment_confirmation_email"
	NotificationOrderEmail   NotificationType = "order_notification_email"
	NotificationPaymentSMS   NotificationType = "payment_confirmation_sms"
)

// FailedNotificationStatus describes the retry lifecycle of a failed send.
type FailedNotificationStatus string

const (
	FailedNotificationPendingRetry FailedNotificationStatus = "pending_retry"
	FailedNotificationRetrying     FailedNotificationStatus = "retrying"
	FailedNotificationDelivered    FailedNotificationStatus = "delivered"
	FailedNotificationExhausted    FailedNotificationStatus = "exhausted"
)

// FailedNotification is a durable record of a notification that could not be
// sent during webhook processing. A background job retries it later.
type FailedNotification struct {
	ID           int64
	Type         NotificationType
	OrderID      int64
	Recipient    string
	ErrorMessage string
	Status       FailedNotificationStatus
	Attempts     int
	Metadata     map[string]string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// SendResult is the structured outcome reported by the notification service.
type SendResult struct {
	Success bool
	Error   string
}
