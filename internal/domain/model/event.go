package model

// EventKind classifies a normalized payment-provider notification.
type EventKind string

const (
	EventPaymentSucceeded EventKind = "payment_succeeded"
	EventPaymentFailed    EventKind = "payment_failed"
	EventPaymentCancelled EventKind = "payment_cancelled"
)

// PaymentEvent is the provider-independent form of a webhook notification.
// Either OrderID or Reference locates the affected order.
type PaymentEvent struct {
	Kind          EventKind
	Provider      string
	TransactionID string
	OrderID       int64
	Reference     string
	Amount        float64
}
