package model

import "time"

// PaymentStatus describes payment lifecycle of an order.
type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPaid    PaymentStatus = "paid"
	PaymentStatusFailed  PaymentStatus = "failed"
)

// OrderStatus describes fulfillment lifecycle of an order.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// Order describes a purchase order created by checkout and reconciled by webhooks.
type Order struct {
	ID               int64
	Number           string
	UserID           *int64
	PaymentStatus    PaymentStatus
	Status           OrderStatus
	PaymentReference string
	Total            float64
	PromoCodeID      *int64
	CustomerEmail    string
	CustomerPhone    string
	CustomerName     string
	CreatedAt        time.Time
	PaidAt           *time.Time
}

// GateOutcome reports the result of the conditional paid transition.
type GateOutcome string

const (
	// GateWon means this delivery performed the pending->paid transition and
	// owns all downstream side effects.
	GateWon GateOutcome = "won"
	// GateAlreadyProcessed means another delivery already confirmed the order;
	// the caller must acknowledge without running side effects.
	GateAlreadyProcessed GateOutcome = "already_processed"
)
