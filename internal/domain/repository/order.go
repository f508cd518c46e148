package repository

import (
	"context"

	"github.com/meridianshop/paygate/internal/domain/model"
)

// OrderRepository describes persistence operations on orders. The webhook
// reconciler only transitions orders; it never creates them.
type OrderRepository interface {
	GetByID(ctx context.Context, id int64) (*model.Order, error)
	// GetByCorrelation locates an order by embedded order id or by a
	// previously stored payment reference.
	GetByCorrelation(ctx context.Context, orderID int64, reference string) (*model.Order, error)
	// ConfirmPayment attempts the conditional pending->paid transition. The
	// update applies only while payment_status is still pending; a zero-row
	// result means another delivery won the race.
	ConfirmPayment(ctx context.Context, orderID int64, transactionID string) (*model.Order, model.GateOutcome, error)
	// ClosePayment transitions a non-paid order to failed/cancelled. A paid
	// order is never modified by a late negative event.
	ClosePayment(ctx context.Context, orderID int64, payment model.PaymentStatus, status model.OrderStatus) (bool, error)
}
