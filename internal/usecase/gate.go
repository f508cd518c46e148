package usecase

import (
	"context"

	"github.com/meridianshop/paygate/internal/domain/model"
	"github.com/meridianshop/paygate/internal/domain/repository"
)

// GateUseCase owns the idempotent order transition. The conditional update on
// the order row is the only synchronization point: no locks are taken, and at
// most one delivery ever wins the pending->paid race.
type GateUseCase struct {
	orders repository.OrderRepository
}

// NewGateUseCase constructs GateUseCase.
func NewGateUseCase(orders repository.OrderRepository) *GateUseCase {
	return &GateUseCase{orders: orders}
}

// Confirm resolves the correlation key and attempts the paid transition.
// Duplicate deliveries, including concurrent ones, resolve to
// GateAlreadyProcessed without side effects.
func (u *GateUseCase) Confirm(ctx context.Context, event *model.PaymentEvent) (*model.Order, model.GateOutcome, error) {
	order, err := u.orders.GetByCorrelation(ctx, event.OrderID, event.Reference)
	if err != nil {
		return nil, "", err
	}

	if order.PaymentStatus == model.PaymentStatusPaid && order.PaymentReference == event.TransactionID {
		return order, model.GateAlreadyProcessed, nil
	}

	return u.orders.ConfirmPayment(ctx, order.ID, event.TransactionID)
}

// Close transitions the order to failed/cancelled for a negative event. A
// late failure notification never overwrites a confirmed payment; the return
// value reports whether the order actually changed.
func (u *GateUseCase) Close(ctx context.Context, event *model.PaymentEvent) (*model.Order, bool, error) {
	order, err := u.orders.GetByCorrelation(ctx, event.OrderID, event.Reference)
	if err != nil {
		return nil, false, err
	}

	if order.PaymentStatus == model.PaymentStatusPaid {
		return order, false, nil
	}

	changed, err := u.orders.ClosePayment(ctx, order.ID, model.PaymentStatusFailed, model.OrderStatusCancelled)
	if err != nil {
		return nil, false, err
	}
	if changed {
		order.PaymentStatus = model.PaymentStatusFailed
		order.Status = model.OrderStatusCancelled
	}
	return order, changed, nil
}
