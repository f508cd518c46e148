package test

import (
	"context"
	"sync"

	domainErrors "github.com/meridianshop/paygate/internal/domain/errors"
	"github.com/meridianshop/paygate/internal/domain/model"
)

// OrderRepositoryStub provides controllable order persistence behaviour.
type OrderRepositoryStub struct {
	GetByIDFn          func(context.Context, int64) (*model.Order, error)
	GetByCorrelationFn func(context.Context, int64, string) (*model.Order, error)
	ConfirmPaymentFn   func(context.Context, int64, string) (*model.Order, model.GateOutcome, error)
	ClosePaymentFn     func(context.Context, int64, model.PaymentStatus, model.OrderStatus) (bool, error)
}

func (s OrderRepositoryStub) GetByID(ctx context.Context, id int64) (*model.Order, error) {
	if s.GetByIDFn != nil {
		return s.GetByIDFn(ctx, id)
	}
	return nil, domainErrors.ErrNotFound
}

func (s OrderRepositoryStub) GetByCorrelation(ctx context.Context, orderID int64, reference string) (*model.Order, error) {
	if s.GetByCorrelationFn != nil {
		return s.GetByCorrelationFn(ctx, orderID, reference)
	}
	return nil, domainErrors.ErrNotFound
}

func (s OrderRepositoryStub) ConfirmPayment(ctx context.Context, orderID int64, transactionID string) (*model.Order, model.GateOutcome, error) {
	if s.ConfirmPaymentFn != nil {
		return s.ConfirmPaymentFn(ctx, orderID, transactionID)
	}
	return nil, "", domainErrors.ErrNotFound
}

func (s OrderRepositoryStub) ClosePayment(ctx context.Context, orderID int64, payment model.PaymentStatus, status model.OrderStatus) (bool, error) {
	if s.ClosePaymentFn != nil {
		return s.ClosePaymentFn(ctx, orderID, payment, status)
	}
	return false, nil
}

// CustomerRepositoryStub simulates customer profile persistence.
type CustomerRepositoryStub struct {
	GetByIDFn           func(context.Context, int64) (*model.CustomerProfile, error)
	GetByEmailFn        func(context.Context, string) (*model.CustomerProfile, error)
	CreateFn            func(context.Context, model.CustomerProfile) (*model.CustomerProfile, error)
	UpdateExternalIDsFn func(context.Context, int64, string, string) error
}

func (s CustomerRepositoryStub) GetByID(ctx context.Context, id int64) (*model.CustomerProfile, error) {
	if s.GetByIDFn != nil {
		return s.GetByIDFn(ctx, id)
	}
	return &model.CustomerProfile{ID: id}, nil
}

func (s CustomerRepositoryStub) GetByEmail(ctx context.Context, email string) (*model.CustomerProfile, error) {
	if s.GetByEmailFn != nil {
		return s.GetByEmailFn(ctx, email)
	}
	return nil, domainErrors.ErrNotFound
}

func (s CustomerRepositoryStub) Create(ctx context.Context, profile model.CustomerProfile) (*model.CustomerProfile, error) {
	if s.CreateFn != nil {
		return s.CreateFn(ctx, profile)
	}
	created := profile
	created.ID = 1
	return &created, nil
}

func (s CustomerRepositoryStub) UpdateExternalIDs(ctx context.Context, id int64, crmContactID, ledgerCustomerID string) error {
	if s.UpdateExternalIDsFn != nil {
		return s.UpdateExternalIDsFn(ctx, id, crmContactID, ledgerCustomerID)
	}
	return nil
}

// RewardRepositoryStub simulates the atomic reward computation.
type RewardRepositoryStub struct {
	ProcessFn  func(context.Context, int64, int64, float64) (*model.RewardResult, error)
	HasClaimFn func(context.Context, int64, model.RewardType) (bool, error)

	mu    sync.Mutex
	Calls int
}

func (s *RewardRepositoryStub) ProcessPaymentAtomically(ctx context.Context, orderID, userID int64, orderTotal float64) (*model.RewardResult, error) {
	s.mu.Lock()
	s.Calls++
	s.mu.Unlock()
	if s.ProcessFn != nil {
		return s.ProcessFn(ctx, orderID, userID, orderTotal)
	}
	return &model.RewardResult{Success: true, PointsAwarded: 100}, nil
}

func (s *RewardRepositoryStub) HasClaim(ctx context.Context, userID int64, rewardType model.RewardType) (bool, error) {
	if s.HasClaimFn != nil {
		return s.HasClaimFn(ctx, userID, rewardType)
	}
	return false, nil
}

// PromoRepositoryStub counts promo usage increments.
type PromoRepositoryStub struct {
	IncrementFn func(context.Context, int64) error

	mu         sync.Mutex
	Increments []int64
}

func (s *PromoRepositoryStub) IncrementUsage(ctx context.Context, promoID int64) error {
	s.mu.Lock()
	s.Increments = append(s.Increments, promoID)
	s.mu.Unlock()
	if s.IncrementFn != nil {
		return s.IncrementFn(ctx, promoID)
	}
	return nil
}

// StreakRepositoryStub simulates streak updates.
type StreakRepositoryStub struct {
	UpdateFn func(context.Context, int64, float64) (*model.StreakResult, error)

	mu    sync.Mutex
	Calls int
}

func (s *StreakRepositoryStub) UpdateStreak(ctx context.Context, userID int64, orderTotal float64) (*model.StreakResult, error) {
	s.mu.Lock()
	s.Calls++
	s.mu.Unlock()
	if s.UpdateFn != nil {
		return s.UpdateFn(ctx, userID, orderTotal)
	}
	return &model.StreakResult{Streak: 1, Qualifies: true}, nil
}

// NotificationRepositoryStub records failure-ledger writes.
type NotificationRepositoryStub struct {
	RecordFailureFn     func(context.Context, model.FailedNotification) (*model.FailedNotification, error)
	ClaimPendingRetryFn func(context.Context, int) ([]model.FailedNotification, error)
	MarkDeliveredFn     func(context.Context, int64) error
	MarkRetryFailedFn   func(context.Context, int64, string, int) error
	ListPendingFn       func(context.Context, int) ([]model.FailedNotification, error)

	mu       sync.Mutex
	Failures []model.FailedNotification
}

func (s *NotificationRepositoryStub) RecordFailure(ctx context.Context, failure model.FailedNotification) (*model.FailedNotification, error) {
	s.mu.Lock()
	s.Failures = append(s.Failures, failure)
	s.mu.Unlock()
	if s.RecordFailureFn != nil {
		return s.RecordFailureFn(ctx, failure)
	}
	stored := failure
	stored.ID = int64(len(s.Failures))
	stored.Status = model.FailedNotificationPendingRetry
	return &stored, nil
}

func (s *NotificationRepositoryStub) ClaimPendingRetry(ctx context.Context, limit int) ([]model.FailedNotification, error) {
	if s.ClaimPendingRetryFn != nil {
		return s.ClaimPendingRetryFn(ctx, limit)
	}
	return nil, nil
}

func (s *NotificationRepositoryStub) MarkDelivered(ctx context.Context, id int64) error {
	if s.MarkDeliveredFn != nil {
		return s.MarkDeliveredFn(ctx, id)
	}
	return nil
}

func (s *NotificationRepositoryStub) MarkRetryFailed(ctx context.Context, id int64, errorMessage string, maxAttempts int) error {
	if s.MarkRetryFailedFn != nil {
		return s.MarkRetryFailedFn(ctx, id, errorMessage, maxAttempts)
	}
	return nil
}

func (s *NotificationRepositoryStub) ListPending(ctx context.Context, limit int) ([]model.FailedNotification, error) {
	if s.ListPendingFn != nil {
		return s.ListPendingFn(ctx, limit)
	}
	return nil, nil
}

// AlertRepositoryStub records raised operator alerts.
type AlertRepositoryStub struct {
	CreateFn     func(context.Context, model.OperatorAlert) error
	ListRecentFn func(context.Context, int) ([]model.OperatorAlert, error)

	mu     sync.Mutex
	Alerts []model.OperatorAlert
}

func (s *AlertRepositoryStub) Create(ctx context.Context, alert model.OperatorAlert) error {
	s.mu.Lock()
	s.Alerts = append(s.Alerts, alert)
	s.mu.Unlock()
	if s.CreateFn != nil {
		return s.CreateFn(ctx, alert)
	}
	return nil
}

func (s *AlertRepositoryStub) ListRecent(ctx context.Context, limit int) ([]model.OperatorAlert, error) {
	if s.ListRecentFn != nil {
		return s.ListRecentFn(ctx, limit)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.OperatorAlert(nil), s.Alerts...), nil
}
