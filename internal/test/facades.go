package test

import (
	"context"
	"sync"

	"github.com/meridianshop/paygate/internal/domain/model"
)

// ReconcilerFacadeStub implements handlers.ReconcilerFacade for HTTP tests.
type ReconcilerFacadeStub struct {
	SignatureHeaderFn      func(string) (string, error)
	HandleWebhookFn        func(context.Context, string, []byte, string) (model.GateOutcome, error)
	RecentAlertsFn         func(context.Context, int) ([]model.OperatorAlert, error)
	PendingNotificationsFn func(context.Context, int) ([]model.FailedNotification, error)
	HealthFn               func(context.Context) error

	mu           sync.Mutex
	HandledBody  []byte
	HandledCalls int
}

func (s *ReconcilerFacadeStub) SignatureHeader(provider string) (string, error) {
	if s.SignatureHeaderFn != nil {
		return s.SignatureHeaderFn(provider)
	}
	return "X-Signature", nil
}

func (s *ReconcilerFacadeStub) HandleWebhook(ctx context.Context, provider string, body []byte, signature string) (model.GateOutcome, error) {
	s.mu.Lock()
	s.HandledCalls++
	s.HandledBody = append([]byte(nil), body...)
	s.mu.Unlock()
	if s.HandleWebhookFn != nil {
		return s.HandleWebhookFn(ctx, provider, body, signature)
	}
	return model.GateWon, nil
}

func (s *ReconcilerFacadeStub) RecentAlerts(ctx context.Context, limit int) ([]model.OperatorAlert, error) {
	if s.RecentAlertsFn != nil {
		return s.RecentAlertsFn(ctx, limit)
	}
	return nil, nil
}

func (s *ReconcilerFacadeStub) PendingNotifications(ctx context.Context, limit int) ([]model.FailedNotification, error) {
	if s.PendingNotificationsFn != nil {
		return s.PendingNotificationsFn(ctx, limit)
	}
	return nil, nil
}

func (s *ReconcilerFacadeStub) Health(ctx context.Context) error {
	if s.HealthFn != nil {
		return s.HealthFn(ctx)
	}
	return nil
}

// RetryFacadeStub implements worker.RetryFacade for retry-worker tests.
type RetryFacadeStub struct {
	ClaimFn func(context.Context, int) ([]model.FailedNotification, error)
	RetryFn func(context.Context, model.FailedNotification) error

	mu          sync.Mutex
	Delivered   []int64
	Failed      []int64
	RetriedIDs  []int64
	ClaimCalled int
}

func (s *RetryFacadeStub) ClaimFailedNotifications(ctx context.Context, limit int) ([]model.FailedNotification, error) {
	s.mu.Lock()
	s.ClaimCalled++
	s.mu.Unlock()
	if s.ClaimFn != nil {
		return s.ClaimFn(ctx, limit)
	}
	return nil, nil
}

func (s *RetryFacadeStub) RetryNotification(ctx context.Context, record model.FailedNotification) error {
	s.mu.Lock()
	s.RetriedIDs = append(s.RetriedIDs, record.ID)
	s.mu.Unlock()
	if s.RetryFn != nil {
		return s.RetryFn(ctx, record)
	}
	return nil
}

func (s *RetryFacadeStub) MarkNotificationDelivered(ctx context.Context, id int64) error {
	s.mu.Lock()
	s.Delivered = append(s.Delivered, id)
	s.mu.Unlock()
	return nil
}

func (s *RetryFacadeStub) MarkNotificationRetryFailed(ctx context.Context, id int64, errorMessage string, maxAttempts int) error {
	s.mu.Lock()
	s.Failed = append(s.Failed, id)
	s.mu.Unlock()
	return nil
}

// Snapshot methods below read stub state without exposing the mutex.

func (s *RetryFacadeStub) DeliveredIDs() []int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]int64(nil), s.Delivered...)
}

func (s *RetryFacadeStub) FailedIDs() []int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]int64(nil), s.Failed...)
}
