package test

import (
	"context"
	"sync"

	"github.com/meridianshop/paygate/internal/adapter/notify"
	"github.com/meridianshop/paygate/internal/domain/model"
)

// CRMClientStub simulates the external CRM/ledger sync service.
type CRMClientStub struct {
	SyncNewCustomerFn     func(context.Context, model.CustomerProfile) (*model.CustomerSyncResult, error)
	SyncOrderCompletionFn func(context.Context, model.Order) (*model.OrderSyncResult, error)

	mu             sync.Mutex
	CustomerSyncs  []model.CustomerProfile
	CompletedSyncs []model.Order
}

func (s *CRMClientStub) SyncNewCustomer(ctx context.Context, profile model.CustomerProfile) (*model.CustomerSyncResult, error) {
	s.mu.Lock()
	s.CustomerSyncs = append(s.CustomerSyncs, profile)
	s.mu.Unlock()
	if s.SyncNewCustomerFn != nil {
		return s.SyncNewCustomerFn(ctx, profile)
	}
	return &model.CustomerSyncResult{CRMContactID: "crm-1", LedgerCustomerID: "ledger-1"}, nil
}

func (s *CRMClientStub) SyncOrderCompletion(ctx context.Context, order model.Order) (*model.OrderSyncResult, error) {
	s.mu.Lock()
	s.CompletedSyncs = append(s.CompletedSyncs, order)
	s.mu.Unlock()
	if s.SyncOrderCompletionFn != nil {
		return s.SyncOrderCompletionFn(ctx, order)
	}
	return &model.OrderSyncResult{CRMDealID: "deal-1"}, nil
}

// NotifyClientStub simulates the notification sender service.
type NotifyClientStub struct {
	PaymentConfirmationFn func(context.Context, notify.PaymentConfirmation) (*model.SendResult, error)
	OrderNotificationFn   func(context.Context, notify.OrderNotification) (*model.SendResult, error)
	SMSConfirmationFn     func(context.Context, notify.SMSConfirmation) (*model.SendResult, error)

	mu                   sync.Mutex
	PaymentConfirmations []notify.PaymentConfirmation
	OrderNotifications   []notify.OrderNotification
	SMSConfirmations     []notify.SMSConfirmation
}

func (s *NotifyClientStub) SendPaymentConfirmation(ctx context.Context, req notify.PaymentConfirmation) (*model.SendResult, error) {
	s.mu.Lock()
	s.PaymentConfirmations = append(s.PaymentConfirmations, req)
	s.mu.Unlock()
	if s.PaymentConfirmationFn != nil {
		return s.PaymentConfirmationFn(ctx, req)
	}
	return &model.SendResult{Success: true}, nil
}

func (s *NotifyClientStub) SendOrderNotification(ctx context.Context, req notify.OrderNotification) (*model.SendResult, error) {
	s.mu.Lock()
	s.OrderNotifications = append(s.OrderNotifications, req)
	s.mu.Unlock()
	if s.OrderNotificationFn != nil {
		return s.OrderNotificationFn(ctx, req)
	}
	return &model.SendResult{Success: true}, nil
}

func (s *NotifyClientStub) SendConfirmationSMS(ctx context.Context, req notify.SMSConfirmation) (*model.SendResult, error) {
	s.mu.Lock()
	s.SMSConfirmations = append(s.SMSConfirmations, req)
	s.mu.Unlock()
	if s.SMSConfirmationFn != nil {
		return s.SMSConfirmationFn(ctx, req)
	}
	return &model.SendResult{Success: true}, nil
}
