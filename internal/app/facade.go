package app

import (
	"context"
	"errors"
	"strconv"

	"github.com/meridianshop/paygate/internal/adapter/notify"
	"github.com/meridianshop/paygate/internal/domain/model"
	"github.com/meridianshop/paygate/internal/domain/repository"
	"github.com/meridianshop/paygate/internal/usecase"
	"github.com/meridianshop/paygate/internal/webhook"
)

// HealthChecker reports persistence availability.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// ReconcilerFacade aggregates the application surface consumed by HTTP
// handlers and the retry worker.
type ReconcilerFacade struct {
	registry      *webhook.Registry
	reconciler    *usecase.ReconcileUseCase
	notifications repository.NotificationRepository
	alerts        repository.AlertRepository
	notifier      notify.Client
	health        HealthChecker
}

// NewReconcilerFacade constructs ReconcilerFacade.
func NewReconcilerFacade(
	registry *webhook.Registry,
	reconciler *usecase.ReconcileUseCase,
	notifications repository.NotificationRepository,
	alerts repository.AlertRepository,
	notifier notify.Client,
	health HealthChecker,
) *ReconcilerFacade {
	return &ReconcilerFacade{
		registry:      registry,
		reconciler:    reconciler,
		notifications: notifications,
		alerts:        alerts,
		notifier:      notifier,
		health:        health,
	}
}

// SignatureHeader returns the signature header name for a provider.
func (f *ReconcilerFacade) SignatureHeader(provider string) (string, error) {
	ep, err := f.registry.Endpoint(provider)
	if err != nil {
		return "", err
	}
	return ep.SignatureHeader, nil
}

// HandleWebhook runs the full pipeline for one delivery: verify, parse,
// reconcile. Errors map onto the protocol taxonomy; everything downstream of
// the gate has already been absorbed by the time this returns.
func (f *ReconcilerFacade) HandleWebhook(ctx context.Context, provider string, body []byte, signature string) (model.GateOutcome, error) {
	ep, err := f.registry.Endpoint(provider)
	if err != nil {
		return "", err
	}

	if err := ep.Verifier.Verify(body, signature); err != nil {
		return "", err
	}

	event, err := ep.Parser.Parse(body)
	if err != nil {
		return "", err
	}

	_, outcome, err := f.reconciler.Process(ctx, event)
	if err != nil {
		return "", err
	}
	return outcome, nil
}

// RecentAlerts lists the newest operator alerts.
func (f *ReconcilerFacade) RecentAlerts(ctx context.Context, limit int) ([]model.OperatorAlert, error) {
	return f.alerts.ListRecent(ctx, limit)
}

// PendingNotifications lists failure-ledger records awaiting retry.
func (f *ReconcilerFacade) PendingNotifications(ctx context.Context, limit int) ([]model.FailedNotification, error) {
	return f.notifications.ListPending(ctx, limit)
}

// Health verifies storage connectivity.
func (f *ReconcilerFacade) Health(ctx context.Context) error {
	return f.health.HealthCheck(ctx)
}

// ClaimFailedNotifications hands a batch of pending records to the worker.
func (f *ReconcilerFacade) ClaimFailedNotifications(ctx context.Context, limit int) ([]model.FailedNotification, error) {
	return f.notifications.ClaimPendingRetry(ctx, limit)
}

// MarkNotificationDelivered finalizes a successfully retried record.
func (f *ReconcilerFacade) MarkNotificationDelivered(ctx context.Context, id int64) error {
	return f.notifications.MarkDelivered(ctx, id)
}

// MarkNotificationRetryFailed re-queues or exhausts a failed retry.
func (f *ReconcilerFacade) MarkNotificationRetryFailed(ctx context.Context, id int64, errorMessage string, maxAttempts int) error {
	return f.notifications.MarkRetryFailed(ctx, id, errorMessage, maxAttempts)
}

// RetryNotification re-sends one failed notification from its ledger record.
func (f *ReconcilerFacade) RetryNotification(ctx context.Context, record model.FailedNotification) error {
	total, _ := strconv.ParseFloat(record.Metadata["total"], 64)

	var (
		result *model.SendResult
		err    error
	)
	switch record.Type {
	case model.NotificationPaymentEmail:
		result, err = f.notifier.SendPaymentConfirmation(ctx, notify.PaymentConfirmation{
			Recipient:   record.Recipient,
			Name:        record.Metadata["customer_name"],
			OrderNumber: record.Metadata["order_number"],
			Total:       total,
		})
	case model.NotificationOrderEmail:
		result, err = f.notifier.SendOrderNotification(ctx, notify.OrderNotification{
			Recipient:     record.Recipient,
			OrderNumber:   record.Metadata["order_number"],
			Total:         total,
			CustomerEmail: record.Metadata["customer_email"],
		})
	case model.NotificationPaymentSMS:
		result, err = f.notifier.SendConfirmationSMS(ctx, notify.SMSConfirmation{
			Phone:       record.Recipient,
			OrderNumber: record.Metadata["order_number"],
		})
	default:
		return errors.New("unknown notification type " + string(record.Type))
	}

	if err != nil {
		return err
	}
	if result == nil || !result.Success {
		msg := "sender reported failure"
		if result != nil && result.Error != "" {
			msg = result.Error
		}
		return errors.New(msg)
	}
	return nil
}
