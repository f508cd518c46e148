package handlers

import (
	"context"

	"github.com/meridianshop/paygate/internal/domain/model"
)

// WebhookFacade describes webhook processing capabilities required by handlers.
type WebhookFacade interface {
	SignatureHeader(provider string) (string, error)
	HandleWebhook(ctx context.Context, provider string, body []byte, signature string) (model.GateOutcome, error)
}

// OpsFacade provides operational read access for staff tooling.
type OpsFacade interface {
	RecentAlerts(ctx context.Context, limit int) ([]model.OperatorAlert, error)
	PendingNotifications(ctx context.Context, limit int) ([]model.FailedNotification, error)
	Health(ctx context.Context) error
}

// ReconcilerFacade aggregates the full set of operations used across handlers.
type ReconcilerFacade interface {
	WebhookFacade
	OpsFacade
}
