package repository

import (
	"context"

	"github.com/meridianshop/paygate/internal/domain/model"
)

// NotificationRepository persists the failure ledger for undelivered
// notifications and hands batches to the retry worker.
type NotificationRepository interface {
	RecordFailure(ctx context.Context, failure model.FailedNotification) (*model.FailedNotification, error)
	// ClaimPendingRetry selects up to limit pending_retry records and marks
	// them claimed within one transaction so concurrent workers never pick
	// the same record.
	ClaimPendingRetry(ctx context.Context, limit int) ([]model.FailedNotification, error)
	MarkDelivered(ctx context.Context, id int64) error
	// MarkRetryFailed re-queues the record or exhausts it once maxAttempts
	// is reached.
	MarkRetryFailed(ctx context.Context, id int64, errorMessage string, maxAttempts int) error
	ListPending(ctx context.Context, limit int) ([]model.FailedNotification, error)
}

// AlertRepository persists operator alerts.
type AlertRepository interface {
	Create(ctx context.Context, alert model.OperatorAlert) error
	ListRecent(ctx context.Context, limit int) ([]model.OperatorAlert, error)
}
