package worker

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/meridianshop/paygate/internal/domain/model"
)

// RetryFacade exposes the subset of application functionality required by the worker.
type RetryFacade interface {
	ClaimFailedNotifications(ctx context.Context, limit int) ([]model.FailedNotification, error)
	RetryNotification(ctx context.Context, record model.FailedNotification) error
	MarkNotificationDelivered(ctx context.Context, id int64) error
	MarkNotificationRetryFailed(ctx context.Context, id int64, errorMessage string, maxAttempts int) error
}

// NotificationRetryWorker periodically drains the failure ledger and re-sends
// pending notifications concurrently.
type NotificationRetryWorker struct {
	facade       RetryFacade
	scanInterval time.Duration
	batchSize    int
	workers      int
	maxAttempts  int
	logger       *slog.Logger

	jobs   chan model.FailedNotification
	wg     sync.WaitGroup
	cancel context.CancelFunc
	mu     sync.Mutex
}

// NewNotificationRetryWorker constructs the retry worker pool.
func NewNotificationRetryWorker(facade RetryFacade, scanInterval time.Duration, batchSize, workers, maxAttempts int, logger *slog.Logger) *NotificationRetryWorker {
	if workers <= 0 {
		workers = 1
	}
	if batchSize <= 0 {
		batchSize = 1
	}
	if maxAttempts <= 0 {
		maxAttempts = 1
	}
	return &NotificationRetryWorker{
		facade:       facade,
		scanInterval: scanInterval,
		batchSize:    batchSize,
		workers:      workers,
		maxAttempts:  maxAttempts,
		logger:       logger,
		jobs:         make(chan model.FailedNotification, batchSize*workers),
	}
}

// Start launches background processing.
func (w *NotificationRetryWorker) Start(ctx context.Context) {
	w.mu.Lock()
	defer w.mu.Unlock()

	runCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel

	for i := 0; i < w.workers; i++ {
		w.wg.Add(1)
		go w.worker(runCtx)
	}

	w.wg.Add(1)
	go w.dispatch(runCtx)
}

// Stop waits for all workers to finish.
func (w *NotificationRetryWorker) Stop() {
	w.mu.Lock()
	if w.cancel != nil {
		w.cancel()
		w.cancel = nil
	}
	w.mu.Unlock()

	w.wg.Wait()
}

func (w *NotificationRetryWorker) dispatch(ctx context.Context) {
	defer w.wg.Done()
	defer close(w.jobs)
	ticker := time.NewTicker(w.scanInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.fetchAndDispatch(ctx)
		}
	}
}

func (w *NotificationRetryWorker) fetchAndDispatch(ctx context.Context) {
	records, err := w.facade.ClaimFailedNotifications(ctx, w.batchSize)
	if err != nil {
		w.logger.Error("claim failed notifications failed", slog.String("error", err.Error()))
		return
	}
	for _, record := range records {
		select {
		case <-ctx.Done():
			return
		case w.jobs <- record:
		}
	}
}

func (w *NotificationRetryWorker) worker(ctx context.Context) {
	defer w.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case record, ok := <-w.jobs:
			if !ok {
				return
			}
			w.handleRecord(ctx, record)
		}
	}
}

func (w *NotificationRetryWorker) handleRecord(ctx context.Context, record model.FailedNotification) {
	if err := w.facade.RetryNotification(ctx, record); err != nil {
		w.logger.Warn("notification retry failed",
			slog.Int64("id", record.ID),
			slog.String("type", string(record.Type)),
			slog.String("error", err.Error()))
		if err := w.facade.MarkNotificationRetryFailed(ctx, record.ID, err.Error(), w.maxAttempts); err != nil {
			w.logger.Error("mark retry failed errored", slog.Int64("id", record.ID), slog.String("error", err.Error()))
		}
		return
	}

	if err := w.facade.MarkNotificationDelivered(ctx, record.ID); err != nil {
		w.logger.Error("mark delivered failed", slog.Int64("id", record.ID), slog.String("error", err.Error()))
		return
	}
	w.logger.Info("notification retried successfully",
		slog.Int64("id", record.ID),
		slog.String("type", string(record.Type)))
}
