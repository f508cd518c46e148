package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/google/uuid"

	"github.com/meridianshop/paygate/internal/adapter/crm"
	"github.com/meridianshop/paygate/internal/adapter/notify"
	"github.com/meridianshop/paygate/internal/domain/model"
	"github.com/meridianshop/paygate/internal/domain/repository"
)

// ReconcileOptions carries tunables for the downstream stages.
type ReconcileOptions struct {
	OpsEmail   string
	SMSEnabled bool
}

// ReconcileUseCase drives a verified, classified payment event through the
// pipeline: gate, rewards, streak, external sync, notifications. Every stage
// after the gate is best effort; a failure there is absorbed into alerts and
// the failure ledger and never unwinds the confirmed payment.
type ReconcileUseCase struct {
	gate          *GateUseCase
	customers     repository.CustomerRepository
	rewards       repository.RewardRepository
	promos        repository.PromoRepository
	streaks       repository.StreakRepository
	notifications repository.NotificationRepository
	alerts        repository.AlertRepository
	sync          crm.Client
	notifier      notify.Client
	opts          ReconcileOptions
	logger        *slog.Logger
}

// NewReconcileUseCase constructs ReconcileUseCase.
func NewReconcileUseCase(
	gate *GateUseCase,
	customers repository.CustomerRepository,
	rewards repository.RewardRepository,
	promos repository.PromoRepository,
	streaks repository.StreakRepository,
	notifications repository.NotificationRepository,
	alerts repository.AlertRepository,
	sync crm.Client,
	notifier notify.Client,
	opts ReconcileOptions,
	logger *slog.Logger,
) *ReconcileUseCase {
	return &ReconcileUseCase{
		gate:          gate,
		customers:     customers,
		rewards:       rewards,
		promos:        promos,
		streaks:       streaks,
		notifications: notifications,
		alerts:        alerts,
		sync:          sync,
		notifier:      notifier,
		opts:          opts,
		logger:        logger,
	}
}

// Process applies one normalized payment event. The returned outcome is
// GateWon when this delivery performed the transition and ran side effects,
// GateAlreadyProcessed for duplicates and negative events.
func (u *ReconcileUseCase) Process(ctx context.Context, event *model.PaymentEvent) (*model.Order, model.GateOutcome, error) {
	log := u.logger.With(
		slog.String("delivery_id", uuid.NewString()),
		slog.String("provider", event.Provider),
		slog.String("event", string(event.Kind)),
		slog.String("transaction_id", event.TransactionID),
	)

	switch event.Kind {
	case model.EventPaymentSucceeded:
		return u.processSucceeded(ctx, event, log)
	case model.EventPaymentFailed, model.EventPaymentCancelled:
		order, changed, err := u.gate.Close(ctx, event)
		if err != nil {
			return nil, "", err
		}
		if changed {
			log.Info("order closed on negative event", slog.Int64("order_id", order.ID))
		} else {
			log.Info("negative event ignored for settled order", slog.Int64("order_id", order.ID))
		}
		return order, model.GateAlreadyProcessed, nil
	default:
		return nil, "", fmt.Errorf("unhandled event kind %q", event.Kind)
	}
}

func (u *ReconcileUseCase) processSucceeded(ctx context.Context, event *model.PaymentEvent, log *slog.Logger) (*model.Order, model.GateOutcome, error) {
	order, outcome, err := u.gate.Confirm(ctx, event)
	if err != nil {
		return nil, "", err
	}
	if outcome != model.GateWon {
		log.Info("duplicate delivery acknowledged", slog.Int64("order_id", order.ID))
		return order, outcome, nil
	}

	log = log.With(slog.Int64("order_id", order.ID))
	log.Info("payment confirmed", slog.Float64("total", order.Total))

	profile := u.ensureProfile(ctx, order, log)

	rewardOK := u.rewardStage(ctx, order, profile, log)
	if rewardOK && order.PromoCodeID != nil {
		u.promoStage(ctx, order, log)
	}

	u.streakStage(ctx, order, profile, log)
	u.syncStage(ctx, order, profile, log)
	u.notifyStage(ctx, order, log)

	return order, model.GateWon, nil
}

// ensureProfile resolves the paying customer, creating a profile for guest
// checkouts on first successful payment. Returns nil when resolution fails;
// downstream stages degrade gracefully.
func (u *ReconcileUseCase) ensureProfile(ctx context.Context, order *model.Order, log *slog.Logger) *model.CustomerProfile {
	if order.UserID != nil {
		profile, err := u.customers.GetByID(ctx, *order.UserID)
		if err == nil {
			return profile
		}
		log.Error("load customer profile failed", slog.String("error", err.Error()))
		return nil
	}

	if order.CustomerEmail == "" {
		log.Warn("order has no customer identity, skipping profile")
		return nil
	}

	profile, err := u.customers.Create(ctx, model.CustomerProfile{
		Email: order.CustomerEmail,
		Phone: order.CustomerPhone,
		Name:  order.CustomerName,
	})
	if err != nil {
		log.Error("create guest profile failed", slog.String("error", err.Error()))
		return nil
	}
	return profile
}

// rewardStage runs the atomic reward computation. Reports whether rewards
// completed successfully; on failure the payment stands and an operator alert
// is recorded for manual reconciliation.
func (u *ReconcileUseCase) rewardStage(ctx context.Context, order *model.Order, profile *model.CustomerProfile, log *slog.Logger) bool {
	if profile == nil {
		u.raiseAlert(ctx, model.OperatorAlert{
			Type:    model.AlertRewardProcessingFailed,
			Title:   "Reward processing skipped",
			Message: fmt.Sprintf("order %s paid but no customer profile could be resolved", order.Number),
			Metadata: map[string]string{
				"order_id": strconv.FormatInt(order.ID, 10),
			},
		}, log)
		return false
	}

	result, err := u.rewards.ProcessPaymentAtomically(ctx, order.ID, profile.ID, order.Total)
	if err != nil || result == nil || !result.Success {
		reason := "reward computation reported failure"
		if err != nil {
			reason = err.Error()
		} else if result != nil && result.ErrorMessage != "" {
			reason = result.ErrorMessage
		}
		u.raiseAlert(ctx, model.OperatorAlert{
			Type:    model.AlertRewardProcessingFailed,
			Title:   "Reward processing failed",
			Message: fmt.Sprintf("order %s paid but rewards were not granted: %s", order.Number, reason),
			Metadata: map[string]string{
				"order_id": strconv.FormatInt(order.ID, 10),
				"user_id":  strconv.FormatInt(profile.ID, 10),
			},
		}, log)
		return false
	}

	log.Info("rewards granted",
		slog.Float64("points", result.PointsAwarded),
		slog.Bool("first_order_bonus", result.FirstOrderBonusClaimed),
		slog.Bool("referral_processed", result.ReferralProcessed))
	return true
}

// promoStage increments promo usage. Runs only after reward success so a
// code's counter is never consumed by an order whose rewards never completed.
func (u *ReconcileUseCase) promoStage(ctx context.Context, order *model.Order, log *slog.Logger) {
	if err := u.promos.IncrementUsage(ctx, *order.PromoCodeID); err != nil {
		u.raiseAlert(ctx, model.OperatorAlert{
			Type:    model.AlertPromoIncrementFailed,
			Title:   "Promo usage increment failed",
			Message: fmt.Sprintf("order %s: %s", order.Number, err.Error()),
			Metadata: map[string]string{
				"order_id": strconv.FormatInt(order.ID, 10),
				"promo_id": strconv.FormatInt(*order.PromoCodeID, 10),
			},
		}, log)
		return
	}
	log.Info("promo usage incremented", slog.Int64("promo_id", *order.PromoCodeID))
}

func (u *ReconcileUseCase) streakStage(ctx context.Context, order *model.Order, profile *model.CustomerProfile, log *slog.Logger) {
	if profile == nil {
		return
	}
	result, err := u.streaks.UpdateStreak(ctx, profile.ID, order.Total)
	if err != nil {
		log.Error("streak update failed", slog.String("error", err.Error()))
		return
	}
	log.Info("streak updated",
		slog.Int("streak", result.Streak),
		slog.Bool("qualifies", result.Qualifies),
		slog.Bool("completed", result.StreakCompleted))
}

func (u *ReconcileUseCase) syncStage(ctx context.Context, order *model.Order, profile *model.CustomerProfile, log *slog.Logger) {
	if profile != nil && profile.CRMContactID == "" {
		result, err := u.sync.SyncNewCustomer(ctx, *profile)
		if err != nil {
			log.Error("customer sync failed", slog.String("error", err.Error()))
		} else {
			if err := u.customers.UpdateExternalIDs(ctx, profile.ID, result.CRMContactID, result.LedgerCustomerID); err != nil {
				log.Error("store external ids failed", slog.String("error", err.Error()))
			}
			profile.CRMContactID = result.CRMContactID
			profile.LedgerCustomerID = result.LedgerCustomerID
		}
	}

	if _, err := u.sync.SyncOrderCompletion(ctx, *order); err != nil {
		log.Error("order sync failed", slog.String("error", err.Error()))
		u.raiseAlert(ctx, model.OperatorAlert{
			Type:    model.AlertExternalSyncFailed,
			Title:   "Order sync failed",
			Message: fmt.Sprintf("order %s: %s", order.Number, err.Error()),
			Metadata: map[string]string{
				"order_id": strconv.FormatInt(order.ID, 10),
			},
		}, log)
	}
}

func (u *ReconcileUseCase) notifyStage(ctx context.Context, order *model.Order, log *slog.Logger) {
	u.deliver(ctx, order, model.NotificationPaymentEmail, order.CustomerEmail, log, func() (*model.SendResult, error) {
		return u.notifier.SendPaymentConfirmation(ctx, notify.PaymentConfirmation{
			Recipient:   order.CustomerEmail,
			Name:        order.CustomerName,
			OrderNumber: order.Number,
			Total:       order.Total,
		})
	})

	u.deliver(ctx, order, model.NotificationOrderEmail, u.opts.OpsEmail, log, func() (*model.SendResult, error) {
		return u.notifier.SendOrderNotification(ctx, notify.OrderNotification{
			Recipient:     u.opts.OpsEmail,
			OrderNumber:   order.Number,
			Total:         order.Total,
			CustomerEmail: order.CustomerEmail,
		})
	})

	if u.opts.SMSEnabled && order.CustomerPhone != "" {
		u.deliver(ctx, order, model.NotificationPaymentSMS, order.CustomerPhone, log, func() (*model.SendResult, error) {
			return u.notifier.SendConfirmationSMS(ctx, notify.SMSConfirmation{
				Phone:       order.CustomerPhone,
				OrderNumber: order.Number,
			})
		})
	}
}

// deliver sends on one channel and, on failure, persists a retryable ledger
// record plus an operator alert instead of failing the request.
func (u *ReconcileUseCase) deliver(ctx context.Context, order *model.Order, kind model.NotificationType, recipient string, log *slog.Logger, send func() (*model.SendResult, error)) {
	result, err := send()
	if err == nil && result != nil && result.Success {
		log.Info("notification sent", slog.String("type", string(kind)))
		return
	}

	reason := "sender reported failure"
	if err != nil {
		reason = err.Error()
	} else if result != nil && result.Error != "" {
		reason = result.Error
	}
	log.Error("notification failed", slog.String("type", string(kind)), slog.String("error", reason))

	if _, err := u.notifications.RecordFailure(ctx, model.FailedNotification{
		Type:         kind,
		OrderID:      order.ID,
		Recipient:    recipient,
		ErrorMessage: reason,
		Metadata: map[string]string{
			"order_number":   order.Number,
			"total":          strconv.FormatFloat(order.Total, 'f', -1, 64),
			"customer_name":  order.CustomerName,
			"customer_email": order.CustomerEmail,
		},
	}); err != nil {
		log.Error("record notification failure failed", slog.String("error", err.Error()))
	}

	u.raiseAlert(ctx, model.OperatorAlert{
		Type:    model.AlertNotificationFailed,
		Title:   "Notification delivery failed",
		Message: fmt.Sprintf("order %s, channel %s: %s", order.Number, kind, reason),
		Metadata: map[string]string{
			"order_id":  strconv.FormatInt(order.ID, 10),
			"recipient": recipient,
		},
	}, log)
}

func (u *ReconcileUseCase) raiseAlert(ctx context.Context, alert model.OperatorAlert, log *slog.Logger) {
	if err := u.alerts.Create(ctx, alert); err != nil {
		log.Error("record operator alert failed",
			slog.String("alert_type", string(alert.Type)),
			slog.String("error", err.Error()))
	}
}
