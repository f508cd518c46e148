package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/meridianshop/paygate/internal/adapter/notify"
	"github.com/meridianshop/paygate/internal/domain/model"
	"github.com/meridianshop/paygate/internal/test"
)

type reconcileFixture struct {
	orders        test.OrderRepositoryStub
	customers     test.CustomerRepositoryStub
	rewards       *test.RewardRepositoryStub
	promos        *test.PromoRepositoryStub
	streaks       *test.StreakRepositoryStub
	notifications *test.NotificationRepositoryStub
	alerts        *test.AlertRepositoryStub
	sync          *test.CRMClientStub
	notifier      *test.NotifyClientStub
	opts          ReconcileOptions
}

func newReconcileFixture() *reconcileFixture {
	userID := int64(11)
	promoID := int64(3)
	return &reconcileFixture{
		orders: test.OrderRepositoryStub{
			GetByCorrelationFn: func(context.Context, int64, string) (*model.Order, error) {
				return &model.Order{
					ID:            42,
					Number:        "ORD-42",
					UserID:        &userID,
					PaymentStatus: model.PaymentStatusPending,
					Status:        model.OrderStatusPending,
					Total:         200,
					PromoCodeID:   &promoID,
					CustomerEmail: "jo@example.com",
					CustomerPhone: "+15550001122",
					CustomerName:  "Jo Doe",
				}, nil
			},
			ConfirmPaymentFn: func(_ context.Context, orderID int64, txn string) (*model.Order, model.GateOutcome, error) {
				return &model.Order{
					ID:               orderID,
					Number:           "ORD-42",
					UserID:           &userID,
					PaymentStatus:    model.PaymentStatusPaid,
					Status:           model.OrderStatusConfirmed,
					PaymentReference: txn,
					Total:            200,
					PromoCodeID:      &promoID,
					CustomerEmail:    "jo@example.com",
					CustomerPhone:    "+15550001122",
					CustomerName:     "Jo Doe",
				}, model.GateWon, nil
			},
		},
		customers: test.CustomerRepositoryStub{
			GetByIDFn: func(_ context.Context, id int64) (*model.CustomerProfile, error) {
				return &model.CustomerProfile{ID: id, Email: "jo@example.com", CRMContactID: "crm-old"}, nil
			},
		},
		rewards:       &test.RewardRepositoryStub{},
		promos:        &test.PromoRepositoryStub{},
		streaks:       &test.StreakRepositoryStub{},
		notifications: &test.NotificationRepositoryStub{},
		alerts:        &test.AlertRepositoryStub{},
		sync:          &test.CRMClientStub{},
		notifier:      &test.NotifyClientStub{},
		opts:          ReconcileOptions{OpsEmail: "ops@example.com", SMSEnabled: true},
	}
}

func (f *reconcileFixture) build() *ReconcileUseCase {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewReconcileUseCase(
		NewGateUseCase(f.orders),
		f.customers,
		f.rewards,
		f.promos,
		f.streaks,
		f.notifications,
		f.alerts,
		f.sync,
		f.notifier,
		f.opts,
		logger,
	)
}

func successEvent() *model.PaymentEvent {
	return &model.PaymentEvent{
		Kind:          model.EventPaymentSucceeded,
		Provider:      "payanchor",
		TransactionID: "txn-1",
		OrderID:       42,
		Reference:     "ref-42",
		Amount:        200,
	}
}

func TestReconcile_HappyPathRunsAllStages(t *testing.T) {
	f := newReconcileFixture()
	uc := f.build()

	order, outcome, err := uc.Process(context.Background(), successEvent())
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if outcome != model.GateWon {
		t.Fatalf("unexpected outcome: %s", outcome)
	}
	if order.PaymentStatus != model.PaymentStatusPaid {
		t.Fatalf("unexpected payment status: %s", order.PaymentStatus)
	}
	if f.rewards.Calls != 1 {
		t.Fatalf("expected one reward run, got %d", f.rewards.Calls)
	}
	if len(f.promos.Increments) != 1 || f.promos.Increments[0] != 3 {
		t.Fatalf("unexpected promo increments: %v", f.promos.Increments)
	}
	if f.streaks.Calls != 1 {
		t.Fatalf("expected one streak update, got %d", f.streaks.Calls)
	}
	if len(f.sync.CompletedSyncs) != 1 {
		t.Fatalf("expected one order sync, got %d", len(f.sync.CompletedSyncs))
	}
	if len(f.notifier.PaymentConfirmations) != 1 || len(f.notifier.OrderNotifications) != 1 || len(f.notifier.SMSConfirmations) != 1 {
		t.Fatalf("unexpected notification counts: %d %d %d",
			len(f.notifier.PaymentConfirmations), len(f.notifier.OrderNotifications), len(f.notifier.SMSConfirmations))
	}
	if len(f.alerts.Alerts) != 0 {
		t.Fatalf("unexpected alerts: %v", f.alerts.Alerts)
	}
}

func TestReconcile_DuplicateDeliveryRunsNoSideEffects(t *testing.T) {
	f := newReconcileFixture()
	f.orders.GetByCorrelationFn = func(context.Context, int64, string) (*model.Order, error) {
		return &model.Order{
			ID:               42,
			PaymentStatus:    model.PaymentStatusPaid,
			PaymentReference: "txn-1",
		}, nil
	}
	uc := f.build()

	_, outcome, err := uc.Process(context.Background(), successEvent())
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if outcome != model.GateAlreadyProcessed {
		t.Fatalf("unexpected outcome: %s", outcome)
	}
	if f.rewards.Calls != 0 {
		t.Fatal("rewards must not run twice")
	}
	if len(f.promos.Increments) != 0 {
		t.Fatal("promo counter must not be consumed twice")
	}
	if len(f.notifier.PaymentConfirmations) != 0 {
		t.Fatal("duplicate must not re-send notifications")
	}
}

func TestReconcile_RewardFailureKeepsPaymentAndAlerts(t *testing.T) {
	f := newReconcileFixture()
	f.rewards.ProcessFn = func(context.Context, int64, int64, float64) (*model.RewardResult, error) {
		return nil, errors.New("deadlock detected")
	}
	uc := f.build()

	order, outcome, err := uc.Process(context.Background(), successEvent())
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if outcome != model.GateWon {
		t.Fatalf("unexpected outcome: %s", outcome)
	}
	if order.PaymentStatus != model.PaymentStatusPaid {
		t.Fatal("payment confirmation must survive reward failure")
	}
	if len(f.alerts.Alerts) == 0 || f.alerts.Alerts[0].Type != model.AlertRewardProcessingFailed {
		t.Fatalf("expected reward alert, got %v", f.alerts.Alerts)
	}
	if len(f.promos.Increments) != 0 {
		t.Fatal("promo counter must not be consumed after reward failure")
	}
	if len(f.notifier.PaymentConfirmations) != 1 {
		t.Fatal("customer notification still goes out after reward failure")
	}
}

func TestReconcile_RewardReportedFailureSkipsPromo(t *testing.T) {
	f := newReconcileFixture()
	f.rewards.ProcessFn = func(context.Context, int64, int64, float64) (*model.RewardResult, error) {
		return &model.RewardResult{Success: false, ErrorMessage: "points ledger rejected credit"}, nil
	}
	uc := f.build()

	if _, _, err := uc.Process(context.Background(), successEvent()); err != nil {
		t.Fatalf("process: %v", err)
	}
	if len(f.promos.Increments) != 0 {
		t.Fatal("promo counter must not be consumed after reward failure")
	}
	if len(f.alerts.Alerts) != 1 || f.alerts.Alerts[0].Type != model.AlertRewardProcessingFailed {
		t.Fatalf("expected one reward alert, got %v", f.alerts.Alerts)
	}
}

func TestReconcile_PromoFailureAlertsWithoutUnwinding(t *testing.T) {
	f := newReconcileFixture()
	f.promos.IncrementFn = func(context.Context, int64) error {
		return errors.New("promo row gone")
	}
	uc := f.build()

	_, outcome, err := uc.Process(context.Background(), successEvent())
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if outcome != model.GateWon {
		t.Fatalf("unexpected outcome: %s", outcome)
	}
	var found bool
	for _, alert := range f.alerts.Alerts {
		if alert.Type == model.AlertPromoIncrementFailed {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected promo alert, got %v", f.alerts.Alerts)
	}
	if f.streaks.Calls != 1 {
		t.Fatal("streak stage still runs after promo failure")
	}
}

func TestReconcile_NoPromoCodeSkipsIncrement(t *testing.T) {
	f := newReconcileFixture()
	userID := int64(11)
	f.orders.ConfirmPaymentFn = func(_ context.Context, orderID int64, txn string) (*model.Order, model.GateOutcome, error) {
		return &model.Order{
			ID: orderID, Number: "ORD-42", UserID: &userID,
			PaymentStatus: model.PaymentStatusPaid, Status: model.OrderStatusConfirmed,
			PaymentReference: txn, Total: 200, CustomerEmail: "jo@example.com",
		}, model.GateWon, nil
	}
	uc := f.build()

	if _, _, err := uc.Process(context.Background(), successEvent()); err != nil {
		t.Fatalf("process: %v", err)
	}
	if len(f.promos.Increments) != 0 {
		t.Fatalf("unexpected promo increments: %v", f.promos.Increments)
	}
}

func TestReconcile_GuestCheckoutCreatesProfile(t *testing.T) {
	f := newReconcileFixture()
	f.orders.ConfirmPaymentFn = func(_ context.Context, orderID int64, txn string) (*model.Order, model.GateOutcome, error) {
		return &model.Order{
			ID: orderID, Number: "ORD-42",
			PaymentStatus: model.PaymentStatusPaid, Status: model.OrderStatusConfirmed,
			PaymentReference: txn, Total: 200,
			CustomerEmail: "guest@example.com", CustomerName: "Guest",
		}, model.GateWon, nil
	}
	var created *model.CustomerProfile
	f.customers.CreateFn = func(_ context.Context, profile model.CustomerProfile) (*model.CustomerProfile, error) {
		stored := profile
		stored.ID = 77
		created = &stored
		return &stored, nil
	}
	uc := f.build()

	if _, _, err := uc.Process(context.Background(), successEvent()); err != nil {
		t.Fatalf("process: %v", err)
	}
	if created == nil || created.Email != "guest@example.com" {
		t.Fatalf("expected guest profile creation, got %v", created)
	}
	if f.rewards.Calls != 1 {
		t.Fatal("rewards must run against the new profile")
	}
	if len(f.sync.CustomerSyncs) != 1 {
		t.Fatal("new profile must be synced to CRM")
	}
}

func TestReconcile_ExistingCRMContactSkipsCustomerSync(t *testing.T) {
	f := newReconcileFixture()
	uc := f.build()

	if _, _, err := uc.Process(context.Background(), successEvent()); err != nil {
		t.Fatalf("process: %v", err)
	}
	if len(f.sync.CustomerSyncs) != 0 {
		t.Fatalf("profile with CRM contact must not be re-registered: %v", f.sync.CustomerSyncs)
	}
}

func TestReconcile_CustomerSyncStoresExternalIDs(t *testing.T) {
	f := newReconcileFixture()
	f.customers.GetByIDFn = func(_ context.Context, id int64) (*model.CustomerProfile, error) {
		return &model.CustomerProfile{ID: id, Email: "jo@example.com"}, nil
	}
	var gotCRM, gotLedger string
	f.customers.UpdateExternalIDsFn = func(_ context.Context, _ int64, crmID, ledgerID string) error {
		gotCRM, gotLedger = crmID, ledgerID
		return nil
	}
	f.sync.SyncNewCustomerFn = func(context.Context, model.CustomerProfile) (*model.CustomerSyncResult, error) {
		return &model.CustomerSyncResult{CRMContactID: "crm-77", LedgerCustomerID: "ledger-77"}, nil
	}
	uc := f.build()

	if _, _, err := uc.Process(context.Background(), successEvent()); err != nil {
		t.Fatalf("process: %v", err)
	}
	if gotCRM != "crm-77" || gotLedger != "ledger-77" {
		t.Fatalf("external ids not stored: %q %q", gotCRM, gotLedger)
	}
}

func TestReconcile_OrderSyncFailureAlerts(t *testing.T) {
	f := newReconcileFixture()
	f.sync.SyncOrderCompletionFn = func(context.Context, model.Order) (*model.OrderSyncResult, error) {
		return nil, errors.New("crm down")
	}
	uc := f.build()

	_, outcome, err := uc.Process(context.Background(), successEvent())
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if outcome != model.GateWon {
		t.Fatalf("unexpected outcome: %s", outcome)
	}
	var found bool
	for _, alert := range f.alerts.Alerts {
		if alert.Type == model.AlertExternalSyncFailed {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected sync alert, got %v", f.alerts.Alerts)
	}
}

func TestReconcile_NotificationFailureGoesToLedger(t *testing.T) {
	f := newReconcileFixture()
	f.notifier.PaymentConfirmationFn = func(context.Context, notify.PaymentConfirmation) (*model.SendResult, error) {
		return nil, errors.New("smtp refused")
	}
	uc := f.build()

	_, outcome, err := uc.Process(context.Background(), successEvent())
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if outcome != model.GateWon {
		t.Fatal("notification failure must not fail the webhook")
	}
	if len(f.notifications.Failures) != 1 {
		t.Fatalf("expected one ledger record, got %d", len(f.notifications.Failures))
	}
	record := f.notifications.Failures[0]
	if record.Type != model.NotificationPaymentEmail {
		t.Fatalf("unexpected record type: %s", record.Type)
	}
	if record.Recipient != "jo@example.com" {
		t.Fatalf("unexpected recipient: %s", record.Recipient)
	}
	if record.Metadata["order_number"] != "ORD-42" {
		t.Fatalf("unexpected metadata: %v", record.Metadata)
	}
	var found bool
	for _, alert := range f.alerts.Alerts {
		if alert.Type == model.AlertNotificationFailed {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected notification alert, got %v", f.alerts.Alerts)
	}
}

func TestReconcile_SenderReportedFailureGoesToLedger(t *testing.T) {
	f := newReconcileFixture()
	f.notifier.SMSConfirmationFn = func(context.Context, notify.SMSConfirmation) (*model.SendResult, error) {
		return &model.SendResult{Success: false, Error: "invalid msisdn"}, nil
	}
	uc := f.build()

	if _, _, err := uc.Process(context.Background(), successEvent()); err != nil {
		t.Fatalf("process: %v", err)
	}
	if len(f.notifications.Failures) != 1 {
		t.Fatalf("expected one ledger record, got %d", len(f.notifications.Failures))
	}
	if f.notifications.Failures[0].ErrorMessage != "invalid msisdn" {
		t.Fatalf("unexpected error message: %s", f.notifications.Failures[0].ErrorMessage)
	}
}

func TestReconcile_SMSDisabledSkipsSMS(t *testing.T) {
	f := newReconcileFixture()
	f.opts.SMSEnabled = false
	uc := f.build()

	if _, _, err := uc.Process(context.Background(), successEvent()); err != nil {
		t.Fatalf("process: %v", err)
	}
	if len(f.notifier.SMSConfirmations) != 0 {
		t.Fatal("sms must not be sent when disabled")
	}
}

func TestReconcile_NegativeEventClosesOrder(t *testing.T) {
	f := newReconcileFixture()
	closed := false
	f.orders.ClosePaymentFn = func(context.Context, int64, model.PaymentStatus, model.OrderStatus) (bool, error) {
		closed = true
		return true, nil
	}
	uc := f.build()

	event := successEvent()
	event.Kind = model.EventPaymentFailed
	_, outcome, err := uc.Process(context.Background(), event)
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if outcome != model.GateAlreadyProcessed {
		t.Fatalf("unexpected outcome: %s", outcome)
	}
	if !closed {
		t.Fatal("expected order to be closed")
	}
	if f.rewards.Calls != 0 || len(f.notifier.PaymentConfirmations) != 0 {
		t.Fatal("negative event must not run success side effects")
	}
}

func TestReconcile_LateFailureAfterPaymentIsIgnored(t *testing.T) {
	f := newReconcileFixture()
	f.orders.GetByCorrelationFn = func(context.Context, int64, string) (*model.Order, error) {
		return &model.Order{ID: 42, PaymentStatus: model.PaymentStatusPaid, Status: model.OrderStatusConfirmed}, nil
	}
	f.orders.ClosePaymentFn = func(context.Context, int64, model.PaymentStatus, model.OrderStatus) (bool, error) {
		t.Fatal("paid order must not be closed")
		return false, nil
	}
	uc := f.build()

	event := successEvent()
	event.Kind = model.EventPaymentCancelled
	order, _, err := uc.Process(context.Background(), event)
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if order.PaymentStatus != model.PaymentStatusPaid {
		t.Fatalf("unexpected payment status: %s", order.PaymentStatus)
	}
}

func TestReconcile_UnknownEventKind(t *testing.T) {
	f := newReconcileFixture()
	uc := f.build()

	event := successEvent()
	event.Kind = model.EventKind("chargeback")
	if _, _, err := uc.Process(context.Background(), event); err == nil {
		t.Fatal("expected error for unhandled event kind")
	} else if want := fmt.Sprintf("unhandled event kind %q", event.Kind); err.Error() != want {
		t.Fatalf("unexpected error: %v", err)
	}
}
