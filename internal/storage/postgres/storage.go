package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	domainErrors "github.com/meridianshop/paygate/internal/domain/errors"
	"github.com/meridianshop/paygate/internal/domain/model"
	"github.com/meridianshop/paygate/internal/domain/repository"
)

// Reward amounts applied inside the atomic reward transaction. Purchase
// points are the single authoritative computation for the whole system.
const (
	purchasePointsRate  = 0.01
	firstOrderBonus     = 500
	referralRewardBonus = 250
	streakBonusPoints   = 300
)

// PointsForTotal converts an order total into purchase points.
func PointsForTotal(total float64) float64 {
	if total <= 0 {
		return 0
	}
	return float64(int64(total * purchasePointsRate))
}

// Options tunes domain rules enforced inside storage transactions.
type Options struct {
	StreakMinTotal   float64
	StreakTargetDays int
}

type pgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
	Ping(ctx context.Context) error
	Close()
}

var newPgxPool = func(ctx context.Context, cfg *pgxpool.Config) (pgxPool, error) {
	return pgxpool.NewWithConfig(ctx, cfg)
}

// Storage acts as repository facade backed by PostgreSQL.
type Storage struct {
	pool   pgxPool
	opts   Options
	logger *slog.Logger
}

type orderRepository struct {
	storage *Storage
}

type customerRepository struct {
	storage *Storage
}

type rewardRepository struct {
	storage *Storage
}

type promoRepository struct {
	storage *Storage
}

type streakRepository struct {
	storage *Storage
}

type notificationRepository struct {
	storage *Storage
}

type alertRepository struct {
	storage *Storage
}

// New creates storage with schema initialization.
func New(ctx context.Context, dsn string, opts Options, logger *slog.Logger) (*Storage, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}

	pool, err := newPgxPool(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}

	if opts.StreakTargetDays <= 0 {
		opts.StreakTargetDays = 7
	}

	storage := &Storage{pool: pool, opts: opts, logger: logger}
	if err := storage.initSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return storage, nil
}

// Close releases database resources.
func (s *Storage) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Factory methods for domain repositories.
func (s *Storage) Orders() repository.OrderRepository {
	return &orderRepository{storage: s}
}

func (s *Storage) Customers() repository.CustomerRepository {
	return &customerRepository{storage: s}
}

func (s *Storage) Rewards() repository.RewardRepository {
	return &rewardRepository{storage: s}
}

func (s *Storage) Promos() repository.PromoRepository {
	return &promoRepository{storage: s}
}

func (s *Storage) Streaks() repository.StreakRepository {
	return &streakRepository{storage: s}
}

func (s *Storage) Notifications() repository.NotificationRepository {
	return &notificationRepository{storage: s}
}

func (s *Storage) Alerts() repository.AlertRepository {
	return &alertRepository{storage: s}
}

func (s *Storage) initSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS customers (
            id SERIAL PRIMARY KEY,
            email TEXT UNIQUE NOT NULL,
            phone TEXT NOT NULL DEFAULT '',
            name TEXT NOT NULL DEFAULT '',
            crm_contact_id TEXT NOT NULL DEFAULT '',
            ledger_customer_id TEXT NOT NULL DEFAULT '',
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS promo_codes (
            id SERIAL PRIMARY KEY,
            code TEXT UNIQUE NOT NULL,
            used_count INTEGER NOT NULL DEFAULT 0,
            max_uses INTEGER
        )`,
		`CREATE TABLE IF NOT EXISTS orders (
            id SERIAL PRIMARY KEY,
            number TEXT UNIQUE NOT NULL,
            user_id BIGINT REFERENCES customers(id),
            payment_status TEXT NOT NULL DEFAULT 'pending',
            status TEXT NOT NULL DEFAULT 'pending',
            payment_reference TEXT NOT NULL DEFAULT '',
            total DOUBLE PRECISION NOT NULL,
            promo_code_id BIGINT REFERENCES promo_codes(id),
            customer_email TEXT NOT NULL,
            customer_phone TEXT NOT NULL DEFAULT '',
            customer_name TEXT NOT NULL DEFAULT '',
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            paid_at TIMESTAMPTZ
        )`,
		`CREATE TABLE IF NOT EXISTS loyalty_balances (
            user_id BIGINT PRIMARY KEY REFERENCES customers(id),
            current DOUBLE PRECISION NOT NULL DEFAULT 0
        )`,
		`CREATE TABLE IF NOT EXISTS reward_claims (
            id SERIAL PRIMARY KEY,
            user_id BIGINT NOT NULL REFERENCES customers(id),
            reward_type TEXT NOT NULL,
            claimed_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            UNIQUE (user_id, reward_type)
        )`,
		`CREATE TABLE IF NOT EXISTS referrals (
            referred_user_id BIGINT PRIMARY KEY REFERENCES customers(id),
            referrer_user_id BIGINT NOT NULL REFERENCES customers(id),
            completed BOOLEAN NOT NULL DEFAULT FALSE,
            completed_at TIMESTAMPTZ
        )`,
		`CREATE TABLE IF NOT EXISTS purchase_streaks (
            user_id BIGINT PRIMARY KEY REFERENCES customers(id),
            current_days INTEGER NOT NULL DEFAULT 0,
            last_purchase DATE
        )`,
		`CREATE TABLE IF NOT EXISTS failed_notifications (
            id SERIAL PRIMARY KEY,
            notification_type TEXT NOT NULL,
            order_id BIGINT NOT NULL,
            recipient TEXT NOT NULL,
            error_message TEXT NOT NULL,
            status TEXT NOT NULL DEFAULT 'pending_retry',
            attempts INTEGER NOT NULL DEFAULT 0,
            metadata JSONB NOT NULL DEFAULT '{}',
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS operator_alerts (
            id TEXT PRIMARY KEY,
            alert_type TEXT NOT NULL,
            title TEXT NOT NULL,
            message TEXT NOT NULL,
            metadata JSONB NOT NULL DEFAULT '{}',
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_orders_payment_reference ON orders(payment_reference) WHERE payment_reference <> ''`,
		`CREATE INDEX IF NOT EXISTS idx_failed_notifications_status ON failed_notifications(status, created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_operator_alerts_created ON operator_alerts(created_at DESC)`,
	}

	for _, stmt := range statements {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}

	return nil
}

const orderColumns = `id, number, user_id, payment_status, status, payment_reference, total, promo_code_id,
                      customer_email, customer_phone, customer_name, created_at, paid_at`

func scanOrder(row pgx.Row) (*model.Order, error) {
	var o model.Order
	err := row.Scan(&o.ID, &o.Number, &o.UserID, &o.PaymentStatus, &o.Status, &o.PaymentReference,
		&o.Total, &o.PromoCodeID, &o.CustomerEmail, &o.CustomerPhone, &o.CustomerName, &o.CreatedAt, &o.PaidAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &o, nil
}

// --- OrderRepository implementation ---

func (r *orderRepository) GetByID(ctx context.Context, id int64) (*model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id=$1`
	return scanOrder(r.storage.pool.QueryRow(ctx, query, id))
}

func (r *orderRepository) GetByCorrelation(ctx context.Context, orderID int64, reference string) (*model.Order, error) {
	if orderID != 0 {
		order, err := r.GetByID(ctx, orderID)
		if err == nil || !errors.Is(err, domainErrors.ErrNotFound) {
			return order, err
		}
	}
	if reference == "" {
		return nil, domainErrors.ErrNotFound
	}
	query := `SELECT ` + orderColumns + ` FROM orders WHERE number=$1 OR payment_reference=$1`
	return scanOrder(r.storage.pool.QueryRow(ctx, query, reference))
}

func (r *orderRepository) ConfirmPayment(ctx context.Context, orderID int64, transactionID string) (*model.Order, model.GateOutcome, error) {
	query := `UPDATE orders
              SET payment_status='paid', status='confirmed', payment_reference=$2, paid_at=NOW()
              WHERE id=$1 AND payment_status='pending'
              RETURNING ` + orderColumns

	order, err := scanOrder(r.storage.pool.QueryRow(ctx, query, orderID, transactionID))
	if err == nil {
		return order, model.GateWon, nil
	}
	if !errors.Is(err, domainErrors.ErrNotFound) {
		return nil, "", err
	}

	// Zero rows: either the order vanished or a concurrent delivery won the
	// race. Re-read to tell the two apart.
	current, err := r.GetByID(ctx, orderID)
	if err != nil {
		return nil, "", err
	}
	return current, model.GateAlreadyProcessed, nil
}

func (r *orderRepository) ClosePayment(ctx context.Context, orderID int64, payment model.PaymentStatus, status model.OrderStatus) (bool, error) {
	const query = `UPDATE orders SET payment_status=$2, status=$3
                   WHERE id=$1 AND payment_status <> 'paid'`
	tag, err := r.storage.pool.Exec(ctx, query, orderID, payment, status)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// --- CustomerRepository implementation ---

const customerColumns = `id, email, phone, name, crm_contact_id, ledger_customer_id, created_at`

func scanCustomer(row pgx.Row) (*model.CustomerProfile, error) {
	var c model.CustomerProfile
	err := row.Scan(&c.ID, &c.Email, &c.Phone, &c.Name, &c.CRMContactID, &c.LedgerCustomerID, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *customerRepository) GetByID(ctx context.Context, id int64) (*model.CustomerProfile, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE id=$1`
	return scanCustomer(r.storage.pool.QueryRow(ctx, query, id))
}

func (r *customerRepository) GetByEmail(ctx context.Context, email string) (*model.CustomerProfile, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE email=$1`
	return scanCustomer(r.storage.pool.QueryRow(ctx, query, email))
}

func (r *customerRepository) Create(ctx context.Context, profile model.CustomerProfile) (*model.CustomerProfile, error) {
	const query = `INSERT INTO customers (email, phone, name) VALUES ($1, $2, $3)
                   ON CONFLICT (email) DO NOTHING
                   RETURNING id, created_at`
	var created model.CustomerProfile
	err := r.storage.pool.QueryRow(ctx, query, profile.Email, profile.Phone, profile.Name).Scan(&created.ID, &created.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return r.GetByEmail(ctx, profile.Email)
		}
		return nil, err
	}
	created.Email = profile.Email
	created.Phone = profile.Phone
	created.Name = profile.Name
	return &created, nil
}

func (r *customerRepository) UpdateExternalIDs(ctx context.Context, id int64, crmContactID, ledgerCustomerID string) error {
	const query = `UPDATE customers
                   SET crm_contact_id = CASE WHEN $2 <> '' THEN $2 ELSE crm_contact_id END,
                       ledger_customer_id = CASE WHEN $3 <> '' THEN $3 ELSE ledger_customer_id END
                   WHERE id=$1`
	tag, err := r.storage.pool.Exec(ctx, query, id, crmContactID, ledgerCustomerID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

// --- RewardRepository implementation ---

func (s *Storage) addPointsTx(ctx context.Context, tx pgx.Tx, userID int64, points float64) error {
	const query = `INSERT INTO loyalty_balances (user_id, current)
                   VALUES ($1, $2)
                   ON CONFLICT (user_id) DO UPDATE SET current = loyalty_balances.current + EXCLUDED.current`
	if _, err := tx.Exec(ctx, query, userID, points); err != nil {
		return err
	}
	return nil
}

// ProcessPaymentAtomically grants purchase points, the one-time first-order
// bonus and referral completion in a single transaction. A failure anywhere
// rolls back the whole grant.
func (r *rewardRepository) ProcessPaymentAtomically(ctx context.Context, orderID, userID int64, orderTotal float64) (*model.RewardResult, error) {
	result := &model.RewardResult{}

	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		points := PointsForTotal(orderTotal)
		if points > 0 {
			if err := r.storage.addPointsTx(ctx, tx, userID, points); err != nil {
				return fmt.Errorf("credit purchase points: %w", err)
			}
			result.PointsAwarded = points
		}

		const claimQuery = `INSERT INTO reward_claims (user_id, reward_type) VALUES ($1, $2)
                            ON CONFLICT (user_id, reward_type) DO NOTHING`
		tag, err := tx.Exec(ctx, claimQuery, userID, model.RewardTypeFirstOrder)
		if err != nil {
			return fmt.Errorf("claim first-order bonus: %w", err)
		}
		if tag.RowsAffected() > 0 {
			if err := r.storage.addPointsTx(ctx, tx, userID, firstOrderBonus); err != nil {
				return fmt.Errorf("credit first-order bonus: %w", err)
			}
			result.FirstOrderBonusClaimed = true
			result.PointsAwarded += firstOrderBonus
		}

		const referralQuery = `UPDATE referrals SET completed=TRUE, completed_at=NOW()
                               WHERE referred_user_id=$1 AND completed=FALSE
                               RETURNING referrer_user_id`
		var referrerID int64
		err = tx.QueryRow(ctx, referralQuery, userID).Scan(&referrerID)
		switch {
		case err == nil:
			if err := r.storage.addPointsTx(ctx, tx, referrerID, referralRewardBonus); err != nil {
				return fmt.Errorf("credit referral reward: %w", err)
			}
			result.ReferralProcessed = true
		case errors.Is(err, pgx.ErrNoRows):
			// no pending referral for this customer
		default:
			return fmt.Errorf("complete referral: %w", err)
		}

		return nil
	})
	if err != nil {
		r.storage.logger.Error("atomic reward processing failed",
			slog.Int64("order_id", orderID),
			slog.Int64("user_id", userID),
			slog.String("error", err.Error()))
		return &model.RewardResult{Success: false, ErrorMessage: err.Error()}, err
	}

	result.Success = true
	return result, nil
}

func (r *rewardRepository) HasClaim(ctx context.Context, userID int64, rewardType model.RewardType) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM reward_claims WHERE user_id=$1 AND reward_type=$2)`
	var exists bool
	if err := r.storage.pool.QueryRow(ctx, query, userID, rewardType).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// --- PromoRepository implementation ---

func (r *promoRepository) IncrementUsage(ctx context.Context, promoID int64) error {
	const query = `UPDATE promo_codes SET used_count = used_count + 1 WHERE id=$1`
	tag, err := r.storage.pool.Exec(ctx, query, promoID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

// --- StreakRepository implementation ---

func (r *streakRepository) UpdateStreak(ctx context.Context, userID int64, orderTotal float64) (*model.StreakResult, error) {
	result := &model.StreakResult{}

	if orderTotal < r.storage.opts.StreakMinTotal {
		result.Message = "order total below streak threshold"
		return result, nil
	}
	result.Qualifies = true

	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		const selectQuery = `SELECT current_days, last_purchase FROM purchase_streaks WHERE user_id=$1 FOR UPDATE`
		var (
			days int
			last *time.Time
		)
		err := tx.QueryRow(ctx, selectQuery, userID).Scan(&days, &last)
		if err != nil && !errors.Is(err, pgx.ErrNoRows) {
			return err
		}

		today := time.Now().UTC().Truncate(24 * time.Hour)
		switch {
		case last == nil:
			days = 1
		case last.UTC().Truncate(24 * time.Hour).Equal(today):
			// second qualifying purchase today, streak unchanged
		case last.UTC().Truncate(24 * time.Hour).Equal(today.AddDate(0, 0, -1)):
			days++
		default:
			days = 1
		}

		completed := days >= r.storage.opts.StreakTargetDays
		stored := days
		if completed {
			stored = 0
		}

		const upsertQuery = `INSERT INTO purchase_streaks (user_id, current_days, last_purchase)
                             VALUES ($1, $2, $3)
                             ON CONFLICT (user_id) DO UPDATE SET current_days=$2, last_purchase=$3`
		if _, err := tx.Exec(ctx, upsertQuery, userID, stored, today); err != nil {
			return err
		}

		if completed {
			if err := r.storage.addPointsTx(ctx, tx, userID, streakBonusPoints); err != nil {
				return err
			}
			result.AwardedPoints = streakBonusPoints
			result.StreakCompleted = true
			result.Message = "streak completed, bonus granted"
		}

		result.Streak = days
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// --- NotificationRepository implementation ---

const failedNotificationColumns = `id, notification_type, order_id, recipient, error_message, status, attempts, metadata, created_at, updated_at`

func scanFailedNotification(row pgx.Row) (*model.FailedNotification, error) {
	var (
		n        model.FailedNotification
		metadata []byte
	)
	err := row.Scan(&n.ID, &n.Type, &n.OrderID, &n.Recipient, &n.ErrorMessage, &n.Status, &n.Attempts, &metadata, &n.CreatedAt, &n.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	if len(metadata) > 0 {
		if err := json.Unmarshal(metadata, &n.Metadata); err != nil {
			return nil, fmt.Errorf("decode metadata: %w", err)
		}
	}
	return &n, nil
}

func (r *notificationRepository) RecordFailure(ctx context.Context, failure model.FailedNotification) (*model.FailedNotification, error) {
	metadata, err := json.Marshal(failure.Metadata)
	if err != nil {
		return nil, fmt.Errorf("encode metadata: %w", err)
	}

	const query = `INSERT INTO failed_notifications (notification_type, order_id, recipient, error_message, status, attempts, metadata)
                   VALUES ($1, $2, $3, $4, 'pending_retry', $5, $6)
                   RETURNING id, created_at, updated_at`
	stored := failure
	stored.Status = model.FailedNotificationPendingRetry
	err = r.storage.pool.QueryRow(ctx, query, failure.Type, failure.OrderID, failure.Recipient,
		failure.ErrorMessage, failure.Attempts, metadata).Scan(&stored.ID, &stored.CreatedAt, &stored.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &stored, nil
}

func (r *notificationRepository) ClaimPendingRetry(ctx context.Context, limit int) ([]model.FailedNotification, error) {
	const selectQuery = `SELECT ` + failedNotificationColumns + `
                         FROM failed_notifications
                         WHERE status='pending_retry'
                         ORDER BY created_at
                         LIMIT $1
                         FOR UPDATE SKIP LOCKED`

	var claimed []model.FailedNotification
	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx, selectQuery, limit)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			n, err := scanFailedNotification(rows)
			if err != nil {
				return err
			}
			if _, err := tx.Exec(ctx, `UPDATE failed_notifications SET status='retrying', updated_at=NOW() WHERE id=$1`, n.ID); err != nil {
				return err
			}
			n.Status = model.FailedNotificationRetrying
			claimed = append(claimed, *n)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return claimed, nil
}

func (r *notificationRepository) MarkDelivered(ctx context.Context, id int64) error {
	const query = `UPDATE failed_notifications SET status='delivered', updated_at=NOW() WHERE id=$1`
	_, err := r.storage.pool.Exec(ctx, query, id)
	return err
}

func (r *notificationRepository) MarkRetryFailed(ctx context.Context, id int64, errorMessage string, maxAttempts int) error {
	const query = `UPDATE failed_notifications
                   SET attempts = attempts + 1,
                       error_message = $2,
                       status = CASE WHEN attempts + 1 >= $3 THEN 'exhausted' ELSE 'pending_retry' END,
                       updated_at = NOW()
                   WHERE id=$1`
	_, err := r.storage.pool.Exec(ctx, query, id, errorMessage, maxAttempts)
	return err
}

func (r *notificationRepository) ListPending(ctx context.Context, limit int) ([]model.FailedNotification, error) {
	const query = `SELECT ` + failedNotificationColumns + `
                   FROM failed_notifications
                   WHERE status IN ('pending_retry', 'retrying')
                   ORDER BY created_at DESC
                   LIMIT $1`
	rows, err := r.storage.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.FailedNotification
	for rows.Next() {
		n, err := scanFailedNotification(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *n)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// --- AlertRepository implementation ---

func (r *alertRepository) Create(ctx context.Context, alert model.OperatorAlert) error {
	if alert.ID == "" {
		alert.ID = uuid.NewString()
	}
	metadata, err := json.Marshal(alert.Metadata)
	if err != nil {
		return fmt.Errorf("encode metadata: %w", err)
	}

	const query = `INSERT INTO operator_alerts (id, alert_type, title, message, metadata) VALUES ($1, $2, $3, $4, $5)`
	if _, err := r.storage.pool.Exec(ctx, query, alert.ID, alert.Type, alert.Title, alert.Message, metadata); err != nil {
		return err
	}
	return nil
}

func (r *alertRepository) ListRecent(ctx context.Context, limit int) ([]model.OperatorAlert, error) {
	const query = `SELECT id, alert_type, title, message, metadata, created_at
                   FROM operator_alerts ORDER BY created_at DESC LIMIT $1`
	rows, err := r.storage.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.OperatorAlert
	for rows.Next() {
		var (
			a        model.OperatorAlert
			metadata []byte
		)
		if err := rows.Scan(&a.ID, &a.Type, &a.Title, &a.Message, &metadata, &a.CreatedAt); err != nil {
			return nil, err
		}
		if len(metadata) > 0 {
			if err := json.Unmarshal(metadata, &a.Metadata); err != nil {
				return nil, fmt.Errorf("decode metadata: %w", err)
			}
		}
		result = append(result, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// WithinTransaction executes function inside transaction boundary.
func (s *Storage) WithinTransaction(ctx context.Context, fn func(pgx.Tx) error) (err error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		} else {
			err = tx.Commit(ctx)
		}
	}()

	err = fn(tx)
	return err
}

// HealthCheck verifies database connectivity.
func (s *Storage) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return s.pool.Ping(ctx)
}

// Logger returns storage logger.
func (s *Storage) Logger() *slog.Logger {
	return s.logger
}
