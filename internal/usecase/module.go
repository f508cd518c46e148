package usecase

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/meridianshop/paygate/internal/adapter/crm"
	"github.com/meridianshop/paygate/internal/adapter/notify"
	"github.com/meridianshop/paygate/internal/config"
	"github.com/meridianshop/paygate/internal/domain/repository"
)

// Module provides core business use cases to the fx container.
var Module = fx.Provide(
	NewGateUseCase,
	newReconcileUseCase,
)

type reconcileParams struct {
	fx.In

	Gate          *GateUseCase
	Customers     repository.CustomerRepository
	Rewards       repository.RewardRepository
	Promos        repository.PromoRepository
	Streaks       repository.StreakRepository
	Notifications repository.NotificationRepository
	Alerts        repository.AlertRepository
	Sync          crm.Client
	Notifier      notify.Client
	Config        *config.Config
	Logger        *slog.Logger
}

func newReconcileUseCase(p reconcileParams) *ReconcileUseCase {
	return NewReconcileUseCase(
		p.Gate,
		p.Customers,
		p.Rewards,
		p.Promos,
		p.Streaks,
		p.Notifications,
		p.Alerts,
		p.Sync,
		p.Notifier,
		ReconcileOptions{OpsEmail: p.Config.OpsEmail, SMSEnabled: p.Config.SMSEnabled},
		p.Logger,
	)
}
