package postgres

import (
	"context"
	"log/slog"

	"go.uber.org/fx"

	"github.com/meridianshop/paygate/internal/config"
	"github.com/meridianshop/paygate/internal/domain/repository"
)

// Module wires PostgreSQL storage and repository adapters.
var Module = fx.Options(
	fx.Provide(newStorage),
	fx.Provide(
		func(s *Storage) repository.OrderRepository { return s.Orders() },
		func(s *Storage) repository.CustomerRepository { return s.Customers() },
		func(s *Storage) repository.RewardRepository { return s.Rewards() },
		func(s *Storage) repository.PromoRepository { return s.Promos() },
		func(s *Storage) repository.StreakRepository { return s.Streaks() },
		func(s *Storage) repository.NotificationRepository { return s.Notifications() },
		func(s *Storage) repository.AlertRepository { return s.Alerts() },
	),
	fx.Invoke(registerLifecycle),
)

type storageParams struct {
	fx.In

	Ctx    context.Context
	Config *config.Config
	Logger *slog.Logger
}

func newStorage(p storageParams) (*Storage, error) {
	opts := Options{
		StreakMinTotal:   p.Config.StreakMinTotal,
		StreakTargetDays: p.Config.StreakTargetDays,
	}
	return New(p.Ctx, p.Config.DatabaseURI, opts, p.Logger)
}

func registerLifecycle(lc fx.Lifecycle, storage *Storage) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			storage.Close()
			return nil
		},
	})
}
