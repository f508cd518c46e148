package di

import (
	"go.uber.org/fx"

	"github.com/meridianshop/paygate/internal/adapter/crm"
	"github.com/meridianshop/paygate/internal/adapter/notify"
	"github.com/meridianshop/paygate/internal/app"
	"github.com/meridianshop/paygate/internal/config"
	"github.com/meridianshop/paygate/internal/logger"
	"github.com/meridianshop/paygate/internal/server/http/handlers"
	"github.com/meridianshop/paygate/internal/server/http/router"
	"github.com/meridianshop/paygate/internal/storage/postgres"
	"github.com/meridianshop/paygate/internal/usecase"
	"github.com/meridianshop/paygate/internal/webhook"
)

func Module(opts ...fx.Option) fx.Option {
	modules := []fx.Option{
		config.Module,
		logger.Module,
		postgres.Module,
		crm.Module,
		notify.Module,
		webhook.Module,
		usecase.Module,
		fx.Provide(func(f *app.ReconcilerFacade) handlers.ReconcilerFacade { return f }),
		router.Module,
		app.Module,
	}
	modules = append(modules, opts...)
	return fx.Options(modules...)
}
