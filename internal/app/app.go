package app

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"

	"github.com/meridianshop/paygate/internal/adapter/notify"
	"github.com/meridianshop/paygate/internal/config"
	"github.com/meridianshop/paygate/internal/domain/repository"
	"github.com/meridianshop/paygate/internal/storage/postgres"
	"github.com/meridianshop/paygate/internal/usecase"
	"github.com/meridianshop/paygate/internal/webhook"
	"github.com/meridianshop/paygate/internal/worker"
)

// Module wires application services, runtime components, and lifecycle hooks.
var Module = fx.Options(
	fx.Provide(
		newFacade,
		newHTTPServer,
		newRetryWorker,
	),
	fx.Invoke(registerLifecycle),
)

func newFacade(p facadeParams) *ReconcilerFacade {
	return NewReconcilerFacade(p.Registry, p.Reconciler, p.Notifications, p.Alerts, p.Notifier, p.Storage)
}

type serverParams struct {
	fx.In

	Config *config.Config
	Router *gin.Engine
}

func newHTTPServer(p serverParams) *http.Server {
	return &http.Server{
		Addr:    p.Config.RunAddress,
		Handler: p.Router,
	}
}

type workerParams struct {
	fx.In

	Facade *ReconcilerFacade
	Config *config.Config
	Logger *slog.Logger
}

func newRetryWorker(p workerParams) *worker.NotificationRetryWorker {
	return worker.NewNotificationRetryWorker(
		p.Facade,
		p.Config.RetryScanInterval,
		p.Config.RetryBatchSize,
		p.Config.WorkerPoolSize,
		p.Config.RetryMaxAttempts,
		p.Logger,
	)
}

type lifecycleParams struct {
	fx.In

	Lifecycle  fx.Lifecycle
	Shutdowner fx.Shutdowner
	Logger     *slog.Logger
	Server     *http.Server
	Worker     *worker.NotificationRetryWorker
	Config     *config.Config
}

func registerLifecycle(p lifecycleParams) {
	p.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			p.Logger.Info("starting paygate", slog.String("addr", p.Server.Addr))
			p.Worker.Start(ctx)
			go func() {
				if err := p.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					p.Logger.Error("http server terminated", slog.String("error", err.Error()))
					_ = p.Shutdowner.Shutdown()
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			p.Worker.Stop()

			shutdownCtx := ctx
			cancel := func() {}
			if _, ok := ctx.Deadline(); !ok {
				shutdownCtx, cancel = context.WithTimeout(ctx, p.Config.ShutdownTimeout)
			}
			defer cancel()

			if err := p.Server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			p.Logger.Info("paygate stopped")
			return nil
		},
	})
}

type facadeParams struct {
	fx.In

	Registry      *webhook.Registry
	Reconciler    *usecase.ReconcileUseCase
	Notifications repository.NotificationRepository
	Alerts        repository.AlertRepository
	Notifier      notify.Client
	Storage       *postgres.Storage
}
