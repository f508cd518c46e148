package notify

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/meridianshop/paygate/internal/config"
)

// Module exposes notification client implementation to fx graph.
var Module = fx.Provide(newClient)

type clientParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

func newClient(p clientParams) (Client, error) {
	return NewHTTPClient(p.Config.NotifyAddress, p.Logger)
}
