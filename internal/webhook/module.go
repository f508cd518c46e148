package webhook

import (
	"go.uber.org/fx"

	"github.com/meridianshop/paygate/internal/config"
)

// Module exposes the provider registry to the fx graph.
var Module = fx.Provide(newRegistry)

type registryParams struct {
	fx.In

	Config *config.Config
}

func newRegistry(p registryParams) *Registry {
	return NewRegistry(p.Config.PayanchorSecret, p.Config.BrightpaySecret)
}
