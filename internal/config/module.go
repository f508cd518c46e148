package config

import "go.uber.org/fx"

// Module provides the parsed service configuration.
var Module = fx.Provide(Load)
