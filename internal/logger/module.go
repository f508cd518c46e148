package logger

import "go.uber.org/fx"

// Module provides the service-wide structured logger.
var Module = fx.Provide(New)
