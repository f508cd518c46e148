package router

import "go.uber.org/fx"

// Module provides the gin engine with the webhook and ops routes mounted.
var Module = fx.Provide(Setup)
