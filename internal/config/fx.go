package config

import "go.uber.org/fx"

// Module wires application configuration.
var Module = fx.Module("config",
	fx.Provide(
		Load,
		NewDashboardConfigHolder,
	),
)
