package storage

import "go.uber.org/fx"

var Module = fx.Module("storage.gateway",
	fx.Provide(NewS3Gateway),
)
