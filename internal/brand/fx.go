package brand

import (
	"github.com/pharmindex/pharmindex/internal/brand/repository"
	"github.com/pharmindex/pharmindex/internal/brand/service"
	"go.uber.org/fx"
)

var Module = fx.Module("brand.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
