package category

import (
	"github.com/pharmindex/pharmindex/internal/category/repository"
	"github.com/pharmindex/pharmindex/internal/category/service"
	"go.uber.org/fx"
)

var Module = fx.Module("category.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
