package medicine

import (
	"github.com/pharmindex/pharmindex/internal/medicine/repository"
	"github.com/pharmindex/pharmindex/internal/medicine/service"
	"go.uber.org/fx"
)

var Module = fx.Module("medicine.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
