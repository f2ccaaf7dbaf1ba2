package contact

import (
	"github.com/pharmindex/pharmindex/internal/contact/repository"
	"github.com/pharmindex/pharmindex/internal/contact/service"
	"go.uber.org/fx"
)

var Module = fx.Module("contact.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
