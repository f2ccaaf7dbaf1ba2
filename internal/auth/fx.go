package auth

import (
	"github.com/pharmindex/pharmindex/internal/auth/repository"
	"github.com/pharmindex/pharmindex/internal/auth/service"
	"go.uber.org/fx"
)

var Module = fx.Module("auth.service",
	fx.Provide(repository.New),
	fx.Provide(service.New),
)
