package catalog

import (
	"go.uber.org/fx"

	"github.com/sysnyx/syspay/internal/catalog/repository"
	"github.com/sysnyx/syspay/internal/catalog/service"
)

var Module = fx.Module("catalog.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
