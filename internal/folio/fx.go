package folio

import (
	"go.uber.org/fx"

	"github.com/sysnyx/syspay/internal/folio/repository"
	"github.com/sysnyx/syspay/internal/folio/service"
)

var Module = fx.Module("folio.service",
	fx.Provide(
		repository.Provide,
		service.New,
	),
)
