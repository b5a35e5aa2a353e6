package guest

import (
	"go.uber.org/fx"

	"github.com/sysnyx/syspay/internal/guest/repository"
	"github.com/sysnyx/syspay/internal/guest/service"
)

var Module = fx.Module("guest.service",
	fx.Provide(
		repository.Provide,
		service.New,
	),
)
