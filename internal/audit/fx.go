package audit

import (
	"go.uber.org/fx"

	"github.com/sysnyx/syspay/internal/audit/service"
)

var Module = fx.Module("audit.service",
	fx.Provide(service.New),
)
