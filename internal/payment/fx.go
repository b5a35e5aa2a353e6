package payment

import (
	"go.uber.org/fx"

	"github.com/sysnyx/syspay/internal/config"
	"github.com/sysnyx/syspay/internal/payment/adapters/cash"
	"github.com/sysnyx/syspay/internal/payment/adapters/mpesa"
	"github.com/sysnyx/syspay/internal/payment/adapters/stripe"
	"github.com/sysnyx/syspay/internal/payment/domain"
	"github.com/sysnyx/syspay/internal/payment/repository"
	"github.com/sysnyx/syspay/internal/payment/service"
)

var Module = fx.Module("payment.service",
	fx.Provide(
		repository.Provide,
		service.New,

		fx.Annotate(
			func() domain.GatewayAdapter { return cash.NewCash() },
			fx.ResultTags(`group:"payment.adapters"`),
		),
		fx.Annotate(
			func() domain.GatewayAdapter { return cash.NewCard() },
			fx.ResultTags(`group:"payment.adapters"`),
		),
		fx.Annotate(
			func(cfg *config.Config) domain.GatewayAdapter { return stripe.New(cfg.StripeAPIKey) },
			fx.ResultTags(`group:"payment.adapters"`),
		),
		fx.Annotate(
			func() domain.GatewayAdapter { return mpesa.New() },
			fx.ResultTags(`group:"payment.adapters"`),
		),
	),
)
