package mpesa

import (
	"context"
	"fmt"

	"github.com/sysnyx/syspay/internal/payment/domain"
)

// Adapter models an M-Pesa STK push. The push only starts the flow on the
// guest's phone, so Charge parks the payment at processing; the provider
// callback resolves it later through Service.Resolve.
type Adapter struct{}

func New() *Adapter {
	return &Adapter{}
}

func (a *Adapter) Method() domain.Method {
	return domain.MethodMpesa
}

func (a *Adapter) Charge(ctx context.Context, payment *domain.Payment) (domain.Resolution, error) {
	return domain.Resolution{
		Status:      domain.StatusProcessing,
		ProviderRef: fmt.Sprintf("mpesa_%s", payment.ID.String()),
	}, nil
}
