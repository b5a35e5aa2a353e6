// Package cash settles front-desk payments. Cash and card-present
// payments are captured by staff on the spot, so the charge resolves
// synchronously with no external call.
package cash

import (
	"context"

	"github.com/sysnyx/syspay/internal/payment/domain"
)

type Adapter struct {
	method domain.Method
}

func NewCash() *Adapter {
	return &Adapter{method: domain.MethodCash}
}

func NewCard() *Adapter {
	return &Adapter{method: domain.MethodCard}
}

func (a *Adapter) Method() domain.Method {
	return a.method
}

func (a *Adapter) Charge(ctx context.Context, payment *domain.Payment) (domain.Resolution, error) {
	return domain.Resolution{Status: domain.StatusCompleted}, nil
}
