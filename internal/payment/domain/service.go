package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

type CreatePaymentRequest struct {
	FolioID string `json:"-"`

	// Amount is a decimal string, e.g. "60.00".
	Amount string `json:"amount"`
	Method Method `json:"method"`

	CreatedBy string `json:"-"`
}

// Service records payments and drives them through the gateway adapters.
// Only completed payments count toward a folio's balance.
type Service interface {
	// Create records a pending payment and immediately hands it to the
	// method's gateway adapter.
	Create(ctx context.Context, req CreatePaymentRequest) (*Payment, error)

	Get(ctx context.Context, id string) (*Payment, error)
	ListByFolio(ctx context.Context, folioID snowflake.ID) ([]Payment, error)

	// Resolve finalizes a processing payment from a gateway callback.
	Resolve(ctx context.Context, id string, success bool, providerRef, errorMessage string) (*Payment, error)

	// Refund reverses a completed payment. The amount stops counting
	// toward the folio balance.
	Refund(ctx context.Context, id string, reason string) (*Payment, error)
}
