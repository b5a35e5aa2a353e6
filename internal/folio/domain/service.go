package domain

import (
	"context"
	"encoding/json"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/sysnyx/syspay/internal/pricing"
)

type AddChargeRequest struct {
	FolioID   string `json:"-"`
	ServiceID string `json:"service_id"`

	// Quantity defaults to 1 when omitted; an explicit non-positive value
	// is rejected for per-unit services.
	Quantity *int `json:"quantity"`

	Extras      json.RawMessage `json:"extras"`
	Description string          `json:"description"`

	// IdempotencyKey may come from the request body or the
	// Idempotency-Key header; header wins.
	IdempotencyKey string `json:"idempotency_key"`

	CreatedBy string `json:"-"`
}

type PreviewRequest struct {
	ServiceID string          `json:"service_id"`
	Quantity  *int            `json:"quantity"`
	Extras    json.RawMessage `json:"extras"`

	// At overrides the evaluation clock for time-conditioned rules.
	At *time.Time `json:"at"`
}

type PreviewResult struct {
	BaseAmount  decimal.Decimal   `json:"base_amount"`
	FinalAmount decimal.Decimal   `json:"final_amount"`
	Breakdown   pricing.Breakdown `json:"breakdown"`
}

type FolioDetail struct {
	Folio
	Charges []Charge `json:"charges"`
}

// Service manages folios: charge creation with frozen pricing, total
// recalculation, and lifecycle transitions.
type Service interface {
	Get(ctx context.Context, id string) (*FolioDetail, error)
	GetByGuestID(ctx context.Context, guestID snowflake.ID) (*FolioDetail, error)

	// AddCharge prices the service and persists a frozen charge. A repeated
	// non-empty idempotency key on the same folio returns the prior charge
	// unchanged.
	AddCharge(ctx context.Context, req AddChargeRequest) (*Charge, error)

	// Preview runs the calculator and rule chain without persisting.
	Preview(ctx context.Context, req PreviewRequest) (*PreviewResult, error)

	// Recalculate recomputes the cached totals from the source rows. It must
	// run inside the same transaction as the mutation that invalidated them.
	Recalculate(ctx context.Context, tx *gorm.DB, folioID snowflake.ID) (*Folio, error)

	// CreateForGuest opens a folio for a newly registered guest.
	CreateForGuest(ctx context.Context, tx *gorm.DB, guestID snowflake.ID) (*Folio, error)

	Settle(ctx context.Context, id string) (*Folio, error)
	Cancel(ctx context.Context, id string) (*Folio, error)
}
