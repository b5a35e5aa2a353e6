// Package domain holds the folio records: a guest's running bill and the
// frozen charges on it.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"

	"github.com/sysnyx/syspay/internal/pricing"
)

type FolioStatus string

const (
	FolioStatusOpen      FolioStatus = "open"
	FolioStatusSettled   FolioStatus = "settled"
	FolioStatusCancelled FolioStatus = "cancelled"
)

// Folio aggregates all charges and payments for one guest. The totals are
// cache fields recomputed from the source rows after every charge/payment
// mutation, inside the same transaction; they are never mutated directly.
type Folio struct {
	ID            snowflake.ID    `json:"id" gorm:"primaryKey"`
	GuestID       snowflake.ID    `json:"guest_id" gorm:"not null;uniqueIndex"`
	Status        FolioStatus     `json:"status" gorm:"type:text;not null;default:open"`
	TotalCharges  decimal.Decimal `json:"total_charges" gorm:"type:decimal(10,2);not null;default:0"`
	TotalPayments decimal.Decimal `json:"total_payments" gorm:"type:decimal(10,2);not null;default:0"`
	Balance       decimal.Decimal `json:"balance" gorm:"type:decimal(10,2);not null;default:0"`
	CreatedAt     time.Time       `json:"created_at" gorm:"not null"`
	UpdatedAt     time.Time       `json:"updated_at" gorm:"not null"`
	SettledAt     *time.Time      `json:"settled_at"`
}

func (Folio) TableName() string { return "folios" }

// Charge is an immutable billed line item. Pricing is evaluated once at
// charge time and frozen: base amount, final amount, and the breakdown
// snapshot are never re-derived from current rule state.
type Charge struct {
	ID          snowflake.ID      `json:"id" gorm:"primaryKey"`
	FolioID     snowflake.ID      `json:"folio_id" gorm:"not null;index"`
	ServiceID   snowflake.ID      `json:"service_id" gorm:"not null"`
	Description string            `json:"description" gorm:"type:text;not null"`
	Quantity    int               `json:"quantity" gorm:"not null;default:1"`
	BaseAmount  decimal.Decimal   `json:"base_amount" gorm:"type:decimal(10,2);not null"`
	FinalAmount decimal.Decimal   `json:"final_amount" gorm:"type:decimal(10,2);not null"`
	Breakdown   pricing.Breakdown `json:"breakdown" gorm:"serializer:json"`

	// IdempotencyKey prevents duplicate charges from retried requests,
	// e.g. two near-simultaneous NFC taps. Unique per folio when set;
	// enforced by a partial unique index.
	IdempotencyKey string `json:"idempotency_key,omitempty" gorm:"type:text;index"`

	CreatedBy string    `json:"created_by,omitempty" gorm:"type:text"`
	CreatedAt time.Time `json:"created_at" gorm:"not null"`
}

func (Charge) TableName() string { return "charges" }
