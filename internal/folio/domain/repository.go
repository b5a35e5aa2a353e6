package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrFolioNotFound      = errors.New("folio not found")
	ErrChargeNotFound     = errors.New("charge not found")
	ErrFolioNotOpen       = errors.New("folio is not open")
	ErrBalanceOutstanding = errors.New("folio balance is not settled")
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, folio *Folio) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Folio, error)
	FindByGuestID(ctx context.Context, db *gorm.DB, guestID snowflake.ID) (*Folio, error)
	Update(ctx context.Context, db *gorm.DB, folio *Folio) error

	InsertCharge(ctx context.Context, db *gorm.DB, charge *Charge) error
	FindChargeByKey(ctx context.Context, db *gorm.DB, folioID snowflake.ID, key string) (*Charge, error)
	ListCharges(ctx context.Context, db *gorm.DB, folioID snowflake.ID) ([]Charge, error)

	// SumCharges and SumCompletedPayments back the aggregator; both must be
	// single aggregation queries, not row scans in Go.
	SumCharges(ctx context.Context, db *gorm.DB, folioID snowflake.ID) (decimal.Decimal, error)
	SumCompletedPayments(ctx context.Context, db *gorm.DB, folioID snowflake.ID) (decimal.Decimal, error)
}
