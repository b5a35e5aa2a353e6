package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	foliodomain "github.com/sysnyx/syspay/internal/folio/domain"
)

type repo struct{}

func Provide() foliodomain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, folio *foliodomain.Folio) error {
	return db.WithContext(ctx).Create(folio).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*foliodomain.Folio, error) {
	var folio foliodomain.Folio
	err := db.WithContext(ctx).First(&folio, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &folio, nil
}

func (r *repo) FindByGuestID(ctx context.Context, db *gorm.DB, guestID snowflake.ID) (*foliodomain.Folio, error) {
	var folio foliodomain.Folio
	err := db.WithContext(ctx).First(&folio, "guest_id = ?", guestID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &folio, nil
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, folio *foliodomain.Folio) error {
	return db.WithContext(ctx).Save(folio).Error
}

func (r *repo) InsertCharge(ctx context.Context, db *gorm.DB, charge *foliodomain.Charge) error {
	return db.WithContext(ctx).Create(charge).Error
}

func (r *repo) FindChargeByKey(ctx context.Context, db *gorm.DB, folioID snowflake.ID, key string) (*foliodomain.Charge, error) {
	var charge foliodomain.Charge
	err := db.WithContext(ctx).
		First(&charge, "folio_id = ? AND idempotency_key = ?", folioID, key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &charge, nil
}

func (r *repo) ListCharges(ctx context.Context, db *gorm.DB, folioID snowflake.ID) ([]foliodomain.Charge, error) {
	var charges []foliodomain.Charge
	err := db.WithContext(ctx).
		Where("folio_id = ?", folioID).
		Order("created_at DESC, id DESC").
		Find(&charges).Error
	if err != nil {
		return nil, err
	}
	return charges, nil
}

type sumRow struct {
	Total decimal.Decimal
}

func (r *repo) SumCharges(ctx context.Context, db *gorm.DB, folioID snowflake.ID) (decimal.Decimal, error) {
	var row sumRow
	err := db.WithContext(ctx).Raw(
		`SELECT COALESCE(SUM(final_amount), 0) AS total FROM charges WHERE folio_id = ?`,
		folioID,
	).Scan(&row).Error
	if err != nil {
		return decimal.Zero, err
	}
	return row.Total, nil
}

func (r *repo) SumCompletedPayments(ctx context.Context, db *gorm.DB, folioID snowflake.ID) (decimal.Decimal, error) {
	var row sumRow
	err := db.WithContext(ctx).Raw(
		`SELECT COALESCE(SUM(amount), 0) AS total FROM payments WHERE folio_id = ? AND status = 'completed'`,
		folioID,
	).Scan(&row).Error
	if err != nil {
		return decimal.Zero, err
	}
	return row.Total, nil
}

// IsDuplicateKey reports whether err is a unique constraint violation. The
// postgres and sqlite dialectors translate to gorm.ErrDuplicatedKey; the
// message check covers drivers that do not.
func IsDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "duplicate key")
}
