package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, payment *Payment) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Payment, error)
	ListByFolio(ctx context.Context, db *gorm.DB, folioID snowflake.ID) ([]Payment, error)
	Update(ctx context.Context, db *gorm.DB, payment *Payment) error
}
