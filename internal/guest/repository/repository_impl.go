package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"

	"github.com/sysnyx/syspay/internal/guest/domain"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, guest *domain.Guest) error {
	return db.WithContext(ctx).Create(guest).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Guest, error) {
	var guest domain.Guest
	err := db.WithContext(ctx).
		Where("id = ?", id).
		First(&guest).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &guest, nil
}

func (r *repo) FindByNFCCardID(ctx context.Context, db *gorm.DB, cardID string) (*domain.Guest, error) {
	var guest domain.Guest
	err := db.WithContext(ctx).
		Where("nfc_card_id = ?", cardID).
		First(&guest).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &guest, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, opts domain.ListOptions) ([]domain.Guest, error) {
	query := db.WithContext(ctx).Model(&domain.Guest{})
	if opts.RoomNumber != "" {
		query = query.Where("room_number = ?", opts.RoomNumber)
	}
	if opts.Limit > 0 {
		query = query.Limit(opts.Limit)
	}
	if opts.Offset > 0 {
		query = query.Offset(opts.Offset)
	}

	var guests []domain.Guest
	if err := query.Order("created_at ASC").Find(&guests).Error; err != nil {
		return nil, err
	}
	return guests, nil
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, guest *domain.Guest) error {
	return db.WithContext(ctx).Save(guest).Error
}

func (r *repo) InsertSession(ctx context.Context, db *gorm.DB, session *domain.GuestSession) error {
	return db.WithContext(ctx).Create(session).Error
}

func (r *repo) FindSessionByToken(ctx context.Context, db *gorm.DB, token string) (*domain.GuestSession, error) {
	var session domain.GuestSession
	err := db.WithContext(ctx).
		Where("token = ?", token).
		First(&session).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &session, nil
}
