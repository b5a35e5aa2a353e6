package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

var (
	ErrGuestNotFound  = errors.New("guest not found")
	ErrInvalidName    = errors.New("guest name is required")
	ErrInvalidRoom    = errors.New("room number is required")
	ErrSessionInvalid = errors.New("session token is invalid or expired")
)

type ListOptions struct {
	RoomNumber string
	Limit      int
	Offset     int
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, guest *Guest) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Guest, error)
	FindByNFCCardID(ctx context.Context, db *gorm.DB, cardID string) (*Guest, error)
	List(ctx context.Context, db *gorm.DB, opts ListOptions) ([]Guest, error)
	Update(ctx context.Context, db *gorm.DB, guest *Guest) error

	InsertSession(ctx context.Context, db *gorm.DB, session *GuestSession) error
	FindSessionByToken(ctx context.Context, db *gorm.DB, token string) (*GuestSession, error)
}
