// Package domain holds registered hotel guests and their session tokens.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

type Guest struct {
	ID         snowflake.ID `json:"id" gorm:"primaryKey"`
	Name       string       `json:"name" gorm:"type:text;not null"`
	RoomNumber string       `json:"room_number" gorm:"type:text;not null;index"`
	Email      string       `json:"email,omitempty" gorm:"type:text"`
	Phone      string       `json:"phone,omitempty" gorm:"type:text"`

	// NFCCardID links the guest's room card to their folio for tap-to-charge.
	NFCCardID string `json:"nfc_card_id,omitempty" gorm:"type:text;index"`

	CheckedOut bool      `json:"checked_out" gorm:"not null;default:false"`
	CreatedAt  time.Time `json:"created_at" gorm:"not null"`
	UpdatedAt  time.Time `json:"updated_at" gorm:"not null"`
}

func (Guest) TableName() string { return "guests" }

// GuestSession is a bearer token for the guest-facing surface. Tokens are
// opaque UUIDs with a fixed TTL; no refresh.
type GuestSession struct {
	ID        snowflake.ID `json:"id" gorm:"primaryKey"`
	GuestID   snowflake.ID `json:"guest_id" gorm:"not null;index"`
	Token     string       `json:"token" gorm:"type:text;not null;uniqueIndex"`
	DeviceID  string       `json:"device_id,omitempty" gorm:"type:text"`
	ExpiresAt time.Time    `json:"expires_at" gorm:"not null"`
	CreatedAt time.Time    `json:"created_at" gorm:"not null"`
}

func (GuestSession) TableName() string { return "guest_sessions" }

func (s *GuestSession) Valid(now time.Time) bool {
	return now.Before(s.ExpiresAt)
}
