package domain

import (
	"context"
)

type CreateGuestRequest struct {
	Name       string `json:"name"`
	RoomNumber string `json:"room_number"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	NFCCardID  string `json:"nfc_card_id"`
}

type UpdateGuestRequest struct {
	Name       *string `json:"name"`
	RoomNumber *string `json:"room_number"`
	Email      *string `json:"email"`
	Phone      *string `json:"phone"`
	NFCCardID  *string `json:"nfc_card_id"`
	CheckedOut *bool   `json:"checked_out"`
}

// Service registers guests and manages their session tokens. Registration
// opens the guest's folio in the same transaction.
type Service interface {
	Create(ctx context.Context, req CreateGuestRequest) (*Guest, error)
	Get(ctx context.Context, id string) (*Guest, error)
	GetByNFCCardID(ctx context.Context, cardID string) (*Guest, error)
	List(ctx context.Context, opts ListOptions) ([]Guest, error)
	Update(ctx context.Context, id string, req UpdateGuestRequest) (*Guest, error)

	// IssueSession mints a fresh bearer token for the guest's device.
	IssueSession(ctx context.Context, guestID, deviceID string) (*GuestSession, error)

	// ValidateToken resolves a bearer token to its guest, rejecting
	// unknown and expired tokens alike.
	ValidateToken(ctx context.Context, token string) (*Guest, error)
}
