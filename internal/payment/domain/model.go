package domain

import (
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

type Method string

const (
	MethodCash   Method = "cash"
	MethodCard   Method = "card"
	MethodStripe Method = "stripe"
	MethodMpesa  Method = "mpesa"
)

func (m Method) Valid() bool {
	switch m {
	case MethodCash, MethodCard, MethodStripe, MethodMpesa:
		return true
	}
	return false
}

type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
	StatusRefunded   Status = "refunded"
)

// transitions is the full state machine. Terminal states have no row.
var transitions = map[Status][]Status{
	StatusPending:    {StatusProcessing, StatusCompleted, StatusFailed},
	StatusProcessing: {StatusCompleted, StatusFailed},
	StatusCompleted:  {StatusRefunded},
}

func CanTransition(from, to Status) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

var (
	ErrPaymentNotFound   = errors.New("payment not found")
	ErrInvalidAmount     = errors.New("payment amount must be positive")
	ErrInvalidMethod     = errors.New("unsupported payment method")
	ErrPaymentNotPending = errors.New("payment has already been processed")
	ErrInvalidTransition = errors.New("invalid payment status transition")
)

type Payment struct {
	ID      snowflake.ID `gorm:"primaryKey" json:"id,string"`
	FolioID snowflake.ID `gorm:"index;not null" json:"folio_id,string"`

	Amount decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"amount"`
	Method Method          `gorm:"type:varchar(16);not null" json:"method"`
	Status Status          `gorm:"type:varchar(16);not null;default:'pending'" json:"status"`

	// ProviderRef is the gateway's identifier for this payment, set once the
	// adapter has accepted it.
	ProviderRef  string `gorm:"type:varchar(128)" json:"provider_ref,omitempty"`
	ErrorMessage string `gorm:"type:varchar(255)" json:"error_message,omitempty"`

	CreatedBy   string     `gorm:"type:varchar(64)" json:"created_by,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func (Payment) TableName() string {
	return "payments"
}

// Transition enforces the state machine on every status change.
func (p *Payment) Transition(to Status) error {
	if !CanTransition(p.Status, to) {
		return ErrInvalidTransition
	}
	p.Status = to
	return nil
}
