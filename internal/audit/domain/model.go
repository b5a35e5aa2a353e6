// Package domain holds the immutable audit trail for billing and payment
// operations.
package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Audit actions.
const (
	ActionChargeCreated    = "charge_created"
	ActionPaymentCreated   = "payment_created"
	ActionPaymentProcessed = "payment_processed"
	ActionPaymentFailed    = "payment_failed"
	ActionPaymentRefunded  = "payment_refunded"
	ActionFolioSettled     = "folio_settled"
	ActionFolioCancelled   = "folio_cancelled"
)

var ErrImmutable = errors.New("audit log entries are immutable")

// AuditLog is an append-only record of a billing mutation. Entries are never
// updated or deleted; the gorm hooks below back that up at the ORM layer.
type AuditLog struct {
	ID         snowflake.ID   `json:"id" gorm:"primaryKey"`
	Action     string         `json:"action" gorm:"type:text;not null;index"`
	EntityType string         `json:"entity_type" gorm:"type:text;not null;index:idx_audit_entity"`
	EntityID   snowflake.ID   `json:"entity_id" gorm:"not null;index:idx_audit_entity"`
	ActorName  string         `json:"actor_name" gorm:"type:text;not null"`
	OldValues  datatypes.JSON `json:"old_values,omitempty"`
	NewValues  datatypes.JSON `json:"new_values,omitempty"`
	Metadata   datatypes.JSON `json:"metadata,omitempty"`
	IPAddress  string         `json:"ip_address,omitempty" gorm:"type:text"`
	UserAgent  string         `json:"user_agent,omitempty" gorm:"type:text"`
	CreatedAt  time.Time      `json:"created_at" gorm:"not null;index"`
}

func (AuditLog) TableName() string { return "audit_logs" }

func (AuditLog) BeforeUpdate(*gorm.DB) error { return ErrImmutable }
func (AuditLog) BeforeDelete(*gorm.DB) error { return ErrImmutable }

// Entry is the write-side input to the recorder. Old/New/Meta take any
// JSON-serializable value; typed structures everywhere else, the generic
// form exists only at this boundary.
type Entry struct {
	Action     string
	EntityType string
	EntityID   snowflake.ID
	ActorName  string
	OldValues  any
	NewValues  any
	Metadata   any
	IPAddress  string
	UserAgent  string
}

// Recorder appends audit entries, normally inside the transaction of the
// mutation being recorded.
type Recorder interface {
	Record(ctx context.Context, db *gorm.DB, entry Entry) error
	List(ctx context.Context, entityType string, entityID snowflake.ID) ([]AuditLog, error)
}
