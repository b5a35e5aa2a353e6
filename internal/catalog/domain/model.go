// Package domain holds the service catalog records: billable services and
// the pricing rules attached to them.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

type ServiceType string

const (
	ServiceTypeFixed    ServiceType = "fixed"
	ServiceTypePerUnit  ServiceType = "per_unit"
	ServiceTypeVariable ServiceType = "variable"
)

func (t ServiceType) Valid() bool {
	switch t {
	case ServiceTypeFixed, ServiceTypePerUnit, ServiceTypeVariable:
		return true
	}
	return false
}

type RuleType string

const (
	RuleTypeTax       RuleType = "tax"
	RuleTypeDiscount  RuleType = "discount"
	RuleTypeSurcharge RuleType = "surcharge"
)

func (t RuleType) Valid() bool {
	switch t {
	case RuleTypeTax, RuleTypeDiscount, RuleTypeSurcharge:
		return true
	}
	return false
}

// Increases reports whether the rule raises the running amount. Tax and
// surcharge multiply by 1+value/100, discount by 1-value/100.
func (t RuleType) Increases() bool {
	return t == RuleTypeTax || t == RuleTypeSurcharge
}

// RuleConditions is the structured predicate attached to a rule. Only the
// peak-hour window exists today; the struct keeps the column extensible
// without falling back to an open map.
type RuleConditions struct {
	// PeakHours restricts the rule to a daily "HH:MM-HH:MM" window,
	// inclusive on both ends.
	PeakHours string `json:"peak_hours,omitempty"`
}

func (c RuleConditions) Empty() bool {
	return c.PeakHours == ""
}

// Service is a catalog entry with flexible pricing.
type Service struct {
	ID          snowflake.ID    `json:"id" gorm:"primaryKey"`
	Name        string          `json:"name" gorm:"type:text;not null"`
	Description string          `json:"description" gorm:"type:text"`
	ServiceType ServiceType     `json:"service_type" gorm:"type:text;not null"`
	BasePrice   decimal.Decimal `json:"base_price" gorm:"type:decimal(10,2);not null"`
	IsActive    bool            `json:"is_active" gorm:"not null;default:true"`
	CreatedAt   time.Time       `json:"created_at" gorm:"not null"`
	UpdatedAt   time.Time       `json:"updated_at" gorm:"not null"`

	// Rules are owned by the service and cascade-deleted with it.
	Rules []PricingRule `json:"rules,omitempty" gorm:"foreignKey:ServiceID;constraint:OnDelete:CASCADE"`
}

func (Service) TableName() string { return "services" }

// PricingRule is a percentage modifier (0-100 scale) applied to a service's
// base amount. Lower priority applies first; ties break on creation order.
// Rules are never re-read for historical charges, which freeze a breakdown
// snapshot at charge time.
type PricingRule struct {
	ID         snowflake.ID    `json:"id" gorm:"primaryKey"`
	ServiceID  snowflake.ID    `json:"service_id" gorm:"not null;index"`
	Name       string          `json:"name" gorm:"type:text;not null"`
	RuleType   RuleType        `json:"rule_type" gorm:"type:text;not null"`
	Value      decimal.Decimal `json:"value" gorm:"type:decimal(5,2);not null"`
	Conditions RuleConditions  `json:"conditions" gorm:"serializer:json"`
	Priority   int             `json:"priority" gorm:"not null;default:0"`
	IsActive   bool            `json:"is_active" gorm:"not null;default:true"`
	CreatedAt  time.Time       `json:"created_at" gorm:"not null"`
}

func (PricingRule) TableName() string { return "pricing_rules" }
