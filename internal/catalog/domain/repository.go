package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

var (
	ErrServiceNotFound = errors.New("service not found")
	ErrRuleNotFound    = errors.New("pricing rule not found")

	ErrInvalidName        = errors.New("name is required")
	ErrInvalidServiceType = errors.New("invalid service type")
	ErrInvalidBasePrice   = errors.New("base price must not be negative")
	ErrInvalidRuleType    = errors.New("invalid rule type")
	ErrInvalidRuleValue   = errors.New("rule value must be between 0 and 100")
)

type ListOptions struct {
	IncludeInactive bool   `form:"include_inactive"`
	ServiceType     string `form:"service_type"`
}

type Repository interface {
	InsertService(ctx context.Context, db *gorm.DB, svc *Service) error
	FindServiceByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Service, error)
	ListServices(ctx context.Context, db *gorm.DB, opts ListOptions) ([]Service, error)
	UpdateService(ctx context.Context, db *gorm.DB, svc *Service) error

	InsertRule(ctx context.Context, db *gorm.DB, rule *PricingRule) error
	FindRuleByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*PricingRule, error)
	ListRules(ctx context.Context, db *gorm.DB, serviceID snowflake.ID) ([]PricingRule, error)
	// ListActiveRules returns the active rules for a service in application
	// order: priority ascending, creation order breaking ties. Chained
	// percentage rules are not commutative, so this ordering is load-bearing.
	ListActiveRules(ctx context.Context, db *gorm.DB, serviceID snowflake.ID) ([]PricingRule, error)
	UpdateRule(ctx context.Context, db *gorm.DB, rule *PricingRule) error
}
