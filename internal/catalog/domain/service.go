package domain

import (
	"context"

	"github.com/shopspring/decimal"
)

type CreateServiceRequest struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	ServiceType ServiceType     `json:"service_type"`
	BasePrice   decimal.Decimal `json:"base_price"`
}

type UpdateServiceRequest struct {
	Name        *string          `json:"name"`
	Description *string          `json:"description"`
	BasePrice   *decimal.Decimal `json:"base_price"`
	IsActive    *bool            `json:"is_active"`
}

type CreateRuleRequest struct {
	Name       string          `json:"name"`
	RuleType   RuleType        `json:"rule_type"`
	Value      decimal.Decimal `json:"value"`
	Conditions RuleConditions  `json:"conditions"`
	Priority   int             `json:"priority"`
}

type UpdateRuleRequest struct {
	Name     *string          `json:"name"`
	Value    *decimal.Decimal `json:"value"`
	Priority *int             `json:"priority"`
	IsActive *bool            `json:"is_active"`
}

// Catalog manages billable services and their pricing rules.
type Catalog interface {
	CreateService(ctx context.Context, req CreateServiceRequest) (*Service, error)
	GetService(ctx context.Context, id string) (*Service, error)
	ListServices(ctx context.Context, opts ListOptions) ([]Service, error)
	UpdateService(ctx context.Context, id string, req UpdateServiceRequest) (*Service, error)

	AddRule(ctx context.Context, serviceID string, req CreateRuleRequest) (*PricingRule, error)
	ListRules(ctx context.Context, serviceID string) ([]PricingRule, error)
	UpdateRule(ctx context.Context, ruleID string, req UpdateRuleRequest) (*PricingRule, error)
}
