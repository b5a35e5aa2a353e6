package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	catalogdomain "github.com/sysnyx/syspay/internal/catalog/domain"
	"github.com/sysnyx/syspay/internal/clock"
	"github.com/sysnyx/syspay/internal/money"
)

type Service struct {
	db  *gorm.DB
	log *zap.Logger

	genID *snowflake.Node
	clk   clock.Clock
	repo  catalogdomain.Repository
}

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Clock clock.Clock
	Repo  catalogdomain.Repository
}

func New(p Params) catalogdomain.Catalog {
	return &Service{
		db:  p.DB,
		log: p.Log.Named("catalog.service"),

		genID: p.GenID,
		clk:   p.Clock,
		repo:  p.Repo,
	}
}

func (s *Service) CreateService(ctx context.Context, req catalogdomain.CreateServiceRequest) (*catalogdomain.Service, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, catalogdomain.ErrInvalidName
	}
	if !req.ServiceType.Valid() {
		return nil, catalogdomain.ErrInvalidServiceType
	}
	if req.BasePrice.IsNegative() {
		return nil, catalogdomain.ErrInvalidBasePrice
	}

	now := s.clk.Now(ctx)
	svc := &catalogdomain.Service{
		ID:          s.genID.Generate(),
		Name:        name,
		Description: req.Description,
		ServiceType: req.ServiceType,
		BasePrice:   money.Quantize(req.BasePrice),
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.InsertService(ctx, s.db, svc); err != nil {
		return nil, err
	}

	s.log.Info("service created",
		zap.String("id", svc.ID.String()),
		zap.String("name", svc.Name),
		zap.String("service_type", string(svc.ServiceType)))
	return svc, nil
}

func (s *Service) GetService(ctx context.Context, id string) (*catalogdomain.Service, error) {
	svcID, err := parseID(id)
	if err != nil {
		return nil, catalogdomain.ErrServiceNotFound
	}

	svc, err := s.repo.FindServiceByID(ctx, s.db, svcID)
	if err != nil {
		return nil, err
	}
	if svc == nil {
		return nil, catalogdomain.ErrServiceNotFound
	}

	rules, err := s.repo.ListRules(ctx, s.db, svc.ID)
	if err != nil {
		return nil, err
	}
	svc.Rules = rules
	return svc, nil
}

func (s *Service) ListServices(ctx context.Context, opts catalogdomain.ListOptions) ([]catalogdomain.Service, error) {
	return s.repo.ListServices(ctx, s.db, opts)
}

func (s *Service) UpdateService(ctx context.Context, id string, req catalogdomain.UpdateServiceRequest) (*catalogdomain.Service, error) {
	svcID, err := parseID(id)
	if err != nil {
		return nil, catalogdomain.ErrServiceNotFound
	}
	svc, err := s.repo.FindServiceByID(ctx, s.db, svcID)
	if err != nil {
		return nil, err
	}
	if svc == nil {
		return nil, catalogdomain.ErrServiceNotFound
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, catalogdomain.ErrInvalidName
		}
		svc.Name = name
	}
	if req.Description != nil {
		svc.Description = *req.Description
	}
	if req.BasePrice != nil {
		if req.BasePrice.IsNegative() {
			return nil, catalogdomain.ErrInvalidBasePrice
		}
		svc.BasePrice = money.Quantize(*req.BasePrice)
	}
	if req.IsActive != nil {
		svc.IsActive = *req.IsActive
	}
	svc.UpdatedAt = s.clk.Now(ctx)

	if err := s.repo.UpdateService(ctx, s.db, svc); err != nil {
		return nil, err
	}
	return svc, nil
}

func (s *Service) AddRule(ctx context.Context, serviceID string, req catalogdomain.CreateRuleRequest) (*catalogdomain.PricingRule, error) {
	svcID, err := parseID(serviceID)
	if err != nil {
		return nil, catalogdomain.ErrServiceNotFound
	}
	svc, err := s.repo.FindServiceByID(ctx, s.db, svcID)
	if err != nil {
		return nil, err
	}
	if svc == nil {
		return nil, catalogdomain.ErrServiceNotFound
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, catalogdomain.ErrInvalidName
	}
	if !req.RuleType.Valid() {
		return nil, catalogdomain.ErrInvalidRuleType
	}
	if req.Value.IsNegative() || req.Value.GreaterThan(money.Hundred) {
		return nil, catalogdomain.ErrInvalidRuleValue
	}

	rule := &catalogdomain.PricingRule{
		ID:         s.genID.Generate(),
		ServiceID:  svc.ID,
		Name:       name,
		RuleType:   req.RuleType,
		Value:      money.Quantize(req.Value),
		Conditions: req.Conditions,
		Priority:   req.Priority,
		IsActive:   true,
		CreatedAt:  s.clk.Now(ctx),
	}
	if err := s.repo.InsertRule(ctx, s.db, rule); err != nil {
		return nil, err
	}

	s.log.Info("pricing rule created",
		zap.String("service_id", svc.ID.String()),
		zap.String("rule", rule.Name),
		zap.String("rule_type", string(rule.RuleType)),
		zap.Int("priority", rule.Priority))
	return rule, nil
}

func (s *Service) ListRules(ctx context.Context, serviceID string) ([]catalogdomain.PricingRule, error) {
	svcID, err := parseID(serviceID)
	if err != nil {
		return nil, catalogdomain.ErrServiceNotFound
	}
	return s.repo.ListRules(ctx, s.db, svcID)
}

func (s *Service) UpdateRule(ctx context.Context, ruleID string, req catalogdomain.UpdateRuleRequest) (*catalogdomain.PricingRule, error) {
	id, err := parseID(ruleID)
	if err != nil {
		return nil, catalogdomain.ErrRuleNotFound
	}
	rule, err := s.repo.FindRuleByID(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if rule == nil {
		return nil, catalogdomain.ErrRuleNotFound
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, catalogdomain.ErrInvalidName
		}
		rule.Name = name
	}
	if req.Value != nil {
		if req.Value.IsNegative() || req.Value.GreaterThan(money.Hundred) {
			return nil, catalogdomain.ErrInvalidRuleValue
		}
		rule.Value = money.Quantize(*req.Value)
	}
	if req.Priority != nil {
		rule.Priority = *req.Priority
	}
	if req.IsActive != nil {
		rule.IsActive = *req.IsActive
	}

	if err := s.repo.UpdateRule(ctx, s.db, rule); err != nil {
		return nil, err
	}
	return rule, nil
}

func parseID(raw string) (snowflake.ID, error) {
	return snowflake.ParseString(strings.TrimSpace(raw))
}
