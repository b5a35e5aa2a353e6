package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"

	catalogdomain "github.com/sysnyx/syspay/internal/catalog/domain"
)

type repo struct{}

func Provide() catalogdomain.Repository {
	return &repo{}
}

func (r *repo) InsertService(ctx context.Context, db *gorm.DB, svc *catalogdomain.Service) error {
	return db.WithContext(ctx).Create(svc).Error
}

func (r *repo) FindServiceByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*catalogdomain.Service, error) {
	var svc catalogdomain.Service
	err := db.WithContext(ctx).First(&svc, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &svc, nil
}

func (r *repo) ListServices(ctx context.Context, db *gorm.DB, opts catalogdomain.ListOptions) ([]catalogdomain.Service, error) {
	query := db.WithContext(ctx).Model(&catalogdomain.Service{})
	if !opts.IncludeInactive {
		query = query.Where("is_active = ?", true)
	}
	if opts.ServiceType != "" {
		query = query.Where("service_type = ?", opts.ServiceType)
	}

	var items []catalogdomain.Service
	if err := query.Order("name ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) UpdateService(ctx context.Context, db *gorm.DB, svc *catalogdomain.Service) error {
	return db.WithContext(ctx).Save(svc).Error
}

func (r *repo) InsertRule(ctx context.Context, db *gorm.DB, rule *catalogdomain.PricingRule) error {
	return db.WithContext(ctx).Create(rule).Error
}

func (r *repo) FindRuleByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*catalogdomain.PricingRule, error) {
	var rule catalogdomain.PricingRule
	err := db.WithContext(ctx).First(&rule, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rule, nil
}

func (r *repo) ListRules(ctx context.Context, db *gorm.DB, serviceID snowflake.ID) ([]catalogdomain.PricingRule, error) {
	var rules []catalogdomain.PricingRule
	err := db.WithContext(ctx).
		Where("service_id = ?", serviceID).
		Order("priority ASC, created_at ASC, id ASC").
		Find(&rules).Error
	if err != nil {
		return nil, err
	}
	return rules, nil
}

func (r *repo) ListActiveRules(ctx context.Context, db *gorm.DB, serviceID snowflake.ID) ([]catalogdomain.PricingRule, error) {
	var rules []catalogdomain.PricingRule
	// id breaks created_at ties: snowflake IDs are monotonic, so this keeps
	// strict insertion order for rules created in the same millisecond.
	err := db.WithContext(ctx).
		Where("service_id = ? AND is_active = ?", serviceID, true).
		Order("priority ASC, created_at ASC, id ASC").
		Find(&rules).Error
	if err != nil {
		return nil, err
	}
	return rules, nil
}

func (r *repo) UpdateRule(ctx context.Context, db *gorm.DB, rule *catalogdomain.PricingRule) error {
	return db.WithContext(ctx).Save(rule).Error
}
