package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/sysnyx/syspay/internal/catalog/domain"
	"github.com/sysnyx/syspay/internal/catalog/repository"
	"github.com/sysnyx/syspay/internal/clock"
)

func newTestCatalog(t *testing.T) domain.Catalog {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.Service{}, &domain.PricingRule{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	return New(Params{
		DB:    db,
		Log:   zap.NewNop(),
		GenID: node,
		Clock: clock.Fixed{T: time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)},
		Repo:  repository.Provide(),
	})
}

func TestCreateService_Validation(t *testing.T) {
	catalog := newTestCatalog(t)
	ctx := context.Background()

	_, err := catalog.CreateService(ctx, domain.CreateServiceRequest{
		Name:        "  ",
		ServiceType: domain.ServiceTypeFixed,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidName)

	_, err = catalog.CreateService(ctx, domain.CreateServiceRequest{
		Name:        "Spa",
		ServiceType: domain.ServiceType("hourly"),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidServiceType)

	_, err = catalog.CreateService(ctx, domain.CreateServiceRequest{
		Name:        "Spa",
		ServiceType: domain.ServiceTypeFixed,
		BasePrice:   decimal.RequireFromString("-1.00"),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidBasePrice)

	svc, err := catalog.CreateService(ctx, domain.CreateServiceRequest{
		Name:        " Spa Treatment ",
		ServiceType: domain.ServiceTypeFixed,
		BasePrice:   decimal.RequireFromString("100"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Spa Treatment", svc.Name)
	assert.Equal(t, "100.00", svc.BasePrice.StringFixed(2))
	assert.True(t, svc.IsActive)
}

func TestAddRule_ValueBounds(t *testing.T) {
	catalog := newTestCatalog(t)
	ctx := context.Background()

	svc, err := catalog.CreateService(ctx, domain.CreateServiceRequest{
		Name:        "Restaurant",
		ServiceType: domain.ServiceTypeVariable,
	})
	require.NoError(t, err)

	_, err = catalog.AddRule(ctx, svc.ID.String(), domain.CreateRuleRequest{
		Name:     "VAT",
		RuleType: domain.RuleTypeTax,
		Value:    decimal.RequireFromString("101.00"),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidRuleValue)

	_, err = catalog.AddRule(ctx, svc.ID.String(), domain.CreateRuleRequest{
		Name:     "VAT",
		RuleType: domain.RuleType("levy"),
		Value:    decimal.RequireFromString("16.00"),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidRuleType)

	rule, err := catalog.AddRule(ctx, svc.ID.String(), domain.CreateRuleRequest{
		Name:     "VAT",
		RuleType: domain.RuleTypeTax,
		Value:    decimal.RequireFromString("16.00"),
		Priority: 2,
	})
	require.NoError(t, err)
	assert.True(t, rule.IsActive)

	_, err = catalog.AddRule(ctx, "999999", domain.CreateRuleRequest{
		Name:     "VAT",
		RuleType: domain.RuleTypeTax,
		Value:    decimal.RequireFromString("16.00"),
	})
	assert.ErrorIs(t, err, domain.ErrServiceNotFound)
}

func TestUpdateRule_DeactivationAndReorder(t *testing.T) {
	catalog := newTestCatalog(t)
	ctx := context.Background()

	svc, err := catalog.CreateService(ctx, domain.CreateServiceRequest{
		Name:        "Room Service",
		ServiceType: domain.ServiceTypeVariable,
	})
	require.NoError(t, err)

	rule, err := catalog.AddRule(ctx, svc.ID.String(), domain.CreateRuleRequest{
		Name:     "Service Charge",
		RuleType: domain.RuleTypeSurcharge,
		Value:    decimal.RequireFromString("10.00"),
		Priority: 1,
	})
	require.NoError(t, err)

	off := false
	prio := 5
	updated, err := catalog.UpdateRule(ctx, rule.ID.String(), domain.UpdateRuleRequest{
		IsActive: &off,
		Priority: &prio,
	})
	require.NoError(t, err)
	assert.False(t, updated.IsActive)
	assert.Equal(t, 5, updated.Priority)
}

func TestGetService_IncludesRules(t *testing.T) {
	catalog := newTestCatalog(t)
	ctx := context.Background()

	svc, err := catalog.CreateService(ctx, domain.CreateServiceRequest{
		Name:        "Spa",
		ServiceType: domain.ServiceTypeFixed,
		BasePrice:   decimal.RequireFromString("100.00"),
	})
	require.NoError(t, err)

	_, err = catalog.AddRule(ctx, svc.ID.String(), domain.CreateRuleRequest{
		Name:     "Member Discount",
		RuleType: domain.RuleTypeDiscount,
		Value:    decimal.RequireFromString("10.00"),
		Priority: 1,
	})
	require.NoError(t, err)

	got, err := catalog.GetService(ctx, svc.ID.String())
	require.NoError(t, err)
	require.Len(t, got.Rules, 1)
	assert.Equal(t, "Member Discount", got.Rules[0].Name)

	_, err = catalog.GetService(ctx, "not-a-number")
	assert.ErrorIs(t, err, domain.ErrServiceNotFound)
}
