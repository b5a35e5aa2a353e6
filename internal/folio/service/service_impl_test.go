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

	auditdomain "github.com/sysnyx/syspay/internal/audit/domain"
	auditservice "github.com/sysnyx/syspay/internal/audit/service"
	catalogdomain "github.com/sysnyx/syspay/internal/catalog/domain"
	catalogrepo "github.com/sysnyx/syspay/internal/catalog/repository"
	"github.com/sysnyx/syspay/internal/clock"
	foliodomain "github.com/sysnyx/syspay/internal/folio/domain"
	foliorepo "github.com/sysnyx/syspay/internal/folio/repository"
	paymentdomain "github.com/sysnyx/syspay/internal/payment/domain"
	"github.com/sysnyx/syspay/internal/pricing"
)

type fixture struct {
	db   *gorm.DB
	node *snowflake.Node
	clk  clock.Clock
	svc  foliodomain.Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&catalogdomain.Service{},
		&catalogdomain.PricingRule{},
		&foliodomain.Folio{},
		&foliodomain.Charge{},
		&paymentdomain.Payment{},
		&auditdomain.AuditLog{},
	))
	db.Exec("CREATE UNIQUE INDEX IF NOT EXISTS ux_charges_folio_idem ON charges(folio_id, idempotency_key) WHERE idempotency_key <> ''")

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	log := zap.NewNop()
	clk := clock.Fixed{T: time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC)}

	recorder := auditservice.New(auditservice.Params{DB: db, Log: log, GenID: node, Clock: clk})
	engine := pricing.New(pricing.Params{Clock: clk, Log: log})

	svc := New(Params{
		DB:          db,
		Log:         log,
		GenID:       node,
		Clock:       clk,
		Repo:        foliorepo.Provide(),
		CatalogRepo: catalogrepo.Provide(),
		Engine:      engine,
		Recorder:    recorder,
	})

	return &fixture{db: db, node: node, clk: clk, svc: svc}
}

func (f *fixture) createService(t *testing.T, name string, serviceType catalogdomain.ServiceType, basePrice string) *catalogdomain.Service {
	t.Helper()
	svc := &catalogdomain.Service{
		ID:          f.node.Generate(),
		Name:        name,
		ServiceType: serviceType,
		BasePrice:   decimal.RequireFromString(basePrice),
		IsActive:    true,
	}
	require.NoError(t, f.db.Create(svc).Error)
	return svc
}

func (f *fixture) createRule(t *testing.T, serviceID snowflake.ID, name string, ruleType catalogdomain.RuleType, value string, priority int) *catalogdomain.PricingRule {
	t.Helper()
	rule := &catalogdomain.PricingRule{
		ID:        f.node.Generate(),
		ServiceID: serviceID,
		Name:      name,
		RuleType:  ruleType,
		Value:     decimal.RequireFromString(value),
		Priority:  priority,
		IsActive:  true,
	}
	require.NoError(t, f.db.Create(rule).Error)
	return rule
}

func (f *fixture) openFolio(t *testing.T) *foliodomain.Folio {
	t.Helper()
	folio, err := f.svc.CreateForGuest(context.Background(), nil, f.node.Generate())
	require.NoError(t, err)
	return folio
}

func TestAddCharge_FreezesPricing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	spa := f.createService(t, "Spa", catalogdomain.ServiceTypeFixed, "100.00")
	f.createRule(t, spa.ID, "VAT", catalogdomain.RuleTypeTax, "16.00", 1)
	folio := f.openFolio(t)

	charge, err := f.svc.AddCharge(ctx, foliodomain.AddChargeRequest{
		FolioID:   folio.ID.String(),
		ServiceID: spa.ID.String(),
	})
	require.NoError(t, err)
	assert.Equal(t, "100.00", charge.BaseAmount.StringFixed(2))
	assert.Equal(t, "116.00", charge.FinalAmount.StringFixed(2))
	require.Len(t, charge.Breakdown, 3)

	// Later rule changes must not touch the stored charge.
	require.NoError(t, f.db.Model(&catalogdomain.PricingRule{}).
		Where("service_id = ?", spa.ID).
		Update("value", decimal.RequireFromString("50.00")).Error)

	var stored foliodomain.Charge
	require.NoError(t, f.db.First(&stored, "id = ?", charge.ID).Error)
	assert.Equal(t, "116.00", stored.FinalAmount.StringFixed(2))
}

func TestAddCharge_IdempotencyKeyReturnsExisting(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	valet := f.createService(t, "Valet", catalogdomain.ServiceTypePerUnit, "5.00")
	folio := f.openFolio(t)

	qty := 2
	req := foliodomain.AddChargeRequest{
		FolioID:        folio.ID.String(),
		ServiceID:      valet.ID.String(),
		Quantity:       &qty,
		IdempotencyKey: "tap-abc123",
	}

	first, err := f.svc.AddCharge(ctx, req)
	require.NoError(t, err)

	second, err := f.svc.AddCharge(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	var count int64
	require.NoError(t, f.db.Model(&foliodomain.Charge{}).
		Where("folio_id = ?", folio.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count)

	detail, err := f.svc.Get(ctx, folio.ID.String())
	require.NoError(t, err)
	assert.Equal(t, "10.00", detail.TotalCharges.StringFixed(2))
}

func TestAddCharge_EmptyKeyNeverDeduplicates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	valet := f.createService(t, "Valet", catalogdomain.ServiceTypePerUnit, "5.00")
	folio := f.openFolio(t)

	req := foliodomain.AddChargeRequest{
		FolioID:   folio.ID.String(),
		ServiceID: valet.ID.String(),
	}
	_, err := f.svc.AddCharge(ctx, req)
	require.NoError(t, err)
	_, err = f.svc.AddCharge(ctx, req)
	require.NoError(t, err)

	var count int64
	require.NoError(t, f.db.Model(&foliodomain.Charge{}).
		Where("folio_id = ?", folio.ID).Count(&count).Error)
	assert.EqualValues(t, 2, count)
}

func TestAddCharge_LostInsertRaceReturnsWinner(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	valet := f.createService(t, "Valet", catalogdomain.ServiceTypePerUnit, "5.00")
	folio := f.openFolio(t)

	const key = "tap-race-1"
	competitor := &foliodomain.Charge{
		ID:             f.node.Generate(),
		FolioID:        folio.ID,
		ServiceID:      valet.ID,
		Description:    "Valet",
		Quantity:       1,
		BaseAmount:     decimal.RequireFromString("5.00"),
		FinalAmount:    decimal.RequireFromString("5.00"),
		IdempotencyKey: key,
		CreatedAt:      f.clk.Now(ctx),
	}

	// Sneak the competing charge in after the duplicate pre-check but
	// before the insert, the way a concurrent identical request lands.
	fired := false
	err := f.db.Callback().Create().Before("gorm:create").Register("race_competitor", func(tx *gorm.DB) {
		c, ok := tx.Statement.Dest.(*foliodomain.Charge)
		if !ok || fired || c.IdempotencyKey != key {
			return
		}
		fired = true
		tx.Session(&gorm.Session{NewDB: true}).Create(competitor)
	})
	require.NoError(t, err)

	got, err := f.svc.AddCharge(ctx, foliodomain.AddChargeRequest{
		FolioID:        folio.ID.String(),
		ServiceID:      valet.ID.String(),
		IdempotencyKey: key,
	})
	require.NoError(t, err)
	require.True(t, fired)
	assert.Equal(t, competitor.ID, got.ID)

	var count int64
	require.NoError(t, f.db.Model(&foliodomain.Charge{}).
		Where("folio_id = ? AND idempotency_key = ?", folio.ID, key).
		Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestInsertCharge_DuplicateKeyDetected(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	valet := f.createService(t, "Valet", catalogdomain.ServiceTypePerUnit, "5.00")
	folio := f.openFolio(t)
	repo := foliorepo.Provide()

	charge := func(key string) *foliodomain.Charge {
		return &foliodomain.Charge{
			ID:             f.node.Generate(),
			FolioID:        folio.ID,
			ServiceID:      valet.ID,
			Description:    "Valet",
			Quantity:       1,
			BaseAmount:     decimal.RequireFromString("5.00"),
			FinalAmount:    decimal.RequireFromString("5.00"),
			IdempotencyKey: key,
			CreatedAt:      f.clk.Now(ctx),
		}
	}

	require.NoError(t, repo.InsertCharge(ctx, f.db, charge("tap-1")))

	err := repo.InsertCharge(ctx, f.db, charge("tap-1"))
	require.Error(t, err)
	assert.True(t, foliorepo.IsDuplicateKey(err))

	// A different key is not a duplicate.
	require.NoError(t, repo.InsertCharge(ctx, f.db, charge("tap-2")))
}

func TestAddCharge_RejectsClosedFolioAndInactiveService(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	spa := f.createService(t, "Spa", catalogdomain.ServiceTypeFixed, "100.00")
	folio := f.openFolio(t)

	inactive := f.createService(t, "Old Spa", catalogdomain.ServiceTypeFixed, "80.00")
	require.NoError(t, f.db.Model(inactive).Update("is_active", false).Error)

	_, err := f.svc.AddCharge(ctx, foliodomain.AddChargeRequest{
		FolioID:   folio.ID.String(),
		ServiceID: inactive.ID.String(),
	})
	assert.ErrorIs(t, err, catalogdomain.ErrServiceNotFound)

	require.NoError(t, f.db.Model(folio).Update("status", foliodomain.FolioStatusCancelled).Error)
	_, err = f.svc.AddCharge(ctx, foliodomain.AddChargeRequest{
		FolioID:   folio.ID.String(),
		ServiceID: spa.ID.String(),
	})
	assert.ErrorIs(t, err, foliodomain.ErrFolioNotOpen)
}

func TestRecalculate_OnlyCompletedPaymentsCount(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	spa := f.createService(t, "Spa", catalogdomain.ServiceTypeFixed, "110.00")
	folio := f.openFolio(t)

	_, err := f.svc.AddCharge(ctx, foliodomain.AddChargeRequest{
		FolioID:   folio.ID.String(),
		ServiceID: spa.ID.String(),
	})
	require.NoError(t, err)

	insertPayment := func(amount string, status paymentdomain.Status) {
		require.NoError(t, f.db.Create(&paymentdomain.Payment{
			ID:      f.node.Generate(),
			FolioID: folio.ID,
			Amount:  decimal.RequireFromString(amount),
			Method:  paymentdomain.MethodCash,
			Status:  status,
		}).Error)
	}
	insertPayment("50.00", paymentdomain.StatusCompleted)
	insertPayment("40.00", paymentdomain.StatusPending)
	insertPayment("30.00", paymentdomain.StatusFailed)

	updated, err := f.svc.Recalculate(ctx, nil, folio.ID)
	require.NoError(t, err)
	assert.Equal(t, "110.00", updated.TotalCharges.StringFixed(2))
	assert.Equal(t, "50.00", updated.TotalPayments.StringFixed(2))
	assert.Equal(t, "60.00", updated.Balance.StringFixed(2))
}

func TestSettle_RequiresZeroBalance(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	spa := f.createService(t, "Spa", catalogdomain.ServiceTypeFixed, "100.00")
	folio := f.openFolio(t)

	_, err := f.svc.AddCharge(ctx, foliodomain.AddChargeRequest{
		FolioID:   folio.ID.String(),
		ServiceID: spa.ID.String(),
	})
	require.NoError(t, err)

	_, err = f.svc.Settle(ctx, folio.ID.String())
	assert.ErrorIs(t, err, foliodomain.ErrBalanceOutstanding)

	require.NoError(t, f.db.Create(&paymentdomain.Payment{
		ID:      f.node.Generate(),
		FolioID: folio.ID,
		Amount:  decimal.RequireFromString("100.00"),
		Method:  paymentdomain.MethodCash,
		Status:  paymentdomain.StatusCompleted,
	}).Error)
	_, err = f.svc.Recalculate(ctx, nil, folio.ID)
	require.NoError(t, err)

	settled, err := f.svc.Settle(ctx, folio.ID.String())
	require.NoError(t, err)
	assert.Equal(t, foliodomain.FolioStatusSettled, settled.Status)
	require.NotNil(t, settled.SettledAt)

	// A settled folio cannot be settled or cancelled again.
	_, err = f.svc.Cancel(ctx, folio.ID.String())
	assert.ErrorIs(t, err, foliodomain.ErrFolioNotOpen)
}

func TestPreview_DoesNotPersist(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	room := f.createService(t, "Room Service", catalogdomain.ServiceTypeVariable, "0.00")
	f.createRule(t, room.ID, "VAT", catalogdomain.RuleTypeTax, "16.00", 2)
	f.openFolio(t)

	extras := []byte(`[{"name":"Burger","price":12.50},{"name":"Juice","price":4.25}]`)
	result, err := f.svc.Preview(ctx, foliodomain.PreviewRequest{
		ServiceID: room.ID.String(),
		Extras:    extras,
	})
	require.NoError(t, err)
	assert.Equal(t, "16.75", result.BaseAmount.StringFixed(2))
	assert.Equal(t, "19.43", result.FinalAmount.StringFixed(2))

	var count int64
	require.NoError(t, f.db.Model(&foliodomain.Charge{}).Count(&count).Error)
	assert.EqualValues(t, 0, count)
}

func TestPreview_AtOverridesClock(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	room := f.createService(t, "Room Service", catalogdomain.ServiceTypeVariable, "0.00")
	rule := &catalogdomain.PricingRule{
		ID:         f.node.Generate(),
		ServiceID:  room.ID,
		Name:       "Peak Hours Surcharge",
		RuleType:   catalogdomain.RuleTypeSurcharge,
		Value:      decimal.RequireFromString("20.00"),
		Conditions: catalogdomain.RuleConditions{PeakHours: "18:00-22:00"},
		Priority:   1,
		IsActive:   true,
	}
	require.NoError(t, f.db.Create(rule).Error)

	extras := []byte(`[{"name":"Burger","price":10.00}]`)

	// The fixture clock sits at 14:00, outside the window.
	offPeak, err := f.svc.Preview(ctx, foliodomain.PreviewRequest{
		ServiceID: room.ID.String(),
		Extras:    extras,
	})
	require.NoError(t, err)
	assert.Equal(t, "10.00", offPeak.FinalAmount.StringFixed(2))

	at := time.Date(2026, 3, 10, 19, 30, 0, 0, time.UTC)
	peak, err := f.svc.Preview(ctx, foliodomain.PreviewRequest{
		ServiceID: room.ID.String(),
		Extras:    extras,
		At:        &at,
	})
	require.NoError(t, err)
	assert.Equal(t, "12.00", peak.FinalAmount.StringFixed(2))
}
