// Package seed loads the starter catalog and demo guests: the hotel's
// standard services with their pricing rules, and a few checked-in guests
// with open folios. Safe to run repeatedly.
package seed

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	catalogdomain "github.com/sysnyx/syspay/internal/catalog/domain"
	foliodomain "github.com/sysnyx/syspay/internal/folio/domain"
	guestdomain "github.com/sysnyx/syspay/internal/guest/domain"
	"github.com/sysnyx/syspay/internal/money"
)

type serviceSpec struct {
	name        string
	description string
	serviceType catalogdomain.ServiceType
	basePrice   string
	rules       []ruleSpec
}

type ruleSpec struct {
	name      string
	ruleType  catalogdomain.RuleType
	value     string
	peakHours string
	priority  int
}

var vat = ruleSpec{name: "VAT", ruleType: catalogdomain.RuleTypeTax, value: "16.00", priority: 2}

var catalogSeed = []serviceSpec{
	{
		name:        "Valet Parking",
		description: "Per-day valet parking",
		serviceType: catalogdomain.ServiceTypePerUnit,
		basePrice:   "5.00",
		rules: []ruleSpec{
			{name: "VAT", ruleType: catalogdomain.RuleTypeTax, value: "16.00", priority: 1},
		},
	},
	{
		name:        "Spa Treatment",
		description: "Signature spa package",
		serviceType: catalogdomain.ServiceTypeFixed,
		basePrice:   "100.00",
		rules: []ruleSpec{
			{name: "Member Discount", ruleType: catalogdomain.RuleTypeDiscount, value: "10.00", priority: 1},
			vat,
		},
	},
	{
		name:        "Restaurant",
		description: "In-house restaurant orders",
		serviceType: catalogdomain.ServiceTypeVariable,
		basePrice:   "0.00",
		rules: []ruleSpec{
			{name: "Service Charge", ruleType: catalogdomain.RuleTypeSurcharge, value: "10.00", priority: 1},
			vat,
		},
	},
	{
		name:        "Room Service",
		description: "Orders delivered to the room",
		serviceType: catalogdomain.ServiceTypeVariable,
		basePrice:   "0.00",
		rules: []ruleSpec{
			{name: "Peak Hours Surcharge", ruleType: catalogdomain.RuleTypeSurcharge, value: "20.00", peakHours: "18:00-22:00", priority: 1},
			vat,
		},
	},
	{
		name:        "Laundry",
		description: "Per-item laundry",
		serviceType: catalogdomain.ServiceTypePerUnit,
		basePrice:   "8.00",
		rules: []ruleSpec{
			{name: "VAT", ruleType: catalogdomain.RuleTypeTax, value: "16.00", priority: 1},
		},
	},
}

type guestSpec struct {
	name       string
	roomNumber string
	nfcCardID  string
}

var guestSeed = []guestSpec{
	{name: "Amina Odhiambo", roomNumber: "204", nfcCardID: "CARD-204-A"},
	{name: "Daniel Kiprop", roomNumber: "310", nfcCardID: "CARD-310-A"},
	{name: "Grace Wanjiru", roomNumber: "512", nfcCardID: "CARD-512-A"},
}

// Run seeds the catalog and demo guests inside one transaction.
func Run(db *gorm.DB) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		return err
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, spec := range catalogSeed {
			if err := ensureService(ctx, tx, node, spec); err != nil {
				return err
			}
		}
		for _, spec := range guestSeed {
			if err := ensureGuest(ctx, tx, node, spec); err != nil {
				return err
			}
		}
		return nil
	})
}

func ensureService(ctx context.Context, tx *gorm.DB, node *snowflake.Node, spec serviceSpec) error {
	var existing catalogdomain.Service
	err := tx.WithContext(ctx).Where("name = ?", spec.name).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	svc := catalogdomain.Service{
		ID:          node.Generate(),
		Name:        spec.name,
		Description: spec.description,
		ServiceType: spec.serviceType,
		BasePrice:   money.MustFromString(spec.basePrice),
		IsActive:    true,
	}
	if err := tx.WithContext(ctx).Create(&svc).Error; err != nil {
		return err
	}

	for _, r := range spec.rules {
		rule := catalogdomain.PricingRule{
			ID:         node.Generate(),
			ServiceID:  svc.ID,
			Name:       r.name,
			RuleType:   r.ruleType,
			Value:      decimal.RequireFromString(r.value),
			Conditions: catalogdomain.RuleConditions{PeakHours: r.peakHours},
			Priority:   r.priority,
			IsActive:   true,
		}
		if err := tx.WithContext(ctx).Create(&rule).Error; err != nil {
			return err
		}
	}
	return nil
}

func ensureGuest(ctx context.Context, tx *gorm.DB, node *snowflake.Node, spec guestSpec) error {
	var existing guestdomain.Guest
	err := tx.WithContext(ctx).Where("room_number = ?", spec.roomNumber).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	guest := guestdomain.Guest{
		ID:         node.Generate(),
		Name:       spec.name,
		RoomNumber: spec.roomNumber,
		NFCCardID:  spec.nfcCardID,
	}
	if err := tx.WithContext(ctx).Create(&guest).Error; err != nil {
		return err
	}

	folio := foliodomain.Folio{
		ID:      node.Generate(),
		GuestID: guest.ID,
		Status:  foliodomain.FolioStatusOpen,
	}
	return tx.WithContext(ctx).Create(&folio).Error
}
