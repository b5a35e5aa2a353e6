package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	auditdomain "github.com/sysnyx/syspay/internal/audit/domain"
	catalogdomain "github.com/sysnyx/syspay/internal/catalog/domain"
	"github.com/sysnyx/syspay/internal/clock"
	foliodomain "github.com/sysnyx/syspay/internal/folio/domain"
	"github.com/sysnyx/syspay/internal/folio/repository"
	"github.com/sysnyx/syspay/internal/money"
	"github.com/sysnyx/syspay/internal/pricing"
)

type Service struct {
	db  *gorm.DB
	log *zap.Logger

	genID       *snowflake.Node
	clk         clock.Clock
	repo        foliodomain.Repository
	catalogRepo catalogdomain.Repository
	engine      *pricing.Engine
	recorder    auditdomain.Recorder
}

type Params struct {
	fx.In

	DB          *gorm.DB
	Log         *zap.Logger
	GenID       *snowflake.Node
	Clock       clock.Clock
	Repo        foliodomain.Repository
	CatalogRepo catalogdomain.Repository
	Engine      *pricing.Engine
	Recorder    auditdomain.Recorder
}

func New(p Params) foliodomain.Service {
	return &Service{
		db:  p.DB,
		log: p.Log.Named("folio.service"),

		genID:       p.GenID,
		clk:         p.Clock,
		repo:        p.Repo,
		catalogRepo: p.CatalogRepo,
		engine:      p.Engine,
		recorder:    p.Recorder,
	}
}

func (s *Service) Get(ctx context.Context, id string) (*foliodomain.FolioDetail, error) {
	folioID, err := parseID(id)
	if err != nil {
		return nil, foliodomain.ErrFolioNotFound
	}
	folio, err := s.repo.FindByID(ctx, s.db, folioID)
	if err != nil {
		return nil, err
	}
	if folio == nil {
		return nil, foliodomain.ErrFolioNotFound
	}
	return s.detail(ctx, folio)
}

func (s *Service) GetByGuestID(ctx context.Context, guestID snowflake.ID) (*foliodomain.FolioDetail, error) {
	folio, err := s.repo.FindByGuestID(ctx, s.db, guestID)
	if err != nil {
		return nil, err
	}
	if folio == nil {
		return nil, foliodomain.ErrFolioNotFound
	}
	return s.detail(ctx, folio)
}

func (s *Service) detail(ctx context.Context, folio *foliodomain.Folio) (*foliodomain.FolioDetail, error) {
	charges, err := s.repo.ListCharges(ctx, s.db, folio.ID)
	if err != nil {
		return nil, err
	}
	return &foliodomain.FolioDetail{Folio: *folio, Charges: charges}, nil
}

func (s *Service) AddCharge(ctx context.Context, req foliodomain.AddChargeRequest) (*foliodomain.Charge, error) {
	folioID, err := parseID(req.FolioID)
	if err != nil {
		return nil, foliodomain.ErrFolioNotFound
	}
	folio, err := s.repo.FindByID(ctx, s.db, folioID)
	if err != nil {
		return nil, err
	}
	if folio == nil {
		return nil, foliodomain.ErrFolioNotFound
	}
	if folio.Status != foliodomain.FolioStatusOpen {
		return nil, foliodomain.ErrFolioNotOpen
	}

	key := strings.TrimSpace(req.IdempotencyKey)
	if key != "" {
		existing, err := s.repo.FindChargeByKey(ctx, s.db, folio.ID, key)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			// At-most-once per (folio, key): the prior result is the
			// result. Not an error.
			return existing, nil
		}
	}

	svc, err := s.lookupService(ctx, req.ServiceID)
	if err != nil {
		return nil, err
	}

	quantity := 1
	if req.Quantity != nil {
		quantity = *req.Quantity
	}

	baseAmount, err := s.engine.CalculateAmount(svc, quantity, req.Extras)
	if err != nil {
		return nil, err
	}

	rules, err := s.catalogRepo.ListActiveRules(ctx, s.db, svc.ID)
	if err != nil {
		return nil, err
	}
	finalAmount, breakdown := s.engine.ApplyRules(ctx, rules, baseAmount, nil)

	description := strings.TrimSpace(req.Description)
	if description == "" {
		description = svc.Name
	}

	charge := &foliodomain.Charge{
		ID:             s.genID.Generate(),
		FolioID:        folio.ID,
		ServiceID:      svc.ID,
		Description:    description,
		Quantity:       quantity,
		BaseAmount:     baseAmount,
		FinalAmount:    finalAmount,
		Breakdown:      breakdown,
		IdempotencyKey: key,
		CreatedBy:      req.CreatedBy,
		CreatedAt:      s.clk.Now(ctx),
	}

	var duplicate bool
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repo.InsertCharge(ctx, tx, charge); err != nil {
			if key != "" && repository.IsDuplicateKey(err) {
				// Lost the race against a concurrent identical request:
				// the winner's charge is the answer.
				duplicate = true
				return nil
			}
			return err
		}
		if _, err := s.Recalculate(ctx, tx, folio.ID); err != nil {
			return err
		}
		return s.recorder.Record(ctx, tx, auditdomain.Entry{
			Action:     auditdomain.ActionChargeCreated,
			EntityType: "charge",
			EntityID:   charge.ID,
			ActorName:  req.CreatedBy,
			NewValues:  charge,
		})
	})
	if err != nil {
		return nil, err
	}

	if duplicate {
		existing, err := s.repo.FindChargeByKey(ctx, s.db, folio.ID, key)
		if err != nil {
			return nil, err
		}
		if existing == nil {
			return nil, foliodomain.ErrChargeNotFound
		}
		return existing, nil
	}

	s.log.Info("charge added",
		zap.String("folio_id", folio.ID.String()),
		zap.String("charge_id", charge.ID.String()),
		zap.String("final_amount", charge.FinalAmount.StringFixed(2)))
	return charge, nil
}

func (s *Service) Preview(ctx context.Context, req foliodomain.PreviewRequest) (*foliodomain.PreviewResult, error) {
	svc, err := s.lookupService(ctx, req.ServiceID)
	if err != nil {
		return nil, err
	}

	quantity := 1
	if req.Quantity != nil {
		quantity = *req.Quantity
	}

	baseAmount, err := s.engine.CalculateAmount(svc, quantity, req.Extras)
	if err != nil {
		return nil, err
	}
	rules, err := s.catalogRepo.ListActiveRules(ctx, s.db, svc.ID)
	if err != nil {
		return nil, err
	}

	var ev *pricing.EvalContext
	if req.At != nil {
		ev = &pricing.EvalContext{Time: req.At}
	}
	finalAmount, breakdown := s.engine.ApplyRules(ctx, rules, baseAmount, ev)

	return &foliodomain.PreviewResult{
		BaseAmount:  baseAmount,
		FinalAmount: finalAmount,
		Breakdown:   breakdown,
	}, nil
}

func (s *Service) Recalculate(ctx context.Context, tx *gorm.DB, folioID snowflake.ID) (*foliodomain.Folio, error) {
	if tx == nil {
		tx = s.db
	}

	folio, err := s.repo.FindByID(ctx, tx, folioID)
	if err != nil {
		return nil, err
	}
	if folio == nil {
		return nil, foliodomain.ErrFolioNotFound
	}

	charges, err := s.repo.SumCharges(ctx, tx, folioID)
	if err != nil {
		return nil, err
	}
	payments, err := s.repo.SumCompletedPayments(ctx, tx, folioID)
	if err != nil {
		return nil, err
	}

	folio.TotalCharges = money.Quantize(charges)
	folio.TotalPayments = money.Quantize(payments)
	folio.Balance = money.Quantize(charges.Sub(payments))
	folio.UpdatedAt = s.clk.Now(ctx)

	if err := s.repo.Update(ctx, tx, folio); err != nil {
		return nil, err
	}
	return folio, nil
}

func (s *Service) CreateForGuest(ctx context.Context, tx *gorm.DB, guestID snowflake.ID) (*foliodomain.Folio, error) {
	if tx == nil {
		tx = s.db
	}
	now := s.clk.Now(ctx)
	folio := &foliodomain.Folio{
		ID:        s.genID.Generate(),
		GuestID:   guestID,
		Status:    foliodomain.FolioStatusOpen,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Insert(ctx, tx, folio); err != nil {
		return nil, err
	}
	return folio, nil
}

func (s *Service) Settle(ctx context.Context, id string) (*foliodomain.Folio, error) {
	return s.transition(ctx, id, foliodomain.FolioStatusSettled, auditdomain.ActionFolioSettled)
}

func (s *Service) Cancel(ctx context.Context, id string) (*foliodomain.Folio, error) {
	return s.transition(ctx, id, foliodomain.FolioStatusCancelled, auditdomain.ActionFolioCancelled)
}

func (s *Service) transition(ctx context.Context, id string, target foliodomain.FolioStatus, action string) (*foliodomain.Folio, error) {
	folioID, err := parseID(id)
	if err != nil {
		return nil, foliodomain.ErrFolioNotFound
	}

	var folio *foliodomain.Folio
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		folio, err = s.repo.FindByID(ctx, tx, folioID)
		if err != nil {
			return err
		}
		if folio == nil {
			return foliodomain.ErrFolioNotFound
		}
		if folio.Status != foliodomain.FolioStatusOpen {
			return foliodomain.ErrFolioNotOpen
		}
		if target == foliodomain.FolioStatusSettled && !folio.Balance.IsZero() {
			return foliodomain.ErrBalanceOutstanding
		}

		prev := *folio
		folio.Status = target
		now := s.clk.Now(ctx)
		folio.UpdatedAt = now
		if target == foliodomain.FolioStatusSettled {
			folio.SettledAt = &now
		}
		if err := s.repo.Update(ctx, tx, folio); err != nil {
			return err
		}
		return s.recorder.Record(ctx, tx, auditdomain.Entry{
			Action:     action,
			EntityType: "folio",
			EntityID:   folio.ID,
			OldValues:  map[string]any{"status": prev.Status},
			NewValues:  map[string]any{"status": folio.Status},
		})
	})
	if err != nil {
		return nil, err
	}
	return folio, nil
}

func (s *Service) lookupService(ctx context.Context, id string) (*catalogdomain.Service, error) {
	svcID, err := parseID(id)
	if err != nil {
		return nil, catalogdomain.ErrServiceNotFound
	}
	svc, err := s.catalogRepo.FindServiceByID(ctx, s.db, svcID)
	if err != nil {
		return nil, err
	}
	// Inactive services cannot be charged; same failure as a missing one.
	if svc == nil || !svc.IsActive {
		return nil, catalogdomain.ErrServiceNotFound
	}
	return svc, nil
}

func parseID(raw string) (snowflake.ID, error) {
	return snowflake.ParseString(strings.TrimSpace(raw))
}
