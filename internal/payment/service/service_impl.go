package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	auditdomain "github.com/sysnyx/syspay/internal/audit/domain"
	"github.com/sysnyx/syspay/internal/clock"
	foliodomain "github.com/sysnyx/syspay/internal/folio/domain"
	"github.com/sysnyx/syspay/internal/money"
	"github.com/sysnyx/syspay/internal/payment/domain"
)

type Service struct {
	db  *gorm.DB
	log *zap.Logger

	genID    *snowflake.Node
	clk      clock.Clock
	repo     domain.Repository
	folioSvc foliodomain.Service
	recorder auditdomain.Recorder
	adapters map[domain.Method]domain.GatewayAdapter
}

type Params struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	GenID    *snowflake.Node
	Clock    clock.Clock
	Repo     domain.Repository
	FolioSvc foliodomain.Service
	Recorder auditdomain.Recorder
	Adapters []domain.GatewayAdapter `group:"payment.adapters"`
}

func New(p Params) domain.Service {
	adapters := make(map[domain.Method]domain.GatewayAdapter, len(p.Adapters))
	for _, a := range p.Adapters {
		adapters[a.Method()] = a
	}
	return &Service{
		db:  p.DB,
		log: p.Log.Named("payment.service"),

		genID:    p.GenID,
		clk:      p.Clock,
		repo:     p.Repo,
		folioSvc: p.FolioSvc,
		recorder: p.Recorder,
		adapters: adapters,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreatePaymentRequest) (*domain.Payment, error) {
	if !req.Method.Valid() {
		return nil, domain.ErrInvalidMethod
	}
	adapter, ok := s.adapters[req.Method]
	if !ok {
		return nil, domain.ErrInvalidMethod
	}

	amount, err := money.FromString(strings.TrimSpace(req.Amount))
	if err != nil || amount.Sign() <= 0 {
		return nil, domain.ErrInvalidAmount
	}

	folio, err := s.folioSvc.Get(ctx, req.FolioID)
	if err != nil {
		return nil, err
	}
	if folio.Status != foliodomain.FolioStatusOpen {
		return nil, foliodomain.ErrFolioNotOpen
	}

	now := s.clk.Now(ctx)
	payment := &domain.Payment{
		ID:        s.genID.Generate(),
		FolioID:   folio.ID,
		Amount:    amount,
		Method:    req.Method,
		Status:    domain.StatusPending,
		CreatedBy: req.CreatedBy,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repo.Insert(ctx, tx, payment); err != nil {
			return err
		}
		return s.recorder.Record(ctx, tx, auditdomain.Entry{
			Action:     auditdomain.ActionPaymentCreated,
			EntityType: "payment",
			EntityID:   payment.ID,
			ActorName:  req.CreatedBy,
			NewValues:  payment,
		})
	})
	if err != nil {
		return nil, err
	}

	return s.process(ctx, payment, adapter)
}

// process hands a pending payment to its gateway and persists the
// resolution. A gateway transport failure marks the payment failed rather
// than leaving it stuck at pending.
func (s *Service) process(ctx context.Context, payment *domain.Payment, adapter domain.GatewayAdapter) (*domain.Payment, error) {
	if payment.Status != domain.StatusPending {
		return nil, domain.ErrPaymentNotPending
	}

	resolution, err := adapter.Charge(ctx, payment)
	if err != nil {
		s.log.Warn("gateway charge failed",
			zap.String("payment_id", payment.ID.String()),
			zap.String("method", string(payment.Method)),
			zap.Error(err))
		resolution = domain.Resolution{
			Status:       domain.StatusFailed,
			ErrorMessage: err.Error(),
		}
	}

	if err := s.applyResolution(ctx, payment, resolution); err != nil {
		return nil, err
	}

	s.log.Info("payment processed",
		zap.String("payment_id", payment.ID.String()),
		zap.String("folio_id", payment.FolioID.String()),
		zap.String("method", string(payment.Method)),
		zap.String("status", string(payment.Status)),
		zap.String("amount", payment.Amount.StringFixed(2)))
	return payment, nil
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Payment, error) {
	paymentID, err := parseID(id)
	if err != nil {
		return nil, domain.ErrPaymentNotFound
	}
	payment, err := s.repo.FindByID(ctx, s.db, paymentID)
	if err != nil {
		return nil, err
	}
	if payment == nil {
		return nil, domain.ErrPaymentNotFound
	}
	return payment, nil
}

func (s *Service) ListByFolio(ctx context.Context, folioID snowflake.ID) ([]domain.Payment, error) {
	return s.repo.ListByFolio(ctx, s.db, folioID)
}

func (s *Service) Resolve(ctx context.Context, id string, success bool, providerRef, errorMessage string) (*domain.Payment, error) {
	paymentID, err := parseID(id)
	if err != nil {
		return nil, domain.ErrPaymentNotFound
	}
	payment, err := s.repo.FindByID(ctx, s.db, paymentID)
	if err != nil {
		return nil, err
	}
	if payment == nil {
		return nil, domain.ErrPaymentNotFound
	}
	if payment.Status != domain.StatusProcessing {
		return nil, domain.ErrPaymentNotPending
	}

	resolution := domain.Resolution{
		Status:       domain.StatusFailed,
		ProviderRef:  providerRef,
		ErrorMessage: errorMessage,
	}
	if success {
		resolution.Status = domain.StatusCompleted
		resolution.ErrorMessage = ""
	}
	if err := s.applyResolution(ctx, payment, resolution); err != nil {
		return nil, err
	}
	return payment, nil
}

func (s *Service) Refund(ctx context.Context, id string, reason string) (*domain.Payment, error) {
	paymentID, err := parseID(id)
	if err != nil {
		return nil, domain.ErrPaymentNotFound
	}
	payment, err := s.repo.FindByID(ctx, s.db, paymentID)
	if err != nil {
		return nil, err
	}
	if payment == nil {
		return nil, domain.ErrPaymentNotFound
	}

	prev := payment.Status
	if err := payment.Transition(domain.StatusRefunded); err != nil {
		return nil, err
	}
	payment.UpdatedAt = s.clk.Now(ctx)

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repo.Update(ctx, tx, payment); err != nil {
			return err
		}
		// The refunded amount no longer counts toward the balance.
		if _, err := s.folioSvc.Recalculate(ctx, tx, payment.FolioID); err != nil {
			return err
		}
		return s.recorder.Record(ctx, tx, auditdomain.Entry{
			Action:     auditdomain.ActionPaymentRefunded,
			EntityType: "payment",
			EntityID:   payment.ID,
			OldValues:  map[string]any{"status": prev},
			NewValues:  map[string]any{"status": payment.Status},
			Metadata:   map[string]any{"reason": reason},
		})
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("payment refunded",
		zap.String("payment_id", payment.ID.String()),
		zap.String("folio_id", payment.FolioID.String()),
		zap.String("amount", payment.Amount.StringFixed(2)))
	return payment, nil
}

// applyResolution persists a status change and, when the payment
// completed, recomputes the folio totals in the same transaction.
func (s *Service) applyResolution(ctx context.Context, payment *domain.Payment, resolution domain.Resolution) error {
	prev := payment.Status
	if err := payment.Transition(resolution.Status); err != nil {
		return err
	}
	if resolution.ProviderRef != "" {
		payment.ProviderRef = resolution.ProviderRef
	}
	payment.ErrorMessage = resolution.ErrorMessage

	now := s.clk.Now(ctx)
	payment.UpdatedAt = now
	if payment.Status == domain.StatusCompleted {
		payment.CompletedAt = &now
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repo.Update(ctx, tx, payment); err != nil {
			return err
		}
		if payment.Status == domain.StatusCompleted {
			if _, err := s.folioSvc.Recalculate(ctx, tx, payment.FolioID); err != nil {
				return err
			}
		}

		// Parking at processing is not a terminal outcome; creation was
		// already audited.
		if payment.Status == domain.StatusProcessing {
			return nil
		}
		action := auditdomain.ActionPaymentFailed
		if payment.Status == domain.StatusCompleted {
			action = auditdomain.ActionPaymentProcessed
		}
		return s.recorder.Record(ctx, tx, auditdomain.Entry{
			Action:     action,
			EntityType: "payment",
			EntityID:   payment.ID,
			OldValues:  map[string]any{"status": prev},
			NewValues: map[string]any{
				"status":       payment.Status,
				"provider_ref": payment.ProviderRef,
			},
		})
	})
}

func parseID(raw string) (snowflake.ID, error) {
	return snowflake.ParseString(strings.TrimSpace(raw))
}
