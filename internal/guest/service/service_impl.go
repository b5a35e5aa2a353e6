package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/sysnyx/syspay/internal/clock"
	"github.com/sysnyx/syspay/internal/config"
	foliodomain "github.com/sysnyx/syspay/internal/folio/domain"
	"github.com/sysnyx/syspay/internal/guest/domain"
)

type Service struct {
	db  *gorm.DB
	log *zap.Logger

	genID      *snowflake.Node
	clk        clock.Clock
	repo       domain.Repository
	folioSvc   foliodomain.Service
	sessionTTL time.Duration
}

type Params struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	Config   *config.Config
	GenID    *snowflake.Node
	Clock    clock.Clock
	Repo     domain.Repository
	FolioSvc foliodomain.Service
}

func New(p Params) domain.Service {
	ttl := time.Duration(p.Config.SessionTTLHours) * time.Hour
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Service{
		db:  p.DB,
		log: p.Log.Named("guest.service"),

		genID:      p.GenID,
		clk:        p.Clock,
		repo:       p.Repo,
		folioSvc:   p.FolioSvc,
		sessionTTL: ttl,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateGuestRequest) (*domain.Guest, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.ErrInvalidName
	}
	room := strings.TrimSpace(req.RoomNumber)
	if room == "" {
		return nil, domain.ErrInvalidRoom
	}

	now := s.clk.Now(ctx)
	guest := &domain.Guest{
		ID:         s.genID.Generate(),
		Name:       name,
		RoomNumber: room,
		Email:      strings.TrimSpace(req.Email),
		Phone:      strings.TrimSpace(req.Phone),
		NFCCardID:  strings.TrimSpace(req.NFCCardID),
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	// Guest and folio are created atomically; a guest without a folio
	// cannot be billed.
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repo.Insert(ctx, tx, guest); err != nil {
			return err
		}
		_, err := s.folioSvc.CreateForGuest(ctx, tx, guest.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("guest registered",
		zap.String("guest_id", guest.ID.String()),
		zap.String("room_number", guest.RoomNumber))
	return guest, nil
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Guest, error) {
	guestID, err := parseID(id)
	if err != nil {
		return nil, domain.ErrGuestNotFound
	}
	guest, err := s.repo.FindByID(ctx, s.db, guestID)
	if err != nil {
		return nil, err
	}
	if guest == nil {
		return nil, domain.ErrGuestNotFound
	}
	return guest, nil
}

func (s *Service) GetByNFCCardID(ctx context.Context, cardID string) (*domain.Guest, error) {
	cardID = strings.TrimSpace(cardID)
	if cardID == "" {
		return nil, domain.ErrGuestNotFound
	}
	guest, err := s.repo.FindByNFCCardID(ctx, s.db, cardID)
	if err != nil {
		return nil, err
	}
	if guest == nil {
		return nil, domain.ErrGuestNotFound
	}
	return guest, nil
}

func (s *Service) List(ctx context.Context, opts domain.ListOptions) ([]domain.Guest, error) {
	return s.repo.List(ctx, s.db, opts)
}

func (s *Service) Update(ctx context.Context, id string, req domain.UpdateGuestRequest) (*domain.Guest, error) {
	guest, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, domain.ErrInvalidName
		}
		guest.Name = name
	}
	if req.RoomNumber != nil {
		room := strings.TrimSpace(*req.RoomNumber)
		if room == "" {
			return nil, domain.ErrInvalidRoom
		}
		guest.RoomNumber = room
	}
	if req.Email != nil {
		guest.Email = strings.TrimSpace(*req.Email)
	}
	if req.Phone != nil {
		guest.Phone = strings.TrimSpace(*req.Phone)
	}
	if req.NFCCardID != nil {
		guest.NFCCardID = strings.TrimSpace(*req.NFCCardID)
	}
	if req.CheckedOut != nil {
		guest.CheckedOut = *req.CheckedOut
	}
	guest.UpdatedAt = s.clk.Now(ctx)

	if err := s.repo.Update(ctx, s.db, guest); err != nil {
		return nil, err
	}
	return guest, nil
}

func (s *Service) IssueSession(ctx context.Context, guestID, deviceID string) (*domain.GuestSession, error) {
	guest, err := s.Get(ctx, guestID)
	if err != nil {
		return nil, err
	}

	now := s.clk.Now(ctx)
	session := &domain.GuestSession{
		ID:        s.genID.Generate(),
		GuestID:   guest.ID,
		Token:     uuid.NewString(),
		DeviceID:  strings.TrimSpace(deviceID),
		ExpiresAt: now.Add(s.sessionTTL),
		CreatedAt: now,
	}
	if err := s.repo.InsertSession(ctx, s.db, session); err != nil {
		return nil, err
	}
	return session, nil
}

func (s *Service) ValidateToken(ctx context.Context, token string) (*domain.Guest, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, domain.ErrSessionInvalid
	}
	session, err := s.repo.FindSessionByToken(ctx, s.db, token)
	if err != nil {
		return nil, err
	}
	if session == nil || !session.Valid(s.clk.Now(ctx)) {
		return nil, domain.ErrSessionInvalid
	}

	guest, err := s.repo.FindByID(ctx, s.db, session.GuestID)
	if err != nil {
		return nil, err
	}
	if guest == nil {
		return nil, domain.ErrSessionInvalid
	}
	return guest, nil
}

func parseID(raw string) (snowflake.ID, error) {
	return snowflake.ParseString(strings.TrimSpace(raw))
}
