package service

import (
	"context"
	"encoding/json"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	auditdomain "github.com/sysnyx/syspay/internal/audit/domain"
	"github.com/sysnyx/syspay/internal/clock"
)

type Service struct {
	db  *gorm.DB
	log *zap.Logger

	genID *snowflake.Node
	clk   clock.Clock
}

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Clock clock.Clock
}

func New(p Params) auditdomain.Recorder {
	return &Service{
		db:  p.DB,
		log: p.Log.Named("audit.service"),

		genID: p.GenID,
		clk:   p.Clock,
	}
}

func (s *Service) Record(ctx context.Context, db *gorm.DB, entry auditdomain.Entry) error {
	if db == nil {
		db = s.db
	}

	row := auditdomain.AuditLog{
		ID:         s.genID.Generate(),
		Action:     entry.Action,
		EntityType: entry.EntityType,
		EntityID:   entry.EntityID,
		ActorName:  entry.ActorName,
		IPAddress:  entry.IPAddress,
		UserAgent:  entry.UserAgent,
		CreatedAt:  s.clk.Now(ctx),
	}

	var err error
	if row.OldValues, err = marshalValues(entry.OldValues); err != nil {
		return err
	}
	if row.NewValues, err = marshalValues(entry.NewValues); err != nil {
		return err
	}
	if row.Metadata, err = marshalValues(entry.Metadata); err != nil {
		return err
	}

	return db.WithContext(ctx).Create(&row).Error
}

func (s *Service) List(ctx context.Context, entityType string, entityID snowflake.ID) ([]auditdomain.AuditLog, error) {
	var logs []auditdomain.AuditLog
	err := s.db.WithContext(ctx).
		Where("entity_type = ? AND entity_id = ?", entityType, entityID).
		Order("created_at DESC, id DESC").
		Find(&logs).Error
	if err != nil {
		return nil, err
	}
	return logs, nil
}

func marshalValues(v any) (datatypes.JSON, error) {
	if v == nil {
		return nil, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(data), nil
}
