// Package server exposes the billing API over HTTP: guest registration,
// the service catalog, folio charges, and payments.
package server

import (
	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	auditdomain "github.com/sysnyx/syspay/internal/audit/domain"
	catalogdomain "github.com/sysnyx/syspay/internal/catalog/domain"
	"github.com/sysnyx/syspay/internal/config"
	foliodomain "github.com/sysnyx/syspay/internal/folio/domain"
	guestdomain "github.com/sysnyx/syspay/internal/guest/domain"
	paymentdomain "github.com/sysnyx/syspay/internal/payment/domain"
)

type Server struct {
	cfg *config.Config
	log *zap.Logger
	db  *gorm.DB

	genID      *snowflake.Node
	guestSvc   guestdomain.Service
	catalogSvc catalogdomain.Catalog
	folioSvc   foliodomain.Service
	paymentSvc paymentdomain.Service
	recorder   auditdomain.Recorder

	metrics *metrics
}

type Params struct {
	fx.In

	Config     *config.Config
	Log        *zap.Logger
	DB         *gorm.DB
	GenID      *snowflake.Node
	GuestSvc   guestdomain.Service
	CatalogSvc catalogdomain.Catalog
	FolioSvc   foliodomain.Service
	PaymentSvc paymentdomain.Service
	Recorder   auditdomain.Recorder
}

func New(p Params) *Server {
	return &Server{
		cfg: p.Config,
		log: p.Log.Named("server"),
		db:  p.DB,

		genID:      p.GenID,
		guestSvc:   p.GuestSvc,
		catalogSvc: p.CatalogSvc,
		folioSvc:   p.FolioSvc,
		paymentSvc: p.PaymentSvc,
		recorder:   p.Recorder,

		metrics: newMetrics(),
	}
}

func (s *Server) Handler() *gin.Engine {
	if s.cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery(), s.requestLogger(), s.metrics.middleware())
	s.RegisterRoutes(router)
	return router
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		if len(c.Errors) > 0 {
			s.log.Warn("request failed",
				zap.String("method", c.Request.Method),
				zap.String("path", c.FullPath()),
				zap.Int("status", c.Writer.Status()),
				zap.String("error", c.Errors.String()))
		}
	}
}
