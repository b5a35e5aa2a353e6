package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (s *Server) RegisterRoutes(router *gin.Engine) {
	router.GET("/healthz", s.Healthz)
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.metrics.registry, promhttp.HandlerOpts{})))

	v1 := router.Group("/v1")

	v1.POST("/guests", s.CreateGuest)
	v1.GET("/guests", s.ListGuests)
	v1.GET("/guests/:id", s.GetGuest)
	v1.PATCH("/guests/:id", s.UpdateGuest)
	v1.GET("/guests/:id/folio", s.GetGuestFolio)
	v1.POST("/guests/:id/sessions", s.IssueGuestSession)

	v1.POST("/services", s.CreateService)
	v1.GET("/services", s.ListServices)
	v1.GET("/services/:id", s.GetService)
	v1.PATCH("/services/:id", s.UpdateService)
	v1.POST("/services/:id/rules", s.AddRule)
	v1.GET("/services/:id/rules", s.ListRules)
	v1.PATCH("/rules/:id", s.UpdateRule)
	v1.GET("/services/:id/preview", s.PreviewCharge)

	v1.GET("/folios/:id", s.GetFolio)
	v1.POST("/folios/:id/charges", s.AddCharge)
	v1.POST("/folios/:id/settle", s.SettleFolio)
	v1.POST("/folios/:id/cancel", s.CancelFolio)

	v1.POST("/payments", s.CreatePayment)
	v1.GET("/payments", s.ListPayments)
	v1.GET("/payments/:id", s.GetPayment)
	v1.POST("/payments/:id/process", s.ProcessPayment)
	v1.POST("/payments/:id/refund", s.RefundPayment)

	// Guest-facing, authenticated by session token.
	me := v1.Group("/me", s.guestAuth())
	me.GET("/folio", s.GetMyFolio)
}

func (s *Server) Healthz(c *gin.Context) {
	sqlDB, err := s.db.DB()
	if err != nil || sqlDB.PingContext(c.Request.Context()) != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
