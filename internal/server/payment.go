package server

import (
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"

	foliodomain "github.com/sysnyx/syspay/internal/folio/domain"
	paymentdomain "github.com/sysnyx/syspay/internal/payment/domain"
)

type createPaymentRequest struct {
	FolioID string               `json:"folio_id"`
	Amount  string               `json:"amount"`
	Method  paymentdomain.Method `json:"method"`
}

func (s *Server) CreatePayment(c *gin.Context) {
	var req createPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, errInvalidRequest)
		return
	}

	payment, err := s.paymentSvc.Create(c.Request.Context(), paymentdomain.CreatePaymentRequest{
		FolioID: strings.TrimSpace(req.FolioID),
		Amount:  req.Amount,
		Method:  req.Method,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.metrics.paymentsByStatus.WithLabelValues(string(payment.Status)).Inc()
	respondData(c, payment)
}

func (s *Server) ListPayments(c *gin.Context) {
	folioID, err := snowflake.ParseString(strings.TrimSpace(c.Query("folio_id")))
	if err != nil {
		AbortWithError(c, foliodomain.ErrFolioNotFound)
		return
	}

	payments, err := s.paymentSvc.ListByFolio(c.Request.Context(), folioID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondList(c, payments)
}

func (s *Server) GetPayment(c *gin.Context) {
	payment, err := s.paymentSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, payment)
}

type processPaymentRequest struct {
	Success      bool   `json:"success"`
	ProviderRef  string `json:"provider_ref"`
	ErrorMessage string `json:"error_message"`
}

// ProcessPayment finalizes a payment parked at processing, standing in for
// the asynchronous gateway callback.
func (s *Server) ProcessPayment(c *gin.Context) {
	var req processPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, errInvalidRequest)
		return
	}

	payment, err := s.paymentSvc.Resolve(c.Request.Context(), c.Param("id"), req.Success, req.ProviderRef, req.ErrorMessage)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.metrics.paymentsByStatus.WithLabelValues(string(payment.Status)).Inc()
	respondData(c, payment)
}

type refundPaymentRequest struct {
	Reason string `json:"reason"`
}

func (s *Server) RefundPayment(c *gin.Context) {
	var req refundPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, errInvalidRequest)
		return
	}

	payment, err := s.paymentSvc.Refund(c.Request.Context(), c.Param("id"), strings.TrimSpace(req.Reason))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.metrics.paymentsByStatus.WithLabelValues(string(payment.Status)).Inc()
	respondData(c, payment)
}
