package server

import (
	"encoding/json"
	"time"

	"github.com/gin-gonic/gin"

	foliodomain "github.com/sysnyx/syspay/internal/folio/domain"
)

func (s *Server) GetFolio(c *gin.Context) {
	detail, err := s.folioSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, detail)
}

func (s *Server) AddCharge(c *gin.Context) {
	var req foliodomain.AddChargeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, errInvalidRequest)
		return
	}
	req.FolioID = c.Param("id")
	if key := idempotencyKeyFromHeader(c); key != "" {
		req.IdempotencyKey = key
	}

	charge, err := s.folioSvc.AddCharge(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.metrics.chargesCreated.Inc()
	respondData(c, charge)
}

func (s *Server) SettleFolio(c *gin.Context) {
	folio, err := s.folioSvc.Settle(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, folio)
}

func (s *Server) CancelFolio(c *gin.Context) {
	folio, err := s.folioSvc.Cancel(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, folio)
}

// PreviewCharge prices a hypothetical charge without persisting anything.
// Quantity, extras and the evaluation time all come from the query string;
// extras is a JSON array literal.
func (s *Server) PreviewCharge(c *gin.Context) {
	var query struct {
		Quantity *int   `form:"quantity"`
		Extras   string `form:"extras"`
		At       string `form:"at"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, errInvalidRequest)
		return
	}

	req := foliodomain.PreviewRequest{
		ServiceID: c.Param("id"),
		Quantity:  query.Quantity,
	}
	if query.Extras != "" {
		req.Extras = json.RawMessage(query.Extras)
	}
	if query.At != "" {
		at, err := time.Parse(time.RFC3339, query.At)
		if err != nil {
			AbortWithError(c, errInvalidRequest)
			return
		}
		req.At = &at
	}

	result, err := s.folioSvc.Preview(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, result)
}
