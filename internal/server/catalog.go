package server

import (
	"github.com/gin-gonic/gin"

	catalogdomain "github.com/sysnyx/syspay/internal/catalog/domain"
)

func (s *Server) CreateService(c *gin.Context) {
	var req catalogdomain.CreateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, errInvalidRequest)
		return
	}

	svc, err := s.catalogSvc.CreateService(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, svc)
}

func (s *Server) ListServices(c *gin.Context) {
	var opts catalogdomain.ListOptions
	if err := c.ShouldBindQuery(&opts); err != nil {
		AbortWithError(c, errInvalidRequest)
		return
	}

	services, err := s.catalogSvc.ListServices(c.Request.Context(), opts)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondList(c, services)
}

func (s *Server) GetService(c *gin.Context) {
	svc, err := s.catalogSvc.GetService(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, svc)
}

func (s *Server) UpdateService(c *gin.Context) {
	var req catalogdomain.UpdateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, errInvalidRequest)
		return
	}

	svc, err := s.catalogSvc.UpdateService(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, svc)
}

func (s *Server) AddRule(c *gin.Context) {
	var req catalogdomain.CreateRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, errInvalidRequest)
		return
	}

	rule, err := s.catalogSvc.AddRule(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, rule)
}

func (s *Server) ListRules(c *gin.Context) {
	rules, err := s.catalogSvc.ListRules(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondList(c, rules)
}

func (s *Server) UpdateRule(c *gin.Context) {
	var req catalogdomain.UpdateRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, errInvalidRequest)
		return
	}

	rule, err := s.catalogSvc.UpdateRule(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, rule)
}
