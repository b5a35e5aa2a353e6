package server

import (
	"strings"

	"github.com/gin-gonic/gin"

	guestdomain "github.com/sysnyx/syspay/internal/guest/domain"
)

func (s *Server) CreateGuest(c *gin.Context) {
	var req guestdomain.CreateGuestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, errInvalidRequest)
		return
	}

	guest, err := s.guestSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, guest)
}

func (s *Server) ListGuests(c *gin.Context) {
	var query struct {
		RoomNumber string `form:"room_number"`
		Limit      int    `form:"limit"`
		Offset     int    `form:"offset"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, errInvalidRequest)
		return
	}

	guests, err := s.guestSvc.List(c.Request.Context(), guestdomain.ListOptions{
		RoomNumber: strings.TrimSpace(query.RoomNumber),
		Limit:      query.Limit,
		Offset:     query.Offset,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondList(c, guests)
}

func (s *Server) GetGuest(c *gin.Context) {
	guest, err := s.guestSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, guest)
}

func (s *Server) UpdateGuest(c *gin.Context) {
	var req guestdomain.UpdateGuestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, errInvalidRequest)
		return
	}

	guest, err := s.guestSvc.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, guest)
}

func (s *Server) GetGuestFolio(c *gin.Context) {
	guest, err := s.guestSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	detail, err := s.folioSvc.GetByGuestID(c.Request.Context(), guest.ID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, detail)
}

func (s *Server) IssueGuestSession(c *gin.Context) {
	var req struct {
		DeviceID string `json:"device_id"`
	}
	// An empty body is fine; device id is optional.
	_ = c.ShouldBindJSON(&req)

	session, err := s.guestSvc.IssueSession(c.Request.Context(), c.Param("id"), req.DeviceID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, session)
}
