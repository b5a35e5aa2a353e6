package server

import (
	"strings"

	"github.com/gin-gonic/gin"

	guestdomain "github.com/sysnyx/syspay/internal/guest/domain"
)

const guestContextKey = "auth.guest"

// guestAuth authenticates guest-facing routes with a session bearer token.
func (s *Server) guestAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := strings.TrimSpace(c.GetHeader("Authorization"))
		token = strings.TrimPrefix(token, "Bearer ")

		guest, err := s.guestSvc.ValidateToken(c.Request.Context(), token)
		if err != nil {
			AbortWithError(c, guestdomain.ErrSessionInvalid)
			return
		}
		c.Set(guestContextKey, guest)
		c.Next()
	}
}

func guestFromContext(c *gin.Context) *guestdomain.Guest {
	value, ok := c.Get(guestContextKey)
	if !ok {
		return nil
	}
	guest, _ := value.(*guestdomain.Guest)
	return guest
}

func (s *Server) GetMyFolio(c *gin.Context) {
	guest := guestFromContext(c)
	if guest == nil {
		AbortWithError(c, guestdomain.ErrSessionInvalid)
		return
	}

	detail, err := s.folioSvc.GetByGuestID(c.Request.Context(), guest.ID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, detail)
}
