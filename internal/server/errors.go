package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	catalogdomain "github.com/sysnyx/syspay/internal/catalog/domain"
	foliodomain "github.com/sysnyx/syspay/internal/folio/domain"
	guestdomain "github.com/sysnyx/syspay/internal/guest/domain"
	paymentdomain "github.com/sysnyx/syspay/internal/payment/domain"
	"github.com/sysnyx/syspay/internal/pricing"
)

var errInvalidRequest = errors.New("invalid request body")

// AbortWithError maps domain errors onto HTTP statuses: validation failures
// are 422, missing resources 404, state conflicts 409, everything else 500.
func AbortWithError(c *gin.Context, err error) {
	status := http.StatusInternalServerError

	switch {
	case isNotFound(err):
		status = http.StatusNotFound
	case isConflict(err):
		status = http.StatusConflict
	case isValidation(err):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, errInvalidRequest):
		status = http.StatusBadRequest
	case errors.Is(err, guestdomain.ErrSessionInvalid):
		status = http.StatusUnauthorized
	}

	_ = c.Error(err)
	c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
}

func isNotFound(err error) bool {
	return errors.Is(err, guestdomain.ErrGuestNotFound) ||
		errors.Is(err, catalogdomain.ErrServiceNotFound) ||
		errors.Is(err, catalogdomain.ErrRuleNotFound) ||
		errors.Is(err, foliodomain.ErrFolioNotFound) ||
		errors.Is(err, foliodomain.ErrChargeNotFound) ||
		errors.Is(err, paymentdomain.ErrPaymentNotFound)
}

func isConflict(err error) bool {
	return errors.Is(err, foliodomain.ErrFolioNotOpen) ||
		errors.Is(err, foliodomain.ErrBalanceOutstanding) ||
		errors.Is(err, paymentdomain.ErrPaymentNotPending) ||
		errors.Is(err, paymentdomain.ErrInvalidTransition)
}

func isValidation(err error) bool {
	if pricing.IsInvalidInput(err) {
		return true
	}
	return errors.Is(err, guestdomain.ErrInvalidName) ||
		errors.Is(err, guestdomain.ErrInvalidRoom) ||
		errors.Is(err, catalogdomain.ErrInvalidName) ||
		errors.Is(err, catalogdomain.ErrInvalidServiceType) ||
		errors.Is(err, catalogdomain.ErrInvalidBasePrice) ||
		errors.Is(err, catalogdomain.ErrInvalidRuleType) ||
		errors.Is(err, catalogdomain.ErrInvalidRuleValue) ||
		errors.Is(err, paymentdomain.ErrInvalidAmount) ||
		errors.Is(err, paymentdomain.ErrInvalidMethod)
}
