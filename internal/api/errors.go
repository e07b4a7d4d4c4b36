package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ticketbari/ticketbari/internal/auth"
	"github.com/ticketbari/ticketbari/internal/repository"
	"github.com/ticketbari/ticketbari/internal/service"
)

// abortWithError maps domain errors onto HTTP statuses. Anything not
// recognized becomes a 500 with a generic body.
func abortWithError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	msg := "internal server error"

	switch {
	case errors.Is(err, service.ErrNotFound), errors.Is(err, repository.ErrNotFound):
		status, msg = http.StatusNotFound, err.Error()
	case errors.Is(err, service.ErrForbidden):
		status, msg = http.StatusForbidden, err.Error()
	case errors.Is(err, service.ErrNotBookable),
		errors.Is(err, service.ErrDeparturePassed),
		errors.Is(err, service.ErrInvalidQuantity),
		errors.Is(err, service.ErrNotPayable),
		errors.Is(err, service.ErrNotEditable):
		status, msg = http.StatusUnprocessableEntity, err.Error()
	case errors.Is(err, service.ErrSoldOut), errors.Is(err, repository.ErrSoldOut):
		status, msg = http.StatusConflict, err.Error()
	case errors.Is(err, service.ErrAlreadyDecided), errors.Is(err, repository.ErrConflict):
		status, msg = http.StatusConflict, err.Error()
	case errors.Is(err, service.ErrLockBusy):
		status, msg = http.StatusTooManyRequests, err.Error()
	case errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrSessionExpired):
		status, msg = http.StatusUnauthorized, err.Error()
	case errors.Is(err, auth.ErrEmailTaken):
		status, msg = http.StatusConflict, err.Error()
	}

	c.AbortWithStatusJSON(status, gin.H{"error": msg})
}
