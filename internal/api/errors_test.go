package api

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/ticketbari/ticketbari/internal/auth"
	"github.com/ticketbari/ticketbari/internal/model"
	"github.com/ticketbari/ticketbari/internal/service"
)

func TestAbortWithErrorMapping(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		err    error
		status int
	}{
		{service.ErrNotFound, http.StatusNotFound},
		{service.ErrForbidden, http.StatusForbidden},
		{service.ErrNotBookable, http.StatusUnprocessableEntity},
		{service.ErrDeparturePassed, http.StatusUnprocessableEntity},
		{service.ErrNotPayable, http.StatusUnprocessableEntity},
		{service.ErrSoldOut, http.StatusConflict},
		{service.ErrAlreadyDecided, http.StatusConflict},
		{service.ErrLockBusy, http.StatusTooManyRequests},
		{auth.ErrInvalidToken, http.StatusUnauthorized},
		{auth.ErrInvalidCredentials, http.StatusUnauthorized},
		{auth.ErrEmailTaken, http.StatusConflict},
		{errors.New("disk on fire"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		abortWithError(c, tt.err)
		assert.Equal(t, tt.status, w.Code, "error %v", tt.err)
	}
}

func TestAbortWithErrorHidesInternals(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	abortWithError(c, errors.New("dsn user:pass@tcp leaked"))

	assert.NotContains(t, w.Body.String(), "dsn")
	assert.Contains(t, w.Body.String(), "internal server error")
}

func TestRequireRole(t *testing.T) {
	gin.SetMode(gin.TestMode)

	newCtx := func(role model.Role) (*gin.Context, *httptest.ResponseRecorder) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
		c.Set(identityKey, &auth.Identity{Email: "who@example.com", Role: role})
		return c, w
	}

	c, w := newCtx(model.RoleAdmin)
	RequireRole(model.RoleVendor, model.RoleAdmin)(c)
	assert.False(t, c.IsAborted())
	assert.NotEqual(t, http.StatusForbidden, w.Code)

	c, w = newCtx(model.RoleUser)
	RequireRole(model.RoleVendor, model.RoleAdmin)(c)
	assert.True(t, c.IsAborted())
	assert.Equal(t, http.StatusForbidden, w.Code)
}
