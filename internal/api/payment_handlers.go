package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (s *Server) handleCheckout(c *gin.Context) {
	identity := callerIdentity(c)
	session, err := s.paymentService.Checkout(identity.Email, c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"sessionId": session.ID, "url": session.URL})
}

// handlePaymentSuccess is the return leg of the hosted checkout. The
// session id carries its own signature, so the route needs no login.
// Replays of an already settled session return the booking unchanged.
func (s *Server) handlePaymentSuccess(c *gin.Context) {
	sessionID := c.Query("session_id")
	if sessionID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing session_id"})
		return
	}

	booking, captured, err := s.paymentService.HandleSuccess(sessionID)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"booking": booking, "captured": captured})
}

func (s *Server) handlePaymentCancel(c *gin.Context) {
	sessionID := c.Query("session_id")
	if sessionID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing session_id"})
		return
	}

	if err := s.paymentService.HandleCancel(sessionID); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"cancelled": true})
}

func (s *Server) handlePaymentHistory(c *gin.Context) {
	identity := callerIdentity(c)
	payments, err := s.paymentService.History(identity.Email)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, payments)
}
