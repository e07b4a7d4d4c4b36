package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ticketbari/ticketbari/internal/model"
)

func (s *Server) handleListUsers(c *gin.Context) {
	users, err := s.userService.List()
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

func (s *Server) handleMakeAdmin(c *gin.Context) {
	if err := s.userService.MakeAdmin(c.Param("id")); err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleMakeVendor(c *gin.Context) {
	if err := s.userService.MakeVendor(c.Param("id")); err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleMarkFraud(c *gin.Context) {
	if err := s.userService.MarkFraud(c.Param("id")); err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleModerationQueue(c *gin.Context) {
	tickets, err := s.ticketService.AllForModeration()
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, s.viewTickets(tickets))
}

func (s *Server) handleApproveTicket(c *gin.Context) {
	s.moderate(c, model.VerificationApproved)
}

func (s *Server) handleRejectTicket(c *gin.Context) {
	s.moderate(c, model.VerificationRejected)
}

func (s *Server) moderate(c *gin.Context, status model.VerificationStatus) {
	if err := s.ticketService.Moderate(c.Param("id"), status); err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// handleAdvertiseTicket toggles the home-page spotlight. Without a body
// the listing is advertised; {"advertised": false} withdraws it.
func (s *Server) handleAdvertiseTicket(c *gin.Context) {
	var req struct {
		Advertised *bool `json:"advertised"`
	}
	advertised := true
	if err := c.ShouldBindJSON(&req); err == nil && req.Advertised != nil {
		advertised = *req.Advertised
	}

	if err := s.ticketService.Advertise(c.Param("id"), advertised); err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
