package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ticketbari/ticketbari/internal/model"
)

type createBookingRequest struct {
	TicketID string `json:"ticketId" binding:"required"`
	Quantity int    `json:"quantity" binding:"required,gt=0"`
}

func (s *Server) handleCreateBooking(c *gin.Context) {
	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	identity := callerIdentity(c)
	booking, err := s.bookingService.Create(identity.Email, req.TicketID, req.Quantity)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, s.viewBooking(booking, identity.Email))
}

func (s *Server) handleGetBooking(c *gin.Context) {
	identity := callerIdentity(c)
	actor := &model.User{Email: identity.Email, Role: identity.Role}

	booking, err := s.bookingService.Get(c.Param("id"), actor)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, s.viewBooking(booking, identity.Email))
}

func (s *Server) handleUserBookings(c *gin.Context) {
	identity := callerIdentity(c)
	bookings, err := s.bookingService.UserBookings(identity.Email)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, s.viewBookings(bookings, identity.Email))
}

func (s *Server) handleVendorBookings(c *gin.Context) {
	identity := callerIdentity(c)
	bookings, err := s.bookingService.VendorBookings(identity.Email)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, s.viewBookings(bookings, identity.Email))
}

func (s *Server) handleAcceptBooking(c *gin.Context) {
	identity := callerIdentity(c)
	booking, err := s.bookingService.Accept(identity.Email, c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, s.viewBooking(booking, identity.Email))
}

func (s *Server) handleRejectBooking(c *gin.Context) {
	identity := callerIdentity(c)
	booking, err := s.bookingService.Reject(identity.Email, c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, s.viewBooking(booking, identity.Email))
}
