package api

import (
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ticketbari/ticketbari/internal/countdown"
	"github.com/ticketbari/ticketbari/internal/repository"
	"github.com/ticketbari/ticketbari/internal/service"
)

type ticketRequest struct {
	Title         string    `json:"title" binding:"required"`
	Image         string    `json:"image" binding:"omitempty,url"`
	From          string    `json:"from" binding:"required"`
	To            string    `json:"to" binding:"required"`
	TransportType string    `json:"transportType" binding:"required,transport"`
	Price         float64   `json:"price" binding:"required,gt=0"`
	Quantity      int       `json:"quantity" binding:"required,gt=0"`
	DepartureAt   time.Time `json:"departureAt" binding:"required"`
	Perks         []string  `json:"perks"`
}

func (s *Server) handleSearchTickets(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	tickets, err := s.ticketService.Search(repository.TicketFilter{
		From:          c.Query("from"),
		To:            c.Query("to"),
		TransportType: c.Query("transportType"),
		PriceSort:     c.Query("priceSort"),
		Limit:         limit,
		Offset:        offset,
	})
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, s.viewTickets(tickets))
}

func (s *Server) handleLatestTickets(c *gin.Context) {
	n, _ := strconv.Atoi(c.DefaultQuery("limit", "6"))
	tickets, err := s.ticketService.Latest(n)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, s.viewTickets(tickets))
}

// handleFeaturedTickets is the fixed home-page strip of six listings.
func (s *Server) handleFeaturedTickets(c *gin.Context) {
	tickets, err := s.ticketService.Latest(6)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, s.viewTickets(tickets))
}

func (s *Server) handleAdvertisedTickets(c *gin.Context) {
	tickets, err := s.ticketService.Advertised()
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, s.viewTickets(tickets))
}

func (s *Server) handleGetTicket(c *gin.Context) {
	ticket, err := s.ticketService.Get(c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, s.viewTicket(ticket))
}

// handleCountdownSnapshot returns the remaining time to departure once.
func (s *Server) handleCountdownSnapshot(c *gin.Context) {
	ticket, err := s.ticketService.Get(c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	if ticket.DepartureAt.IsZero() {
		c.Status(http.StatusNoContent)
		return
	}
	c.JSON(http.StatusOK, countdown.Remaining(ticket.DepartureAt, s.now()))
}

// handleCountdownStream pushes departure countdown snapshots over SSE
// until the departure passes or the client disconnects.
func (s *Server) handleCountdownStream(c *gin.Context) {
	ticket, err := s.ticketService.Get(c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}

	sub := s.registry.Subscribe(ticket.DepartureAt)
	if sub == nil {
		c.Status(http.StatusNoContent)
		return
	}
	defer sub.Stop()

	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Stream(func(w io.Writer) bool {
		select {
		case st, ok := <-sub.States():
			if !ok {
				return false
			}
			c.SSEvent("countdown", st)
			return !st.Expired
		case <-c.Request.Context().Done():
			return false
		}
	})
}

func (s *Server) handleCreateTicket(c *gin.Context) {
	var req ticketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	identity := callerIdentity(c)
	vendor, err := s.userService.GetByEmail(identity.Email)
	if err != nil {
		abortWithError(c, err)
		return
	}

	ticket, err := s.ticketService.Create(vendor, req.toInput())
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, ticket)
}

func (s *Server) handleUpdateTicket(c *gin.Context) {
	var req ticketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	identity := callerIdentity(c)
	ticket, err := s.ticketService.Update(identity.Email, c.Param("id"), req.toInput())
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, ticket)
}

func (s *Server) handleDeleteTicket(c *gin.Context) {
	identity := callerIdentity(c)
	if err := s.ticketService.Delete(identity.Email, c.Param("id")); err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleVendorTickets(c *gin.Context) {
	identity := callerIdentity(c)
	tickets, err := s.ticketService.VendorTickets(identity.Email)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, s.viewTickets(tickets))
}

func (s *Server) handleVendorStats(c *gin.Context) {
	identity := callerIdentity(c)
	stats, err := s.statsService.VendorStats(identity.Email)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (r ticketRequest) toInput() service.TicketInput {
	return service.TicketInput{
		Title:         r.Title,
		Image:         r.Image,
		From:          r.From,
		To:            r.To,
		TransportType: r.TransportType,
		Price:         r.Price,
		Quantity:      r.Quantity,
		DepartureAt:   r.DepartureAt,
		Perks:         r.Perks,
	}
}
