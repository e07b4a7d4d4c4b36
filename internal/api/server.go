// Package api exposes the REST surface over gin. Handlers translate
// HTTP payloads into service calls and map domain errors to statuses.
package api

import (
	"time"

	"github.com/ticketbari/ticketbari/internal/auth"
	"github.com/ticketbari/ticketbari/internal/countdown"
	"github.com/ticketbari/ticketbari/internal/eligibility"
	"github.com/ticketbari/ticketbari/internal/model"
	"github.com/ticketbari/ticketbari/internal/service"
)

type Server struct {
	authService    *auth.Service
	ticketService  *service.TicketService
	bookingService *service.BookingService
	paymentService *service.PaymentService
	userService    *service.UserService
	statsService   *service.StatsService
	registry       *countdown.Registry
	now            func() time.Time
}

func NewServer(
	authService *auth.Service,
	ticketService *service.TicketService,
	bookingService *service.BookingService,
	paymentService *service.PaymentService,
	userService *service.UserService,
	statsService *service.StatsService,
	registry *countdown.Registry,
) *Server {
	return &Server{
		authService:    authService,
		ticketService:  ticketService,
		bookingService: bookingService,
		paymentService: paymentService,
		userService:    userService,
		statsService:   statsService,
		registry:       registry,
		now:            time.Now,
	}
}

// ticketView is a ticket together with its derived display state.
type ticketView struct {
	*model.Ticket
	Eligibility eligibility.Result `json:"eligibility"`
	Countdown   *countdown.State   `json:"countdown,omitempty"`
}

func (s *Server) viewTicket(t *model.Ticket) ticketView {
	now := s.now()
	v := ticketView{Ticket: t, Eligibility: eligibility.ForTicket(t, now)}
	if !t.DepartureAt.IsZero() {
		st := countdown.Remaining(t.DepartureAt, now)
		v.Countdown = &st
	}
	return v
}

func (s *Server) viewTickets(tickets []*model.Ticket) []ticketView {
	views := make([]ticketView, 0, len(tickets))
	for _, t := range tickets {
		views = append(views, s.viewTicket(t))
	}
	return views
}

// bookingView is a booking with the acting user's payment eligibility.
// The countdown is suppressed once a booking is rejected.
type bookingView struct {
	*model.Booking
	Eligibility eligibility.Result `json:"eligibility"`
	Countdown   *countdown.State   `json:"countdown,omitempty"`
}

func (s *Server) viewBooking(b *model.Booking, actorEmail string) bookingView {
	now := s.now()
	v := bookingView{Booking: b, Eligibility: eligibility.ForBooking(b, actorEmail, now)}
	if b.Status != model.BookingStatusRejected && !b.DepartureAt.IsZero() {
		st := countdown.Remaining(b.DepartureAt, now)
		v.Countdown = &st
	}
	return v
}

func (s *Server) viewBookings(bookings []*model.Booking, actorEmail string) []bookingView {
	views := make([]bookingView, 0, len(bookings))
	for _, b := range bookings {
		views = append(views, s.viewBooking(b, actorEmail))
	}
	return views
}
