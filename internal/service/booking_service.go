package service

import (
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/ticketbari/ticketbari/config"
	"github.com/ticketbari/ticketbari/internal/eligibility"
	"github.com/ticketbari/ticketbari/internal/lock"
	"github.com/ticketbari/ticketbari/internal/metrics"
	"github.com/ticketbari/ticketbari/internal/model"
	"github.com/ticketbari/ticketbari/internal/repository"
)

// BookingStore is the persistence surface the booking service needs.
type BookingStore interface {
	GetTicket(id string) (*model.Ticket, error)
	CreateBooking(b *model.Booking) error
	GetBooking(id string) (*model.Booking, error)
	ListUserBookings(userEmail string) ([]*model.Booking, error)
	ListVendorBookings(vendorEmail string) ([]*model.Booking, error)
	TransitionBooking(id string, from, to model.BookingStatus) error
	ListAcceptedUnpaidBookings(now time.Time, window time.Duration) ([]*model.Booking, error)
}

// BookingCache is the invalidation surface the booking service needs.
type BookingCache interface {
	DeleteTicketCache(id string) error
	DeleteTicketLists() error
	DeleteVendorStatsCache(vendorEmail string) error
}

// EventPublisher publishes booking lifecycle events.
type EventPublisher interface {
	SendBookingEvent(event *model.BookingEvent) error
}

type BookingService struct {
	store    BookingStore
	cache    BookingCache
	locks    lock.Lock
	producer EventPublisher
	now      func() time.Time
}

func NewBookingService(store BookingStore, cache BookingCache, locks lock.Lock, producer EventPublisher) *BookingService {
	return &BookingService{
		store:    store,
		cache:    cache,
		locks:    locks,
		producer: producer,
		now:      time.Now,
	}
}

// Create books quantity seats on a ticket for a user. Bookability is
// re-derived under the ticket lock immediately before inserting, so a
// listing that departed or sold out between page load and click is a
// clean rejection.
func (s *BookingService) Create(userEmail, ticketID string, quantity int) (*model.Booking, error) {
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	lockName := lock.TicketLockName(ticketID)
	ok, err := s.locks.AcquireLock(lockName, config.AppConfig.Booking.LockTimeout)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrLockBusy
	}
	defer s.locks.ReleaseLock(lockName)

	ticket, err := s.store.GetTicket(ticketID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	elig := eligibility.ForTicket(ticket, s.now())
	switch {
	case elig.Departed:
		return nil, ErrDeparturePassed
	case elig.SoldOut:
		return nil, ErrSoldOut
	case !elig.CanPay:
		return nil, ErrNotBookable
	}

	if quantity > ticket.Quantity {
		return nil, ErrSoldOut
	}

	booking := &model.Booking{
		ID:          uuid.New().String(),
		TicketID:    ticket.ID,
		Title:       ticket.Title,
		Image:       ticket.Image,
		From:        ticket.From,
		To:          ticket.To,
		UserEmail:   userEmail,
		VendorEmail: ticket.VendorEmail,
		Quantity:    quantity,
		UnitPrice:   ticket.Price,
		TotalPrice:  ticket.Price * float64(quantity),
		DepartureAt: ticket.DepartureAt,
		Status:      model.BookingStatusPending,
		CreatedAt:   s.now(),
	}

	if err := s.store.CreateBooking(booking); err != nil {
		if errors.Is(err, repository.ErrSoldOut) {
			return nil, ErrSoldOut
		}
		return nil, err
	}

	metrics.BookingsCreated.Inc()
	s.publish(model.BookingCreated, booking)
	return booking, nil
}

// Get returns one booking, visible to its user, its vendor or an admin.
func (s *BookingService) Get(id string, actor *model.User) (*model.Booking, error) {
	b, err := s.store.GetBooking(id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if actor.Role != model.RoleAdmin && b.UserEmail != actor.Email && b.VendorEmail != actor.Email {
		return nil, ErrForbidden
	}
	return b, nil
}

// UserBookings returns a user's bookings.
func (s *BookingService) UserBookings(userEmail string) ([]*model.Booking, error) {
	return s.store.ListUserBookings(userEmail)
}

// VendorBookings returns the bookings placed against a vendor's
// listings.
func (s *BookingService) VendorBookings(vendorEmail string) ([]*model.Booking, error) {
	return s.store.ListVendorBookings(vendorEmail)
}

// Accept moves a pending booking to accepted. Only the listing's vendor
// can decide, and only before departure.
func (s *BookingService) Accept(vendorEmail, id string) (*model.Booking, error) {
	return s.decide(vendorEmail, id, model.BookingStatusAccepted, model.BookingAccepted)
}

// Reject moves a pending booking to rejected. Rejected is terminal.
func (s *BookingService) Reject(vendorEmail, id string) (*model.Booking, error) {
	return s.decide(vendorEmail, id, model.BookingStatusRejected, model.BookingRejected)
}

func (s *BookingService) decide(vendorEmail, id string, to model.BookingStatus, eventType model.BookingEventType) (*model.Booking, error) {
	b, err := s.store.GetBooking(id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if b.VendorEmail != vendorEmail {
		return nil, ErrForbidden
	}
	if !b.DepartureAt.IsZero() && !b.DepartureAt.After(s.now()) {
		return nil, ErrDeparturePassed
	}

	if err := s.store.TransitionBooking(id, model.BookingStatusPending, to); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrAlreadyDecided
		}
		return nil, err
	}

	metrics.BookingDecisions.WithLabelValues(string(to)).Inc()
	b.Status = to
	s.publish(eventType, b)
	return b, nil
}

// PaymentReminders returns accepted, unpaid bookings departing inside
// the reminder window.
func (s *BookingService) PaymentReminders(window time.Duration) ([]*model.Booking, error) {
	return s.store.ListAcceptedUnpaidBookings(s.now(), window)
}

// publish sends a lifecycle event. When Kafka is unreachable the cache
// work the consumer would have done runs synchronously instead, so
// reads never serve a ticket the mutation made stale.
func (s *BookingService) publish(eventType model.BookingEventType, b *model.Booking) {
	event := &model.BookingEvent{
		Type:        eventType,
		BookingID:   b.ID,
		TicketID:    b.TicketID,
		UserEmail:   b.UserEmail,
		VendorEmail: b.VendorEmail,
		Quantity:    b.Quantity,
		TotalPrice:  b.TotalPrice,
		OccurredAt:  s.now(),
	}

	if err := s.producer.SendBookingEvent(event); err != nil {
		slog.Error("publish booking event failed, invalidating caches synchronously",
			"type", eventType, "booking", b.ID, "error", err)
		s.invalidateFor(event)
	}
}

// ProcessBookingEvent is the Kafka consumer handler: it drops the
// caches a transition made stale.
func (s *BookingService) ProcessBookingEvent(event *model.BookingEvent) error {
	s.invalidateFor(event)
	return nil
}

func (s *BookingService) invalidateFor(event *model.BookingEvent) {
	if err := s.cache.DeleteTicketCache(event.TicketID); err != nil {
		slog.Warn("ticket cache invalidation failed", "ticket", event.TicketID, "error", err)
	}
	if err := s.cache.DeleteTicketLists(); err != nil {
		slog.Warn("list cache invalidation failed", "error", err)
	}
	if event.Type == model.BookingPaid {
		if err := s.cache.DeleteVendorStatsCache(event.VendorEmail); err != nil {
			slog.Warn("vendor stats invalidation failed", "vendor", event.VendorEmail, "error", err)
		}
	}
}
