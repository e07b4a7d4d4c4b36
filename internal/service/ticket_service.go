package service

import (
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/ticketbari/ticketbari/internal/metrics"
	"github.com/ticketbari/ticketbari/internal/model"
	"github.com/ticketbari/ticketbari/internal/repository"
)

// TicketStore is the persistence surface the ticket service needs.
type TicketStore interface {
	CreateTicket(t *model.Ticket) error
	UpdateTicket(t *model.Ticket) error
	SoftDeleteTicket(id, vendorEmail string) error
	GetTicket(id string) (*model.Ticket, error)
	ListApprovedTickets(f repository.TicketFilter) ([]*model.Ticket, error)
	ListLatestTickets(n int) ([]*model.Ticket, error)
	ListAdvertisedTickets() ([]*model.Ticket, error)
	ListVendorTickets(vendorEmail string) ([]*model.Ticket, error)
	ListAllTickets() ([]*model.Ticket, error)
	SetTicketVerification(id string, status model.VerificationStatus) error
	SetTicketAdvertised(id string, advertised bool) error
}

// TicketCache is the Redis surface the ticket service needs.
type TicketCache interface {
	GetTicketCache(id string) (*model.Ticket, bool, error)
	SetTicketCache(t *model.Ticket) error
	DeleteTicketCache(id string) error
	GetTicketList(name string) ([]*model.Ticket, bool, error)
	SetTicketList(name string, tickets []*model.Ticket) error
	DeleteTicketLists() error
}

type TicketService struct {
	store TicketStore
	cache TicketCache
	now   func() time.Time
}

func NewTicketService(store TicketStore, cache TicketCache) *TicketService {
	return &TicketService{
		store: store,
		cache: cache,
		now:   time.Now,
	}
}

// TicketInput is the vendor-supplied listing payload.
type TicketInput struct {
	Title         string
	Image         string
	From          string
	To            string
	TransportType string
	Price         float64
	Quantity      int
	DepartureAt   time.Time
	Perks         []string
}

// Create lists a new ticket for moderation. Fraud-flagged vendors
// cannot publish.
func (s *TicketService) Create(vendor *model.User, in TicketInput) (*model.Ticket, error) {
	if vendor.Fraud {
		return nil, ErrForbidden
	}

	now := s.now()
	t := &model.Ticket{
		ID:                 uuid.New().String(),
		Title:              in.Title,
		Image:              in.Image,
		From:               in.From,
		To:                 in.To,
		TransportType:      in.TransportType,
		Price:              in.Price,
		Quantity:           in.Quantity,
		DepartureAt:        in.DepartureAt,
		Perks:              in.Perks,
		VendorEmail:        vendor.Email,
		VerificationStatus: model.VerificationPending,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	if err := s.store.CreateTicket(t); err != nil {
		return nil, err
	}

	metrics.TicketsCreated.Inc()
	s.invalidate(t.ID)
	return t, nil
}

// Update rewrites a listing. Rejected listings are frozen; any edit
// moves the listing back to pending moderation.
func (s *TicketService) Update(vendorEmail, id string, in TicketInput) (*model.Ticket, error) {
	t := &model.Ticket{
		ID:            id,
		Title:         in.Title,
		Image:         in.Image,
		From:          in.From,
		To:            in.To,
		TransportType: in.TransportType,
		Price:         in.Price,
		Quantity:      in.Quantity,
		DepartureAt:   in.DepartureAt,
		Perks:         in.Perks,
		VendorEmail:   vendorEmail,
		UpdatedAt:     s.now(),
	}

	if err := s.store.UpdateTicket(t); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrNotEditable
		}
		return nil, err
	}

	s.invalidate(id)
	return s.Get(id)
}

// Delete soft-deletes a vendor's listing.
func (s *TicketService) Delete(vendorEmail, id string) error {
	if err := s.store.SoftDeleteTicket(id, vendorEmail); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	s.invalidate(id)
	return nil
}

// Get returns one listing, reading through the cache.
func (s *TicketService) Get(id string) (*model.Ticket, error) {
	if t, hit, err := s.cache.GetTicketCache(id); err == nil && hit {
		return t, nil
	} else if err != nil {
		slog.Warn("ticket cache read failed", "ticket", id, "error", err)
	}

	t, err := s.store.GetTicket(id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if err := s.cache.SetTicketCache(t); err != nil {
		slog.Warn("ticket cache write failed", "ticket", id, "error", err)
	}
	return t, nil
}

// Search returns approved listings matching the marketplace filter.
func (s *TicketService) Search(f repository.TicketFilter) ([]*model.Ticket, error) {
	return s.store.ListApprovedTickets(f)
}

// Latest returns the most recent approved listings, cached.
func (s *TicketService) Latest(n int) ([]*model.Ticket, error) {
	if tickets, hit, err := s.cache.GetTicketList(repository.ListLatest); err == nil && hit {
		if len(tickets) > n {
			tickets = tickets[:n]
		}
		return tickets, nil
	}

	tickets, err := s.store.ListLatestTickets(n)
	if err != nil {
		return nil, err
	}

	if err := s.cache.SetTicketList(repository.ListLatest, tickets); err != nil {
		slog.Warn("latest list cache write failed", "error", err)
	}
	return tickets, nil
}

// Advertised returns the admin-advertised listings, cached.
func (s *TicketService) Advertised() ([]*model.Ticket, error) {
	if tickets, hit, err := s.cache.GetTicketList(repository.ListAdvertised); err == nil && hit {
		return tickets, nil
	}

	tickets, err := s.store.ListAdvertisedTickets()
	if err != nil {
		return nil, err
	}

	if err := s.cache.SetTicketList(repository.ListAdvertised, tickets); err != nil {
		slog.Warn("advertised list cache write failed", "error", err)
	}
	return tickets, nil
}

// VendorTickets returns every listing of one vendor, any status.
func (s *TicketService) VendorTickets(vendorEmail string) ([]*model.Ticket, error) {
	return s.store.ListVendorTickets(vendorEmail)
}

// AllForModeration returns every listing for the admin dashboard.
func (s *TicketService) AllForModeration() ([]*model.Ticket, error) {
	return s.store.ListAllTickets()
}

// Moderate moves a listing through admin moderation.
func (s *TicketService) Moderate(id string, status model.VerificationStatus) error {
	if err := s.store.SetTicketVerification(id, status); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	s.invalidate(id)
	return nil
}

// Advertise toggles home-page advertisement for an approved listing.
func (s *TicketService) Advertise(id string, advertised bool) error {
	if err := s.store.SetTicketAdvertised(id, advertised); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return ErrNotBookable
		}
		return err
	}
	s.invalidate(id)
	return nil
}

// invalidate drops the caches a ticket mutation makes stale. Consumers
// refetch after the action succeeds.
func (s *TicketService) invalidate(id string) {
	if err := s.cache.DeleteTicketCache(id); err != nil {
		slog.Warn("ticket cache invalidation failed", "ticket", id, "error", err)
	}
	if err := s.cache.DeleteTicketLists(); err != nil {
		slog.Warn("list cache invalidation failed", "error", err)
	}
}
