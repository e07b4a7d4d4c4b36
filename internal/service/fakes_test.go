package service

import (
	"errors"
	"time"

	"github.com/ticketbari/ticketbari/internal/model"
	"github.com/ticketbari/ticketbari/internal/payment"
	"github.com/ticketbari/ticketbari/internal/repository"
)

// fakeStore is an in-memory stand-in for the MySQL repository.
type fakeStore struct {
	tickets  map[string]*model.Ticket
	bookings map[string]*model.Booking
	payments map[string]*model.Payment

	createBookingErr error
	captureErr       error
	captured         []string
	expiredCount     int64
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		tickets:  make(map[string]*model.Ticket),
		bookings: make(map[string]*model.Booking),
		payments: make(map[string]*model.Payment),
	}
}

func (f *fakeStore) GetTicket(id string) (*model.Ticket, error) {
	t, ok := f.tickets[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *t
	return &copied, nil
}

func (f *fakeStore) CreateBooking(b *model.Booking) error {
	if f.createBookingErr != nil {
		return f.createBookingErr
	}
	f.bookings[b.ID] = b
	return nil
}

func (f *fakeStore) GetBooking(id string) (*model.Booking, error) {
	b, ok := f.bookings[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *b
	return &copied, nil
}

func (f *fakeStore) ListUserBookings(userEmail string) ([]*model.Booking, error) {
	var out []*model.Booking
	for _, b := range f.bookings {
		if b.UserEmail == userEmail {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeStore) ListVendorBookings(vendorEmail string) ([]*model.Booking, error) {
	var out []*model.Booking
	for _, b := range f.bookings {
		if b.VendorEmail == vendorEmail {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeStore) TransitionBooking(id string, from, to model.BookingStatus) error {
	b, ok := f.bookings[id]
	if !ok {
		return repository.ErrNotFound
	}
	if b.Status != from {
		return repository.ErrConflict
	}
	b.Status = to
	return nil
}

func (f *fakeStore) ListAcceptedUnpaidBookings(now time.Time, window time.Duration) ([]*model.Booking, error) {
	var out []*model.Booking
	for _, b := range f.bookings {
		if b.Status == model.BookingStatusAccepted &&
			b.DepartureAt.After(now) && !b.DepartureAt.After(now.Add(window)) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeStore) CreatePayment(p *model.Payment) error {
	f.payments[p.SessionID] = p
	return nil
}

func (f *fakeStore) GetPaymentBySession(sessionID string) (*model.Payment, error) {
	p, ok := f.payments[sessionID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *p
	return &copied, nil
}

func (f *fakeStore) ListUserPayments(userEmail string) ([]*model.Payment, error) {
	var out []*model.Payment
	for _, p := range f.payments {
		if p.UserEmail == userEmail {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeStore) CapturePayment(paymentID, bookingID, ticketID string, quantity int, paidAt time.Time) error {
	if f.captureErr != nil {
		return f.captureErr
	}

	b, ok := f.bookings[bookingID]
	if !ok {
		return repository.ErrNotFound
	}
	if b.Status != model.BookingStatusAccepted {
		return repository.ErrConflict
	}
	if t, ok := f.tickets[ticketID]; ok {
		if t.Quantity < quantity {
			return repository.ErrSoldOut
		}
		t.Quantity -= quantity
	}

	b.Status = model.BookingStatusPaid
	for _, p := range f.payments {
		if p.ID == paymentID {
			p.Status = model.PaymentPaid
			at := paidAt
			p.PaidAt = &at
		}
	}
	f.captured = append(f.captured, paymentID)
	return nil
}

func (f *fakeStore) SetPaymentStatus(id string, from, to model.PaymentStatus) error {
	for _, p := range f.payments {
		if p.ID == id {
			if p.Status != from {
				return repository.ErrConflict
			}
			p.Status = to
			return nil
		}
	}
	return repository.ErrNotFound
}

func (f *fakeStore) ExpireStalePayments(ttl time.Duration, now time.Time) (int64, error) {
	return f.expiredCount, nil
}

// fakeCache records invalidations.
type fakeCache struct {
	ticketDeletes []string
	listDeletes   int
	statsDeletes  []string
}

func (f *fakeCache) DeleteTicketCache(id string) error {
	f.ticketDeletes = append(f.ticketDeletes, id)
	return nil
}

func (f *fakeCache) DeleteTicketLists() error {
	f.listDeletes++
	return nil
}

func (f *fakeCache) DeleteVendorStatsCache(vendorEmail string) error {
	f.statsDeletes = append(f.statsDeletes, vendorEmail)
	return nil
}

// fakeLock grants or denies every acquisition.
type fakeLock struct {
	denied   bool
	acquired []string
	released []string
}

func (f *fakeLock) AcquireLock(lockName string, timeout time.Duration) (bool, error) {
	if f.denied {
		return false, nil
	}
	f.acquired = append(f.acquired, lockName)
	return true, nil
}

func (f *fakeLock) RefreshLock(lockName string, timeout time.Duration) (bool, error) {
	return true, nil
}

func (f *fakeLock) ReleaseLock(lockName string) error {
	f.released = append(f.released, lockName)
	return nil
}

func (f *fakeLock) ReleaseAllLocks() {}

func (f *fakeLock) Close() error { return nil }

// fakePublisher records events and can simulate a broker outage.
type fakePublisher struct {
	failing bool
	events  []*model.BookingEvent
}

var errBrokerDown = errors.New("broker down")

func (f *fakePublisher) SendBookingEvent(event *model.BookingEvent) error {
	if f.failing {
		return errBrokerDown
	}
	f.events = append(f.events, event)
	return nil
}

// fakeProvider issues predictable sessions.
type fakeProvider struct {
	verifyErr error
	sessions  int
}

func (f *fakeProvider) CreateSession(booking *model.Booking) (*payment.Session, error) {
	f.sessions++
	return &payment.Session{
		ID:        "cs_test",
		URL:       "https://pay.example.com/checkout?session_id=cs_test",
		BookingID: booking.ID,
		Amount:    booking.TotalPrice,
		CreatedAt: time.Now(),
	}, nil
}

func (f *fakeProvider) VerifySession(sessionID string) error {
	return f.verifyErr
}
