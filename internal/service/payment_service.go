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
	"github.com/ticketbari/ticketbari/internal/payment"
	"github.com/ticketbari/ticketbari/internal/repository"
)

// PaymentStore is the persistence surface the payment service needs.
type PaymentStore interface {
	GetBooking(id string) (*model.Booking, error)
	CreatePayment(p *model.Payment) error
	GetPaymentBySession(sessionID string) (*model.Payment, error)
	ListUserPayments(userEmail string) ([]*model.Payment, error)
	CapturePayment(paymentID, bookingID, ticketID string, quantity int, paidAt time.Time) error
	SetPaymentStatus(id string, from, to model.PaymentStatus) error
	ExpireStalePayments(ttl time.Duration, now time.Time) (int64, error)
}

type PaymentService struct {
	store    PaymentStore
	cache    BookingCache
	locks    lock.Lock
	producer EventPublisher
	provider payment.Provider
	now      func() time.Time
}

func NewPaymentService(store PaymentStore, cache BookingCache, locks lock.Lock, producer EventPublisher, provider payment.Provider) *PaymentService {
	return &PaymentService{
		store:    store,
		cache:    cache,
		locks:    locks,
		producer: producer,
		provider: provider,
		now:      time.Now,
	}
}

// Checkout opens a checkout session for an accepted booking and returns
// the hosted page URL. Eligibility is derived fresh, so an expired or
// foreign booking never reaches the payment page.
func (s *PaymentService) Checkout(userEmail, bookingID string) (*payment.Session, error) {
	b, err := s.store.GetBooking(bookingID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	elig := eligibility.ForBooking(b, userEmail, s.now())
	if !elig.CanPay {
		if b.UserEmail != userEmail {
			return nil, ErrForbidden
		}
		if elig.Departed {
			return nil, ErrDeparturePassed
		}
		return nil, ErrNotPayable
	}

	session, err := s.provider.CreateSession(b)
	if err != nil {
		return nil, err
	}

	p := &model.Payment{
		ID:        uuid.New().String(),
		SessionID: session.ID,
		BookingID: b.ID,
		UserEmail: b.UserEmail,
		Amount:    session.Amount,
		Status:    model.PaymentCreated,
		CreatedAt: s.now(),
	}
	if err := s.store.CreatePayment(p); err != nil {
		return nil, err
	}

	return session, nil
}

// HandleSuccess captures a returning checkout session. Eligibility is
// recomputed immediately before capture; a stale return (already paid,
// departed in the meantime) is a no-op rather than an error, reported
// through the captured flag.
func (s *PaymentService) HandleSuccess(sessionID string) (*model.Booking, bool, error) {
	if err := s.provider.VerifySession(sessionID); err != nil {
		return nil, false, err
	}

	p, err := s.store.GetPaymentBySession(sessionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, false, ErrNotFound
		}
		return nil, false, err
	}

	b, err := s.store.GetBooking(p.BookingID)
	if err != nil {
		return nil, false, err
	}

	// duplicate callback for a captured session
	if p.Status == model.PaymentPaid || b.Status == model.BookingStatusPaid {
		return b, false, nil
	}
	if p.Status != model.PaymentCreated {
		return b, false, nil
	}

	lockName := lock.TicketLockName(b.TicketID)
	ok, err := s.locks.AcquireLock(lockName, config.AppConfig.Booking.LockTimeout)
	if err != nil {
		return nil, false, err
	}
	if !ok {
		return nil, false, ErrLockBusy
	}
	defer s.locks.ReleaseLock(lockName)

	elig := eligibility.ForBooking(b, p.UserEmail, s.now())
	if !elig.CanPay {
		// stale return: park the session, leave the booking untouched
		if err := s.store.SetPaymentStatus(p.ID, model.PaymentCreated, model.PaymentExpired); err != nil &&
			!errors.Is(err, repository.ErrConflict) {
			slog.Warn("expire stale payment failed", "payment", p.ID, "error", err)
		}
		return b, false, nil
	}

	paidAt := s.now()
	if err := s.store.CapturePayment(p.ID, b.ID, b.TicketID, b.Quantity, paidAt); err != nil {
		if errors.Is(err, repository.ErrSoldOut) {
			return nil, false, ErrSoldOut
		}
		if errors.Is(err, repository.ErrConflict) {
			// another capture won the race
			return b, false, nil
		}
		return nil, false, err
	}

	metrics.PaymentsCaptured.Inc()
	b.Status = model.BookingStatusPaid

	event := &model.BookingEvent{
		Type:        model.BookingPaid,
		BookingID:   b.ID,
		TicketID:    b.TicketID,
		UserEmail:   b.UserEmail,
		VendorEmail: b.VendorEmail,
		Quantity:    b.Quantity,
		TotalPrice:  b.TotalPrice,
		OccurredAt:  paidAt,
	}
	if err := s.producer.SendBookingEvent(event); err != nil {
		slog.Error("publish paid event failed, invalidating caches synchronously",
			"booking", b.ID, "error", err)
		s.cache.DeleteTicketCache(b.TicketID)
		s.cache.DeleteTicketLists()
		s.cache.DeleteVendorStatsCache(b.VendorEmail)
	}

	return b, true, nil
}

// HandleCancel marks a returning session cancelled. The booking keeps
// its state; the user can open a new session later.
func (s *PaymentService) HandleCancel(sessionID string) error {
	if err := s.provider.VerifySession(sessionID); err != nil {
		return err
	}

	p, err := s.store.GetPaymentBySession(sessionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}

	if err := s.store.SetPaymentStatus(p.ID, model.PaymentCreated, model.PaymentCancelled); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil // already captured or expired, nothing to cancel
		}
		return err
	}
	return nil
}

// History returns a user's transaction history.
func (s *PaymentService) History(userEmail string) ([]*model.Payment, error) {
	return s.store.ListUserPayments(userEmail)
}

// SweepExpired moves stale unpaid checkout sessions to expired.
func (s *PaymentService) SweepExpired() (int64, error) {
	n, err := s.store.ExpireStalePayments(config.AppConfig.Payment.SessionTTL, s.now())
	if err != nil {
		return 0, err
	}
	if n > 0 {
		metrics.PaymentsSwept.Add(float64(n))
		slog.Info("expired stale checkout sessions", "count", n)
	}
	return n, nil
}
