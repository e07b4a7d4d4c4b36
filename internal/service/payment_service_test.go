package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ticketbari/ticketbari/internal/model"
	"github.com/ticketbari/ticketbari/internal/payment"
)

var payNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func acceptedBooking() *model.Booking {
	return &model.Booking{
		ID:          "b1",
		TicketID:    "t1",
		UserEmail:   "rider@example.com",
		VendorEmail: "vendor@example.com",
		Quantity:    2,
		UnitPrice:   800,
		TotalPrice:  1600,
		DepartureAt: payNow.Add(24 * time.Hour),
		Status:      model.BookingStatusAccepted,
	}
}

func newPaymentHarness() (*PaymentService, *fakeStore, *fakeCache, *fakeLock, *fakePublisher, *fakeProvider) {
	store := newFakeStore()
	cache := &fakeCache{}
	locks := &fakeLock{}
	producer := &fakePublisher{}
	provider := &fakeProvider{}
	svc := NewPaymentService(store, cache, locks, producer, provider)
	svc.now = func() time.Time { return payNow }
	return svc, store, cache, locks, producer, provider
}

func TestCheckout(t *testing.T) {
	svc, store, _, _, _, provider := newPaymentHarness()
	store.bookings["b1"] = acceptedBooking()

	session, err := svc.Checkout("rider@example.com", "b1")
	require.NoError(t, err)

	assert.Equal(t, "cs_test", session.ID)
	assert.Equal(t, 1600.0, session.Amount)
	assert.Equal(t, 1, provider.sessions)

	p, err := store.GetPaymentBySession("cs_test")
	require.NoError(t, err)
	assert.Equal(t, model.PaymentCreated, p.Status)
	assert.Equal(t, "b1", p.BookingID)
}

func TestCheckoutRejections(t *testing.T) {
	t.Run("unknown booking", func(t *testing.T) {
		svc, _, _, _, _, _ := newPaymentHarness()
		_, err := svc.Checkout("rider@example.com", "nope")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("foreign booking", func(t *testing.T) {
		svc, store, _, _, _, _ := newPaymentHarness()
		store.bookings["b1"] = acceptedBooking()
		_, err := svc.Checkout("other@example.com", "b1")
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("departed booking", func(t *testing.T) {
		svc, store, _, _, _, _ := newPaymentHarness()
		b := acceptedBooking()
		b.DepartureAt = payNow.Add(-time.Hour)
		store.bookings["b1"] = b
		_, err := svc.Checkout("rider@example.com", "b1")
		assert.ErrorIs(t, err, ErrDeparturePassed)
	})

	t.Run("pending booking", func(t *testing.T) {
		svc, store, _, _, _, _ := newPaymentHarness()
		b := acceptedBooking()
		b.Status = model.BookingStatusPending
		store.bookings["b1"] = b
		_, err := svc.Checkout("rider@example.com", "b1")
		assert.ErrorIs(t, err, ErrNotPayable)
	})
}

func TestHandleSuccessCaptures(t *testing.T) {
	svc, store, _, locks, producer, _ := newPaymentHarness()
	store.tickets["t1"] = approvedTicket()
	store.bookings["b1"] = acceptedBooking()
	store.payments["cs_test"] = &model.Payment{
		ID: "p1", SessionID: "cs_test", BookingID: "b1",
		UserEmail: "rider@example.com", Amount: 1600,
		Status: model.PaymentCreated,
	}

	b, captured, err := svc.HandleSuccess("cs_test")
	require.NoError(t, err)
	assert.True(t, captured)
	assert.Equal(t, model.BookingStatusPaid, b.Status)

	// quantity decremented at capture time, not at booking time
	assert.Equal(t, 8, store.tickets["t1"].Quantity)
	assert.Equal(t, []string{"p1"}, store.captured)

	require.Len(t, producer.events, 1)
	assert.Equal(t, model.BookingPaid, producer.events[0].Type)
	assert.Equal(t, []string{"ticket:lock:t1"}, locks.acquired)
	assert.Equal(t, []string{"ticket:lock:t1"}, locks.released)
}

func TestHandleSuccessReplayIsNoOp(t *testing.T) {
	svc, store, _, _, producer, _ := newPaymentHarness()
	store.tickets["t1"] = approvedTicket()
	store.bookings["b1"] = acceptedBooking()
	store.payments["cs_test"] = &model.Payment{
		ID: "p1", SessionID: "cs_test", BookingID: "b1",
		UserEmail: "rider@example.com", Status: model.PaymentCreated,
	}

	_, captured, err := svc.HandleSuccess("cs_test")
	require.NoError(t, err)
	require.True(t, captured)

	b, captured, err := svc.HandleSuccess("cs_test")
	require.NoError(t, err)
	assert.False(t, captured)
	assert.Equal(t, model.BookingStatusPaid, b.Status)
	assert.Len(t, producer.events, 1)
	assert.Equal(t, 8, store.tickets["t1"].Quantity)
}

func TestHandleSuccessStaleReturn(t *testing.T) {
	svc, store, _, _, producer, _ := newPaymentHarness()
	b := acceptedBooking()
	b.DepartureAt = payNow.Add(-time.Hour)
	store.bookings["b1"] = b
	store.payments["cs_test"] = &model.Payment{
		ID: "p1", SessionID: "cs_test", BookingID: "b1",
		UserEmail: "rider@example.com", Status: model.PaymentCreated,
	}

	got, captured, err := svc.HandleSuccess("cs_test")
	require.NoError(t, err)
	assert.False(t, captured)
	assert.Equal(t, model.BookingStatusAccepted, got.Status)

	p, err := store.GetPaymentBySession("cs_test")
	require.NoError(t, err)
	assert.Equal(t, model.PaymentExpired, p.Status)
	assert.Empty(t, producer.events)
}

func TestHandleSuccessInvalidSignature(t *testing.T) {
	svc, _, _, _, _, provider := newPaymentHarness()
	provider.verifyErr = payment.ErrInvalidSession

	_, _, err := svc.HandleSuccess("cs_forged")
	assert.ErrorIs(t, err, payment.ErrInvalidSession)
}

func TestHandleSuccessLockBusy(t *testing.T) {
	svc, store, _, locks, _, _ := newPaymentHarness()
	store.bookings["b1"] = acceptedBooking()
	store.payments["cs_test"] = &model.Payment{
		ID: "p1", SessionID: "cs_test", BookingID: "b1",
		UserEmail: "rider@example.com", Status: model.PaymentCreated,
	}
	locks.denied = true

	_, _, err := svc.HandleSuccess("cs_test")
	assert.ErrorIs(t, err, ErrLockBusy)
}

func TestHandleCancel(t *testing.T) {
	svc, store, _, _, _, _ := newPaymentHarness()
	store.bookings["b1"] = acceptedBooking()
	store.payments["cs_test"] = &model.Payment{
		ID: "p1", SessionID: "cs_test", BookingID: "b1",
		UserEmail: "rider@example.com", Status: model.PaymentCreated,
	}

	require.NoError(t, svc.HandleCancel("cs_test"))
	p, _ := store.GetPaymentBySession("cs_test")
	assert.Equal(t, model.PaymentCancelled, p.Status)

	// booking untouched, a new session can be opened later
	b, _ := store.GetBooking("b1")
	assert.Equal(t, model.BookingStatusAccepted, b.Status)

	// cancelling again is a quiet no-op
	assert.NoError(t, svc.HandleCancel("cs_test"))
}

func TestSweepExpired(t *testing.T) {
	svc, store, _, _, _, _ := newPaymentHarness()
	store.expiredCount = 3

	n, err := svc.SweepExpired()
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
}
