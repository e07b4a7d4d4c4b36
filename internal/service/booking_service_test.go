package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ticketbari/ticketbari/internal/model"
	"github.com/ticketbari/ticketbari/internal/repository"
)

var bookingNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func approvedTicket() *model.Ticket {
	return &model.Ticket{
		ID:                 "t1",
		Title:              "Dhaka to Chattogram",
		From:               "Dhaka",
		To:                 "Chattogram",
		TransportType:      "bus",
		Price:              800,
		Quantity:           10,
		DepartureAt:        bookingNow.Add(48 * time.Hour),
		VendorEmail:        "vendor@example.com",
		VerificationStatus: model.VerificationApproved,
	}
}

func newBookingHarness() (*BookingService, *fakeStore, *fakeCache, *fakeLock, *fakePublisher) {
	store := newFakeStore()
	cache := &fakeCache{}
	locks := &fakeLock{}
	producer := &fakePublisher{}
	svc := NewBookingService(store, cache, locks, producer)
	svc.now = func() time.Time { return bookingNow }
	return svc, store, cache, locks, producer
}

func TestCreateBooking(t *testing.T) {
	svc, store, _, locks, producer := newBookingHarness()
	store.tickets["t1"] = approvedTicket()

	b, err := svc.Create("rider@example.com", "t1", 2)
	require.NoError(t, err)

	assert.Equal(t, model.BookingStatusPending, b.Status)
	assert.Equal(t, 1600.0, b.TotalPrice)
	assert.Equal(t, "vendor@example.com", b.VendorEmail)
	assert.Equal(t, "Dhaka", b.From)

	require.Len(t, producer.events, 1)
	assert.Equal(t, model.BookingCreated, producer.events[0].Type)

	// lock held around the availability check and release after
	assert.Equal(t, []string{"ticket:lock:t1"}, locks.acquired)
	assert.Equal(t, []string{"ticket:lock:t1"}, locks.released)
}

func TestCreateBookingRejections(t *testing.T) {
	t.Run("invalid quantity", func(t *testing.T) {
		svc, _, _, _, _ := newBookingHarness()
		_, err := svc.Create("rider@example.com", "t1", 0)
		assert.ErrorIs(t, err, ErrInvalidQuantity)
	})

	t.Run("unknown ticket", func(t *testing.T) {
		svc, _, _, _, _ := newBookingHarness()
		_, err := svc.Create("rider@example.com", "nope", 1)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("lock busy", func(t *testing.T) {
		svc, store, _, locks, _ := newBookingHarness()
		store.tickets["t1"] = approvedTicket()
		locks.denied = true
		_, err := svc.Create("rider@example.com", "t1", 1)
		assert.ErrorIs(t, err, ErrLockBusy)
	})

	t.Run("departed ticket", func(t *testing.T) {
		svc, store, _, _, _ := newBookingHarness()
		ticket := approvedTicket()
		ticket.DepartureAt = bookingNow.Add(-time.Hour)
		store.tickets["t1"] = ticket
		_, err := svc.Create("rider@example.com", "t1", 1)
		assert.ErrorIs(t, err, ErrDeparturePassed)
	})

	t.Run("sold out ticket", func(t *testing.T) {
		svc, store, _, _, _ := newBookingHarness()
		ticket := approvedTicket()
		ticket.Quantity = 0
		store.tickets["t1"] = ticket
		_, err := svc.Create("rider@example.com", "t1", 1)
		assert.ErrorIs(t, err, ErrSoldOut)
	})

	t.Run("unapproved ticket", func(t *testing.T) {
		svc, store, _, _, _ := newBookingHarness()
		ticket := approvedTicket()
		ticket.VerificationStatus = model.VerificationPending
		store.tickets["t1"] = ticket
		_, err := svc.Create("rider@example.com", "t1", 1)
		assert.ErrorIs(t, err, ErrNotBookable)
	})

	t.Run("quantity above stock", func(t *testing.T) {
		svc, store, _, _, _ := newBookingHarness()
		store.tickets["t1"] = approvedTicket()
		_, err := svc.Create("rider@example.com", "t1", 11)
		assert.ErrorIs(t, err, ErrSoldOut)
	})

	t.Run("lost insert race", func(t *testing.T) {
		svc, store, _, _, _ := newBookingHarness()
		store.tickets["t1"] = approvedTicket()
		store.createBookingErr = repository.ErrSoldOut
		_, err := svc.Create("rider@example.com", "t1", 1)
		assert.ErrorIs(t, err, ErrSoldOut)
	})
}

func TestCreateBookingBrokerDownFallsBackToCacheInvalidation(t *testing.T) {
	svc, store, cache, _, producer := newBookingHarness()
	store.tickets["t1"] = approvedTicket()
	producer.failing = true

	_, err := svc.Create("rider@example.com", "t1", 1)
	require.NoError(t, err)

	assert.Equal(t, []string{"t1"}, cache.ticketDeletes)
	assert.Equal(t, 1, cache.listDeletes)
}

func TestGetBookingVisibility(t *testing.T) {
	svc, store, _, _, _ := newBookingHarness()
	store.bookings["b1"] = &model.Booking{
		ID:          "b1",
		UserEmail:   "rider@example.com",
		VendorEmail: "vendor@example.com",
	}

	owner := &model.User{Email: "rider@example.com", Role: model.RoleUser}
	vendor := &model.User{Email: "vendor@example.com", Role: model.RoleVendor}
	admin := &model.User{Email: "admin@example.com", Role: model.RoleAdmin}
	stranger := &model.User{Email: "other@example.com", Role: model.RoleUser}

	for _, actor := range []*model.User{owner, vendor, admin} {
		_, err := svc.Get("b1", actor)
		assert.NoError(t, err, actor.Email)
	}

	_, err := svc.Get("b1", stranger)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestDecide(t *testing.T) {
	pendingBooking := func() *model.Booking {
		return &model.Booking{
			ID:          "b1",
			TicketID:    "t1",
			UserEmail:   "rider@example.com",
			VendorEmail: "vendor@example.com",
			DepartureAt: bookingNow.Add(24 * time.Hour),
			Status:      model.BookingStatusPending,
		}
	}

	t.Run("vendor accepts pending booking", func(t *testing.T) {
		svc, store, _, _, producer := newBookingHarness()
		store.bookings["b1"] = pendingBooking()

		b, err := svc.Accept("vendor@example.com", "b1")
		require.NoError(t, err)
		assert.Equal(t, model.BookingStatusAccepted, b.Status)
		require.Len(t, producer.events, 1)
		assert.Equal(t, model.BookingAccepted, producer.events[0].Type)
	})

	t.Run("vendor rejects pending booking", func(t *testing.T) {
		svc, store, _, _, _ := newBookingHarness()
		store.bookings["b1"] = pendingBooking()

		b, err := svc.Reject("vendor@example.com", "b1")
		require.NoError(t, err)
		assert.Equal(t, model.BookingStatusRejected, b.Status)
	})

	t.Run("only the listing vendor decides", func(t *testing.T) {
		svc, store, _, _, _ := newBookingHarness()
		store.bookings["b1"] = pendingBooking()

		_, err := svc.Accept("imposter@example.com", "b1")
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("no decision after departure", func(t *testing.T) {
		svc, store, _, _, _ := newBookingHarness()
		b := pendingBooking()
		b.DepartureAt = bookingNow.Add(-time.Minute)
		store.bookings["b1"] = b

		_, err := svc.Accept("vendor@example.com", "b1")
		assert.ErrorIs(t, err, ErrDeparturePassed)
	})

	t.Run("second decision conflicts", func(t *testing.T) {
		svc, store, _, _, _ := newBookingHarness()
		store.bookings["b1"] = pendingBooking()

		_, err := svc.Accept("vendor@example.com", "b1")
		require.NoError(t, err)
		_, err = svc.Reject("vendor@example.com", "b1")
		assert.ErrorIs(t, err, ErrAlreadyDecided)
	})
}

func TestPaymentReminders(t *testing.T) {
	svc, store, _, _, _ := newBookingHarness()
	store.bookings["soon"] = &model.Booking{
		ID: "soon", Status: model.BookingStatusAccepted,
		DepartureAt: bookingNow.Add(2 * time.Hour),
	}
	store.bookings["far"] = &model.Booking{
		ID: "far", Status: model.BookingStatusAccepted,
		DepartureAt: bookingNow.Add(72 * time.Hour),
	}
	store.bookings["pending"] = &model.Booking{
		ID: "pending", Status: model.BookingStatusPending,
		DepartureAt: bookingNow.Add(2 * time.Hour),
	}

	due, err := svc.PaymentReminders(6 * time.Hour)
	require.NoError(t, err)
	require.Len(t, due, 1)
	assert.Equal(t, "soon", due[0].ID)
}

func TestProcessBookingEvent(t *testing.T) {
	svc, _, cache, _, _ := newBookingHarness()

	err := svc.ProcessBookingEvent(&model.BookingEvent{
		Type: model.BookingPaid, TicketID: "t1", VendorEmail: "vendor@example.com",
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"t1"}, cache.ticketDeletes)
	assert.Equal(t, 1, cache.listDeletes)
	assert.Equal(t, []string{"vendor@example.com"}, cache.statsDeletes)
}
