package eligibility

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/ticketbari/ticketbari/internal/model"
)

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func intPtr(n int) *int { return &n }

func TestDeriveTicket(t *testing.T) {
	future := testNow.Add(48 * time.Hour)
	past := testNow.Add(-time.Minute)

	tests := []struct {
		name string
		in   Input
		want Result
	}{
		{
			name: "approved ticket with stock is bookable",
			in: Input{
				Kind:        KindTicket,
				Status:      string(model.VerificationApproved),
				Quantity:    intPtr(5),
				DepartureAt: future,
				Now:         testNow,
			},
			want: Result{CanPay: true, Label: "Book Now"},
		},
		{
			name: "pending ticket waits for approval",
			in: Input{
				Kind:        KindTicket,
				Status:      string(model.VerificationPending),
				Quantity:    intPtr(5),
				DepartureAt: future,
				Now:         testNow,
			},
			want: Result{Label: "Awaiting admin approval"},
		},
		{
			name: "rejected ticket outranks everything",
			in: Input{
				Kind:        KindTicket,
				Status:      string(model.VerificationRejected),
				Quantity:    intPtr(0),
				DepartureAt: past,
				Now:         testNow,
			},
			want: Result{SoldOut: true, Departed: true, Label: "Listing was rejected by admin."},
		},
		{
			name: "departure exactly now counts as departed",
			in: Input{
				Kind:        KindTicket,
				Status:      string(model.VerificationApproved),
				Quantity:    intPtr(5),
				DepartureAt: testNow,
				Now:         testNow,
			},
			want: Result{Departed: true, Label: "Booking Closed"},
		},
		{
			name: "zero quantity is sold out",
			in: Input{
				Kind:        KindTicket,
				Status:      string(model.VerificationApproved),
				Quantity:    intPtr(0),
				DepartureAt: future,
				Now:         testNow,
			},
			want: Result{SoldOut: true, Label: "Sold Out"},
		},
		{
			name: "negative quantity is sold out",
			in: Input{
				Kind:        KindTicket,
				Status:      string(model.VerificationApproved),
				Quantity:    intPtr(-1),
				DepartureAt: future,
				Now:         testNow,
			},
			want: Result{SoldOut: true, Label: "Sold Out"},
		},
		{
			name: "unknown quantity is never sold out",
			in: Input{
				Kind:        KindTicket,
				Status:      string(model.VerificationApproved),
				Quantity:    nil,
				DepartureAt: future,
				Now:         testNow,
			},
			want: Result{CanPay: true, Label: "Book Now"},
		},
		{
			name: "zero departure means no time constraint",
			in: Input{
				Kind:     KindTicket,
				Status:   string(model.VerificationApproved),
				Quantity: intPtr(3),
				Now:      testNow,
			},
			want: Result{CanPay: true, Label: "Book Now"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Derive(tt.in))
		})
	}
}

func TestDeriveBooking(t *testing.T) {
	future := testNow.Add(24 * time.Hour)
	past := testNow.Add(-24 * time.Hour)

	base := Input{
		Kind:        KindBooking,
		Status:      string(model.BookingStatusAccepted),
		TotalPrice:  1200,
		DepartureAt: future,
		OwnerEmail:  "rider@example.com",
		ActorEmail:  "rider@example.com",
		Now:         testNow,
	}

	t.Run("accepted booking owned by actor is payable", func(t *testing.T) {
		got := Derive(base)
		assert.True(t, got.CanPay)
		assert.Equal(t, "Pay Now", got.Label)
	})

	t.Run("pending booking cannot pay", func(t *testing.T) {
		in := base
		in.Status = string(model.BookingStatusPending)
		got := Derive(in)
		assert.False(t, got.CanPay)
		assert.Equal(t, "Awaiting vendor decision", got.Label)
	})

	t.Run("paid booking cannot pay again", func(t *testing.T) {
		in := base
		in.Status = string(model.BookingStatusPaid)
		got := Derive(in)
		assert.False(t, got.CanPay)
		assert.Equal(t, "Already paid", got.Label)
	})

	t.Run("rejected booking shows rejection and never pays", func(t *testing.T) {
		in := base
		in.Status = string(model.BookingStatusRejected)
		got := Derive(in)
		assert.False(t, got.CanPay)
		assert.Equal(t, "Booking was rejected. You will not be charged.", got.Label)
	})

	t.Run("departure passing flips payable off", func(t *testing.T) {
		in := base
		in.DepartureAt = past
		got := Derive(in)
		assert.False(t, got.CanPay)
		assert.True(t, got.Departed)
		assert.Equal(t, "Departure Passed", got.Label)
	})

	t.Run("someone else's booking is not payable", func(t *testing.T) {
		in := base
		in.ActorEmail = "other@example.com"
		assert.False(t, Derive(in).CanPay)
	})

	t.Run("non-finite or non-positive totals block payment", func(t *testing.T) {
		for _, price := range []float64{0, -10, math.NaN(), math.Inf(1), math.Inf(-1)} {
			in := base
			in.TotalPrice = price
			assert.False(t, Derive(in).CanPay, "price %v", price)
		}
	})
}

func TestForBookingConsistentWithDerive(t *testing.T) {
	b := &model.Booking{
		Status:      model.BookingStatusAccepted,
		TotalPrice:  500,
		DepartureAt: testNow.Add(time.Hour),
		UserEmail:   "rider@example.com",
	}

	got := ForBooking(b, "rider@example.com", testNow)
	assert.True(t, got.CanPay)

	got = ForBooking(b, "stranger@example.com", testNow)
	assert.False(t, got.CanPay)
}

func TestForTicketUsesQuantity(t *testing.T) {
	ticket := &model.Ticket{
		VerificationStatus: model.VerificationApproved,
		Quantity:           0,
		DepartureAt:        testNow.Add(time.Hour),
	}
	got := ForTicket(ticket, testNow)
	assert.True(t, got.SoldOut)
	assert.False(t, got.CanPay)
}
