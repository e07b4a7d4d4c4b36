// Package eligibility is the single place booking and ticket state is
// derived from. Every consumer (HTTP handlers, payment capture, GraphQL
// resolvers) calls Derive instead of re-branching on status strings.
package eligibility

import (
	"math"
	"time"

	"github.com/ticketbari/ticketbari/internal/model"
)

// Kind selects which rule set applies.
type Kind int

const (
	KindTicket Kind = iota
	KindBooking
)

// Input is everything the derivation reads. Malformed values degrade:
// a zero DepartureAt means no departure constraint, a nil Quantity means
// unknown, a non-finite price means unknown.
type Input struct {
	Kind        Kind
	Status      string
	Quantity    *int
	DepartureAt time.Time
	TotalPrice  float64
	OwnerEmail  string
	ActorEmail  string
	Now         time.Time
}

// Result is the derived, displayable state of a ticket or booking.
type Result struct {
	CanPay   bool   `json:"canPay"`
	SoldOut  bool   `json:"isSoldOut"`
	Departed bool   `json:"hasDeparted"`
	Label    string `json:"displayLabel"`
}

const (
	labelPayNow         = "Pay Now"
	labelBookNow        = "Book Now"
	labelDeparturePast  = "Departure Passed"
	labelBookingClosed  = "Booking Closed"
	labelSoldOut        = "Sold Out"
	labelAlreadyPaid    = "Already paid"
	labelBookingPending = "Awaiting vendor decision"
	labelTicketPending  = "Awaiting admin approval"
	labelBookingReject  = "Booking was rejected. You will not be charged."
	labelTicketReject   = "Listing was rejected by admin."
)

// Derive computes payment/booking eligibility and the display label for
// one record at one instant. It is pure and never errors.
func Derive(in Input) Result {
	var res Result

	res.Departed = !in.DepartureAt.IsZero() && !in.DepartureAt.After(in.Now)
	res.SoldOut = in.Quantity != nil && *in.Quantity <= 0

	rejected := in.Status == string(model.BookingStatusRejected) ||
		in.Status == string(model.VerificationRejected)

	switch in.Kind {
	case KindBooking:
		priceOK := !math.IsNaN(in.TotalPrice) && !math.IsInf(in.TotalPrice, 0) && in.TotalPrice > 0
		owns := in.OwnerEmail != "" && in.OwnerEmail == in.ActorEmail
		res.CanPay = in.Status == string(model.BookingStatusAccepted) &&
			!res.Departed && priceOK && owns
	default:
		approved := in.Status == string(model.VerificationApproved)
		res.CanPay = approved && !res.Departed && !res.SoldOut
	}

	res.Label = label(in, res, rejected)
	return res
}

// label resolves by fixed priority: rejected, departed, sold out,
// payable, then a status-specific waiting message.
func label(in Input, res Result, rejected bool) string {
	ticket := in.Kind != KindBooking

	switch {
	case rejected:
		if ticket {
			return labelTicketReject
		}
		return labelBookingReject
	case res.Departed:
		if ticket {
			return labelBookingClosed
		}
		return labelDeparturePast
	case res.SoldOut:
		return labelSoldOut
	case res.CanPay:
		if ticket {
			return labelBookNow
		}
		return labelPayNow
	}

	if in.Status == string(model.BookingStatusPaid) {
		return labelAlreadyPaid
	}
	if ticket {
		return labelTicketPending
	}
	return labelBookingPending
}

// ForTicket derives the bookable state of a ticket at now.
func ForTicket(t *model.Ticket, now time.Time) Result {
	qty := t.Quantity
	return Derive(Input{
		Kind:        KindTicket,
		Status:      string(t.VerificationStatus),
		Quantity:    &qty,
		DepartureAt: t.DepartureAt,
		Now:         now,
	})
}

// ForBooking derives the payable state of a booking for the acting user
// at now.
func ForBooking(b *model.Booking, actorEmail string, now time.Time) Result {
	return Derive(Input{
		Kind:        KindBooking,
		Status:      string(b.Status),
		DepartureAt: b.DepartureAt,
		TotalPrice:  b.TotalPrice,
		OwnerEmail:  b.UserEmail,
		ActorEmail:  actorEmail,
		Now:         now,
	})
}
