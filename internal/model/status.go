package model

// BookingStatus is the closed set of booking lifecycle states.
// Rejected and paid are terminal.
type BookingStatus string

const (
	BookingStatusPending  BookingStatus = "pending"
	BookingStatusAccepted BookingStatus = "accepted"
	BookingStatusRejected BookingStatus = "rejected"
	BookingStatusPaid     BookingStatus = "paid"
)

// VerificationStatus is the admin moderation state of a ticket.
type VerificationStatus string

const (
	VerificationPending  VerificationStatus = "pending"
	VerificationApproved VerificationStatus = "approved"
	VerificationRejected VerificationStatus = "rejected"
)

// Tone is the visual tone a status renders with.
type Tone string

const (
	ToneAmber   Tone = "amber"
	ToneEmerald Tone = "emerald"
	ToneRose    Tone = "rose"
	ToneSky     Tone = "sky"
)

// StatusBadge is the presentation of one status value.
type StatusBadge struct {
	Label string `json:"label"`
	Tone  Tone   `json:"tone"`
}

var bookingBadges = map[BookingStatus]StatusBadge{
	BookingStatusPending:  {Label: "Pending", Tone: ToneAmber},
	BookingStatusAccepted: {Label: "Accepted", Tone: ToneEmerald},
	BookingStatusRejected: {Label: "Rejected", Tone: ToneRose},
	BookingStatusPaid:     {Label: "Paid", Tone: ToneSky},
}

// Badge returns the presentation for s. Unknown or missing status values
// fall back to the pending badge.
func (s BookingStatus) Badge() StatusBadge {
	if b, ok := bookingBadges[s]; ok {
		return b
	}
	return bookingBadges[BookingStatusPending]
}

// Terminal reports whether no further transition is possible from s.
func (s BookingStatus) Terminal() bool {
	return s == BookingStatusRejected || s == BookingStatusPaid
}

var verificationBadges = map[VerificationStatus]StatusBadge{
	VerificationPending:  {Label: "Pending", Tone: ToneAmber},
	VerificationApproved: {Label: "Approved", Tone: ToneEmerald},
	VerificationRejected: {Label: "Rejected", Tone: ToneRose},
}

// Badge returns the presentation for s, falling back to pending for
// unknown values.
func (s VerificationStatus) Badge() StatusBadge {
	if b, ok := verificationBadges[s]; ok {
		return b
	}
	return verificationBadges[VerificationPending]
}
