package model

import (
	"time"
)

// Role is the access level of a registered account.
type Role string

const (
	RoleUser   Role = "user"
	RoleVendor Role = "vendor"
	RoleAdmin  Role = "admin"
)

// User is a registered account. Vendors and admins are promoted users.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	PhotoURL  string    `json:"photoURL,omitempty"`
	Password  string    `json:"-"`
	Role      Role      `json:"role"`
	Fraud     bool      `json:"fraud"`
	CreatedAt time.Time `json:"createdAt"`
}

// Ticket is a vendor-listed travel offering.
type Ticket struct {
	ID                 string             `json:"id"`
	Title              string             `json:"title"`
	Image              string             `json:"image,omitempty"`
	From               string             `json:"from"`
	To                 string             `json:"to"`
	TransportType      string             `json:"transportType"`
	Price              float64            `json:"price"`
	Quantity           int                `json:"quantity"`
	DepartureAt        time.Time          `json:"departureAt"`
	Perks              []string           `json:"perks,omitempty"`
	VendorEmail        string             `json:"vendorEmail"`
	VerificationStatus VerificationStatus `json:"verificationStatus"`
	Advertised         bool               `json:"advertised"`
	CreatedAt          time.Time          `json:"createdAt"`
	UpdatedAt          time.Time          `json:"updatedAt"`
}

// Booking is a user's request to purchase some quantity of a ticket.
// It is denormalized with the ticket's route and departure so booking
// listings do not fan out into ticket lookups.
type Booking struct {
	ID          string        `json:"id"`
	TicketID    string        `json:"ticketId"`
	Title       string        `json:"title"`
	Image       string        `json:"image,omitempty"`
	From        string        `json:"from"`
	To          string        `json:"to"`
	UserEmail   string        `json:"userEmail"`
	VendorEmail string        `json:"vendorEmail"`
	Quantity    int           `json:"bookedQuantity"`
	UnitPrice   float64       `json:"unitPrice"`
	TotalPrice  float64       `json:"totalPrice"`
	DepartureAt time.Time     `json:"departureAt"`
	Status      BookingStatus `json:"status"`
	CreatedAt   time.Time     `json:"createdAt"`
}

// PaymentStatus is the lifecycle of a checkout session.
type PaymentStatus string

const (
	PaymentCreated   PaymentStatus = "created"
	PaymentPaid      PaymentStatus = "paid"
	PaymentExpired   PaymentStatus = "expired"
	PaymentCancelled PaymentStatus = "cancelled"
)

// Payment records one checkout session handed off to the hosted payment page.
type Payment struct {
	ID        string        `json:"id"`
	SessionID string        `json:"sessionId"`
	BookingID string        `json:"bookingId"`
	UserEmail string        `json:"userEmail"`
	Amount    float64       `json:"amount"`
	Status    PaymentStatus `json:"status"`
	CreatedAt time.Time     `json:"createdAt"`
	PaidAt    *time.Time    `json:"paidAt,omitempty"`
}

// VendorStats is the revenue overview for one vendor.
type VendorStats struct {
	VendorEmail       string  `json:"vendorEmail"`
	TotalRevenue      float64 `json:"totalRevenue"`
	TotalTicketsSold  int     `json:"totalTicketsSold"`
	TotalTicketsAdded int     `json:"totalTicketsAdded"`
}

// BookingEventType enumerates the booking lifecycle transitions published
// to Kafka.
type BookingEventType string

const (
	BookingCreated  BookingEventType = "booking.created"
	BookingAccepted BookingEventType = "booking.accepted"
	BookingRejected BookingEventType = "booking.rejected"
	BookingPaid     BookingEventType = "booking.paid"
)

// BookingEvent is the Kafka payload for a booking lifecycle transition.
type BookingEvent struct {
	Type        BookingEventType `json:"type"`
	BookingID   string           `json:"bookingId"`
	TicketID    string           `json:"ticketId"`
	UserEmail   string           `json:"userEmail"`
	VendorEmail string           `json:"vendorEmail"`
	Quantity    int              `json:"quantity"`
	TotalPrice  float64          `json:"totalPrice"`
	OccurredAt  time.Time        `json:"occurredAt"`
}
