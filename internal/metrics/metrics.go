// Package metrics exposes the service's Prometheus collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	BookingsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ticketbari_bookings_created_total",
		Help: "Bookings created by users.",
	})

	BookingDecisions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ticketbari_booking_decisions_total",
		Help: "Vendor accept/reject decisions.",
	}, []string{"decision"})

	PaymentsCaptured = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ticketbari_payments_captured_total",
		Help: "Checkout sessions captured as paid.",
	})

	PaymentsSwept = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ticketbari_payments_swept_total",
		Help: "Stale checkout sessions expired by the sweeper.",
	})

	TicketsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ticketbari_tickets_created_total",
		Help: "Listings created by vendors.",
	})

	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "ticketbari_http_request_duration_seconds",
		Help:    "HTTP request latency by route and status.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route", "status"})
)
