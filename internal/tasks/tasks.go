// Package tasks runs the background work: sweeping stale checkout
// sessions, payment reminders for accepted bookings near departure, and
// notification delivery.
package tasks

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/ticketbari/ticketbari/config"
	"github.com/ticketbari/ticketbari/internal/model"
	"github.com/ticketbari/ticketbari/internal/service"
)

const (
	TypePaymentSweeper  = "payment:sweep"
	TypePaymentReminder = "payment:remind"
	TypeNotifyUser      = "notify:user"
)

// NotifyUserPayload is the payload of a notification task.
type NotifyUserPayload struct {
	Email   string `json:"email"`
	Message string `json:"message"`
	Type    string `json:"type"`
}

type Handlers struct {
	payments *service.PaymentService
	bookings *service.BookingService
	notifier *service.NotificationService
	client   *asynq.Client
}

func NewHandlers(payments *service.PaymentService, bookings *service.BookingService, notifier *service.NotificationService, client *asynq.Client) *Handlers {
	return &Handlers{
		payments: payments,
		bookings: bookings,
		notifier: notifier,
		client:   client,
	}
}

// HandlePaymentSweeper expires checkout sessions older than the
// configured session TTL.
func (h *Handlers) HandlePaymentSweeper(ctx context.Context, t *asynq.Task) error {
	_, err := h.payments.SweepExpired()
	return err
}

// HandlePaymentReminder nudges users whose accepted bookings depart
// inside the reminder window and are still unpaid.
func (h *Handlers) HandlePaymentReminder(ctx context.Context, t *asynq.Task) error {
	bookings, err := h.bookings.PaymentReminders(config.AppConfig.Booking.ReminderBefore)
	if err != nil {
		return err
	}

	for _, b := range bookings {
		msg := fmt.Sprintf("Your booking %s to %s departs soon. Complete payment before departure.", b.From, b.To)
		h.EnqueueNotify(b.UserEmail, msg, "payment-reminder")
	}
	return nil
}

// HandleNotifyUser delivers one queued notification.
func (h *Handlers) HandleNotifyUser(ctx context.Context, t *asynq.Task) error {
	var payload NotifyUserPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return err
	}
	return h.notifier.Send(payload.Email, payload.Message, payload.Type)
}

// NotifyForEvent queues the user-facing notification for a consumed
// booking lifecycle event.
func (h *Handlers) NotifyForEvent(event *model.BookingEvent) {
	var msg string
	switch event.Type {
	case model.BookingCreated:
		msg = "Your booking request was received and is awaiting the vendor's decision."
	case model.BookingAccepted:
		msg = "Your booking was accepted. Complete payment before departure to secure your seats."
	case model.BookingRejected:
		msg = "Your booking was rejected. You will not be charged."
	case model.BookingPaid:
		msg = "Payment received. Your tickets are confirmed."
	default:
		return
	}
	h.EnqueueNotify(event.UserEmail, msg, string(event.Type))
}

// EnqueueNotify queues a notification on the low-priority queue.
func (h *Handlers) EnqueueNotify(email, message, msgType string) {
	payload, _ := json.Marshal(NotifyUserPayload{Email: email, Message: message, Type: msgType})
	task := asynq.NewTask(TypeNotifyUser, payload)
	h.client.Enqueue(task, asynq.Queue("low"))
}
