package service

import (
	"log/slog"
)

// NotificationService delivers user-facing notices. Delivery is a log
// line for now; the call sites and task plumbing are the contract.
//
// TODO: swap the slog sink for the push gateway once ops provisions it.
type NotificationService struct{}

func NewNotificationService() *NotificationService {
	return &NotificationService{}
}

// Send delivers one notification to a user.
func (ns *NotificationService) Send(email, message, msgType string) error {
	slog.Info("notification", "to", email, "type", msgType, "message", message)
	return nil
}
