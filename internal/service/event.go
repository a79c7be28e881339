package service

import (
	"context"
	"log/slog"
)

// Event types published by the services.
const (
	EventUserSignedUp     = "user.signed_up"
	EventPaymentConfirmed = "payment.confirmed"
)

// EventPublisher delivers domain events to downstream consumers.
type EventPublisher interface {
	Publish(ctx context.Context, eventType, key string, payload any) error
}

// publish sends an event and only logs delivery failures; a request never
// fails because an event could not be delivered.
func publish(ctx context.Context, events EventPublisher, logger *slog.Logger, eventType, key string, payload any) {
	if events == nil {
		return
	}
	if err := events.Publish(ctx, eventType, key, payload); err != nil {
		logger.Warn("publish event failed", "event", eventType, "key", key, "error", err)
	}
}
