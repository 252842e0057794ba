package worker

import (
	"context"
	"fmt"

	"storago/internal/bookings/events"
	"storago/pkg/kafka"
	"storago/pkg/logger"
)

const ConsumerGroupID = "storago-notifications"

// Worker consumes booking lifecycle events and dispatches notifications.
// Delivery is a structured log line per recipient; swapping in a real
// channel (email, SMS) only needs a different Notifier.
type Worker struct {
	notifier Notifier
	log      *logger.Logger
}

// Notifier delivers one rendered notification to a user.
type Notifier interface {
	Notify(ctx context.Context, userName, message string) error
}

func New(notifier Notifier, log *logger.Logger) *Worker {
	return &Worker{
		notifier: notifier,
		log:      log,
	}
}

// Run consumes until the context is cancelled. The consumer must have been
// built with this worker's HandleMessage as its handler.
func (w *Worker) Run(ctx context.Context, consumer *kafka.Consumer) error {
	w.log.Info("Notification worker started", "group_id", ConsumerGroupID)
	return consumer.Start(ctx)
}

// HandleMessage is the kafka.MessageHandler for booking events. Unknown
// event types are skipped, not retried.
func (w *Worker) HandleMessage(ctx context.Context, msg kafka.Message) error {
	var event events.BookingEvent
	if err := msg.DecodeValue(&event); err != nil {
		w.log.Error("Failed to decode booking event, skipping",
			"event_id", msg.GetEventID(),
			"error", err,
		)
		return nil
	}

	message, ok := renderMessage(event)
	if !ok {
		w.log.Warn("Unknown booking event type, skipping",
			"event_type", event.EventType,
			"event_id", msg.GetEventID(),
		)
		return nil
	}

	if err := w.notifier.Notify(ctx, event.UserName, message); err != nil {
		return fmt.Errorf("failed to notify %s: %w", event.UserName, err)
	}

	w.log.Info("Notification sent",
		"event_type", event.EventType,
		"booking_id", event.BookingID,
		"user_name", event.UserName,
	)
	return nil
}

func renderMessage(event events.BookingEvent) (string, bool) {
	switch event.EventType {
	case events.EventBookingCreated:
		return fmt.Sprintf(
			"Your booking %s is confirmed: unit %s from %s to %s, total %.2f.",
			event.BookingID, event.UnitID, event.StartDate, event.EndDate, event.TotalCost,
		), true
	case events.EventBookingCancelled:
		return fmt.Sprintf(
			"Your booking %s for unit %s (%s to %s) has been cancelled.",
			event.BookingID, event.UnitID, event.StartDate, event.EndDate,
		), true
	}
	return "", false
}

// LogNotifier writes notifications to the service log.
type LogNotifier struct {
	Log *logger.Logger
}

func (n *LogNotifier) Notify(_ context.Context, userName, message string) error {
	n.Log.Info("Notification delivered", "user_name", userName, "message", message)
	return nil
}
