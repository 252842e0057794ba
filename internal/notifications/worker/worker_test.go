package worker

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"storago/internal/bookings/events"
	"storago/pkg/kafka"
	"storago/pkg/logger"
)

type recordingNotifier struct {
	users    []string
	messages []string
	err      error
}

func (n *recordingNotifier) Notify(_ context.Context, userName, message string) error {
	if n.err != nil {
		return n.err
	}
	n.users = append(n.users, userName)
	n.messages = append(n.messages, message)
	return nil
}

func testWorker(notifier Notifier) *Worker {
	return &Worker{
		notifier: notifier,
		log:      logger.New(logger.Config{Output: io.Discard}),
	}
}

func eventMessage(t *testing.T, eventType string) kafka.Message {
	t.Helper()
	return kafka.NewMessage().
		WithKey("665f1f77bcf86cd799439022").
		WithValue(events.BookingEvent{
			EventType: eventType,
			BookingID: "665f1f77bcf86cd799439022",
			UnitID:    "665f1f77bcf86cd799439011",
			UserName:  "Alice Smith",
			StartDate: "2026-09-10",
			EndDate:   "2026-09-24",
			TotalCost: 375.00,
			Status:    "upcoming",
		}).
		WithEventType(eventType).
		Build()
}

func TestHandleMessageCreated(t *testing.T) {
	notifier := &recordingNotifier{}
	w := testWorker(notifier)

	if err := w.HandleMessage(context.Background(), eventMessage(t, events.EventBookingCreated)); err != nil {
		t.Fatalf("HandleMessage returned error: %v", err)
	}

	if len(notifier.messages) != 1 {
		t.Fatalf("notifications = %d, want 1", len(notifier.messages))
	}
	if notifier.users[0] != "Alice Smith" {
		t.Errorf("recipient = %q, want %q", notifier.users[0], "Alice Smith")
	}
	if !strings.Contains(notifier.messages[0], "confirmed") {
		t.Errorf("message %q does not mention confirmation", notifier.messages[0])
	}
	if !strings.Contains(notifier.messages[0], "375.00") {
		t.Errorf("message %q does not mention the total", notifier.messages[0])
	}
}

func TestHandleMessageCancelled(t *testing.T) {
	notifier := &recordingNotifier{}
	w := testWorker(notifier)

	if err := w.HandleMessage(context.Background(), eventMessage(t, events.EventBookingCancelled)); err != nil {
		t.Fatalf("HandleMessage returned error: %v", err)
	}

	if len(notifier.messages) != 1 {
		t.Fatalf("notifications = %d, want 1", len(notifier.messages))
	}
	if !strings.Contains(notifier.messages[0], "cancelled") {
		t.Errorf("message %q does not mention cancellation", notifier.messages[0])
	}
}

func TestHandleMessageUnknownTypeSkipped(t *testing.T) {
	notifier := &recordingNotifier{}
	w := testWorker(notifier)

	if err := w.HandleMessage(context.Background(), eventMessage(t, "booking.exploded")); err != nil {
		t.Fatalf("HandleMessage returned error: %v", err)
	}
	if len(notifier.messages) != 0 {
		t.Errorf("notifications = %d, want 0", len(notifier.messages))
	}
}

func TestHandleMessageMalformedPayloadSkipped(t *testing.T) {
	notifier := &recordingNotifier{}
	w := testWorker(notifier)

	msg := kafka.Message{
		Key:     "665f1f77bcf86cd799439022",
		Value:   []byte("{not json"),
		Headers: map[string]string{},
	}
	if err := w.HandleMessage(context.Background(), msg); err != nil {
		t.Fatalf("HandleMessage returned error: %v", err)
	}
	if len(notifier.messages) != 0 {
		t.Errorf("notifications = %d, want 0", len(notifier.messages))
	}
}

func TestHandleMessageNotifierErrorPropagates(t *testing.T) {
	notifier := &recordingNotifier{err: errors.New("smtp down")}
	w := testWorker(notifier)

	err := w.HandleMessage(context.Background(), eventMessage(t, events.EventBookingCreated))
	if err == nil {
		t.Fatal("expected an error, got nil")
	}
}
