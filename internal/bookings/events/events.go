package events

import (
	"context"
	"time"

	"storago/pkg/kafka"
	"storago/pkg/logger"
	"storago/pkg/model"
)

const (
	TopicBookingEvents = "storago.booking-events"

	EventBookingCreated   = "booking.created"
	EventBookingCancelled = "booking.cancelled"

	sourceService = "bookings-service"
)

// BookingEvent is the payload published for booking lifecycle changes.
// Dates are calendar days in RFC 3339 date form.
type BookingEvent struct {
	EventType  string    `json:"event_type"`
	BookingID  string    `json:"booking_id"`
	UnitID     string    `json:"unit_id"`
	UserName   string    `json:"user_name"`
	StartDate  string    `json:"start_date"`
	EndDate    string    `json:"end_date"`
	TotalCost  float64   `json:"total_cost"`
	Status     string    `json:"status"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Publisher emits booking lifecycle events. Publishing is best-effort from
// the service's point of view; callers log failures but never fail the
// request over them.
type Publisher interface {
	BookingCreated(ctx context.Context, booking *model.Booking) error
	BookingCancelled(ctx context.Context, booking *model.Booking) error
	Close() error
}

type kafkaPublisher struct {
	producer *kafka.Producer
	log      *logger.Logger
}

func NewKafkaPublisher(producer *kafka.Producer, log *logger.Logger) Publisher {
	return &kafkaPublisher{
		producer: producer,
		log:      log,
	}
}

func (p *kafkaPublisher) BookingCreated(ctx context.Context, booking *model.Booking) error {
	return p.publish(ctx, EventBookingCreated, booking)
}

func (p *kafkaPublisher) BookingCancelled(ctx context.Context, booking *model.Booking) error {
	return p.publish(ctx, EventBookingCancelled, booking)
}

func (p *kafkaPublisher) publish(ctx context.Context, eventType string, booking *model.Booking) error {
	event := BookingEvent{
		EventType:  eventType,
		BookingID:  booking.ID,
		UnitID:     booking.UnitID,
		UserName:   booking.UserName,
		StartDate:  booking.StartDate.Format(time.DateOnly),
		EndDate:    booking.EndDate.Format(time.DateOnly),
		TotalCost:  booking.TotalCost,
		Status:     booking.Status,
		OccurredAt: time.Now().UTC(),
	}

	msg := kafka.NewMessage().
		WithKey(booking.ID).
		WithValue(event).
		WithEventType(eventType).
		WithSource(sourceService).
		Build()

	if err := p.producer.Publish(ctx, msg); err != nil {
		return err
	}

	p.log.Debug("Booking event published",
		"event_type", eventType,
		"booking_id", booking.ID,
		"event_id", msg.GetEventID(),
	)
	return nil
}

func (p *kafkaPublisher) Close() error {
	return p.producer.Close()
}

// NopPublisher satisfies Publisher when event publishing is disabled.
type NopPublisher struct{}

func (NopPublisher) BookingCreated(context.Context, *model.Booking) error   { return nil }
func (NopPublisher) BookingCancelled(context.Context, *model.Booking) error { return nil }
func (NopPublisher) Close() error                                           { return nil }
