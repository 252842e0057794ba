package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"storago/internal/bookings/events"
	"storago/internal/notifications/worker"
	"storago/pkg/kafka"
	kafka_config "storago/pkg/kafka/config"
	"storago/pkg/logger"
)

const ServiceName = "notifier"

func main() {
	log := logger.New(logger.Config{
		Level:     logger.INFO,
		Format:    logger.JSON,
		AddSource: true,
		Service:   ServiceName,
	})

	kafkaCfg, err := kafka_config.Load()
	if err != nil {
		log.Fatal("Invalid Kafka configuration", "error", err)
	}

	w := worker.New(&worker.LogNotifier{Log: log}, log)

	consumer, err := kafka.NewConsumer(kafkaCfg, events.TopicBookingEvents, worker.ConsumerGroupID, w.HandleMessage)
	if err != nil {
		log.Fatal("Failed to create Kafka consumer", "error", err)
	}
	defer func() {
		if err := consumer.Close(); err != nil {
			log.Error("Failed to close Kafka consumer", "error", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := w.Run(ctx, consumer); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("Notification worker stopped with error", "error", err)
		return
	}
	log.Info("Notification worker stopped")
}
