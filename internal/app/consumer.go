package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go-hrcore/internal/config"
	"go-hrcore/internal/messaging/kafka/consumer"
	"go-hrcore/internal/shared/connection"

	"go.uber.org/zap"
)

// RunConsumer delivers queued leave notifications from Kafka until SIGINT or
// SIGTERM.
func RunConsumer(cfg *config.Config) error {
	logger := zap.L().Named("app.consumer")

	if cfg.Kafka.Broker == "" {
		return fmt.Errorf("kafka broker is required")
	}

	reader := connection.NewKafkaReader(
		cfg.Kafka.Broker,
		cfg.Kafka.NotificationTopic,
		cfg.Kafka.ConsumerGroup,
	)
	defer reader.Close()

	gateway := consumer.LogGateway{Logger: logger}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go consumer.ConsumeNotifications(ctx, reader, gateway, logger)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("consumer shutting down")
	cancel()

	return nil
}
