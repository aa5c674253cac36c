package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go-hrcore/internal/attachment"
	"go-hrcore/internal/config"
	"go-hrcore/internal/messaging/kafka"
	"go-hrcore/internal/messaging/kafka/producer"
	"go-hrcore/internal/shared/connection"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// RunWorker hosts the outbox relay and the orphan attachment sweep. Both run
// until SIGINT or SIGTERM.
func RunWorker(cfg *config.Config) error {
	logger := zap.L().Named("app.worker")

	gormDB, err := connection.ConnectGORMWithRetry(
		cfg.Database.Host,
		cfg.Database.User,
		cfg.Database.Password,
		cfg.Database.Name,
		cfg.Database.Port,
		cfg.Database.SSLMode,
		5,
	)
	if err != nil {
		return err
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	if cfg.Kafka.Broker == "" {
		return fmt.Errorf("kafka broker is required")
	}

	kafkaWriter, err := connection.ConnectKafkaWithRetry(cfg.Kafka.Broker, 5)
	if err != nil {
		return err
	}
	defer kafkaWriter.Close()

	outboxRepo := kafka.NewOutboxRepository(sqlDB)

	storage, err := attachment.NewDiskStorage(cfg.Storage.Dir)
	if err != nil {
		return err
	}
	attachmentService := attachment.NewService(attachment.NewRepository(gormDB), storage)
	sweeper := attachment.NewSweeper(attachmentService, cfg.Worker.OrphanMaxAge, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go producer.ProcessOutboxEvents(
		ctx,
		outboxRepo,
		kafkaWriter,
		logger,
		cfg.Worker.OutboxPollInterval,
	)

	runner := cron.New()
	if _, err := sweeper.Register(runner, cfg.Worker.OrphanSweepCron); err != nil {
		return fmt.Errorf("register orphan sweep: %w", err)
	}
	runner.Start()
	defer runner.Stop()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("worker shutting down")
	cancel()

	return nil
}
