package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"leaveflow/internal/audit"
	"leaveflow/internal/directory"
	"leaveflow/internal/events"
	"leaveflow/internal/messaging/kafka/consumer"
	"leaveflow/internal/notification"
	"leaveflow/internal/shared/connection"
)

func RunConsumer() error {
	logger := zap.L().Named("app.consumer")

	gormDB, err := connection.ConnectGORMWithRetry(
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
		os.Getenv("DB_SSLMODE"),
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

	kafkaBroker := os.Getenv("KAFKA_BROKER")
	if kafkaBroker == "" {
		return fmt.Errorf("KAFKA_BROKER is required")
	}

	auditRepo := audit.NewRepository(gormDB)
	userDirectory := directory.NewGormDirectory(gormDB)
	notifier := notification.NewProviderFromEnv("email")

	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:        []string{kafkaBroker},
		Topic:          events.LeaveRequestLifecycleTopic,
		GroupID:        "leaveflow-lifecycle",
		CommitInterval: 0,
		StartOffset:    kafkago.FirstOffset,
	})
	defer reader.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go consumer.ConsumeLeaveRequestLifecycle(ctx, reader, auditRepo, userDirectory, notifier, logger)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("consumer shutting down")
	cancel()

	return nil
}
