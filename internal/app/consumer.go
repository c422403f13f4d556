package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/aanyashri/hrmsbackend-users/internal/employee"
	"github.com/aanyashri/hrmsbackend-users/internal/events"
	"github.com/aanyashri/hrmsbackend-users/internal/messaging/kafka/consumer"
	"github.com/aanyashri/hrmsbackend-users/internal/notification"
	"github.com/aanyashri/hrmsbackend-users/internal/notify"
	"github.com/aanyashri/hrmsbackend-users/internal/shared/connection"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// RunConsumer starts the notification delivery consumer, then blocks until
// a shutdown signal.
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

	notificationRepo := notification.NewRepository(gormDB)
	employeeRepo := employee.NewRepository(gormDB)

	emailSender := notify.NewSendGridSender(notify.SendGridConfig{
		APIKey:    os.Getenv("SENDGRID_API_KEY"),
		FromEmail: os.Getenv("SENDGRID_FROM_EMAIL"),
		FromName:  os.Getenv("SENDGRID_FROM_NAME"),
	})
	smsSender := notify.NewTwilioSender(notify.TwilioConfig{
		AccountSID: os.Getenv("TWILIO_ACCOUNT_SID"),
		AuthToken:  os.Getenv("TWILIO_AUTH_TOKEN"),
		FromNumber: os.Getenv("TWILIO_FROM_NUMBER"),
	})

	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:        []string{kafkaBroker},
		Topic:          events.NotificationCreatedTopic,
		GroupID:        "hrms-notification-delivery",
		CommitInterval: 0,
		StartOffset:    kafkago.FirstOffset,
	})
	defer reader.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go consumer.ConsumeNotificationCreated(
		ctx,
		reader,
		notificationRepo,
		employeeRepo,
		emailSender,
		smsSender,
		logger,
	)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("consumer shutting down")
	cancel()

	return nil
}
