package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go-hrms/internal/employee"
	"go-hrms/internal/events"
	"go-hrms/internal/messaging/kafka/consumer"
	"go-hrms/internal/notification"
	"go-hrms/internal/shared/connection"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// Every lifecycle event reaches the in-app inbox; email goes out for the
// transitions an employee would expect to hear about promptly.
const defaultRoutes = "leave.submitted=inapp,email;" +
	"leave.approved=inapp,email;" +
	"leave.rejected=inapp,email;" +
	"leave.forwarded=inapp,email;" +
	"leave.cancelled=inapp"

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

	employeeRepo := employee.NewRepository(gormDB)
	notificationRepo := notification.NewRepository(gormDB)

	routesRaw := os.Getenv("NOTIFY_ROUTES")
	if routesRaw == "" {
		routesRaw = defaultRoutes
	}

	channels := []notification.Channel{
		notification.NewInAppChannel(),
		notification.NewEmailChannel(notification.EmailConfig{
			Host:     os.Getenv("SMTP_HOST"),
			Port:     os.Getenv("SMTP_PORT"),
			From:     os.Getenv("SMTP_FROM"),
			Username: os.Getenv("SMTP_USERNAME"),
			Password: os.Getenv("SMTP_PASSWORD"),
		}),
		notification.NewSMSChannel(notification.SMSConfig{
			ProviderURL: os.Getenv("SMS_PROVIDER_URL"),
			APIKey:      os.Getenv("SMS_API_KEY"),
		}),
	}
	dispatcher := notification.NewDispatcher(
		notificationRepo,
		notification.ParseRoutes(routesRaw),
		channels,
		logger,
	)

	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:     []string{kafkaBroker},
		Topic:       events.LeaveNotificationsTopic,
		GroupID:     "go-hrms-notifications",
		StartOffset: kafkago.FirstOffset,
	})
	defer reader.Close()

	notificationConsumer := consumer.NewNotificationConsumer(reader, dispatcher, employeeRepo, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		if err := notificationConsumer.Run(ctx); err != nil {
			logger.Error("notification consumer exited", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("consumer shutting down")
	cancel()

	return nil
}
