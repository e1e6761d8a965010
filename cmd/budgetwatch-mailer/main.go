package main

import (
	"context"
	"os"
	"time"

	"budgetwatch/internal/amqp"
	"budgetwatch/internal/cli"
	"budgetwatch/internal/notify"
)

// Consumes rendered notifications from the queue and delivers them over
// Gmail. Pair with NOTIFY_TRANSPORT=amqp on the producing side.
func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()

	logger.Info("Starting budgetwatch-mailer")

	cfg := cli.LoadAndValidateConfig(logger)

	sender, err := notify.NewGmailSender(context.Background(), notify.GmailConfig{
		ClientFile: cfg.GoogleOAuthClientFile,
		ClientJSON: cfg.GoogleOAuthClientJSON,
		TokenFile:  cfg.GoogleOAuthTokenFile,
		TokenJSON:  cfg.GoogleOAuthTokenJSON,
		From:       cfg.MailFrom,
		To:         cfg.MailTo,
		BCC:        cfg.MailBCC,
	})
	if err != nil {
		logger.Error("Failed to initialize Gmail sender", "error", err)
		os.Exit(1)
	}

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, nil)

	go func() {
		err := amqpClient.ConsumeNotifications(ctx, func(msg *amqp.NotificationMessage) error {
			return sender.Send(ctx, notify.Notification{
				BudgetID: msg.BudgetID,
				Subject:  msg.Subject,
				Text:     msg.Text,
				HTML:     msg.HTML,
			})
		})
		if err != nil && err != context.Canceled {
			logger.Error("Message consumption failed", "error", err)
		}
	}()

	logger.Info("Mailer configured",
		"queue", cfg.AMQPQueue,
		"recipients", len(cfg.MailTo))

	cli.WaitForShutdown(ctx, done)
}
