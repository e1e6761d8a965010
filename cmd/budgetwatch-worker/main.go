package main

import (
	"context"
	"os"
	"time"

	"budgetwatch/internal/cli"
	"budgetwatch/internal/config"
	"budgetwatch/internal/notify"
	"budgetwatch/internal/services"
	"budgetwatch/internal/worker"
	"budgetwatch/internal/ynab"
)

// Long-running daemon that checks the budget on an interval and sends a
// notification whenever the budget changed since the last one.
func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()

	logger.Info("Starting budgetwatch-worker")

	cfg := cli.LoadAndValidateConfig(logger)

	watchlist, err := cfg.LoadWatchlist()
	if err != nil {
		logger.Error("Failed to load watchlist", "error", err)
		os.Exit(1)
	}

	client, err := ynab.NewClient(cfg.YNABToken)
	if err != nil {
		logger.Error("Failed to initialize YNAB client", "error", err)
		os.Exit(1)
	}

	repo := cli.InitRunState(logger, cfg.SQLiteDBPath)
	defer repo.Close()

	location, err := cfg.Location()
	if err != nil {
		logger.Error("Failed to resolve timezone", "error", err)
		os.Exit(1)
	}

	factory := notify.NewFactory(logger)
	senderResult, err := factory.CreateSender(context.Background(), notifyConfig(cfg))
	if err != nil {
		logger.Error("Failed to initialize notification sender", "error", err)
		os.Exit(1)
	}
	if senderResult.Cleanup != nil {
		defer senderResult.Cleanup()
	}

	notifier := services.NewNotifier(client, repo, senderResult.Sender, services.NotifierConfig{
		BudgetName:    cfg.YNABBudgetName,
		Watchlist:     watchlist,
		IncludeHidden: cfg.IncludeHidden,
		Breakdown:     cfg.BreakdownOptions(),
	})

	runner := worker.NewRunner(notifier, cfg.CheckInterval, location)

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, nil)

	go func() {
		if err := runner.Run(ctx); err != nil && err != context.Canceled {
			logger.Error("Budget check loop failed", "error", err)
		}
	}()

	logger.Info("Budget check worker configured",
		"interval", cfg.CheckInterval,
		"budget", cfg.YNABBudgetName,
		"transport", cfg.NotifyTransport)

	cli.WaitForShutdown(ctx, done)
}

func notifyConfig(cfg *config.Config) notify.Config {
	return notify.Config{
		Transport:    notify.Transport(cfg.NotifyTransport),
		AMQPURL:      cfg.AMQPURL,
		AMQPExchange: cfg.AMQPExchange,
		AMQPQueue:    cfg.AMQPQueue,
		Gmail: notify.GmailConfig{
			ClientFile: cfg.GoogleOAuthClientFile,
			ClientJSON: cfg.GoogleOAuthClientJSON,
			TokenFile:  cfg.GoogleOAuthTokenFile,
			TokenJSON:  cfg.GoogleOAuthTokenJSON,
			From:       cfg.MailFrom,
			To:         cfg.MailTo,
			BCC:        cfg.MailBCC,
		},
	}
}
