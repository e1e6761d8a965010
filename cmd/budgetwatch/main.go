package main

import (
	"context"
	"flag"
	"os"
	"time"

	"budgetwatch/internal/cli"
	"budgetwatch/internal/config"
	"budgetwatch/internal/notify"
	"budgetwatch/internal/services"
	"budgetwatch/internal/ynab"
)

// One-shot budget check: fetch, select, render, notify, exit. Meant for
// cron or manual runs; use budgetwatch-worker for a long-running daemon.
func main() {
	force := flag.Bool("force", false, "send a notification even if the budget is unchanged")
	flag.Parse()

	cli.LoadEnvFile()
	logger := cli.SetupLogger()

	logger.Info("Starting budgetwatch")

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

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	factory := notify.NewFactory(logger)
	senderResult, err := factory.CreateSender(ctx, notifyConfig(cfg))
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
		Force:         *force,
	})

	location, err := cfg.Location()
	if err != nil {
		logger.Error("Failed to resolve timezone", "error", err)
		os.Exit(1)
	}

	sent, err := notifier.RunOnce(ctx, time.Now().In(location))
	if err != nil {
		logger.Error("Budget check failed", "error", err)
		os.Exit(1)
	}

	logger.Info("Budget check finished", "notified", sent)
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
