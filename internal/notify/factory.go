package notify

import (
	"context"
	"fmt"
	"log/slog"

	"budgetwatch/internal/amqp"
)

// Transport selects the delivery mechanism for notifications.
type Transport string

const (
	GmailTransport  Transport = "gmail"
	AMQPTransport   Transport = "amqp"
	StdoutTransport Transport = "stdout"
)

func (t Transport) String() string {
	return string(t)
}

// IsValid returns true if the transport is one we know how to build.
func (t Transport) IsValid() bool {
	switch t {
	case GmailTransport, AMQPTransport, StdoutTransport:
		return true
	default:
		return false
	}
}

// Config holds configuration for sender creation.
type Config struct {
	Transport Transport

	// AMQP specific
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Gmail specific
	Gmail GmailConfig
}

// SenderResult contains the sender instance and optional cleanup function.
type SenderResult struct {
	Sender  Sender
	Cleanup CleanupFunc
}

// Factory creates senders based on configuration.
type Factory struct {
	logger *slog.Logger
}

func NewFactory(logger *slog.Logger) *Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &Factory{logger: logger}
}

// CreateSender builds the sender for the configured transport.
func (f *Factory) CreateSender(ctx context.Context, cfg Config) (*SenderResult, error) {
	if !cfg.Transport.IsValid() {
		return nil, fmt.Errorf("invalid notify transport: %s", cfg.Transport)
	}

	switch cfg.Transport {
	case GmailTransport:
		return f.createGmailSender(ctx, cfg)
	case AMQPTransport:
		return f.createAMQPSender(cfg)
	case StdoutTransport:
		f.logger.Info("Initialized stdout sender")
		return &SenderResult{Sender: NewStdoutSender()}, nil
	default:
		return nil, fmt.Errorf("unsupported notify transport: %s", cfg.Transport)
	}
}

func (f *Factory) createGmailSender(ctx context.Context, cfg Config) (*SenderResult, error) {
	sender, err := NewGmailSender(ctx, cfg.Gmail)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Gmail sender: %w", err)
	}

	f.logger.Info("Initialized Gmail sender", "recipients", len(cfg.Gmail.To))

	return &SenderResult{
		Sender:  sender,
		Cleanup: nil,
	}, nil
}

func (f *Factory) createAMQPSender(cfg Config) (*SenderResult, error) {
	client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize AMQP client: %w", err)
	}

	f.logger.Info("Initialized AMQP sender",
		"exchange", cfg.AMQPExchange,
		"queue", cfg.AMQPQueue)

	return &SenderResult{
		Sender:  NewAMQPSender(client),
		Cleanup: client.Close,
	}, nil
}
