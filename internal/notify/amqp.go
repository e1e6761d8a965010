package notify

import (
	"context"
	"fmt"

	"budgetwatch/internal/amqp"
)

// AMQPSender publishes the notification onto the queue instead of
// delivering it directly. The mailer worker consumes and sends it.
type AMQPSender struct {
	client *amqp.Client
}

var _ Sender = (*AMQPSender)(nil)

func NewAMQPSender(client *amqp.Client) *AMQPSender {
	return &AMQPSender{client: client}
}

func (s *AMQPSender) Send(ctx context.Context, n Notification) error {
	msg := amqp.NewNotificationMessage(n.BudgetID, n.Subject, n.Text, n.HTML)
	if err := s.client.PublishNotification(ctx, msg); err != nil {
		return fmt.Errorf("publish notification: %w", err)
	}
	return nil
}
