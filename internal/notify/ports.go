// Package notify delivers rendered budget notifications over a pluggable
// transport.
package notify

import "context"

// Notification is one rendered message ready for delivery.
type Notification struct {
	BudgetID string
	Subject  string
	Text     string
	HTML     string
}

// Sender delivers a notification over a concrete transport.
type Sender interface {
	Send(ctx context.Context, n Notification) error
}

// CleanupFunc releases resources held by a sender.
type CleanupFunc func() error
