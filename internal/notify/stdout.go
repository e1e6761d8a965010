package notify

import (
	"context"
	"fmt"
	"io"
	"os"
)

// StdoutSender prints the plain text rendering instead of delivering it.
// Used for dry runs and local development.
type StdoutSender struct {
	out io.Writer
}

var _ Sender = (*StdoutSender)(nil)

func NewStdoutSender() *StdoutSender {
	return &StdoutSender{out: os.Stdout}
}

// NewStdoutSenderTo writes to the given writer instead of os.Stdout.
func NewStdoutSenderTo(w io.Writer) *StdoutSender {
	return &StdoutSender{out: w}
}

func (s *StdoutSender) Send(_ context.Context, n Notification) error {
	_, err := fmt.Fprintf(s.out, "%s\n\n%s\n", n.Subject, n.Text)
	return err
}
