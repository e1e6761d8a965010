package notify

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"mime/multipart"
	"mime/quotedprintable"
	"net/textproto"
	"os"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/gmail/v1"
	goption "google.golang.org/api/option"
)

// GmailConfig holds OAuth material and addressing for the Gmail sender.
// Inline JSON takes precedence over file paths when both are set.
type GmailConfig struct {
	ClientFile string
	ClientJSON string
	TokenFile  string
	TokenJSON  string

	From string
	To   []string
	BCC  []string
}

// GmailSender sends notifications as multipart mail through the Gmail API
// on behalf of the authorized user.
type GmailSender struct {
	svc  *gmail.Service
	from string
	to   []string
	bcc  []string
}

var _ Sender = (*GmailSender)(nil)

// NewGmailSender builds a Gmail client from stored OAuth credentials. The
// token must have been obtained beforehand with the send scope (see the
// oauth-init command).
func NewGmailSender(ctx context.Context, cfg GmailConfig) (*GmailSender, error) {
	if len(cfg.To) == 0 {
		return nil, errors.New("gmail sender needs at least one recipient")
	}

	clientBytes, err := readCredential(cfg.ClientJSON, cfg.ClientFile)
	if err != nil {
		return nil, fmt.Errorf("load OAuth client: %w", err)
	}
	oauthCfg, err := google.ConfigFromJSON(clientBytes, gmail.GmailSendScope)
	if err != nil {
		return nil, fmt.Errorf("parse OAuth client: %w", err)
	}

	tokenBytes, err := readCredential(cfg.TokenJSON, cfg.TokenFile)
	if err != nil {
		return nil, fmt.Errorf("load OAuth token: %w", err)
	}
	var token oauth2.Token
	if err := json.Unmarshal(tokenBytes, &token); err != nil {
		return nil, fmt.Errorf("parse OAuth token: %w", err)
	}

	httpClient := oauthCfg.Client(ctx, &token)
	svc, err := gmail.NewService(ctx, goption.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("create gmail service: %w", err)
	}

	return &GmailSender{
		svc:  svc,
		from: cfg.From,
		to:   cfg.To,
		bcc:  cfg.BCC,
	}, nil
}

func readCredential(inlineJSON, filePath string) ([]byte, error) {
	switch {
	case strings.TrimSpace(inlineJSON) != "":
		return []byte(inlineJSON), nil
	case strings.TrimSpace(filePath) != "":
		b, err := os.ReadFile(filePath)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", filePath, err)
		}
		return b, nil
	default:
		return nil, errors.New("no credential configured")
	}
}

func (s *GmailSender) Send(ctx context.Context, n Notification) error {
	raw, err := buildMIMEMessage(s.from, s.to, s.bcc, n.Subject, n.Text, n.HTML)
	if err != nil {
		return fmt.Errorf("build message: %w", err)
	}

	msg := &gmail.Message{
		Raw: base64.URLEncoding.EncodeToString(raw),
	}
	if _, err := s.svc.Users.Messages.Send("me", msg).Context(ctx).Do(); err != nil {
		return fmt.Errorf("send mail: %w", err)
	}

	slog.InfoContext(ctx, "Sent notification mail",
		"budget_id", n.BudgetID,
		"subject", n.Subject,
		"recipients", len(s.to)+len(s.bcc))
	return nil
}

// buildMIMEMessage assembles a multipart/alternative message with a plain
// text part followed by the HTML part, so clients prefer HTML but always
// have a fallback.
func buildMIMEMessage(from string, to, bcc []string, subject, text, html string) ([]byte, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	headers := []string{
		"To: " + strings.Join(to, ", "),
		"Subject: " + subject,
		"MIME-Version: 1.0",
		`Content-Type: multipart/alternative; boundary="` + mw.Boundary() + `"`,
	}
	if from != "" {
		headers = append([]string{"From: " + from}, headers...)
	}
	if len(bcc) > 0 {
		headers = append(headers, "Bcc: "+strings.Join(bcc, ", "))
	}

	var msg bytes.Buffer
	msg.WriteString(strings.Join(headers, "\r\n"))
	msg.WriteString("\r\n\r\n")

	if err := writeQuotedPart(mw, "text/plain; charset=UTF-8", text); err != nil {
		return nil, err
	}
	if err := writeQuotedPart(mw, "text/html; charset=UTF-8", html); err != nil {
		return nil, err
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	msg.Write(buf.Bytes())
	return msg.Bytes(), nil
}

func writeQuotedPart(mw *multipart.Writer, contentType, body string) error {
	part, err := mw.CreatePart(textproto.MIMEHeader{
		"Content-Type":              {contentType},
		"Content-Transfer-Encoding": {"quoted-printable"},
	})
	if err != nil {
		return err
	}
	qp := quotedprintable.NewWriter(part)
	if _, err := qp.Write([]byte(body)); err != nil {
		return err
	}
	return qp.Close()
}
