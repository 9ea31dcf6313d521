// Package mailer sends the account emails (verification and password reset).
package mailer

import (
	"context"
	"fmt"
	"net/smtp"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/taskkeeper/internal/logging"
)

// Message is a single HTML email.
type Message struct {
	From     string
	To       string
	Subject  string
	HTMLBody string
}

// Sender delivers messages. Implementations must be safe for concurrent use.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// sendMail is a seam for smtp.SendMail.
var sendMail = smtp.SendMail

// SMTPSender delivers mail through an SMTP relay using PLAIN auth.
type SMTPSender struct {
	addr string
	auth smtp.Auth
}

// NewSMTPSender builds a sender for host:port. Empty user disables auth.
func NewSMTPSender(host string, port int, user, password string) *SMTPSender {
	s := &SMTPSender{addr: host + ":" + strconv.Itoa(port)}
	if user != "" {
		s.auth = smtp.PlainAuth("", user, password, host)
	}
	return s
}

func (s *SMTPSender) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := sendMail(s.addr, s.auth, msg.From, []string{msg.To}, compose(msg)); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}

func compose(msg Message) []byte {
	var b strings.Builder
	b.WriteString("From: " + msg.From + "\r\n")
	b.WriteString("To: " + msg.To + "\r\n")
	b.WriteString("Subject: " + msg.Subject + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(msg.HTMLBody)
	return []byte(b.String())
}

// LogSender writes messages to the log instead of sending them. Used when no
// SMTP host is configured.
type LogSender struct {
	logger logging.Logger
}

func NewLogSender(l logging.Logger) *LogSender {
	return &LogSender{logger: l.With("module", "mailer")}
}

func (s *LogSender) Send(ctx context.Context, msg Message) error {
	s.logger.Info(ctx, "email not sent, no SMTP host configured",
		"to", msg.To, "subject", msg.Subject)
	s.logger.Debug(ctx, "unsent email body", "to", msg.To, "body", msg.HTMLBody)
	return nil
}
