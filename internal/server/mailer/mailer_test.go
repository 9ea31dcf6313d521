package mailer

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/smtp"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/taskkeeper/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stubSendMail(t *testing.T, fn func(addr string, a smtp.Auth, from string, to []string, msg []byte) error) {
	t.Helper()
	orig := sendMail
	sendMail = fn
	t.Cleanup(func() { sendMail = orig })
}

func TestSMTPSender_Send(t *testing.T) {
	var (
		gotAddr string
		gotAuth smtp.Auth
		gotTo   []string
		gotMsg  string
	)
	stubSendMail(t, func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr, gotAuth, gotTo, gotMsg = addr, a, to, string(msg)
		return nil
	})

	s := NewSMTPSender("smtp.example.com", 2525, "mailer", "pw")
	err := s.Send(context.Background(), Message{
		From: "tasks@example.com", To: "ada@example.com", Subject: "Hi", HTMLBody: "<p>hello</p>",
	})
	require.NoError(t, err)

	assert.Equal(t, "smtp.example.com:2525", gotAddr)
	assert.NotNil(t, gotAuth)
	assert.Equal(t, []string{"ada@example.com"}, gotTo)
	assert.Contains(t, gotMsg, "Subject: Hi\r\n")
	assert.Contains(t, gotMsg, "Content-Type: text/html")
	assert.True(t, strings.HasSuffix(gotMsg, "\r\n\r\n<p>hello</p>"))
}

func TestSMTPSender_NoAuthWithoutUser(t *testing.T) {
	var gotAuth smtp.Auth = smtp.PlainAuth("", "x", "y", "z")
	stubSendMail(t, func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
		gotAuth = a
		return nil
	})

	require.NoError(t, NewSMTPSender("localhost", 25, "", "").Send(context.Background(), Message{To: "a@b.c"}))
	assert.Nil(t, gotAuth)
}

func TestSMTPSender_Errors(t *testing.T) {
	stubSendMail(t, func(string, smtp.Auth, string, []string, []byte) error { return errors.New("relay down") })

	s := NewSMTPSender("localhost", 25, "", "")
	err := s.Send(context.Background(), Message{To: "a@b.c"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "relay down")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, s.Send(ctx, Message{To: "a@b.c"}), context.Canceled)
}

func TestLogSender_Send(t *testing.T) {
	var buf bytes.Buffer
	l := logging.NewSlogLogger(slog.New(slog.NewTextHandler(&buf, nil)))

	msg := Message{To: "ada@example.com", Subject: SubjectVerification, HTMLBody: "reset-password?token=secret"}
	require.NoError(t, NewLogSender(l).Send(context.Background(), msg))

	out := buf.String()
	assert.Contains(t, out, "module=mailer")
	assert.Contains(t, out, "to=ada@example.com")
	assert.NotContains(t, out, "token=secret", "body with live links stays out of info logs")
}

func TestLogSender_SendBodyAtDebug(t *testing.T) {
	var buf bytes.Buffer
	h := slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	l := logging.NewSlogLogger(slog.New(h))

	msg := Message{To: "ada@example.com", Subject: SubjectVerification, HTMLBody: "reset-password?token=secret"}
	require.NoError(t, NewLogSender(l).Send(context.Background(), msg))

	assert.Contains(t, buf.String(), "token=secret")
}

func TestNewVerificationMessage(t *testing.T) {
	msg, err := NewVerificationMessage("from@x", "to@x", "Ada", "http://localhost:8080/api/users/verify/u-1")
	require.NoError(t, err)

	assert.Equal(t, SubjectVerification, msg.Subject)
	assert.Equal(t, "to@x", msg.To)
	assert.Contains(t, msg.HTMLBody, `href="http://localhost:8080/api/users/verify/u-1"`)
	assert.Contains(t, msg.HTMLBody, "Hello Ada")
}

func TestNewPasswordResetMessage(t *testing.T) {
	msg, err := NewPasswordResetMessage("from@x", "to@x", "<b>Ada</b>", "http://x/reset-password?token=a.b.c", 6*time.Minute)
	require.NoError(t, err)

	assert.Equal(t, SubjectPasswordReset, msg.Subject)
	assert.Contains(t, msg.HTMLBody, "valid for 6 minutes")
	assert.Contains(t, msg.HTMLBody, "token=a.b.c")
	assert.NotContains(t, msg.HTMLBody, "<b>Ada</b>", "names are escaped")
}

func TestHumanize(t *testing.T) {
	assert.Equal(t, "1 minute", humanize(time.Minute))
	assert.Equal(t, "6 minutes", humanize(6*time.Minute))
	assert.Equal(t, "1m30s", humanize(90*time.Second))
	assert.Equal(t, "30s", humanize(30*time.Second))
}
