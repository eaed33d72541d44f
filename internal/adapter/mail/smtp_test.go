package mail

import (
	"context"
	"net/smtp"
	"strings"
	"testing"

	"equitrack-backend/config"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSender() (*SMTPSender, *capturedMail) {
	cfg := config.SMTPConfig{
		Host:     "smtp.example.com",
		Port:     587,
		Username: "mailer",
		Password: "secret",
		From:     "no-reply@equitrack.io",
	}
	sender := NewSMTPSender(cfg, zerolog.Nop())

	captured := &capturedMail{}
	sender.send = func(addr string, _ smtp.Auth, from string, to []string, msg []byte) error {
		captured.addr = addr
		captured.from = from
		captured.to = to
		captured.msg = string(msg)
		return nil
	}
	return sender, captured
}

type capturedMail struct {
	addr string
	from string
	to   []string
	msg  string
}

func TestSMTPSender_Send(t *testing.T) {
	sender, captured := newTestSender()

	err := sender.Send(context.Background(), "juan@example.com", "Hello", "How are you?")
	require.NoError(t, err)

	assert.Equal(t, "smtp.example.com:587", captured.addr)
	assert.Equal(t, "no-reply@equitrack.io", captured.from)
	assert.Equal(t, []string{"juan@example.com"}, captured.to)
	assert.Contains(t, captured.msg, "Subject: Hello")
	assert.Contains(t, captured.msg, "To: juan@example.com")
	assert.Contains(t, captured.msg, "How are you?")
}

func TestSMTPSender_SendWithAttachment(t *testing.T) {
	sender, captured := newTestSender()

	err := sender.SendWithAttachment(
		context.Background(),
		"juan@example.com", "Report", "See attached.",
		"expense_details.csv", []byte("Name,Amount\nRent,12000\n"),
	)
	require.NoError(t, err)

	assert.Contains(t, captured.msg, "multipart/mixed")
	assert.Contains(t, captured.msg, `filename="expense_details.csv"`)
	assert.Contains(t, captured.msg, "Content-Transfer-Encoding: base64")
	assert.Contains(t, captured.msg, "See attached.")
}

func TestSMTPSender_CancelledContext(t *testing.T) {
	sender, captured := newTestSender()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := sender.Send(ctx, "juan@example.com", "Hello", "body")
	assert.Error(t, err)
	assert.Empty(t, captured.msg, "nothing should be sent after cancellation")
}

func TestSMTPSender_LongAttachmentLinesWrapped(t *testing.T) {
	sender, captured := newTestSender()

	payload := make([]byte, 300)
	for i := range payload {
		payload[i] = byte('a')
	}

	err := sender.SendWithAttachment(context.Background(), "x@example.com", "R", "b", "f.csv", payload)
	require.NoError(t, err)

	for _, line := range strings.Split(captured.msg, "\r\n") {
		assert.LessOrEqual(t, len(line), 78, "encoded lines must stay within RFC limits")
	}
}
