package mailer

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/smtp"
	"testing"
	"time"

	"member_directory/internal/logging"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captured struct {
	addr string
	from string
	to   []string
	msg  string
}

func TestSMTPMailer_SendOTP(t *testing.T) {
	var got captured
	m := NewSMTPMailer(SMTPConfig{Host: "smtp.example.com", Port: 587, Username: "u", Password: "p", From: "noreply@example.com"}).
		WithSender(func(addr string, _ smtp.Auth, from string, to []string, msg []byte) error {
			got = captured{addr: addr, from: from, to: to, msg: string(msg)}
			return nil
		})

	require.NoError(t, m.SendOTP(context.Background(), "a@b.com", "482193", 10*time.Minute))

	assert.Equal(t, "smtp.example.com:587", got.addr)
	assert.Equal(t, "noreply@example.com", got.from)
	assert.Equal(t, []string{"a@b.com"}, got.to)
	assert.Contains(t, got.msg, "Subject: Password Reset OTP")
	assert.Contains(t, got.msg, "<h1>482193</h1>")
	assert.Contains(t, got.msg, "This OTP expires in 10 minutes.")
}

func TestSMTPMailer_SendTemporaryPassword(t *testing.T) {
	var msg string
	m := NewSMTPMailer(SMTPConfig{Host: "localhost", Port: 25, From: "noreply@example.com"}).
		WithSender(func(_ string, a smtp.Auth, _ string, _ []string, body []byte) error {
			assert.Nil(t, a, "no auth without username")
			msg = string(body)
			return nil
		})

	require.NoError(t, m.SendTemporaryPassword(context.Background(), "a@b.com", "Ab3$<x>"))
	assert.Contains(t, msg, "Subject: Your Temporary Password")
	assert.Contains(t, msg, "Ab3$&lt;x&gt;", "password must be html-escaped")
}

func TestSMTPMailer_Errors(t *testing.T) {
	m := NewSMTPMailer(SMTPConfig{Host: "localhost", Port: 25}).
		WithSender(func(string, smtp.Auth, string, []string, []byte) error {
			return errors.New("relay denied")
		})

	err := m.SendOTP(context.Background(), "a@b.com", "123456", time.Minute)
	assert.ErrorContains(t, err, "relay denied")

	err = m.SendOTP(context.Background(), "a@b.com\r\nBcc: x@y.com", "123456", time.Minute)
	assert.Error(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, m.SendTemporaryPassword(ctx, "a@b.com", "x"), context.Canceled)
}

func TestLogMailer_SecretOnlyAtDebug(t *testing.T) {
	var buf bytes.Buffer
	info := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo})))

	m := NewLogMailer(info)
	require.NoError(t, m.SendOTP(context.Background(), "a@b.com", "482193", 10*time.Minute))
	require.NoError(t, m.SendTemporaryPassword(context.Background(), "a@b.com", "Secret#123xy"))

	out := buf.String()
	assert.Contains(t, out, "a@b.com")
	assert.NotContains(t, out, "482193")
	assert.NotContains(t, out, "Secret#123xy")
}
