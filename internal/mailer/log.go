package mailer

import (
	"context"
	"time"

	"member_directory/internal/logging"
)

// LogMailer stands in for SMTP in development. The secret itself is only
// written at debug level.
type LogMailer struct {
	log logging.Logger
}

func NewLogMailer(log logging.Logger) *LogMailer {
	return &LogMailer{log: log}
}

func (m *LogMailer) SendOTP(ctx context.Context, to, otp string, ttl time.Duration) error {
	m.log.Info(ctx, "mail delivery disabled, otp not sent", "to", to, "ttl", ttl.String())
	m.log.Debug(ctx, "otp email", "to", to, "otp", otp)
	return nil
}

func (m *LogMailer) SendTemporaryPassword(ctx context.Context, to, password string) error {
	m.log.Info(ctx, "mail delivery disabled, temporary password not sent", "to", to)
	m.log.Debug(ctx, "temporary password email", "to", to, "password", password)
	return nil
}
