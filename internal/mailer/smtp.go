package mailer

import (
	"context"
	"fmt"
	"net"
	"net/smtp"
	"strconv"
	"strings"
	"time"
)

const senderName = "Member Directory"

// SendFunc matches smtp.SendMail
type SendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// SMTPMailer sends HTML mail through an SMTP relay. smtp.SendMail upgrades
// to STARTTLS when the server offers it.
type SMTPMailer struct {
	cfg  SMTPConfig
	send SendFunc
}

func NewSMTPMailer(cfg SMTPConfig) *SMTPMailer {
	return &SMTPMailer{cfg: cfg, send: smtp.SendMail}
}

// WithSender replaces the transport, used by tests
func (m *SMTPMailer) WithSender(send SendFunc) *SMTPMailer {
	cp := *m
	cp.send = send
	return &cp
}

func (m *SMTPMailer) SendOTP(ctx context.Context, to, otp string, ttl time.Duration) error {
	body, err := renderOTP(otp, ttl)
	if err != nil {
		return err
	}
	return m.deliver(ctx, to, otpSubject, body)
}

func (m *SMTPMailer) SendTemporaryPassword(ctx context.Context, to, password string) error {
	body, err := renderTemporaryPassword(password)
	if err != nil {
		return err
	}
	return m.deliver(ctx, to, tempPasswordSubject, body)
}

func (m *SMTPMailer) deliver(ctx context.Context, to, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if strings.ContainsAny(to, "\r\n") {
		return fmt.Errorf("invalid recipient address")
	}

	var auth smtp.Auth
	if m.cfg.Username != "" {
		auth = smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	}

	addr := net.JoinHostPort(m.cfg.Host, strconv.Itoa(m.cfg.Port))
	if err := m.send(addr, auth, m.cfg.From, []string{to}, buildMessage(m.cfg.From, to, subject, body)); err != nil {
		return fmt.Errorf("send mail to %s: %w", to, err)
	}
	return nil
}

func buildMessage(from, to, subject, body string) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s <%s>\r\n", senderName, from)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(body)
	return []byte(b.String())
}
