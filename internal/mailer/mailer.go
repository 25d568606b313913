// Package mailer delivers one-time codes and temporary passwords by email.
package mailer

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"time"
)

// Mailer sends account recovery messages
type Mailer interface {
	SendOTP(ctx context.Context, to, otp string, ttl time.Duration) error
	SendTemporaryPassword(ctx context.Context, to, password string) error
}

const (
	otpSubject          = "Password Reset OTP"
	tempPasswordSubject = "Your Temporary Password"
)

var otpTemplate = template.Must(template.New("otp").Parse(`
<h2>Password Reset</h2>
<p>Your OTP is:</p>
<h1>{{.Code}}</h1>
<p>This OTP expires in {{.Minutes}} minutes.</p>
`))

var tempPasswordTemplate = template.Must(template.New("temp").Parse(`
<h2>Password Reset Successful</h2>
<p>Your temporary password is:</p>
<h3>{{.Password}}</h3>
<p>Please log in using this password and change it immediately.</p>
`))

func renderOTP(otp string, ttl time.Duration) (string, error) {
	var buf bytes.Buffer
	err := otpTemplate.Execute(&buf, struct {
		Code    string
		Minutes int
	}{otp, int(ttl / time.Minute)})
	if err != nil {
		return "", fmt.Errorf("render otp email: %w", err)
	}
	return buf.String(), nil
}

func renderTemporaryPassword(password string) (string, error) {
	var buf bytes.Buffer
	if err := tempPasswordTemplate.Execute(&buf, struct{ Password string }{password}); err != nil {
		return "", fmt.Errorf("render temporary password email: %w", err)
	}
	return buf.String(), nil
}
