package model

import "time"

// PasswordResetOTP is a hashed one-time code issued by a forgot-password request
type PasswordResetOTP struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	OTPHash   string    `json:"-"`
	ExpiresAt time.Time `json:"expires_at"`
	Used      bool      `json:"used"`
	CreatedAt time.Time `json:"created_at"`
}

// ValidAt reports whether the code can still be consumed at now.
// A code stops being valid at the exact expiry instant.
func (o *PasswordResetOTP) ValidAt(now time.Time) bool {
	return !o.Used && now.Before(o.ExpiresAt)
}

type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required"`
}

type VerifyOTPRequest struct {
	Email string `json:"email" binding:"required"`
	OTP   string `json:"otp" binding:"required"`
}

// Legacy shared-secret payloads

type EncryptRequest struct {
	DecryptedText string `json:"decryptedText" binding:"required"`
}

type DecryptRequest struct {
	EncryptedText string `json:"encryptedText" binding:"required"`
}

type UpdatePasswordRequest struct {
	Email       string `json:"email" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required,min=8,max=72"`
}

// CipherResponse mirrors the legacy encrypt/decrypt response shape
type CipherResponse struct {
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
}
