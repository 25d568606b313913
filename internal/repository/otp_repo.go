package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"member_directory/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// OTPRepository stores hashed password-reset codes
type OTPRepository interface {
	Create(ctx context.Context, otp *model.PasswordResetOTP) error
	FindLatestValid(ctx context.Context, userID string, now time.Time) (*model.PasswordResetOTP, error)
	Claim(ctx context.Context, id string, now time.Time) (bool, error)
}

type otpRepository struct {
	db DBTX
}

// NewOTPRepository creates a new OTPRepository
func NewOTPRepository(db DBTX) OTPRepository {
	return &otpRepository{db: db}
}

// Create inserts a new reset code. CreatedAt must be set by the caller.
func (r *otpRepository) Create(ctx context.Context, otp *model.PasswordResetOTP) error {
	if otp.ID == "" {
		otp.ID = uuid.NewString()
	}
	sql := `INSERT INTO password_reset_otps (id, user_id, otp_hash, expires_at, used, created_at)
            VALUES ($1, $2, $3, $4, FALSE, $5)`
	_, err := r.db.Exec(ctx, sql, otp.ID, otp.UserID, otp.OTPHash, otp.ExpiresAt, otp.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create otp: %w", err)
	}
	return nil
}

// FindLatestValid returns the most recently issued code for the user if it is
// unused and unexpired at now. Older outstanding codes are never returned.
func (r *otpRepository) FindLatestValid(ctx context.Context, userID string, now time.Time) (*model.PasswordResetOTP, error) {
	sql := `SELECT id, user_id, otp_hash, expires_at, used, created_at
            FROM password_reset_otps
            WHERE user_id = $1
            ORDER BY created_at DESC
            LIMIT 1`
	otp := &model.PasswordResetOTP{}
	err := r.db.QueryRow(ctx, sql, userID).Scan(&otp.ID, &otp.UserID, &otp.OTPHash, &otp.ExpiresAt, &otp.Used, &otp.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find otp: %w", err)
	}
	if !otp.ValidAt(now) {
		return nil, nil
	}
	return otp, nil
}

// Claim atomically marks the code used. It reports false when another request
// consumed it first or it expired in the meantime.
func (r *otpRepository) Claim(ctx context.Context, id string, now time.Time) (bool, error) {
	sql := `UPDATE password_reset_otps SET used = TRUE
            WHERE id = $1 AND used = FALSE AND expires_at > $2`
	tag, err := r.db.Exec(ctx, sql, id, now)
	if err != nil {
		return false, fmt.Errorf("failed to claim otp: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}
