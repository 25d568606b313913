package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"member_directory/internal/logging"
	"member_directory/internal/mailer"
	"member_directory/internal/model"
	"member_directory/internal/ratelimit"
	"member_directory/internal/repository"
	"member_directory/internal/utils"
)

// PasswordResetService runs the forgot-password flow: a one-time code is
// mailed, and a verified code is exchanged for an emailed temporary password.
type PasswordResetService interface {
	RequestOTP(ctx context.Context, email string) error
	VerifyOTP(ctx context.Context, email, code string) error
	// Wait blocks until queued code emails have been handed off or timed out
	Wait()
}

// otpMailTimeout bounds a background code delivery
const otpMailTimeout = 30 * time.Second

type passwordResetService struct {
	accountRepo repository.AccountRepository
	otpRepo     repository.OTPRepository
	mailer      mailer.Mailer
	hasher      *utils.PasswordHasher
	limiter     *ratelimit.Limiter
	log         logging.Logger
	otpTTL      time.Duration
	mailTimeout time.Duration
	pending     sync.WaitGroup

	now             func() time.Time
	newOTP          func() (string, error)
	newTempPassword func() (string, error)
}

// NewPasswordResetService creates a new PasswordResetService. limiter may be nil.
func NewPasswordResetService(
	accountRepo repository.AccountRepository,
	otpRepo repository.OTPRepository,
	m mailer.Mailer,
	hasher *utils.PasswordHasher,
	limiter *ratelimit.Limiter,
	log logging.Logger,
	otpTTL time.Duration,
) PasswordResetService {
	return &passwordResetService{
		accountRepo: accountRepo,
		otpRepo:     otpRepo,
		mailer:      m,
		hasher:      hasher,
		limiter:     limiter,
		log:         log,
		otpTTL:      otpTTL,
		mailTimeout: otpMailTimeout,
		now:         time.Now,
		newOTP: func() (string, error) {
			return utils.GenerateOTP(utils.OTPDigits)
		},
		newTempPassword: func() (string, error) {
			return utils.GenerateTemporaryPassword(utils.MinTempPasswordLen)
		},
	}
}

// RequestOTP issues and mails a reset code. It returns nil whether or not the
// account exists so callers cannot tell the difference. Delivery runs in the
// background so mail latency does not show up in the response time.
func (s *passwordResetService) RequestOTP(ctx context.Context, email string) error {
	email = model.NormalizeEmail(email)

	if err := checkLimit(ctx, s.limiter, s.log, ratelimit.ScopeResetRequest, email); err != nil {
		return err
	}

	account, err := s.accountRepo.FindByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("error finding account by email: %w", err)
	}
	if account == nil || !account.IsActive {
		// same bcrypt work as the real path
		_, _ = s.hasher.Hash("000000")
		return nil
	}

	code, err := s.newOTP()
	if err != nil {
		return fmt.Errorf("failed to generate otp: %w", err)
	}
	hash, err := s.hasher.Hash(code)
	if err != nil {
		return fmt.Errorf("failed to hash otp: %w", err)
	}

	now := s.now().UTC()
	otp := &model.PasswordResetOTP{
		UserID:    account.ID,
		OTPHash:   hash,
		ExpiresAt: now.Add(s.otpTTL),
		CreatedAt: now,
	}
	if err := s.otpRepo.Create(ctx, otp); err != nil {
		return err
	}

	s.log.Info(ctx, "password reset otp issued", "account_id", account.ID, "otp_id", otp.ID)
	s.sendOTPAsync(ctx, account, code)
	return nil
}

func (s *passwordResetService) sendOTPAsync(ctx context.Context, account *model.Account, code string) {
	// outlive the request, but not indefinitely
	mailCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.mailTimeout)

	s.pending.Add(1)
	go func() {
		defer s.pending.Done()
		defer cancel()
		if err := s.mailer.SendOTP(mailCtx, account.Email, code, s.otpTTL); err != nil {
			s.log.Error(mailCtx, "failed to send otp email", "account_id", account.ID, "error", err)
		}
	}()
}

func (s *passwordResetService) Wait() {
	s.pending.Wait()
}

// VerifyOTP checks the most recent outstanding code for the account, consumes
// it and rotates the password to a mailed temporary one.
func (s *passwordResetService) VerifyOTP(ctx context.Context, email, code string) error {
	email = model.NormalizeEmail(email)

	if err := checkLimit(ctx, s.limiter, s.log, ratelimit.ScopeResetVerify, email); err != nil {
		return err
	}

	account, err := s.accountRepo.FindByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("error finding account by email: %w", err)
	}
	if account == nil || !account.IsActive {
		return ErrInvalidOTP
	}

	now := s.now().UTC()
	otp, err := s.otpRepo.FindLatestValid(ctx, account.ID, now)
	if err != nil {
		return err
	}
	if otp == nil {
		return ErrOTPExpired
	}

	if !s.hasher.Compare(code, otp.OTPHash) {
		return ErrInvalidOTP
	}

	claimed, err := s.otpRepo.Claim(ctx, otp.ID, now)
	if err != nil {
		return err
	}
	if !claimed {
		return ErrOTPExpired
	}

	return s.rotateTemporaryPassword(ctx, account)
}

// rotateTemporaryPassword replaces the account password with a generated one
// and mails it. The old password stops working immediately.
func (s *passwordResetService) rotateTemporaryPassword(ctx context.Context, account *model.Account) error {
	password, err := s.newTempPassword()
	if err != nil {
		return fmt.Errorf("failed to generate temporary password: %w", err)
	}
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return fmt.Errorf("failed to hash temporary password: %w", err)
	}

	if err := s.accountRepo.UpdatePassword(ctx, account.ID, hash, true); err != nil {
		return err
	}

	if err := s.mailer.SendTemporaryPassword(ctx, account.Email, password); err != nil {
		return fmt.Errorf("failed to send temporary password: %w", err)
	}

	s.log.Info(ctx, "temporary password issued", "account_id", account.ID)
	return nil
}
