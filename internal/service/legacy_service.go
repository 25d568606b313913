package service

import (
	"context"
	"errors"
	"fmt"

	"member_directory/internal/logging"
	"member_directory/internal/model"
	"member_directory/internal/repository"
	"member_directory/internal/utils"
)

// LegacyService backs the shared-secret routes used by older integrations
type LegacyService interface {
	Encrypt(ctx context.Context, plaintext string) (string, error)
	Decrypt(ctx context.Context, ciphertext string) (string, error)
	UpdatePassword(ctx context.Context, email, newPassword string) error
}

type legacyService struct {
	accountRepo repository.AccountRepository
	cipher      *utils.TextCipher
	hasher      *utils.PasswordHasher
	log         logging.Logger
}

func NewLegacyService(
	accountRepo repository.AccountRepository,
	cipher *utils.TextCipher,
	hasher *utils.PasswordHasher,
	log logging.Logger,
) LegacyService {
	return &legacyService{
		accountRepo: accountRepo,
		cipher:      cipher,
		hasher:      hasher,
		log:         log,
	}
}

func (s *legacyService) Encrypt(_ context.Context, plaintext string) (string, error) {
	out, err := s.cipher.Encrypt(plaintext)
	if err != nil {
		return "", fmt.Errorf("failed to encrypt: %w", err)
	}
	return out, nil
}

func (s *legacyService) Decrypt(_ context.Context, ciphertext string) (string, error) {
	out, err := s.cipher.Decrypt(ciphertext)
	if err != nil {
		if errors.Is(err, utils.ErrMalformedCiphertext) {
			return "", ErrInvalidCiphertext
		}
		return "", fmt.Errorf("failed to decrypt: %w", err)
	}
	return out, nil
}

// UpdatePassword overwrites the password of the account with the given email.
// The stored value is a bcrypt hash like every other password path.
func (s *legacyService) UpdatePassword(ctx context.Context, email, newPassword string) error {
	account, err := s.accountRepo.FindByEmail(ctx, model.NormalizeEmail(email))
	if err != nil {
		return fmt.Errorf("error finding account by email: %w", err)
	}
	if account == nil || !account.IsActive {
		return ErrAccountNotFound
	}

	hashed, err := hashPassword(s.hasher, newPassword)
	if err != nil {
		return err
	}
	if err := s.accountRepo.UpdatePassword(ctx, account.ID, hashed, false); err != nil {
		return err
	}

	s.log.Info(ctx, "password updated via legacy route", "account_id", account.ID)
	return nil
}
