package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"member_directory/internal/config"
	"member_directory/internal/logging"
	"member_directory/internal/model"
	"member_directory/internal/ratelimit"
	"member_directory/internal/repository"
	"member_directory/internal/utils"
)

// LoginResult is returned by a successful login or registration
type LoginResult struct {
	Token          string           `json:"token"`
	ExpiresAt      time.Time        `json:"expiresAt"`
	ExpiresIn      int64            `json:"expiresIn"` // seconds
	User           model.PublicUser `json:"user"`
	IsTempPassword bool             `json:"isTempPassword"`
}

// AuthService provides authentication related services
type AuthService interface {
	Register(ctx context.Context, req model.RegisterRequest) (*model.Account, error)
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	ChangePassword(ctx context.Context, accountID, currentPassword, newPassword string) error
	GetAccount(ctx context.Context, accountID string) (*model.Account, error)
	Seed(ctx context.Context, accounts []config.SeedAccount) error
}

type authService struct {
	accountRepo repository.AccountRepository
	jwtUtil     *utils.JWTUtil
	hasher      *utils.PasswordHasher
	limiter     *ratelimit.Limiter
	log         logging.Logger
}

// NewAuthService creates a new AuthService. limiter may be nil.
func NewAuthService(
	accountRepo repository.AccountRepository,
	jwtUtil *utils.JWTUtil,
	hasher *utils.PasswordHasher,
	limiter *ratelimit.Limiter,
	log logging.Logger,
) AuthService {
	return &authService{
		accountRepo: accountRepo,
		jwtUtil:     jwtUtil,
		hasher:      hasher,
		limiter:     limiter,
		log:         log,
	}
}

// Register creates a new Devotee account. The caller signs in separately.
func (s *authService) Register(ctx context.Context, req model.RegisterRequest) (*model.Account, error) {
	email := model.NormalizeEmail(req.Email)

	existing, err := s.accountRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing account: %w", err)
	}
	if existing != nil {
		return nil, ErrUserAlreadyExists
	}

	hashedPassword, err := hashPassword(s.hasher, req.Password)
	if err != nil {
		return nil, err
	}

	account := &model.Account{
		Email:        email,
		Name:         req.Name,
		PasswordHash: hashedPassword,
		IsActive:     true,
		Role:         model.DefaultRole,
	}

	if err := s.accountRepo.Create(ctx, account); err != nil {
		// Lost a race with a concurrent registration
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, ErrUserAlreadyExists
		}
		return nil, fmt.Errorf("failed to create account in repository: %w", err)
	}

	s.log.Info(ctx, "account registered", "account_id", account.ID, "email", account.Email)
	return account, nil
}

// Login authenticates an account and returns a session token. Unknown,
// inactive and wrong-password cases all return ErrInvalidCredentials.
func (s *authService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = model.NormalizeEmail(email)

	if err := s.checkLimit(ctx, ratelimit.ScopeLogin, email); err != nil {
		return nil, err
	}

	account, err := s.accountRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("error finding account by email: %w", err)
	}
	if account == nil {
		// same bcrypt work as the wrong-password path
		s.hasher.CompareDummy(password)
		return nil, ErrInvalidCredentials
	}

	if !s.hasher.Compare(password, account.PasswordHash) {
		return nil, ErrInvalidCredentials
	}
	if !account.IsActive {
		return nil, ErrInvalidCredentials
	}

	if err := s.limiter.Reset(ctx, ratelimit.ScopeLogin, email); err != nil {
		s.log.Warn(ctx, "failed to reset login counter", "error", err)
	}

	return s.issue(account)
}

// ChangePassword verifies the current password, stores the new one and clears
// the temporary-password flag
func (s *authService) ChangePassword(ctx context.Context, accountID, currentPassword, newPassword string) error {
	account, err := s.accountRepo.FindByID(ctx, accountID)
	if err != nil {
		return fmt.Errorf("error finding account: %w", err)
	}
	if account == nil || !account.IsActive {
		return ErrAccountNotFound
	}

	if !s.hasher.Compare(currentPassword, account.PasswordHash) {
		return ErrCurrentPasswordIncorrect
	}

	hashed, err := hashPassword(s.hasher, newPassword)
	if err != nil {
		return err
	}
	if err := s.accountRepo.UpdatePassword(ctx, account.ID, hashed, false); err != nil {
		return err
	}

	s.log.Info(ctx, "password changed", "account_id", account.ID)
	return nil
}

func (s *authService) GetAccount(ctx context.Context, accountID string) (*model.Account, error) {
	account, err := s.accountRepo.FindByID(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("error finding account: %w", err)
	}
	if account == nil {
		return nil, ErrAccountNotFound
	}
	return account, nil
}

// Seed creates accounts from the seed file that do not exist yet. Existing
// accounts are left untouched.
func (s *authService) Seed(ctx context.Context, accounts []config.SeedAccount) error {
	for _, sa := range accounts {
		role := model.DefaultRole
		if sa.Role != "" {
			r, err := model.ParseRole(sa.Role)
			if err != nil {
				return fmt.Errorf("seed account %s: %w", sa.Email, err)
			}
			role = r
		}

		account := &model.Account{
			Email:        model.NormalizeEmail(sa.Email),
			Name:         sa.Name,
			PasswordHash: sa.PasswordHash,
			IsActive:     sa.IsActive(),
			Role:         role,
		}
		err := s.accountRepo.Create(ctx, account)
		if errors.Is(err, repository.ErrDuplicateEmail) {
			s.log.Debug(ctx, "seed account already exists", "email", account.Email)
			continue
		}
		if err != nil {
			return fmt.Errorf("seed account %s: %w", account.Email, err)
		}
		s.log.Info(ctx, "seeded account", "email", account.Email, "role", role.String())
	}
	return nil
}

// hashPassword maps the bcrypt length limit to a validation error
func hashPassword(hasher *utils.PasswordHasher, password string) (string, error) {
	hashed, err := hasher.Hash(password)
	if err != nil {
		if errors.Is(err, utils.ErrSecretTooLong) {
			return "", ErrPasswordTooLong
		}
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return hashed, nil
}

func (s *authService) issue(account *model.Account) (*LoginResult, error) {
	token, expiresAt, err := s.jwtUtil.GenerateToken(account.ID, account.Email, account.Role.String())
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	return &LoginResult{
		Token:          token,
		ExpiresAt:      expiresAt,
		ExpiresIn:      int64(s.jwtUtil.Expiration() / time.Second),
		User:           account.Public(),
		IsTempPassword: account.IsTempPassword,
	}, nil
}

// checkLimit maps limiter outcomes to service errors. An unreachable store
// does not block sign-in.
func (s *authService) checkLimit(ctx context.Context, scope, key string) error {
	return checkLimit(ctx, s.limiter, s.log, scope, key)
}

func checkLimit(ctx context.Context, limiter *ratelimit.Limiter, log logging.Logger, scope, key string) error {
	err := limiter.Allow(ctx, scope, key)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ratelimit.ErrRateLimited):
		log.Warn(ctx, "rate limit exceeded", "scope", scope)
		return ErrRateLimited
	default:
		log.Error(ctx, "rate limiter unavailable", "scope", scope, "error", err)
		return nil
	}
}
