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

// ErrDuplicateEmail is returned when an account with the same email already exists
var ErrDuplicateEmail = errors.New("email already registered")

// AccountRepository defines operations for account data
type AccountRepository interface {
	Create(ctx context.Context, account *model.Account) error
	FindByEmail(ctx context.Context, email string) (*model.Account, error)
	FindByID(ctx context.Context, id string) (*model.Account, error)
	UpdatePassword(ctx context.Context, id, passwordHash string, temporary bool) error
}

type accountRepository struct {
	db DBTX
}

// NewAccountRepository creates a new AccountRepository
func NewAccountRepository(db DBTX) AccountRepository {
	return &accountRepository{db: db}
}

const accountColumns = `id, email, name, password_hash, is_active, role_id, is_temp_password, created_at, updated_at`

// Create inserts a new account. A missing ID is generated, timestamps come from the database.
func (r *accountRepository) Create(ctx context.Context, account *model.Account) error {
	if account.ID == "" {
		account.ID = uuid.NewString()
	}
	sql := `INSERT INTO accounts (id, email, name, password_hash, is_active, role_id, is_temp_password)
            VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING created_at, updated_at`
	err := r.db.QueryRow(ctx, sql,
		account.ID, account.Email, account.Name, account.PasswordHash, account.IsActive, account.Role.Rank(), account.IsTempPassword,
	).Scan(&account.CreatedAt, &account.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("failed to create account: %w", err)
	}
	return nil
}

// FindByEmail retrieves an account by its normalized email
func (r *accountRepository) FindByEmail(ctx context.Context, email string) (*model.Account, error) {
	sql := `SELECT ` + accountColumns + ` FROM accounts WHERE email = $1`
	account, err := scanAccount(r.db.QueryRow(ctx, sql, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // Not found is not an error here, the service layer decides
		}
		return nil, fmt.Errorf("failed to find account by email: %w", err)
	}
	return account, nil
}

// FindByID retrieves an account by its ID
func (r *accountRepository) FindByID(ctx context.Context, id string) (*model.Account, error) {
	sql := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1`
	account, err := scanAccount(r.db.QueryRow(ctx, sql, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find account by ID: %w", err)
	}
	return account, nil
}

// UpdatePassword replaces the stored hash and sets the temporary-password flag
func (r *accountRepository) UpdatePassword(ctx context.Context, id, passwordHash string, temporary bool) error {
	sql := `UPDATE accounts SET password_hash = $1, is_temp_password = $2, updated_at = $3 WHERE id = $4`
	tag, err := r.db.Exec(ctx, sql, passwordHash, temporary, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("failed to update password: account %s not found", id)
	}
	return nil
}

func scanAccount(row pgx.Row) (*model.Account, error) {
	account := &model.Account{}
	var roleID int
	err := row.Scan(
		&account.ID, &account.Email, &account.Name, &account.PasswordHash,
		&account.IsActive, &roleID, &account.IsTempPassword, &account.CreatedAt, &account.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	account.Role = model.Role(roleID)
	return account, nil
}
