package repository

import (
	"context"
	"fmt"
)

// ProfileRepository answers whether an account has completed its profile
type ProfileRepository interface {
	Exists(ctx context.Context, accountID string) (bool, error)
}

type profileRepository struct {
	db DBTX
}

// NewProfileRepository creates a new ProfileRepository
func NewProfileRepository(db DBTX) ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) Exists(ctx context.Context, accountID string) (bool, error) {
	var exists bool
	sql := `SELECT EXISTS (SELECT 1 FROM user_profiles WHERE user_id = $1)`
	if err := r.db.QueryRow(ctx, sql, accountID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check profile: %w", err)
	}
	return exists, nil
}
