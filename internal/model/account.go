package model

import (
	"strings"
	"time"
)

// Account represents a registered member's credentials
type Account struct {
	ID             string    `json:"id"`
	Email          string    `json:"email"`
	Name           string    `json:"name"`
	PasswordHash   string    `json:"-"` // Do not expose password hash in JSON responses
	IsActive       bool      `json:"isActive"`
	Role           Role      `json:"-"`
	IsTempPassword bool      `json:"isTempPassword"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// PublicUser is the account view returned to clients
type PublicUser struct {
	ID         string `json:"id"`
	Email      string `json:"email"`
	Name       string `json:"name"`
	RoleName   string `json:"roleName"`
	UserRoleID int    `json:"userRoleID"`
	IsActive   bool   `json:"isActive"`
}

// Public builds the client-facing view of the account.
func (a *Account) Public() PublicUser {
	return PublicUser{
		ID:         a.ID,
		Email:      a.Email,
		Name:       a.Name,
		RoleName:   a.Role.String(),
		UserRoleID: a.Role.Rank(),
		IsActive:   a.IsActive,
	}
}

// NormalizeEmail is the canonical form emails are stored and looked up in.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// RegisterRequest is used for creating a new account
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8,max=72"`
	Name     string `json:"name" binding:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required,max=72"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required,max=72"`
	NewPassword     string `json:"newPassword" binding:"required,min=8,max=72"`
}
