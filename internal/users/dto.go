package users

import (
	"time"

	"github.com/google/uuid"
	"github.com/vivomercado/backend/pkg/db/models"
	"github.com/vivomercado/backend/pkg/enums"
)

// RegisterInput carries a new account request.
type RegisterInput struct {
	Name     string  `json:"name" validate:"required,min=2,max=120"`
	Email    string  `json:"email" validate:"required,email"`
	Password string  `json:"password" validate:"required,min=8,max=128"`
	Phone    *string `json:"phone,omitempty" validate:"omitempty,max=30"`
	Address  *string `json:"address,omitempty" validate:"omitempty,max=300"`
}

// UpdateProfileInput carries partial profile changes. Password change
// requires the current password alongside the new one.
type UpdateProfileInput struct {
	Name            *string `json:"name,omitempty" validate:"omitempty,min=2,max=120"`
	Phone           *string `json:"phone,omitempty" validate:"omitempty,max=30"`
	Address         *string `json:"address,omitempty" validate:"omitempty,max=300"`
	CurrentPassword *string `json:"current_password,omitempty"`
	NewPassword     *string `json:"new_password,omitempty" validate:"omitempty,min=8,max=128"`
}

// DeactivateAccountInput confirms the account owner before soft-deleting.
type DeactivateAccountInput struct {
	Password string `json:"password" validate:"required"`
}

// Profile is the user representation returned to clients.
type Profile struct {
	ID          uuid.UUID      `json:"id"`
	Name        string         `json:"name"`
	Email       string         `json:"email"`
	Phone       *string        `json:"phone,omitempty"`
	Address     *string        `json:"address,omitempty"`
	Role        enums.UserRole `json:"role"`
	IsActive    bool           `json:"is_active"`
	LastLoginAt *time.Time     `json:"last_login_at,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
}

// ToProfile strips credentials from the stored user.
func ToProfile(user *models.User) Profile {
	return Profile{
		ID:          user.ID,
		Name:        user.Name,
		Email:       user.Email,
		Phone:       user.Phone,
		Address:     user.Address,
		Role:        user.Role,
		IsActive:    user.IsActive,
		LastLoginAt: user.LastLoginAt,
		CreatedAt:   user.CreatedAt,
	}
}
