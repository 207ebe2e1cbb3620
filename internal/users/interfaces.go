package users

import (
	"context"

	"github.com/google/uuid"
	"github.com/vivomercado/backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository defines persistence operations for users.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, user *models.User) (*models.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	FindActiveByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) error
	List(ctx context.Context) ([]models.User, error)
}

// ListingDeactivator soft-deletes a seller's listings inside an account
// deactivation transaction.
type ListingDeactivator interface {
	DeactivateBySeller(ctx context.Context, tx *gorm.DB, sellerID uuid.UUID) error
}

// SessionRevoker cuts the actor's active session after destructive account
// operations.
type SessionRevoker interface {
	Revoke(ctx context.Context, accessID string) error
}

// Service defines account operations.
type Service interface {
	Register(ctx context.Context, input RegisterInput) (*Profile, error)
	Get(ctx context.Context, actorID uuid.UUID) (*Profile, error)
	UpdateProfile(ctx context.Context, actorID uuid.UUID, input UpdateProfileInput) (*Profile, error)
	DeactivateAccount(ctx context.Context, actorID uuid.UUID, accessID string, input DeactivateAccountInput) error
	ListUsers(ctx context.Context) ([]Profile, error)
}
