package favorites

import (
	"context"

	"github.com/google/uuid"
	"github.com/vivomercado/backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository defines persistence operations for favorites.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Insert(ctx context.Context, favorite *models.Favorite) (bool, error)
	DeleteByPair(ctx context.Context, userID, listingID uuid.UUID) (bool, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Favorite, error)
	Delete(ctx context.Context, id uuid.UUID) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]FavoriteRow, error)
}

// ListingSource loads listings for existence checks.
type ListingSource interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Listing, error)
}

// Service defines favorite operations.
type Service interface {
	Toggle(ctx context.Context, actorID, listingID uuid.UUID) (*ToggleResult, error)
	Remove(ctx context.Context, actorID, favoriteID uuid.UUID) error
	List(ctx context.Context, actorID uuid.UUID) ([]FavoriteRow, error)
}
