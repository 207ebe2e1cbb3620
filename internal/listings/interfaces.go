package listings

import (
	"context"

	"github.com/google/uuid"
	"github.com/vivomercado/backend/pkg/db/models"
	"github.com/vivomercado/backend/pkg/pagination"
	"gorm.io/gorm"
)

// Repository defines persistence operations for listings.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, listing *models.Listing) (*models.Listing, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Listing, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) error
	Search(ctx context.Context, filters SearchFilters, params pagination.Params) (*ListingPage, error)
	ListBySeller(ctx context.Context, sellerID uuid.UUID) ([]models.Listing, error)
	FindDetail(ctx context.Context, id, viewerID uuid.UUID) (*ListingDetail, error)
	DeactivateBySeller(ctx context.Context, sellerID uuid.UUID) error
}

// Service defines listing-level operations.
type Service interface {
	Create(ctx context.Context, actorID uuid.UUID, input CreateListingInput) (*models.Listing, error)
	Update(ctx context.Context, actorID, listingID uuid.UUID, input UpdateListingInput) (*models.Listing, error)
	Deactivate(ctx context.Context, actorID, listingID uuid.UUID) error
	Search(ctx context.Context, filters SearchFilters, params pagination.Params) (*ListingPage, error)
	Get(ctx context.Context, viewerID, listingID uuid.UUID) (*ListingDetail, error)
	ListMine(ctx context.Context, actorID uuid.UUID) ([]models.Listing, error)
}
