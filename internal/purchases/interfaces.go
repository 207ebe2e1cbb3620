package purchases

import (
	"context"

	"github.com/google/uuid"
	"github.com/vivomercado/backend/pkg/db/models"
	"github.com/vivomercado/backend/pkg/enums"
	"gorm.io/gorm"
)

// Repository defines persistence operations for purchases.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, purchase *models.Purchase) (*models.Purchase, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Purchase, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to enums.PurchaseStatus, observations *string) (bool, error)
	CancelPending(ctx context.Context, id uuid.UUID, observations string) (bool, error)
	ListByBuyer(ctx context.Context, buyerID uuid.UUID) ([]PurchaseRow, error)
	ListBySeller(ctx context.Context, sellerID uuid.UUID) ([]PurchaseRow, error)
}

// Service defines purchase-level operations.
type Service interface {
	Create(ctx context.Context, actorID uuid.UUID, input CreatePurchaseInput) (*models.Purchase, error)
	UpdateStatus(ctx context.Context, actorID, purchaseID uuid.UUID, input UpdateStatusInput) (*models.Purchase, error)
	Cancel(ctx context.Context, actorID, purchaseID uuid.UUID, reason string) (*models.Purchase, error)
	Get(ctx context.Context, actorID, purchaseID uuid.UUID) (*models.Purchase, error)
	ListPurchases(ctx context.Context, actorID uuid.UUID) ([]PurchaseRow, error)
	ListSales(ctx context.Context, actorID uuid.UUID) ([]PurchaseRow, error)
}

// StockAdjuster mutates listing stock with conditional updates so quantity
// can never go negative.
type StockAdjuster interface {
	Decrement(ctx context.Context, tx *gorm.DB, listingID uuid.UUID, qty int) (bool, error)
	Restore(ctx context.Context, tx *gorm.DB, listingID uuid.UUID, qty int) error
}

// ListingReader loads listings inside the purchase transaction.
type ListingReader interface {
	Find(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*models.Listing, error)
}
