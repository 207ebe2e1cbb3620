package categories

import (
	"context"

	"github.com/google/uuid"
	"github.com/vivomercado/backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository defines persistence operations for categories.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, category *models.Category) (*models.Category, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Category, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) error
	ListActive(ctx context.Context) ([]models.Category, error)
	ActiveExists(ctx context.Context, id uuid.UUID) (bool, error)
	CountActiveListings(ctx context.Context, id uuid.UUID) (int64, error)
	CountAll(ctx context.Context) (int64, error)
}

// Service defines category operations.
type Service interface {
	List(ctx context.Context) ([]models.Category, error)
	Create(ctx context.Context, input CreateCategoryInput) (*models.Category, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateCategoryInput) (*models.Category, error)
	Deactivate(ctx context.Context, id uuid.UUID) error
	Seed(ctx context.Context) error
}
