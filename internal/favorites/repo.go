package favorites

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/vivomercado/backend/pkg/db/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds a favorites repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

// Insert adds a favorite unless the (user, listing) pair already exists.
// It reports whether a row was created.
func (r *repository) Insert(ctx context.Context, favorite *models.Favorite) (bool, error) {
	if favorite.ID == uuid.Nil {
		favorite.ID = uuid.New()
	}
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "listing_id"}},
			DoNothing: true,
		}).
		Create(favorite)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *repository) DeleteByPair(ctx context.Context, userID, listingID uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND listing_id = ?", userID, listingID).
		Delete(&models.Favorite{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Favorite, error) {
	var favorite models.Favorite
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&favorite).Error
	if err != nil {
		return nil, err
	}
	return &favorite, nil
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&models.Favorite{}).
		Error
}

type favoriteRowRecord struct {
	ID           uuid.UUID       `gorm:"column:id"`
	ListingID    uuid.UUID       `gorm:"column:listing_id"`
	ListingTitle string          `gorm:"column:listing_title"`
	Price        decimal.Decimal `gorm:"column:price"`
	AvailableQty int             `gorm:"column:available_qty"`
	SellerName   string          `gorm:"column:seller_name"`
	CreatedAt    time.Time       `gorm:"column:created_at"`
}

func (r *repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]FavoriteRow, error) {
	var records []favoriteRowRecord
	err := r.db.WithContext(ctx).
		Table("favorites f").
		Select(strings.Join([]string{
			"f.id",
			"f.listing_id",
			"l.title AS listing_title",
			"l.price",
			"l.available_qty",
			"u.name AS seller_name",
			"f.created_at",
		}, ", ")).
		Joins("JOIN listings l ON l.id = f.listing_id").
		Joins("JOIN users u ON u.id = l.seller_id").
		Where("f.user_id = ? AND l.is_active = ?", userID, true).
		Order("f.created_at DESC").Order("f.id DESC").
		Scan(&records).Error
	if err != nil {
		return nil, err
	}

	rows := make([]FavoriteRow, 0, len(records))
	for _, record := range records {
		rows = append(rows, FavoriteRow{
			ID:           record.ID,
			ListingID:    record.ListingID,
			ListingTitle: record.ListingTitle,
			Price:        record.Price,
			AvailableQty: record.AvailableQty,
			SellerName:   record.SellerName,
			CreatedAt:    record.CreatedAt,
		})
	}
	return rows, nil
}
