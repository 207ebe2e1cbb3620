package purchases

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/vivomercado/backend/pkg/db/models"
	"github.com/vivomercado/backend/pkg/enums"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds a purchases repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, purchase *models.Purchase) (*models.Purchase, error) {
	if purchase.ID == uuid.Nil {
		purchase.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(purchase).Error; err != nil {
		return nil, err
	}
	return purchase, nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Purchase, error) {
	var purchase models.Purchase
	err := r.db.WithContext(ctx).
		Where("id = ? AND is_active = ?", id, true).
		First(&purchase).Error
	if err != nil {
		return nil, err
	}
	return &purchase, nil
}

// UpdateStatus moves a purchase from one status to another. The from-status
// guard in the WHERE clause makes concurrent writers lose cleanly: zero rows
// affected means the purchase no longer holds the expected status.
func (r *repository) UpdateStatus(ctx context.Context, id uuid.UUID, from, to enums.PurchaseStatus, observations *string) (bool, error) {
	updates := map[string]any{"status": to}
	if observations != nil {
		updates["observations"] = *observations
	}
	res := r.db.WithContext(ctx).
		Model(&models.Purchase{}).
		Where("id = ? AND status = ?", id, from).
		Updates(updates)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// CancelPending flips a pending purchase to cancelled. The status guard in
// the WHERE clause makes concurrent cancellations lose cleanly: zero rows
// affected means the purchase already left the pending state.
func (r *repository) CancelPending(ctx context.Context, id uuid.UUID, observations string) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Purchase{}).
		Where("id = ? AND status = ?", id, enums.PurchaseStatusPending).
		Updates(map[string]any{
			"status":       enums.PurchaseStatusCancelled,
			"observations": observations,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

type purchaseRowRecord struct {
	ID               uuid.UUID            `gorm:"column:id"`
	ListingID        uuid.UUID            `gorm:"column:listing_id"`
	ListingTitle     string               `gorm:"column:listing_title"`
	BuyerID          uuid.UUID            `gorm:"column:buyer_id"`
	SellerID         uuid.UUID            `gorm:"column:seller_id"`
	CounterpartyName string               `gorm:"column:counterparty_name"`
	Quantity         int                  `gorm:"column:quantity"`
	UnitPrice        decimal.Decimal      `gorm:"column:unit_price"`
	TotalPrice       decimal.Decimal      `gorm:"column:total_price"`
	Status           enums.PurchaseStatus `gorm:"column:status"`
	Observations     *string              `gorm:"column:observations"`
	CreatedAt        time.Time            `gorm:"column:created_at"`
	UpdatedAt        time.Time            `gorm:"column:updated_at"`
}

func (rec purchaseRowRecord) toDTO() PurchaseRow {
	return PurchaseRow{
		ID:               rec.ID,
		ListingID:        rec.ListingID,
		ListingTitle:     rec.ListingTitle,
		BuyerID:          rec.BuyerID,
		SellerID:         rec.SellerID,
		CounterpartyName: rec.CounterpartyName,
		Quantity:         rec.Quantity,
		UnitPrice:        rec.UnitPrice,
		TotalPrice:       rec.TotalPrice,
		Status:           rec.Status,
		Observations:     rec.Observations,
		CreatedAt:        rec.CreatedAt,
		UpdatedAt:        rec.UpdatedAt,
	}
}

func (r *repository) ListByBuyer(ctx context.Context, buyerID uuid.UUID) ([]PurchaseRow, error) {
	return r.listRows(ctx, "p.buyer_id = ?", buyerID, "p.seller_id")
}

func (r *repository) ListBySeller(ctx context.Context, sellerID uuid.UUID) ([]PurchaseRow, error) {
	return r.listRows(ctx, "p.seller_id = ?", sellerID, "p.buyer_id")
}

func (r *repository) listRows(ctx context.Context, condition string, actorID uuid.UUID, counterpartyColumn string) ([]PurchaseRow, error) {
	var records []purchaseRowRecord
	err := r.db.WithContext(ctx).
		Table("purchases p").
		Select(strings.Join([]string{
			"p.id",
			"p.listing_id",
			"l.title AS listing_title",
			"p.buyer_id",
			"p.seller_id",
			"u.name AS counterparty_name",
			"p.quantity",
			"p.unit_price",
			"p.total_price",
			"p.status",
			"p.observations",
			"p.created_at",
			"p.updated_at",
		}, ", ")).
		Joins("JOIN listings l ON l.id = p.listing_id").
		Joins("JOIN users u ON u.id = "+counterpartyColumn).
		Where(condition, actorID).
		Where("p.is_active = ?", true).
		Order("p.created_at DESC").Order("p.id DESC").
		Scan(&records).Error
	if err != nil {
		return nil, err
	}

	rows := make([]PurchaseRow, 0, len(records))
	for _, record := range records {
		rows = append(rows, record.toDTO())
	}
	return rows, nil
}
