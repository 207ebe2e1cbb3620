package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/vivomercado/backend/pkg/enums"
)

// Purchase is a buyer's commitment to acquire a quantity from a listing.
// UnitPrice and TotalPrice are snapshots taken at purchase time and frozen
// thereafter; SellerID is the listing owner at purchase time.
type Purchase struct {
	ID           uuid.UUID            `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ListingID    uuid.UUID            `gorm:"column:listing_id;type:uuid;not null;index:purchases_listing_id_idx"`
	BuyerID      uuid.UUID            `gorm:"column:buyer_id;type:uuid;not null;index:purchases_buyer_id_idx"`
	SellerID     uuid.UUID            `gorm:"column:seller_id;type:uuid;not null;index:purchases_seller_id_idx"`
	Quantity     int                  `gorm:"column:quantity;not null"`
	UnitPrice    decimal.Decimal      `gorm:"column:unit_price;type:numeric(10,2);not null"`
	TotalPrice   decimal.Decimal      `gorm:"column:total_price;type:numeric(10,2);not null"`
	Status       enums.PurchaseStatus `gorm:"column:status;not null;default:pending"`
	Observations *string              `gorm:"column:observations"`
	IsActive     bool                 `gorm:"column:is_active;not null;default:true"`
	CreatedAt    time.Time            `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time            `gorm:"column:updated_at;autoUpdateTime"`
}
