package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Listing is a seller's offer of a quantity of one item at a fixed unit
// price. AvailableQty is only ever mutated through conditional updates so it
// never goes negative.
type Listing struct {
	ID           uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	SellerID     uuid.UUID       `gorm:"column:seller_id;type:uuid;not null;index:listings_seller_id_idx"`
	CategoryID   uuid.UUID       `gorm:"column:category_id;type:uuid;not null;index:listings_category_id_idx"`
	Title        string          `gorm:"column:title;not null"`
	Description  string          `gorm:"column:description;not null"`
	Price        decimal.Decimal `gorm:"column:price;type:numeric(10,2);not null"`
	AvailableQty int             `gorm:"column:available_qty;not null;default:1"`
	IsActive     bool            `gorm:"column:is_active;not null;default:true"`
	CreatedAt    time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
