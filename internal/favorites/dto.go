package favorites

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ToggleResult reports the state a favorite landed in after a toggle.
type ToggleResult struct {
	ListingID uuid.UUID `json:"listing_id"`
	Favorited bool      `json:"favorited"`
}

// FavoriteRow is a saved listing joined with its display fields.
type FavoriteRow struct {
	ID           uuid.UUID       `json:"id"`
	ListingID    uuid.UUID       `json:"listing_id"`
	ListingTitle string          `json:"listing_title"`
	Price        decimal.Decimal `json:"price"`
	AvailableQty int             `json:"available_qty"`
	SellerName   string          `json:"seller_name"`
	CreatedAt    time.Time       `json:"created_at"`
}
