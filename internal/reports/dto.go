package reports

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StatusLine is the per-status slice of a trade report.
type StatusLine struct {
	Status string          `json:"status"`
	Count  int64           `json:"count"`
	Total  decimal.Decimal `json:"total"`
}

// RecentTrade is a purchase row trimmed down for report listings.
type RecentTrade struct {
	ID           uuid.UUID       `json:"id"`
	ListingID    uuid.UUID       `json:"listing_id"`
	ListingTitle string          `json:"listing_title"`
	Quantity     int             `json:"quantity"`
	TotalPrice   decimal.Decimal `json:"total_price"`
	Status       string          `json:"status"`
	CreatedAt    time.Time       `json:"created_at"`
}

// TopProduct aggregates a seller's listing by units sold.
type TopProduct struct {
	ListingID    uuid.UUID       `json:"listing_id"`
	ListingTitle string          `json:"listing_title"`
	UnitsSold    int64           `json:"units_sold"`
	Revenue      decimal.Decimal `json:"revenue"`
}

// PurchaseReport summarizes a buyer's purchase history.
type PurchaseReport struct {
	Count    int64           `json:"count"`
	Total    decimal.Decimal `json:"total"`
	ByStatus []StatusLine    `json:"by_status"`
	Recent   []RecentTrade   `json:"recent"`
}

// SalesReport summarizes a seller's sales, including best-selling products.
type SalesReport struct {
	Count       int64           `json:"count"`
	Total       decimal.Decimal `json:"total"`
	ByStatus    []StatusLine    `json:"by_status"`
	Recent      []RecentTrade   `json:"recent"`
	TopProducts []TopProduct    `json:"top_products"`
}
