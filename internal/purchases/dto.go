package purchases

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/vivomercado/backend/pkg/enums"
)

// CreatePurchaseInput carries the fields a buyer submits.
type CreatePurchaseInput struct {
	ListingID uuid.UUID `json:"listing_id" validate:"required"`
	Quantity  int       `json:"quantity" validate:"required,min=1"`
}

// UpdateStatusInput carries a seller's status change request.
type UpdateStatusInput struct {
	Status       string  `json:"status" validate:"required"`
	Observations *string `json:"observations"`
}

// CancelInput carries the optional cancellation reason.
type CancelInput struct {
	Reason string `json:"reason"`
}

// PurchaseRow is a purchase joined with display fields for history views.
type PurchaseRow struct {
	ID               uuid.UUID            `json:"id"`
	ListingID        uuid.UUID            `json:"listing_id"`
	ListingTitle     string               `json:"listing_title"`
	BuyerID          uuid.UUID            `json:"buyer_id"`
	SellerID         uuid.UUID            `json:"seller_id"`
	CounterpartyName string               `json:"counterparty_name"`
	Quantity         int                  `json:"quantity"`
	UnitPrice        decimal.Decimal      `json:"unit_price"`
	TotalPrice       decimal.Decimal      `json:"total_price"`
	Status           enums.PurchaseStatus `json:"status"`
	Observations     *string              `json:"observations,omitempty"`
	CreatedAt        time.Time            `json:"created_at"`
	UpdatedAt        time.Time            `json:"updated_at"`
}
