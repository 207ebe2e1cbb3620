package reports

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Side selects which end of a purchase a report aggregates over.
type Side string

const (
	SideBuyer  Side = "buyer"
	SideSeller Side = "seller"
)

// Repository defines the aggregate queries behind trade reports.
type Repository interface {
	Summary(ctx context.Context, side Side, actorID uuid.UUID) (int64, decimal.Decimal, error)
	ByStatus(ctx context.Context, side Side, actorID uuid.UUID) ([]StatusLine, error)
	Recent(ctx context.Context, side Side, actorID uuid.UUID, limit int) ([]RecentTrade, error)
	TopProducts(ctx context.Context, sellerID uuid.UUID, limit int) ([]TopProduct, error)
}

// Service defines report operations.
type Service interface {
	PurchaseReport(ctx context.Context, buyerID uuid.UUID) (*PurchaseReport, error)
	SalesReport(ctx context.Context, sellerID uuid.UUID) (*SalesReport, error)
}
