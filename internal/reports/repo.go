package reports

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds a reports repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func sideColumn(side Side) (string, error) {
	switch side {
	case SideBuyer:
		return "buyer_id", nil
	case SideSeller:
		return "seller_id", nil
	default:
		return "", fmt.Errorf("unknown report side %q", side)
	}
}

type summaryRecord struct {
	Count int64           `gorm:"column:trade_count"`
	Total decimal.Decimal `gorm:"column:trade_total"`
}

func (r *repository) Summary(ctx context.Context, side Side, actorID uuid.UUID) (int64, decimal.Decimal, error) {
	column, err := sideColumn(side)
	if err != nil {
		return 0, decimal.Zero, err
	}

	var record summaryRecord
	err = r.db.WithContext(ctx).
		Table("purchases").
		Select("COUNT(*) AS trade_count, COALESCE(SUM(total_price), 0) AS trade_total").
		Where(column+" = ? AND is_active = ?", actorID, true).
		Scan(&record).Error
	if err != nil {
		return 0, decimal.Zero, err
	}
	return record.Count, record.Total, nil
}

type statusLineRecord struct {
	Status string          `gorm:"column:status"`
	Count  int64           `gorm:"column:trade_count"`
	Total  decimal.Decimal `gorm:"column:trade_total"`
}

func (r *repository) ByStatus(ctx context.Context, side Side, actorID uuid.UUID) ([]StatusLine, error) {
	column, err := sideColumn(side)
	if err != nil {
		return nil, err
	}

	var records []statusLineRecord
	err = r.db.WithContext(ctx).
		Table("purchases").
		Select("status, COUNT(*) AS trade_count, COALESCE(SUM(total_price), 0) AS trade_total").
		Where(column+" = ? AND is_active = ?", actorID, true).
		Group("status").
		Order("status ASC").
		Scan(&records).Error
	if err != nil {
		return nil, err
	}

	lines := make([]StatusLine, 0, len(records))
	for _, record := range records {
		lines = append(lines, StatusLine{
			Status: record.Status,
			Count:  record.Count,
			Total:  record.Total,
		})
	}
	return lines, nil
}

type recentTradeRecord struct {
	ID           uuid.UUID       `gorm:"column:id"`
	ListingID    uuid.UUID       `gorm:"column:listing_id"`
	ListingTitle string          `gorm:"column:listing_title"`
	Quantity     int             `gorm:"column:quantity"`
	TotalPrice   decimal.Decimal `gorm:"column:total_price"`
	Status       string          `gorm:"column:status"`
	CreatedAt    time.Time       `gorm:"column:created_at"`
}

func (r *repository) Recent(ctx context.Context, side Side, actorID uuid.UUID, limit int) ([]RecentTrade, error) {
	column, err := sideColumn(side)
	if err != nil {
		return nil, err
	}

	var records []recentTradeRecord
	err = r.db.WithContext(ctx).
		Table("purchases p").
		Select(strings.Join([]string{
			"p.id",
			"p.listing_id",
			"l.title AS listing_title",
			"p.quantity",
			"p.total_price",
			"p.status",
			"p.created_at",
		}, ", ")).
		Joins("JOIN listings l ON l.id = p.listing_id").
		Where("p."+column+" = ? AND p.is_active = ?", actorID, true).
		Order("p.created_at DESC").Order("p.id DESC").
		Limit(limit).
		Scan(&records).Error
	if err != nil {
		return nil, err
	}

	trades := make([]RecentTrade, 0, len(records))
	for _, record := range records {
		trades = append(trades, RecentTrade{
			ID:           record.ID,
			ListingID:    record.ListingID,
			ListingTitle: record.ListingTitle,
			Quantity:     record.Quantity,
			TotalPrice:   record.TotalPrice,
			Status:       record.Status,
			CreatedAt:    record.CreatedAt,
		})
	}
	return trades, nil
}

type topProductRecord struct {
	ListingID    uuid.UUID       `gorm:"column:listing_id"`
	ListingTitle string          `gorm:"column:listing_title"`
	UnitsSold    int64           `gorm:"column:units_sold"`
	Revenue      decimal.Decimal `gorm:"column:revenue"`
}

func (r *repository) TopProducts(ctx context.Context, sellerID uuid.UUID, limit int) ([]TopProduct, error) {
	var records []topProductRecord
	err := r.db.WithContext(ctx).
		Table("purchases p").
		Select(strings.Join([]string{
			"p.listing_id",
			"l.title AS listing_title",
			"SUM(p.quantity) AS units_sold",
			"COALESCE(SUM(p.total_price), 0) AS revenue",
		}, ", ")).
		Joins("JOIN listings l ON l.id = p.listing_id").
		Where("p.seller_id = ? AND p.is_active = ?", sellerID, true).
		Group("p.listing_id, l.title").
		Order("units_sold DESC").
		Limit(limit).
		Scan(&records).Error
	if err != nil {
		return nil, err
	}

	products := make([]TopProduct, 0, len(records))
	for _, record := range records {
		products = append(products, TopProduct{
			ListingID:    record.ListingID,
			ListingTitle: record.ListingTitle,
			UnitsSold:    record.UnitsSold,
			Revenue:      record.Revenue,
		})
	}
	return products, nil
}
