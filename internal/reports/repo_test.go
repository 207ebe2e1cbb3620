package reports

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vivomercado/backend/pkg/db/models"
	"github.com/vivomercado/backend/pkg/enums"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupReportsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	listings := `
CREATE TABLE IF NOT EXISTS listings (
  id TEXT PRIMARY KEY,
  seller_id TEXT NOT NULL,
  category_id TEXT NOT NULL,
  title TEXT NOT NULL,
  description TEXT NOT NULL,
  price NUMERIC NOT NULL,
  available_qty INTEGER NOT NULL DEFAULT 0,
  is_active INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`
	purchases := `
CREATE TABLE IF NOT EXISTS purchases (
  id TEXT PRIMARY KEY,
  listing_id TEXT NOT NULL,
  buyer_id TEXT NOT NULL,
  seller_id TEXT NOT NULL,
  quantity INTEGER NOT NULL,
  unit_price NUMERIC NOT NULL,
  total_price NUMERIC NOT NULL,
  status TEXT NOT NULL DEFAULT 'pending',
  observations TEXT,
  is_active INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`
	for _, ddl := range []string{listings, purchases} {
		require.NoError(t, conn.Exec(ddl).Error)
	}
	return conn
}

func seedListing(t *testing.T, conn *gorm.DB, sellerID uuid.UUID, title string, price float64) *models.Listing {
	t.Helper()

	listing := &models.Listing{
		ID:           uuid.New(),
		SellerID:     sellerID,
		CategoryID:   uuid.New(),
		Title:        title,
		Description:  "description of " + title,
		Price:        decimal.NewFromFloat(price),
		AvailableQty: 100,
		IsActive:     true,
	}
	require.NoError(t, conn.Create(listing).Error)
	return listing
}

func seedPurchase(t *testing.T, conn *gorm.DB, listing *models.Listing, buyerID uuid.UUID, qty int, status enums.PurchaseStatus, created time.Time) *models.Purchase {
	t.Helper()

	unit := listing.Price
	purchase := &models.Purchase{
		ID:         uuid.New(),
		ListingID:  listing.ID,
		BuyerID:    buyerID,
		SellerID:   listing.SellerID,
		Quantity:   qty,
		UnitPrice:  unit,
		TotalPrice: unit.Mul(decimal.NewFromInt(int64(qty))),
		Status:     status,
		IsActive:   true,
		CreatedAt:  created,
		UpdatedAt:  created,
	}
	require.NoError(t, conn.Create(purchase).Error)
	return purchase
}

func TestRepositorySummaryAndByStatus(t *testing.T) {
	conn := setupReportsTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	seller := uuid.New()
	buyer := uuid.New()
	listing := seedListing(t, conn, seller, "Widget", 10)

	now := time.Now()
	seedPurchase(t, conn, listing, buyer, 2, enums.PurchaseStatusPending, now.Add(-3*time.Hour))
	seedPurchase(t, conn, listing, buyer, 1, enums.PurchaseStatusDelivered, now.Add(-2*time.Hour))
	seedPurchase(t, conn, listing, buyer, 3, enums.PurchaseStatusDelivered, now.Add(-time.Hour))

	inactive := seedPurchase(t, conn, listing, buyer, 5, enums.PurchaseStatusPending, now)
	require.NoError(t, conn.Exec("UPDATE purchases SET is_active = 0 WHERE id = ?", inactive.ID).Error)

	count, total, err := repo.Summary(ctx, SideBuyer, buyer)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
	assert.True(t, total.Equal(decimal.NewFromInt(60)), "got total %s", total)

	lines, err := repo.ByStatus(ctx, SideBuyer, buyer)
	require.NoError(t, err)
	require.Len(t, lines, 2)
	assert.Equal(t, "delivered", lines[0].Status)
	assert.Equal(t, int64(2), lines[0].Count)
	assert.True(t, lines[0].Total.Equal(decimal.NewFromInt(40)))
	assert.Equal(t, "pending", lines[1].Status)
	assert.Equal(t, int64(1), lines[1].Count)

	sellerCount, _, err := repo.Summary(ctx, SideSeller, seller)
	require.NoError(t, err)
	assert.Equal(t, int64(3), sellerCount)

	otherCount, otherTotal, err := repo.Summary(ctx, SideBuyer, uuid.New())
	require.NoError(t, err)
	assert.Zero(t, otherCount)
	assert.True(t, otherTotal.IsZero())
}

func TestRepositoryRecentLimit(t *testing.T) {
	conn := setupReportsTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	seller := uuid.New()
	buyer := uuid.New()
	listing := seedListing(t, conn, seller, "Widget", 10)

	now := time.Now()
	for i := 0; i < 12; i++ {
		seedPurchase(t, conn, listing, buyer, 1, enums.PurchaseStatusPending, now.Add(time.Duration(-i)*time.Minute))
	}

	recent, err := repo.Recent(ctx, SideBuyer, buyer, 10)
	require.NoError(t, err)
	require.Len(t, recent, 10)
	assert.Equal(t, "Widget", recent[0].ListingTitle)
	assert.True(t, recent[0].CreatedAt.After(recent[9].CreatedAt))
}

func TestRepositoryTopProducts(t *testing.T) {
	conn := setupReportsTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	seller := uuid.New()
	buyer := uuid.New()
	now := time.Now()

	slow := seedListing(t, conn, seller, "Slow Seller", 100)
	fast := seedListing(t, conn, seller, "Fast Seller", 5)
	seedPurchase(t, conn, slow, buyer, 1, enums.PurchaseStatusDelivered, now.Add(-time.Hour))
	seedPurchase(t, conn, fast, buyer, 4, enums.PurchaseStatusDelivered, now.Add(-2*time.Hour))
	seedPurchase(t, conn, fast, buyer, 3, enums.PurchaseStatusPending, now.Add(-3*time.Hour))

	top, err := repo.TopProducts(ctx, seller, 5)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, "Fast Seller", top[0].ListingTitle)
	assert.Equal(t, int64(7), top[0].UnitsSold)
	assert.True(t, top[0].Revenue.Equal(decimal.NewFromInt(35)), "got revenue %s", top[0].Revenue)
	assert.Equal(t, "Slow Seller", top[1].ListingTitle)
}

func TestServiceSalesReportShape(t *testing.T) {
	conn := setupReportsTestDB(t)
	svc, err := NewService(NewRepository(conn))
	require.NoError(t, err)
	ctx := context.Background()

	seller := uuid.New()
	buyer := uuid.New()
	listing := seedListing(t, conn, seller, "Widget", 10)
	seedPurchase(t, conn, listing, buyer, 2, enums.PurchaseStatusPending, time.Now())

	report, err := svc.SalesReport(ctx, seller)
	require.NoError(t, err)
	assert.Equal(t, int64(1), report.Count)
	assert.True(t, report.Total.Equal(decimal.NewFromInt(20)))
	require.Len(t, report.ByStatus, 1)
	require.Len(t, report.Recent, 1)
	require.Len(t, report.TopProducts, 1)

	empty, err := svc.PurchaseReport(ctx, seller)
	require.NoError(t, err)
	assert.Zero(t, empty.Count)
	assert.Empty(t, empty.Recent)
}
