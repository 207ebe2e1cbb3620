package purchases

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/vivomercado/backend/pkg/db/models"
	"github.com/vivomercado/backend/pkg/enums"
	pkgerrors "github.com/vivomercado/backend/pkg/errors"
	"github.com/vivomercado/backend/pkg/metrics"
	"gorm.io/gorm"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type service struct {
	repo               Repository
	tx                 txRunner
	stock              StockAdjuster
	listings           ListingReader
	metrics            *metrics.PurchaseMetrics
	enforceTransitions bool
}

// NewService builds a purchases service with the required dependencies.
func NewService(repo Repository, tx txRunner, stock StockAdjuster, listings ListingReader, pm *metrics.PurchaseMetrics, enforceTransitions bool) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("purchases repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if stock == nil {
		return nil, fmt.Errorf("stock adjuster required")
	}
	if listings == nil {
		return nil, fmt.Errorf("listing reader required")
	}
	return &service{
		repo:               repo,
		tx:                 tx,
		stock:              stock,
		listings:           listings,
		metrics:            pm,
		enforceTransitions: enforceTransitions,
	}, nil
}

func (s *service) Create(ctx context.Context, actorID uuid.UUID, input CreatePurchaseInput) (*models.Purchase, error) {
	if actorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if input.ListingID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "listing id required")
	}
	if input.Quantity < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}

	var purchase *models.Purchase
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		listing, err := s.listings.Find(ctx, tx, input.ListingID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "listing not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load listing")
		}
		if !listing.IsActive {
			return pkgerrors.New(pkgerrors.CodeNotFound, "listing not found")
		}
		if listing.SellerID == actorID {
			return pkgerrors.New(pkgerrors.CodeSelfTrade, "cannot purchase your own listing")
		}

		decremented, err := s.stock.Decrement(ctx, tx, listing.ID, input.Quantity)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decrement stock")
		}
		if !decremented {
			s.metrics.IncStockConflict()
			return pkgerrors.New(pkgerrors.CodeInsufficientStock, "requested quantity is not available").
				WithDetails(map[string]any{"available_qty": listing.AvailableQty})
		}

		unitPrice := listing.Price
		row := &models.Purchase{
			ListingID:  listing.ID,
			BuyerID:    actorID,
			SellerID:   listing.SellerID,
			Quantity:   input.Quantity,
			UnitPrice:  unitPrice,
			TotalPrice: unitPrice.Mul(decimal.NewFromInt(int64(input.Quantity))),
			Status:     enums.PurchaseStatusPending,
			IsActive:   true,
		}
		created, err := s.repo.WithTx(tx).Create(ctx, row)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create purchase")
		}
		purchase = created
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.IncPurchase(enums.PurchaseStatusPending.String())
	return purchase, nil
}

func (s *service) UpdateStatus(ctx context.Context, actorID, purchaseID uuid.UUID, input UpdateStatusInput) (*models.Purchase, error) {
	purchase, err := s.load(ctx, actorID, purchaseID)
	if err != nil {
		return nil, err
	}
	if purchase.SellerID != actorID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only the seller can update purchase status")
	}

	target, err := enums.ParsePurchaseStatus(input.Status)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid purchase status")
	}
	if target == purchase.Status && input.Observations == nil {
		return purchase, nil
	}
	if target != purchase.Status && s.enforceTransitions && !purchase.Status.CanTransitionTo(target) {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "status transition disallowed").
			WithDetails(map[string]any{"from": purchase.Status, "to": target})
	}

	ok, err := s.repo.UpdateStatus(ctx, purchase.ID, purchase.Status, target, input.Observations)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update purchase status")
	}
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "purchase status changed concurrently").
			WithDetails(map[string]any{"expected": purchase.Status, "to": target})
	}

	changed := target != purchase.Status
	purchase.Status = target
	if input.Observations != nil {
		purchase.Observations = input.Observations
	}
	if changed {
		s.metrics.IncPurchase(target.String())
	}
	return purchase, nil
}

func (s *service) Cancel(ctx context.Context, actorID, purchaseID uuid.UUID, reason string) (*models.Purchase, error) {
	if actorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if purchaseID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "purchase id required")
	}

	observations := "Cancelled"
	if reason != "" {
		observations = "Cancelled: " + reason
	}

	var purchase *models.Purchase
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		row, err := repo.FindByID(ctx, purchaseID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "purchase not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load purchase")
		}
		if row.BuyerID != actorID && row.SellerID != actorID {
			return pkgerrors.New(pkgerrors.CodeForbidden, "purchase does not belong to user")
		}

		cancelled, err := repo.CancelPending(ctx, row.ID, observations)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "cancel purchase")
		}
		if !cancelled {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "only pending purchases can be cancelled").
				WithDetails(map[string]any{"status": row.Status})
		}

		// Restore skips listings that were deactivated in the meantime.
		if err := s.stock.Restore(ctx, tx, row.ListingID, row.Quantity); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "restore stock")
		}

		row.Status = enums.PurchaseStatusCancelled
		row.Observations = &observations
		purchase = row
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.IncPurchase(enums.PurchaseStatusCancelled.String())
	return purchase, nil
}

func (s *service) Get(ctx context.Context, actorID, purchaseID uuid.UUID) (*models.Purchase, error) {
	purchase, err := s.load(ctx, actorID, purchaseID)
	if err != nil {
		return nil, err
	}
	if purchase.BuyerID != actorID && purchase.SellerID != actorID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "purchase does not belong to user")
	}
	return purchase, nil
}

func (s *service) ListPurchases(ctx context.Context, actorID uuid.UUID) ([]PurchaseRow, error) {
	if actorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	rows, err := s.repo.ListByBuyer(ctx, actorID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list purchases")
	}
	return rows, nil
}

func (s *service) ListSales(ctx context.Context, actorID uuid.UUID) ([]PurchaseRow, error) {
	if actorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	rows, err := s.repo.ListBySeller(ctx, actorID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list sales")
	}
	return rows, nil
}

func (s *service) load(ctx context.Context, actorID, purchaseID uuid.UUID) (*models.Purchase, error) {
	if actorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if purchaseID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "purchase id required")
	}
	purchase, err := s.repo.FindByID(ctx, purchaseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "purchase not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load purchase")
	}
	return purchase, nil
}

type stockAdjusterImpl struct{}

// NewStockAdjuster exposes the default conditional-update stock implementation.
func NewStockAdjuster() StockAdjuster {
	return stockAdjusterImpl{}
}

func (stockAdjusterImpl) Decrement(ctx context.Context, tx *gorm.DB, listingID uuid.UUID, qty int) (bool, error) {
	if qty <= 0 {
		return false, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}
	if tx == nil {
		return false, pkgerrors.New(pkgerrors.CodeDependency, "transaction required for stock decrement")
	}

	res := tx.WithContext(ctx).Exec(`
		UPDATE listings
		SET available_qty = available_qty - ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND is_active = ? AND available_qty >= ?
	`, qty, listingID, true, qty)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (stockAdjusterImpl) Restore(ctx context.Context, tx *gorm.DB, listingID uuid.UUID, qty int) error {
	if qty <= 0 {
		return nil
	}
	if tx == nil {
		return pkgerrors.New(pkgerrors.CodeDependency, "transaction required for stock restore")
	}

	res := tx.WithContext(ctx).Exec(`
		UPDATE listings
		SET available_qty = available_qty + ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND is_active = ?
	`, qty, listingID, true)
	return res.Error
}

type listingReaderImpl struct{}

// NewListingReader exposes the default transactional listing lookup.
func NewListingReader() ListingReader {
	return listingReaderImpl{}
}

func (listingReaderImpl) Find(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*models.Listing, error) {
	if tx == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "transaction required for listing lookup")
	}
	var listing models.Listing
	err := tx.WithContext(ctx).
		Where("id = ?", id).
		First(&listing).Error
	if err != nil {
		return nil, err
	}
	return &listing, nil
}
