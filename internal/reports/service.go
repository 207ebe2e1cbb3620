package reports

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	pkgerrors "github.com/vivomercado/backend/pkg/errors"
)

const (
	recentTradeLimit = 10
	topProductLimit  = 5
)

type service struct {
	repo Repository
}

// NewService builds a reports service.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("reports repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) PurchaseReport(ctx context.Context, buyerID uuid.UUID) (*PurchaseReport, error) {
	if buyerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}

	count, total, err := s.repo.Summary(ctx, SideBuyer, buyerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "purchase summary")
	}
	byStatus, err := s.repo.ByStatus(ctx, SideBuyer, buyerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "purchase status breakdown")
	}
	recent, err := s.repo.Recent(ctx, SideBuyer, buyerID, recentTradeLimit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "recent purchases")
	}

	return &PurchaseReport{
		Count:    count,
		Total:    total,
		ByStatus: byStatus,
		Recent:   recent,
	}, nil
}

func (s *service) SalesReport(ctx context.Context, sellerID uuid.UUID) (*SalesReport, error) {
	if sellerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}

	count, total, err := s.repo.Summary(ctx, SideSeller, sellerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sales summary")
	}
	byStatus, err := s.repo.ByStatus(ctx, SideSeller, sellerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sales status breakdown")
	}
	recent, err := s.repo.Recent(ctx, SideSeller, sellerID, recentTradeLimit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "recent sales")
	}
	top, err := s.repo.TopProducts(ctx, sellerID, topProductLimit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "top products")
	}

	return &SalesReport{
		Count:       count,
		Total:       total,
		ByStatus:    byStatus,
		Recent:      recent,
		TopProducts: top,
	}, nil
}
