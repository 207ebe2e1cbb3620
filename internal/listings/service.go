package listings

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/vivomercado/backend/pkg/db/models"
	pkgerrors "github.com/vivomercado/backend/pkg/errors"
	"github.com/vivomercado/backend/pkg/pagination"
	"gorm.io/gorm"
)

// CategoryVerifier reports whether a category can take new listings.
type CategoryVerifier interface {
	ActiveExists(ctx context.Context, id uuid.UUID) (bool, error)
}

type service struct {
	repo       Repository
	categories CategoryVerifier
}

// NewService builds a listings service with the required dependencies.
func NewService(repo Repository, categories CategoryVerifier) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("listings repository required")
	}
	if categories == nil {
		return nil, fmt.Errorf("category verifier required")
	}
	return &service{
		repo:       repo,
		categories: categories,
	}, nil
}

func (s *service) Create(ctx context.Context, actorID uuid.UUID, input CreateListingInput) (*models.Listing, error) {
	if actorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if strings.TrimSpace(input.Title) == "" || strings.TrimSpace(input.Description) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "title and description are required")
	}
	if input.Price.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
	}
	if input.Quantity < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity cannot be negative")
	}
	if err := s.verifyCategory(ctx, input.CategoryID); err != nil {
		return nil, err
	}

	listing := &models.Listing{
		SellerID:     actorID,
		CategoryID:   input.CategoryID,
		Title:        strings.TrimSpace(input.Title),
		Description:  strings.TrimSpace(input.Description),
		Price:        input.Price,
		AvailableQty: input.Quantity,
		IsActive:     true,
	}
	created, err := s.repo.Create(ctx, listing)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create listing")
	}
	return created, nil
}

func (s *service) Update(ctx context.Context, actorID, listingID uuid.UUID, input UpdateListingInput) (*models.Listing, error) {
	listing, err := s.loadOwned(ctx, actorID, listingID)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if input.Title != nil {
		if strings.TrimSpace(*input.Title) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "title cannot be empty")
		}
		updates["title"] = strings.TrimSpace(*input.Title)
	}
	if input.Description != nil {
		if strings.TrimSpace(*input.Description) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "description cannot be empty")
		}
		updates["description"] = strings.TrimSpace(*input.Description)
	}
	if input.Price != nil {
		if input.Price.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
		}
		updates["price"] = *input.Price
	}
	if input.Quantity != nil {
		if *input.Quantity < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity cannot be negative")
		}
		updates["available_qty"] = *input.Quantity
	}
	if input.CategoryID != nil && *input.CategoryID != listing.CategoryID {
		if err := s.verifyCategory(ctx, *input.CategoryID); err != nil {
			return nil, err
		}
		updates["category_id"] = *input.CategoryID
	}

	if len(updates) == 0 {
		return listing, nil
	}

	if err := s.repo.Update(ctx, listing.ID, updates); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update listing")
	}

	updated, err := s.repo.FindByID(ctx, listing.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload listing")
	}
	return updated, nil
}

func (s *service) Deactivate(ctx context.Context, actorID, listingID uuid.UUID) error {
	listing, err := s.loadOwned(ctx, actorID, listingID)
	if err != nil {
		return err
	}
	if !listing.IsActive {
		return nil
	}
	if err := s.repo.Update(ctx, listing.ID, map[string]any{"is_active": false}); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "deactivate listing")
	}
	return nil
}

func (s *service) Search(ctx context.Context, filters SearchFilters, params pagination.Params) (*ListingPage, error) {
	page, err := s.repo.Search(ctx, filters, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "search listings")
	}
	return page, nil
}

func (s *service) Get(ctx context.Context, viewerID, listingID uuid.UUID) (*ListingDetail, error) {
	if listingID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "listing id required")
	}
	detail, err := s.repo.FindDetail(ctx, listingID, viewerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "listing not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load listing detail")
	}
	return detail, nil
}

func (s *service) ListMine(ctx context.Context, actorID uuid.UUID) ([]models.Listing, error) {
	if actorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	rows, err := s.repo.ListBySeller(ctx, actorID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list seller listings")
	}
	return rows, nil
}

func (s *service) loadOwned(ctx context.Context, actorID, listingID uuid.UUID) (*models.Listing, error) {
	if actorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if listingID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "listing id required")
	}
	listing, err := s.repo.FindByID(ctx, listingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "listing not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load listing")
	}
	if listing.SellerID != actorID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "listing does not belong to user")
	}
	return listing, nil
}

func (s *service) verifyCategory(ctx context.Context, categoryID uuid.UUID) error {
	if categoryID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "category id required")
	}
	ok, err := s.categories.ActiveExists(ctx, categoryID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "verify category")
	}
	if !ok {
		return pkgerrors.New(pkgerrors.CodeValidation, "category not found or inactive")
	}
	return nil
}
