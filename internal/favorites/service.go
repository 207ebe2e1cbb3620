package favorites

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/vivomercado/backend/pkg/db/models"
	pkgerrors "github.com/vivomercado/backend/pkg/errors"
	"gorm.io/gorm"
)

type service struct {
	repo     Repository
	listings ListingSource
}

// NewService builds a favorites service with the required dependencies.
func NewService(repo Repository, listings ListingSource) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("favorites repository required")
	}
	if listings == nil {
		return nil, fmt.Errorf("listing source required")
	}
	return &service{repo: repo, listings: listings}, nil
}

// Toggle flips the favorite state for the given listing. The insert relies
// on the unique (user_id, listing_id) index, so concurrent toggles of the
// same pair resolve to one row at most.
func (s *service) Toggle(ctx context.Context, actorID, listingID uuid.UUID) (*ToggleResult, error) {
	if actorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if listingID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "listing id required")
	}

	listing, err := s.listings.FindByID(ctx, listingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "listing not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load listing")
	}
	if !listing.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "listing not found")
	}

	inserted, err := s.repo.Insert(ctx, &models.Favorite{UserID: actorID, ListingID: listing.ID})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "insert favorite")
	}
	if inserted {
		return &ToggleResult{ListingID: listing.ID, Favorited: true}, nil
	}

	if _, err := s.repo.DeleteByPair(ctx, actorID, listing.ID); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete favorite")
	}
	return &ToggleResult{ListingID: listing.ID, Favorited: false}, nil
}

func (s *service) Remove(ctx context.Context, actorID, favoriteID uuid.UUID) error {
	if actorID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if favoriteID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "favorite id required")
	}

	favorite, err := s.repo.FindByID(ctx, favoriteID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "favorite not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load favorite")
	}
	if favorite.UserID != actorID {
		return pkgerrors.New(pkgerrors.CodeForbidden, "favorite does not belong to user")
	}

	if err := s.repo.Delete(ctx, favorite.ID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete favorite")
	}
	return nil
}

func (s *service) List(ctx context.Context, actorID uuid.UUID) ([]FavoriteRow, error) {
	if actorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	rows, err := s.repo.ListByUser(ctx, actorID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list favorites")
	}
	return rows, nil
}
