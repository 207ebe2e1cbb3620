package users

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/vivomercado/backend/internal/listings"
	"github.com/vivomercado/backend/pkg/config"
	"github.com/vivomercado/backend/pkg/db"
	"github.com/vivomercado/backend/pkg/db/models"
	"github.com/vivomercado/backend/pkg/enums"
	pkgerrors "github.com/vivomercado/backend/pkg/errors"
	"github.com/vivomercado/backend/pkg/security"
	"gorm.io/gorm"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type service struct {
	repo        Repository
	tx          txRunner
	listings    ListingDeactivator
	sessions    SessionRevoker
	passwordCfg config.PasswordConfig
}

// NewService builds a users service with the required dependencies.
func NewService(repo Repository, tx txRunner, listings ListingDeactivator, sessions SessionRevoker, passwordCfg config.PasswordConfig) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("users repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if listings == nil {
		return nil, fmt.Errorf("listing deactivator required")
	}
	return &service{
		repo:        repo,
		tx:          tx,
		listings:    listings,
		sessions:    sessions,
		passwordCfg: passwordCfg,
	}, nil
}

func (s *service) Register(ctx context.Context, input RegisterInput) (*Profile, error) {
	name := strings.TrimSpace(input.Name)
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if name == "" || email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name and email required")
	}
	if len(input.Password) < 8 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "password must be at least 8 characters")
	}

	hash, err := security.HashPassword(input.Password, s.passwordCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	user, err := s.repo.Create(ctx, &models.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Phone:        input.Phone,
		Address:      input.Address,
		Role:         enums.UserRoleMember,
		IsActive:     true,
	})
	if err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create user")
	}

	profile := ToProfile(user)
	return &profile, nil
}

func (s *service) Get(ctx context.Context, actorID uuid.UUID) (*Profile, error) {
	user, err := s.loadActive(ctx, actorID)
	if err != nil {
		return nil, err
	}
	profile := ToProfile(user)
	return &profile, nil
}

func (s *service) UpdateProfile(ctx context.Context, actorID uuid.UUID, input UpdateProfileInput) (*Profile, error) {
	user, err := s.loadActive(ctx, actorID)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "name required")
		}
		updates["name"] = name
	}
	if input.Phone != nil {
		updates["phone"] = *input.Phone
	}
	if input.Address != nil {
		updates["address"] = *input.Address
	}

	if input.NewPassword != nil {
		if input.CurrentPassword == nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "current password required to change password")
		}
		ok, err := security.VerifyPassword(*input.CurrentPassword, user.PasswordHash)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
		}
		if !ok {
			return nil, pkgerrors.New(pkgerrors.CodeForbidden, "current password does not match")
		}
		if len(*input.NewPassword) < 8 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "password must be at least 8 characters")
		}
		hash, err := security.HashPassword(*input.NewPassword, s.passwordCfg)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
		}
		updates["password_hash"] = hash
	}

	if len(updates) > 0 {
		if err := s.repo.Update(ctx, user.ID, updates); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update user")
		}
		user, err = s.loadActive(ctx, actorID)
		if err != nil {
			return nil, err
		}
	}

	profile := ToProfile(user)
	return &profile, nil
}

// DeactivateAccount soft-deletes the user and all their listings in one
// transaction, then revokes the active session.
func (s *service) DeactivateAccount(ctx context.Context, actorID uuid.UUID, accessID string, input DeactivateAccountInput) error {
	user, err := s.loadActive(ctx, actorID)
	if err != nil {
		return err
	}

	ok, err := security.VerifyPassword(input.Password, user.PasswordHash)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if !ok {
		return pkgerrors.New(pkgerrors.CodeForbidden, "password does not match")
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.Update(ctx, user.ID, map[string]any{"is_active": false}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "deactivate user")
		}
		if err := s.listings.DeactivateBySeller(ctx, tx, user.ID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "deactivate listings")
		}
		return nil
	})
	if err != nil {
		return err
	}

	if s.sessions != nil && accessID != "" {
		if err := s.sessions.Revoke(ctx, accessID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "revoke session")
		}
	}
	return nil
}

func (s *service) ListUsers(ctx context.Context) ([]Profile, error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list users")
	}
	profiles := make([]Profile, 0, len(all))
	for i := range all {
		profiles = append(profiles, ToProfile(&all[i]))
	}
	return profiles, nil
}

func (s *service) loadActive(ctx context.Context, actorID uuid.UUID) (*models.User, error) {
	if actorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	user, err := s.repo.FindByID(ctx, actorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}
	if !user.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
	}
	return user, nil
}

type listingDeactivator struct {
	repo listings.Repository
}

// NewListingDeactivator adapts the listings repository for use inside the
// account deactivation transaction.
func NewListingDeactivator(repo listings.Repository) ListingDeactivator {
	return listingDeactivator{repo: repo}
}

func (d listingDeactivator) DeactivateBySeller(ctx context.Context, tx *gorm.DB, sellerID uuid.UUID) error {
	if tx == nil {
		return fmt.Errorf("transaction required")
	}
	return d.repo.WithTx(tx).DeactivateBySeller(ctx, sellerID)
}
