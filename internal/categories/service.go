package categories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/vivomercado/backend/pkg/db"
	"github.com/vivomercado/backend/pkg/db/models"
	pkgerrors "github.com/vivomercado/backend/pkg/errors"
	"gorm.io/gorm"
)

type seedCategory struct {
	name        string
	description string
}

// defaultCategories is the catalog seeded into an empty table at startup.
var defaultCategories = []seedCategory{
	{"Eletrônicos", "Smartphones, notebooks, tablets, acessórios eletrônicos e gadgets"},
	{"Roupas e Acessórios", "Roupas masculinas, femininas, infantis, calçados e acessórios de moda"},
	{"Casa e Jardim", "Móveis, decoração, eletrodomésticos, ferramentas e itens para jardim"},
	{"Esportes e Lazer", "Equipamentos esportivos, bicicletas, jogos e artigos de lazer"},
	{"Livros e Educação", "Livros físicos e digitais, materiais educativos e cursos"},
	{"Veículos", "Carros, motos, bicicletas e acessórios automotivos"},
	{"Beleza e Saúde", "Cosméticos, produtos de beleza, suplementos e equipamentos de saúde"},
	{"Música e Instrumentos", "Instrumentos musicais, equipamentos de som e acessórios musicais"},
}

type service struct {
	repo Repository
}

// NewService builds a categories service.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("categories repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) List(ctx context.Context) ([]models.Category, error) {
	categories, err := s.repo.ListActive(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list categories")
	}
	return categories, nil
}

func (s *service) Create(ctx context.Context, input CreateCategoryInput) (*models.Category, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "category name required")
	}

	category, err := s.repo.Create(ctx, &models.Category{
		Name:        name,
		Description: input.Description,
		IsActive:    true,
	})
	if err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "category name already in use")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create category")
	}
	return category, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateCategoryInput) (*models.Category, error) {
	category, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "category name required")
		}
		updates["name"] = name
	}
	if input.Description != nil {
		updates["description"] = *input.Description
	}
	if len(updates) == 0 {
		return category, nil
	}

	if err := s.repo.Update(ctx, category.ID, updates); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "category name already in use")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update category")
	}
	return s.load(ctx, category.ID)
}

// Deactivate refuses while active listings still reference the category.
func (s *service) Deactivate(ctx context.Context, id uuid.UUID) error {
	category, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if !category.IsActive {
		return nil
	}

	listings, err := s.repo.CountActiveListings(ctx, category.ID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count category listings")
	}
	if listings > 0 {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "category still has active listings").
			WithDetails(map[string]any{"active_listings": listings})
	}

	if err := s.repo.Update(ctx, category.ID, map[string]any{"is_active": false}); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "deactivate category")
	}
	return nil
}

// Seed inserts the default catalog when the table is empty. Reruns are
// no-ops, so startup can call it unconditionally.
func (s *service) Seed(ctx context.Context) error {
	count, err := s.repo.CountAll(ctx)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count categories")
	}
	if count > 0 {
		return nil
	}

	for _, seed := range defaultCategories {
		description := seed.description
		_, err := s.repo.Create(ctx, &models.Category{
			Name:        seed.name,
			Description: &description,
			IsActive:    true,
		})
		if err != nil && !db.IsUniqueViolation(err, "") {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "seed categories")
		}
	}
	return nil
}

func (s *service) load(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "category id required")
	}
	category, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load category")
	}
	return category, nil
}
