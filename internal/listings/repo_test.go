package listings

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
	"github.com/vivomercado/backend/pkg/pagination"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupListingsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	users := `
CREATE TABLE IF NOT EXISTS users (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  email TEXT NOT NULL UNIQUE,
  password_hash TEXT NOT NULL,
  phone TEXT,
  address TEXT,
  role TEXT NOT NULL DEFAULT 'member',
  is_active INTEGER NOT NULL DEFAULT 1,
  last_login_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`
	categories := `
CREATE TABLE IF NOT EXISTS categories (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL UNIQUE,
  description TEXT,
  is_active INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME
);`
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
	questions := `
CREATE TABLE IF NOT EXISTS questions (
  id TEXT PRIMARY KEY,
  listing_id TEXT NOT NULL,
  author_id TEXT NOT NULL,
  body TEXT NOT NULL,
  is_active INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`
	answers := `
CREATE TABLE IF NOT EXISTS answers (
  id TEXT PRIMARY KEY,
  question_id TEXT NOT NULL UNIQUE,
  author_id TEXT NOT NULL,
  body TEXT NOT NULL,
  is_active INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`
	favorites := `
CREATE TABLE IF NOT EXISTS favorites (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  listing_id TEXT NOT NULL,
  created_at DATETIME,
  UNIQUE (user_id, listing_id)
);`
	for _, ddl := range []string{users, categories, listings, questions, answers, favorites} {
		require.NoError(t, db.Exec(ddl).Error)
	}
	return db
}

func newUser(t *testing.T, db *gorm.DB, name string) *models.User {
	t.Helper()

	user := &models.User{
		ID:           uuid.New(),
		Name:         name,
		Email:        name + "@example.com",
		PasswordHash: "hash",
		Role:         enums.UserRoleMember,
		IsActive:     true,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func newCategory(t *testing.T, db *gorm.DB, name string) *models.Category {
	t.Helper()

	category := &models.Category{
		ID:       uuid.New(),
		Name:     name,
		IsActive: true,
	}
	require.NoError(t, db.Create(category).Error)
	return category
}

func newListing(t *testing.T, db *gorm.DB, seller *models.User, category *models.Category, title string, qty int, created time.Time) *models.Listing {
	t.Helper()

	listing := &models.Listing{
		ID:           uuid.New(),
		SellerID:     seller.ID,
		CategoryID:   category.ID,
		Title:        title,
		Description:  "description of " + title,
		Price:        decimal.NewFromFloat(19.90),
		AvailableQty: qty,
		IsActive:     true,
		CreatedAt:    created,
		UpdatedAt:    created,
	}
	require.NoError(t, db.Create(listing).Error)
	return listing
}

func TestRepositorySearch_pagination(t *testing.T) {
	db := setupListingsTestDB(t)
	repo := NewRepository(db)

	seller := newUser(t, db, "seller")
	category := newCategory(t, db, "Eletrônicos")

	now := time.Now().UTC()
	newListing(t, db, seller, category, "Old Radio", 1, now.Add(-2*time.Hour))
	newListing(t, db, seller, category, "Mid Phone", 1, now.Add(-time.Hour))
	newListing(t, db, seller, category, "New Laptop", 1, now)

	page, err := repo.Search(context.Background(), SearchFilters{}, pagination.Params{Limit: 2})
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	assert.Equal(t, "New Laptop", page.Items[0].Title)
	assert.Equal(t, "Mid Phone", page.Items[1].Title)
	assert.Equal(t, "seller", page.Items[0].SellerName)
	assert.Equal(t, "Eletrônicos", page.Items[0].CategoryName)
	require.NotEmpty(t, page.NextCursor)

	second, err := repo.Search(context.Background(), SearchFilters{}, pagination.Params{Limit: 2, Cursor: page.NextCursor})
	require.NoError(t, err)
	require.Len(t, second.Items, 1)
	assert.Equal(t, "Old Radio", second.Items[0].Title)
	assert.Empty(t, second.NextCursor)
}

func TestRepositorySearch_filters(t *testing.T) {
	db := setupListingsTestDB(t)
	repo := NewRepository(db)

	seller := newUser(t, db, "seller")
	electronics := newCategory(t, db, "Eletrônicos")
	furniture := newCategory(t, db, "Móveis")

	now := time.Now().UTC()
	newListing(t, db, seller, electronics, "Gaming Laptop", 1, now.Add(-time.Minute))
	newListing(t, db, seller, furniture, "Wooden Chair", 1, now)
	inactive := newListing(t, db, seller, electronics, "Broken Laptop", 1, now)
	require.NoError(t, db.Model(&models.Listing{}).Where("id = ?", inactive.ID).Update("is_active", false).Error)

	byText, err := repo.Search(context.Background(), SearchFilters{Query: "LAPTOP"}, pagination.Params{})
	require.NoError(t, err)
	require.Len(t, byText.Items, 1)
	assert.Equal(t, "Gaming Laptop", byText.Items[0].Title)

	byCategory, err := repo.Search(context.Background(), SearchFilters{CategoryID: &furniture.ID}, pagination.Params{})
	require.NoError(t, err)
	require.Len(t, byCategory.Items, 1)
	assert.Equal(t, "Wooden Chair", byCategory.Items[0].Title)
}

func TestRepositoryFindDetail(t *testing.T) {
	db := setupListingsTestDB(t)
	repo := NewRepository(db)

	seller := newUser(t, db, "seller")
	viewer := newUser(t, db, "viewer")
	category := newCategory(t, db, "Livros e Educação")
	listing := newListing(t, db, seller, category, "Algorithms Book", 3, time.Now().UTC())

	question := &models.Question{
		ID:        uuid.New(),
		ListingID: listing.ID,
		AuthorID:  viewer.ID,
		Body:      "Is it the latest edition?",
		IsActive:  true,
	}
	require.NoError(t, db.Create(question).Error)
	answer := &models.Answer{
		ID:         uuid.New(),
		QuestionID: question.ID,
		AuthorID:   seller.ID,
		Body:       "Yes, fourth edition.",
		IsActive:   true,
	}
	require.NoError(t, db.Create(answer).Error)
	require.NoError(t, db.Create(&models.Favorite{
		ID:        uuid.New(),
		UserID:    viewer.ID,
		ListingID: listing.ID,
	}).Error)

	detail, err := repo.FindDetail(context.Background(), listing.ID, viewer.ID)
	require.NoError(t, err)
	assert.Equal(t, "Algorithms Book", detail.Title)
	assert.Equal(t, "seller", detail.SellerName)
	assert.True(t, detail.Favorited)
	require.Len(t, detail.Questions, 1)
	assert.Equal(t, "viewer", detail.Questions[0].AuthorName)
	require.NotNil(t, detail.Questions[0].Answer)
	assert.Equal(t, "Yes, fourth edition.", detail.Questions[0].Answer.Body)

	other, err := repo.FindDetail(context.Background(), listing.ID, seller.ID)
	require.NoError(t, err)
	assert.False(t, other.Favorited)
}

func TestRepositoryDeactivateBySeller(t *testing.T) {
	db := setupListingsTestDB(t)
	repo := NewRepository(db)

	seller := newUser(t, db, "seller")
	other := newUser(t, db, "other")
	category := newCategory(t, db, "Outros")
	newListing(t, db, seller, category, "One", 1, time.Now().UTC())
	newListing(t, db, seller, category, "Two", 1, time.Now().UTC())
	kept := newListing(t, db, other, category, "Kept", 1, time.Now().UTC())

	require.NoError(t, repo.DeactivateBySeller(context.Background(), seller.ID))

	var activeCount int64
	require.NoError(t, db.Model(&models.Listing{}).Where("seller_id = ? AND is_active = ?", seller.ID, true).Count(&activeCount).Error)
	assert.Zero(t, activeCount)

	reloaded, err := repo.FindByID(context.Background(), kept.ID)
	require.NoError(t, err)
	assert.True(t, reloaded.IsActive)
}
