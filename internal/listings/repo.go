package listings

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/vivomercado/backend/pkg/db/models"
	"github.com/vivomercado/backend/pkg/pagination"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds a listings repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, listing *models.Listing) (*models.Listing, error) {
	if listing.ID == uuid.Nil {
		listing.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(listing).Error; err != nil {
		return nil, err
	}
	return listing, nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Listing, error) {
	var listing models.Listing
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&listing).Error
	if err != nil {
		return nil, err
	}
	return &listing, nil
}

func (r *repository) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.Listing{}).
		Where("id = ?", id).
		Updates(updates).
		Error
}

type listingSummaryRecord struct {
	ID           uuid.UUID       `gorm:"column:id"`
	SellerID     uuid.UUID       `gorm:"column:seller_id"`
	SellerName   string          `gorm:"column:seller_name"`
	CategoryID   uuid.UUID       `gorm:"column:category_id"`
	CategoryName string          `gorm:"column:category_name"`
	Title        string          `gorm:"column:title"`
	Price        decimal.Decimal `gorm:"column:price"`
	AvailableQty int             `gorm:"column:available_qty"`
	CreatedAt    time.Time       `gorm:"column:created_at"`
}

func (rec listingSummaryRecord) toDTO() ListingSummary {
	return ListingSummary{
		ID:           rec.ID,
		SellerID:     rec.SellerID,
		SellerName:   rec.SellerName,
		CategoryID:   rec.CategoryID,
		CategoryName: rec.CategoryName,
		Title:        rec.Title,
		Price:        rec.Price,
		AvailableQty: rec.AvailableQty,
		CreatedAt:    rec.CreatedAt,
	}
}

func (r *repository) Search(ctx context.Context, filters SearchFilters, params pagination.Params) (*ListingPage, error) {
	normalizedLimit := pagination.NormalizeLimit(params.Limit)
	limitWithBuffer := pagination.LimitWithBuffer(params.Limit)
	decodedCursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, err
	}

	query := r.db.WithContext(ctx).
		Table("listings l").
		Select(strings.Join([]string{
			"l.id",
			"l.seller_id",
			"u.name AS seller_name",
			"l.category_id",
			"c.name AS category_name",
			"l.title",
			"l.price",
			"l.available_qty",
			"l.created_at",
		}, ", ")).
		Joins("JOIN users u ON u.id = l.seller_id").
		Joins("JOIN categories c ON c.id = l.category_id").
		Where("l.is_active = ?", true)

	if filters.CategoryID != nil {
		query = query.Where("l.category_id = ?", *filters.CategoryID)
	}
	if term := strings.TrimSpace(filters.Query); term != "" {
		like := "%" + strings.ToLower(term) + "%"
		query = query.Where("LOWER(l.title) LIKE ? OR LOWER(l.description) LIKE ?", like, like)
	}
	if decodedCursor != nil {
		query = query.Where("(l.created_at < ?) OR (l.created_at = ? AND l.id < ?)", decodedCursor.CreatedAt, decodedCursor.CreatedAt, decodedCursor.ID)
	}

	query = query.Order("l.created_at DESC").Order("l.id DESC").Limit(limitWithBuffer)

	var records []listingSummaryRecord
	if err := query.Scan(&records).Error; err != nil {
		return nil, err
	}

	resultRows := records
	nextCursor := ""
	if len(records) > normalizedLimit {
		resultRows = records[:normalizedLimit]
		last := resultRows[len(resultRows)-1]
		nextCursor = pagination.EncodeCursor(pagination.Cursor{
			CreatedAt: last.CreatedAt,
			ID:        last.ID,
		})
	}

	items := make([]ListingSummary, 0, len(resultRows))
	for _, record := range resultRows {
		items = append(items, record.toDTO())
	}

	return &ListingPage{
		Items:      items,
		NextCursor: nextCursor,
	}, nil
}

func (r *repository) ListBySeller(ctx context.Context, sellerID uuid.UUID) ([]models.Listing, error) {
	var rows []models.Listing
	err := r.db.WithContext(ctx).
		Where("seller_id = ?", sellerID).
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

type listingDetailRecord struct {
	listingSummaryRecord
	Description string    `gorm:"column:description"`
	IsActive    bool      `gorm:"column:is_active"`
	UpdatedAt   time.Time `gorm:"column:updated_at"`
	Favorited   bool      `gorm:"column:favorited"`
}

type questionThreadRecord struct {
	ID              uuid.UUID  `gorm:"column:id"`
	AuthorID        uuid.UUID  `gorm:"column:author_id"`
	AuthorName      string     `gorm:"column:author_name"`
	Body            string     `gorm:"column:body"`
	CreatedAt       time.Time  `gorm:"column:created_at"`
	AnswerID        *uuid.UUID `gorm:"column:answer_id"`
	AnswerBody      *string    `gorm:"column:answer_body"`
	AnswerCreatedAt *time.Time `gorm:"column:answer_created_at"`
}

func (r *repository) FindDetail(ctx context.Context, id, viewerID uuid.UUID) (*ListingDetail, error) {
	var head listingDetailRecord
	err := r.db.WithContext(ctx).
		Table("listings l").
		Select(strings.Join([]string{
			"l.id",
			"l.seller_id",
			"u.name AS seller_name",
			"l.category_id",
			"c.name AS category_name",
			"l.title",
			"l.description",
			"l.price",
			"l.available_qty",
			"l.is_active",
			"l.created_at",
			"l.updated_at",
			"EXISTS (SELECT 1 FROM favorites f WHERE f.listing_id = l.id AND f.user_id = ?) AS favorited",
		}, ", "), viewerID).
		Joins("JOIN users u ON u.id = l.seller_id").
		Joins("JOIN categories c ON c.id = l.category_id").
		Where("l.id = ?", id).
		Take(&head).Error
	if err != nil {
		return nil, err
	}

	var threads []questionThreadRecord
	err = r.db.WithContext(ctx).
		Table("questions q").
		Select(strings.Join([]string{
			"q.id",
			"q.author_id",
			"u.name AS author_name",
			"q.body",
			"q.created_at",
			"a.id AS answer_id",
			"a.body AS answer_body",
			"a.created_at AS answer_created_at",
		}, ", ")).
		Joins("JOIN users u ON u.id = q.author_id").
		Joins("LEFT JOIN answers a ON a.question_id = q.id AND a.is_active = ?", true).
		Where("q.listing_id = ? AND q.is_active = ?", id, true).
		Order("q.created_at ASC").
		Scan(&threads).Error
	if err != nil {
		return nil, err
	}

	questions := make([]QuestionThreadEntry, 0, len(threads))
	for _, row := range threads {
		entry := QuestionThreadEntry{
			ID:         row.ID,
			AuthorID:   row.AuthorID,
			AuthorName: row.AuthorName,
			Body:       row.Body,
			CreatedAt:  row.CreatedAt,
		}
		if row.AnswerID != nil {
			entry.Answer = &AnswerThreadEntry{
				ID:        *row.AnswerID,
				Body:      derefString(row.AnswerBody),
				CreatedAt: derefTime(row.AnswerCreatedAt),
			}
		}
		questions = append(questions, entry)
	}

	return &ListingDetail{
		ListingSummary: head.toDTO(),
		Description:    head.Description,
		IsActive:       head.IsActive,
		UpdatedAt:      head.UpdatedAt,
		Favorited:      head.Favorited,
		Questions:      questions,
	}, nil
}

func (r *repository) DeactivateBySeller(ctx context.Context, sellerID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.Listing{}).
		Where("seller_id = ? AND is_active = ?", sellerID, true).
		Updates(map[string]any{"is_active": false}).
		Error
}

func derefString(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}

func derefTime(value *time.Time) time.Time {
	if value == nil {
		return time.Time{}
	}
	return *value
}
