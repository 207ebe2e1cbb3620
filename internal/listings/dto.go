package listings

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateListingInput carries the fields a seller submits for a new listing.
type CreateListingInput struct {
	CategoryID  uuid.UUID       `json:"category_id" validate:"required"`
	Title       string          `json:"title" validate:"required,min=3,max=120"`
	Description string          `json:"description" validate:"required,min=3"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity" validate:"min=0"`
}

// UpdateListingInput carries the optional fields an owner may change.
type UpdateListingInput struct {
	CategoryID  *uuid.UUID       `json:"category_id"`
	Title       *string          `json:"title" validate:"omitempty,min=3,max=120"`
	Description *string          `json:"description" validate:"omitempty,min=3"`
	Price       *decimal.Decimal `json:"price"`
	Quantity    *int             `json:"quantity" validate:"omitempty,min=0"`
}

// SearchFilters narrows the public listing feed.
type SearchFilters struct {
	CategoryID *uuid.UUID
	Query      string
}

// ListingSummary is the feed row shape with joined display names.
type ListingSummary struct {
	ID           uuid.UUID       `json:"id"`
	SellerID     uuid.UUID       `json:"seller_id"`
	SellerName   string          `json:"seller_name"`
	CategoryID   uuid.UUID       `json:"category_id"`
	CategoryName string          `json:"category_name"`
	Title        string          `json:"title"`
	Price        decimal.Decimal `json:"price"`
	AvailableQty int             `json:"available_qty"`
	CreatedAt    time.Time       `json:"created_at"`
}

// ListingPage is one cursor page of the feed.
type ListingPage struct {
	Items      []ListingSummary `json:"items"`
	NextCursor string           `json:"next_cursor,omitempty"`
}

// QuestionThreadEntry is one question (plus its answer, when present) on the
// listing detail page.
type QuestionThreadEntry struct {
	ID         uuid.UUID          `json:"id"`
	AuthorID   uuid.UUID          `json:"author_id"`
	AuthorName string             `json:"author_name"`
	Body       string             `json:"body"`
	CreatedAt  time.Time          `json:"created_at"`
	Answer     *AnswerThreadEntry `json:"answer,omitempty"`
}

// AnswerThreadEntry is the seller's reply inside a question thread.
type AnswerThreadEntry struct {
	ID        uuid.UUID `json:"id"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

// ListingDetail is the full listing view for a single page.
type ListingDetail struct {
	ListingSummary
	Description string                `json:"description"`
	IsActive    bool                  `json:"is_active"`
	UpdatedAt   time.Time             `json:"updated_at"`
	Favorited   bool                  `json:"favorited"`
	Questions   []QuestionThreadEntry `json:"questions"`
}
