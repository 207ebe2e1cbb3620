package models

import (
	"time"

	"github.com/google/uuid"
)

// Question is asked on a listing by a user other than its seller. A question
// carries at most one active answer.
type Question struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ListingID uuid.UUID `gorm:"column:listing_id;type:uuid;not null;index:questions_listing_id_idx"`
	AuthorID  uuid.UUID `gorm:"column:author_id;type:uuid;not null;index:questions_author_id_idx"`
	Body      string    `gorm:"column:body;not null"`
	IsActive  bool      `gorm:"column:is_active;not null;default:true"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`

	Answer *Answer `gorm:"foreignKey:QuestionID"`
}
