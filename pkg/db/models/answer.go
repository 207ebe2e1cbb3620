package models

import (
	"time"

	"github.com/google/uuid"
)

// Answer is the listing owner's single reply to a question. A partial unique
// index on question_id covers active rows, so deleting an answer frees the
// question to be answered again.
type Answer struct {
	ID         uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	QuestionID uuid.UUID `gorm:"column:question_id;type:uuid;not null;uniqueIndex:answers_question_id_key"`
	AuthorID   uuid.UUID `gorm:"column:author_id;type:uuid;not null;index:answers_author_id_idx"`
	Body       string    `gorm:"column:body;not null"`
	IsActive   bool      `gorm:"column:is_active;not null;default:true"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
