package questions

import (
	"time"

	"github.com/google/uuid"
)

// AskQuestionInput carries a new question for a listing.
type AskQuestionInput struct {
	ListingID uuid.UUID `json:"listing_id" validate:"required"`
	Body      string    `json:"body" validate:"required,min=2"`
}

// BodyInput carries replacement text for question and answer edits.
type BodyInput struct {
	Body string `json:"body" validate:"required,min=2"`
}

// QuestionRow is a question joined with display fields for history views.
type QuestionRow struct {
	ID           uuid.UUID  `json:"id"`
	ListingID    uuid.UUID  `json:"listing_id"`
	ListingTitle string     `json:"listing_title"`
	AuthorID     uuid.UUID  `json:"author_id"`
	AuthorName   string     `json:"author_name"`
	Body         string     `json:"body"`
	CreatedAt    time.Time  `json:"created_at"`
	AnswerID     *uuid.UUID `json:"answer_id,omitempty"`
	AnswerBody   *string    `json:"answer_body,omitempty"`
}

// AnswerRow is an answer joined with its question and listing context.
type AnswerRow struct {
	ID           uuid.UUID `json:"id"`
	QuestionID   uuid.UUID `json:"question_id"`
	QuestionBody string    `json:"question_body"`
	ListingID    uuid.UUID `json:"listing_id"`
	ListingTitle string    `json:"listing_title"`
	Body         string    `json:"body"`
	CreatedAt    time.Time `json:"created_at"`
}
