package questions

import (
	"context"

	"github.com/google/uuid"
	"github.com/vivomercado/backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository defines persistence operations for questions and answers.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreateQuestion(ctx context.Context, question *models.Question) (*models.Question, error)
	FindQuestionByID(ctx context.Context, id uuid.UUID) (*models.Question, error)
	UpdateQuestion(ctx context.Context, id uuid.UUID, updates map[string]any) error
	DeactivateAnswersByQuestion(ctx context.Context, questionID uuid.UUID) error
	CreateAnswer(ctx context.Context, answer *models.Answer) (*models.Answer, error)
	FindAnswerByID(ctx context.Context, id uuid.UUID) (*models.Answer, error)
	FindActiveAnswerByQuestion(ctx context.Context, questionID uuid.UUID) (*models.Answer, error)
	UpdateAnswer(ctx context.Context, id uuid.UUID, updates map[string]any) error
	CountUnanswered(ctx context.Context, ownerID uuid.UUID) (int64, error)
	ListAsked(ctx context.Context, authorID uuid.UUID) ([]QuestionRow, error)
	ListReceived(ctx context.Context, ownerID uuid.UUID) ([]QuestionRow, error)
	ListAnswersByAuthor(ctx context.Context, authorID uuid.UUID) ([]AnswerRow, error)
}

// ListingSource loads listings for ownership and liveness checks.
type ListingSource interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Listing, error)
}

// Service defines question and answer operations.
type Service interface {
	Ask(ctx context.Context, actorID uuid.UUID, input AskQuestionInput) (*models.Question, error)
	EditQuestion(ctx context.Context, actorID, questionID uuid.UUID, input BodyInput) (*models.Question, error)
	DeleteQuestion(ctx context.Context, actorID, questionID uuid.UUID) error
	Answer(ctx context.Context, actorID, questionID uuid.UUID, input BodyInput) (*models.Answer, error)
	EditAnswer(ctx context.Context, actorID, answerID uuid.UUID, input BodyInput) (*models.Answer, error)
	DeleteAnswer(ctx context.Context, actorID, answerID uuid.UUID) error
	UnreadCount(ctx context.Context, actorID uuid.UUID) (int64, error)
	ListAsked(ctx context.Context, actorID uuid.UUID) ([]QuestionRow, error)
	ListReceived(ctx context.Context, actorID uuid.UUID) ([]QuestionRow, error)
	ListAnswers(ctx context.Context, actorID uuid.UUID) ([]AnswerRow, error)
}
