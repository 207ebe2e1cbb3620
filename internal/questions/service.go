package questions

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

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type service struct {
	repo     Repository
	tx       txRunner
	listings ListingSource
}

// NewService builds a questions service with the required dependencies.
func NewService(repo Repository, tx txRunner, listings ListingSource) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("questions repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if listings == nil {
		return nil, fmt.Errorf("listing source required")
	}
	return &service{
		repo:     repo,
		tx:       tx,
		listings: listings,
	}, nil
}

func (s *service) Ask(ctx context.Context, actorID uuid.UUID, input AskQuestionInput) (*models.Question, error) {
	if actorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if input.ListingID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "listing id required")
	}
	body := strings.TrimSpace(input.Body)
	if body == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "question body required")
	}

	listing, err := s.listings.FindByID(ctx, input.ListingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "listing not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load listing")
	}
	if !listing.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "listing not found")
	}
	if listing.SellerID == actorID {
		return nil, pkgerrors.New(pkgerrors.CodeSelfTrade, "cannot ask a question on your own listing")
	}

	question := &models.Question{
		ListingID: listing.ID,
		AuthorID:  actorID,
		Body:      body,
		IsActive:  true,
	}
	created, err := s.repo.CreateQuestion(ctx, question)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create question")
	}
	return created, nil
}

func (s *service) EditQuestion(ctx context.Context, actorID, questionID uuid.UUID, input BodyInput) (*models.Question, error) {
	question, err := s.loadOwnQuestion(ctx, actorID, questionID)
	if err != nil {
		return nil, err
	}
	body := strings.TrimSpace(input.Body)
	if body == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "question body required")
	}

	if _, err := s.repo.FindActiveAnswerByQuestion(ctx, question.ID); err == nil {
		return nil, pkgerrors.New(pkgerrors.CodeAlreadyAnswered, "question already has an answer")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load answer")
	}

	if err := s.repo.UpdateQuestion(ctx, question.ID, map[string]any{"body": body}); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update question")
	}
	question.Body = body
	return question, nil
}

func (s *service) DeleteQuestion(ctx context.Context, actorID, questionID uuid.UUID) error {
	question, err := s.loadOwnQuestion(ctx, actorID, questionID)
	if err != nil {
		return err
	}

	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.UpdateQuestion(ctx, question.ID, map[string]any{"is_active": false}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "deactivate question")
		}
		if err := repo.DeactivateAnswersByQuestion(ctx, question.ID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "deactivate answers")
		}
		return nil
	})
}

func (s *service) Answer(ctx context.Context, actorID, questionID uuid.UUID, input BodyInput) (*models.Answer, error) {
	if actorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	body := strings.TrimSpace(input.Body)
	if body == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "answer body required")
	}

	question, err := s.repo.FindQuestionByID(ctx, questionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "question not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load question")
	}

	listing, err := s.listings.FindByID(ctx, question.ListingID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load listing")
	}
	if listing.SellerID != actorID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only the listing owner can answer")
	}

	var answer *models.Answer
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if _, err := repo.FindActiveAnswerByQuestion(ctx, question.ID); err == nil {
			return pkgerrors.New(pkgerrors.CodeAlreadyAnswered, "question already has an answer")
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load answer")
		}

		created, err := repo.CreateAnswer(ctx, &models.Answer{
			QuestionID: question.ID,
			AuthorID:   actorID,
			Body:       body,
			IsActive:   true,
		})
		if err != nil {
			if db.IsUniqueViolation(err, "") {
				return pkgerrors.New(pkgerrors.CodeAlreadyAnswered, "question already has an answer")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create answer")
		}
		answer = created
		return nil
	})
	if err != nil {
		return nil, err
	}
	return answer, nil
}

func (s *service) EditAnswer(ctx context.Context, actorID, answerID uuid.UUID, input BodyInput) (*models.Answer, error) {
	answer, err := s.loadOwnAnswer(ctx, actorID, answerID)
	if err != nil {
		return nil, err
	}
	body := strings.TrimSpace(input.Body)
	if body == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "answer body required")
	}

	if err := s.repo.UpdateAnswer(ctx, answer.ID, map[string]any{"body": body}); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update answer")
	}
	answer.Body = body
	return answer, nil
}

func (s *service) DeleteAnswer(ctx context.Context, actorID, answerID uuid.UUID) error {
	answer, err := s.loadOwnAnswer(ctx, actorID, answerID)
	if err != nil {
		return err
	}
	if err := s.repo.UpdateAnswer(ctx, answer.ID, map[string]any{"is_active": false}); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "deactivate answer")
	}
	return nil
}

func (s *service) UnreadCount(ctx context.Context, actorID uuid.UUID) (int64, error) {
	if actorID == uuid.Nil {
		return 0, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	count, err := s.repo.CountUnanswered(ctx, actorID)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count unanswered questions")
	}
	return count, nil
}

func (s *service) ListAsked(ctx context.Context, actorID uuid.UUID) ([]QuestionRow, error) {
	if actorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	rows, err := s.repo.ListAsked(ctx, actorID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list asked questions")
	}
	return rows, nil
}

func (s *service) ListReceived(ctx context.Context, actorID uuid.UUID) ([]QuestionRow, error) {
	if actorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	rows, err := s.repo.ListReceived(ctx, actorID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list received questions")
	}
	return rows, nil
}

func (s *service) ListAnswers(ctx context.Context, actorID uuid.UUID) ([]AnswerRow, error) {
	if actorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	rows, err := s.repo.ListAnswersByAuthor(ctx, actorID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list answers")
	}
	return rows, nil
}

func (s *service) loadOwnQuestion(ctx context.Context, actorID, questionID uuid.UUID) (*models.Question, error) {
	if actorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if questionID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "question id required")
	}
	question, err := s.repo.FindQuestionByID(ctx, questionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "question not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load question")
	}
	if question.AuthorID != actorID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "question does not belong to user")
	}
	return question, nil
}

func (s *service) loadOwnAnswer(ctx context.Context, actorID, answerID uuid.UUID) (*models.Answer, error) {
	if actorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if answerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "answer id required")
	}
	answer, err := s.repo.FindAnswerByID(ctx, answerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "answer not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load answer")
	}
	if answer.AuthorID != actorID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "answer does not belong to user")
	}
	return answer, nil
}
