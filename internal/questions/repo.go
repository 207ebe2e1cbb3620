package questions

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/vivomercado/backend/pkg/db/models"
	"gorm.io/gorm"
)

const activeAnswerExists = "EXISTS (SELECT 1 FROM answers a WHERE a.question_id = q.id AND a.is_active = true)"

type repository struct {
	db *gorm.DB
}

// NewRepository builds a questions repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) CreateQuestion(ctx context.Context, question *models.Question) (*models.Question, error) {
	if question.ID == uuid.Nil {
		question.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(question).Error; err != nil {
		return nil, err
	}
	return question, nil
}

func (r *repository) FindQuestionByID(ctx context.Context, id uuid.UUID) (*models.Question, error) {
	var question models.Question
	err := r.db.WithContext(ctx).
		Where("id = ? AND is_active = ?", id, true).
		First(&question).Error
	if err != nil {
		return nil, err
	}
	return &question, nil
}

func (r *repository) UpdateQuestion(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.Question{}).
		Where("id = ?", id).
		Updates(updates).
		Error
}

func (r *repository) DeactivateAnswersByQuestion(ctx context.Context, questionID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.Answer{}).
		Where("question_id = ? AND is_active = ?", questionID, true).
		Updates(map[string]any{"is_active": false}).
		Error
}

func (r *repository) CreateAnswer(ctx context.Context, answer *models.Answer) (*models.Answer, error) {
	if answer.ID == uuid.Nil {
		answer.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(answer).Error; err != nil {
		return nil, err
	}
	return answer, nil
}

func (r *repository) FindAnswerByID(ctx context.Context, id uuid.UUID) (*models.Answer, error) {
	var answer models.Answer
	err := r.db.WithContext(ctx).
		Where("id = ? AND is_active = ?", id, true).
		First(&answer).Error
	if err != nil {
		return nil, err
	}
	return &answer, nil
}

func (r *repository) FindActiveAnswerByQuestion(ctx context.Context, questionID uuid.UUID) (*models.Answer, error) {
	var answer models.Answer
	err := r.db.WithContext(ctx).
		Where("question_id = ? AND is_active = ?", questionID, true).
		First(&answer).Error
	if err != nil {
		return nil, err
	}
	return &answer, nil
}

func (r *repository) UpdateAnswer(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.Answer{}).
		Where("id = ?", id).
		Updates(updates).
		Error
}

func (r *repository) CountUnanswered(ctx context.Context, ownerID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("questions q").
		Joins("JOIN listings l ON l.id = q.listing_id").
		Where("l.seller_id = ? AND q.is_active = ?", ownerID, true).
		Where("NOT " + activeAnswerExists).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

type questionRowRecord struct {
	ID           uuid.UUID  `gorm:"column:id"`
	ListingID    uuid.UUID  `gorm:"column:listing_id"`
	ListingTitle string     `gorm:"column:listing_title"`
	AuthorID     uuid.UUID  `gorm:"column:author_id"`
	AuthorName   string     `gorm:"column:author_name"`
	Body         string     `gorm:"column:body"`
	CreatedAt    time.Time  `gorm:"column:created_at"`
	AnswerID     *uuid.UUID `gorm:"column:answer_id"`
	AnswerBody   *string    `gorm:"column:answer_body"`
}

func (rec questionRowRecord) toDTO() QuestionRow {
	return QuestionRow{
		ID:           rec.ID,
		ListingID:    rec.ListingID,
		ListingTitle: rec.ListingTitle,
		AuthorID:     rec.AuthorID,
		AuthorName:   rec.AuthorName,
		Body:         rec.Body,
		CreatedAt:    rec.CreatedAt,
		AnswerID:     rec.AnswerID,
		AnswerBody:   rec.AnswerBody,
	}
}

func (r *repository) ListAsked(ctx context.Context, authorID uuid.UUID) ([]QuestionRow, error) {
	return r.listQuestionRows(ctx, "q.author_id = ?", authorID)
}

func (r *repository) ListReceived(ctx context.Context, ownerID uuid.UUID) ([]QuestionRow, error) {
	return r.listQuestionRows(ctx, "l.seller_id = ?", ownerID)
}

func (r *repository) listQuestionRows(ctx context.Context, condition string, actorID uuid.UUID) ([]QuestionRow, error) {
	var records []questionRowRecord
	err := r.db.WithContext(ctx).
		Table("questions q").
		Select(strings.Join([]string{
			"q.id",
			"q.listing_id",
			"l.title AS listing_title",
			"q.author_id",
			"u.name AS author_name",
			"q.body",
			"q.created_at",
			"a.id AS answer_id",
			"a.body AS answer_body",
		}, ", ")).
		Joins("JOIN listings l ON l.id = q.listing_id").
		Joins("JOIN users u ON u.id = q.author_id").
		Joins("LEFT JOIN answers a ON a.question_id = q.id AND a.is_active = ?", true).
		Where(condition, actorID).
		Where("q.is_active = ?", true).
		Order("q.created_at DESC").Order("q.id DESC").
		Scan(&records).Error
	if err != nil {
		return nil, err
	}

	rows := make([]QuestionRow, 0, len(records))
	for _, record := range records {
		rows = append(rows, record.toDTO())
	}
	return rows, nil
}

type answerRowRecord struct {
	ID           uuid.UUID `gorm:"column:id"`
	QuestionID   uuid.UUID `gorm:"column:question_id"`
	QuestionBody string    `gorm:"column:question_body"`
	ListingID    uuid.UUID `gorm:"column:listing_id"`
	ListingTitle string    `gorm:"column:listing_title"`
	Body         string    `gorm:"column:body"`
	CreatedAt    time.Time `gorm:"column:created_at"`
}

func (r *repository) ListAnswersByAuthor(ctx context.Context, authorID uuid.UUID) ([]AnswerRow, error) {
	var records []answerRowRecord
	err := r.db.WithContext(ctx).
		Table("answers a").
		Select(strings.Join([]string{
			"a.id",
			"a.question_id",
			"q.body AS question_body",
			"q.listing_id",
			"l.title AS listing_title",
			"a.body",
			"a.created_at",
		}, ", ")).
		Joins("JOIN questions q ON q.id = a.question_id").
		Joins("JOIN listings l ON l.id = q.listing_id").
		Where("a.author_id = ? AND a.is_active = ?", authorID, true).
		Order("a.created_at DESC").Order("a.id DESC").
		Scan(&records).Error
	if err != nil {
		return nil, err
	}

	rows := make([]AnswerRow, 0, len(records))
	for _, record := range records {
		rows = append(rows, AnswerRow{
			ID:           record.ID,
			QuestionID:   record.QuestionID,
			QuestionBody: record.QuestionBody,
			ListingID:    record.ListingID,
			ListingTitle: record.ListingTitle,
			Body:         record.Body,
			CreatedAt:    record.CreatedAt,
		})
	}
	return rows, nil
}
