package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/vivomercado/backend/api/middleware"
	"github.com/vivomercado/backend/internal/questions"
	"github.com/vivomercado/backend/pkg/db/models"
	pkgerrors "github.com/vivomercado/backend/pkg/errors"
)

type stubQuestionsService struct {
	question *models.Question
	answer   *models.Answer
	count    int64
	err      error
}

func (s stubQuestionsService) Ask(ctx context.Context, actorID uuid.UUID, input questions.AskQuestionInput) (*models.Question, error) {
	return s.question, s.err
}

func (s stubQuestionsService) EditQuestion(ctx context.Context, actorID, questionID uuid.UUID, input questions.BodyInput) (*models.Question, error) {
	return s.question, s.err
}

func (s stubQuestionsService) DeleteQuestion(ctx context.Context, actorID, questionID uuid.UUID) error {
	return s.err
}

func (s stubQuestionsService) Answer(ctx context.Context, actorID, questionID uuid.UUID, input questions.BodyInput) (*models.Answer, error) {
	return s.answer, s.err
}

func (s stubQuestionsService) EditAnswer(ctx context.Context, actorID, answerID uuid.UUID, input questions.BodyInput) (*models.Answer, error) {
	return s.answer, s.err
}

func (s stubQuestionsService) DeleteAnswer(ctx context.Context, actorID, answerID uuid.UUID) error {
	return s.err
}

func (s stubQuestionsService) UnreadCount(ctx context.Context, actorID uuid.UUID) (int64, error) {
	return s.count, s.err
}

func (s stubQuestionsService) ListAsked(ctx context.Context, actorID uuid.UUID) ([]questions.QuestionRow, error) {
	return nil, s.err
}

func (s stubQuestionsService) ListReceived(ctx context.Context, actorID uuid.UUID) ([]questions.QuestionRow, error) {
	return nil, s.err
}

func (s stubQuestionsService) ListAnswers(ctx context.Context, actorID uuid.UUID) ([]questions.AnswerRow, error) {
	return nil, s.err
}

func TestQuestionsAskOwnListingRejected(t *testing.T) {
	svc := stubQuestionsService{err: pkgerrors.New(pkgerrors.CodeSelfTrade, "cannot ask about your own listing")}
	handler := QuestionsAsk(svc, nil)

	body, _ := json.Marshal(map[string]any{"listing_id": uuid.NewString(), "body": "Ainda disponível?"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/questions", bytes.NewReader(body))
	req = req.WithContext(middleware.WithUserID(req.Context(), uuid.New()))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 got %d", rec.Code)
	}
}

func TestQuestionsAnswerAlreadyAnswered(t *testing.T) {
	svc := stubQuestionsService{err: pkgerrors.New(pkgerrors.CodeAlreadyAnswered, "question already answered")}
	r := chi.NewRouter()
	r.Post("/questions/{questionId}/answer", QuestionsAnswer(svc, nil))

	body := []byte(`{"body":"Sim, ainda tenho"}`)
	req := httptest.NewRequest(http.MethodPost, "/questions/"+uuid.NewString()+"/answer", bytes.NewReader(body))
	req = req.WithContext(middleware.WithUserID(req.Context(), uuid.New()))
	rec := httptest.NewRecorder()

	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 got %d", rec.Code)
	}

	var envelope struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Error.Code != string(pkgerrors.CodeAlreadyAnswered) {
		t.Fatalf("unexpected error code %q", envelope.Error.Code)
	}
}

func TestQuestionsUnreadCount(t *testing.T) {
	handler := QuestionsUnreadCount(stubQuestionsService{count: 3}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/questions/unread-count", nil)
	req = req.WithContext(middleware.WithUserID(req.Context(), uuid.New()))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}

	var envelope struct {
		Data map[string]int64 `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data["unanswered"] != 3 {
		t.Fatalf("expected 3 unanswered got %d", envelope.Data["unanswered"])
	}
}
