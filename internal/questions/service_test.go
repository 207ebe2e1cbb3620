package questions

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vivomercado/backend/internal/listings"
	pkgerrors "github.com/vivomercado/backend/pkg/errors"
	"gorm.io/gorm"
)

type gormTxRunner struct {
	db *gorm.DB
}

func (r gormTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}

func newTestService(t *testing.T, conn *gorm.DB) Service {
	t.Helper()

	svc, err := NewService(NewRepository(conn), gormTxRunner{db: conn}, listings.NewRepository(conn))
	require.NoError(t, err)
	return svc
}

func TestServiceAsk(t *testing.T) {
	conn := setupQuestionsTestDB(t)
	svc := newTestService(t, conn)
	ctx := context.Background()

	seller := seedUser(t, conn, "seller")
	buyer := seedUser(t, conn, "buyer")
	listing := seedListing(t, conn, seller, "Guitar")

	question, err := svc.Ask(ctx, buyer.ID, AskQuestionInput{
		ListingID: listing.ID,
		Body:      "  Does it include a case?  ",
	})
	require.NoError(t, err)
	assert.Equal(t, "Does it include a case?", question.Body)
	assert.Equal(t, buyer.ID, question.AuthorID)
	assert.True(t, question.IsActive)

	_, err = svc.Ask(ctx, seller.ID, AskQuestionInput{ListingID: listing.ID, Body: "Asking myself"})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeSelfTrade, pkgerrors.As(err).Code())

	_, err = svc.Ask(ctx, buyer.ID, AskQuestionInput{ListingID: uuid.New(), Body: "Ghost listing"})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}

func TestServiceAskInactiveListing(t *testing.T) {
	conn := setupQuestionsTestDB(t)
	svc := newTestService(t, conn)
	ctx := context.Background()

	seller := seedUser(t, conn, "seller")
	buyer := seedUser(t, conn, "buyer")
	listing := seedListing(t, conn, seller, "Guitar")
	require.NoError(t, conn.Exec("UPDATE listings SET is_active = 0 WHERE id = ?", listing.ID).Error)

	_, err := svc.Ask(ctx, buyer.ID, AskQuestionInput{ListingID: listing.ID, Body: "Still available?"})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}

func TestServiceAnswerOnce(t *testing.T) {
	conn := setupQuestionsTestDB(t)
	svc := newTestService(t, conn)
	ctx := context.Background()

	seller := seedUser(t, conn, "seller")
	buyer := seedUser(t, conn, "buyer")
	listing := seedListing(t, conn, seller, "Guitar")
	question := seedQuestion(t, conn, listing, buyer, "Does it ship assembled?", time.Now())

	_, err := svc.Answer(ctx, buyer.ID, question.ID, BodyInput{Body: "I am not the owner"})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeForbidden, pkgerrors.As(err).Code())

	answer, err := svc.Answer(ctx, seller.ID, question.ID, BodyInput{Body: "Yes, fully assembled."})
	require.NoError(t, err)
	assert.Equal(t, question.ID, answer.QuestionID)

	_, err = svc.Answer(ctx, seller.ID, question.ID, BodyInput{Body: "Answering again"})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeAlreadyAnswered, pkgerrors.As(err).Code())
}

func TestServiceEditQuestionBlockedAfterAnswer(t *testing.T) {
	conn := setupQuestionsTestDB(t)
	svc := newTestService(t, conn)
	ctx := context.Background()

	seller := seedUser(t, conn, "seller")
	buyer := seedUser(t, conn, "buyer")
	other := seedUser(t, conn, "other")
	listing := seedListing(t, conn, seller, "Guitar")
	question := seedQuestion(t, conn, listing, buyer, "Original text", time.Now())

	_, err := svc.EditQuestion(ctx, other.ID, question.ID, BodyInput{Body: "Not mine"})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeForbidden, pkgerrors.As(err).Code())

	updated, err := svc.EditQuestion(ctx, buyer.ID, question.ID, BodyInput{Body: "Revised text"})
	require.NoError(t, err)
	assert.Equal(t, "Revised text", updated.Body)

	_, err = svc.Answer(ctx, seller.ID, question.ID, BodyInput{Body: "Answered."})
	require.NoError(t, err)

	_, err = svc.EditQuestion(ctx, buyer.ID, question.ID, BodyInput{Body: "Too late"})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeAlreadyAnswered, pkgerrors.As(err).Code())
}

func TestServiceDeleteQuestionCascadesToAnswer(t *testing.T) {
	conn := setupQuestionsTestDB(t)
	svc := newTestService(t, conn)
	ctx := context.Background()

	seller := seedUser(t, conn, "seller")
	buyer := seedUser(t, conn, "buyer")
	listing := seedListing(t, conn, seller, "Guitar")
	question := seedQuestion(t, conn, listing, buyer, "Delete me", time.Now())

	answer, err := svc.Answer(ctx, seller.ID, question.ID, BodyInput{Body: "Answered."})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteQuestion(ctx, buyer.ID, question.ID))

	repo := NewRepository(conn)
	_, err = repo.FindQuestionByID(ctx, question.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	_, err = repo.FindAnswerByID(ctx, answer.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	err = svc.DeleteQuestion(ctx, buyer.ID, question.ID)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}

func TestServiceDeleteAnswerReopensQuestion(t *testing.T) {
	conn := setupQuestionsTestDB(t)
	svc := newTestService(t, conn)
	ctx := context.Background()

	seller := seedUser(t, conn, "seller")
	buyer := seedUser(t, conn, "buyer")
	listing := seedListing(t, conn, seller, "Guitar")
	question := seedQuestion(t, conn, listing, buyer, "Reopen me", time.Now())

	answer, err := svc.Answer(ctx, seller.ID, question.ID, BodyInput{Body: "First try."})
	require.NoError(t, err)

	count, err := svc.UnreadCount(ctx, seller.ID)
	require.NoError(t, err)
	assert.Zero(t, count)

	require.NoError(t, svc.DeleteAnswer(ctx, seller.ID, answer.ID))

	count, err = svc.UnreadCount(ctx, seller.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	replacement, err := svc.Answer(ctx, seller.ID, question.ID, BodyInput{Body: "Second try."})
	require.NoError(t, err)
	assert.NotEqual(t, answer.ID, replacement.ID)
}
