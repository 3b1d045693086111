package services

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/pojokcurhat/survey-service/internal/catalog"
	"github.com/pojokcurhat/survey-service/internal/events"
	"github.com/pojokcurhat/survey-service/internal/models"
	"github.com/pojokcurhat/survey-service/internal/validator"
	"gorm.io/gorm"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func validRequest() *SubmitSurveyRequest {
	req := &SubmitSurveyRequest{SessionID: "session-abc-123"}
	for _, q := range catalog.Questions() {
		req.Answers = append(req.Answers, SubmittedAnswer{
			QuestionID: q.ID,
			Value:      q.Options[0].Value,
		})
	}
	return req
}

func newSubmissionFixture(configured bool) (*mockRepository, *events.MockEventPublisher, SubmissionService) {
	repo := newMockRepository()
	publisher := events.NewMockEventPublisher(testLogger())
	svc := NewSubmissionService(repo, testLogger(), validator.New(), publisher, SubmissionConfig{
		Configured: configured,
		Timeout:    5 * time.Second,
	})
	return repo, publisher, svc
}

func TestSubmit_HappyPath(t *testing.T) {
	repo, publisher, svc := newSubmissionFixture(true)

	repo.survey.On("GetBySessionID", mock.Anything, "session-abc-123").
		Return(nil, gorm.ErrRecordNotFound)
	repo.survey.On("CreateWithResponses", mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			survey := args.Get(1).(*models.Survey)
			survey.ID = "11111111-1111-1111-1111-111111111111"
			survey.RespondentCode = "A01"
		}).
		Return(nil)

	result, err := svc.Submit(context.Background(), validRequest())
	require.NoError(t, err)

	assert.Equal(t, "A01", result.RespondentCode)
	assert.False(t, result.Duplicate)
	assert.False(t, result.Demo)

	published := publisher.GetPublishedEvents()
	require.Len(t, published, 1)
	assert.Equal(t, events.EventSurveySubmitted, published[0].Type)

	repo.survey.AssertExpectations(t)
}

func TestSubmit_ResponsesCarryCatalogText(t *testing.T) {
	repo, _, svc := newSubmissionFixture(true)

	var captured []models.SurveyResponse
	repo.survey.On("GetBySessionID", mock.Anything, mock.Anything).
		Return(nil, gorm.ErrRecordNotFound)
	repo.survey.On("CreateWithResponses", mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			captured = args.Get(2).([]models.SurveyResponse)
		}).
		Return(nil)

	_, err := svc.Submit(context.Background(), validRequest())
	require.NoError(t, err)

	require.Len(t, captured, catalog.Size())
	for i, q := range catalog.Questions() {
		assert.Equal(t, q.ID, captured[i].QuestionID)
		assert.Equal(t, q.Title, captured[i].QuestionText)
		assert.Equal(t, q.Options[0].Label, captured[i].AnswerLabel)
		assert.Equal(t, q.Order, captured[i].QuestionOrder)
	}
}

func TestSubmit_Idempotent(t *testing.T) {
	repo, publisher, svc := newSubmissionFixture(true)

	existing := &models.Survey{
		ID:             "22222222-2222-2222-2222-222222222222",
		RespondentCode: "B07",
		SessionID:      "session-abc-123",
		CompletedAt:    time.Now().Add(-time.Hour),
	}
	repo.survey.On("GetBySessionID", mock.Anything, "session-abc-123").
		Return(existing, nil)

	result, err := svc.Submit(context.Background(), validRequest())
	require.NoError(t, err)

	assert.True(t, result.Duplicate)
	assert.Equal(t, "B07", result.RespondentCode)
	repo.survey.AssertNotCalled(t, "CreateWithResponses", mock.Anything, mock.Anything, mock.Anything)

	published := publisher.GetPublishedEvents()
	require.Len(t, published, 1)
	assert.Equal(t, events.EventSurveyDuplicate, published[0].Type)
}

func TestSubmit_WrongAnswerCount(t *testing.T) {
	_, _, svc := newSubmissionFixture(true)

	req := validRequest()
	req.Answers = req.Answers[:3]

	_, err := svc.Submit(context.Background(), req)
	assert.ErrorIs(t, err, ErrWrongAnswerCount)
}

func TestSubmit_InvalidAnswerValue(t *testing.T) {
	_, _, svc := newSubmissionFixture(true)

	req := validRequest()
	req.Answers[4].Value = "not-a-real-option"

	_, err := svc.Submit(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestSubmit_MissingSessionID(t *testing.T) {
	_, _, svc := newSubmissionFixture(true)

	req := validRequest()
	req.SessionID = ""

	_, err := svc.Submit(context.Background(), req)
	require.Error(t, err)

	var verrs ValidationErrors
	assert.ErrorAs(t, err, &verrs)
}

func TestSubmit_PersistenceFailure(t *testing.T) {
	repo, _, svc := newSubmissionFixture(true)

	repo.survey.On("GetBySessionID", mock.Anything, mock.Anything).
		Return(nil, gorm.ErrRecordNotFound)
	repo.survey.On("CreateWithResponses", mock.Anything, mock.Anything, mock.Anything).
		Return(errors.New("connection refused"))

	_, err := svc.Submit(context.Background(), validRequest())
	require.Error(t, err)

	var perr *PersistenceError
	assert.ErrorAs(t, err, &perr)
}

func TestSubmit_DemoMode(t *testing.T) {
	repo, _, svc := newSubmissionFixture(false)

	result, err := svc.Submit(context.Background(), validRequest())
	require.NoError(t, err)

	assert.True(t, result.Demo)
	assert.Regexp(t, `^DEMO-[A-Z0-9]{6}$`, result.RespondentCode)
	repo.survey.AssertNotCalled(t, "CreateWithResponses", mock.Anything, mock.Anything, mock.Anything)
}

func TestGetBySession(t *testing.T) {
	repo, _, svc := newSubmissionFixture(true)

	repo.survey.On("GetBySessionID", mock.Anything, "missing").
		Return(nil, gorm.ErrRecordNotFound)

	_, err := svc.GetBySession(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrSurveyNotFound)
}

func TestGetBySession_NotConfigured(t *testing.T) {
	_, _, svc := newSubmissionFixture(false)

	_, err := svc.GetBySession(context.Background(), "any")
	assert.ErrorIs(t, err, ErrNotConfigured)
}
