package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pojokcurhat/survey-service/internal/catalog"
	"github.com/pojokcurhat/survey-service/internal/events"
	"github.com/pojokcurhat/survey-service/internal/models"
	"github.com/pojokcurhat/survey-service/internal/repositories"
	"github.com/pojokcurhat/survey-service/internal/validator"
)

// SubmissionService accepts completed surveys and persists them exactly once
// per browser session.
type SubmissionService interface {
	Submit(ctx context.Context, req *SubmitSurveyRequest) (*SubmissionResult, error)
	GetBySession(ctx context.Context, sessionID string) (*SubmissionResult, error)
}

// SubmitSurveyRequest carries one completed survey.
type SubmitSurveyRequest struct {
	SessionID string            `json:"session_id" validate:"required,min=8,max=64"`
	Answers   []SubmittedAnswer `json:"answers" validate:"required,dive"`
}

// SubmittedAnswer is a single question/answer pair as sent by the client.
type SubmittedAnswer struct {
	QuestionID string `json:"question_id" validate:"required,question_id"`
	Value      string `json:"value" validate:"required"`
}

// SubmissionResult is what the respondent sees after submitting.
type SubmissionResult struct {
	SurveyID       string    `json:"survey_id,omitempty"`
	RespondentCode string    `json:"respondent_code"`
	Duplicate      bool      `json:"duplicate"`
	Demo           bool      `json:"demo"`
	CompletedAt    time.Time `json:"completed_at"`
}

type submissionService struct {
	repo       repositories.Repository
	logger     *slog.Logger
	validator  *validator.Validator
	publisher  events.EventPublisher
	configured bool
	timeout    time.Duration
}

// SubmissionConfig tunes the submission service.
type SubmissionConfig struct {
	Configured bool
	Timeout    time.Duration
}

func NewSubmissionService(repo repositories.Repository, logger *slog.Logger, v *validator.Validator, publisher events.EventPublisher, cfg SubmissionConfig) SubmissionService {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &submissionService{
		repo:       repo,
		logger:     logger,
		validator:  v,
		publisher:  publisher,
		configured: cfg.Configured,
		timeout:    timeout,
	}
}

// Submit validates and stores one completed survey. Submitting the same
// session twice returns the original result flagged as a duplicate instead
// of creating a second row.
func (s *submissionService) Submit(ctx context.Context, req *SubmitSurveyRequest) (*SubmissionResult, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	if len(req.Answers) != catalog.Size() {
		return nil, fmt.Errorf("%w: got %d answers, need %d", ErrWrongAnswerCount, len(req.Answers), catalog.Size())
	}

	answers := make([]validator.Answer, 0, len(req.Answers))
	for _, a := range req.Answers {
		answers = append(answers, validator.Answer{QuestionID: a.QuestionID, Value: a.Value})
	}
	if err := s.validator.Answers().ValidateAnswerSet(answers); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if !s.configured {
		return s.demoSubmit(req), nil
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	// Idempotency check first; the unique index on session_id backs this up.
	existing, err := s.repo.Survey().GetBySessionID(ctx, req.SessionID)
	if err == nil && existing != nil {
		s.logger.Info("Duplicate submission for session",
			"session_id", req.SessionID,
			"respondent_code", existing.RespondentCode)

		if pubErr := s.publisher.PublishSurveyEvent(ctx,
			events.NewSurveyDuplicateEvent(req.SessionID, existing.RespondentCode)); pubErr != nil {
			s.logger.Warn("Failed to publish duplicate event", "error", pubErr)
		}

		return &SubmissionResult{
			SurveyID:       existing.ID,
			RespondentCode: existing.RespondentCode,
			Duplicate:      true,
			CompletedAt:    existing.CompletedAt,
		}, nil
	}
	if err != nil && !repositories.IsNotFoundError(err) {
		return nil, NewPersistenceError("session lookup", err)
	}

	now := time.Now()
	survey := &models.Survey{
		SessionID:   req.SessionID,
		CompletedAt: now,
	}
	responses := s.buildResponses(req.Answers)

	if err := s.repo.Survey().CreateWithResponses(ctx, survey, responses); err != nil {
		s.logger.Error("Failed to persist survey",
			"session_id", req.SessionID,
			"error", err)
		return nil, NewPersistenceError("survey insert", err)
	}

	s.logger.Info("Survey submitted",
		"survey_id", survey.ID,
		"respondent_code", survey.RespondentCode,
		"answer_count", len(responses))

	if pubErr := s.publisher.PublishSurveyEvent(ctx,
		events.NewSurveySubmittedEvent(survey.ID, survey.RespondentCode, survey.SessionID, len(responses), now)); pubErr != nil {
		s.logger.Warn("Failed to publish submission event", "error", pubErr)
	}

	return &SubmissionResult{
		SurveyID:       survey.ID,
		RespondentCode: survey.RespondentCode,
		CompletedAt:    now,
	}, nil
}

// GetBySession returns the submission result for a session, if any.
func (s *submissionService) GetBySession(ctx context.Context, sessionID string) (*SubmissionResult, error) {
	if !s.configured {
		return nil, ErrNotConfigured
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	survey, err := s.repo.Survey().GetBySessionID(ctx, sessionID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrSurveyNotFound
		}
		return nil, NewPersistenceError("session lookup", err)
	}

	return &SubmissionResult{
		SurveyID:       survey.ID,
		RespondentCode: survey.RespondentCode,
		CompletedAt:    survey.CompletedAt,
	}, nil
}

// buildResponses enriches raw answers with catalog text and labels so the
// stored rows are self-describing.
func (s *submissionService) buildResponses(answers []SubmittedAnswer) []models.SurveyResponse {
	responses := make([]models.SurveyResponse, 0, len(answers))
	for _, a := range answers {
		question, _ := catalog.Find(a.QuestionID)
		label := a.Value
		if opt, ok := catalog.FindOption(a.QuestionID, a.Value); ok {
			label = opt.Label
		}
		responses = append(responses, models.SurveyResponse{
			QuestionID:    question.ID,
			QuestionText:  question.Title,
			AnswerValue:   a.Value,
			AnswerLabel:   label,
			QuestionOrder: question.Order,
		})
	}
	return responses
}

// demoSubmit fabricates a result when no database backend is configured so
// the flow stays demonstrable.
func (s *submissionService) demoSubmit(req *SubmitSurveyRequest) *SubmissionResult {
	code := "DEMO-" + strings.ToUpper(uuid.New().String()[:6])
	s.logger.Info("Demo mode submission, nothing persisted",
		"session_id", req.SessionID,
		"respondent_code", code)
	return &SubmissionResult{
		RespondentCode: code,
		Demo:           true,
		CompletedAt:    time.Now(),
	}
}
