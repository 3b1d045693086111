package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/pojokcurhat/survey-service/internal/models"
	"github.com/pojokcurhat/survey-service/internal/repositories"
)

type SurveyPostgreSQL struct {
	db    *gorm.DB
	codes *CodeGenerator
}

func NewSurveyPostgreSQL(db *gorm.DB) repositories.SurveyRepository {
	return &SurveyPostgreSQL{
		db:    db,
		codes: NewCodeGenerator(db),
	}
}

// storedProcResponse mirrors one element of the jsonb array the
// insert_survey_with_responses function expects.
type storedProcResponse struct {
	QuestionID    string `json:"question_id"`
	QuestionText  string `json:"question_text"`
	AnswerValue   string `json:"answer_value"`
	AnswerLabel   string `json:"answer_label"`
	QuestionOrder int    `json:"question_order"`
}

// CreateWithResponses persists a survey and all its responses atomically.
// It first tries the insert_survey_with_responses database function, which
// allocates the respondent code server-side. When the function is absent
// (older schema), it falls back to a client-side transaction and allocates
// the code itself.
func (s *SurveyPostgreSQL) CreateWithResponses(ctx context.Context, survey *models.Survey, responses []models.SurveyResponse) error {
	if err := s.createViaFunction(ctx, survey, responses); err == nil {
		return nil
	} else if !isMissingRoutine(err) {
		return fmt.Errorf("failed to create survey via function: %w", err)
	}

	// Two concurrent submissions can probe the same code; the unique index
	// rejects one, which then regenerates with a fresh probe.
	var err error
	for attempt := 0; attempt < codeCollisionRetries; attempt++ {
		err = s.createViaTransaction(ctx, survey, responses)
		if err == nil || !isCodeCollision(err) {
			return err
		}
		survey.RespondentCode = ""
	}
	return err
}

const codeCollisionRetries = 3

func (s *SurveyPostgreSQL) createViaFunction(ctx context.Context, survey *models.Survey, responses []models.SurveyResponse) error {
	procResponses := make([]storedProcResponse, 0, len(responses))
	for _, r := range responses {
		procResponses = append(procResponses, storedProcResponse{
			QuestionID:    r.QuestionID,
			QuestionText:  r.QuestionText,
			AnswerValue:   r.AnswerValue,
			AnswerLabel:   r.AnswerLabel,
			QuestionOrder: r.QuestionOrder,
		})
	}

	payloadBytes, err := json.Marshal(procResponses)
	if err != nil {
		return fmt.Errorf("failed to marshal responses payload: %w", err)
	}
	payload := datatypes.JSON(payloadBytes)

	type procResult struct {
		SurveyID       string `gorm:"column:survey_id"`
		RespondentCode string `gorm:"column:respondent_code"`
	}

	var result procResult
	err = s.db.WithContext(ctx).
		Raw("SELECT survey_id, respondent_code FROM insert_survey_with_responses(?::text, ?::jsonb)",
			survey.SessionID, payload).
		Scan(&result).Error
	if err != nil {
		return err
	}
	if result.SurveyID == "" {
		return errors.New("insert_survey_with_responses returned no row")
	}

	survey.ID = result.SurveyID
	survey.RespondentCode = result.RespondentCode
	return nil
}

func (s *SurveyPostgreSQL) createViaTransaction(ctx context.Context, survey *models.Survey, responses []models.SurveyResponse) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if survey.RespondentCode == "" {
			code, err := s.codes.NextCode(ctx, tx)
			if err != nil {
				return fmt.Errorf("failed to allocate respondent code: %w", err)
			}
			survey.RespondentCode = code
		}

		if err := tx.Create(survey).Error; err != nil {
			return fmt.Errorf("failed to create survey: %w", err)
		}

		for i := range responses {
			responses[i].SurveyID = survey.ID
			responses[i].RespondentCode = survey.RespondentCode
		}

		if err := tx.Create(&responses).Error; err != nil {
			return fmt.Errorf("failed to create survey responses: %w", err)
		}

		return nil
	})
}

// GetBySessionID retrieves the survey submitted for a session.
func (s *SurveyPostgreSQL) GetBySessionID(ctx context.Context, sessionID string) (*models.Survey, error) {
	var survey models.Survey
	err := s.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		First(&survey).Error
	if err != nil {
		return nil, err
	}
	return &survey, nil
}

// Count returns the total number of completed surveys.
func (s *SurveyPostgreSQL) Count(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Survey{}).Count(&count).Error
	return count, err
}

// ListNewestFirst lists surveys ordered by submission time, newest first.
func (s *SurveyPostgreSQL) ListNewestFirst(ctx context.Context, filters repositories.SurveyFilters) ([]*models.Survey, int64, error) {
	var surveys []*models.Survey
	var total int64

	query := s.db.WithContext(ctx).Model(&models.Survey{})
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	order := "created_at DESC"
	if filters.SortBy != "" {
		direction := "DESC"
		if strings.EqualFold(filters.SortOrder, "asc") {
			direction = "ASC"
		}
		switch filters.SortBy {
		case "created_at", "respondent_code":
			order = filters.SortBy + " " + direction
		}
	}

	query = query.Order(order)
	if filters.Limit > 0 {
		query = query.Limit(filters.Limit)
	}
	if filters.Offset > 0 {
		query = query.Offset(filters.Offset)
	}

	if err := query.Find(&surveys).Error; err != nil {
		return nil, 0, err
	}
	return surveys, total, nil
}

// SearchByRespondentCode finds surveys whose respondent code matches exactly.
// The lookup is case-insensitive on the caller's side; codes are stored uppercase.
func (s *SurveyPostgreSQL) SearchByRespondentCode(ctx context.Context, code string) ([]*models.Survey, error) {
	var surveys []*models.Survey
	err := s.db.WithContext(ctx).
		Where("respondent_code = ?", strings.ToUpper(strings.TrimSpace(code))).
		Order("created_at DESC").
		Find(&surveys).Error
	if err != nil {
		return nil, err
	}
	return surveys, nil
}

// ResponsesBySurvey returns all responses for one survey in question order.
func (s *SurveyPostgreSQL) ResponsesBySurvey(ctx context.Context, surveyID string) ([]models.SurveyResponse, error) {
	var responses []models.SurveyResponse
	err := s.db.WithContext(ctx).
		Where("survey_id = ?", surveyID).
		Order("question_order ASC").
		Find(&responses).Error
	if err != nil {
		return nil, err
	}
	return responses, nil
}

// AllResponses returns every stored response row.
func (s *SurveyPostgreSQL) AllResponses(ctx context.Context) ([]models.SurveyResponse, error) {
	var responses []models.SurveyResponse
	err := s.db.WithContext(ctx).
		Order("created_at ASC, question_order ASC").
		Find(&responses).Error
	if err != nil {
		return nil, err
	}
	return responses, nil
}

// ResponsesByQuestion returns every response to a single question.
func (s *SurveyPostgreSQL) ResponsesByQuestion(ctx context.Context, questionID string) ([]models.SurveyResponse, error) {
	var responses []models.SurveyResponse
	err := s.db.WithContext(ctx).
		Where("question_id = ?", questionID).
		Find(&responses).Error
	if err != nil {
		return nil, err
	}
	return responses, nil
}

// isMissingRoutine detects "function does not exist" errors (SQLSTATE 42883),
// which indicate the schema predates the insert function.
func isMissingRoutine(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "42883") ||
		strings.Contains(msg, "does not exist")
}

// isCodeCollision detects a unique violation (SQLSTATE 23505) on the
// respondent code index, the signal that a concurrent submission took the
// probed code first.
func isCodeCollision(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return (strings.Contains(msg, "23505") || strings.Contains(msg, "duplicate key value")) &&
		strings.Contains(msg, "respondent_code")
}
