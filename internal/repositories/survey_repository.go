package repositories

import (
	"context"

	"github.com/pojokcurhat/survey-service/internal/models"
)

type SurveyRepository interface {
	// Submission
	CreateWithResponses(ctx context.Context, survey *models.Survey, responses []models.SurveyResponse) error
	GetBySessionID(ctx context.Context, sessionID string) (*models.Survey, error)

	// Query operations
	Count(ctx context.Context) (int64, error)
	ListNewestFirst(ctx context.Context, filters SurveyFilters) ([]*models.Survey, int64, error)
	SearchByRespondentCode(ctx context.Context, code string) ([]*models.Survey, error)

	// Response access
	ResponsesBySurvey(ctx context.Context, surveyID string) ([]models.SurveyResponse, error)
	AllResponses(ctx context.Context) ([]models.SurveyResponse, error)
	ResponsesByQuestion(ctx context.Context, questionID string) ([]models.SurveyResponse, error)
}
