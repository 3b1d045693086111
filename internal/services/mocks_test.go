package services

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/pojokcurhat/survey-service/internal/models"
	"github.com/pojokcurhat/survey-service/internal/repositories"
)

// MockSurveyRepository is a testify mock of repositories.SurveyRepository
type MockSurveyRepository struct {
	mock.Mock
}

func (m *MockSurveyRepository) CreateWithResponses(ctx context.Context, survey *models.Survey, responses []models.SurveyResponse) error {
	args := m.Called(ctx, survey, responses)
	return args.Error(0)
}

func (m *MockSurveyRepository) GetBySessionID(ctx context.Context, sessionID string) (*models.Survey, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Survey), args.Error(1)
}

func (m *MockSurveyRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSurveyRepository) ListNewestFirst(ctx context.Context, filters repositories.SurveyFilters) ([]*models.Survey, int64, error) {
	args := m.Called(ctx, filters)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*models.Survey), args.Get(1).(int64), args.Error(2)
}

func (m *MockSurveyRepository) SearchByRespondentCode(ctx context.Context, code string) ([]*models.Survey, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Survey), args.Error(1)
}

func (m *MockSurveyRepository) ResponsesBySurvey(ctx context.Context, surveyID string) ([]models.SurveyResponse, error) {
	args := m.Called(ctx, surveyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.SurveyResponse), args.Error(1)
}

func (m *MockSurveyRepository) AllResponses(ctx context.Context) ([]models.SurveyResponse, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.SurveyResponse), args.Error(1)
}

func (m *MockSurveyRepository) ResponsesByQuestion(ctx context.Context, questionID string) ([]models.SurveyResponse, error) {
	args := m.Called(ctx, questionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.SurveyResponse), args.Error(1)
}

// MockAnalyticsRepository is a testify mock of repositories.AnalyticsRepository
type MockAnalyticsRepository struct {
	mock.Mock
}

func (m *MockAnalyticsRepository) BreakdownFromCleanView(ctx context.Context) ([]models.AnalyticsSummary, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.AnalyticsSummary), args.Error(1)
}

func (m *MockAnalyticsRepository) BreakdownFromFunction(ctx context.Context) ([]models.AnalyticsSummary, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.AnalyticsSummary), args.Error(1)
}

func (m *MockAnalyticsRepository) BreakdownFromNewView(ctx context.Context) ([]models.AnalyticsSummary, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.AnalyticsSummary), args.Error(1)
}

func (m *MockAnalyticsRepository) BreakdownFromLegacyView(ctx context.Context) ([]models.AnalyticsSummary, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.AnalyticsSummary), args.Error(1)
}

func (m *MockAnalyticsRepository) DemographicsFromView(ctx context.Context) ([]models.DemographicsAnalysis, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.DemographicsAnalysis), args.Error(1)
}

func (m *MockAnalyticsRepository) IndividualFromView(ctx context.Context) ([]models.IndividualResponseRow, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.IndividualResponseRow), args.Error(1)
}

// mockRepository aggregates the mocks behind repositories.Repository
type mockRepository struct {
	survey    *MockSurveyRepository
	analytics *MockAnalyticsRepository
}

func newMockRepository() *mockRepository {
	return &mockRepository{
		survey:    &MockSurveyRepository{},
		analytics: &MockAnalyticsRepository{},
	}
}

func (m *mockRepository) Survey() repositories.SurveyRepository {
	return m.survey
}

func (m *mockRepository) Analytics() repositories.AnalyticsRepository {
	return m.analytics
}
