package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/pojokcurhat/survey-service/internal/cache"
	"github.com/pojokcurhat/survey-service/internal/catalog"
	"github.com/pojokcurhat/survey-service/internal/models"
	"github.com/pojokcurhat/survey-service/internal/repositories"
)

var errViewMissing = errors.New(`relation does not exist (SQLSTATE 42P01)`)

func newAnalyticsFixture(configured bool) (*mockRepository, AnalyticsService) {
	repo := newMockRepository()
	svc := NewAnalyticsService(repo, testLogger(), cache.NewNoopCache(), AnalyticsConfig{
		Configured: configured,
		Timeout:    5 * time.Second,
	})
	return repo, svc
}

func cleanRows() []models.AnalyticsSummary {
	gender, _ := catalog.Find("gender")
	return []models.AnalyticsSummary{
		{QuestionID: "gender", QuestionText: gender.Title, AnswerValue: gender.Options[0].Value, AnswerLabel: gender.Options[0].Label, ResponseCount: 6, Percentage: 60},
		{QuestionID: "gender", QuestionText: gender.Title, AnswerValue: gender.Options[1].Value, AnswerLabel: gender.Options[1].Label, ResponseCount: 4, Percentage: 40},
	}
}

func TestGetSummary_NotConfigured(t *testing.T) {
	_, svc := newAnalyticsFixture(false)

	_, err := svc.GetSummary(context.Background())
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestGetSummary_PrimarySource(t *testing.T) {
	repo, svc := newAnalyticsFixture(true)

	repo.survey.On("Count", mock.Anything).Return(int64(10), nil)
	repo.analytics.On("BreakdownFromCleanView", mock.Anything).Return(cleanRows(), nil)

	result, err := svc.GetSummary(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "clean_analytics", result.Source)
	assert.Equal(t, int64(10), result.TotalRespondents)
	repo.analytics.AssertNotCalled(t, "BreakdownFromFunction", mock.Anything)
}

func TestGetSummary_FallsThroughTiers(t *testing.T) {
	repo, svc := newAnalyticsFixture(true)

	repo.survey.On("Count", mock.Anything).Return(int64(10), nil)
	repo.analytics.On("BreakdownFromCleanView", mock.Anything).Return(nil, errViewMissing)
	repo.analytics.On("BreakdownFromFunction", mock.Anything).Return(nil, errViewMissing)
	repo.analytics.On("BreakdownFromNewView", mock.Anything).Return(cleanRows(), nil)

	result, err := svc.GetSummary(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "survey_analytics_new", result.Source)
	repo.analytics.AssertNotCalled(t, "BreakdownFromLegacyView", mock.Anything)
}

func TestGetSummary_LegacyTierGetsNormalized(t *testing.T) {
	repo, svc := newAnalyticsFixture(true)

	gender, _ := catalog.Find("gender")
	// Legacy view has neither labels nor percentages.
	legacy := []models.AnalyticsSummary{
		{QuestionID: "gender", AnswerValue: gender.Options[0].Value, ResponseCount: 1},
		{QuestionID: "gender", AnswerValue: gender.Options[1].Value, ResponseCount: 2},
	}

	repo.survey.On("Count", mock.Anything).Return(int64(3), nil)
	repo.analytics.On("BreakdownFromCleanView", mock.Anything).Return(nil, errViewMissing)
	repo.analytics.On("BreakdownFromFunction", mock.Anything).Return(nil, errViewMissing)
	repo.analytics.On("BreakdownFromNewView", mock.Anything).Return(nil, errViewMissing)
	repo.analytics.On("BreakdownFromLegacyView", mock.Anything).Return(legacy, nil)

	result, err := svc.GetSummary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "analytics_summary", result.Source)

	var genderBreakdown *QuestionBreakdown
	for i := range result.Questions {
		if result.Questions[i].QuestionID == "gender" {
			genderBreakdown = &result.Questions[i]
		}
	}
	require.NotNil(t, genderBreakdown)
	require.Len(t, genderBreakdown.Answers, 2)

	sum := 0.0
	for _, answer := range genderBreakdown.Answers {
		assert.NotEmpty(t, answer.AnswerLabel)
		assert.NotEmpty(t, answer.QuestionText)
		sum += answer.Percentage
	}
	assert.InDelta(t, 100.0, sum, 0.1)
}

func TestGetSummary_RawRowTier(t *testing.T) {
	repo, svc := newAnalyticsFixture(true)

	gender, _ := catalog.Find("gender")
	raw := []models.SurveyResponse{
		{QuestionID: "gender", AnswerValue: gender.Options[0].Value, AnswerLabel: gender.Options[0].Label},
		{QuestionID: "gender", AnswerValue: gender.Options[0].Value, AnswerLabel: gender.Options[0].Label},
		{QuestionID: "gender", AnswerValue: gender.Options[1].Value, AnswerLabel: gender.Options[1].Label},
	}

	repo.survey.On("Count", mock.Anything).Return(int64(3), nil)
	repo.analytics.On("BreakdownFromCleanView", mock.Anything).Return(nil, errViewMissing)
	repo.analytics.On("BreakdownFromFunction", mock.Anything).Return(nil, errViewMissing)
	repo.analytics.On("BreakdownFromNewView", mock.Anything).Return(nil, errViewMissing)
	repo.analytics.On("BreakdownFromLegacyView", mock.Anything).Return(nil, errViewMissing)
	repo.survey.On("AllResponses", mock.Anything).Return(raw, nil)

	result, err := svc.GetSummary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "raw_responses", result.Source)

	for _, question := range result.Questions {
		if question.QuestionID != "gender" {
			continue
		}
		require.Len(t, question.Answers, 2)
		assert.InDelta(t, 66.67, question.Answers[0].Percentage, 0.01)
		assert.InDelta(t, 33.33, question.Answers[1].Percentage, 0.01)
	}
}

func TestGetSummary_EmptyDatabaseIsNotAnError(t *testing.T) {
	repo, svc := newAnalyticsFixture(true)

	repo.survey.On("Count", mock.Anything).Return(int64(0), nil)
	repo.analytics.On("BreakdownFromCleanView", mock.Anything).Return([]models.AnalyticsSummary{}, nil)
	repo.analytics.On("BreakdownFromFunction", mock.Anything).Return([]models.AnalyticsSummary{}, nil)
	repo.analytics.On("BreakdownFromNewView", mock.Anything).Return([]models.AnalyticsSummary{}, nil)
	repo.analytics.On("BreakdownFromLegacyView", mock.Anything).Return([]models.AnalyticsSummary{}, nil)
	repo.survey.On("AllResponses", mock.Anything).Return([]models.SurveyResponse{}, nil)

	result, err := svc.GetSummary(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(0), result.TotalRespondents)
	assert.Equal(t, "empty", result.Source)
	assert.Len(t, result.Questions, catalog.Size())
}

func TestGetDemographics_FromCrossTab(t *testing.T) {
	repo, svc := newAnalyticsFixture(true)

	crossTab := []models.DemographicsAnalysis{
		{Gender: "Laki-laki", AgeGroup: "13-15 tahun", RespondentCount: 3},
		{Gender: "Perempuan", AgeGroup: "13-15 tahun", RespondentCount: 5},
		{Gender: "Perempuan", AgeGroup: "16-18 tahun", RespondentCount: 2},
	}

	repo.survey.On("Count", mock.Anything).Return(int64(10), nil)
	repo.analytics.On("DemographicsFromView", mock.Anything).Return(crossTab, nil)

	report, err := svc.GetDemographics(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "demographics_analysis", report.Source)
	require.Len(t, report.Gender, 2)
	assert.Equal(t, 7, report.Gender[1].Count) // Perempuan
	assert.InDelta(t, 70.0, report.Gender[1].Percentage, 0.01)
	require.Len(t, report.AgeGroup, 2)
}

func TestGetDemographics_RawFallback(t *testing.T) {
	repo, svc := newAnalyticsFixture(true)

	repo.survey.On("Count", mock.Anything).Return(int64(2), nil)
	repo.analytics.On("DemographicsFromView", mock.Anything).Return(nil, errViewMissing)
	repo.survey.On("ResponsesByQuestion", mock.Anything, "gender").Return([]models.SurveyResponse{
		{QuestionID: "gender", AnswerValue: "male", AnswerLabel: "Laki-laki"},
		{QuestionID: "gender", AnswerValue: "female", AnswerLabel: "Perempuan"},
	}, nil)
	repo.survey.On("ResponsesByQuestion", mock.Anything, "age").Return([]models.SurveyResponse{
		{QuestionID: "age", AnswerValue: "13-15", AnswerLabel: "13-15 tahun"},
		{QuestionID: "age", AnswerValue: "13-15", AnswerLabel: "13-15 tahun"},
	}, nil)

	report, err := svc.GetDemographics(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "raw_responses", report.Source)
	require.Len(t, report.Gender, 2)
	require.Len(t, report.AgeGroup, 1)
	assert.InDelta(t, 100.0, report.AgeGroup[0].Percentage, 0.01)
}

func TestGetRespondents_GroupsViewRows(t *testing.T) {
	repo, svc := newAnalyticsFixture(true)

	now := time.Now()
	rows := []models.IndividualResponseRow{
		{SurveyID: "s1", RespondentCode: "A02", CompletedAt: now, QuestionID: "gender", QuestionOrder: 1},
		{SurveyID: "s1", RespondentCode: "A02", CompletedAt: now, QuestionID: "age", QuestionOrder: 2},
		{SurveyID: "s2", RespondentCode: "A01", CompletedAt: now.Add(-time.Hour), QuestionID: "gender", QuestionOrder: 1},
	}
	repo.analytics.On("IndividualFromView", mock.Anything).Return(rows, nil)

	records, err := svc.GetRespondents(context.Background())
	require.NoError(t, err)

	require.Len(t, records, 2)
	assert.Equal(t, "A02", records[0].RespondentCode)
	assert.Equal(t, 2, records[0].TotalQuestions)
	assert.Equal(t, "A01", records[1].RespondentCode)
}

func TestGetRespondents_SurveyWalkFallback(t *testing.T) {
	repo, svc := newAnalyticsFixture(true)

	surveys := []*models.Survey{
		{ID: "s1", RespondentCode: "A01", CompletedAt: time.Now()},
	}
	repo.analytics.On("IndividualFromView", mock.Anything).Return(nil, errViewMissing)
	repo.survey.On("ListNewestFirst", mock.Anything, repositories.SurveyFilters{}).
		Return(surveys, int64(1), nil)
	repo.survey.On("ResponsesBySurvey", mock.Anything, "s1").
		Return([]models.SurveyResponse{{QuestionID: "gender"}}, nil)

	records, err := svc.GetRespondents(context.Background())
	require.NoError(t, err)

	require.Len(t, records, 1)
	assert.Equal(t, "A01", records[0].RespondentCode)
	assert.Equal(t, 1, records[0].TotalQuestions)
}

func TestSearchByRespondentCode_Uppercases(t *testing.T) {
	repo, svc := newAnalyticsFixture(true)

	repo.survey.On("SearchByRespondentCode", mock.Anything, "A01").
		Return([]*models.Survey{{ID: "s1", RespondentCode: "A01"}}, nil)
	repo.survey.On("ResponsesBySurvey", mock.Anything, "s1").
		Return([]models.SurveyResponse{}, nil)

	records, err := svc.SearchByRespondentCode(context.Background(), "  a01 ")
	require.NoError(t, err)
	require.Len(t, records, 1)

	repo.survey.AssertCalled(t, "SearchByRespondentCode", mock.Anything, "A01")
}

func TestGetDashboard_AssemblesAllSections(t *testing.T) {
	repo, svc := newAnalyticsFixture(true)

	repo.survey.On("Count", mock.Anything).Return(int64(10), nil)
	repo.analytics.On("BreakdownFromCleanView", mock.Anything).Return(cleanRows(), nil)
	repo.analytics.On("DemographicsFromView", mock.Anything).Return([]models.DemographicsAnalysis{
		{Gender: "Perempuan", AgeGroup: "13-15 tahun", RespondentCount: 10},
	}, nil)
	repo.analytics.On("IndividualFromView", mock.Anything).Return([]models.IndividualResponseRow{
		{SurveyID: "s1", RespondentCode: "A01", QuestionID: "gender"},
	}, nil)

	dashboard, err := svc.GetDashboard(context.Background())
	require.NoError(t, err)

	assert.NotNil(t, dashboard.Summary)
	assert.NotNil(t, dashboard.Demographics)
	assert.Len(t, dashboard.Respondents, 1)
}

func TestGetDashboard_SectionFailureIsIsolated(t *testing.T) {
	repo, svc := newAnalyticsFixture(true)

	// Every summary tier is down; demographics and respondents still load.
	repo.survey.On("Count", mock.Anything).Return(int64(10), nil)
	repo.analytics.On("BreakdownFromCleanView", mock.Anything).Return(nil, errViewMissing)
	repo.analytics.On("BreakdownFromFunction", mock.Anything).Return(nil, errViewMissing)
	repo.analytics.On("BreakdownFromNewView", mock.Anything).Return(nil, errViewMissing)
	repo.analytics.On("BreakdownFromLegacyView", mock.Anything).Return(nil, errViewMissing)
	repo.survey.On("AllResponses", mock.Anything).Return(nil, errViewMissing)
	repo.analytics.On("DemographicsFromView", mock.Anything).Return([]models.DemographicsAnalysis{
		{Gender: "Perempuan", AgeGroup: "13-15 tahun", RespondentCount: 10},
	}, nil)
	repo.analytics.On("IndividualFromView", mock.Anything).Return([]models.IndividualResponseRow{
		{SurveyID: "s1", RespondentCode: "A01", QuestionID: "gender"},
	}, nil)

	dashboard, err := svc.GetDashboard(context.Background())
	require.NoError(t, err)
	require.NotNil(t, dashboard)

	assert.Nil(t, dashboard.Summary)
	require.Contains(t, dashboard.Errors, "summary")
	assert.NotEmpty(t, dashboard.Errors["summary"])

	assert.NotNil(t, dashboard.Demographics)
	assert.Len(t, dashboard.Respondents, 1)
}

func TestGetDashboard_AllSectionsFailed(t *testing.T) {
	repo, svc := newAnalyticsFixture(true)

	dbDown := errors.New("connection refused")
	repo.survey.On("Count", mock.Anything).Return(int64(0), dbDown)
	repo.analytics.On("IndividualFromView", mock.Anything).Return(nil, dbDown)
	repo.survey.On("ListNewestFirst", mock.Anything, repositories.SurveyFilters{}).
		Return(nil, int64(0), dbDown)

	dashboard, err := svc.GetDashboard(context.Background())
	assert.Nil(t, dashboard)

	var persistenceErr *PersistenceError
	require.ErrorAs(t, err, &persistenceErr)
}

func TestGetDashboard_NotConfigured(t *testing.T) {
	_, svc := newAnalyticsFixture(false)

	_, err := svc.GetDashboard(context.Background())
	assert.ErrorIs(t, err, ErrNotConfigured)
}
