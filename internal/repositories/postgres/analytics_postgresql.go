package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/pojokcurhat/survey-service/internal/models"
	"github.com/pojokcurhat/survey-service/internal/repositories"
)

// AnalyticsPostgreSQL reads the aggregation views. Deployments differ in
// which views exist, so each tier is a separate method and the service
// decides the fallback order.
type AnalyticsPostgreSQL struct {
	db *gorm.DB
}

func NewAnalyticsPostgreSQL(db *gorm.DB) repositories.AnalyticsRepository {
	return &AnalyticsPostgreSQL{db: db}
}

// BreakdownFromCleanView reads the clean_analytics view.
func (a *AnalyticsPostgreSQL) BreakdownFromCleanView(ctx context.Context) ([]models.AnalyticsSummary, error) {
	var rows []models.AnalyticsSummary
	err := a.db.WithContext(ctx).
		Raw(`SELECT question_id, question_text, answer_value, answer_label, response_count, percentage
		     FROM clean_analytics
		     ORDER BY question_id, answer_value`).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// BreakdownFromFunction calls the get_analytics_summary database function.
func (a *AnalyticsPostgreSQL) BreakdownFromFunction(ctx context.Context) ([]models.AnalyticsSummary, error) {
	var rows []models.AnalyticsSummary
	err := a.db.WithContext(ctx).
		Raw(`SELECT question_id, question_text, answer_value, answer_label, response_count, percentage
		     FROM get_analytics_summary()`).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// BreakdownFromNewView reads the survey_analytics_new view.
func (a *AnalyticsPostgreSQL) BreakdownFromNewView(ctx context.Context) ([]models.AnalyticsSummary, error) {
	var rows []models.AnalyticsSummary
	err := a.db.WithContext(ctx).
		Raw(`SELECT question_id, question_text, answer_value, answer_label, response_count, percentage
		     FROM survey_analytics_new
		     ORDER BY question_id, answer_value`).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// BreakdownFromLegacyView reads the original analytics_summary view, which
// lacks answer labels and percentages.
func (a *AnalyticsPostgreSQL) BreakdownFromLegacyView(ctx context.Context) ([]models.AnalyticsSummary, error) {
	var rows []models.AnalyticsSummary
	err := a.db.WithContext(ctx).
		Raw(`SELECT question_id, question_text, answer_value, response_count
		     FROM analytics_summary
		     ORDER BY question_id, answer_value`).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// DemographicsFromView reads the demographics_analysis view.
func (a *AnalyticsPostgreSQL) DemographicsFromView(ctx context.Context) ([]models.DemographicsAnalysis, error) {
	var rows []models.DemographicsAnalysis
	err := a.db.WithContext(ctx).
		Raw(`SELECT gender, age_group, respondent_count
		     FROM demographics_analysis`).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// IndividualFromView reads the individual_responses view.
func (a *AnalyticsPostgreSQL) IndividualFromView(ctx context.Context) ([]models.IndividualResponseRow, error) {
	var rows []models.IndividualResponseRow
	err := a.db.WithContext(ctx).
		Raw(`SELECT survey_id, respondent_code, completed_at, question_id, question_text, answer_value, answer_label, question_order
		     FROM individual_responses
		     ORDER BY completed_at DESC, question_order ASC`).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
